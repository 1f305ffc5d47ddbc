package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Preload   PreloadConfig
	Recommend RecommendConfig
	Platforms PlatformsConfig
}

type AppConfig struct {
	Name         string
	Version      string
	Environment  string
	AdminKeyHash string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

type CacheConfig struct {
	TTL           time.Duration
	Capacity      int
	SweepInterval time.Duration
}

type PreloadConfig struct {
	CriticalCount  int
	BatchSize      int
	IdleDelay      time.Duration
	FetchTimeout   time.Duration
	ViewportMargin int
	Threshold      float64
}

type RecommendConfig struct {
	Limit int
}

// Each platform has its own credential shape; an adapter runs in demo mode
// until its full set is present.
type PlatformsConfig struct {
	Amazon   AmazonConfig
	Flipkart FlipkartConfig
	Myntra   MyntraConfig
	Ajio     AjioConfig
	Nykaa    NykaaConfig
	Meesho   MeeshoConfig
}

type AmazonConfig struct {
	AccessKey  string
	PartnerTag string
	BaseURL    string
}

type FlipkartConfig struct {
	AffiliateID string
	Token       string
	BaseURL     string
}

type MyntraConfig struct {
	APIKey  string
	BaseURL string
}

type AjioConfig struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
}

type NykaaConfig struct {
	APIKey  string
	BaseURL string
}

type MeeshoConfig struct {
	Username string
	Password string
	BaseURL  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:         getEnv("APP_NAME", "PriceKart API"),
			Version:      getEnv("APP_VERSION", "1.0.0"),
			Environment:  getEnv("APP_ENV", "development"),
			AdminKeyHash: getEnv("APP_ADMIN_KEY_HASH", ""),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "pricekart"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", ""),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
		},
		Cache: CacheConfig{
			TTL:           getEnvDuration("CACHE_TTL", 5*time.Minute),
			Capacity:      getEnvInt("CACHE_CAPACITY", 100),
			SweepInterval: getEnvDuration("CACHE_SWEEP_INTERVAL", time.Minute),
		},
		Preload: PreloadConfig{
			CriticalCount:  getEnvInt("PRELOAD_CRITICAL_COUNT", 6),
			BatchSize:      getEnvInt("PRELOAD_BATCH_SIZE", 6),
			IdleDelay:      getEnvDuration("PRELOAD_IDLE_DELAY", 200*time.Millisecond),
			FetchTimeout:   getEnvDuration("PRELOAD_FETCH_TIMEOUT", 10*time.Second),
			ViewportMargin: getEnvInt("PRELOAD_VIEWPORT_MARGIN", 300),
			Threshold:      0.01,
		},
		Recommend: RecommendConfig{
			Limit: getEnvInt("RECOMMEND_LIMIT", 4),
		},
		Platforms: PlatformsConfig{
			Amazon: AmazonConfig{
				AccessKey:  getEnv("AMAZON_ACCESS_KEY", ""),
				PartnerTag: getEnv("AMAZON_PARTNER_TAG", ""),
				BaseURL:    getEnv("AMAZON_BASE_URL", "https://webservices.amazon.in/paapi5"),
			},
			Flipkart: FlipkartConfig{
				AffiliateID: getEnv("FLIPKART_AFFILIATE_ID", ""),
				Token:       getEnv("FLIPKART_TOKEN", ""),
				BaseURL:     getEnv("FLIPKART_BASE_URL", "https://affiliate-api.flipkart.net/affiliate"),
			},
			Myntra: MyntraConfig{
				APIKey:  getEnv("MYNTRA_API_KEY", ""),
				BaseURL: getEnv("MYNTRA_BASE_URL", "https://api.myntra.com/gateway/v2"),
			},
			Ajio: AjioConfig{
				ClientID:     getEnv("AJIO_CLIENT_ID", ""),
				ClientSecret: getEnv("AJIO_CLIENT_SECRET", ""),
				BaseURL:      getEnv("AJIO_BASE_URL", "https://www.ajio.com/api"),
			},
			Nykaa: NykaaConfig{
				APIKey:  getEnv("NYKAA_API_KEY", ""),
				BaseURL: getEnv("NYKAA_BASE_URL", "https://www.nykaafashion.com/rest/appapi/V2"),
			},
			Meesho: MeeshoConfig{
				Username: getEnv("MEESHO_API_USERNAME", ""),
				Password: getEnv("MEESHO_API_PASSWORD", ""),
				BaseURL:  getEnv("MEESHO_BASE_URL", "https://meesho.com/api/v1"),
			},
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	if cfg.Cache.Capacity <= 0 {
		return nil, errors.New("cache capacity must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}

	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}

	return defaultVal
}
