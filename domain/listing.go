package domain

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Platform identifies one upstream commerce source.
type Platform string

const (
	PlatformAmazon   Platform = "amazon"
	PlatformFlipkart Platform = "flipkart"
	PlatformMyntra   Platform = "myntra"
	PlatformAjio     Platform = "ajio"
	PlatformNykaa    Platform = "nykaa"
	PlatformMeesho   Platform = "meesho"
)

// AllPlatforms returns the platforms in adapter-registration order. The
// aggregator concatenates results in this order regardless of which adapter
// finishes first.
func AllPlatforms() []Platform {
	return []Platform{
		PlatformAmazon,
		PlatformFlipkart,
		PlatformMyntra,
		PlatformAjio,
		PlatformNykaa,
		PlatformMeesho,
	}
}

func ParsePlatform(s string) (Platform, error) {
	for _, p := range AllPlatforms() {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown platform %q", s)
}

type Category string

const (
	CategoryMen   Category = "men"
	CategoryWomen Category = "women"
	CategoryKids  Category = "kids"
)

func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryMen, CategoryWomen, CategoryKids:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// PriceListing is one platform's offer for a product.
type PriceListing struct {
	ProductName     string    `json:"product_name"`
	Price           float64   `json:"price"`
	OriginalPrice   float64   `json:"original_price"`
	DiscountPercent int       `json:"discount_percent"`
	SourceURL       string    `json:"source_url"`
	AffiliateURL    string    `json:"affiliate_url"`
	ImageURL        string    `json:"image_url"`
	InStock         bool      `json:"in_stock"`
	Rating          float64   `json:"rating"`
	ReviewCount     int       `json:"review_count"`
	Platform        Platform  `json:"platform"`
	FetchedAt       time.Time `json:"fetched_at"`
}

// DiscountPercent derives the discount from the two prices. Vendor-supplied
// discounts are never trusted; adapters always recompute through this.
func DiscountPercent(originalPrice, price float64) int {
	if originalPrice <= price || originalPrice <= 0 {
		return 0
	}
	return int(math.Round((originalPrice - price) / originalPrice * 100))
}

// Normalize clamps out-of-range fields and recomputes the derived discount.
func (l *PriceListing) Normalize() {
	if l.Price < 0 {
		l.Price = 0
	}
	if l.OriginalPrice < l.Price {
		l.OriginalPrice = l.Price
	}
	if l.Rating < 0 {
		l.Rating = 0
	}
	if l.Rating > 5 {
		l.Rating = 5
	}
	if l.ReviewCount < 0 {
		l.ReviewCount = 0
	}
	l.DiscountPercent = DiscountPercent(l.OriginalPrice, l.Price)
}

// AggregationRequest is the aggregator input and the cache/dedup key material.
type AggregationRequest struct {
	Query    string
	Category Category
}

// Signature returns a normalized key: parameters sorted by name and joined
// with a stable separator, so logically identical requests always map to the
// same cache/dedup entry.
func (r AggregationRequest) Signature() string {
	params := map[string]string{
		"category": string(r.Category),
		"q":        strings.ToLower(strings.TrimSpace(r.Query)),
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+params[k])
	}

	return "search|" + strings.Join(parts, "|")
}
