package middleware

import (
	"context"
	"net/http"
	"priceKart/pkg/logger"
	"priceKart/pkg/utils"
	"strings"
	"time"

	jsonres "priceKart/pkg/response"

	"github.com/labstack/echo/v4"
)

// TokenValidator confirms a bearer token against the session store.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (string, error)
}

// AuthMiddleware verifies the bearer JWT supplied by the external auth
// service. The token is forwarded, never issued, here.
func AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, token, err := bearerClaims(c)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", err.Error(), nil,
				))
			}

			c.Set("user_id", claims.UserID)
			c.Set("role", claims.Role)
			c.Set("token", token)

			return next(c)
		}
	}
}

// AuthMiddlewareWithRedis additionally requires the session to still be live
// in Redis, so revoked admin tokens die before their JWT expiry.
func AuthMiddlewareWithRedis(validator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, token, err := bearerClaims(c)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", err.Error(), nil,
				))
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
			defer cancel()

			userID, err := validator.ValidateToken(ctx, token)
			if err != nil {
				logger.Warn("session validation failed", "error", err)
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Session expired or revoked", nil,
				))
			}

			c.Set("user_id", userID)
			c.Set("role", claims.Role)
			c.Set("token", token)

			return next(c)
		}
	}
}

// AdminOnly gates a route on the admin role, with a bcrypt-checked API key
// header as the break-glass alternative for operators without a session.
func AdminOnly(adminKeyHash string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if key := c.Request().Header.Get("X-Admin-Key"); key != "" && adminKeyHash != "" {
				if utils.CheckSecret(adminKeyHash, key) {
					return next(c)
				}
				return c.JSON(http.StatusForbidden, jsonres.Error(
					"FORBIDDEN", "Invalid admin key", nil,
				))
			}

			if role, ok := c.Get("role").(string); ok && role == "admin" {
				return next(c)
			}

			return c.JSON(http.StatusForbidden, jsonres.Error(
				"FORBIDDEN", "Admin access required", nil,
			))
		}
	}
}

func bearerClaims(c echo.Context) (*utils.JWTClaims, string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, "", errMissingAuth
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return nil, "", errBadAuthFormat
	}

	tokenString := tokenParts[1]

	claims, err := utils.ParseJWT(tokenString)
	if err != nil {
		return nil, "", errInvalidToken
	}

	expAt, err := claims.GetExpirationTime()
	if err != nil || time.Now().After(expAt.Time) {
		return nil, "", errInvalidToken
	}

	return claims, tokenString, nil
}
