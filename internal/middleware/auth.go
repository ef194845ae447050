package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type JWTClaims struct {
	UserID   uint   `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UsernameKey contextKey = "username"
)

func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := parseBearerToken(c, secret)
			if err != nil {
				return err
			}

			c.Set(string(UserIDKey), claims.UserID)
			c.Set(string(UsernameKey), claims.Username)
			return next(c)
		}
	}
}

// OptionalJWTAuth resolves the caller identity when a valid token is present
// but lets anonymous requests through untouched.
func OptionalJWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("Authorization") == "" {
				return next(c)
			}

			claims, err := parseBearerToken(c, secret)
			if err == nil {
				c.Set(string(UserIDKey), claims.UserID)
				c.Set(string(UsernameKey), claims.Username)
			}

			return next(c)
		}
	}
}

func parseBearerToken(c echo.Context, secret string) (*JWTClaims, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
	}

	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token signing method")
		}
		return []byte(secret), nil
	})

	if err != nil || !token.Valid {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}

	return claims, nil
}

func GetUserID(c echo.Context) (uint, bool) {
	userID, ok := c.Get(string(UserIDKey)).(uint)
	return userID, ok
}

func GetUsername(c echo.Context) (string, bool) {
	username, ok := c.Get(string(UsernameKey)).(string)
	return username, ok
}
