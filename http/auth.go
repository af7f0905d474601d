package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"ticketing/entity"
)

const userContextKey = "user"

// JWTAuth parses a Bearer token signed with HS256 and stores the identity it
// carries in the request context. The token's role claim becomes the user's
// capability.
func JWTAuth(secret string) echo.MiddlewareFunc {
	key := []byte(secret)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				return key, nil
			})
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}

			user := entity.User{
				ID:         stringClaim(claims, "sub"),
				Email:      stringClaim(claims, "email"),
				Name:       stringClaim(claims, "name"),
				Capability: entity.Capability(stringClaim(claims, "role")),
			}
			if user.ID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token has no subject")
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// RequireCapability rejects requests whose authenticated user cannot perform
// operations guarded by the given capability.
func RequireCapability(required entity.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get(userContextKey).(entity.User)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}
			if !user.Allows(required) {
				return entity.ErrPermission
			}
			return next(c)
		}
	}
}

func userFromContext(c echo.Context) entity.User {
	user, _ := c.Get(userContextKey).(entity.User)
	return user
}

func stringClaim(claims jwt.MapClaims, name string) string {
	value, _ := claims[name].(string)
	return value
}
