package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/timetracer/timetracer-api/internal/core/domain"
	"github.com/timetracer/timetracer-api/internal/core/ports"
	"github.com/timetracer/timetracer-api/internal/core/service"
)

// ClaimsKey is the echo context key under which the typed claims are stored.
const ClaimsKey = "claims"

// Auth validates the JWT, rejects revoked tokens, and injects a typed
// domain.Claims value into the request context. The role enum is validated
// here, at the decoding boundary, so handlers and services can trust it.
func Auth(jwtSecret string, revoker ports.TokenRevoker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := &service.TokenClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			if !domain.ValidRole(claims.Role) || claims.Subject == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "malformed token claims")
			}

			if revoker != nil && claims.ID != "" {
				if revoked, revErr := revoker.IsRevoked(c.Request().Context(), claims.ID); revErr == nil && revoked {
					return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
				}
			}

			c.Set(ClaimsKey, domain.Claims{
				SubjectID:  claims.Subject,
				Role:       claims.Role,
				Department: claims.Department,
				Name:       claims.Name,
				Email:      claims.Email,
				TokenID:    claims.ID,
			})

			return next(c)
		}
	}
}
