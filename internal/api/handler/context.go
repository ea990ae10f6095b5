package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/timetracer/timetracer-api/internal/api/middleware"
	"github.com/timetracer/timetracer-api/internal/core/domain"
)

// ctxClaims extracts the typed claims injected by the Auth middleware and
// fails fast when they are missing: presence of a subject proves the
// middleware ran and validated the token.
func ctxClaims(c echo.Context) (domain.Claims, error) {
	claims, ok := c.Get(middleware.ClaimsKey).(domain.Claims)
	if !ok || claims.SubjectID == "" {
		return domain.Claims{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}
