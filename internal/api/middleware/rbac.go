package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/animecatalog/catalog-api/internal/api/metrics"
)

// RBAC lets the request through when the caller holds any of allowedRoles.
// It must run after Auth.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authorities, _ := c.Get(ContextAuthorities).([]string)
			for _, a := range authorities {
				if _, ok := allowed[a]; ok {
					return next(c)
				}
			}
			metrics.AuthFailuresTotal.WithLabelValues("forbidden").Inc()
			return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
		}
	}
}
