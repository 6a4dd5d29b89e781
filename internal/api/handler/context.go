package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/animecatalog/catalog-api/internal/api/middleware"
)

// ctxPrincipal extracts the principal injected by the Auth middleware. An
// empty username means the middleware did not run.
func ctxPrincipal(c echo.Context) (username string, authorities []string, err error) {
	username, _ = c.Get(middleware.ContextUsername).(string)
	if username == "" {
		return "", nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	authorities, _ = c.Get(middleware.ContextAuthorities).([]string)
	return username, authorities, nil
}
