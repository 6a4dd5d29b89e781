package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/animecatalog/catalog-api/internal/api/metrics"
	"github.com/animecatalog/catalog-api/internal/core/ports"
)

// Context keys set by Auth.
const (
	ContextUsername    = "username"
	ContextAuthorities = "authorities"
)

const basicChallenge = `Basic realm="catalog"`

// Auth authenticates the caller with HTTP Basic credentials or a Bearer token
// and injects the principal into context.
func Auth(authService ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return unauthorized(c, "missing_credentials", "missing authorization header")
			}

			scheme, credentials, _ := strings.Cut(authHeader, " ")
			switch {
			case strings.EqualFold(scheme, "basic"):
				username, password, ok := c.Request().BasicAuth()
				if !ok {
					return unauthorized(c, "invalid_credentials", "invalid authorization header")
				}
				account, err := authService.Authenticate(c.Request().Context(), username, password)
				if err != nil {
					return unauthorized(c, "invalid_credentials", "invalid credentials")
				}
				c.Set(ContextUsername, account.Username)
				c.Set(ContextAuthorities, account.Authorities)

			case strings.EqualFold(scheme, "bearer"):
				principal, err := authService.VerifyToken(strings.TrimSpace(credentials))
				if err != nil {
					return unauthorized(c, "invalid_token", "invalid token")
				}
				// Roles come from the stored account, not the token claims.
				account, err := authService.ResolveCredentials(c.Request().Context(), principal.Username)
				if err != nil {
					return unauthorized(c, "invalid_token", "invalid token")
				}
				c.Set(ContextUsername, account.Username)
				c.Set(ContextAuthorities, account.Authorities)

			default:
				return unauthorized(c, "invalid_credentials", "invalid authorization header")
			}

			return next(c)
		}
	}
}

func unauthorized(c echo.Context, reason, msg string) error {
	metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, basicChallenge)
	return echo.NewHTTPError(http.StatusUnauthorized, msg)
}
