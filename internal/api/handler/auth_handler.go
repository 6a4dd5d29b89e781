package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/animecatalog/catalog-api/internal/core/domain"
	"github.com/animecatalog/catalog-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Token exchanges the caller's credentials for a bearer token.
//
// @Summary      Issue a bearer token
// @Tags         auth
// @Produce      json
// @Security     BasicAuth
// @Success      200  {object}  tokenResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /auth/token [post]
func (h *AuthHandler) Token(c echo.Context) error {
	username, authorities, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	account := &domain.Account{Username: username, Authorities: authorities}
	token, expiresAt, err := h.authService.IssueToken(account)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tokenResponse{
		Token:       token,
		ExpiresAt:   expiresAt.UTC().Format(time.RFC3339),
		Username:    username,
		Authorities: authorities,
	})
}
