package ports

import (
	"context"
	"time"

	"github.com/animecatalog/catalog-api/internal/core/domain"
)

// Principal is the authenticated caller attached to a request.
type Principal struct {
	Username    string
	Authorities []string
}

type AuthService interface {
	// ResolveCredentials loads the account for username or returns
	// domain.ErrAccountNotFound.
	ResolveCredentials(ctx context.Context, username string) (*domain.Account, error)
	Authenticate(ctx context.Context, username, password string) (*domain.Account, error)
	IssueToken(account *domain.Account) (string, time.Time, error)
	VerifyToken(token string) (*Principal, error)
}
