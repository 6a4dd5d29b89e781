package ports

import (
	"context"

	"github.com/animecatalog/catalog-api/internal/core/domain"
)

// AccountRepository defines the interface for account persistence.
type AccountRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) error
}
