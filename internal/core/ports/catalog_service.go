package ports

import (
	"context"

	"github.com/animecatalog/catalog-api/internal/core/domain"
)

// CreateEntryInput carries the data needed to create an entry.
type CreateEntryInput struct {
	Name           string
	IdempotencyKey string
}

// ReplaceEntryInput carries a full replacement for an existing entry.
type ReplaceEntryInput struct {
	ID   int64
	Name string
}

// CreateEntryResult is returned by Create.
type CreateEntryResult struct {
	Entry domain.Entry
	// AlreadyExisted is true when the Idempotency-Key matched an earlier create.
	AlreadyExisted bool
}

// CatalogService defines use-case operations for catalog entries.
type CatalogService interface {
	ListAll(ctx context.Context, page domain.PageRequest) (*domain.EntryPage, error)
	ListAllUnpaged(ctx context.Context) ([]domain.Entry, error)
	FindByName(ctx context.Context, name string) ([]domain.Entry, error)
	FindByID(ctx context.Context, id int64) (*domain.Entry, error)
	Create(ctx context.Context, input CreateEntryInput) (*CreateEntryResult, error)
	Replace(ctx context.Context, input ReplaceEntryInput) error
	Delete(ctx context.Context, id int64) error
}
