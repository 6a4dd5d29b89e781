package ports

import (
	"context"

	"github.com/animecatalog/catalog-api/internal/core/domain"
)

// EntryRepository defines persistence operations for catalog entries.
type EntryRepository interface {
	// List returns one page of entries and the total number of entries.
	List(ctx context.Context, page domain.PageRequest) ([]domain.Entry, int64, error)
	// ListAll returns every entry ordered by id.
	ListAll(ctx context.Context) ([]domain.Entry, error)
	// FindByID returns domain.ErrEntryNotFound when no entry has id.
	FindByID(ctx context.Context, id int64) (*domain.Entry, error)
	// FindByName matches name exactly. No match is an empty slice, not an error.
	FindByName(ctx context.Context, name string) ([]domain.Entry, error)
	// Create inserts e and sets e.ID to the store-assigned id.
	Create(ctx context.Context, e *domain.Entry) error
	// Update replaces the name of the entry with e.ID.
	// Returns domain.ErrEntryNotFound if the row is gone.
	Update(ctx context.Context, e *domain.Entry) error
	Delete(ctx context.Context, id int64) error
}
