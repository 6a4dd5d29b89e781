package service

import (
	"github.com/animecatalog/catalog-api/internal/core/domain"
	"github.com/animecatalog/catalog-api/internal/core/ports"
)

// entryFromCreate builds a new, not yet persisted entry. The id is left zero
// so the store assigns one.
func entryFromCreate(in ports.CreateEntryInput) domain.Entry {
	return domain.Entry{Name: in.Name}
}

func entryFromReplace(in ports.ReplaceEntryInput) domain.Entry {
	return domain.Entry{ID: in.ID, Name: in.Name}
}
