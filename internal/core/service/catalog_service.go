package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/animecatalog/catalog-api/internal/core/domain"
	"github.com/animecatalog/catalog-api/internal/core/ports"
)

// IdempotencyStore binds Idempotency-Key values to the entry they created.
type IdempotencyStore interface {
	Lookup(ctx context.Context, key string) (id int64, found bool, err error)
	Remember(ctx context.Context, key string, id int64) error
}

type CatalogService struct {
	repo   ports.EntryRepository
	idem   IdempotencyStore
	logger zerolog.Logger
}

// NewCatalogService returns a CatalogService. idem may be nil, in which case
// Idempotency-Key values are ignored.
func NewCatalogService(repo ports.EntryRepository, idem IdempotencyStore, logger zerolog.Logger) *CatalogService {
	return &CatalogService{repo: repo, idem: idem, logger: logger}
}

func (s *CatalogService) ListAll(ctx context.Context, page domain.PageRequest) (*domain.EntryPage, error) {
	entries, total, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	if entries == nil {
		entries = []domain.Entry{}
	}
	return &domain.EntryPage{Content: entries, TotalElements: total, Request: page}, nil
}

func (s *CatalogService) ListAllUnpaged(ctx context.Context) ([]domain.Entry, error) {
	entries, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all entries: %w", err)
	}
	if entries == nil {
		entries = []domain.Entry{}
	}
	return entries, nil
}

func (s *CatalogService) FindByName(ctx context.Context, name string) ([]domain.Entry, error) {
	entries, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("find entries by name: %w", err)
	}
	if entries == nil {
		entries = []domain.Entry{}
	}
	return entries, nil
}

// FindByID returns the entry with id or domain.ErrEntryNotFound. Replace and
// Delete go through it so every single-entry operation fails the same way.
func (s *CatalogService) FindByID(ctx context.Context, id int64) (*domain.Entry, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, fmt.Errorf("find entry %d: %w", id, err)
	}
	return e, nil
}

// Create persists a new entry. If an idempotency key is provided and already
// bound to a live entry, that entry is returned without writing.
func (s *CatalogService) Create(ctx context.Context, input ports.CreateEntryInput) (*ports.CreateEntryResult, error) {
	if existing := s.replay(ctx, input.IdempotencyKey); existing != nil {
		return &ports.CreateEntryResult{Entry: *existing, AlreadyExisted: true}, nil
	}

	entry := entryFromCreate(input)
	if err := s.repo.Create(ctx, &entry); err != nil {
		s.logger.Error().Err(err).Msg("failed to create entry")
		return nil, fmt.Errorf("create entry: %w", err)
	}

	if input.IdempotencyKey != "" && s.idem != nil {
		if err := s.idem.Remember(ctx, input.IdempotencyKey, entry.ID); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", input.IdempotencyKey).Msg("failed to store idempotency key")
		}
	}

	s.logger.Info().Int64("entry_id", entry.ID).Str("name", entry.Name).Msg("entry created")
	return &ports.CreateEntryResult{Entry: entry}, nil
}

func (s *CatalogService) replay(ctx context.Context, key string) *domain.Entry {
	if key == "" || s.idem == nil {
		return nil
	}

	id, found, err := s.idem.Lookup(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed, creating anyway")
		return nil
	}
	if !found {
		return nil
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		// Entry deleted since the first create: treat the key as fresh.
		s.logger.Debug().Err(err).Str("idempotency_key", key).Int64("entry_id", id).Msg("idempotency key points to missing entry")
		return nil
	}

	s.logger.Info().Str("idempotency_key", key).Int64("entry_id", existing.ID).Msg("idempotent replay")
	return existing
}

// Replace overwrites the entry named by input.ID. The persisted id always
// comes from the stored record, never from the payload.
func (s *CatalogService) Replace(ctx context.Context, input ports.ReplaceEntryInput) error {
	saved, err := s.FindByID(ctx, input.ID)
	if err != nil {
		return err
	}

	entry := entryFromReplace(input)
	entry.ID = saved.ID

	if err := s.repo.Update(ctx, &entry); err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			return domain.ErrEntryNotFound
		}
		s.logger.Error().Err(err).Int64("entry_id", entry.ID).Msg("failed to replace entry")
		return fmt.Errorf("replace entry %d: %w", entry.ID, err)
	}

	s.logger.Info().Int64("entry_id", entry.ID).Str("name", entry.Name).Msg("entry replaced")
	return nil
}

func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	saved, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, saved.ID); err != nil {
		s.logger.Error().Err(err).Int64("entry_id", saved.ID).Msg("failed to delete entry")
		return fmt.Errorf("delete entry %d: %w", saved.ID, err)
	}

	s.logger.Info().Int64("entry_id", saved.ID).Msg("entry deleted")
	return nil
}
