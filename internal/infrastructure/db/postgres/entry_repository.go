package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/animecatalog/catalog-api/internal/core/domain"
)

// EntryRepository implements ports.EntryRepository on PostgreSQL.
type EntryRepository struct {
	db *pgxpool.Pool
}

func NewEntryRepository(db *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{db: db}
}

func orderBy(p domain.PageRequest) string {
	col := "id"
	if p.SortBy == domain.SortByName {
		col = "name"
	}
	dir := "ASC"
	if p.Descending {
		dir = "DESC"
	}
	// id breaks ties so pages stay stable when sorting by name.
	return fmt.Sprintf("ORDER BY %s %s, id ASC", col, dir)
}

func (r *EntryRepository) List(ctx context.Context, p domain.PageRequest) ([]domain.Entry, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM catalog_entries`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count entries: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, name FROM catalog_entries `+orderBy(p)+` LIMIT $1 OFFSET $2`,
		p.Size, p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list entries: %w", err)
	}
	entries, err := collectEntries(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *EntryRepository) ListAll(ctx context.Context) ([]domain.Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT id, name FROM catalog_entries ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list all entries: %w", err)
	}
	return collectEntries(rows)
}

func (r *EntryRepository) FindByID(ctx context.Context, id int64) (*domain.Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var e domain.Entry
	err := r.db.QueryRow(ctx, `SELECT id, name FROM catalog_entries WHERE id = $1`, id).Scan(&e.ID, &e.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, fmt.Errorf("find entry: %w", err)
	}
	return &e, nil
}

func (r *EntryRepository) FindByName(ctx context.Context, name string) ([]domain.Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT id, name FROM catalog_entries WHERE name = $1 ORDER BY id`, name)
	if err != nil {
		return nil, fmt.Errorf("find entries by name: %w", err)
	}
	return collectEntries(rows)
}

// Create inserts e inside a transaction and stores the generated id on e.
func (r *EntryRepository) Create(ctx context.Context, e *domain.Entry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `INSERT INTO catalog_entries (name) VALUES ($1) RETURNING id`, e.Name).Scan(&e.ID)
		if err != nil {
			return fmt.Errorf("insert entry: %w", err)
		}
		return nil
	})
}

func (r *EntryRepository) Update(ctx context.Context, e *domain.Entry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE catalog_entries SET name = $2 WHERE id = $1`, e.ID, e.Name)
		if err != nil {
			return fmt.Errorf("update entry: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrEntryNotFound
		}
		return nil
	})
}

func (r *EntryRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.db.Exec(ctx, `DELETE FROM catalog_entries WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

func collectEntries(rows pgx.Rows) ([]domain.Entry, error) {
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Entry, error) {
		var e domain.Entry
		err := row.Scan(&e.ID, &e.Name)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan entries: %w", err)
	}
	return entries, nil
}
