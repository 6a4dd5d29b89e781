package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/animecatalog/catalog-api/internal/core/domain"
)

type EntryRepository struct {
	db *sql.DB
}

func NewEntryRepository(db *sql.DB) *EntryRepository {
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
	return fmt.Sprintf("ORDER BY %s %s, id ASC", col, dir)
}

func (r *EntryRepository) List(ctx context.Context, p domain.PageRequest) ([]domain.Entry, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM catalog_entries`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count entries: %w", err)
	}

	entries, err := r.query(ctx, `SELECT id, name FROM catalog_entries `+orderBy(p)+` LIMIT ? OFFSET ?`, p.Size, p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list entries: %w", err)
	}
	return entries, total, nil
}

func (r *EntryRepository) ListAll(ctx context.Context) ([]domain.Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	entries, err := r.query(ctx, `SELECT id, name FROM catalog_entries ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list all entries: %w", err)
	}
	return entries, nil
}

func (r *EntryRepository) FindByID(ctx context.Context, id int64) (*domain.Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var e domain.Entry
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM catalog_entries WHERE id = ?`, id).Scan(&e.ID, &e.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, fmt.Errorf("find entry: %w", err)
	}
	return &e, nil
}

func (r *EntryRepository) FindByName(ctx context.Context, name string) ([]domain.Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	entries, err := r.query(ctx, `SELECT id, name FROM catalog_entries WHERE name = ? ORDER BY id`, name)
	if err != nil {
		return nil, fmt.Errorf("find entries by name: %w", err)
	}
	return entries, nil
}

func (r *EntryRepository) Create(ctx context.Context, e *domain.Entry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `INSERT INTO catalog_entries (name) VALUES (?)`, e.Name)
		if err != nil {
			return fmt.Errorf("insert entry: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert entry: %w", err)
		}
		e.ID = id
		return nil
	})
}

func (r *EntryRepository) Update(ctx context.Context, e *domain.Entry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE catalog_entries SET name = ? WHERE id = ?`, e.Name, e.ID)
		if err != nil {
			return fmt.Errorf("update entry: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update entry: %w", err)
		}
		if n == 0 {
			return domain.ErrEntryNotFound
		}
		return nil
	})
}

func (r *EntryRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM catalog_entries WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

func (r *EntryRepository) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (r *EntryRepository) query(ctx context.Context, query string, args ...any) ([]domain.Entry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	entries := []domain.Entry{}
	for rows.Next() {
		var e domain.Entry
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
