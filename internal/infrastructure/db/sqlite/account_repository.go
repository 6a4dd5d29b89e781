package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/animecatalog/catalog-api/internal/core/domain"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var (
		a           domain.Account
		authorities string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, name, password_hash, authorities FROM accounts WHERE username = ?`,
		username,
	).Scan(&a.ID, &a.Username, &a.Name, &a.PasswordHash, &authorities)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	a.Authorities = domain.ParseAuthorities(authorities)
	return &a, nil
}

func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (username, name, password_hash, authorities) VALUES (?, ?, ?, ?)`,
		a.Username, a.Name, a.PasswordHash, domain.JoinAuthorities(a.Authorities),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return domain.ErrAccountExists
		}
		return fmt.Errorf("insert account: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	a.ID = id
	return nil
}
