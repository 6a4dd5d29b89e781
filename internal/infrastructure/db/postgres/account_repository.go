package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/animecatalog/catalog-api/internal/core/domain"
)

// uniqueViolation is the SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var (
		a           domain.Account
		authorities string
	)
	err := r.db.QueryRow(ctx,
		`SELECT id, username, name, password_hash, authorities FROM accounts WHERE username = $1`,
		username,
	).Scan(&a.ID, &a.Username, &a.Name, &a.PasswordHash, &authorities)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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

	err := r.db.QueryRow(ctx,
		`INSERT INTO accounts (username, name, password_hash, authorities) VALUES ($1, $2, $3, $4) RETURNING id`,
		a.Username, a.Name, a.PasswordHash, domain.JoinAuthorities(a.Authorities),
	).Scan(&a.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrAccountExists
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}
