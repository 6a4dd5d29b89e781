package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultTimeout  = 5 * time.Second
	defaultMaxConns = 10
)

//go:embed schema.sql
var schema string

// Config captures the settings for establishing a PostgreSQL pool.
type Config struct {
	DSN      string
	MaxConns int32
	Timeout  time.Duration
}

// Connect opens a pgx pool and validates connectivity with a ping.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	pcfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres config: %w", err)
	}
	pcfg.MaxConns = cfg.MaxConns
	if pcfg.MaxConns <= 0 {
		pcfg.MaxConns = defaultMaxConns
	}
	pcfg.MinConns = 1
	pcfg.MaxConnIdleTime = 5 * time.Minute
	pcfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the catalog tables when they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres schema: %w", err)
	}
	return nil
}
