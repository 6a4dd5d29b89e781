package main

import (
	"context"
	"fmt"

	"github.com/animecatalog/catalog-api/internal/api/handler"
	"github.com/animecatalog/catalog-api/internal/core/ports"
	"github.com/animecatalog/catalog-api/internal/infrastructure/config"
	"github.com/animecatalog/catalog-api/internal/infrastructure/db/mongo"
	"github.com/animecatalog/catalog-api/internal/infrastructure/db/postgres"
	"github.com/animecatalog/catalog-api/internal/infrastructure/db/sqlite"
	"github.com/animecatalog/catalog-api/pkg/logger"
)

// store is the repository pair for the configured driver plus what is needed
// to ping and release it.
type store struct {
	entries  ports.EntryRepository
	accounts ports.AccountRepository
	health   handler.Dependency
	close    func()
}

// openStore expects logger.Init to have run.
func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	log := logger.Get()

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN, MaxConns: cfg.Postgres.MaxConns})
		if err != nil {
			return nil, err
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Str("driver", cfg.Store.Driver).Msg("connected to postgres")
		return &store{
			entries:  postgres.NewEntryRepository(pool),
			accounts: postgres.NewAccountRepository(pool),
			health:   handler.Dependency{Name: "postgres", Ping: pool.Ping},
			close:    pool.Close,
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		log.Info().Str("driver", cfg.Store.Driver).Str("path", cfg.SQLite.Path).Msg("opened sqlite")
		return &store{
			entries:  sqlite.NewEntryRepository(db),
			accounts: sqlite.NewAccountRepository(db),
			health:   handler.Dependency{Name: "sqlite", Ping: db.PingContext},
			close:    func() { _ = db.Close() },
		}, nil

	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		log.Info().Str("driver", cfg.Store.Driver).Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
		return &store{
			entries:  mongo.NewEntryRepository(db),
			accounts: mongo.NewAccountRepository(db),
			health: handler.Dependency{Name: "mongodb", Ping: func(ctx context.Context) error {
				return client.Ping(ctx, nil)
			}},
			close: func() { _ = client.Disconnect(context.Background()) },
		}, nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
}
