package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/animecatalog/catalog-api/internal/api"
	"github.com/animecatalog/catalog-api/internal/api/handler"
	"github.com/animecatalog/catalog-api/internal/core/service"
	"github.com/animecatalog/catalog-api/internal/infrastructure/config"
	"github.com/animecatalog/catalog-api/internal/infrastructure/db/redis"
	"github.com/animecatalog/catalog-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "catalog-api",
	})

	st, err := openStore(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Str("driver", cfg.Store.Driver).Msg("failed to open store")
		return err
	}
	defer st.close()

	health := []handler.Dependency{st.health}

	var idem service.IdempotencyStore
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("failed to connect to redis")
			return err
		}
		defer func() { _ = rdb.Close() }()

		idem = redis.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)
		health = append(health, handler.Dependency{Name: "redis", Ping: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
		log.Info().Str("addr", cfg.Redis.Addr).Msg("idempotency keys enabled")
	}

	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty, bearer tokens are disabled")
	}

	e := api.NewRouter(api.Deps{
		Logger:  log,
		Catalog: service.NewCatalogService(st.entries, idem, log),
		Auth:    service.NewAuthService(st.accounts, cfg.JWTSecret, cfg.TokenTTL),
		Health:  health,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("driver", cfg.Store.Driver).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			log.Error().Err(err).Msg("server failed")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return err
	}
	log.Info().Msg("server exited properly")
	return nil
}
