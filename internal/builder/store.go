package builder

import (
	"context"
	"fmt"

	"github.com/futig/rag-client/internal/config"
	"github.com/futig/rag-client/internal/repository"
	"github.com/futig/rag-client/internal/usecase/chat"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// sessionStore is a chat.SessionStore that owns resources.
type sessionStore interface {
	chat.SessionStore
	Close()
}

// setupSessionStore picks PostgreSQL when DATABASE_URL is set, memory otherwise.
// The memory store loses sessions on restart, which is fine for a single bot
// or gateway instance.
func setupSessionStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (sessionStore, error) {
	if cfg.DatabaseURL == "" {
		logger.Info("Using in-memory session store",
			zap.Duration("ttl", cfg.SessionCfg.TTL),
			zap.Duration("cleanup_interval", cfg.SessionCfg.CleanupInterval),
		)
		return repository.NewSessionMemory(cfg.SessionCfg.TTL, cfg.SessionCfg.CleanupInterval), nil
	}

	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Session schema is up to date")

	pool, err := openPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	logger.Info("Using PostgreSQL session store",
		zap.Int32("max_conns", pool.Config().MaxConns),
		zap.Int32("min_conns", pool.Config().MinConns),
	)
	return repository.NewSessionPostgres(pool), nil
}

func openPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.DBMaxConns)
	poolConfig.MinConns = int32(cfg.DBMinConns)
	poolConfig.MaxConnLifetime = cfg.DBMaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.DBMaxConnIdleTime
	poolConfig.HealthCheckPeriod = cfg.DBHealthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}
