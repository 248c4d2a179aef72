package builder

import (
	"context"
	"fmt"
	"time"

	"github.com/futig/behavior-profile/internal/config"
	"github.com/futig/behavior-profile/internal/pkg/retry"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// the journal database may come up after the service in local setups
var journalPingRetry = &retry.RetryConfig{
	Attempts: 5,
	Delay:    500 * time.Millisecond,
	MaxDelay: 5 * time.Second,
}

// journalPoolConfig maps the DB_* settings onto a pgx pool config
func journalPoolConfig(cfg *config.Config) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.DBMaxConns)
	poolConfig.MinConns = int32(cfg.DBMinConns)
	poolConfig.MaxConnLifetime = cfg.DBMaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.DBMaxConnIdleTime
	poolConfig.HealthCheckPeriod = cfg.DBHealthCheckPeriod

	return poolConfig, nil
}

// setupDatabase opens the submission journal pool and waits until it answers
func setupDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := journalPoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	attempt := 0
	err = retry.Do(ctx, journalPingRetry, func(error) bool { return true }, func() error {
		attempt++
		if pingErr := pool.Ping(ctx); pingErr != nil {
			logger.Warn("journal database not reachable yet",
				zap.Int("attempt", attempt),
				zap.Error(pingErr),
			)
			return pingErr
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("journal connection pool established",
		zap.Int32("max_conns", poolConfig.MaxConns),
		zap.Int32("min_conns", poolConfig.MinConns),
		zap.Duration("max_conn_lifetime", poolConfig.MaxConnLifetime),
	)

	return pool, nil
}
