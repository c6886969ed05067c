package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/config"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/pkg/logger"
)

// NewPostgresDB opens a pooled PostgreSQL connection and pings it
func NewPostgresDB(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

// WaitForDB retries NewPostgresDB up to maxRetries times or until ctx ends
func WaitForDB(ctx context.Context, cfg *config.Config, maxRetries int, retryDelay time.Duration, log *logger.Logger) (*sqlx.DB, error) {
	var err error

	for i := 0; i < maxRetries; i++ {
		var db *sqlx.DB
		db, err = NewPostgresDB(ctx, cfg)
		if err == nil {
			return db, nil
		}

		log.WithFields(map[string]any{
			"attempt": i + 1,
			"host":    cfg.Database.Host,
		}).Warnf("Database not ready: %v", err)

		if i == maxRetries-1 {
			break
		}
		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("failed to connect to database after %d retries: %w", maxRetries, err)
}
