package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/pkg/logger"
)

// Counter recomputes a memorial's condolence count from the condolences table
type Counter struct {
	db     *sqlx.DB
	logger *logger.Logger
}

// NewCounter creates a new condolence counter
func NewCounter(db *sqlx.DB, log *logger.Logger) *Counter {
	return &Counter{
		db:     db,
		logger: log,
	}
}

// Recount stores the number of live condolences on the memorial.
// A full recount repairs any drift left by dropped or duplicated events.
func (c *Counter) Recount(ctx context.Context, memorialID uuid.UUID) error {
	query := `
		UPDATE obituaries
		SET
			condolence_count = (
				SELECT COUNT(*)
				FROM condolences
				WHERE memorial_id = $1 AND deleted_at IS NULL
			),
			updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := c.db.ExecContext(ctx, query, memorialID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update condolence count: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		c.logger.WithFields(map[string]any{
			"memorial_id": memorialID.String(),
		}).Info("Memorial not found or deleted, skipping recount")
		return nil
	}

	c.logger.WithFields(map[string]any{
		"memorial_id": memorialID.String(),
	}).Info("Updated condolence count")

	return nil
}

// CurrentCount reads the stored count of a live memorial
func (c *Counter) CurrentCount(ctx context.Context, memorialID uuid.UUID) (int, error) {
	var count int
	query := `SELECT condolence_count FROM obituaries WHERE id = $1 AND deleted_at IS NULL`

	if err := c.db.GetContext(ctx, &count, query, memorialID); err != nil {
		return 0, fmt.Errorf("failed to get condolence count: %w", err)
	}
	return count, nil
}
