package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/domain"
)

// StatsRepository implements domain.StatsSource for PostgreSQL
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository creates a new PostgreSQL stats source
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// CountMemorials returns the number of published memorials
func (r *StatsRepository) CountMemorials(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM obituaries WHERE deleted_at IS NULL`)
	return count, err
}

// CountMemorialsByOrigin returns the number of published memorials with the given origin
func (r *StatsRepository) CountMemorialsByOrigin(ctx context.Context, origin string) (int, error) {
	query := `SELECT COUNT(*) FROM obituaries WHERE origin = $1 AND deleted_at IS NULL`

	var count int
	err := r.db.GetContext(ctx, &count, query, origin)
	return count, err
}

// CountActiveSources returns the number of sources currently scraped
func (r *StatsRepository) CountActiveSources(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM scrape_sources WHERE active = TRUE`)
	return count, err
}

// ListActiveSources returns up to limit active sources ordered by id
func (r *StatsRepository) ListActiveSources(ctx context.Context, limit int) ([]domain.Source, error) {
	query := `
		SELECT id, name, type, active
		FROM scrape_sources
		WHERE active = TRUE
		ORDER BY id
		LIMIT $1
	`

	sources := []domain.Source{}
	if err := r.db.SelectContext(ctx, &sources, query, limit); err != nil {
		return nil, err
	}

	return sources, nil
}
