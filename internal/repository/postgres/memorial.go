package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/domain"
)

const memorialColumns = `id, full_name, hebrew_name, birth_date, death_date, city, community, biography,
		origin, source_id, condolence_count, created_at, updated_at, deleted_at`

// MemorialRepository implements domain.MemorialRepository for PostgreSQL
type MemorialRepository struct {
	db *sqlx.DB
}

// NewMemorialRepository creates a new PostgreSQL memorial repository
func NewMemorialRepository(db *sqlx.DB) *MemorialRepository {
	return &MemorialRepository{db: db}
}

// Create stores a new memorial
func (r *MemorialRepository) Create(ctx context.Context, memorial *domain.Memorial) error {
	query := `
		INSERT INTO obituaries (full_name, hebrew_name, birth_date, death_date, city, community, biography,
			origin, source_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, condolence_count, created_at, updated_at
	`

	now := time.Now()
	memorial.CreatedAt = now
	memorial.UpdatedAt = now

	return r.db.QueryRowxContext(
		ctx,
		query,
		memorial.FullName,
		memorial.HebrewName,
		memorial.BirthDate,
		memorial.DeathDate,
		memorial.City,
		memorial.Community,
		memorial.Biography,
		memorial.Origin,
		memorial.SourceID,
		memorial.CreatedAt,
		memorial.UpdatedAt,
	).Scan(
		&memorial.ID,
		&memorial.CondolenceCount,
		&memorial.CreatedAt,
		&memorial.UpdatedAt,
	)
}

// GetByID retrieves a memorial by ID
func (r *MemorialRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Memorial, error) {
	query := `SELECT ` + memorialColumns + `
		FROM obituaries
		WHERE id = $1 AND deleted_at IS NULL
	`

	var memorial domain.Memorial
	if err := r.db.GetContext(ctx, &memorial, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &memorial, nil
}

// List retrieves a page of memorials, most recent death first
func (r *MemorialRepository) List(ctx context.Context, limit, offset int) ([]*domain.Memorial, error) {
	query := `SELECT ` + memorialColumns + `
		FROM obituaries
		WHERE deleted_at IS NULL
		ORDER BY death_date DESC, created_at DESC
		LIMIT $1 OFFSET $2
	`

	memorials := []*domain.Memorial{}
	if err := r.db.SelectContext(ctx, &memorials, query, limit, offset); err != nil {
		return nil, err
	}

	return memorials, nil
}

// DeleteWithCondolences soft-deletes a memorial and its guestbook in one transaction
func (r *MemorialRepository) DeleteWithCondolences(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now()

	result, err := tx.ExecContext(ctx, `
		UPDATE obituaries
		SET deleted_at = $1
		WHERE id = $2 AND deleted_at IS NULL
	`, now, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE condolences
		SET deleted_at = $1
		WHERE memorial_id = $2 AND deleted_at IS NULL
	`, now, id); err != nil {
		return err
	}

	return tx.Commit()
}

// Count returns the total number of memorials
func (r *MemorialRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM obituaries WHERE deleted_at IS NULL`

	var count int
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, err
	}

	return count, nil
}
