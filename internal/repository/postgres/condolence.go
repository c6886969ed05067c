package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/domain"
)

// CondolenceRepository implements domain.CondolenceRepository for PostgreSQL
type CondolenceRepository struct {
	db *sqlx.DB
}

// NewCondolenceRepository creates a new PostgreSQL condolence repository
func NewCondolenceRepository(db *sqlx.DB) *CondolenceRepository {
	return &CondolenceRepository{db: db}
}

// Create stores a guestbook entry on a memorial
func (r *CondolenceRepository) Create(ctx context.Context, condolence *domain.Condolence) error {
	// Return domain.ErrNotFound instead of a foreign key violation
	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM obituaries WHERE id = $1 AND deleted_at IS NULL)`
	if err := r.db.GetContext(ctx, &exists, checkQuery, condolence.MemorialID); err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}

	query := `
		INSERT INTO condolences (memorial_id, author_name, relationship, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	return r.db.QueryRowxContext(
		ctx,
		query,
		condolence.MemorialID,
		condolence.AuthorName,
		condolence.Relationship,
		condolence.Message,
	).Scan(
		&condolence.ID,
		&condolence.CreatedAt,
		&condolence.UpdatedAt,
	)
}

// GetByID retrieves a condolence by ID
func (r *CondolenceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Condolence, error) {
	query := `
		SELECT id, memorial_id, author_name, relationship, message, created_at, updated_at, deleted_at
		FROM condolences
		WHERE id = $1 AND deleted_at IS NULL
	`

	var condolence domain.Condolence
	if err := r.db.GetContext(ctx, &condolence, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &condolence, nil
}

// ListByMemorial retrieves a page of a memorial's guestbook, newest first
func (r *CondolenceRepository) ListByMemorial(ctx context.Context, memorialID uuid.UUID, limit, offset int) ([]*domain.Condolence, error) {
	query := `
		SELECT id, memorial_id, author_name, relationship, message, created_at, updated_at, deleted_at
		FROM condolences
		WHERE memorial_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	condolences := []*domain.Condolence{}
	if err := r.db.SelectContext(ctx, &condolences, query, memorialID, limit, offset); err != nil {
		return nil, err
	}

	return condolences, nil
}

// Delete soft-deletes a condolence
func (r *CondolenceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE condolences
		SET deleted_at = $1
		WHERE id = $2 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
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

	return nil
}

// CountByMemorial returns the number of condolences on a memorial
func (r *CondolenceRepository) CountByMemorial(ctx context.Context, memorialID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM condolences WHERE memorial_id = $1 AND deleted_at IS NULL`

	var count int
	if err := r.db.GetContext(ctx, &count, query, memorialID); err != nil {
		return 0, err
	}

	return count, nil
}
