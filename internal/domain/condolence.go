package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Condolence is a guestbook entry left on a memorial
type Condolence struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	MemorialID   uuid.UUID  `json:"memorial_id" db:"memorial_id" validate:"required"`
	AuthorName   string     `json:"author_name" db:"author_name" validate:"required,min=1,max=120"`
	Relationship *string    `json:"relationship,omitempty" db:"relationship" validate:"omitempty,max=120"`
	Message      string     `json:"message" db:"message" validate:"required,min=1,max=5000"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// CondolenceRepository defines the interface for condolence data access
type CondolenceRepository interface {
	// Create stores a condolence; ErrNotFound if the memorial does not exist
	Create(ctx context.Context, condolence *Condolence) error

	// GetByID retrieves a condolence by ID (excludes soft-deleted)
	GetByID(ctx context.Context, id uuid.UUID) (*Condolence, error)

	// ListByMemorial retrieves a page of condolences for a memorial, newest first
	ListByMemorial(ctx context.Context, memorialID uuid.UUID, limit, offset int) ([]*Condolence, error)

	// Delete soft-deletes a condolence
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByMemorial returns the number of condolences on a memorial
	CountByMemorial(ctx context.Context, memorialID uuid.UUID) (int, error)
}
