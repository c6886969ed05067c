package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Memorial represents an obituary page for a deceased person
type Memorial struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	FullName        string     `json:"full_name" db:"full_name" validate:"required,min=1,max=255"`
	HebrewName      *string    `json:"hebrew_name,omitempty" db:"hebrew_name" validate:"omitempty,max=255"`
	BirthDate       *time.Time `json:"birth_date,omitempty" db:"birth_date"`
	DeathDate       time.Time  `json:"death_date" db:"death_date" validate:"required"`
	City            string     `json:"city" db:"city" validate:"required,min=1,max=120"`
	Community       *string    `json:"community,omitempty" db:"community" validate:"omitempty,max=255"`
	Biography       *string    `json:"biography,omitempty" db:"biography" validate:"omitempty,max=20000"`
	Origin          string     `json:"origin" db:"origin" validate:"required,oneof=scraped submitted"`
	SourceID        *int64     `json:"source_id,omitempty" db:"source_id"`
	CondolenceCount int        `json:"condolence_count" db:"condolence_count"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// MemorialRepository defines the interface for memorial data access
type MemorialRepository interface {
	// Create stores a new memorial
	Create(ctx context.Context, memorial *Memorial) error

	// GetByID retrieves a memorial by ID (excludes soft-deleted)
	GetByID(ctx context.Context, id uuid.UUID) (*Memorial, error)

	// List retrieves a page of memorials, newest death date first
	List(ctx context.Context, limit, offset int) ([]*Memorial, error)

	// DeleteWithCondolences soft-deletes a memorial and its guestbook in one transaction
	DeleteWithCondolences(ctx context.Context, id uuid.UUID) error

	// Count returns the number of memorials (excludes soft-deleted)
	Count(ctx context.Context) (int, error)
}
