package memorial

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/domain"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/pkg/logger"
	pkgvalidator "github.com/owntheclimb/jewishobituarymigration-sub004/internal/pkg/validator"
)

// GuestbookCache drops cached condolence pages of a memorial
type GuestbookCache interface {
	InvalidateMemorialCache(ctx context.Context, memorialID uuid.UUID) error
}

// Service handles memorial business logic
type Service struct {
	repo     domain.MemorialRepository
	cache    GuestbookCache
	validate *validator.Validate
	logger   *logger.Logger
}

// NewService creates a new memorial service
func NewService(repo domain.MemorialRepository, cache GuestbookCache, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		validate: pkgvalidator.Get(),
		logger:   log,
	}
}

// Submit stores a memorial sent in by a family. The origin is always submitted.
func (s *Service) Submit(ctx context.Context, memorial *domain.Memorial) error {
	memorial.Origin = domain.OriginSubmitted
	memorial.SourceID = nil
	memorial.FullName = strings.TrimSpace(memorial.FullName)
	memorial.City = strings.TrimSpace(memorial.City)

	if err := s.validate.Struct(memorial); err != nil {
		s.logger.WithFields(map[string]any{
			"fields": pkgvalidator.Fields(err),
		}).Warn("Memorial validation failed")
		return domain.ErrInvalidInput
	}

	if memorial.BirthDate != nil && memorial.BirthDate.After(memorial.DeathDate) {
		s.logger.Warn("Memorial birth date is after death date")
		return domain.ErrInvalidInput
	}

	if err := s.repo.Create(ctx, memorial); err != nil {
		s.logger.Error("Failed to create memorial", err)
		return err
	}

	s.logger.WithFields(map[string]any{
		"memorial_id": memorial.ID,
		"city":        memorial.City,
	}).Info("Memorial submitted successfully")

	return nil
}

// GetByID retrieves a memorial by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Memorial, error) {
	memorial, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Debugf("Memorial not found: %s", id)
		} else {
			s.logger.Error("Failed to get memorial", err)
		}
		return nil, err
	}

	return memorial, nil
}

// List retrieves a paginated list of memorials and the total count
func (s *Service) List(ctx context.Context, limit, offset int) ([]*domain.Memorial, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	memorials, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list memorials", err)
		return nil, 0, err
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.Error("Failed to count memorials", err)
		return nil, 0, err
	}

	return memorials, total, nil
}

// Delete soft-deletes a memorial together with its guestbook
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteWithCondolences(ctx, id); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("Failed to delete memorial", err)
		}
		return err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateMemorialCache(ctx, id); err != nil {
			s.logger.Warnf("Failed to invalidate guestbook cache for memorial %s: %v", id, err)
		}
	}

	s.logger.WithFields(map[string]any{
		"memorial_id": id,
	}).Info("Memorial deleted successfully")

	return nil
}
