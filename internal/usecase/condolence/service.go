package condolence

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/domain"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/pkg/logger"
	pkgvalidator "github.com/owntheclimb/jewishobituarymigration-sub004/internal/pkg/validator"
)

// EventsSubject is the subject guestbook events are published on
const EventsSubject = "memorials.events"

// Event types
const (
	EventCreated = "condolence.created"
	EventDeleted = "condolence.deleted"
)

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// ListCache caches pages of a memorial's guestbook
type ListCache interface {
	GetCondolencesList(ctx context.Context, memorialID uuid.UUID, limit, offset int) ([]*domain.Condolence, error)
	SetCondolencesList(ctx context.Context, memorialID uuid.UUID, limit, offset int, condolences []*domain.Condolence) error
	InvalidateMemorialCache(ctx context.Context, memorialID uuid.UUID) error
}

// Event represents a change to a memorial's guestbook
type Event struct {
	EventType  string             `json:"event_type"`
	Timestamp  time.Time          `json:"timestamp"`
	MemorialID uuid.UUID          `json:"memorial_id"`
	Condolence *domain.Condolence `json:"condolence"`
}

// Service handles guestbook business logic with caching and event publishing
type Service struct {
	repo      domain.CondolenceRepository
	cache     ListCache
	publisher EventPublisher
	validate  *validator.Validate
	logger    *logger.Logger
}

// NewService creates a new condolence service
func NewService(
	repo domain.CondolenceRepository,
	cache ListCache,
	publisher EventPublisher,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		validate:  pkgvalidator.Get(),
		logger:    log,
	}
}

// Create stores a guestbook entry on an existing memorial
func (s *Service) Create(ctx context.Context, condolence *domain.Condolence) error {
	condolence.AuthorName = strings.TrimSpace(condolence.AuthorName)
	condolence.Message = strings.TrimSpace(condolence.Message)

	if err := s.validate.Struct(condolence); err != nil {
		s.logger.WithFields(map[string]any{
			"fields": pkgvalidator.Fields(err),
		}).Warn("Condolence validation failed")
		return domain.ErrInvalidInput
	}

	if err := s.repo.Create(ctx, condolence); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("Failed to create condolence", err)
		}
		return err
	}

	// Cached pages would hide the new entry until they expire
	if err := s.cache.InvalidateMemorialCache(ctx, condolence.MemorialID); err != nil {
		s.logger.Warnf("Failed to invalidate cache for memorial %s: %v", condolence.MemorialID, err)
	}

	s.publishEvent(EventCreated, condolence)

	s.logger.WithFields(map[string]any{
		"condolence_id": condolence.ID,
		"memorial_id":   condolence.MemorialID,
	}).Info("Condolence created successfully")

	return nil
}

// GetByID retrieves a condolence by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Condolence, error) {
	condolence, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Debugf("Condolence not found: %s", id)
		} else {
			s.logger.Error("Failed to get condolence", err)
		}
		return nil, err
	}

	return condolence, nil
}

// ListByMemorial retrieves a page of a memorial's guestbook with caching
func (s *Service) ListByMemorial(ctx context.Context, memorialID uuid.UUID, limit, offset int) ([]*domain.Condolence, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	condolences, err := s.cache.GetCondolencesList(ctx, memorialID, limit, offset)
	if err == nil {
		s.logger.Debugf("Cache hit for memorial %s condolences (limit=%d, offset=%d)", memorialID, limit, offset)
		total, err := s.repo.CountByMemorial(ctx, memorialID)
		if err != nil {
			s.logger.Error("Failed to count condolences", err)
			return nil, 0, err
		}
		return condolences, total, nil
	}

	s.logger.Debugf("Cache miss for memorial %s condolences (limit=%d, offset=%d)", memorialID, limit, offset)
	condolences, err = s.repo.ListByMemorial(ctx, memorialID, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list condolences", err)
		return nil, 0, err
	}

	total, err := s.repo.CountByMemorial(ctx, memorialID)
	if err != nil {
		s.logger.Error("Failed to count condolences", err)
		return nil, 0, err
	}

	if err := s.cache.SetCondolencesList(ctx, memorialID, limit, offset, condolences); err != nil {
		s.logger.Warnf("Failed to cache condolences for memorial %s (limit=%d, offset=%d): %v", memorialID, limit, offset, err)
	}

	return condolences, total, nil
}

// Delete soft-deletes a condolence
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	// The memorial ID is only stored on the condolence row
	condolence, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("Failed to get condolence for deletion", err)
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete condolence", err)
		return err
	}

	if err := s.cache.InvalidateMemorialCache(ctx, condolence.MemorialID); err != nil {
		s.logger.Warnf("Failed to invalidate cache for memorial %s: %v", condolence.MemorialID, err)
	}

	s.publishEvent(EventDeleted, condolence)

	s.logger.WithFields(map[string]any{
		"condolence_id": id,
		"memorial_id":   condolence.MemorialID,
	}).Info("Condolence deleted successfully")

	return nil
}

// publishEvent publishes a guestbook event without blocking the request
func (s *Service) publishEvent(eventType string, condolence *domain.Condolence) {
	if s.publisher == nil {
		return
	}

	event := Event{
		EventType:  eventType,
		Timestamp:  time.Now(),
		MemorialID: condolence.MemorialID,
		Condolence: condolence,
	}

	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Errorf(err, "Failed to marshal event for condolence %s", condolence.ID)
		return
	}

	go func() {
		if err := s.publisher.Publish(context.Background(), EventsSubject, data); err != nil {
			s.logger.Errorf(err, "Failed to publish event for condolence %s", condolence.ID)
		}
	}()
}
