package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/domain"
)

// MockMemorialRepository is a mock implementation of domain.MemorialRepository
type MockMemorialRepository struct {
	mock.Mock
}

func (m *MockMemorialRepository) Create(ctx context.Context, memorial *domain.Memorial) error {
	args := m.Called(ctx, memorial)
	return args.Error(0)
}

func (m *MockMemorialRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Memorial, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Memorial), args.Error(1)
}

func (m *MockMemorialRepository) List(ctx context.Context, limit, offset int) ([]*domain.Memorial, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Memorial), args.Error(1)
}

func (m *MockMemorialRepository) DeleteWithCondolences(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMemorialRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockCondolenceRepository is a mock implementation of domain.CondolenceRepository
type MockCondolenceRepository struct {
	mock.Mock
}

func (m *MockCondolenceRepository) Create(ctx context.Context, condolence *domain.Condolence) error {
	args := m.Called(ctx, condolence)
	return args.Error(0)
}

func (m *MockCondolenceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Condolence, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Condolence), args.Error(1)
}

func (m *MockCondolenceRepository) ListByMemorial(ctx context.Context, memorialID uuid.UUID, limit, offset int) ([]*domain.Condolence, error) {
	args := m.Called(ctx, memorialID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Condolence), args.Error(1)
}

func (m *MockCondolenceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCondolenceRepository) CountByMemorial(ctx context.Context, memorialID uuid.UUID) (int, error) {
	args := m.Called(ctx, memorialID)
	return args.Int(0), args.Error(1)
}

// MockGuestbookCache is a mock implementation of the condolence list cache
type MockGuestbookCache struct {
	mock.Mock
}

func (m *MockGuestbookCache) GetCondolencesList(ctx context.Context, memorialID uuid.UUID, limit, offset int) ([]*domain.Condolence, error) {
	args := m.Called(ctx, memorialID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Condolence), args.Error(1)
}

func (m *MockGuestbookCache) SetCondolencesList(ctx context.Context, memorialID uuid.UUID, limit, offset int, condolences []*domain.Condolence) error {
	args := m.Called(ctx, memorialID, limit, offset, condolences)
	return args.Error(0)
}

func (m *MockGuestbookCache) InvalidateMemorialCache(ctx context.Context, memorialID uuid.UUID) error {
	args := m.Called(ctx, memorialID)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of condolence.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

// withURLParam attaches a chi URL parameter to the request
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
