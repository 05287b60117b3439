package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gstdesk/internal/domain"
	"gstdesk/internal/port"
)

// MockPurchaseRepo is a mock implementation of port.PurchaseRepository.
type MockPurchaseRepo struct {
	mock.Mock
}

func (m *MockPurchaseRepo) Create(ctx context.Context, p *domain.Purchase) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPurchaseRepo) GetByID(ctx context.Context, businessID, purchaseID uuid.UUID) (*domain.Purchase, error) {
	args := m.Called(ctx, businessID, purchaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Purchase), args.Error(1)
}

func (m *MockPurchaseRepo) List(ctx context.Context, businessID uuid.UUID, filter port.DocumentFilter) ([]domain.Purchase, int, error) {
	args := m.Called(ctx, businessID, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Purchase), args.Int(1), args.Error(2)
}

func (m *MockPurchaseRepo) ListInRange(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]domain.Purchase, error) {
	args := m.Called(ctx, businessID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Purchase), args.Error(1)
}

func (m *MockPurchaseRepo) Update(ctx context.Context, p *domain.Purchase) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPurchaseRepo) Delete(ctx context.Context, businessID, purchaseID uuid.UUID) error {
	args := m.Called(ctx, businessID, purchaseID)
	return args.Error(0)
}
