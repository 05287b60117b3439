package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gstdesk/internal/domain"
	"gstdesk/internal/gst"
)

// MockFilingReturnRepo is a mock implementation of port.FilingReturnRepository.
type MockFilingReturnRepo struct {
	mock.Mock
}

func (m *MockFilingReturnRepo) Create(ctx context.Context, r *domain.FilingReturn) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockFilingReturnRepo) GetByID(ctx context.Context, businessID, returnID uuid.UUID) (*domain.FilingReturn, error) {
	args := m.Called(ctx, businessID, returnID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FilingReturn), args.Error(1)
}

func (m *MockFilingReturnRepo) List(ctx context.Context, businessID uuid.UUID, offset, limit int) ([]domain.FilingReturn, int, error) {
	args := m.Called(ctx, businessID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.FilingReturn), args.Int(1), args.Error(2)
}

func (m *MockFilingReturnRepo) ListAll(ctx context.Context, businessID uuid.UUID) ([]domain.FilingReturn, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FilingReturn), args.Error(1)
}

func (m *MockFilingReturnRepo) ListFiled(ctx context.Context, businessID uuid.UUID, period string, types []gst.ReturnType) ([]domain.FilingReturn, error) {
	args := m.Called(ctx, businessID, period, types)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FilingReturn), args.Error(1)
}

func (m *MockFilingReturnRepo) ListPendingDueBetween(ctx context.Context, from, to time.Time) ([]domain.FilingReturn, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FilingReturn), args.Error(1)
}

func (m *MockFilingReturnRepo) MarkFiled(ctx context.Context, r *domain.FilingReturn) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

// MockPaymentRepo is a mock implementation of port.PaymentRepository.
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepo) GetByID(ctx context.Context, businessID, paymentID uuid.UUID) (*domain.Payment, error) {
	args := m.Called(ctx, businessID, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepo) List(ctx context.Context, businessID uuid.UUID, offset, limit int) ([]domain.Payment, int, error) {
	args := m.Called(ctx, businessID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Payment), args.Int(1), args.Error(2)
}
