package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gstdesk/internal/gst"
	"gstdesk/internal/port"
)

// MockHSNRepo is a mock implementation of port.HSNRepository.
type MockHSNRepo struct {
	mock.Mock
}

func (m *MockHSNRepo) LoadAll(ctx context.Context) ([]port.HSNEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.HSNEntry), args.Error(1)
}

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendDueDateReminder(ctx context.Context, reminder port.DueDateReminder) error {
	args := m.Called(ctx, reminder)
	return args.Error(0)
}

// MockObjectStorage is a mock implementation of port.ObjectStorage.
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.UploadOutput), args.Error(1)
}

func (m *MockObjectStorage) Delete(ctx context.Context, bucket, key string) error {
	args := m.Called(ctx, bucket, key)
	return args.Error(0)
}

func (m *MockObjectStorage) GetPresignedURL(ctx context.Context, bucket, key string, expirySeconds int64) (string, error) {
	args := m.Called(ctx, bucket, key, expirySeconds)
	return args.String(0), args.Error(1)
}

// PassthroughCache is a port.LiabilityCache that always loads. Invalidations
// are recorded as mock calls.
type PassthroughCache struct {
	mock.Mock
}

func (m *PassthroughCache) Fetch(ctx context.Context, _ uuid.UUID, _ string, load func(context.Context) (gst.Liability, error)) (gst.Liability, error) {
	return load(ctx)
}

func (m *PassthroughCache) Invalidate(ctx context.Context, businessID uuid.UUID) error {
	args := m.Called(ctx, businessID)
	return args.Error(0)
}
