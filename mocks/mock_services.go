package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gstdesk/internal/domain"
	"gstdesk/internal/gst"
	"gstdesk/internal/service"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, input service.LoginInput) (*service.TokenPair, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TokenPair), args.Error(1)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (*service.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TokenPair), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

// MockBusinessService is a mock implementation of service.BusinessService.
type MockBusinessService struct {
	mock.Mock
}

func (m *MockBusinessService) Register(ctx context.Context, input service.RegisterBusinessInput) (*service.RegistrationResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RegistrationResult), args.Error(1)
}

func (m *MockBusinessService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Business, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Business), args.Error(1)
}

func (m *MockBusinessService) Update(ctx context.Context, id uuid.UUID, input service.UpdateBusinessInput) (*domain.Business, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Business), args.Error(1)
}

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Create(ctx context.Context, businessID uuid.UUID, input service.CreateUserInput) (*domain.User, error) {
	args := m.Called(ctx, businessID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, businessID, userID uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, businessID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context, businessID uuid.UUID, offset, limit int) ([]domain.User, int, error) {
	args := m.Called(ctx, businessID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.User), args.Int(1), args.Error(2)
}

func (m *MockUserService) Update(ctx context.Context, businessID, userID uuid.UUID, input service.UpdateUserInput) (*domain.User, error) {
	args := m.Called(ctx, businessID, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, businessID, userID uuid.UUID) error {
	args := m.Called(ctx, businessID, userID)
	return args.Error(0)
}

// MockInvoiceService is a mock implementation of service.InvoiceService.
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Create(ctx context.Context, businessID, userID uuid.UUID, input service.InvoiceInput) (*domain.Invoice, error) {
	args := m.Called(ctx, businessID, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) GetByID(ctx context.Context, businessID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	args := m.Called(ctx, businessID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) List(ctx context.Context, businessID uuid.UUID, period *gst.Period, offset, limit int) ([]domain.Invoice, int, error) {
	args := m.Called(ctx, businessID, period, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Invoice), args.Int(1), args.Error(2)
}

func (m *MockInvoiceService) Update(ctx context.Context, businessID, invoiceID uuid.UUID, input service.InvoiceInput) (*domain.Invoice, error) {
	args := m.Called(ctx, businessID, invoiceID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) Delete(ctx context.Context, businessID, invoiceID uuid.UUID) error {
	args := m.Called(ctx, businessID, invoiceID)
	return args.Error(0)
}

// MockPurchaseService is a mock implementation of service.PurchaseService.
type MockPurchaseService struct {
	mock.Mock
}

func (m *MockPurchaseService) Create(ctx context.Context, businessID, userID uuid.UUID, input service.PurchaseInput) (*domain.Purchase, error) {
	args := m.Called(ctx, businessID, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Purchase), args.Error(1)
}

func (m *MockPurchaseService) GetByID(ctx context.Context, businessID, purchaseID uuid.UUID) (*domain.Purchase, error) {
	args := m.Called(ctx, businessID, purchaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Purchase), args.Error(1)
}

func (m *MockPurchaseService) List(ctx context.Context, businessID uuid.UUID, period *gst.Period, offset, limit int) ([]domain.Purchase, int, error) {
	args := m.Called(ctx, businessID, period, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Purchase), args.Int(1), args.Error(2)
}

func (m *MockPurchaseService) Update(ctx context.Context, businessID, purchaseID uuid.UUID, input service.PurchaseInput) (*domain.Purchase, error) {
	args := m.Called(ctx, businessID, purchaseID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Purchase), args.Error(1)
}

func (m *MockPurchaseService) Delete(ctx context.Context, businessID, purchaseID uuid.UUID) error {
	args := m.Called(ctx, businessID, purchaseID)
	return args.Error(0)
}

// MockLiabilityService is a mock implementation of service.LiabilityService.
type MockLiabilityService struct {
	mock.Mock
}

func (m *MockLiabilityService) Reconcile(ctx context.Context, businessID uuid.UUID, period gst.Period) (gst.Liability, error) {
	args := m.Called(ctx, businessID, period)
	return args.Get(0).(gst.Liability), args.Error(1)
}

// MockFilingService is a mock implementation of service.FilingService.
type MockFilingService struct {
	mock.Mock
}

func (m *MockFilingService) Start(ctx context.Context, businessID, userID uuid.UUID, input service.StartReturnInput) (*domain.FilingReturn, error) {
	args := m.Called(ctx, businessID, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FilingReturn), args.Error(1)
}

func (m *MockFilingService) GetByID(ctx context.Context, businessID, returnID uuid.UUID) (*domain.FilingReturn, error) {
	args := m.Called(ctx, businessID, returnID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FilingReturn), args.Error(1)
}

func (m *MockFilingService) List(ctx context.Context, businessID uuid.UUID, offset, limit int) ([]domain.FilingReturn, int, error) {
	args := m.Called(ctx, businessID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.FilingReturn), args.Int(1), args.Error(2)
}

func (m *MockFilingService) AutoPopulate(ctx context.Context, businessID, returnID uuid.UUID, input service.FileReturnInput) (*domain.FilingReturn, error) {
	args := m.Called(ctx, businessID, returnID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FilingReturn), args.Error(1)
}

func (m *MockFilingService) FileNil(ctx context.Context, businessID, returnID uuid.UUID, input service.FileReturnInput) (*domain.FilingReturn, error) {
	args := m.Called(ctx, businessID, returnID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FilingReturn), args.Error(1)
}

func (m *MockFilingService) LateFee(ctx context.Context, businessID, returnID uuid.UUID) (*gst.Penalty, error) {
	args := m.Called(ctx, businessID, returnID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gst.Penalty), args.Error(1)
}

func (m *MockFilingService) CalculateLateFee(input service.LateFeeInput) (*gst.Penalty, error) {
	args := m.Called(input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gst.Penalty), args.Error(1)
}

// MockPaymentService is a mock implementation of service.PaymentService.
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) Create(ctx context.Context, businessID, userID uuid.UUID, input service.PaymentInput) (*domain.Payment, error) {
	args := m.Called(ctx, businessID, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) GetByID(ctx context.Context, businessID, paymentID uuid.UUID) (*domain.Payment, error) {
	args := m.Called(ctx, businessID, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) List(ctx context.Context, businessID uuid.UUID, offset, limit int) ([]domain.Payment, int, error) {
	args := m.Called(ctx, businessID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Payment), args.Int(1), args.Error(2)
}

// MockComplianceService is a mock implementation of service.ComplianceService.
type MockComplianceService struct {
	mock.Mock
}

func (m *MockComplianceService) Score(ctx context.Context, businessID uuid.UUID) (*gst.ComplianceScore, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gst.ComplianceScore), args.Error(1)
}

// MockHSNService is a mock implementation of service.HSNService.
type MockHSNService struct {
	mock.Mock
}

func (m *MockHSNService) Lookup(ctx context.Context, code string) (*gst.HSNEntry, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gst.HSNEntry), args.Error(1)
}

func (m *MockHSNService) DefaultRate(ctx context.Context, code string) (gst.Rate, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(gst.Rate), args.Error(1)
}

// MockExportService is a mock implementation of service.ExportService.
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) Export(ctx context.Context, businessID uuid.UUID, period gst.Period, format domain.ExportFormat) (*service.ExportResult, error) {
	args := m.Called(ctx, businessID, period, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportResult), args.Error(1)
}
