package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gstdesk/internal/domain"
	"gstdesk/internal/gst"
	"gstdesk/internal/service"
	"gstdesk/mocks"
)

type purchaseFixture struct {
	repo         *mocks.MockPurchaseRepo
	businessRepo *mocks.MockBusinessRepo
	returnRepo   *mocks.MockFilingReturnRepo
	cache        *mocks.PassthroughCache
	hsn          *mocks.MockHSNService
	svc          service.PurchaseService
}

func newPurchaseFixture() *purchaseFixture {
	f := &purchaseFixture{
		repo:         new(mocks.MockPurchaseRepo),
		businessRepo: new(mocks.MockBusinessRepo),
		returnRepo:   new(mocks.MockFilingReturnRepo),
		cache:        new(mocks.PassthroughCache),
		hsn:          new(mocks.MockHSNService),
	}
	f.svc = service.NewPurchaseService(f.repo, f.businessRepo, f.returnRepo, f.cache, f.hsn, quietLogger())
	return f
}

func purchaseInput(gstin string) service.PurchaseInput {
	return service.PurchaseInput{
		BillNumber:    "B-17",
		BillDate:      "2026-04-09",
		SupplierName:  "Initech",
		SupplierGSTIN: gstin,
		Items:         []service.LineItemInput{consultingLine()},
	}
}

func (f *purchaseFixture) expectCreate(business *domain.Business) {
	f.businessRepo.On("GetByID", mock.Anything, business.ID).Return(business, nil)
	f.returnRepo.On("ListFiled", mock.Anything, business.ID, "042026", mock.Anything).Return(nil, nil)
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Purchase")).Return(nil)
	f.cache.On("Invalidate", mock.Anything, business.ID).Return(nil)
}

func TestPurchaseService_Create_StateFromGSTIN(t *testing.T) {
	f := newPurchaseFixture()
	business := regularBusiness()
	f.expectCreate(business)

	p, err := f.svc.Create(context.Background(), business.ID, uuid.New(), purchaseInput(maharashtraGSTIN))

	require.NoError(t, err)
	assert.Equal(t, "27", p.SupplierStateCode)
	assert.True(t, p.ITCEligible)
	assertMoney(t, "360.00", p.TotalIGST)
	assertMoney(t, "0.00", p.TotalCGST)
	f.repo.AssertExpectations(t)
	f.cache.AssertExpectations(t)
}

func TestPurchaseService_Create_IntraStateSupplier(t *testing.T) {
	f := newPurchaseFixture()
	business := regularBusiness()
	f.expectCreate(business)

	p, err := f.svc.Create(context.Background(), business.ID, uuid.New(), purchaseInput(karnatakaGSTIN))

	require.NoError(t, err)
	assertMoney(t, "180.00", p.TotalCGST)
	assertMoney(t, "180.00", p.TotalSGST)
}

func TestPurchaseService_Create_ExplicitIneligible(t *testing.T) {
	f := newPurchaseFixture()
	business := regularBusiness()
	f.expectCreate(business)

	in := purchaseInput(karnatakaGSTIN)
	no := false
	in.ITCEligible = &no
	p, err := f.svc.Create(context.Background(), business.ID, uuid.New(), in)

	require.NoError(t, err)
	assert.False(t, p.ITCEligible)
}

func TestPurchaseService_Create_UnregisteredSupplierKeepsEligibility(t *testing.T) {
	no := false
	tests := []struct {
		name     string
		eligible *bool
		want     bool
	}{
		{"omitted defaults to eligible", nil, true},
		{"explicit false is kept", &no, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPurchaseFixture()
			business := regularBusiness()
			f.expectCreate(business)

			in := purchaseInput("")
			in.SupplierStateCode = "29"
			in.ITCEligible = tt.eligible
			p, err := f.svc.Create(context.Background(), business.ID, uuid.New(), in)

			require.NoError(t, err)
			assert.Equal(t, tt.want, p.ITCEligible)
			assert.Empty(t, p.SupplierGSTIN)
			assertMoney(t, "180.00", p.TotalCGST)
		})
	}
}

func TestPurchaseService_Create_RateFromHSNMaster(t *testing.T) {
	f := newPurchaseFixture()
	business := regularBusiness()
	f.expectCreate(business)
	f.hsn.On("DefaultRate", mock.Anything, "8471").Return(gst.Rate18, nil)

	in := purchaseInput(karnatakaGSTIN)
	in.Items[0].HSNSAC = "8471"
	in.Items[0].GSTRate = nil
	p, err := f.svc.Create(context.Background(), business.ID, uuid.New(), in)

	require.NoError(t, err)
	assert.Equal(t, gst.Rate18, p.Items[0].GSTRate)
	assertMoney(t, "180.00", p.TotalCGST)
	f.hsn.AssertExpectations(t)
}

func TestPurchaseService_Create_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*service.PurchaseInput)
		want   error
	}{
		{"bad gstin", func(in *service.PurchaseInput) { in.SupplierGSTIN = "NOT-A-GSTIN" }, domain.ErrInvalidGSTIN},
		{"no state", func(in *service.PurchaseInput) { in.SupplierGSTIN = "" }, domain.ErrInvalidStateCode},
		{"bad date", func(in *service.PurchaseInput) { in.BillDate = "2026-13-01" }, domain.ErrInvalidDocument},
		{"negative rate", func(in *service.PurchaseInput) { in.Items[0].Rate = dec("-1") }, domain.ErrInvalidDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPurchaseFixture()
			business := regularBusiness()
			f.businessRepo.On("GetByID", mock.Anything, business.ID).Return(business, nil)

			in := purchaseInput(karnatakaGSTIN)
			tt.mutate(&in)
			_, err := f.svc.Create(context.Background(), business.ID, uuid.New(), in)

			assert.ErrorIs(t, err, tt.want)
			f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestPurchaseService_Create_LockedByGSTR3BOnly(t *testing.T) {
	f := newPurchaseFixture()
	business := regularBusiness()

	f.businessRepo.On("GetByID", mock.Anything, business.ID).Return(business, nil)
	f.returnRepo.On("ListFiled", mock.Anything, business.ID, "042026", []gst.ReturnType{gst.ReturnGSTR3B}).
		Return([]domain.FilingReturn{filedReturn(gst.ReturnGSTR3B, "042026")}, nil)

	_, err := f.svc.Create(context.Background(), business.ID, uuid.New(), purchaseInput(karnatakaGSTIN))

	assert.ErrorIs(t, err, domain.ErrDocumentLocked)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPurchaseService_Update_RecomputesTreatment(t *testing.T) {
	f := newPurchaseFixture()
	business := regularBusiness()
	existing := &domain.Purchase{ID: uuid.New(), BusinessID: business.ID, BillDate: day(2026, 4, 1)}

	f.repo.On("GetByID", mock.Anything, business.ID, existing.ID).Return(existing, nil)
	f.businessRepo.On("GetByID", mock.Anything, business.ID).Return(business, nil)
	f.returnRepo.On("ListFiled", mock.Anything, business.ID, "042026", mock.Anything).Return(nil, nil)
	f.repo.On("Update", mock.Anything, existing).Return(nil)
	f.cache.On("Invalidate", mock.Anything, business.ID).Return(nil)

	p, err := f.svc.Update(context.Background(), business.ID, existing.ID, purchaseInput(maharashtraGSTIN))

	require.NoError(t, err)
	assertMoney(t, "360.00", p.TotalIGST)
	f.repo.AssertExpectations(t)
}

func TestPurchaseService_Delete_Locked(t *testing.T) {
	f := newPurchaseFixture()
	businessID := uuid.New()
	existing := &domain.Purchase{ID: uuid.New(), BusinessID: businessID, BillDate: day(2026, 4, 1)}

	f.repo.On("GetByID", mock.Anything, businessID, existing.ID).Return(existing, nil)
	f.returnRepo.On("ListFiled", mock.Anything, businessID, "042026", mock.Anything).
		Return([]domain.FilingReturn{filedReturn(gst.ReturnGSTR3B, "042026")}, nil)

	err := f.svc.Delete(context.Background(), businessID, existing.ID)

	assert.ErrorIs(t, err, domain.ErrDocumentLocked)
	f.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}
