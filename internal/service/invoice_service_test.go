package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gstdesk/internal/domain"
	"gstdesk/internal/gst"
	"gstdesk/internal/port"
	"gstdesk/internal/service"
	"gstdesk/mocks"
)

type invoiceFixture struct {
	repo         *mocks.MockInvoiceRepo
	businessRepo *mocks.MockBusinessRepo
	returnRepo   *mocks.MockFilingReturnRepo
	cache        *mocks.PassthroughCache
	hsn          *mocks.MockHSNService
	svc          service.InvoiceService
}

func newInvoiceFixture() *invoiceFixture {
	f := &invoiceFixture{
		repo:         new(mocks.MockInvoiceRepo),
		businessRepo: new(mocks.MockBusinessRepo),
		returnRepo:   new(mocks.MockFilingReturnRepo),
		cache:        new(mocks.PassthroughCache),
		hsn:          new(mocks.MockHSNService),
	}
	f.svc = service.NewInvoiceService(f.repo, f.businessRepo, f.returnRepo, f.cache, f.hsn, quietLogger())
	return f
}

func taxInvoiceInput(state string) service.InvoiceInput {
	return service.InvoiceInput{
		InvoiceNumber:     "INV-001",
		InvoiceType:       gst.InvoiceTypeTax,
		InvoiceDate:       "2026-04-15",
		CustomerName:      "Globex",
		CustomerStateCode: state,
		Items:             []service.LineItemInput{consultingLine()},
	}
}

func TestInvoiceService_Create_IntraState(t *testing.T) {
	f := newInvoiceFixture()
	business := regularBusiness()
	userID := uuid.New()

	f.businessRepo.On("GetByID", mock.Anything, business.ID).Return(business, nil)
	f.returnRepo.On("ListFiled", mock.Anything, business.ID, "042026", mock.Anything).Return([]domain.FilingReturn{}, nil)
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Invoice")).Return(nil)
	f.cache.On("Invalidate", mock.Anything, business.ID).Return(nil)

	inv, err := f.svc.Create(context.Background(), business.ID, userID, taxInvoiceInput("29"))

	require.NoError(t, err)
	assert.Equal(t, "29", inv.PlaceOfSupply)
	assert.Equal(t, userID, inv.CreatedBy)
	assertMoney(t, "2000.00", inv.Subtotal)
	assertMoney(t, "180.00", inv.TotalCGST)
	assertMoney(t, "180.00", inv.TotalSGST)
	assertMoney(t, "0.00", inv.TotalIGST)
	assertMoney(t, "2360.00", inv.GrandTotal)
	assertMoney(t, "2360.00", inv.Items[0].Total)
	f.repo.AssertExpectations(t)
	f.cache.AssertExpectations(t)
}

func TestInvoiceService_Create_RateFromHSNMaster(t *testing.T) {
	f := newInvoiceFixture()
	business := regularBusiness()

	f.businessRepo.On("GetByID", mock.Anything, business.ID).Return(business, nil)
	f.hsn.On("DefaultRate", mock.Anything, "1006").Return(gst.Rate5, nil)
	f.returnRepo.On("ListFiled", mock.Anything, business.ID, "042026", mock.Anything).Return(nil, nil)
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Invoice")).Return(nil)
	f.cache.On("Invalidate", mock.Anything, business.ID).Return(nil)

	in := taxInvoiceInput("29")
	in.Items[0].HSNSAC = "1006"
	in.Items[0].GSTRate = nil
	inv, err := f.svc.Create(context.Background(), business.ID, uuid.New(), in)

	require.NoError(t, err)
	assert.Equal(t, gst.Rate5, inv.Items[0].GSTRate)
	assertMoney(t, "50.00", inv.TotalCGST)
	assertMoney(t, "50.00", inv.TotalSGST)
	assertMoney(t, "2100.00", inv.GrandTotal)
	f.hsn.AssertExpectations(t)
}

func TestInvoiceService_Create_ExplicitZeroRateSkipsHSNMaster(t *testing.T) {
	f := newInvoiceFixture()
	business := regularBusiness()

	f.businessRepo.On("GetByID", mock.Anything, business.ID).Return(business, nil)
	f.returnRepo.On("ListFiled", mock.Anything, business.ID, "042026", mock.Anything).Return(nil, nil)
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Invoice")).Return(nil)
	f.cache.On("Invalidate", mock.Anything, business.ID).Return(nil)

	in := taxInvoiceInput("29")
	in.Items[0].HSNSAC = "1006"
	in.Items[0].GSTRate = rate(gst.Rate0)
	inv, err := f.svc.Create(context.Background(), business.ID, uuid.New(), in)

	require.NoError(t, err)
	assert.Equal(t, gst.Rate0, inv.Items[0].GSTRate)
	assertMoney(t, "0.00", inv.TotalCGST)
	f.hsn.AssertNotCalled(t, "DefaultRate", mock.Anything, mock.Anything)
}

func TestInvoiceService_Create_MissingRateUnresolved(t *testing.T) {
	tests := []struct {
		name  string
		hsn   string
		setup func(*mocks.MockHSNService)
	}{
		{"no hsn", "", func(*mocks.MockHSNService) {}},
		{"unknown hsn", "9999", func(m *mocks.MockHSNService) {
			m.On("DefaultRate", mock.Anything, "9999").Return(gst.Rate(0), domain.ErrNotFound)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newInvoiceFixture()
			business := regularBusiness()
			f.businessRepo.On("GetByID", mock.Anything, business.ID).Return(business, nil)
			tt.setup(f.hsn)

			in := taxInvoiceInput("29")
			in.Items[0].HSNSAC = tt.hsn
			in.Items[0].GSTRate = nil
			_, err := f.svc.Create(context.Background(), business.ID, uuid.New(), in)

			assert.ErrorIs(t, err, domain.ErrInvalidGSTRate)
			f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestInvoiceService_Create_InterState(t *testing.T) {
	f := newInvoiceFixture()
	business := regularBusiness()

	f.businessRepo.On("GetByID", mock.Anything, business.ID).Return(business, nil)
	f.returnRepo.On("ListFiled", mock.Anything, business.ID, "042026", mock.Anything).Return(nil, nil)
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Invoice")).Return(nil)
	f.cache.On("Invalidate", mock.Anything, business.ID).Return(nil)

	in := taxInvoiceInput("27")
	in.CustomerGSTIN = " " + maharashtraGSTIN[:2] + "aapfu0939f1zv"
	inv, err := f.svc.Create(context.Background(), business.ID, uuid.New(), in)

	require.NoError(t, err)
	assert.Equal(t, maharashtraGSTIN, inv.CustomerGSTIN)
	assertMoney(t, "0.00", inv.TotalCGST)
	assertMoney(t, "360.00", inv.TotalIGST)
	assertMoney(t, "2360.00", inv.GrandTotal)
}

func TestInvoiceService_Create_ExportUnderLUT(t *testing.T) {
	f := newInvoiceFixture()
	business := regularBusiness()

	f.businessRepo.On("GetByID", mock.Anything, business.ID).Return(business, nil)
	f.returnRepo.On("ListFiled", mock.Anything, business.ID, "042026", mock.Anything).Return(nil, nil)
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Invoice")).Return(nil)
	f.cache.On("Invalidate", mock.Anything, business.ID).Return(nil)

	in := taxInvoiceInput("")
	in.InvoiceType = gst.InvoiceTypeExport
	in.ExportMode = gst.ExportUnderLUT
	inv, err := f.svc.Create(context.Background(), business.ID, uuid.New(), in)

	require.NoError(t, err)
	assert.Equal(t, "97", inv.PlaceOfSupply)
	assertMoney(t, "0.00", inv.TotalIGST)
	assertMoney(t, "2000.00", inv.GrandTotal)
}

func TestInvoiceService_Create_ExportDefaultsToWithPayment(t *testing.T) {
	f := newInvoiceFixture()
	business := regularBusiness()

	f.businessRepo.On("GetByID", mock.Anything, business.ID).Return(business, nil)
	f.returnRepo.On("ListFiled", mock.Anything, business.ID, "042026", mock.Anything).Return(nil, nil)
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Invoice")).Return(nil)
	f.cache.On("Invalidate", mock.Anything, business.ID).Return(nil)

	in := taxInvoiceInput("")
	in.InvoiceType = gst.InvoiceTypeExport
	inv, err := f.svc.Create(context.Background(), business.ID, uuid.New(), in)

	require.NoError(t, err)
	assert.Equal(t, gst.ExportWithPayment, inv.ExportMode)
	assertMoney(t, "360.00", inv.TotalIGST)
}

func TestInvoiceService_Create_BillOfSupplyCarriesNoTax(t *testing.T) {
	f := newInvoiceFixture()
	business := compositionBusiness()

	f.businessRepo.On("GetByID", mock.Anything, business.ID).Return(business, nil)
	f.returnRepo.On("ListFiled", mock.Anything, business.ID, "042026", mock.Anything).Return(nil, nil)
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Invoice")).Return(nil)
	f.cache.On("Invalidate", mock.Anything, business.ID).Return(nil)

	in := taxInvoiceInput("29")
	in.InvoiceType = gst.InvoiceTypeBillOfSupply
	inv, err := f.svc.Create(context.Background(), business.ID, uuid.New(), in)

	require.NoError(t, err)
	assertMoney(t, "0.00", inv.TotalCGST)
	assertMoney(t, "2000.00", inv.GrandTotal)
}

func TestInvoiceService_Create_CompositionCannotIssueTaxInvoice(t *testing.T) {
	f := newInvoiceFixture()
	business := compositionBusiness()

	f.businessRepo.On("GetByID", mock.Anything, business.ID).Return(business, nil)

	inv, err := f.svc.Create(context.Background(), business.ID, uuid.New(), taxInvoiceInput("29"))

	assert.Nil(t, inv)
	assert.ErrorIs(t, err, domain.ErrInvalidDocument)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInvoiceService_Create_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*service.InvoiceInput)
		want   error
	}{
		{"bad date", func(in *service.InvoiceInput) { in.InvoiceDate = "15/04/2026" }, domain.ErrInvalidDocument},
		{"unknown state", func(in *service.InvoiceInput) { in.CustomerStateCode = "99" }, domain.ErrInvalidStateCode},
		{"no place of supply", func(in *service.InvoiceInput) { in.CustomerStateCode = "" }, domain.ErrInvalidStateCode},
		{"bad gstin", func(in *service.InvoiceInput) { in.CustomerGSTIN = "29ABCDE1234F1X5" }, domain.ErrInvalidGSTIN},
		{"export mode on tax invoice", func(in *service.InvoiceInput) { in.ExportMode = gst.ExportUnderLUT }, domain.ErrInvalidDocument},
		{"no items", func(in *service.InvoiceInput) { in.Items = nil }, domain.ErrInvalidDocument},
		{"off-schedule rate", func(in *service.InvoiceInput) { in.Items[0].GSTRate = rate(gst.Rate(15)) }, domain.ErrInvalidGSTRate},
		{"note on tax invoice", func(in *service.InvoiceInput) { id := uuid.New(); in.OriginalInvoiceID = &id }, domain.ErrInvalidDocument},
		{"credit note without original", func(in *service.InvoiceInput) { in.InvoiceType = gst.InvoiceTypeCreditNote }, domain.ErrInvalidDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newInvoiceFixture()
			business := regularBusiness()
			f.businessRepo.On("GetByID", mock.Anything, business.ID).Return(business, nil)

			in := taxInvoiceInput("29")
			tt.mutate(&in)
			inv, err := f.svc.Create(context.Background(), business.ID, uuid.New(), in)

			assert.Nil(t, inv)
			assert.ErrorIs(t, err, tt.want)
			f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestInvoiceService_Create_CreditNote(t *testing.T) {
	f := newInvoiceFixture()
	business := regularBusiness()
	origID := uuid.New()

	f.businessRepo.On("GetByID", mock.Anything, business.ID).Return(business, nil)
	f.repo.On("GetByID", mock.Anything, business.ID, origID).
		Return(&domain.Invoice{ID: origID, InvoiceType: gst.InvoiceTypeTax}, nil)
	f.returnRepo.On("ListFiled", mock.Anything, business.ID, "042026", mock.Anything).Return(nil, nil)
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Invoice")).Return(nil)
	f.cache.On("Invalidate", mock.Anything, business.ID).Return(nil)

	in := taxInvoiceInput("29")
	in.InvoiceType = gst.InvoiceTypeCreditNote
	in.OriginalInvoiceID = &origID
	inv, err := f.svc.Create(context.Background(), business.ID, uuid.New(), in)

	require.NoError(t, err)
	assert.Equal(t, &origID, inv.OriginalInvoiceID)
	// Stored totals stay positive; reconciliation negates them.
	assertMoney(t, "180.00", inv.TotalCGST)
	assertMoney(t, "-180.00", inv.ReconcileTotals().CGST)
}

func TestInvoiceService_Create_NoteCannotReferenceNote(t *testing.T) {
	f := newInvoiceFixture()
	business := regularBusiness()
	origID := uuid.New()

	f.businessRepo.On("GetByID", mock.Anything, business.ID).Return(business, nil)
	f.repo.On("GetByID", mock.Anything, business.ID, origID).
		Return(&domain.Invoice{ID: origID, InvoiceType: gst.InvoiceTypeCreditNote}, nil)

	in := taxInvoiceInput("29")
	in.InvoiceType = gst.InvoiceTypeDebitNote
	in.OriginalInvoiceID = &origID
	_, err := f.svc.Create(context.Background(), business.ID, uuid.New(), in)

	assert.ErrorIs(t, err, domain.ErrInvalidDocument)
}

func TestInvoiceService_Create_OriginalFromAnotherBusiness(t *testing.T) {
	f := newInvoiceFixture()
	business := regularBusiness()
	origID := uuid.New()

	f.businessRepo.On("GetByID", mock.Anything, business.ID).Return(business, nil)
	f.repo.On("GetByID", mock.Anything, business.ID, origID).Return(nil, domain.ErrNotFound)

	in := taxInvoiceInput("29")
	in.InvoiceType = gst.InvoiceTypeCreditNote
	in.OriginalInvoiceID = &origID
	_, err := f.svc.Create(context.Background(), business.ID, uuid.New(), in)

	assert.ErrorIs(t, err, domain.ErrInvalidDocument)
}

func TestInvoiceService_Create_LockedPeriod(t *testing.T) {
	f := newInvoiceFixture()
	business := regularBusiness()

	f.businessRepo.On("GetByID", mock.Anything, business.ID).Return(business, nil)
	f.returnRepo.On("ListFiled", mock.Anything, business.ID, "042026", mock.Anything).
		Return([]domain.FilingReturn{filedReturn(gst.ReturnGSTR1, "042026")}, nil)

	inv, err := f.svc.Create(context.Background(), business.ID, uuid.New(), taxInvoiceInput("29"))

	assert.Nil(t, inv)
	assert.ErrorIs(t, err, domain.ErrDocumentLocked)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}

func TestInvoiceService_Create_CacheFailureIsNotFatal(t *testing.T) {
	f := newInvoiceFixture()
	business := regularBusiness()

	f.businessRepo.On("GetByID", mock.Anything, business.ID).Return(business, nil)
	f.returnRepo.On("ListFiled", mock.Anything, business.ID, "042026", mock.Anything).Return(nil, nil)
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Invoice")).Return(nil)
	f.cache.On("Invalidate", mock.Anything, business.ID).Return(errors.New("redis down"))

	inv, err := f.svc.Create(context.Background(), business.ID, uuid.New(), taxInvoiceInput("29"))

	require.NoError(t, err)
	assert.NotNil(t, inv)
}

func TestInvoiceService_Create_DuplicateNumber(t *testing.T) {
	f := newInvoiceFixture()
	business := regularBusiness()

	f.businessRepo.On("GetByID", mock.Anything, business.ID).Return(business, nil)
	f.returnRepo.On("ListFiled", mock.Anything, business.ID, "042026", mock.Anything).Return(nil, nil)
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Invoice")).Return(domain.ErrDuplicateDocument)

	_, err := f.svc.Create(context.Background(), business.ID, uuid.New(), taxInvoiceInput("29"))

	assert.ErrorIs(t, err, domain.ErrDuplicateDocument)
	f.cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}

func TestInvoiceService_Update_MoveIntoLockedPeriod(t *testing.T) {
	f := newInvoiceFixture()
	business := regularBusiness()
	existing := &domain.Invoice{
		ID:          uuid.New(),
		BusinessID:  business.ID,
		InvoiceType: gst.InvoiceTypeTax,
		InvoiceDate: day(2026, 5, 2),
	}

	f.repo.On("GetByID", mock.Anything, business.ID, existing.ID).Return(existing, nil)
	f.businessRepo.On("GetByID", mock.Anything, business.ID).Return(business, nil)
	f.returnRepo.On("ListFiled", mock.Anything, business.ID, "052026", mock.Anything).Return(nil, nil)
	f.returnRepo.On("ListFiled", mock.Anything, business.ID, "042026", mock.Anything).
		Return([]domain.FilingReturn{filedReturn(gst.ReturnGSTR3B, "042026")}, nil)

	_, err := f.svc.Update(context.Background(), business.ID, existing.ID, taxInvoiceInput("29"))

	assert.ErrorIs(t, err, domain.ErrDocumentLocked)
	f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestInvoiceService_Update_Success(t *testing.T) {
	f := newInvoiceFixture()
	business := regularBusiness()
	existing := &domain.Invoice{
		ID:          uuid.New(),
		BusinessID:  business.ID,
		InvoiceType: gst.InvoiceTypeTax,
		InvoiceDate: day(2026, 4, 2),
	}

	f.repo.On("GetByID", mock.Anything, business.ID, existing.ID).Return(existing, nil)
	f.businessRepo.On("GetByID", mock.Anything, business.ID).Return(business, nil)
	f.returnRepo.On("ListFiled", mock.Anything, business.ID, "042026", mock.Anything).Return(nil, nil)
	f.repo.On("Update", mock.Anything, existing).Return(nil)
	f.cache.On("Invalidate", mock.Anything, business.ID).Return(nil)

	inv, err := f.svc.Update(context.Background(), business.ID, existing.ID, taxInvoiceInput("27"))

	require.NoError(t, err)
	assert.Equal(t, existing.ID, inv.ID)
	assertMoney(t, "360.00", inv.TotalIGST)
	f.cache.AssertExpectations(t)
}

func TestInvoiceService_Delete(t *testing.T) {
	business := regularBusiness()
	existing := &domain.Invoice{ID: uuid.New(), BusinessID: business.ID, InvoiceDate: day(2026, 4, 2)}

	t.Run("open period", func(t *testing.T) {
		f := newInvoiceFixture()
		f.repo.On("GetByID", mock.Anything, business.ID, existing.ID).Return(existing, nil)
		f.returnRepo.On("ListFiled", mock.Anything, business.ID, "042026", mock.Anything).Return(nil, nil)
		f.repo.On("Delete", mock.Anything, business.ID, existing.ID).Return(nil)
		f.cache.On("Invalidate", mock.Anything, business.ID).Return(nil)

		require.NoError(t, f.svc.Delete(context.Background(), business.ID, existing.ID))
		f.repo.AssertExpectations(t)
		f.cache.AssertExpectations(t)
	})

	t.Run("filed period", func(t *testing.T) {
		f := newInvoiceFixture()
		f.repo.On("GetByID", mock.Anything, business.ID, existing.ID).Return(existing, nil)
		f.returnRepo.On("ListFiled", mock.Anything, business.ID, "042026", mock.Anything).
			Return([]domain.FilingReturn{filedReturn(gst.ReturnGSTR1, "042026")}, nil)

		err := f.svc.Delete(context.Background(), business.ID, existing.ID)
		assert.ErrorIs(t, err, domain.ErrDocumentLocked)
		f.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		f := newInvoiceFixture()
		f.repo.On("GetByID", mock.Anything, business.ID, existing.ID).Return(nil, domain.ErrNotFound)

		err := f.svc.Delete(context.Background(), business.ID, existing.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestInvoiceService_List_FiltersByPeriod(t *testing.T) {
	f := newInvoiceFixture()
	businessID := uuid.New()
	period := gst.Period{Month: 2, Year: 2026}

	inFebruary := mock.MatchedBy(func(filter port.DocumentFilter) bool {
		return filter.From.Equal(day(2026, 2, 1)) && filter.To.Equal(day(2026, 2, 28)) &&
			filter.Offset == 0 && filter.Limit == 20
	})
	f.repo.On("List", mock.Anything, businessID, inFebruary).
		Return([]domain.Invoice{{ID: uuid.New()}}, 1, nil)

	invoices, total, err := f.svc.List(context.Background(), businessID, &period, 0, 20)

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, invoices, 1)
}
