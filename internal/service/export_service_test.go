package service_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gstdesk/internal/config"
	"gstdesk/internal/domain"
	"gstdesk/internal/gst"
	"gstdesk/internal/port"
	"gstdesk/internal/service"
	"gstdesk/mocks"
)

type exportFixture struct {
	businessRepo *mocks.MockBusinessRepo
	invoiceRepo  *mocks.MockInvoiceRepo
	purchaseRepo *mocks.MockPurchaseRepo
	liability    *mocks.MockLiabilityService
	storage      *mocks.MockObjectStorage
	svc          service.ExportService
	business     *domain.Business
}

var april2026 = gst.Period{Month: time.April, Year: 2026}

func newExportFixture() *exportFixture {
	f := &exportFixture{
		businessRepo: new(mocks.MockBusinessRepo),
		invoiceRepo:  new(mocks.MockInvoiceRepo),
		purchaseRepo: new(mocks.MockPurchaseRepo),
		liability:    new(mocks.MockLiabilityService),
		storage:      new(mocks.MockObjectStorage),
		business:     regularBusiness(),
	}
	cfg := &config.S3Config{Bucket: "gstdesk-exports", PresignExpiry: 900}
	f.svc = service.NewExportService(f.businessRepo, f.invoiceRepo, f.purchaseRepo, f.liability, f.storage, cfg, quietLogger())

	f.businessRepo.On("GetByID", mock.Anything, f.business.ID).Return(f.business, nil)
	f.invoiceRepo.On("ListInRange", mock.Anything, f.business.ID, day(2026, 4, 1), day(2026, 4, 30)).Return([]domain.Invoice{
		{
			InvoiceNumber:  "INV-001",
			InvoiceType:    gst.InvoiceTypeTax,
			InvoiceDate:    day(2026, 4, 15),
			CustomerName:   "Globex",
			PlaceOfSupply:  "29",
			DocumentTotals: domain.DocumentTotals{Subtotal: dec("2000"), TotalCGST: dec("180"), TotalSGST: dec("180"), TotalIGST: dec("0"), GrandTotal: dec("2360")},
		},
	}, nil)
	return f
}

func TestExportService_InvoiceRegister(t *testing.T) {
	f := newExportFixture()

	var uploaded port.UploadInput
	var body []byte
	f.storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Run(func(args mock.Arguments) {
			uploaded = args.Get(1).(port.UploadInput)
			body, _ = io.ReadAll(uploaded.Body)
		}).
		Return(&port.UploadOutput{Location: "s3://gstdesk-exports/x"}, nil)
	f.storage.On("GetPresignedURL", mock.Anything, "gstdesk-exports", mock.AnythingOfType("string"), int64(900)).
		Return("https://signed.example/x", nil)

	res, err := f.svc.Export(context.Background(), f.business.ID, april2026, domain.ExportInvoiceRegister)

	require.NoError(t, err)
	assert.Equal(t, "Acme_Traders_invoices_042026.csv", res.Filename)
	assert.Equal(t, "https://signed.example/x", res.URL)
	assert.True(t, strings.HasPrefix(res.Key, "exports/"+f.business.ID.String()+"/042026/"))
	assert.True(t, strings.HasSuffix(res.Key, "/"+res.Filename))
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), res.ExpiresAt, time.Minute)

	assert.Equal(t, "gstdesk-exports", uploaded.Bucket)
	assert.Equal(t, res.Key, uploaded.Key)
	assert.Contains(t, uploaded.ContentType, "text/csv")
	assert.Contains(t, uploaded.ContentDisposition, res.Filename)
	assert.True(t, bytes.HasPrefix(body, []byte("\xEF\xBB\xBF")))
	assert.Contains(t, string(body), "INV-001")
	f.purchaseRepo.AssertNotCalled(t, "ListInRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExportService_GSTR3BWorkbook(t *testing.T) {
	f := newExportFixture()
	f.purchaseRepo.On("ListInRange", mock.Anything, f.business.ID, day(2026, 4, 1), day(2026, 4, 30)).Return(nil, nil)
	f.liability.On("Reconcile", mock.Anything, f.business.ID, april2026).Return(sampleLiability(), nil)

	var body []byte
	var contentType string
	f.storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Run(func(args mock.Arguments) {
			in := args.Get(1).(port.UploadInput)
			contentType = in.ContentType
			body, _ = io.ReadAll(in.Body)
		}).
		Return(&port.UploadOutput{}, nil)
	f.storage.On("GetPresignedURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("https://signed.example/y", nil)

	res, err := f.svc.Export(context.Background(), f.business.ID, april2026, domain.ExportGSTR3BWorkbook)

	require.NoError(t, err)
	assert.Equal(t, "Acme_Traders_GSTR3B_042026.xlsx", res.Filename)
	assert.Contains(t, contentType, "spreadsheetml")
	// xlsx is a zip archive.
	assert.True(t, bytes.HasPrefix(body, []byte("PK")))
	f.liability.AssertExpectations(t)
}

func TestExportService_UploadFailure(t *testing.T) {
	f := newExportFixture()
	f.storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	res, err := f.svc.Export(context.Background(), f.business.ID, april2026, domain.ExportInvoiceRegister)

	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	f.storage.AssertNotCalled(t, "GetPresignedURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExportService_UnknownFormat(t *testing.T) {
	f := newExportFixture()

	_, err := f.svc.Export(context.Background(), f.business.ID, april2026, domain.ExportFormat("pdf"))

	assert.ErrorIs(t, err, domain.ErrInvalidDocument)
	f.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}
