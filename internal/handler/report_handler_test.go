package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gstdesk/internal/domain"
	"gstdesk/internal/gst"
	"gstdesk/internal/handler"
	"gstdesk/internal/service"
	"gstdesk/mocks"
)

type reportMocks struct {
	liability  *mocks.MockLiabilityService
	compliance *mocks.MockComplianceService
	export     *mocks.MockExportService
}

func newReportHandler() (*handler.ReportHandler, reportMocks) {
	m := reportMocks{
		liability:  new(mocks.MockLiabilityService),
		compliance: new(mocks.MockComplianceService),
		export:     new(mocks.MockExportService),
	}
	return handler.NewReportHandler(m.liability, m.compliance, m.export), m
}

var feb2026 = gst.Period{Month: time.February, Year: 2026}

func TestReportHandler_Liability(t *testing.T) {
	h, m := newReportHandler()
	businessID := uuid.New()

	m.liability.On("Reconcile", mock.Anything, businessID, feb2026).Return(gst.Liability{
		OutputIGST:   decimal.NewFromInt(360),
		InputIGST:    decimal.NewFromInt(100),
		NetIGST:      decimal.NewFromInt(260),
		TotalPayable: decimal.NewFromInt(260),
	}, nil)

	c, w := newContext(t, http.MethodGet, "/api/v1/liability/022026", nil)
	c.Params = gin.Params{{Key: "period", Value: "022026"}}
	setAuthContext(c, businessID, uuid.New(), "viewer")

	h.Liability(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "260", dataMap(t, w)["total_payable"])
	m.liability.AssertExpectations(t)
}

func TestReportHandler_Liability_InvalidPeriod(t *testing.T) {
	h, m := newReportHandler()

	c, w := newContext(t, http.MethodGet, "/api/v1/liability/132026", nil)
	c.Params = gin.Params{{Key: "period", Value: "132026"}}
	setAuthContext(c, uuid.New(), uuid.New(), "viewer")

	h.Liability(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_PERIOD", errorCode(t, w))
	m.liability.AssertNotCalled(t, "Reconcile")
}

func TestReportHandler_Compliance(t *testing.T) {
	h, m := newReportHandler()
	businessID := uuid.New()

	m.compliance.On("Score", mock.Anything, businessID).Return(&gst.ComplianceScore{
		Score: 85, Rating: "good", OnTimeCount: 5, LateCount: 1,
	}, nil)

	c, w := newContext(t, http.MethodGet, "/api/v1/compliance", nil)
	setAuthContext(c, businessID, uuid.New(), "viewer")

	h.Compliance(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataMap(t, w)
	assert.EqualValues(t, 85, data["score"])
	assert.Equal(t, "good", data["rating"])
}

func TestReportHandler_ExportGSTR3B(t *testing.T) {
	h, m := newReportHandler()
	businessID := uuid.New()

	m.export.On("Export", mock.Anything, businessID, feb2026, domain.ExportGSTR3BWorkbook).Return(&service.ExportResult{
		Format:   domain.ExportGSTR3BWorkbook,
		Period:   "022026",
		Filename: "gstr3b-022026.xlsx",
		URL:      "https://example.test/presigned",
	}, nil)

	c, w := newContext(t, http.MethodPost, "/api/v1/exports/022026/gstr3b", nil)
	c.Params = gin.Params{{Key: "period", Value: "022026"}}
	setAuthContext(c, businessID, uuid.New(), "member")

	h.ExportGSTR3B(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gstr3b-022026.xlsx", dataMap(t, w)["filename"])
	m.export.AssertExpectations(t)
}

func TestReportHandler_ExportInvoices_UploadFailed(t *testing.T) {
	h, m := newReportHandler()
	businessID := uuid.New()

	m.export.On("Export", mock.Anything, businessID, feb2026, domain.ExportInvoiceRegister).
		Return(nil, domain.ErrUploadFailed)

	c, w := newContext(t, http.MethodPost, "/api/v1/exports/022026/invoices", nil)
	c.Params = gin.Params{{Key: "period", Value: "022026"}}
	setAuthContext(c, businessID, uuid.New(), "member")

	h.ExportInvoices(c)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

// --- health ---

func TestHealthHandler_Liveness(t *testing.T) {
	h := handler.NewHealthHandler()
	c, w := newContext(t, http.MethodGet, "/healthz", nil)

	h.Liveness(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok"`)
}

func TestHealthHandler_Readiness(t *testing.T) {
	ok := handler.ReadinessCheck{Name: "database", Check: func(ctx context.Context) error { return nil }}
	down := handler.ReadinessCheck{Name: "redis", Check: func(ctx context.Context) error { return errors.New("dial tcp: refused") }}

	t.Run("all reachable", func(t *testing.T) {
		c, w := newContext(t, http.MethodGet, "/readyz", nil)
		handler.NewHealthHandler(ok).Readiness(c)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("one down", func(t *testing.T) {
		c, w := newContext(t, http.MethodGet, "/readyz", nil)
		handler.NewHealthHandler(ok, down).Readiness(c)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "redis not reachable")
		assert.NotContains(t, w.Body.String(), "refused")
	})
}
