package handler

import (
	"github.com/gin-gonic/gin"

	"gstdesk/internal/domain"
	"gstdesk/internal/service"
)

// ReportHandler serves period liability, the compliance score and exports.
type ReportHandler struct {
	liabilityService  service.LiabilityService
	complianceService service.ComplianceService
	exportService     service.ExportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(
	liabilityService service.LiabilityService,
	complianceService service.ComplianceService,
	exportService service.ExportService,
) *ReportHandler {
	return &ReportHandler{
		liabilityService:  liabilityService,
		complianceService: complianceService,
		exportService:     exportService,
	}
}

// Liability handles GET /api/v1/liability/:period
// @Summary Reconcile a period
// @Description Output tax, eligible input tax credit and net payable per head for one month
// @Tags reports
// @Produce json
// @Param period path string true "Filing period (MMYYYY)"
// @Success 200 {object} Response{data=gst.Liability} "Liability"
// @Failure 400 {object} ErrorResponseBody "Invalid period"
// @Security BearerAuth
// @Router /liability/{period} [get]
func (h *ReportHandler) Liability(c *gin.Context) {
	businessID, ok := businessFromContext(c)
	if !ok {
		return
	}
	period, ok := parsePeriodParam(c)
	if !ok {
		return
	}

	liability, err := h.liabilityService.Reconcile(c.Request.Context(), businessID, period)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, liability)
}

// Compliance handles GET /api/v1/compliance
// @Summary Compliance score
// @Description Estimated compliance score over all returns of the business
// @Tags reports
// @Produce json
// @Success 200 {object} Response{data=gst.ComplianceScore} "Score"
// @Security BearerAuth
// @Router /compliance [get]
func (h *ReportHandler) Compliance(c *gin.Context) {
	businessID, ok := businessFromContext(c)
	if !ok {
		return
	}

	score, err := h.complianceService.Score(c.Request.Context(), businessID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, score)
}

// ExportGSTR3B handles POST /api/v1/exports/:period/gstr3b
// @Summary Export the GSTR-3B workbook
// @Description Render the period's liability as an xlsx workbook, archive it and return a download link
// @Tags reports
// @Produce json
// @Param period path string true "Filing period (MMYYYY)"
// @Success 200 {object} Response{data=service.ExportResult} "Export"
// @Failure 400 {object} ErrorResponseBody "Invalid period"
// @Failure 502 {object} ErrorResponseBody "Upload failed"
// @Security BearerAuth
// @Router /exports/{period}/gstr3b [post]
func (h *ReportHandler) ExportGSTR3B(c *gin.Context) {
	h.export(c, domain.ExportGSTR3BWorkbook)
}

// ExportInvoices handles POST /api/v1/exports/:period/invoices
// @Summary Export the invoice register
// @Description Render the period's invoices as CSV, archive it and return a download link
// @Tags reports
// @Produce json
// @Param period path string true "Filing period (MMYYYY)"
// @Success 200 {object} Response{data=service.ExportResult} "Export"
// @Failure 400 {object} ErrorResponseBody "Invalid period"
// @Failure 502 {object} ErrorResponseBody "Upload failed"
// @Security BearerAuth
// @Router /exports/{period}/invoices [post]
func (h *ReportHandler) ExportInvoices(c *gin.Context) {
	h.export(c, domain.ExportInvoiceRegister)
}

func (h *ReportHandler) export(c *gin.Context, format domain.ExportFormat) {
	businessID, ok := businessFromContext(c)
	if !ok {
		return
	}
	period, ok := parsePeriodParam(c)
	if !ok {
		return
	}

	result, err := h.exportService.Export(c.Request.Context(), businessID, period, format)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}
