package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gstdesk/internal/service"
)

// InvoiceHandler handles outward supply documents.
type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Create handles POST /api/v1/invoices
// @Summary Create an invoice
// @Description Record an outward supply. Line amounts and totals are computed from the items and the business's state.
// @Tags invoices
// @Accept json
// @Produce json
// @Param request body service.InvoiceInput true "Invoice"
// @Success 201 {object} Response{data=domain.Invoice} "Invoice created"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 409 {object} ErrorResponseBody "Duplicate number or period locked"
// @Security BearerAuth
// @Router /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	businessID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.InvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), businessID, userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, invoice)
}

// List handles GET /api/v1/invoices
// @Summary List invoices
// @Tags invoices
// @Produce json
// @Param period query string false "Filing period (MMYYYY)"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Invoice,meta=PagMeta} "List of invoices"
// @Failure 400 {object} ErrorResponseBody "Invalid period"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	businessID, ok := businessFromContext(c)
	if !ok {
		return
	}
	period, ok := parsePeriodQuery(c)
	if !ok {
		return
	}
	offset, limit := parsePagination(c)

	invoices, total, err := h.invoiceService.List(c.Request.Context(), businessID, period, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, invoices, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/invoices/:id
// @Summary Get invoice by ID
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID (UUID)"
// @Success 200 {object} Response{data=domain.Invoice} "Invoice"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Invoice not found"
// @Security BearerAuth
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	businessID, ok := businessFromContext(c)
	if !ok {
		return
	}
	invoiceID, ok := parseIDParam(c, "id", "invoice")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), businessID, invoiceID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, invoice)
}

// Update handles PUT /api/v1/invoices/:id
// @Summary Update an invoice
// @Description Replace an invoice and recompute its amounts. Fails when the old or new period has a filed return.
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID (UUID)"
// @Param request body service.InvoiceInput true "Invoice"
// @Success 200 {object} Response{data=domain.Invoice} "Invoice updated"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 404 {object} ErrorResponseBody "Invoice not found"
// @Failure 409 {object} ErrorResponseBody "Period locked"
// @Security BearerAuth
// @Router /invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	businessID, ok := businessFromContext(c)
	if !ok {
		return
	}
	invoiceID, ok := parseIDParam(c, "id", "invoice")
	if !ok {
		return
	}

	var input service.InvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	invoice, err := h.invoiceService.Update(c.Request.Context(), businessID, invoiceID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, invoice)
}

// Delete handles DELETE /api/v1/invoices/:id
// @Summary Delete an invoice
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse} "Invoice deleted"
// @Failure 404 {object} ErrorResponseBody "Invoice not found"
// @Failure 409 {object} ErrorResponseBody "Period locked"
// @Security BearerAuth
// @Router /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	businessID, ok := businessFromContext(c)
	if !ok {
		return
	}
	invoiceID, ok := parseIDParam(c, "id", "invoice")
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), businessID, invoiceID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "invoice deleted"})
}
