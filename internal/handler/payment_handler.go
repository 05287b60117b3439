package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gstdesk/internal/service"
)

// PaymentHandler handles tax payment challans.
type PaymentHandler struct {
	paymentService service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Create handles POST /api/v1/payments
// @Summary Record a challan
// @Description Record a tax payment. The total is the cash paid across all heads.
// @Tags payments
// @Accept json
// @Produce json
// @Param request body service.PaymentInput true "Challan"
// @Success 201 {object} Response{data=domain.Payment} "Payment recorded"
// @Failure 400 {object} ErrorResponseBody "Validation error or unknown return"
// @Security BearerAuth
// @Router /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	businessID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.PaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	payment, err := h.paymentService.Create(c.Request.Context(), businessID, userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, payment)
}

// List handles GET /api/v1/payments
// @Summary List challans
// @Tags payments
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Payment,meta=PagMeta} "List of payments"
// @Security BearerAuth
// @Router /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	businessID, ok := businessFromContext(c)
	if !ok {
		return
	}
	offset, limit := parsePagination(c)

	payments, total, err := h.paymentService.List(c.Request.Context(), businessID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, payments, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/payments/:id
// @Summary Get challan by ID
// @Tags payments
// @Produce json
// @Param id path string true "Payment ID (UUID)"
// @Success 200 {object} Response{data=domain.Payment} "Payment"
// @Failure 404 {object} ErrorResponseBody "Payment not found"
// @Security BearerAuth
// @Router /payments/{id} [get]
func (h *PaymentHandler) GetByID(c *gin.Context) {
	businessID, ok := businessFromContext(c)
	if !ok {
		return
	}
	paymentID, ok := parseIDParam(c, "id", "payment")
	if !ok {
		return
	}

	payment, err := h.paymentService.GetByID(c.Request.Context(), businessID, paymentID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, payment)
}
