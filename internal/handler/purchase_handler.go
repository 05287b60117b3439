package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gstdesk/internal/service"
)

// PurchaseHandler handles inward supply documents.
type PurchaseHandler struct {
	purchaseService service.PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler.
func NewPurchaseHandler(purchaseService service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// Create handles POST /api/v1/purchases
// @Summary Record a purchase
// @Tags purchases
// @Accept json
// @Produce json
// @Param request body service.PurchaseInput true "Purchase"
// @Success 201 {object} Response{data=domain.Purchase} "Purchase created"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 409 {object} ErrorResponseBody "Duplicate bill or period locked"
// @Security BearerAuth
// @Router /purchases [post]
func (h *PurchaseHandler) Create(c *gin.Context) {
	businessID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.PurchaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	purchase, err := h.purchaseService.Create(c.Request.Context(), businessID, userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, purchase)
}

// List handles GET /api/v1/purchases
// @Summary List purchases
// @Tags purchases
// @Produce json
// @Param period query string false "Filing period (MMYYYY)"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Purchase,meta=PagMeta} "List of purchases"
// @Failure 400 {object} ErrorResponseBody "Invalid period"
// @Security BearerAuth
// @Router /purchases [get]
func (h *PurchaseHandler) List(c *gin.Context) {
	businessID, ok := businessFromContext(c)
	if !ok {
		return
	}
	period, ok := parsePeriodQuery(c)
	if !ok {
		return
	}
	offset, limit := parsePagination(c)

	purchases, total, err := h.purchaseService.List(c.Request.Context(), businessID, period, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, purchases, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/purchases/:id
// @Summary Get purchase by ID
// @Tags purchases
// @Produce json
// @Param id path string true "Purchase ID (UUID)"
// @Success 200 {object} Response{data=domain.Purchase} "Purchase"
// @Failure 404 {object} ErrorResponseBody "Purchase not found"
// @Security BearerAuth
// @Router /purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *gin.Context) {
	businessID, ok := businessFromContext(c)
	if !ok {
		return
	}
	purchaseID, ok := parseIDParam(c, "id", "purchase")
	if !ok {
		return
	}

	purchase, err := h.purchaseService.GetByID(c.Request.Context(), businessID, purchaseID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, purchase)
}

// Update handles PUT /api/v1/purchases/:id
// @Summary Update a purchase
// @Tags purchases
// @Accept json
// @Produce json
// @Param id path string true "Purchase ID (UUID)"
// @Param request body service.PurchaseInput true "Purchase"
// @Success 200 {object} Response{data=domain.Purchase} "Purchase updated"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 404 {object} ErrorResponseBody "Purchase not found"
// @Failure 409 {object} ErrorResponseBody "Period locked"
// @Security BearerAuth
// @Router /purchases/{id} [put]
func (h *PurchaseHandler) Update(c *gin.Context) {
	businessID, ok := businessFromContext(c)
	if !ok {
		return
	}
	purchaseID, ok := parseIDParam(c, "id", "purchase")
	if !ok {
		return
	}

	var input service.PurchaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	purchase, err := h.purchaseService.Update(c.Request.Context(), businessID, purchaseID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, purchase)
}

// Delete handles DELETE /api/v1/purchases/:id
// @Summary Delete a purchase
// @Tags purchases
// @Produce json
// @Param id path string true "Purchase ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse} "Purchase deleted"
// @Failure 404 {object} ErrorResponseBody "Purchase not found"
// @Failure 409 {object} ErrorResponseBody "Period locked"
// @Security BearerAuth
// @Router /purchases/{id} [delete]
func (h *PurchaseHandler) Delete(c *gin.Context) {
	businessID, ok := businessFromContext(c)
	if !ok {
		return
	}
	purchaseID, ok := parseIDParam(c, "id", "purchase")
	if !ok {
		return
	}

	if err := h.purchaseService.Delete(c.Request.Context(), businessID, purchaseID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "purchase deleted"})
}
