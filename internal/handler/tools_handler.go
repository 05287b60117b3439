package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"gstdesk/internal/gst"
	"gstdesk/internal/service"
)

// CalculateLineRequest is the body of the stateless line calculator.
type CalculateLineRequest struct {
	Quantity      decimal.Decimal  `json:"quantity" swaggertype:"string" example:"2"`
	Rate          decimal.Decimal  `json:"rate" swaggertype:"string" example:"1000.00"`
	Discount      decimal.Decimal  `json:"discount" swaggertype:"string" example:"0"`
	DiscountType  gst.DiscountType `json:"discount_type" binding:"omitempty,oneof=amount percentage" example:"amount"`
	GSTRate       gst.Rate         `json:"gst_rate" binding:"gstrate" example:"18"`
	InvoiceType   gst.InvoiceType  `json:"invoice_type" binding:"omitempty,oneof=tax_invoice bill_of_supply export_invoice debit_note credit_note" example:"tax_invoice"`
	ExportMode    gst.ExportMode   `json:"export_mode" binding:"omitempty,oneof=with_payment under_lut"`
	SupplierState string           `json:"supplier_state" binding:"required,statecode" example:"29"`
	PlaceOfSupply string           `json:"place_of_supply" binding:"required,statecode" example:"27"`
}

// CalculateLineResponse carries the computed line and the treatment applied.
type CalculateLineResponse struct {
	Treatment string `json:"treatment" example:"inter_state"`
	gst.LineResult
}

// ToolsHandler serves HSN lookups and the line calculator.
type ToolsHandler struct {
	hsnService service.HSNService
}

// NewToolsHandler creates a new ToolsHandler.
func NewToolsHandler(hsnService service.HSNService) *ToolsHandler {
	return &ToolsHandler{hsnService: hsnService}
}

// LookupHSN handles GET /api/v1/hsn/:code
// @Summary Look up an HSN/SAC code
// @Description Default GST rate and description for a code. Falls back to the longest matching prefix.
// @Tags tools
// @Produce json
// @Param code path string true "HSN or SAC code"
// @Success 200 {object} Response{data=gst.HSNEntry} "HSN entry"
// @Failure 404 {object} ErrorResponseBody "Unknown code"
// @Security BearerAuth
// @Router /hsn/{code} [get]
func (h *ToolsHandler) LookupHSN(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "code is required")
		return
	}

	entry, err := h.hsnService.Lookup(c.Request.Context(), code)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, entry)
}

// CalculateLine handles POST /api/v1/calculate/line
// @Summary Calculate one line item
// @Description Compute the taxable amount and tax split of a single line without storing anything
// @Tags tools
// @Accept json
// @Produce json
// @Param request body CalculateLineRequest true "Line and supply details"
// @Success 200 {object} Response{data=CalculateLineResponse} "Computed line"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Security BearerAuth
// @Router /calculate/line [post]
func (h *ToolsHandler) CalculateLine(c *gin.Context) {
	var req CalculateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if req.InvoiceType == "" {
		req.InvoiceType = gst.InvoiceTypeTax
	}
	if req.DiscountType == "" {
		req.DiscountType = gst.DiscountAmount
	}

	treatment := gst.DetermineTreatment(req.InvoiceType, req.ExportMode, req.SupplierState, req.PlaceOfSupply)
	line := gst.ComputeLine(gst.LineInput{
		Quantity:     req.Quantity,
		Rate:         req.Rate,
		Discount:     req.Discount,
		DiscountType: req.DiscountType,
		GSTRate:      req.GSTRate,
	}, treatment)

	RespondOK(c, CalculateLineResponse{Treatment: treatment.String(), LineResult: line})
}
