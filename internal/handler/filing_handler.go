package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gstdesk/internal/domain"
	"gstdesk/internal/service"
)

// FilingHandler handles statutory returns and late fee calculation.
type FilingHandler struct {
	filingService service.FilingService
}

// NewFilingHandler creates a new FilingHandler.
func NewFilingHandler(filingService service.FilingService) *FilingHandler {
	return &FilingHandler{filingService: filingService}
}

// Start handles POST /api/v1/returns
// @Summary Start a return
// @Description Create a pending return for a period. The due date defaults to the statutory calendar.
// @Tags returns
// @Accept json
// @Produce json
// @Param request body service.StartReturnInput true "Return"
// @Success 201 {object} Response{data=domain.FilingReturn} "Return created"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 409 {object} ErrorResponseBody "Return already exists"
// @Failure 422 {object} ErrorResponseBody "Return type does not apply"
// @Security BearerAuth
// @Router /returns [post]
func (h *FilingHandler) Start(c *gin.Context) {
	businessID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.StartReturnInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	ret, err := h.filingService.Start(c.Request.Context(), businessID, userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, ret)
}

// List handles GET /api/v1/returns
// @Summary List returns
// @Tags returns
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.FilingReturn,meta=PagMeta} "List of returns"
// @Security BearerAuth
// @Router /returns [get]
func (h *FilingHandler) List(c *gin.Context) {
	businessID, ok := businessFromContext(c)
	if !ok {
		return
	}
	offset, limit := parsePagination(c)

	returns, total, err := h.filingService.List(c.Request.Context(), businessID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, returns, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/returns/:id
// @Summary Get return by ID
// @Tags returns
// @Produce json
// @Param id path string true "Return ID (UUID)"
// @Success 200 {object} Response{data=domain.FilingReturn} "Return"
// @Failure 404 {object} ErrorResponseBody "Return not found"
// @Security BearerAuth
// @Router /returns/{id} [get]
func (h *FilingHandler) GetByID(c *gin.Context) {
	businessID, ok := businessFromContext(c)
	if !ok {
		return
	}
	returnID, ok := parseIDParam(c, "id", "return")
	if !ok {
		return
	}

	ret, err := h.filingService.GetByID(c.Request.Context(), businessID, returnID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, ret)
}

// AutoPopulate handles POST /api/v1/returns/:id/auto-populate
// @Summary File a return from reconciled data
// @Description Snapshot the reconciled liability of the covered months and mark the return filed
// @Tags returns
// @Accept json
// @Produce json
// @Param id path string true "Return ID (UUID)"
// @Param request body service.FileReturnInput false "ARN and filed date"
// @Success 200 {object} Response{data=domain.FilingReturn} "Return filed"
// @Failure 404 {object} ErrorResponseBody "Return not found"
// @Failure 409 {object} ErrorResponseBody "Return already filed"
// @Security BearerAuth
// @Router /returns/{id}/auto-populate [post]
func (h *FilingHandler) AutoPopulate(c *gin.Context) {
	h.file(c, h.filingService.AutoPopulate)
}

// FileNil handles POST /api/v1/returns/:id/file-nil
// @Summary File a nil return
// @Tags returns
// @Accept json
// @Produce json
// @Param id path string true "Return ID (UUID)"
// @Param request body service.FileReturnInput false "ARN and filed date"
// @Success 200 {object} Response{data=domain.FilingReturn} "Return filed"
// @Failure 404 {object} ErrorResponseBody "Return not found"
// @Failure 409 {object} ErrorResponseBody "Return already filed"
// @Failure 422 {object} ErrorResponseBody "Period has tax"
// @Security BearerAuth
// @Router /returns/{id}/file-nil [post]
func (h *FilingHandler) FileNil(c *gin.Context) {
	h.file(c, h.filingService.FileNil)
}

func (h *FilingHandler) file(c *gin.Context, fn func(context.Context, uuid.UUID, uuid.UUID, service.FileReturnInput) (*domain.FilingReturn, error)) {
	businessID, ok := businessFromContext(c)
	if !ok {
		return
	}
	returnID, ok := parseIDParam(c, "id", "return")
	if !ok {
		return
	}

	// The body is optional; an empty one files today without an ARN.
	var input service.FileReturnInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	ret, err := fn(c.Request.Context(), businessID, returnID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, ret)
}

// LateFee handles GET /api/v1/returns/:id/late-fee
// @Summary Late fee for a return
// @Description Late fee and interest owed on a return, as of its filed date or today when pending
// @Tags returns
// @Produce json
// @Param id path string true "Return ID (UUID)"
// @Success 200 {object} Response{data=gst.Penalty} "Penalty"
// @Failure 404 {object} ErrorResponseBody "Return not found"
// @Security BearerAuth
// @Router /returns/{id}/late-fee [get]
func (h *FilingHandler) LateFee(c *gin.Context) {
	businessID, ok := businessFromContext(c)
	if !ok {
		return
	}
	returnID, ok := parseIDParam(c, "id", "return")
	if !ok {
		return
	}

	penalty, err := h.filingService.LateFee(c.Request.Context(), businessID, returnID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, penalty)
}

// CalculateLateFee handles POST /api/v1/late-fee
// @Summary Late fee calculator
// @Description Compute late fee and interest for arbitrary inputs without touching stored returns
// @Tags returns
// @Accept json
// @Produce json
// @Param request body service.LateFeeInput true "Calculator inputs"
// @Success 200 {object} Response{data=gst.Penalty} "Penalty"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Security BearerAuth
// @Router /late-fee [post]
func (h *FilingHandler) CalculateLateFee(c *gin.Context) {
	var input service.LateFeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	penalty, err := h.filingService.CalculateLateFee(input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, penalty)
}
