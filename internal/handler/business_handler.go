package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gstdesk/internal/service"
)

// BusinessHandler handles onboarding and the caller's business profile.
type BusinessHandler struct {
	businessService service.BusinessService
}

// NewBusinessHandler creates a new BusinessHandler.
func NewBusinessHandler(businessService service.BusinessService) *BusinessHandler {
	return &BusinessHandler{businessService: businessService}
}

// Register handles POST /api/v1/businesses
// @Summary Register a business
// @Description Onboard a GST-registered business together with its first admin user
// @Tags businesses
// @Accept json
// @Produce json
// @Param request body RegisterBusinessRequest true "Business and admin details"
// @Success 201 {object} Response{data=service.RegistrationResult} "Business registered"
// @Failure 400 {object} ErrorResponseBody "Validation error or invalid GSTIN"
// @Failure 409 {object} ErrorResponseBody "Slug already exists"
// @Router /businesses [post]
func (h *BusinessHandler) Register(c *gin.Context) {
	var input service.RegisterBusinessInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.businessService.Register(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, result)
}

// GetMine handles GET /api/v1/businesses/me
// @Summary Get the current business
// @Tags businesses
// @Produce json
// @Success 200 {object} Response{data=domain.Business} "Business profile"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "Business not found"
// @Security BearerAuth
// @Router /businesses/me [get]
func (h *BusinessHandler) GetMine(c *gin.Context) {
	businessID, ok := businessFromContext(c)
	if !ok {
		return
	}

	business, err := h.businessService.GetByID(c.Request.Context(), businessID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, business)
}

// UpdateMine handles PUT /api/v1/businesses/me
// @Summary Update the current business
// @Description Update the business profile (admin only). A new GSTIN moves the business to that GSTIN's state.
// @Tags businesses
// @Accept json
// @Produce json
// @Param request body UpdateBusinessRequest true "Fields to update"
// @Success 200 {object} Response{data=domain.Business} "Business updated"
// @Failure 400 {object} ErrorResponseBody "Validation error or invalid GSTIN"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 403 {object} ErrorResponseBody "Forbidden - admin only"
// @Security BearerAuth
// @Router /businesses/me [put]
func (h *BusinessHandler) UpdateMine(c *gin.Context) {
	businessID, ok := businessFromContext(c)
	if !ok {
		return
	}

	var input service.UpdateBusinessInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	business, err := h.businessService.Update(c.Request.Context(), businessID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, business)
}
