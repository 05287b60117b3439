package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"gstdesk/internal/domain"
	"gstdesk/internal/gst"
	"gstdesk/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"
	case errors.Is(err, domain.ErrBusinessInactive):
		return http.StatusForbidden, "BUSINESS_INACTIVE", "business is inactive"
	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusForbidden, "USER_INACTIVE", "user is inactive"
	case errors.Is(err, domain.ErrInsufficientRole):
		return http.StatusForbidden, "INSUFFICIENT_ROLE", "insufficient role for this action"
	case errors.Is(err, domain.ErrLastAdmin):
		return http.StatusConflict, "LAST_ADMIN", "business must keep at least one active admin"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, "DUPLICATE_EMAIL", "email already exists for this business"
	case errors.Is(err, domain.ErrDuplicateBusinessSlug):
		return http.StatusConflict, "DUPLICATE_SLUG", "business slug already exists"
	case errors.Is(err, domain.ErrDuplicateDocument):
		return http.StatusConflict, "DUPLICATE_DOCUMENT", "document number already exists for this business"
	case errors.Is(err, domain.ErrDocumentLocked):
		return http.StatusConflict, "DOCUMENT_LOCKED", "document belongs to a period whose return is filed"
	case errors.Is(err, domain.ErrReturnAlreadyFiled):
		return http.StatusConflict, "RETURN_ALREADY_FILED", "return has already been filed"
	case errors.Is(err, domain.ErrDuplicateReturn):
		return http.StatusConflict, "DUPLICATE_RETURN", "return already exists for this period"
	case errors.Is(err, domain.ErrReturnNotApplicable):
		return http.StatusUnprocessableEntity, "RETURN_NOT_APPLICABLE", "return type does not apply to this business"
	case errors.Is(err, domain.ErrNilReturnHasActivity):
		return http.StatusUnprocessableEntity, "NIL_RETURN_HAS_ACTIVITY", "nil return cannot be filed for a period with tax"
	case errors.Is(err, domain.ErrInvalidPeriod):
		return http.StatusBadRequest, "INVALID_PERIOD", "period must be in MMYYYY format"
	case errors.Is(err, domain.ErrInvalidGSTRate):
		return http.StatusBadRequest, "INVALID_GST_RATE", "gst rate must be one of 0, 5, 12, 18, 28"
	case errors.Is(err, domain.ErrInvalidStateCode):
		return http.StatusBadRequest, "INVALID_STATE_CODE", "unknown state code"
	case errors.Is(err, domain.ErrInvalidGSTIN):
		return http.StatusBadRequest, "INVALID_GSTIN", "invalid GSTIN"
	case errors.Is(err, domain.ErrInvalidDocument):
		return http.StatusBadRequest, "INVALID_DOCUMENT", err.Error()
	case errors.Is(err, domain.ErrInvalidReturnType):
		return http.StatusBadRequest, "INVALID_RETURN_TYPE", "invalid return type"
	case errors.Is(err, domain.ErrUnsupportedLineItems):
		return http.StatusInternalServerError, "UNSUPPORTED_LINE_ITEMS", "stored line items use an unsupported schema version"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusBadGateway, "UPLOAD_FAILED", "export upload to storage failed"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// extractAuthContext extracts business ID, user ID, and role from the request context.
// Returns false if auth context is missing (error response already written).
func extractAuthContext(c *gin.Context) (businessID, userID uuid.UUID, role domain.UserRole, ok bool) {
	var err error
	businessID, err = middleware.GetBusinessID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing business context")
		return uuid.Nil, uuid.Nil, "", false
	}
	userID, err = middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return uuid.Nil, uuid.Nil, "", false
	}
	role = domain.UserRole(middleware.GetRole(c))
	return businessID, userID, role, true
}

// businessFromContext is the business-only variant of extractAuthContext.
func businessFromContext(c *gin.Context) (uuid.UUID, bool) {
	businessID, err := middleware.GetBusinessID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing business context")
		return uuid.Nil, false
	}
	return businessID, true
}

// parseIDParam parses a UUID path parameter, writing a 400 on failure.
func parseIDParam(c *gin.Context, name, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid "+what+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// parsePagination reads offset and limit query parameters.
func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return offset, limit
}

// parsePeriodQuery reads the optional ?period= filter. A nil period means all periods.
func parsePeriodQuery(c *gin.Context) (*gst.Period, bool) {
	key := c.Query("period")
	if key == "" {
		return nil, true
	}
	p, err := gst.ParsePeriod(key)
	if err != nil {
		HandleError(c, err)
		return nil, false
	}
	return &p, true
}

// parsePeriodParam reads a required :period path parameter.
func parsePeriodParam(c *gin.Context) (gst.Period, bool) {
	p, err := gst.ParsePeriod(c.Param("period"))
	if err != nil {
		HandleError(c, err)
		return gst.Period{}, false
	}
	return p, true
}

var errLog = logrus.StandardLogger()

// SetLogger sets the logger HandleError reports internal errors to.
func SetLogger(log *logrus.Logger) {
	if log != nil {
		errLog = log
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get(middleware.ContextKeyRequestID)
		errLog.WithFields(logrus.Fields{
			"request_id": requestID,
			"path":       c.FullPath(),
		}).WithError(err).Error("request failed")
	}
	_ = c.Error(err)
	RespondError(c, status, code, msg)
}
