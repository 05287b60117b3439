package domain

import (
	"errors"

	"gstdesk/internal/gst"
)

var (
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrBusinessInactive      = errors.New("business is inactive")
	ErrUserInactive          = errors.New("user is inactive")
	ErrInsufficientRole      = errors.New("insufficient role for this action")
	ErrLastAdmin             = errors.New("business must keep at least one active admin")
	ErrDuplicateEmail        = errors.New("email already exists for this business")
	ErrDuplicateBusinessSlug = errors.New("business slug already exists")
	ErrDuplicateDocument     = errors.New("document number already exists for this business")
	ErrDocumentLocked        = errors.New("document belongs to a filed period")
	ErrReturnAlreadyFiled    = errors.New("return has already been filed")
	ErrDuplicateReturn       = errors.New("return already exists for this period")
	ErrReturnNotApplicable   = errors.New("return type does not apply to this business")
	ErrNilReturnHasActivity  = errors.New("nil return cannot be filed for a period with tax")
	ErrInvalidPeriod         = gst.ErrInvalidPeriod
	ErrInvalidGSTRate        = errors.New("invalid GST rate")
	ErrInvalidStateCode      = errors.New("invalid state code")
	ErrInvalidGSTIN          = errors.New("invalid GSTIN")
	ErrInvalidDocument       = errors.New("invalid document")
	ErrInvalidReturnType     = errors.New("invalid return type")
	ErrUnsupportedLineItems  = errors.New("unsupported line item schema version")
	ErrUploadFailed          = errors.New("export upload to storage failed")
)
