package port

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"gstdesk/internal/gst"
)

// DueDateReminder is the content of one due-date reminder email.
type DueDateReminder struct {
	ToEmail      string
	ToName       string
	BusinessName string
	ReturnType   gst.ReturnType
	Period       string
	DueDate      time.Time
	// EstimatedLateFee is the fee that accrues if the return is filed a week late.
	EstimatedLateFee decimal.Decimal
}

// EmailSender defines the contract for sending emails.
type EmailSender interface {
	SendDueDateReminder(ctx context.Context, reminder DueDateReminder) error
}
