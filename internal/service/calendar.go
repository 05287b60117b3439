package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gstdesk/internal/domain"
	"gstdesk/internal/gst"
	"gstdesk/internal/port"
)

const dateLayout = "2006-01-02"

// Calendar decides what "today" is for filing purposes. Calendar dates
// (document dates, due dates, filed dates) are carried as UTC midnight values;
// Location only decides which calendar day the current instant falls on.
type Calendar struct {
	Location *time.Location
	Now      func() time.Time
}

// NewCalendar returns a Calendar on the wall clock.
func NewCalendar(loc *time.Location) Calendar {
	return Calendar{Location: loc, Now: time.Now}
}

// Today returns the current calendar date in the filing location.
func (c Calendar) Today() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return calendarDate(now().In(loc))
}

// calendarDate drops the clock and zone of t, keeping its calendar day.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", domain.ErrInvalidDocument, field)
	}
	return t, nil
}

var (
	invoiceLockingReturns  = []gst.ReturnType{gst.ReturnGSTR1, gst.ReturnGSTR3B}
	purchaseLockingReturns = []gst.ReturnType{gst.ReturnGSTR3B}
)

// periodLock rejects document changes in periods whose returns are filed.
type periodLock struct {
	returns port.FilingReturnRepository
	types   []gst.ReturnType
}

func (l periodLock) check(ctx context.Context, businessID uuid.UUID, periods ...gst.Period) error {
	for _, p := range periods {
		filed, err := l.returns.ListFiled(ctx, businessID, p.String(), l.types)
		if err != nil {
			return fmt.Errorf("periodLock.check: %w", err)
		}
		if len(filed) > 0 {
			return fmt.Errorf("%w: %s filed for %s", domain.ErrDocumentLocked, filed[0].ReturnType, p)
		}
	}
	return nil
}
