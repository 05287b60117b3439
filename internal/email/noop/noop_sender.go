package noop

import (
	"context"

	"github.com/sirupsen/logrus"

	"gstdesk/internal/email"
	"gstdesk/internal/port"
)

type noopSender struct {
	frontendURL string
	log         *logrus.Logger
}

// NewNoopSender creates an EmailSender that logs reminders instead of sending them.
func NewNoopSender(frontendURL string, log *logrus.Logger) port.EmailSender {
	return &noopSender{frontendURL: frontendURL, log: log}
}

func (s *noopSender) SendDueDateReminder(_ context.Context, reminder port.DueDateReminder) error {
	msg := email.ComposeDueDateReminder(reminder, s.frontendURL)
	s.log.WithFields(logrus.Fields{
		"to":      reminder.ToEmail,
		"subject": msg.Subject,
	}).Info("[NOOP EMAIL] due date reminder")
	return nil
}
