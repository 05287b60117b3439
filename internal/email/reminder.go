// Package email composes the messages the senders deliver.
package email

import (
	"fmt"
	"html"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"gstdesk/internal/port"
)

// Message is a composed email.
type Message struct {
	Subject string
	HTML    string
	Text    string
}

var inr = message.NewPrinter(language.MustParse("en-IN"))

// FormatINR formats an amount in rupees with Indian digit grouping.
func FormatINR(amount float64) string {
	return inr.Sprintf("Rs. %.2f", amount)
}

// ComposeDueDateReminder renders a due-date reminder.
func ComposeDueDateReminder(r port.DueDateReminder, frontendURL string) Message {
	due := r.DueDate.Format("02 Jan 2006")
	returnsURL := fmt.Sprintf("%s/returns?period=%s", frontendURL, r.Period)
	fee := FormatINR(r.EstimatedLateFee.InexactFloat64())

	subject := fmt.Sprintf("%s for %s is due on %s", r.ReturnType, r.Period, due)
	text := fmt.Sprintf("Hi %s,\n\n%s of %s for period %s is due on %s.\n"+
		"Filing a week late would cost a late fee of %s, plus interest on unpaid tax.\n\n"+
		"Review the return: %s\n\nGSTDesk", r.ToName, r.ReturnType, r.BusinessName, r.Period, due, fee, returnsURL)

	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">%s due on %s</h2>
  <p>Hi %s,</p>
  <p><strong>%s</strong> of %s for period <strong>%s</strong> is due on %s.</p>
  <p>Filing a week late would cost a late fee of <strong>%s</strong>, plus interest on unpaid tax.</p>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Review return</a>
  </p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">GSTDesk - GST filing assistant</p>
</body>
</html>`,
		r.ReturnType, due,
		html.EscapeString(r.ToName),
		r.ReturnType, html.EscapeString(r.BusinessName), r.Period, due,
		fee,
		html.EscapeString(returnsURL))

	return Message{Subject: subject, HTML: body, Text: text}
}
