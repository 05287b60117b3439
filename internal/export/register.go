// Package export renders period documents as downloadable files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"gstdesk/internal/domain"
	"gstdesk/internal/gst"
)

// BOM is the UTF-8 byte order mark Excel on Windows needs to detect UTF-8.
var BOM = []byte{0xEF, 0xBB, 0xBF}

var registerColumns = []string{
	"Invoice Number",
	"Invoice Date",
	"Invoice Type",
	"Export Mode",
	"Original Invoice",
	"Customer Name",
	"Customer GSTIN",
	"Customer State Code",
	"Place of Supply",
	"Place of Supply Name",
	"Reverse Charge",
	"Line Item Count",
	"Taxable Amount",
	"CGST",
	"SGST",
	"IGST",
	"Grand Total",
	"Notes",
}

// RegisterWriter writes the invoice register of a period as CSV.
type RegisterWriter struct {
	csv *csv.Writer
}

// NewRegisterWriter creates a RegisterWriter that writes CSV to w.
func NewRegisterWriter(w io.Writer) *RegisterWriter {
	return &RegisterWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *RegisterWriter) WriteHeader() error {
	return w.csv.Write(registerColumns)
}

// WriteInvoices writes one row per invoice. Credit notes are written with
// negative amounts so that columns sum to the period's net outward supply.
func (w *RegisterWriter) WriteInvoices(invoices []domain.Invoice) error {
	for i := range invoices {
		if err := w.csv.Write(invoiceToRow(&invoices[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *RegisterWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *RegisterWriter) Error() error {
	return w.csv.Error()
}

func invoiceToRow(inv *domain.Invoice) []string {
	t := inv.ReconcileTotals()
	original := ""
	if inv.OriginalInvoiceID != nil {
		original = inv.OriginalInvoiceID.String()
	}
	return []string{
		sanitizeCell(inv.InvoiceNumber),
		inv.InvoiceDate.Format("2006-01-02"),
		string(inv.InvoiceType),
		string(inv.ExportMode),
		original,
		sanitizeCell(inv.CustomerName),
		inv.CustomerGSTIN,
		inv.CustomerStateCode,
		inv.PlaceOfSupply,
		gst.StateName(inv.PlaceOfSupply),
		formatBool(inv.ReverseCharge),
		strconv.Itoa(len(inv.Items)),
		formatMoney(t.Subtotal),
		formatMoney(t.CGST),
		formatMoney(t.SGST),
		formatMoney(t.IGST),
		formatMoney(t.GrandTotal),
		sanitizeCell(inv.Notes),
	}
}

func formatMoney(v decimal.Decimal) string {
	return v.StringFixed(2)
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// sanitizeCell neutralizes values a spreadsheet would evaluate as a formula.
func sanitizeCell(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns {business}_{kind}_{MMYYYY}.{ext}.
func BuildFilename(businessName, kind string, period gst.Period, ext string) string {
	return fmt.Sprintf("%s_%s_%s.%s", SanitizeFilename(businessName), kind, period, ext)
}
