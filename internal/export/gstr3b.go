package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"gstdesk/internal/domain"
	"gstdesk/internal/gst"
)

// GSTR3BSummary is the period summary laid out in the GSTR-3B tables.
type GSTR3BSummary struct {
	BusinessName string
	GSTIN        string
	Period       gst.Period

	// Table 3.1
	OutwardTaxable gst.Totals // (a) other than zero rated, nil rated and exempted
	ZeroRated      gst.Totals // (b) exports
	NilExempt      gst.Totals // (c) bills of supply

	// Table 4
	EligibleITC   gst.Totals // (A)(5) all other ITC
	IneligibleITC gst.Totals // (D) ineligible ITC

	// Table 6.1
	Liability gst.Liability
}

// SummarizeGSTR3B classifies the period's documents into the GSTR-3B tables.
func SummarizeGSTR3B(business *domain.Business, period gst.Period, invoices []domain.Invoice, purchases []domain.Purchase, liability gst.Liability) GSTR3BSummary {
	s := GSTR3BSummary{
		BusinessName:   business.Name,
		GSTIN:          business.GSTIN,
		Period:         period,
		OutwardTaxable: gst.ZeroTotals(),
		ZeroRated:      gst.ZeroTotals(),
		NilExempt:      gst.ZeroTotals(),
		EligibleITC:    gst.ZeroTotals(),
		IneligibleITC:  gst.ZeroTotals(),
		Liability:      liability,
	}
	for i := range invoices {
		t := invoices[i].ReconcileTotals()
		switch invoices[i].InvoiceType {
		case gst.InvoiceTypeExport:
			s.ZeroRated = addTotals(s.ZeroRated, t)
		case gst.InvoiceTypeBillOfSupply:
			s.NilExempt = addTotals(s.NilExempt, t)
		default:
			s.OutwardTaxable = addTotals(s.OutwardTaxable, t)
		}
	}
	for i := range purchases {
		if purchases[i].ITCEligible {
			s.EligibleITC = addTotals(s.EligibleITC, purchases[i].Totals())
		} else {
			s.IneligibleITC = addTotals(s.IneligibleITC, purchases[i].Totals())
		}
	}
	return s
}

func addTotals(a, b gst.Totals) gst.Totals {
	return gst.Totals{
		Subtotal:   a.Subtotal.Add(b.Subtotal),
		CGST:       a.CGST.Add(b.CGST),
		SGST:       a.SGST.Add(b.SGST),
		IGST:       a.IGST.Add(b.IGST),
		GrandTotal: a.GrandTotal.Add(b.GrandTotal),
	}
}

const gstr3bSheet = "GSTR-3B"

// WriteGSTR3B renders the summary as an xlsx workbook.
func WriteGSTR3B(w io.Writer, s GSTR3BSummary) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", gstr3bSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 13}})
	if err != nil {
		return fmt.Errorf("creating title style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return fmt.Errorf("creating money style: %w", err)
	}

	row := 1
	set := func(col int, v interface{}) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(gstr3bSheet, cell, v)
	}
	styleRow := func(style, cols int) {
		from, _ := excelize.CoordinatesToCellName(1, row)
		to, _ := excelize.CoordinatesToCellName(cols, row)
		_ = f.SetCellStyle(gstr3bSheet, from, to, style)
	}
	money := func(col int, v decimal.Decimal) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellFloat(gstr3bSheet, cell, v.InexactFloat64(), 2, 64)
		_ = f.SetCellStyle(gstr3bSheet, cell, cell, moneyStyle)
	}

	set(1, "GSTR-3B summary")
	styleRow(titleStyle, 1)
	row++
	set(1, "Legal name")
	set(2, s.BusinessName)
	row++
	set(1, "GSTIN")
	set(2, s.GSTIN)
	row++
	set(1, "Period")
	set(2, s.Period.String())
	row += 2

	section := func(title string, lines []struct {
		label string
		t     gst.Totals
	}) {
		set(1, title)
		styleRow(titleStyle, 1)
		row++
		for i, h := range []string{"Nature of supplies", "Taxable value", "Integrated tax", "Central tax", "State/UT tax"} {
			set(i+1, h)
		}
		styleRow(headerStyle, 5)
		row++
		for _, l := range lines {
			set(1, l.label)
			money(2, l.t.Subtotal)
			money(3, l.t.IGST)
			money(4, l.t.CGST)
			money(5, l.t.SGST)
			row++
		}
		row++
	}

	section("3.1 Details of outward supplies", []struct {
		label string
		t     gst.Totals
	}{
		{"(a) Outward taxable supplies (other than zero rated, nil rated and exempted)", s.OutwardTaxable},
		{"(b) Outward taxable supplies (zero rated)", s.ZeroRated},
		{"(c) Other outward supplies (nil rated, exempted)", s.NilExempt},
	})
	section("4. Eligible ITC", []struct {
		label string
		t     gst.Totals
	}{
		{"(A)(5) All other ITC", s.EligibleITC},
		{"(D) Ineligible ITC", s.IneligibleITC},
	})

	set(1, "6.1 Payment of tax")
	styleRow(titleStyle, 1)
	row++
	for i, h := range []string{"Description", "Tax payable", "Paid through ITC", "Tax paid in cash"} {
		set(i+1, h)
	}
	styleRow(headerStyle, 4)
	row++
	l := s.Liability
	for _, head := range []struct {
		label            string
		output, net, itc decimal.Decimal
	}{
		{"Integrated tax", l.OutputIGST, l.NetIGST, l.OutputIGST.Sub(l.NetIGST)},
		{"Central tax", l.OutputCGST, l.NetCGST, l.OutputCGST.Sub(l.NetCGST)},
		{"State/UT tax", l.OutputSGST, l.NetSGST, l.OutputSGST.Sub(l.NetSGST)},
	} {
		set(1, head.label)
		money(2, head.output)
		money(3, head.itc)
		money(4, head.net)
		row++
	}
	set(1, "Total payable")
	money(4, l.TotalPayable)

	if err := f.SetColWidth(gstr3bSheet, "A", "A", 70); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}
	if err := f.SetColWidth(gstr3bSheet, "B", "E", 18); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
