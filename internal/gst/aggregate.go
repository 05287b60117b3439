package gst

import "github.com/shopspring/decimal"

// Totals holds the document-level sums of its lines.
type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	CGST       decimal.Decimal `json:"total_cgst"`
	SGST       decimal.Decimal `json:"total_sgst"`
	IGST       decimal.Decimal `json:"total_igst"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// ZeroTotals returns totals with every field set to zero.
func ZeroTotals() Totals {
	return Totals{
		Subtotal:   decimal.Zero,
		CGST:       decimal.Zero,
		SGST:       decimal.Zero,
		IGST:       decimal.Zero,
		GrandTotal: decimal.Zero,
	}
}

// Tax returns CGST + SGST + IGST.
func (t Totals) Tax() decimal.Decimal {
	return t.CGST.Add(t.SGST).Add(t.IGST)
}

// Aggregate sums line results field by field. Line amounts are already rounded,
// so the result does not depend on order.
func Aggregate(lines []LineResult) Totals {
	t := ZeroTotals()
	for i := range lines {
		l := &lines[i]
		t.Subtotal = t.Subtotal.Add(l.TaxableAmount)
		t.CGST = t.CGST.Add(l.CGST)
		t.SGST = t.SGST.Add(l.SGST)
		t.IGST = t.IGST.Add(l.IGST)
		t.GrandTotal = t.GrandTotal.Add(l.Total)
	}
	return t
}

// ComputeDocument computes every line under one treatment and aggregates them.
func ComputeDocument(inputs []LineInput, treatment Treatment) ([]LineResult, Totals) {
	results := make([]LineResult, len(inputs))
	for i := range inputs {
		results[i] = ComputeLine(inputs[i], treatment)
	}
	return results, Aggregate(results)
}

// Negate flips the sign of every field. Credit notes enter reconciliation negated.
func (t Totals) Negate() Totals {
	return Totals{
		Subtotal:   t.Subtotal.Neg(),
		CGST:       t.CGST.Neg(),
		SGST:       t.SGST.Neg(),
		IGST:       t.IGST.Neg(),
		GrandTotal: t.GrandTotal.Neg(),
	}
}
