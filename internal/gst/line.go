package gst

import "github.com/shopspring/decimal"

// DiscountType says how LineInput.Discount is interpreted.
type DiscountType string

const (
	DiscountAmount     DiscountType = "amount"
	DiscountPercentage DiscountType = "percentage"
)

// LineInput holds the user-entered values of a line item.
type LineInput struct {
	Quantity     decimal.Decimal
	Rate         decimal.Decimal
	Discount     decimal.Decimal
	DiscountType DiscountType
	GSTRate      Rate
}

// LineResult holds the derived amounts of a line item, each rounded to two places.
type LineResult struct {
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	CGST          decimal.Decimal `json:"cgst"`
	SGST          decimal.Decimal `json:"sgst"`
	IGST          decimal.Decimal `json:"igst"`
	Total         decimal.Decimal `json:"total"`
}

// ComputeLine computes the taxable amount and tax split of one line.
// A negative taxable amount is returned as is.
func ComputeLine(in LineInput, treatment Treatment) LineResult {
	base := in.Quantity.Mul(in.Rate)
	discount := in.Discount
	if in.DiscountType == DiscountPercentage {
		discount = Percent(base, in.Discount)
	}
	taxable := RoundMoney(base.Sub(discount))

	res := LineResult{
		TaxableAmount: taxable,
		CGST:          decimal.Zero,
		SGST:          decimal.Zero,
		IGST:          decimal.Zero,
	}
	switch treatment {
	case TreatmentInterState:
		res.IGST = RoundMoney(Percent(taxable, in.GSTRate.Decimal()))
	case TreatmentIntraState:
		half := RoundMoney(taxable.Mul(in.GSTRate.Decimal()).Div(twoHundred))
		res.CGST = half
		res.SGST = half
	}
	res.Total = taxable.Add(res.CGST).Add(res.SGST).Add(res.IGST)
	return res
}
