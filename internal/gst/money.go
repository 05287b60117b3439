// Package gst implements the GST tax engine: line-item tax computation, document
// aggregation, period liability netting, late fee/interest and compliance scoring.
// Every function in this package is pure and safe for concurrent use.
package gst

import "github.com/shopspring/decimal"

// MoneyPlaces is the number of decimal places every reported amount is rounded to.
const MoneyPlaces = 2

var (
	hundred    = decimal.NewFromInt(100)
	twoHundred = decimal.NewFromInt(200)
)

// RoundMoney rounds d to two decimal places, half away from zero.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// Percent returns amount × rate / 100 at full precision.
func Percent(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Div(hundred)
}

// MaxZero returns d, or zero when d is negative.
func MaxZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
