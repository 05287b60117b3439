package gst

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReturnType identifies a statutory GST return.
type ReturnType string

const (
	ReturnGSTR1  ReturnType = "GSTR1"
	ReturnGSTR3B ReturnType = "GSTR3B"
	ReturnGSTR4  ReturnType = "GSTR4"
	ReturnGSTR9  ReturnType = "GSTR9"
	ReturnCMP08  ReturnType = "CMP08"
)

// Valid reports whether t is a known return type.
func (t ReturnType) Valid() bool {
	switch t {
	case ReturnGSTR1, ReturnGSTR3B, ReturnGSTR4, ReturnGSTR9, ReturnCMP08:
		return true
	}
	return false
}

type feeSchedule struct {
	perDay int64
	cap    int64
}

var lateFeeSchedule = map[ReturnType]feeSchedule{
	ReturnGSTR1:  {perDay: 50, cap: 5000},
	ReturnGSTR3B: {perDay: 50, cap: 5000},
	ReturnGSTR4:  {perDay: 50, cap: 5000},
	ReturnCMP08:  {perDay: 50, cap: 5000},
	ReturnGSTR9:  {perDay: 200, cap: 10000},
}

var (
	annualInterestRate = decimal.RequireFromString("0.18")
	daysInYear         = decimal.NewFromInt(365)
)

// Penalty is the late fee and interest owed on a return.
type Penalty struct {
	DaysLate     int             `json:"days_late"`
	LateFee      decimal.Decimal `json:"late_fee"`
	Interest     decimal.Decimal `json:"interest"`
	TotalPenalty decimal.Decimal `json:"total_penalty"`
}

// DaysLate returns the whole calendar days between dueDate and today, never negative.
// Both dates are compared as calendar dates in today's location.
func DaysLate(dueDate, today time.Time) int {
	loc := today.Location()
	due := dueDate.In(loc)
	d0 := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	d1 := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	days := int(d1.Sub(d0).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// LateFee returns the capped late fee for the given number of days late.
func LateFee(rt ReturnType, daysLate int) decimal.Decimal {
	if daysLate <= 0 {
		return decimal.Zero
	}
	s, ok := lateFeeSchedule[rt]
	if !ok {
		s = lateFeeSchedule[ReturnGSTR3B]
	}
	fee := int64(daysLate) * s.perDay
	if fee > s.cap {
		fee = s.cap
	}
	return decimal.NewFromInt(fee)
}

// CalculatePenalty computes late fee and simple interest at 18% a year on
// outstanding tax for a return due on dueDate, as of today.
func CalculatePenalty(rt ReturnType, dueDate time.Time, outstanding decimal.Decimal, today time.Time) Penalty {
	days := DaysLate(dueDate, today)
	fee := LateFee(rt, days)
	interest := RoundMoney(outstanding.Mul(annualInterestRate).Mul(decimal.NewFromInt(int64(days))).Div(daysInYear))
	return Penalty{
		DaysLate:     days,
		LateFee:      fee,
		Interest:     interest,
		TotalPenalty: fee.Add(interest),
	}
}
