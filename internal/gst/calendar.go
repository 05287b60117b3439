package gst

import "time"

// DefaultDueDate returns the statutory due date of a return for period.
// Annual returns use the financial year the period falls in.
func DefaultDueDate(rt ReturnType, p Period, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	next := p.Next()
	switch rt {
	case ReturnGSTR1:
		return time.Date(next.Year, next.Month, 11, 0, 0, 0, 0, loc)
	case ReturnCMP08:
		// 18th of the month following the quarter end.
		qEnd := time.Month(((int(p.Month)-1)/3)*3 + 3)
		after := Period{Month: qEnd, Year: p.Year}.Next()
		return time.Date(after.Year, after.Month, 18, 0, 0, 0, 0, loc)
	case ReturnGSTR4:
		return time.Date(p.FinancialYear()+1, time.April, 30, 0, 0, 0, 0, loc)
	case ReturnGSTR9:
		return time.Date(p.FinancialYear()+1, time.December, 31, 0, 0, 0, 0, loc)
	default:
		return time.Date(next.Year, next.Month, 20, 0, 0, 0, 0, loc)
	}
}

// CoveredPeriods returns the months a return reports on: the period itself for
// monthly returns, its quarter for CMP-08 and its financial year for annual returns.
func CoveredPeriods(rt ReturnType, p Period) []Period {
	var start Period
	var n int
	switch rt {
	case ReturnCMP08:
		start, n = Period{Month: time.Month(((int(p.Month)-1)/3)*3 + 1), Year: p.Year}, 3
	case ReturnGSTR4, ReturnGSTR9:
		start, n = Period{Month: time.April, Year: p.FinancialYear()}, 12
	default:
		return []Period{p}
	}
	out := make([]Period, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, start)
		start = start.Next()
	}
	return out
}
