package gst

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrInvalidPeriod is returned for period keys that are not MMYYYY.
var ErrInvalidPeriod = errors.New("invalid period: expected MMYYYY")

// Period identifies a monthly filing period.
type Period struct {
	Month time.Month
	Year  int
}

// ParsePeriod parses a six character MMYYYY key such as "032025".
func ParsePeriod(key string) (Period, error) {
	if len(key) != 6 {
		return Period{}, ErrInvalidPeriod
	}
	for i := 0; i < len(key); i++ {
		if key[i] < '0' || key[i] > '9' {
			return Period{}, ErrInvalidPeriod
		}
	}
	m, err := strconv.Atoi(key[:2])
	if err != nil || m < 1 || m > 12 {
		return Period{}, ErrInvalidPeriod
	}
	y, err := strconv.Atoi(key[2:])
	if err != nil || y < 1 {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Month: time.Month(m), Year: y}, nil
}

// PeriodOf returns the period a date falls in.
func PeriodOf(t time.Time) Period {
	return Period{Month: t.Month(), Year: t.Year()}
}

// String formats the period as its MMYYYY key.
func (p Period) String() string {
	return fmt.Sprintf("%02d%04d", int(p.Month), p.Year)
}

// Bounds returns the first and last calendar day of the period in loc.
// Both are midnight values and the range is inclusive.
func (p Period) Bounds(loc *time.Location) (start, end time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	start = time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, loc)
	end = start.AddDate(0, 1, -1)
	return start, end
}

// Next returns the following month.
func (p Period) Next() Period {
	if p.Month == time.December {
		return Period{Month: time.January, Year: p.Year + 1}
	}
	return Period{Month: p.Month + 1, Year: p.Year}
}

// Contains reports whether t (in its own location) falls within the period.
func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.Year && t.Month() == p.Month
}

// FinancialYear returns the April-March financial year the period belongs to,
// identified by its starting calendar year.
func (p Period) FinancialYear() int {
	if p.Month < time.April {
		return p.Year - 1
	}
	return p.Year
}

// MarshalText implements encoding.TextMarshaler.
func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Period) UnmarshalText(b []byte) error {
	parsed, err := ParsePeriod(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
