package gst

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Rate is a GST slab expressed in whole percent.
type Rate int

// The fixed GST rate schedule.
const (
	Rate0  Rate = 0
	Rate5  Rate = 5
	Rate12 Rate = 12
	Rate18 Rate = 18
	Rate28 Rate = 28
)

var schedule = []Rate{Rate0, Rate5, Rate12, Rate18, Rate28}

// Rates returns the rate schedule in ascending order.
func Rates() []Rate {
	out := make([]Rate, len(schedule))
	copy(out, schedule)
	return out
}

// Valid reports whether r is part of the schedule.
func (r Rate) Valid() bool {
	for _, s := range schedule {
		if r == s {
			return true
		}
	}
	return false
}

// Decimal returns the rate as a percentage.
func (r Rate) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(r))
}

// ParseRate converts a percentage into a Rate. Fractional or off-schedule values are rejected.
func ParseRate(d decimal.Decimal) (Rate, error) {
	if !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("gst rate %s is not a whole percentage", d.String())
	}
	r := Rate(d.IntPart())
	if !r.Valid() {
		return 0, fmt.Errorf("gst rate %s is not in the rate schedule", d.String())
	}
	return r, nil
}
