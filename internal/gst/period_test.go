package gst_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstdesk/internal/gst"
)

func TestParsePeriod(t *testing.T) {
	p, err := gst.ParsePeriod("032025")
	require.NoError(t, err)
	assert.Equal(t, time.March, p.Month)
	assert.Equal(t, 2025, p.Year)
	assert.Equal(t, "032025", p.String())

	for _, bad := range []string{"", "32025", "132025", "002025", "ab2025", "03202x", "0320255", "2025-03",
		"+12025", "01+025", "-12025", "01-025", " 12025", "01 025"} {
		_, err := gst.ParsePeriod(bad)
		assert.ErrorIs(t, err, gst.ErrInvalidPeriod, bad)
	}
}

func TestParsePeriod_RoundTrip(t *testing.T) {
	for _, key := range []string{"012025", "122026", "040001", "099999"} {
		p, err := gst.ParsePeriod(key)
		require.NoError(t, err, key)
		assert.Equal(t, key, p.String())
	}
}

func TestPeriod_Bounds(t *testing.T) {
	start, end := gst.Period{Month: time.February, Year: 2024}.Bounds(time.UTC)
	assert.Equal(t, date(2024, time.February, 1), start)
	assert.Equal(t, date(2024, time.February, 29), end)

	start, end = gst.Period{Month: time.December, Year: 2023}.Bounds(nil)
	assert.Equal(t, date(2023, time.December, 1), start)
	assert.Equal(t, date(2023, time.December, 31), end)
}

func TestPeriod_NextAndFinancialYear(t *testing.T) {
	assert.Equal(t, gst.Period{Month: time.January, Year: 2025}, gst.Period{Month: time.December, Year: 2024}.Next())
	assert.Equal(t, 2023, gst.Period{Month: time.March, Year: 2024}.FinancialYear())
	assert.Equal(t, 2024, gst.Period{Month: time.April, Year: 2024}.FinancialYear())
}

func TestPeriod_Contains(t *testing.T) {
	p := gst.Period{Month: time.April, Year: 2024}
	assert.True(t, p.Contains(date(2024, time.April, 30)))
	assert.False(t, p.Contains(date(2024, time.May, 1)))
	assert.Equal(t, p, gst.PeriodOf(date(2024, time.April, 15)))
}

func TestPeriod_JSON(t *testing.T) {
	var v struct {
		Period gst.Period `json:"period"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"period":"112024"}`), &v))
	assert.Equal(t, gst.Period{Month: time.November, Year: 2024}, v.Period)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"period":"112024"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"period":"2024-11"}`), &v))
}

func TestDefaultDueDate(t *testing.T) {
	tests := []struct {
		rt       gst.ReturnType
		period   gst.Period
		expected time.Time
	}{
		{gst.ReturnGSTR1, gst.Period{Month: time.March, Year: 2024}, date(2024, time.April, 11)},
		{gst.ReturnGSTR3B, gst.Period{Month: time.March, Year: 2024}, date(2024, time.April, 20)},
		{gst.ReturnGSTR3B, gst.Period{Month: time.December, Year: 2024}, date(2025, time.January, 20)},
		{gst.ReturnCMP08, gst.Period{Month: time.May, Year: 2024}, date(2024, time.July, 18)},
		{gst.ReturnCMP08, gst.Period{Month: time.December, Year: 2024}, date(2025, time.January, 18)},
		{gst.ReturnGSTR4, gst.Period{Month: time.February, Year: 2025}, date(2025, time.April, 30)},
		{gst.ReturnGSTR9, gst.Period{Month: time.June, Year: 2024}, date(2025, time.December, 31)},
	}
	for _, tc := range tests {
		t.Run(string(tc.rt)+"_"+tc.period.String(), func(t *testing.T) {
			assert.Equal(t, tc.expected, gst.DefaultDueDate(tc.rt, tc.period, time.UTC))
		})
	}
}

func TestCoveredPeriods(t *testing.T) {
	p, err := gst.ParsePeriod("022025")
	require.NoError(t, err)

	assert.Equal(t, []gst.Period{p}, gst.CoveredPeriods(gst.ReturnGSTR3B, p))

	q := gst.CoveredPeriods(gst.ReturnCMP08, p)
	require.Len(t, q, 3)
	assert.Equal(t, "012025", q[0].String())
	assert.Equal(t, "032025", q[2].String())

	fy := gst.CoveredPeriods(gst.ReturnGSTR9, p)
	require.Len(t, fy, 12)
	assert.Equal(t, "042024", fy[0].String())
	assert.Equal(t, "032025", fy[11].String())
}
