package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDateOf_StripsTimeOfDay(t *testing.T) {
	in := time.Date(2025, time.March, 15, 23, 59, 58, 123, time.UTC)
	assert.Equal(t, date(2025, time.March, 15), DateOf(in))
}

func TestDaysIn(t *testing.T) {
	tests := []struct {
		in   time.Time
		want int
	}{
		{date(2025, time.January, 10), 31},
		{date(2025, time.February, 1), 28},
		{date(2024, time.February, 29), 29}, // leap year
		{date(2025, time.April, 30), 30},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DaysIn(tt.in), "month of %s", tt.in)
	}
}

func TestEndOfMonth(t *testing.T) {
	assert.Equal(t, date(2025, time.January, 31), EndOfMonth(date(2025, time.January, 1)))
	assert.Equal(t, date(2025, time.February, 28), EndOfMonth(date(2025, time.February, 14)))
	assert.Equal(t, date(2024, time.February, 29), EndOfMonth(date(2024, time.February, 1)))
}

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{"keeps day when valid", date(2025, time.January, 15), 3, date(2025, time.April, 15)},
		{"clamps jan 31 to feb 28", date(2025, time.January, 31), 1, date(2025, time.February, 28)},
		{"clamps jan 31 to feb 29 on leap year", date(2024, time.January, 31), 1, date(2024, time.February, 29)},
		{"clamps mar 31 to apr 30", date(2025, time.March, 31), 1, date(2025, time.April, 30)},
		{"crosses year boundary", date(2025, time.November, 30), 3, date(2026, time.February, 28)},
		{"zero months is identity", date(2025, time.June, 10), 0, date(2025, time.June, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, AddMonthsClamped(tt.start, tt.months))
		})
	}
}

func TestAddDays(t *testing.T) {
	assert.Equal(t, date(2025, time.March, 24), AddDays(date(2025, time.March, 10), 14))
	assert.Equal(t, date(2026, time.January, 1), AddDays(date(2025, time.December, 31), 1))
}

func TestClampDay(t *testing.T) {
	assert.Equal(t, 1, ClampDay(0))
	assert.Equal(t, 1, ClampDay(-5))
	assert.Equal(t, 15, ClampDay(15))
	assert.Equal(t, 31, ClampDay(40))
}

func TestSameDate(t *testing.T) {
	a := time.Date(2025, time.July, 4, 1, 0, 0, 0, time.UTC)
	b := time.Date(2025, time.July, 4, 23, 0, 0, 0, time.UTC)
	assert.True(t, SameDate(a, b))
	assert.False(t, SameDate(a, b.AddDate(0, 0, 1)))
}
