package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeTerm_MonthlyProrata(t *testing.T) {
	tests := []struct {
		name        string
		term        Term
		wantEnd     time.Time
		wantBilling int
	}{
		{
			name: "mid-month start aligns to month end",
			term: Term{
				StartDate:         date(2025, time.January, 15),
				Period:            PeriodMonthly,
				DurationCount:     3,
				Prorata:           true,
				ReleaseDayOfMonth: 1,
			},
			wantEnd:     date(2025, time.April, 30),
			wantBilling: 1,
		},
		{
			name: "start on the 1st skips prorata",
			term: Term{
				StartDate:         date(2025, time.January, 1),
				Period:            PeriodMonthly,
				DurationCount:     6,
				Prorata:           true,
				ReleaseDayOfMonth: 1,
			},
			wantEnd:     date(2025, time.July, 1),
			wantBilling: 1,
		},
		{
			name: "single period skips prorata",
			term: Term{
				StartDate:         date(2025, time.January, 15),
				Period:            PeriodMonthly,
				DurationCount:     1,
				Prorata:           true,
				ReleaseDayOfMonth: 1,
			},
			wantEnd:     date(2025, time.February, 15),
			wantBilling: 15,
		},
		{
			name: "leap february lands on month end",
			term: Term{
				StartDate:         date(2024, time.January, 15),
				Period:            PeriodMonthly,
				DurationCount:     2,
				Prorata:           true,
				ReleaseDayOfMonth: 5,
			},
			wantEnd:     date(2024, time.March, 31),
			wantBilling: 5,
		},
		{
			name: "release day out of range is clamped",
			term: Term{
				StartDate:         date(2025, time.May, 20),
				Period:            PeriodMonthly,
				DurationCount:     2,
				Prorata:           true,
				ReleaseDayOfMonth: 0,
			},
			wantEnd:     date(2025, time.July, 31),
			wantBilling: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeTerm(tt.term)
			require.NoError(t, err)
			assert.Equal(t, tt.wantEnd, got.EndDate)
			assert.Equal(t, tt.wantBilling, got.BillingDay)
		})
	}
}

func TestComputeTerm_MonthlyWithoutProrata(t *testing.T) {
	tests := []struct {
		name        string
		term        Term
		wantEnd     time.Time
		wantBilling int
	}{
		{
			name: "keeps day of month",
			term: Term{
				StartDate:     date(2025, time.January, 15),
				Period:        PeriodMonthly,
				DurationCount: 3,
			},
			wantEnd:     date(2025, time.April, 15),
			wantBilling: 15,
		},
		{
			name: "clamps jan 31 to feb 28",
			term: Term{
				StartDate:     date(2025, time.January, 31),
				Period:        PeriodMonthly,
				DurationCount: 1,
			},
			wantEnd:     date(2025, time.February, 28),
			wantBilling: 28,
		},
		{
			name: "clamps to feb 29 on leap year",
			term: Term{
				StartDate:     date(2024, time.January, 31),
				Period:        PeriodMonthly,
				DurationCount: 1,
			},
			wantEnd:     date(2024, time.February, 29),
			wantBilling: 29,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeTerm(tt.term)
			require.NoError(t, err)
			assert.Equal(t, tt.wantEnd, got.EndDate)
			assert.Equal(t, tt.wantBilling, got.BillingDay)
		})
	}
}

func TestComputeTerm_DailyAndWeekly(t *testing.T) {
	got, err := ComputeTerm(Term{
		StartDate:     date(2025, time.March, 10),
		Period:        PeriodWeekly,
		DurationCount: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.March, 24), got.EndDate)
	assert.Equal(t, 24, got.BillingDay)

	got, err = ComputeTerm(Term{
		StartDate:     date(2025, time.June, 1),
		Period:        PeriodDaily,
		DurationCount: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.June, 11), got.EndDate)
	assert.Equal(t, 11, got.BillingDay)
}

func TestComputeTerm_UnitDaysOverride(t *testing.T) {
	// A 10-day "week" used by some operators.
	got, err := ComputeTerm(Term{
		StartDate:     date(2025, time.March, 1),
		Period:        PeriodWeekly,
		DurationCount: 2,
		UnitDays:      10,
	})
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.March, 21), got.EndDate)
}

func TestComputeTerm_ProrataIgnoresWeekly(t *testing.T) {
	got, err := ComputeTerm(Term{
		StartDate:         date(2025, time.March, 10),
		Period:            PeriodWeekly,
		DurationCount:     4,
		Prorata:           true,
		ReleaseDayOfMonth: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.April, 7), got.EndDate)
	assert.Equal(t, 7, got.BillingDay)
}

func TestComputeTerm_InvalidInput(t *testing.T) {
	_, err := ComputeTerm(Term{Period: PeriodMonthly, DurationCount: 1})
	assert.ErrorIs(t, err, ErrInvalidTerm)

	_, err = ComputeTerm(Term{StartDate: date(2025, time.January, 1), Period: PeriodMonthly})
	assert.ErrorIs(t, err, ErrInvalidTerm)

	_, err = ComputeTerm(Term{StartDate: date(2025, time.January, 1), Period: "hourly", DurationCount: 1})
	assert.ErrorIs(t, err, ErrUnknownPeriod)
}

func TestComputeTerm_Deterministic(t *testing.T) {
	term := Term{
		StartDate:         date(2025, time.August, 17),
		Period:            PeriodMonthly,
		DurationCount:     12,
		Prorata:           true,
		ReleaseDayOfMonth: 1,
	}
	first, err := ComputeTerm(term)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := ComputeTerm(term)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
