package contract

import (
	"errors"
	"time"

	"kostadmin/internal/domain/shared/calendar"
)

var ErrInvalidTerm = errors.New("contract: term requires a start date and a positive duration")

// Term is the pre-validated input to the end-date and billing-day
// computation. Callers run Settings.ValidateDuration first; over valid
// input the computation is pure and total.
type Term struct {
	StartDate         time.Time
	Period            BillingPeriod
	DurationCount     int
	Prorata           bool
	ReleaseDayOfMonth int
	// UnitDays overrides the nominal unit length for daily/weekly terms.
	// Zero means the period default (1 or 7).
	UnitDays int
}

// TermResult is the computed shape of the contract on the calendar.
type TermResult struct {
	EndDate    time.Time
	BillingDay int
}

// prorataApplies reports whether the first period is shortened to align
// subsequent cycles to a fixed day of month. A contract starting on the 1st
// is already aligned, and a single-period contract has nothing to align.
func (t Term) prorataApplies() bool {
	return t.Period == PeriodMonthly && t.Prorata && t.DurationCount >= 2 && t.StartDate.Day() != 1
}

func (t Term) unitDays() int {
	if t.UnitDays > 0 {
		return t.UnitDays
	}
	return t.Period.UnitDays()
}

// ComputeEndDate returns the last day covered by the term.
//
// Monthly terms without prorata keep the start's day-of-month, clamped to
// the target month end. Monthly terms with prorata run start to end of
// month first, then DurationCount full calendar months, landing on a month
// end. Daily and weekly terms are a fixed number of unit days.
func ComputeEndDate(t Term) (time.Time, error) {
	if t.StartDate.IsZero() || t.DurationCount < 1 {
		return time.Time{}, ErrInvalidTerm
	}
	start := calendar.DateOf(t.StartDate)
	switch t.Period {
	case PeriodMonthly:
		if t.prorataApplies() {
			eomStart := calendar.EndOfMonth(start)
			return calendar.EndOfMonth(calendar.AddMonthsClamped(eomStart, t.DurationCount)), nil
		}
		return calendar.AddMonthsClamped(start, t.DurationCount), nil
	case PeriodDaily, PeriodWeekly:
		return calendar.AddDays(start, t.unitDays()*t.DurationCount), nil
	default:
		return time.Time{}, ErrUnknownPeriod
	}
}

// ComputeBillingDay returns the day-of-month recurring invoices anchor on.
// The default is the end date's day; the prorata case overrides it with the
// configured release day, clamped to 1..31.
func ComputeBillingDay(t Term, endDate time.Time) int {
	if t.prorataApplies() {
		return calendar.ClampDay(t.ReleaseDayOfMonth)
	}
	return endDate.Day()
}

// ComputeTerm runs both computations over one term.
func ComputeTerm(t Term) (TermResult, error) {
	end, err := ComputeEndDate(t)
	if err != nil {
		return TermResult{}, err
	}
	return TermResult{EndDate: end, BillingDay: ComputeBillingDay(t, end)}, nil
}
