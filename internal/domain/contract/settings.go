package contract

import (
	"errors"
	"fmt"
)

var (
	ErrDurationTooSmall   = errors.New("contract: duration must be at least 1")
	ErrDurationOverDaily  = errors.New("contract: daily duration exceeds configured maximum")
	ErrDurationOverWeekly = errors.New("contract: weekly duration exceeds configured maximum")
	ErrTermNotAllowed     = errors.New("contract: monthly term is not in the allowed list")
)

// Settings are the contract-level knobs the back office exposes. They are
// loaded once by the config layer and passed in explicitly; the calculator
// never reads ambient state.
type Settings struct {
	AutoRenewDefault    bool
	DailyMaxDays        int
	WeeklyMaxWeeks      int
	MonthlyAllowedTerms []int
}

// BillingSettings anchor recurring invoices to the calendar.
type BillingSettings struct {
	Prorata           bool
	ReleaseDayOfMonth int
	DueDayOfMonth     int
}

// ValidateDuration enforces the configured caps: a hard max for daily and
// weekly counts, an explicit allow-list for monthly terms.
func (s Settings) ValidateDuration(period BillingPeriod, count int) error {
	if count < 1 {
		return fmt.Errorf("%w: got %d", ErrDurationTooSmall, count)
	}
	switch period {
	case PeriodDaily:
		if s.DailyMaxDays > 0 && count > s.DailyMaxDays {
			return fmt.Errorf("%w: %d > %d", ErrDurationOverDaily, count, s.DailyMaxDays)
		}
	case PeriodWeekly:
		if s.WeeklyMaxWeeks > 0 && count > s.WeeklyMaxWeeks {
			return fmt.Errorf("%w: %d > %d", ErrDurationOverWeekly, count, s.WeeklyMaxWeeks)
		}
	case PeriodMonthly:
		if len(s.MonthlyAllowedTerms) == 0 {
			return nil
		}
		for _, allowed := range s.MonthlyAllowedTerms {
			if count == allowed {
				return nil
			}
		}
		return fmt.Errorf("%w: %d", ErrTermNotAllowed, count)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPeriod, period)
	}
	return nil
}
