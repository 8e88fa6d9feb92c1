package contract

import (
	"errors"
	"fmt"
)

var ErrUnknownPeriod = errors.New("contract: unknown billing period")

// BillingPeriod is the recurrence unit of a contract's invoicing cycle.
type BillingPeriod string

const (
	PeriodDaily   BillingPeriod = "daily"
	PeriodWeekly  BillingPeriod = "weekly"
	PeriodMonthly BillingPeriod = "monthly"
)

// ParsePeriod rejects values outside the closed set; no silent fallback.
func ParsePeriod(s string) (BillingPeriod, error) {
	switch BillingPeriod(s) {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return BillingPeriod(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
	}
}

// UnitDays is the nominal length of one billing unit in days.
// Monthly periods do not have a fixed unit and report zero.
func (p BillingPeriod) UnitDays() int {
	switch p {
	case PeriodDaily:
		return 1
	case PeriodWeekly:
		return 7
	case PeriodMonthly:
		return 0
	}
	return 0
}

func (p BillingPeriod) Valid() bool {
	_, err := ParsePeriod(string(p))
	return err == nil
}
