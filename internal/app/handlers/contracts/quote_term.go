package contracts

import (
	"context"
	"time"

	domaincontract "kostadmin/internal/domain/contract"
)

// QuoteTermCommand carries the raw term inputs after HTTP binding.
type QuoteTermCommand struct {
	StartDate     time.Time
	Period        domaincontract.BillingPeriod
	DurationCount int
}

type QuoteTermResult struct {
	EndDate    time.Time `json:"end_date"`
	BillingDay int       `json:"billing_day"`
}

// QuoteTermHandler validates the duration against the configured caps and
// runs the calculator. The prorata flag and release day come from billing
// settings, not from the request.
type QuoteTermHandler struct {
	Settings domaincontract.Settings
	Billing  domaincontract.BillingSettings
}

func (h *QuoteTermHandler) Handle(ctx context.Context, cmd QuoteTermCommand) (*QuoteTermResult, error) {
	if _, err := domaincontract.ParsePeriod(string(cmd.Period)); err != nil {
		return nil, err
	}
	if err := h.Settings.ValidateDuration(cmd.Period, cmd.DurationCount); err != nil {
		return nil, err
	}
	term := domaincontract.Term{
		StartDate:         cmd.StartDate,
		Period:            cmd.Period,
		DurationCount:     cmd.DurationCount,
		Prorata:           h.Billing.Prorata,
		ReleaseDayOfMonth: h.Billing.ReleaseDayOfMonth,
	}
	result, err := domaincontract.ComputeTerm(term)
	if err != nil {
		return nil, err
	}
	return &QuoteTermResult{EndDate: result.EndDate, BillingDay: result.BillingDay}, nil
}
