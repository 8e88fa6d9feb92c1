package contracts

import (
	"context"
	"time"

	appoutbox "kostadmin/internal/app/outbox"
	"kostadmin/internal/domain/catalog"
	domaincontract "kostadmin/internal/domain/contract"
	domainpromo "kostadmin/internal/domain/promotion"
	"kostadmin/internal/domain/shared/events"
	"kostadmin/internal/domain/shared/money"
	domainuser "kostadmin/internal/domain/user"
)

// UsageSource provides the prior-redemption snapshot for one resolution.
type UsageSource interface {
	Snapshot(userID, contractID, invoiceID string, at time.Time) domainpromo.UsageFunc
}

// UsageRecorder persists a redemption after the contract commits.
type UsageRecorder interface {
	Record(ctx context.Context, id domainpromo.PromotionID, userID, contractID, invoiceID string, at time.Time) error
}

type CreateContractCommand struct {
	CommandID     string
	RoomID        catalog.RoomID
	TenantID      string
	StartDate     time.Time
	Period        domaincontract.BillingPeriod
	DurationCount int
	Channel       string
	CouponCode    string
	// InvoiceID is the opening invoice the creation charge lands on, when
	// the billing side already issued one. Empty means no prior usage can
	// exist for the per-invoice quota.
	InvoiceID string
	AutoRenew *bool
}

type CreateContractResult struct {
	ContractID  string    `json:"contract_id"`
	EndDate     time.Time `json:"end_date"`
	BillingDay  int       `json:"billing_day"`
	RentIDR     int64     `json:"rent_idr"`
	DiscountIDR int64     `json:"discount_idr"`
	PayableIDR  int64     `json:"payable_idr"`
	FreeDays    int       `json:"free_days,omitempty"`
	FreePeriods int       `json:"free_periods,omitempty"`
}

// CreateContractHandler runs the full creation flow: duration validation,
// term computation, promotion resolution over a consistent snapshot, coupon
// redemption, persistence and event recording. The resolver decides
// eligibility; the redeemer owns the atomic check-and-increment, so a race
// on the last coupon unit surfaces here as ErrCouponUnavailable.
type CreateContractHandler struct {
	Contracts  domaincontract.Repository
	Rooms      catalog.RoomRepository
	Promotions domainpromo.Repository
	Redeemer   domainpromo.CouponRedeemer
	Usage      UsageSource
	UsageLog   UsageRecorder
	Users      domainuser.Repository
	Settings   domaincontract.Settings
	Billing    domaincontract.BillingSettings
	Outbox     appoutbox.Outbox
	Encoder    appoutbox.EventEncoder
	Now        func() time.Time
}

func (h *CreateContractHandler) Handle(ctx context.Context, cmd CreateContractCommand) (*CreateContractResult, error) {
	if _, err := domaincontract.ParsePeriod(string(cmd.Period)); err != nil {
		return nil, err
	}
	if err := h.Settings.ValidateDuration(cmd.Period, cmd.DurationCount); err != nil {
		return nil, err
	}

	now := h.now()
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

	room, err := h.Rooms.ByID(ctx, cmd.RoomID)
	if err != nil {
		return nil, err
	}
	rent := rentFor(room, cmd.Period, cmd.DurationCount)

	roles := []string(nil)
	if h.Users != nil {
		if u, err := h.Users.ByID(ctx, domainuser.ID(cmd.TenantID)); err == nil {
			roles = u.RoleNames()
		}
	}

	promoCtx := domainpromo.Context{
		Target: domainpromo.Target{
			RoomID:     room.ID,
			FloorID:    room.FloorID,
			BuildingID: room.BuildingID,
			RoomTypeID: room.RoomTypeID,
		},
		Period:      cmd.Period,
		Channel:     cmd.Channel,
		At:          now,
		Audience:    domainpromo.Audience{UserID: cmd.TenantID, RoleNames: roles},
		CouponCode:  cmd.CouponCode,
		SpendIDR:    rent,
		ChargeRent:  true,
		PeriodIndex: 1,
	}

	var matches []domainpromo.Match
	var outcome domainpromo.Outcome
	outcome.RemainingIDR = rent
	if h.Promotions != nil {
		promos, err := h.Promotions.ListActive(ctx)
		if err != nil {
			return nil, err
		}
		var usage domainpromo.UsageFunc
		if h.Usage != nil {
			usage = h.Usage.Snapshot(cmd.TenantID, cmd.CommandID, cmd.InvoiceID, now)
		}
		matches = domainpromo.Resolve(promoCtx, promos, usage)
		outcome = domainpromo.Compose(matches, rent)
	}

	applied, err := h.commitRedemptions(ctx, matches, outcome, cmd, now)
	if err != nil {
		return nil, err
	}

	autoRenew := h.Settings.AutoRenewDefault
	if cmd.AutoRenew != nil {
		autoRenew = *cmd.AutoRenew
	}

	c, err := domaincontract.NewContract(domaincontract.CreateParams{
		ID:         domaincontract.ContractID(cmd.CommandID),
		RoomID:     room.ID,
		TenantID:   cmd.TenantID,
		Term:       term,
		Result:     result,
		RentIDR:    rent,
		DepositIDR: room.DepositIDR,
		AutoRenew:  autoRenew,
		Promotions: applied,
		CreatedAt:  now,
	})
	if err != nil {
		return nil, err
	}
	if err := h.Contracts.Save(ctx, c); err != nil {
		return nil, err
	}
	if err := appoutbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, c.PendingEvents()); err != nil {
		return nil, err
	}
	c.ClearEvents()

	return &CreateContractResult{
		ContractID:  string(c.ID),
		EndDate:     c.EndDate,
		BillingDay:  c.BillingDay,
		RentIDR:     int64(c.RentIDR),
		DiscountIDR: int64(outcome.DiscountIDR),
		PayableIDR:  int64(outcome.RemainingIDR),
		FreeDays:    outcome.FreeDays,
		FreePeriods: outcome.FreePeriods,
	}, nil
}

// commitRedemptions turns the composed outcome into per-promotion applied
// records, redeeming coupons and logging usage as it goes.
func (h *CreateContractHandler) commitRedemptions(ctx context.Context, matches []domainpromo.Match, outcome domainpromo.Outcome, cmd CreateContractCommand, now time.Time) ([]domaincontract.AppliedPromotion, error) {
	perPromo := make(map[domainpromo.PromotionID]money.IDR)
	var order []domainpromo.PromotionID
	for _, a := range outcome.Applied {
		if _, seen := perPromo[a.PromotionID]; !seen {
			order = append(order, a.PromotionID)
		}
		perPromo[a.PromotionID] += a.DeltaIDR
	}

	couponByPromo := make(map[domainpromo.PromotionID]string)
	for _, m := range matches {
		if m.CouponCode != "" {
			couponByPromo[m.Promotion.ID] = m.CouponCode
		}
	}

	var applied []domaincontract.AppliedPromotion
	for _, id := range order {
		code := couponByPromo[id]
		if code != "" && h.Redeemer != nil {
			if err := h.Redeemer.Redeem(ctx, id, code); err != nil {
				return nil, err
			}
			if err := appoutbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, []events.DomainEvent{
				domainpromo.CouponRedeemed{PromotionID: id, Code: code, UserID: cmd.TenantID, At: now},
			}); err != nil {
				return nil, err
			}
		}
		if h.UsageLog != nil {
			if err := h.UsageLog.Record(ctx, id, cmd.TenantID, cmd.CommandID, cmd.InvoiceID, now); err != nil {
				return nil, err
			}
		}
		applied = append(applied, domaincontract.AppliedPromotion{
			PromotionID: string(id),
			CouponCode:  code,
			DiscountIDR: perPromo[id],
		})
	}
	return applied, nil
}

func (h *CreateContractHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

// rentFor prices the whole term from the room's period rates.
func rentFor(room *catalog.Room, period domaincontract.BillingPeriod, count int) money.IDR {
	switch period {
	case domaincontract.PeriodDaily:
		return room.DailyIDR * money.IDR(count)
	case domaincontract.PeriodWeekly:
		return room.WeeklyIDR * money.IDR(count)
	case domaincontract.PeriodMonthly:
		return room.MonthlyIDR * money.IDR(count)
	}
	return 0
}
