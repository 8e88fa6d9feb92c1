package promotions

import (
	"context"
	"time"

	"kostadmin/internal/domain/catalog"
	domaincontract "kostadmin/internal/domain/contract"
	domainpromo "kostadmin/internal/domain/promotion"
	"kostadmin/internal/domain/shared/money"
	domainuser "kostadmin/internal/domain/user"
)

// UsageSource mirrors the contracts handler dependency: a consistent
// counter snapshot taken before resolution.
type UsageSource interface {
	Snapshot(userID, contractID, invoiceID string, at time.Time) domainpromo.UsageFunc
}

type ResolveCommand struct {
	RoomID        catalog.RoomID
	Period        domaincontract.BillingPeriod
	Channel       string
	At            time.Time
	UserID        string
	InvoiceID     string
	CouponCode    string
	SpendIDR      money.IDR
	ChargeRent    bool
	ChargeDeposit bool
	PeriodIndex   int
}

type ResolvedAction struct {
	PromotionID string `json:"promotion_id"`
	ActionType  string `json:"action_type"`
	DeltaIDR    int64  `json:"delta_idr"`
}

type ResolveResult struct {
	PromotionIDs []string         `json:"promotion_ids"`
	Actions      []ResolvedAction `json:"actions"`
	DiscountIDR  int64            `json:"discount_idr"`
	RemainingIDR int64            `json:"remaining_idr"`
	FreeDays     int              `json:"free_days,omitempty"`
	FreePeriods  int              `json:"free_periods,omitempty"`
}

// ResolveHandler previews the discount for a candidate transaction without
// redeeming anything.
type ResolveHandler struct {
	Promotions domainpromo.Repository
	Rooms      catalog.RoomRepository
	Users      domainuser.Repository
	Usage      UsageSource
	Now        func() time.Time
}

func (h *ResolveHandler) Handle(ctx context.Context, cmd ResolveCommand) (*ResolveResult, error) {
	if _, err := domaincontract.ParsePeriod(string(cmd.Period)); err != nil {
		return nil, err
	}
	room, err := h.Rooms.ByID(ctx, cmd.RoomID)
	if err != nil {
		return nil, err
	}

	at := cmd.At
	if at.IsZero() {
		if h.Now != nil {
			at = h.Now()
		} else {
			at = time.Now()
		}
	}
	at = at.UTC()

	roles := []string(nil)
	if h.Users != nil && cmd.UserID != "" {
		if u, err := h.Users.ByID(ctx, domainuser.ID(cmd.UserID)); err == nil {
			roles = u.RoleNames()
		}
	}

	periodIndex := cmd.PeriodIndex
	if periodIndex == 0 {
		periodIndex = 1
	}

	promoCtx := domainpromo.Context{
		Target: domainpromo.Target{
			RoomID:     room.ID,
			FloorID:    room.FloorID,
			BuildingID: room.BuildingID,
			RoomTypeID: room.RoomTypeID,
		},
		Period:        cmd.Period,
		Channel:       cmd.Channel,
		At:            at,
		Audience:      domainpromo.Audience{UserID: cmd.UserID, RoleNames: roles},
		CouponCode:    cmd.CouponCode,
		SpendIDR:      cmd.SpendIDR,
		ChargeRent:    cmd.ChargeRent,
		ChargeDeposit: cmd.ChargeDeposit,
		PeriodIndex:   periodIndex,
	}

	promos, err := h.Promotions.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	var usage domainpromo.UsageFunc
	if h.Usage != nil {
		usage = h.Usage.Snapshot(cmd.UserID, "", cmd.InvoiceID, at)
	}

	matches := domainpromo.Resolve(promoCtx, promos, usage)
	outcome := domainpromo.Compose(matches, cmd.SpendIDR)

	res := &ResolveResult{
		DiscountIDR:  int64(outcome.DiscountIDR),
		RemainingIDR: int64(outcome.RemainingIDR),
		FreeDays:     outcome.FreeDays,
		FreePeriods:  outcome.FreePeriods,
	}
	seen := make(map[string]bool)
	for _, a := range outcome.Applied {
		id := string(a.PromotionID)
		if !seen[id] {
			seen[id] = true
			res.PromotionIDs = append(res.PromotionIDs, id)
		}
		res.Actions = append(res.Actions, ResolvedAction{
			PromotionID: id,
			ActionType:  string(a.Type),
			DeltaIDR:    int64(a.DeltaIDR),
		})
	}
	return res, nil
}
