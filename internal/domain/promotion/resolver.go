package promotion

import (
	"sort"
	"time"

	"kostadmin/internal/domain/catalog"
	"kostadmin/internal/domain/contract"
	"kostadmin/internal/domain/shared/money"
)

// Target identifies the room a transaction charges, with its catalog
// lineage, so scopes at any level can match.
type Target struct {
	RoomID     catalog.RoomID
	FloorID    catalog.FloorID
	BuildingID catalog.BuildingID
	RoomTypeID catalog.RoomTypeID
}

// Audience is the user on whose behalf the transaction runs.
type Audience struct {
	UserID    string
	RoleNames []string
}

// Context is the immutable snapshot of one candidate transaction. The
// caller fetches everything up front; the resolver performs no I/O.
type Context struct {
	Target        Target
	Period        contract.BillingPeriod
	Channel       string
	At            time.Time
	Audience      Audience
	CouponCode    string
	SpendIDR      money.IDR
	ChargeRent    bool
	ChargeDeposit bool
	// PeriodIndex is the 1-based billing cycle this charge belongs to.
	// Contract creation charges cycle 1.
	PeriodIndex int
}

// Usage is the prior-redemption snapshot for one promotion, bucketed by
// the limit scopes. The persistence layer owns counting and bucketing.
type Usage struct {
	Total      int
	ByUser     int
	ByContract int
	ByInvoice  int
	ByDay      int
	ByMonth    int
}

// UsageFunc reports usage for a promotion id out of the caller's snapshot.
type UsageFunc func(id PromotionID) Usage

// Match is one eligible promotion with the actions that survived the
// applies-to filter and the tightest rule-level discount cap.
type Match struct {
	Promotion  *Promotion
	Actions    []Action
	CouponCode string
	RuleCapIDR money.IDR
}

// Resolve returns the promotions applicable to ctx in ascending priority
// order. A promotion failing any step is silently excluded; the result may
// be empty and that is not an error.
func Resolve(ctx Context, promos []*Promotion, usage UsageFunc) []Match {
	ordered := make([]*Promotion, len(promos))
	copy(ordered, promos)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	var matches []Match
	for _, p := range ordered {
		m, ok := match(ctx, p, usage)
		if !ok {
			continue
		}
		matches = append(matches, m)
	}
	return matches
}

func match(ctx Context, p *Promotion, usage UsageFunc) (Match, bool) {
	if p == nil || !p.IsActive {
		return Match{}, false
	}
	if p.ValidFrom != nil && ctx.At.Before(*p.ValidFrom) {
		return Match{}, false
	}
	if p.ValidUntil != nil && ctx.At.After(*p.ValidUntil) {
		return Match{}, false
	}

	couponCode := ""
	if p.RequireCoupon {
		c, ok := p.CouponByCode(ctx.CouponCode)
		if !ok || !c.Redeemable(ctx.At) {
			return Match{}, false
		}
		couponCode = c.Code
	}

	if !scopesMatch(p.Scopes, ctx.Target) {
		return Match{}, false
	}

	// A transaction that declares no channel is evaluated against the
	// promotion's default channel, so channel-restricted rules still have
	// something to compare.
	if ctx.Channel == "" && p.DefaultChannel != "" {
		ctx.Channel = p.DefaultChannel
	}

	ruleCap := money.IDR(0)
	for _, r := range p.Rules {
		if !ruleMatches(r, ctx) {
			return Match{}, false
		}
		if r.MaxDiscountIDR > 0 && (ruleCap == 0 || r.MaxDiscountIDR < ruleCap) {
			ruleCap = r.MaxDiscountIDR
		}
	}

	if usage != nil && quotaExceeded(p, usage(p.ID)) {
		return Match{}, false
	}

	actions := eligibleActions(p.Actions, ctx)
	if len(actions) == 0 {
		return Match{}, false
	}

	return Match{Promotion: p, Actions: actions, CouponCode: couponCode, RuleCapIDR: ruleCap}, true
}

// scopesMatch implements the applicability filter. Zero scopes means the
// promotion is global. A scope row whose declared type has no populated id
// fails closed: it is skipped, never propagated as an error, so a
// misconfigured promotion cannot block checkout.
func scopesMatch(scopes []Scope, target Target) bool {
	if len(scopes) == 0 {
		return true
	}
	for _, s := range scopes {
		switch s.Type {
		case ScopeBuilding:
			if s.BuildingID != "" && s.BuildingID == target.BuildingID {
				return true
			}
		case ScopeFloor:
			if s.FloorID != "" && s.FloorID == target.FloorID {
				return true
			}
		case ScopeRoomType:
			if s.RoomTypeID != "" && s.RoomTypeID == target.RoomTypeID {
				return true
			}
		case ScopeRoom:
			if s.RoomID != "" && s.RoomID == target.RoomID {
				return true
			}
		}
	}
	return false
}

func ruleMatches(r Rule, ctx Context) bool {
	if len(r.BillingPeriods) > 0 && !periodIn(ctx.Period, r.BillingPeriods) {
		return false
	}
	if r.DateFrom != nil && ctx.At.Before(*r.DateFrom) {
		return false
	}
	if r.DateUntil != nil && ctx.At.After(*r.DateUntil) {
		return false
	}
	if len(r.DaysOfWeek) > 0 && !weekdayIn(ctx.At.Weekday(), r.DaysOfWeek) {
		return false
	}
	if !withinTimeWindow(r.TimeStart, r.TimeEnd, ctx.At) {
		return false
	}
	if r.Channel != "" && r.Channel != ctx.Channel {
		return false
	}
	if r.MinSpendIDR > 0 && ctx.SpendIDR < r.MinSpendIDR {
		return false
	}
	if r.FirstNPeriods > 0 && ctx.PeriodIndex > r.FirstNPeriods {
		return false
	}
	if !audienceAllowed(r, ctx.Audience) {
		return false
	}
	// Both flags unset reads as unrestricted, matching the empty-set
	// convention of the other rule fields.
	if r.AppliesToRent || r.AppliesToDeposit {
		if !(r.AppliesToRent && ctx.ChargeRent) && !(r.AppliesToDeposit && ctx.ChargeDeposit) {
			return false
		}
	}
	return true
}

func audienceAllowed(r Rule, a Audience) bool {
	if len(r.AllowedRoleNames) == 0 && len(r.AllowedUserIDs) == 0 {
		return true
	}
	for _, id := range r.AllowedUserIDs {
		if id == a.UserID {
			return true
		}
	}
	for _, allowed := range r.AllowedRoleNames {
		for _, role := range a.RoleNames {
			if role == allowed {
				return true
			}
		}
	}
	return false
}

// withinTimeWindow checks a clock-of-day window in "15:04" form. A window
// with start after end wraps past midnight. Unparseable bounds fail closed.
func withinTimeWindow(start, end string, at time.Time) bool {
	if start == "" && end == "" {
		return true
	}
	minutes := at.Hour()*60 + at.Minute()
	from, okFrom := parseClock(start)
	until, okUntil := parseClock(end)
	if start != "" && !okFrom {
		return false
	}
	if end != "" && !okUntil {
		return false
	}
	switch {
	case start == "":
		return minutes <= until
	case end == "":
		return minutes >= from
	case from <= until:
		return minutes >= from && minutes <= until
	default:
		return minutes >= from || minutes <= until
	}
}

func parseClock(s string) (int, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

func quotaExceeded(p *Promotion, u Usage) bool {
	over := func(limit *int, used int) bool {
		return limit != nil && used >= *limit
	}
	return over(p.TotalQuota, u.Total) ||
		over(p.PerUserLimit, u.ByUser) ||
		over(p.PerContractLimit, u.ByContract) ||
		over(p.PerInvoiceLimit, u.ByInvoice) ||
		over(p.PerDayLimit, u.ByDay) ||
		over(p.PerMonthLimit, u.ByMonth)
}

func eligibleActions(actions []Action, ctx Context) []Action {
	var out []Action
	for _, a := range actions {
		if a.AppliesToRent || a.AppliesToDeposit {
			if !(a.AppliesToRent && ctx.ChargeRent) && !(a.AppliesToDeposit && ctx.ChargeDeposit) {
				continue
			}
		}
		out = append(out, a)
	}
	return out
}

func periodIn(p contract.BillingPeriod, set []contract.BillingPeriod) bool {
	for _, candidate := range set {
		if candidate == p {
			return true
		}
	}
	return false
}

func weekdayIn(d time.Weekday, set []time.Weekday) bool {
	for _, candidate := range set {
		if candidate == d {
			return true
		}
	}
	return false
}
