package promotion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kostadmin/internal/domain/contract"
	"kostadmin/internal/domain/shared/money"
)

func basePromotion(id string) *Promotion {
	return &Promotion{
		ID:        PromotionID(id),
		Name:      "Promo " + id,
		StackMode: StackCombine,
		IsActive:  true,
		Actions: []Action{
			{Type: ActionPercent, PercentBps: 1000},
		},
	}
}

func baseContext() Context {
	return Context{
		Target: Target{
			RoomID:     "room-1",
			FloorID:    "floor-1",
			BuildingID: "bld-1",
			RoomTypeID: "type-1",
		},
		Period:      contract.PeriodMonthly,
		At:          time.Date(2025, time.June, 16, 10, 30, 0, 0, time.UTC), // a Monday
		SpendIDR:    money.IDR(1_500_000),
		ChargeRent:  true,
		PeriodIndex: 1,
	}
}

func intPtr(n int) *int              { return &n }
func timePtr(t time.Time) *time.Time { return &t }

func TestResolve_GlobalPromotionMatchesAnyTarget(t *testing.T) {
	matches := Resolve(baseContext(), []*Promotion{basePromotion("p1")}, nil)
	require.Len(t, matches, 1)
	assert.Equal(t, PromotionID("p1"), matches[0].Promotion.ID)
}

func TestResolve_InactiveExcluded(t *testing.T) {
	p := basePromotion("p1")
	p.IsActive = false
	assert.Empty(t, Resolve(baseContext(), []*Promotion{p}, nil))
}

func TestResolve_ValidityWindow(t *testing.T) {
	ctx := baseContext()

	notYet := basePromotion("future")
	notYet.ValidFrom = timePtr(ctx.At.Add(time.Hour))

	expired := basePromotion("past")
	expired.ValidUntil = timePtr(ctx.At.Add(-time.Hour))

	current := basePromotion("now")
	current.ValidFrom = timePtr(ctx.At.Add(-time.Hour))
	current.ValidUntil = timePtr(ctx.At.Add(time.Hour))

	matches := Resolve(ctx, []*Promotion{notYet, expired, current}, nil)
	require.Len(t, matches, 1)
	assert.Equal(t, PromotionID("now"), matches[0].Promotion.ID)
}

func TestResolve_CouponRequired(t *testing.T) {
	ctx := baseContext()

	p := basePromotion("p1")
	p.RequireCoupon = true
	p.Coupons = []Coupon{{Code: "WELCOME", IsActive: true}}

	assert.Empty(t, Resolve(ctx, []*Promotion{p}, nil), "no code supplied")

	ctx.CouponCode = "WRONG"
	assert.Empty(t, Resolve(ctx, []*Promotion{p}, nil), "unknown code")

	ctx.CouponCode = "WELCOME"
	matches := Resolve(ctx, []*Promotion{p}, nil)
	require.Len(t, matches, 1)
	assert.Equal(t, "WELCOME", matches[0].CouponCode)
}

func TestResolve_CouponExhaustedOrExpired(t *testing.T) {
	ctx := baseContext()
	ctx.CouponCode = "LAST"

	exhausted := basePromotion("p1")
	exhausted.RequireCoupon = true
	exhausted.Coupons = []Coupon{{Code: "LAST", IsActive: true, MaxRedemptions: intPtr(5), RedeemedCount: 5}}
	assert.Empty(t, Resolve(ctx, []*Promotion{exhausted}, nil))

	expired := basePromotion("p2")
	expired.RequireCoupon = true
	expired.Coupons = []Coupon{{Code: "LAST", IsActive: true, ExpiresAt: timePtr(ctx.At.Add(-time.Minute))}}
	assert.Empty(t, Resolve(ctx, []*Promotion{expired}, nil))

	inactive := basePromotion("p3")
	inactive.RequireCoupon = true
	inactive.Coupons = []Coupon{{Code: "LAST"}}
	assert.Empty(t, Resolve(ctx, []*Promotion{inactive}, nil))
}

func TestResolve_ScopeMatching(t *testing.T) {
	ctx := baseContext()

	tests := []struct {
		name  string
		scope Scope
		want  bool
	}{
		{"building match", Scope{Type: ScopeBuilding, BuildingID: "bld-1"}, true},
		{"building mismatch", Scope{Type: ScopeBuilding, BuildingID: "bld-2"}, false},
		{"floor match", Scope{Type: ScopeFloor, FloorID: "floor-1"}, true},
		{"room type match", Scope{Type: ScopeRoomType, RoomTypeID: "type-1"}, true},
		{"room match", Scope{Type: ScopeRoom, RoomID: "room-1"}, true},
		{"room mismatch", Scope{Type: ScopeRoom, RoomID: "room-9"}, false},
		{"malformed row never matches", Scope{Type: ScopeBuilding}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := basePromotion("p1")
			p.Scopes = []Scope{tt.scope}
			matches := Resolve(ctx, []*Promotion{p}, nil)
			if tt.want {
				assert.Len(t, matches, 1)
			} else {
				assert.Empty(t, matches)
			}
		})
	}
}

func TestResolve_ScopeRowsAreAlternatives(t *testing.T) {
	p := basePromotion("p1")
	p.Scopes = []Scope{
		{Type: ScopeBuilding, BuildingID: "other"},
		{Type: ScopeRoom, RoomID: "room-1"},
	}
	assert.Len(t, Resolve(baseContext(), []*Promotion{p}, nil), 1)
}

func TestResolve_RulesAreConjunctive(t *testing.T) {
	ctx := baseContext()
	ctx.Channel = "online"

	p := basePromotion("p1")
	p.Rules = []Rule{
		{Channel: "online"},
		{MinSpendIDR: money.IDR(2_000_000)}, // fails: spend is 1.5M
	}
	assert.Empty(t, Resolve(ctx, []*Promotion{p}, nil))

	p.Rules[1].MinSpendIDR = money.IDR(1_000_000)
	assert.Len(t, Resolve(ctx, []*Promotion{p}, nil), 1)
}

// A transaction without a channel is evaluated against the promotion's
// default channel; an explicit channel always wins over the default.
func TestResolve_DefaultChannelFallback(t *testing.T) {
	p := basePromotion("p1")
	p.DefaultChannel = "app"
	p.Rules = []Rule{{Channel: "app"}}

	noChannel := baseContext()
	assert.Len(t, Resolve(noChannel, []*Promotion{p}, nil), 1)

	explicit := baseContext()
	explicit.Channel = "walk-in"
	assert.Empty(t, Resolve(explicit, []*Promotion{p}, nil))

	bare := basePromotion("p2")
	bare.Rules = []Rule{{Channel: "app"}}
	assert.Empty(t, Resolve(baseContext(), []*Promotion{bare}, nil))
}

func TestResolve_RuleFields(t *testing.T) {
	ctx := baseContext() // Monday 10:30 UTC, monthly, spend 1.5M, period index 1

	tests := []struct {
		name string
		rule Rule
		want bool
	}{
		{"billing period listed", Rule{BillingPeriods: []contract.BillingPeriod{contract.PeriodMonthly}}, true},
		{"billing period not listed", Rule{BillingPeriods: []contract.BillingPeriod{contract.PeriodDaily}}, false},
		{"weekday listed", Rule{DaysOfWeek: []time.Weekday{time.Monday}}, true},
		{"weekday not listed", Rule{DaysOfWeek: []time.Weekday{time.Saturday, time.Sunday}}, false},
		{"inside clock window", Rule{TimeStart: "09:00", TimeEnd: "12:00"}, true},
		{"outside clock window", Rule{TimeStart: "13:00", TimeEnd: "17:00"}, false},
		{"wrapping window spans midnight", Rule{TimeStart: "22:00", TimeEnd: "11:00"}, true},
		{"unparseable clock fails closed", Rule{TimeStart: "soon", TimeEnd: "12:00"}, false},
		{"channel mismatch", Rule{Channel: "walk-in"}, false},
		{"first period only", Rule{FirstNPeriods: 1}, true},
		{"date window open ended", Rule{DateFrom: timePtr(ctx.At.Add(-time.Hour))}, true},
		{"date window not started", Rule{DateFrom: timePtr(ctx.At.Add(time.Hour))}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := basePromotion("p1")
			p.Rules = []Rule{tt.rule}
			matches := Resolve(ctx, []*Promotion{p}, nil)
			if tt.want {
				assert.Len(t, matches, 1)
			} else {
				assert.Empty(t, matches)
			}
		})
	}
}

func TestResolve_FirstNPeriodsCutsOffLaterCycles(t *testing.T) {
	p := basePromotion("p1")
	p.Rules = []Rule{{FirstNPeriods: 3}}

	ctx := baseContext()
	ctx.PeriodIndex = 3
	assert.Len(t, Resolve(ctx, []*Promotion{p}, nil), 1)

	ctx.PeriodIndex = 4
	assert.Empty(t, Resolve(ctx, []*Promotion{p}, nil))
}

func TestResolve_Audience(t *testing.T) {
	ctx := baseContext()
	ctx.Audience = Audience{UserID: "u-1", RoleNames: []string{"tenant"}}

	byRole := basePromotion("p1")
	byRole.Rules = []Rule{{AllowedRoleNames: []string{"tenant"}}}
	assert.Len(t, Resolve(ctx, []*Promotion{byRole}, nil), 1)

	byUser := basePromotion("p2")
	byUser.Rules = []Rule{{AllowedUserIDs: []string{"u-2"}}}
	assert.Empty(t, Resolve(ctx, []*Promotion{byUser}, nil))

	either := basePromotion("p3")
	either.Rules = []Rule{{AllowedRoleNames: []string{"manager"}, AllowedUserIDs: []string{"u-1"}}}
	assert.Len(t, Resolve(ctx, []*Promotion{either}, nil), 1)
}

func TestResolve_ChargeKindRestriction(t *testing.T) {
	ctx := baseContext()
	ctx.ChargeRent = true
	ctx.ChargeDeposit = false

	depositOnly := basePromotion("p1")
	depositOnly.Rules = []Rule{{AppliesToDeposit: true}}
	assert.Empty(t, Resolve(ctx, []*Promotion{depositOnly}, nil))

	rentOnly := basePromotion("p2")
	rentOnly.Rules = []Rule{{AppliesToRent: true}}
	assert.Len(t, Resolve(ctx, []*Promotion{rentOnly}, nil), 1)

	// Neither flag set reads as unrestricted.
	unrestricted := basePromotion("p3")
	unrestricted.Rules = []Rule{{}}
	assert.Len(t, Resolve(ctx, []*Promotion{unrestricted}, nil), 1)
}

func TestResolve_QuotaLimits(t *testing.T) {
	usageOf := func(u Usage) UsageFunc {
		return func(PromotionID) Usage { return u }
	}

	tests := []struct {
		name  string
		setup func(*Promotion)
		usage Usage
		want  bool
	}{
		{"no limits", func(p *Promotion) {}, Usage{Total: 1000}, true},
		{"total under quota", func(p *Promotion) { p.TotalQuota = intPtr(10) }, Usage{Total: 9}, true},
		{"total at quota", func(p *Promotion) { p.TotalQuota = intPtr(10) }, Usage{Total: 10}, false},
		{"per user at limit", func(p *Promotion) { p.PerUserLimit = intPtr(1) }, Usage{ByUser: 1}, false},
		{"per contract at limit", func(p *Promotion) { p.PerContractLimit = intPtr(2) }, Usage{ByContract: 2}, false},
		{"per invoice under limit", func(p *Promotion) { p.PerInvoiceLimit = intPtr(2) }, Usage{ByInvoice: 1}, true},
		{"per invoice at limit", func(p *Promotion) { p.PerInvoiceLimit = intPtr(1) }, Usage{ByInvoice: 1}, false},
		{"per day at limit", func(p *Promotion) { p.PerDayLimit = intPtr(3) }, Usage{ByDay: 3}, false},
		{"per month at limit", func(p *Promotion) { p.PerMonthLimit = intPtr(5) }, Usage{ByMonth: 5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := basePromotion("p1")
			tt.setup(p)
			matches := Resolve(baseContext(), []*Promotion{p}, usageOf(tt.usage))
			if tt.want {
				assert.Len(t, matches, 1)
			} else {
				assert.Empty(t, matches)
			}
		})
	}
}

func TestResolve_NoEligibleActionsExcludes(t *testing.T) {
	ctx := baseContext()
	ctx.ChargeRent = true
	ctx.ChargeDeposit = false

	p := basePromotion("p1")
	p.Actions = []Action{{Type: ActionPercent, PercentBps: 500, AppliesToDeposit: true}}
	assert.Empty(t, Resolve(ctx, []*Promotion{p}, nil))
}

func TestResolve_OrderedByPriority(t *testing.T) {
	low := basePromotion("low")
	low.Priority = 5
	high := basePromotion("high")
	high.Priority = 1

	matches := Resolve(baseContext(), []*Promotion{low, high}, nil)
	require.Len(t, matches, 2)
	assert.Equal(t, PromotionID("high"), matches[0].Promotion.ID)
	assert.Equal(t, PromotionID("low"), matches[1].Promotion.ID)
}

func TestResolve_TightestRuleCapWins(t *testing.T) {
	p := basePromotion("p1")
	p.Rules = []Rule{
		{MaxDiscountIDR: money.IDR(500_000)},
		{MaxDiscountIDR: money.IDR(200_000)},
	}
	matches := Resolve(baseContext(), []*Promotion{p}, nil)
	require.Len(t, matches, 1)
	assert.Equal(t, money.IDR(200_000), matches[0].RuleCapIDR)
}
