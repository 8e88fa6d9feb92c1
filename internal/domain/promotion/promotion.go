package promotion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kostadmin/internal/domain/catalog"
	"kostadmin/internal/domain/contract"
	"kostadmin/internal/domain/shared/money"
)

var (
	ErrPromotionNotFound = errors.New("promotion: not found")
	ErrUnknownStackMode  = errors.New("promotion: unknown stack mode")
	ErrUnknownScopeType  = errors.New("promotion: unknown scope type")
	ErrUnknownActionType = errors.New("promotion: unknown action type")
	ErrCouponUnavailable = errors.New("promotion: coupon no longer available")
	ErrNameRequired      = errors.New("promotion: name required")
)

type PromotionID string

// StackMode controls whether a promotion combines with others.
type StackMode string

const (
	StackExclusive StackMode = "exclusive"
	StackCombine   StackMode = "stack"
)

func ParseStackMode(s string) (StackMode, error) {
	switch StackMode(s) {
	case StackExclusive, StackCombine:
		return StackMode(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStackMode, s)
	}
}

// ScopeType names which catalog level a scope row targets.
type ScopeType string

const (
	ScopeBuilding ScopeType = "building"
	ScopeFloor    ScopeType = "floor"
	ScopeRoomType ScopeType = "room_type"
	ScopeRoom     ScopeType = "room"
)

func ParseScopeType(s string) (ScopeType, error) {
	switch ScopeType(s) {
	case ScopeBuilding, ScopeFloor, ScopeRoomType, ScopeRoom:
		return ScopeType(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScopeType, s)
	}
}

// ActionType names the concrete discount effect.
type ActionType string

const (
	ActionPercent     ActionType = "percent"
	ActionFixedAmount ActionType = "fixed_amount"
	// ActionFixedPrice clamps the remaining charge down to a target price.
	// It never raises the remaining, so combining it after other actions is
	// order-dependent; it is intended as the sole or first action.
	ActionFixedPrice  ActionType = "fixed_price"
	ActionFreeDays    ActionType = "free_days"
	ActionFreePeriods ActionType = "free_periods"
)

func ParseActionType(s string) (ActionType, error) {
	switch ActionType(s) {
	case ActionPercent, ActionFixedAmount, ActionFixedPrice, ActionFreeDays, ActionFreePeriods:
		return ActionType(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownActionType, s)
	}
}

// Scope ties a promotion to one applicability target. Exactly one id field
// matching Type should be populated; rows violating that never match.
type Scope struct {
	Type       ScopeType
	BuildingID catalog.BuildingID
	FloorID    catalog.FloorID
	RoomTypeID catalog.RoomTypeID
	RoomID     catalog.RoomID
}

// Rule is one eligibility precondition. Empty set-valued fields mean
// unrestricted. All rules attached to a promotion must pass.
type Rule struct {
	MinSpendIDR      money.IDR
	MaxDiscountIDR   money.IDR
	AppliesToRent    bool
	AppliesToDeposit bool
	BillingPeriods   []contract.BillingPeriod
	DateFrom         *time.Time
	DateUntil        *time.Time
	DaysOfWeek       []time.Weekday
	TimeStart        string
	TimeEnd          string
	Channel          string
	FirstNPeriods    int
	AllowedRoleNames []string
	AllowedUserIDs   []string
}

// Action is the discount effect applied once a promotion matches.
type Action struct {
	Type             ActionType
	AppliesToRent    bool
	AppliesToDeposit bool
	PercentBps       int64
	AmountIDR        money.IDR
	FixedPriceIDR    money.IDR
	NDays            int
	NPeriods         int
	MaxDiscountIDR   money.IDR
	Priority         int
}

type Coupon struct {
	Code           string
	IsActive       bool
	MaxRedemptions *int
	RedeemedCount  int
	ExpiresAt      *time.Time
}

// Redeemable reports whether the coupon can still be used at the given
// instant, against the snapshot's redemption counter.
func (c Coupon) Redeemable(at time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.ExpiresAt != nil && at.After(*c.ExpiresAt) {
		return false
	}
	if c.MaxRedemptions != nil && c.RedeemedCount >= *c.MaxRedemptions {
		return false
	}
	return true
}

// Promotion owns its scopes, rules, actions and coupons as child value
// collections; children never point back at the parent.
type Promotion struct {
	ID               PromotionID
	Name             string
	Slug             string
	ValidFrom        *time.Time
	ValidUntil       *time.Time
	StackMode        StackMode
	Priority         int
	TotalQuota       *int
	PerUserLimit     *int
	PerContractLimit *int
	PerInvoiceLimit  *int
	PerDayLimit      *int
	PerMonthLimit    *int
	DefaultChannel   string
	RequireCoupon    bool
	IsActive         bool
	Tags             []string
	Scopes           []Scope
	Rules            []Rule
	Actions          []Action
	Coupons          []Coupon
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Version          int64
}

func (p *Promotion) Validate() error {
	if p.Name == "" {
		return ErrNameRequired
	}
	if _, err := ParseStackMode(string(p.StackMode)); err != nil {
		return err
	}
	for _, a := range p.Actions {
		if _, err := ParseActionType(string(a.Type)); err != nil {
			return err
		}
	}
	return nil
}

// CouponByCode returns the coupon with the given code, if any.
func (p *Promotion) CouponByCode(code string) (Coupon, bool) {
	for _, c := range p.Coupons {
		if c.Code == code {
			return c, true
		}
	}
	return Coupon{}, false
}

type Repository interface {
	ByID(ctx context.Context, id PromotionID) (*Promotion, error)
	Save(ctx context.Context, p *Promotion) error
	ListActive(ctx context.Context) ([]*Promotion, error)
	List(ctx context.Context) ([]*Promotion, error)
	Delete(ctx context.Context, id PromotionID) error
}

// CouponRedeemer commits a redemption decided by the resolver. The
// implementation must check-and-increment atomically; exhaustion at commit
// time surfaces as ErrCouponUnavailable.
type CouponRedeemer interface {
	Redeem(ctx context.Context, id PromotionID, code string) error
}
