package contract

import (
	"context"
	"errors"
	"time"

	"kostadmin/internal/domain/catalog"
	"kostadmin/internal/domain/shared/events"
	"kostadmin/internal/domain/shared/money"
)

var (
	ErrContractNotFound = errors.New("contract: not found")
	ErrTenantRequired   = errors.New("contract: tenant id required")
	ErrRentNotPositive  = errors.New("contract: rent must be positive")
	ErrInvalidState     = errors.New("contract: invalid state transition")
)

type ContractID string

type State string

const (
	StateActive    State = "ACTIVE"
	StateEnded     State = "ENDED"
	StateCancelled State = "CANCELLED"
)

// AppliedPromotion is the weak reference a contract keeps to the promotions
// that discounted it. Promotion records stay authoritative.
type AppliedPromotion struct {
	PromotionID string
	CouponCode  string
	DiscountIDR money.IDR
}

type Contract struct {
	ID          ContractID
	RoomID      catalog.RoomID
	TenantID    string
	Term        Term
	EndDate     time.Time
	BillingDay  int
	RentIDR     money.IDR
	DepositIDR  money.IDR
	DiscountIDR money.IDR
	AutoRenew   bool
	Promotions  []AppliedPromotion
	State       State
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int64
	events.EventRecorder
}

type CreateParams struct {
	ID         ContractID
	RoomID     catalog.RoomID
	TenantID   string
	Term       Term
	Result     TermResult
	RentIDR    money.IDR
	DepositIDR money.IDR
	AutoRenew  bool
	Promotions []AppliedPromotion
	CreatedAt  time.Time
}

// NewContract builds an active contract from a computed term. The term and
// its result are immutable after this point; extension is a separate
// administrative action.
func NewContract(params CreateParams) (*Contract, error) {
	if params.TenantID == "" {
		return nil, ErrTenantRequired
	}
	if params.RentIDR <= 0 {
		return nil, ErrRentNotPositive
	}
	if params.Result.EndDate.IsZero() {
		return nil, ErrInvalidTerm
	}
	now := params.CreatedAt.UTC()
	discount := money.IDR(0)
	for _, p := range params.Promotions {
		discount += p.DiscountIDR
	}
	c := &Contract{
		ID:          params.ID,
		RoomID:      params.RoomID,
		TenantID:    params.TenantID,
		Term:        params.Term,
		EndDate:     params.Result.EndDate,
		BillingDay:  params.Result.BillingDay,
		RentIDR:     params.RentIDR,
		DepositIDR:  params.DepositIDR,
		DiscountIDR: discount,
		AutoRenew:   params.AutoRenew,
		Promotions:  append([]AppliedPromotion(nil), params.Promotions...),
		State:       StateActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	c.Record(ContractCreated{
		ContractID: c.ID,
		RoomID:     c.RoomID,
		TenantID:   c.TenantID,
		Period:     c.Term.Period,
		StartDate:  c.Term.StartDate,
		EndDate:    c.EndDate,
		BillingDay: c.BillingDay,
		RentIDR:    c.RentIDR,
		Discount:   c.DiscountIDR,
		At:         now,
	})
	for _, p := range c.Promotions {
		c.Record(PromotionApplied{
			ContractID:  c.ID,
			PromotionID: p.PromotionID,
			CouponCode:  p.CouponCode,
			Discount:    p.DiscountIDR,
			At:          now,
		})
	}
	return c, nil
}

func (c *Contract) End(now time.Time) error {
	if c.State != StateActive {
		return ErrInvalidState
	}
	c.State = StateEnded
	c.UpdatedAt = now.UTC()
	c.Record(ContractEnded{ContractID: c.ID, At: c.UpdatedAt})
	return nil
}

func (c *Contract) Cancel(reason string, now time.Time) error {
	if c.State != StateActive {
		return ErrInvalidState
	}
	c.State = StateCancelled
	c.UpdatedAt = now.UTC()
	c.Record(ContractCancelled{ContractID: c.ID, Reason: reason, At: c.UpdatedAt})
	return nil
}

type Repository interface {
	ByID(ctx context.Context, id ContractID) (*Contract, error)
	Save(ctx context.Context, c *Contract) error
	ListByTenant(ctx context.Context, tenantID string) ([]*Contract, error)
}
