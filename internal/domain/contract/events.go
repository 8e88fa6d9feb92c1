package contract

import (
	"time"

	"kostadmin/internal/domain/catalog"
	"kostadmin/internal/domain/shared/money"
)

type ContractCreated struct {
	ContractID ContractID
	RoomID     catalog.RoomID
	TenantID   string
	Period     BillingPeriod
	StartDate  time.Time
	EndDate    time.Time
	BillingDay int
	RentIDR    money.IDR
	Discount   money.IDR
	At         time.Time
}

func (e ContractCreated) EventName() string     { return "contract.created" }
func (e ContractCreated) AggregateID() string   { return string(e.ContractID) }
func (e ContractCreated) OccurredAt() time.Time { return e.At }

type PromotionApplied struct {
	ContractID  ContractID
	PromotionID string
	CouponCode  string
	Discount    money.IDR
	At          time.Time
}

func (e PromotionApplied) EventName() string     { return "contract.promotion_applied" }
func (e PromotionApplied) AggregateID() string   { return string(e.ContractID) }
func (e PromotionApplied) OccurredAt() time.Time { return e.At }

type ContractEnded struct {
	ContractID ContractID
	At         time.Time
}

func (e ContractEnded) EventName() string     { return "contract.ended" }
func (e ContractEnded) AggregateID() string   { return string(e.ContractID) }
func (e ContractEnded) OccurredAt() time.Time { return e.At }

type ContractCancelled struct {
	ContractID ContractID
	Reason     string
	At         time.Time
}

func (e ContractCancelled) EventName() string     { return "contract.cancelled" }
func (e ContractCancelled) AggregateID() string   { return string(e.ContractID) }
func (e ContractCancelled) OccurredAt() time.Time { return e.At }
