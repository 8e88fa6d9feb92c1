package promotion

import "time"

type CouponRedeemed struct {
	PromotionID PromotionID
	Code        string
	UserID      string
	At          time.Time
}

func (e CouponRedeemed) EventName() string     { return "promotion.coupon_redeemed" }
func (e CouponRedeemed) AggregateID() string   { return string(e.PromotionID) }
func (e CouponRedeemed) OccurredAt() time.Time { return e.At }
