package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"kostadmin/internal/domain/catalog"
	domaincontract "kostadmin/internal/domain/contract"
	domainpromo "kostadmin/internal/domain/promotion"
	"kostadmin/internal/domain/shared/money"
)

type PromotionRepository struct {
	col *mongo.Collection
}

func NewPromotionRepository(db *mongo.Database) *PromotionRepository {
	return &PromotionRepository{col: db.Collection("agg_promotion")}
}

func (r *PromotionRepository) ByID(ctx context.Context, id domainpromo.PromotionID) (*domainpromo.Promotion, error) {
	var doc promotionDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainpromo.ErrPromotionNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *PromotionRepository) Save(ctx context.Context, p *domainpromo.Promotion) error {
	if err := p.Validate(); err != nil {
		return err
	}
	doc := newPromotionDocument(p)
	filter := bson.M{"_id": doc.ID, "version": p.Version}
	doc.Version = p.Version + 1
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	p.Version = doc.Version
	return nil
}

func (r *PromotionRepository) List(ctx context.Context) ([]*domainpromo.Promotion, error) {
	return r.list(ctx, bson.M{})
}

func (r *PromotionRepository) ListActive(ctx context.Context) ([]*domainpromo.Promotion, error) {
	return r.list(ctx, bson.M{"is_active": true})
}

func (r *PromotionRepository) list(ctx context.Context, filter bson.M) ([]*domainpromo.Promotion, error) {
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "priority", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainpromo.Promotion
	for cur.Next(ctx) {
		var doc promotionDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

func (r *PromotionRepository) Delete(ctx context.Context, id domainpromo.PromotionID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainpromo.ErrPromotionNotFound
	}
	return nil
}

const redeemRetries = 3

// Redeem consumes one redemption under the document's version guard: the
// availability re-check and the increment land in one conditional update,
// so two concurrent redeemers cannot both take the last unit. A lost race
// retries against the fresh document.
func (r *PromotionRepository) Redeem(ctx context.Context, id domainpromo.PromotionID, code string) error {
	now := time.Now().UTC()
	for attempt := 0; attempt < redeemRetries; attempt++ {
		p, err := r.ByID(ctx, id)
		if err != nil {
			return err
		}
		c, ok := p.CouponByCode(code)
		if !ok || !c.Redeemable(now) {
			return domainpromo.ErrCouponUnavailable
		}
		for i := range p.Coupons {
			if p.Coupons[i].Code == code {
				p.Coupons[i].RedeemedCount++
			}
		}
		err = r.Save(ctx, p)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrConcurrentUpdate) {
			return err
		}
	}
	return domainpromo.ErrCouponUnavailable
}

type scopeDocument struct {
	Type       string `bson:"type"`
	BuildingID string `bson:"building_id,omitempty"`
	FloorID    string `bson:"floor_id,omitempty"`
	RoomTypeID string `bson:"room_type_id,omitempty"`
	RoomID     string `bson:"room_id,omitempty"`
}

type ruleDocument struct {
	MinSpendIDR      int64    `bson:"min_spend_idr,omitempty"`
	MaxDiscountIDR   int64    `bson:"max_discount_idr,omitempty"`
	AppliesToRent    bool     `bson:"applies_to_rent"`
	AppliesToDeposit bool     `bson:"applies_to_deposit"`
	BillingPeriods   []string `bson:"billing_periods,omitempty"`
	DateFrom         *int64   `bson:"date_from,omitempty"`
	DateUntil        *int64   `bson:"date_until,omitempty"`
	DaysOfWeek       []int    `bson:"days_of_week,omitempty"`
	TimeStart        string   `bson:"time_start,omitempty"`
	TimeEnd          string   `bson:"time_end,omitempty"`
	Channel          string   `bson:"channel,omitempty"`
	FirstNPeriods    int      `bson:"first_n_periods,omitempty"`
	AllowedRoleNames []string `bson:"allowed_role_names,omitempty"`
	AllowedUserIDs   []string `bson:"allowed_user_ids,omitempty"`
}

type actionDocument struct {
	Type             string `bson:"type"`
	AppliesToRent    bool   `bson:"applies_to_rent"`
	AppliesToDeposit bool   `bson:"applies_to_deposit"`
	PercentBps       int64  `bson:"percent_bps,omitempty"`
	AmountIDR        int64  `bson:"amount_idr,omitempty"`
	FixedPriceIDR    int64  `bson:"fixed_price_idr,omitempty"`
	NDays            int    `bson:"n_days,omitempty"`
	NPeriods         int    `bson:"n_periods,omitempty"`
	MaxDiscountIDR   int64  `bson:"max_discount_idr,omitempty"`
	Priority         int    `bson:"priority"`
}

type couponDocument struct {
	Code           string `bson:"code"`
	IsActive       bool   `bson:"is_active"`
	MaxRedemptions *int   `bson:"max_redemptions,omitempty"`
	RedeemedCount  int    `bson:"redeemed_count"`
	ExpiresAt      *int64 `bson:"expires_at,omitempty"`
}

type promotionDocument struct {
	ID               string           `bson:"_id"`
	Name             string           `bson:"name"`
	Slug             string           `bson:"slug,omitempty"`
	ValidFrom        *int64           `bson:"valid_from,omitempty"`
	ValidUntil       *int64           `bson:"valid_until,omitempty"`
	StackMode        string           `bson:"stack_mode"`
	Priority         int              `bson:"priority"`
	TotalQuota       *int             `bson:"total_quota,omitempty"`
	PerUserLimit     *int             `bson:"per_user_limit,omitempty"`
	PerContractLimit *int             `bson:"per_contract_limit,omitempty"`
	PerInvoiceLimit  *int             `bson:"per_invoice_limit,omitempty"`
	PerDayLimit      *int             `bson:"per_day_limit,omitempty"`
	PerMonthLimit    *int             `bson:"per_month_limit,omitempty"`
	DefaultChannel   string           `bson:"default_channel,omitempty"`
	RequireCoupon    bool             `bson:"require_coupon"`
	IsActive         bool             `bson:"is_active"`
	Tags             []string         `bson:"tags,omitempty"`
	Scopes           []scopeDocument  `bson:"scopes,omitempty"`
	Rules            []ruleDocument   `bson:"rules,omitempty"`
	Actions          []actionDocument `bson:"actions,omitempty"`
	Coupons          []couponDocument `bson:"coupons,omitempty"`
	CreatedAt        int64            `bson:"created_at"`
	UpdatedAt        int64            `bson:"updated_at"`
	Version          int64            `bson:"version"`
}

func newPromotionDocument(p *domainpromo.Promotion) promotionDocument {
	doc := promotionDocument{
		ID:               string(p.ID),
		Name:             p.Name,
		Slug:             p.Slug,
		ValidFrom:        timePtrToMillis(p.ValidFrom),
		ValidUntil:       timePtrToMillis(p.ValidUntil),
		StackMode:        string(p.StackMode),
		Priority:         p.Priority,
		TotalQuota:       p.TotalQuota,
		PerUserLimit:     p.PerUserLimit,
		PerContractLimit: p.PerContractLimit,
		PerInvoiceLimit:  p.PerInvoiceLimit,
		PerDayLimit:      p.PerDayLimit,
		PerMonthLimit:    p.PerMonthLimit,
		DefaultChannel:   p.DefaultChannel,
		RequireCoupon:    p.RequireCoupon,
		IsActive:         p.IsActive,
		Tags:             p.Tags,
		CreatedAt:        p.CreatedAt.UnixMilli(),
		UpdatedAt:        p.UpdatedAt.UnixMilli(),
		Version:          p.Version,
	}
	for _, s := range p.Scopes {
		doc.Scopes = append(doc.Scopes, scopeDocument{
			Type:       string(s.Type),
			BuildingID: string(s.BuildingID),
			FloorID:    string(s.FloorID),
			RoomTypeID: string(s.RoomTypeID),
			RoomID:     string(s.RoomID),
		})
	}
	for _, r := range p.Rules {
		rd := ruleDocument{
			MinSpendIDR:      int64(r.MinSpendIDR),
			MaxDiscountIDR:   int64(r.MaxDiscountIDR),
			AppliesToRent:    r.AppliesToRent,
			AppliesToDeposit: r.AppliesToDeposit,
			DateFrom:         timePtrToMillis(r.DateFrom),
			DateUntil:        timePtrToMillis(r.DateUntil),
			TimeStart:        r.TimeStart,
			TimeEnd:          r.TimeEnd,
			Channel:          r.Channel,
			FirstNPeriods:    r.FirstNPeriods,
			AllowedRoleNames: r.AllowedRoleNames,
			AllowedUserIDs:   r.AllowedUserIDs,
		}
		for _, bp := range r.BillingPeriods {
			rd.BillingPeriods = append(rd.BillingPeriods, string(bp))
		}
		for _, d := range r.DaysOfWeek {
			rd.DaysOfWeek = append(rd.DaysOfWeek, int(d))
		}
		doc.Rules = append(doc.Rules, rd)
	}
	for _, a := range p.Actions {
		doc.Actions = append(doc.Actions, actionDocument{
			Type:             string(a.Type),
			AppliesToRent:    a.AppliesToRent,
			AppliesToDeposit: a.AppliesToDeposit,
			PercentBps:       a.PercentBps,
			AmountIDR:        int64(a.AmountIDR),
			FixedPriceIDR:    int64(a.FixedPriceIDR),
			NDays:            a.NDays,
			NPeriods:         a.NPeriods,
			MaxDiscountIDR:   int64(a.MaxDiscountIDR),
			Priority:         a.Priority,
		})
	}
	for _, c := range p.Coupons {
		doc.Coupons = append(doc.Coupons, couponDocument{
			Code:           c.Code,
			IsActive:       c.IsActive,
			MaxRedemptions: c.MaxRedemptions,
			RedeemedCount:  c.RedeemedCount,
			ExpiresAt:      timePtrToMillis(c.ExpiresAt),
		})
	}
	return doc
}

func (d promotionDocument) toAggregate() *domainpromo.Promotion {
	p := &domainpromo.Promotion{
		ID:               domainpromo.PromotionID(d.ID),
		Name:             d.Name,
		Slug:             d.Slug,
		ValidFrom:        millisToTimePtr(d.ValidFrom),
		ValidUntil:       millisToTimePtr(d.ValidUntil),
		StackMode:        domainpromo.StackMode(d.StackMode),
		Priority:         d.Priority,
		TotalQuota:       d.TotalQuota,
		PerUserLimit:     d.PerUserLimit,
		PerContractLimit: d.PerContractLimit,
		PerInvoiceLimit:  d.PerInvoiceLimit,
		PerDayLimit:      d.PerDayLimit,
		PerMonthLimit:    d.PerMonthLimit,
		DefaultChannel:   d.DefaultChannel,
		RequireCoupon:    d.RequireCoupon,
		IsActive:         d.IsActive,
		Tags:             d.Tags,
		CreatedAt:        timestampToTime(d.CreatedAt),
		UpdatedAt:        timestampToTime(d.UpdatedAt),
		Version:          d.Version,
	}
	for _, s := range d.Scopes {
		p.Scopes = append(p.Scopes, domainpromo.Scope{
			Type:       domainpromo.ScopeType(s.Type),
			BuildingID: catalog.BuildingID(s.BuildingID),
			FloorID:    catalog.FloorID(s.FloorID),
			RoomTypeID: catalog.RoomTypeID(s.RoomTypeID),
			RoomID:     catalog.RoomID(s.RoomID),
		})
	}
	for _, r := range d.Rules {
		rule := domainpromo.Rule{
			MinSpendIDR:      money.IDR(r.MinSpendIDR),
			MaxDiscountIDR:   money.IDR(r.MaxDiscountIDR),
			AppliesToRent:    r.AppliesToRent,
			AppliesToDeposit: r.AppliesToDeposit,
			DateFrom:         millisToTimePtr(r.DateFrom),
			DateUntil:        millisToTimePtr(r.DateUntil),
			TimeStart:        r.TimeStart,
			TimeEnd:          r.TimeEnd,
			Channel:          r.Channel,
			FirstNPeriods:    r.FirstNPeriods,
			AllowedRoleNames: r.AllowedRoleNames,
			AllowedUserIDs:   r.AllowedUserIDs,
		}
		for _, bp := range r.BillingPeriods {
			rule.BillingPeriods = append(rule.BillingPeriods, domaincontract.BillingPeriod(bp))
		}
		for _, day := range r.DaysOfWeek {
			rule.DaysOfWeek = append(rule.DaysOfWeek, time.Weekday(day))
		}
		p.Rules = append(p.Rules, rule)
	}
	for _, a := range d.Actions {
		p.Actions = append(p.Actions, domainpromo.Action{
			Type:             domainpromo.ActionType(a.Type),
			AppliesToRent:    a.AppliesToRent,
			AppliesToDeposit: a.AppliesToDeposit,
			PercentBps:       a.PercentBps,
			AmountIDR:        money.IDR(a.AmountIDR),
			FixedPriceIDR:    money.IDR(a.FixedPriceIDR),
			NDays:            a.NDays,
			NPeriods:         a.NPeriods,
			MaxDiscountIDR:   money.IDR(a.MaxDiscountIDR),
			Priority:         a.Priority,
		})
	}
	for _, c := range d.Coupons {
		p.Coupons = append(p.Coupons, domainpromo.Coupon{
			Code:           c.Code,
			IsActive:       c.IsActive,
			MaxRedemptions: c.MaxRedemptions,
			RedeemedCount:  c.RedeemedCount,
			ExpiresAt:      millisToTimePtr(c.ExpiresAt),
		})
	}
	return p
}

func timePtrToMillis(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

func millisToTimePtr(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := time.UnixMilli(*ms).UTC()
	return &t
}

var (
	_ domainpromo.Repository     = (*PromotionRepository)(nil)
	_ domainpromo.CouponRedeemer = (*PromotionRepository)(nil)
)
