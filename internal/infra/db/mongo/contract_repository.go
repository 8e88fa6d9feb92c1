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
	"kostadmin/internal/domain/shared/money"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type ContractRepository struct {
	col *mongo.Collection
}

func NewContractRepository(db *mongo.Database) *ContractRepository {
	return &ContractRepository{col: db.Collection("agg_contract")}
}

func (r *ContractRepository) ByID(ctx context.Context, id domaincontract.ContractID) (*domaincontract.Contract, error) {
	var doc contractDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domaincontract.ErrContractNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

// Save uses the aggregate version as an optimistic concurrency guard.
func (r *ContractRepository) Save(ctx context.Context, c *domaincontract.Contract) error {
	doc := newContractDocument(c)
	filter := bson.M{"_id": doc.ID, "version": c.Version}
	doc.Version = c.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	c.Version = doc.Version
	return nil
}

func (r *ContractRepository) ListByTenant(ctx context.Context, tenantID string) ([]*domaincontract.Contract, error) {
	cur, err := r.col.Find(ctx, bson.M{"tenant_id": tenantID}, options.Find().SetSort(bson.M{"created_at": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domaincontract.Contract
	for cur.Next(ctx) {
		var doc contractDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

type appliedPromotionDocument struct {
	PromotionID string `bson:"promotion_id"`
	CouponCode  string `bson:"coupon_code,omitempty"`
	DiscountIDR int64  `bson:"discount_idr"`
}

type contractDocument struct {
	ID          string                     `bson:"_id"`
	RoomID      string                     `bson:"room_id"`
	TenantID    string                     `bson:"tenant_id"`
	Period      string                     `bson:"period"`
	StartDate   int64                      `bson:"start_date"`
	Duration    int                        `bson:"duration"`
	Prorata     bool                       `bson:"prorata"`
	ReleaseDay  int                        `bson:"release_day"`
	UnitDays    int                        `bson:"unit_days"`
	EndDate     int64                      `bson:"end_date"`
	BillingDay  int                        `bson:"billing_day"`
	RentIDR     int64                      `bson:"rent_idr"`
	DepositIDR  int64                      `bson:"deposit_idr"`
	DiscountIDR int64                      `bson:"discount_idr"`
	AutoRenew   bool                       `bson:"auto_renew"`
	Promotions  []appliedPromotionDocument `bson:"promotions,omitempty"`
	State       string                     `bson:"state"`
	CreatedAt   int64                      `bson:"created_at"`
	UpdatedAt   int64                      `bson:"updated_at"`
	Version     int64                      `bson:"version"`
}

func newContractDocument(c *domaincontract.Contract) contractDocument {
	promos := make([]appliedPromotionDocument, 0, len(c.Promotions))
	for _, p := range c.Promotions {
		promos = append(promos, appliedPromotionDocument{
			PromotionID: p.PromotionID,
			CouponCode:  p.CouponCode,
			DiscountIDR: int64(p.DiscountIDR),
		})
	}
	return contractDocument{
		ID:          string(c.ID),
		RoomID:      string(c.RoomID),
		TenantID:    c.TenantID,
		Period:      string(c.Term.Period),
		StartDate:   c.Term.StartDate.UnixMilli(),
		Duration:    c.Term.DurationCount,
		Prorata:     c.Term.Prorata,
		ReleaseDay:  c.Term.ReleaseDayOfMonth,
		UnitDays:    c.Term.UnitDays,
		EndDate:     c.EndDate.UnixMilli(),
		BillingDay:  c.BillingDay,
		RentIDR:     int64(c.RentIDR),
		DepositIDR:  int64(c.DepositIDR),
		DiscountIDR: int64(c.DiscountIDR),
		AutoRenew:   c.AutoRenew,
		Promotions:  promos,
		State:       string(c.State),
		CreatedAt:   c.CreatedAt.UnixMilli(),
		UpdatedAt:   c.UpdatedAt.UnixMilli(),
		Version:     c.Version,
	}
}

func (d contractDocument) toAggregate() *domaincontract.Contract {
	promos := make([]domaincontract.AppliedPromotion, 0, len(d.Promotions))
	for _, p := range d.Promotions {
		promos = append(promos, domaincontract.AppliedPromotion{
			PromotionID: p.PromotionID,
			CouponCode:  p.CouponCode,
			DiscountIDR: money.IDR(p.DiscountIDR),
		})
	}
	return &domaincontract.Contract{
		ID:       domaincontract.ContractID(d.ID),
		RoomID:   catalog.RoomID(d.RoomID),
		TenantID: d.TenantID,
		Term: domaincontract.Term{
			StartDate:         timestampToTime(d.StartDate),
			Period:            domaincontract.BillingPeriod(d.Period),
			DurationCount:     d.Duration,
			Prorata:           d.Prorata,
			ReleaseDayOfMonth: d.ReleaseDay,
			UnitDays:          d.UnitDays,
		},
		EndDate:     timestampToTime(d.EndDate),
		BillingDay:  d.BillingDay,
		RentIDR:     money.IDR(d.RentIDR),
		DepositIDR:  money.IDR(d.DepositIDR),
		DiscountIDR: money.IDR(d.DiscountIDR),
		AutoRenew:   d.AutoRenew,
		Promotions:  promos,
		State:       domaincontract.State(d.State),
		CreatedAt:   timestampToTime(d.CreatedAt),
		UpdatedAt:   timestampToTime(d.UpdatedAt),
		Version:     d.Version,
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

var _ domaincontract.Repository = (*ContractRepository)(nil)
