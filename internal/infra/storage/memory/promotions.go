package memory

import (
	"context"
	"sort"
	"sync"

	"kostadmin/internal/domain/promotion"
)

// PromotionRepository is a mutex-guarded in-memory store. Coupon redemption
// is a check-and-increment under the same lock, so concurrent requests
// cannot oversubscribe a limited coupon.
type PromotionRepository struct {
	mu    sync.RWMutex
	items map[promotion.PromotionID]*promotion.Promotion
}

func NewPromotionRepository() *PromotionRepository {
	return &PromotionRepository{items: make(map[promotion.PromotionID]*promotion.Promotion)}
}

func (r *PromotionRepository) ByID(ctx context.Context, id promotion.PromotionID) (*promotion.Promotion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return nil, promotion.ErrPromotionNotFound
	}
	return clonePromotion(p), nil
}

func (r *PromotionRepository) Save(ctx context.Context, p *promotion.Promotion) error {
	if err := p.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[p.ID] = clonePromotion(p)
	return nil
}

func (r *PromotionRepository) List(ctx context.Context) ([]*promotion.Promotion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*promotion.Promotion, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, clonePromotion(p))
	}
	sortPromotions(out)
	return out, nil
}

func (r *PromotionRepository) ListActive(ctx context.Context) ([]*promotion.Promotion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*promotion.Promotion, 0, len(r.items))
	for _, p := range r.items {
		if !p.IsActive {
			continue
		}
		out = append(out, clonePromotion(p))
	}
	sortPromotions(out)
	return out, nil
}

func (r *PromotionRepository) Delete(ctx context.Context, id promotion.PromotionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return promotion.ErrPromotionNotFound
	}
	delete(r.items, id)
	return nil
}

// Redeem atomically consumes one redemption of the coupon. It re-checks
// availability under the write lock: passing resolution earlier does not
// guarantee a unit is still left.
func (r *PromotionRepository) Redeem(ctx context.Context, id promotion.PromotionID, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return promotion.ErrPromotionNotFound
	}
	for i := range p.Coupons {
		c := &p.Coupons[i]
		if c.Code != code {
			continue
		}
		if !c.IsActive {
			return promotion.ErrCouponUnavailable
		}
		if c.MaxRedemptions != nil && c.RedeemedCount >= *c.MaxRedemptions {
			return promotion.ErrCouponUnavailable
		}
		c.RedeemedCount++
		return nil
	}
	return promotion.ErrCouponUnavailable
}

func sortPromotions(list []*promotion.Promotion) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Priority != list[j].Priority {
			return list[i].Priority < list[j].Priority
		}
		return list[i].ID < list[j].ID
	})
}

func clonePromotion(p *promotion.Promotion) *promotion.Promotion {
	clone := *p
	clone.Tags = append([]string(nil), p.Tags...)
	clone.Scopes = append([]promotion.Scope(nil), p.Scopes...)
	clone.Rules = append([]promotion.Rule(nil), p.Rules...)
	clone.Actions = append([]promotion.Action(nil), p.Actions...)
	clone.Coupons = append([]promotion.Coupon(nil), p.Coupons...)
	return &clone
}

var (
	_ promotion.Repository     = (*PromotionRepository)(nil)
	_ promotion.CouponRedeemer = (*PromotionRepository)(nil)
)
