package promotions

import (
	"context"
	"time"

	domainpromo "kostadmin/internal/domain/promotion"
)

// ManageHandler is the CRUD surface the admin UI uses. It is a thin layer
// over the repository; validation lives on the aggregate.
type ManageHandler struct {
	Promotions domainpromo.Repository
	Now        func() time.Time
}

func (h *ManageHandler) Create(ctx context.Context, p *domainpromo.Promotion) error {
	now := h.now()
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := p.Validate(); err != nil {
		return err
	}
	return h.Promotions.Save(ctx, p)
}

func (h *ManageHandler) Update(ctx context.Context, p *domainpromo.Promotion) error {
	existing, err := h.Promotions.ByID(ctx, p.ID)
	if err != nil {
		return err
	}
	p.CreatedAt = existing.CreatedAt
	p.Version = existing.Version
	p.UpdatedAt = h.now()
	if err := p.Validate(); err != nil {
		return err
	}
	return h.Promotions.Save(ctx, p)
}

func (h *ManageHandler) Get(ctx context.Context, id domainpromo.PromotionID) (*domainpromo.Promotion, error) {
	return h.Promotions.ByID(ctx, id)
}

func (h *ManageHandler) List(ctx context.Context) ([]*domainpromo.Promotion, error) {
	return h.Promotions.List(ctx)
}

func (h *ManageHandler) Delete(ctx context.Context, id domainpromo.PromotionID) error {
	return h.Promotions.Delete(ctx, id)
}

func (h *ManageHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}
