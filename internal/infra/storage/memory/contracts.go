package memory

import (
	"context"
	"sort"
	"sync"

	"kostadmin/internal/domain/contract"
	"kostadmin/internal/domain/shared/events"
)

type ContractRepository struct {
	mu    sync.RWMutex
	items map[contract.ContractID]*contract.Contract
}

func NewContractRepository() *ContractRepository {
	return &ContractRepository{items: make(map[contract.ContractID]*contract.Contract)}
}

func (r *ContractRepository) ByID(ctx context.Context, id contract.ContractID) (*contract.Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[id]
	if !ok {
		return nil, contract.ErrContractNotFound
	}
	return cloneContract(c), nil
}

func (r *ContractRepository) Save(ctx context.Context, c *contract.Contract) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.Version++
	r.items[c.ID] = cloneContract(c)
	return nil
}

func (r *ContractRepository) ListByTenant(ctx context.Context, tenantID string) ([]*contract.Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*contract.Contract
	for _, c := range r.items {
		if c.TenantID == tenantID {
			out = append(out, cloneContract(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// cloneContract detaches the stored state from the caller's aggregate.
// Pending events stay with the caller; the store only holds state.
func cloneContract(c *contract.Contract) *contract.Contract {
	clone := *c
	clone.Promotions = append([]contract.AppliedPromotion(nil), c.Promotions...)
	clone.EventRecorder = events.EventRecorder{}
	return &clone
}

var _ contract.Repository = (*ContractRepository)(nil)
