package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kostadmin/internal/domain/contract"
	"kostadmin/internal/domain/shared/money"
)

func storedContract(t *testing.T, id contract.ContractID) *contract.Contract {
	t.Helper()
	c, err := contract.NewContract(contract.CreateParams{
		ID:       id,
		RoomID:   "room-1",
		TenantID: "tenant-1",
		Term: contract.Term{
			StartDate:     time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
			Period:        contract.PeriodMonthly,
			DurationCount: 1,
		},
		Result: contract.TermResult{
			EndDate:    time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
			BillingDay: 1,
		},
		RentIDR:    money.IDR(1_000_000),
		Promotions: []contract.AppliedPromotion{{PromotionID: "promo-1", DiscountIDR: money.IDR(100_000)}},
		CreatedAt:  time.Date(2025, time.February, 20, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return c
}

func TestContractRepository_SaveDetachesFromCaller(t *testing.T) {
	repo := NewContractRepository()
	ctx := context.Background()

	c := storedContract(t, "ct-1")
	require.NoError(t, repo.Save(ctx, c))

	// Mutating the caller's aggregate after Save must not reach the store.
	c.State = contract.StateCancelled
	c.Promotions[0].DiscountIDR = money.IDR(999)

	stored, err := repo.ByID(ctx, "ct-1")
	require.NoError(t, err)
	assert.Equal(t, contract.StateActive, stored.State)
	assert.Equal(t, money.IDR(100_000), stored.Promotions[0].DiscountIDR)
}

func TestContractRepository_ReadsAreIsolatedCopies(t *testing.T) {
	repo := NewContractRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, storedContract(t, "ct-1")))

	first, err := repo.ByID(ctx, "ct-1")
	require.NoError(t, err)
	first.TenantID = "someone-else"
	first.Promotions[0].PromotionID = "tampered"

	second, err := repo.ByID(ctx, "ct-1")
	require.NoError(t, err)
	assert.Equal(t, "tenant-1", second.TenantID)
	assert.Equal(t, "promo-1", second.Promotions[0].PromotionID)
}

// Pending events stay with the caller's aggregate; the store keeps state only.
func TestContractRepository_DoesNotRetainPendingEvents(t *testing.T) {
	repo := NewContractRepository()
	ctx := context.Background()

	c := storedContract(t, "ct-1")
	require.NotEmpty(t, c.PendingEvents())
	require.NoError(t, repo.Save(ctx, c))

	assert.NotEmpty(t, c.PendingEvents(), "caller still drains its own events")

	stored, err := repo.ByID(ctx, "ct-1")
	require.NoError(t, err)
	assert.Empty(t, stored.PendingEvents())
}
