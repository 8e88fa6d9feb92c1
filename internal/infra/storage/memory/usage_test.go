package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kostadmin/internal/domain/promotion"
)

func TestUsageStore_SnapshotBuckets(t *testing.T) {
	store := NewUsageStore()
	ctx := context.Background()
	day := time.Date(2025, time.June, 16, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.Record(ctx, "p1", "u1", "c1", "inv-1", day))
	require.NoError(t, store.Record(ctx, "p1", "u1", "c2", "inv-2", day.Add(2*time.Hour)))
	require.NoError(t, store.Record(ctx, "p1", "u2", "c3", "", day.AddDate(0, 0, 1)))
	require.NoError(t, store.Record(ctx, "p1", "u1", "c4", "inv-1", day.AddDate(0, 1, 0)))
	require.NoError(t, store.Record(ctx, "p2", "u1", "c1", "inv-1", day))

	usage := store.Snapshot("u1", "c1", "inv-1", day)("p1")
	assert.Equal(t, 4, usage.Total)
	assert.Equal(t, 3, usage.ByUser)
	assert.Equal(t, 1, usage.ByContract)
	assert.Equal(t, 2, usage.ByInvoice)
	assert.Equal(t, 2, usage.ByDay)
	assert.Equal(t, 3, usage.ByMonth)

	other := store.Snapshot("u1", "c1", "inv-1", day)("p2")
	assert.Equal(t, 1, other.Total)

	assert.Zero(t, store.Snapshot("u1", "c1", "inv-1", day)("unknown"))
}

// An empty invoice key never matches, not even records stored without one.
func TestUsageStore_SnapshotEmptyInvoiceKey(t *testing.T) {
	store := NewUsageStore()
	ctx := context.Background()
	at := time.Date(2025, time.June, 16, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.Record(ctx, "p1", "u1", "c1", "", at))
	require.NoError(t, store.Record(ctx, "p1", "u1", "c1", "inv-9", at))

	usage := store.Snapshot("u1", "c1", "", at)("p1")
	assert.Equal(t, 2, usage.Total)
	assert.Equal(t, 0, usage.ByInvoice)
}

// Bucketing follows the transaction date handed in, not wall-clock now.
func TestUsageStore_SnapshotUsesTransactionDate(t *testing.T) {
	store := NewUsageStore()
	ctx := context.Background()
	past := time.Date(2025, time.January, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Record(ctx, "p1", "u1", "c1", "", past))

	sameDay := store.Snapshot("u1", "c1", "", past)("p1")
	assert.Equal(t, 1, sameDay.ByDay)

	otherDay := store.Snapshot("u1", "c1", "", past.AddDate(0, 0, 5))("p1")
	assert.Equal(t, 0, otherDay.ByDay)
	assert.Equal(t, 1, otherDay.ByMonth)
}

func TestUsageStore_SnapshotIsConsistent(t *testing.T) {
	store := NewUsageStore()
	ctx := context.Background()
	at := time.Date(2025, time.June, 16, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.Record(ctx, "p1", "u1", "c1", "", at))

	snap := store.Snapshot("u1", "c1", "", at)

	// Records added after the snapshot was taken do not show up in it.
	require.NoError(t, store.Record(ctx, "p1", "u1", "c1", "", at))
	assert.Equal(t, 1, snap(promotion.PromotionID("p1")).Total)
}
