package memory

import (
	"context"
	"sync"
	"time"

	"kostadmin/internal/domain/promotion"
)

type usageRecord struct {
	promotionID promotion.PromotionID
	userID      string
	contractID  string
	invoiceID   string
	at          time.Time
}

// UsageStore counts promotion redemptions and serves the snapshot the
// resolver compares quota limits against. Bucketing by day and month uses
// the transaction date, not wall-clock now.
type UsageStore struct {
	mu      sync.RWMutex
	records []usageRecord
}

func NewUsageStore() *UsageStore {
	return &UsageStore{}
}

func (s *UsageStore) Record(ctx context.Context, id promotion.PromotionID, userID, contractID, invoiceID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, usageRecord{
		promotionID: id,
		userID:      userID,
		contractID:  contractID,
		invoiceID:   invoiceID,
		at:          at.UTC(),
	})
	return nil
}

// Snapshot builds a UsageFunc over the current counters for one
// resolution pass.
func (s *UsageStore) Snapshot(userID, contractID, invoiceID string, at time.Time) promotion.UsageFunc {
	s.mu.RLock()
	records := make([]usageRecord, len(s.records))
	copy(records, s.records)
	s.mu.RUnlock()

	at = at.UTC()
	return func(id promotion.PromotionID) promotion.Usage {
		var u promotion.Usage
		for _, rec := range records {
			if rec.promotionID != id {
				continue
			}
			u.Total++
			if userID != "" && rec.userID == userID {
				u.ByUser++
			}
			if contractID != "" && rec.contractID == contractID {
				u.ByContract++
			}
			if invoiceID != "" && rec.invoiceID == invoiceID {
				u.ByInvoice++
			}
			if sameDay(rec.at, at) {
				u.ByDay++
			}
			if rec.at.Year() == at.Year() && rec.at.Month() == at.Month() {
				u.ByMonth++
			}
		}
		return u
	}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
