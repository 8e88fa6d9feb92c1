package memory

import (
	"context"
	"sync"

	appoutbox "kostadmin/internal/app/outbox"
)

// Outbox is a FIFO in-memory queue of pending event records.
type Outbox struct {
	mu      sync.Mutex
	records []appoutbox.EventRecord
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = append(o.records, record)
	return nil
}

// Claim pops the oldest pending record, or nil when the queue is empty.
func (o *Outbox) Claim(ctx context.Context) (*appoutbox.EventRecord, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.records) == 0 {
		return nil, nil
	}
	rec := o.records[0]
	o.records = o.records[1:]
	return &rec, nil
}

func (o *Outbox) Requeue(ctx context.Context, rec appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = append([]appoutbox.EventRecord{rec}, o.records...)
	return nil
}

// Pending reports the queue depth, used by tests and readiness probes.
func (o *Outbox) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.records)
}

var _ appoutbox.Outbox = (*Outbox)(nil)
