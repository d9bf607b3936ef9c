package notification

import (
	"sync"
	"time"
)

const (
	dedupCapacity      = 200
	dedupResetInterval = 60 * time.Second
)

// Deduplicator suppresses re-delivery of an event id already processed in
// this session. Eviction is deliberately coarse: once per reset interval, if
// the seen-set has outgrown its capacity, the whole set is cleared. That
// opens a small window where an old event could be delivered again, in
// exchange for O(1) bookkeeping instead of per-entry LRU accounting.
type Deduplicator struct {
	mu        sync.Mutex
	seen      map[string]struct{}
	lastSweep time.Time
	now       func() time.Time
}

func NewDeduplicator() *Deduplicator {
	return newDeduplicator(time.Now)
}

func newDeduplicator(now func() time.Time) *Deduplicator {
	return &Deduplicator{
		seen:      make(map[string]struct{}),
		lastSweep: now(),
		now:       now,
	}
}

// ShouldDeliver reports whether the id is new and marks it seen. Empty ids
// cannot be deduplicated and always deliver.
func (d *Deduplicator) ShouldDeliver(id string) bool {
	if id == "" {
		return true
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if now.Sub(d.lastSweep) >= dedupResetInterval {
		if len(d.seen) > dedupCapacity {
			d.seen = make(map[string]struct{})
		}
		d.lastSweep = now
	}

	if _, ok := d.seen[id]; ok {
		return false
	}
	d.seen[id] = struct{}{}
	return true
}
