package event

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Repository is the persistence interface for the event journal. The log
// is append-only; nothing updates or deletes recorded events.
type Repository interface {
	Append(ctx context.Context, events []*Event) error
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Event, int, error)
}

// MemoryRepo is the in-process repository used when no database is
// configured. Events are held in commit order.
type MemoryRepo struct {
	mu     sync.RWMutex
	events []*Event
	seq    int64
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) Append(_ context.Context, events []*Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, e := range events {
		r.seq++
		e.Sequence = r.seq
		e.CreatedAt = now
		r.events = append(r.events, e)
	}
	return nil
}

func (r *MemoryRepo) List(_ context.Context, filter Filter, limit, offset int) ([]*Event, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*Event
	for _, e := range r.events {
		if matches(e, filter) {
			matched = append(matched, e)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Sequence < matched[j].Sequence })

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	out := make([]*Event, end-offset)
	for i, e := range matched[offset:end] {
		cp := *e
		out[i] = &cp
	}
	return out, total, nil
}

func matches(e *Event, f Filter) bool {
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	if f.PoolID != 0 && (e.PoolID == nil || *e.PoolID != f.PoolID) {
		return false
	}
	if f.ClaimID != 0 && (e.ClaimID == nil || *e.ClaimID != f.ClaimID) {
		return false
	}
	if f.Principal != "" && e.Actor != f.Principal && e.Member != f.Principal && e.Provider != f.Principal {
		return false
	}
	return true
}
