package shortlist

import (
	"context"
	"sync"
	"time"
)

// Slot parks at most one handoff per workspace until the campaign step
// takes it. Take removes what it returns; a second Take yields nil.
type Slot interface {
	Put(ctx context.Context, key string, h *Handoff) error
	Take(ctx context.Context, key string) (*Handoff, error)
	Drop(ctx context.Context, key string) error
}

type memoryEntry struct {
	handoff   *Handoff
	expiresAt time.Time
}

// MemorySlot keeps handoffs in process. Entries older than ttl are treated
// as absent.
type MemorySlot struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemorySlot(ttl time.Duration) *MemorySlot {
	return &MemorySlot{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put replaces any handoff that was never taken.
func (s *MemorySlot) Put(_ context.Context, key string, h *Handoff) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := memoryEntry{handoff: h}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}
	s.entries[key] = entry
	return nil
}

func (s *MemorySlot) Take(_ context.Context, key string) (*Handoff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	delete(s.entries, key)
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		return nil, nil
	}
	return entry.handoff, nil
}

func (s *MemorySlot) Drop(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
