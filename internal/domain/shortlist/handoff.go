// Package shortlist moves the filtered lead set from the filtering step to
// campaign creation. A handoff is single use: it is created once when the
// operator shortlists and yields its contents to exactly one consumer.
package shortlist

import (
	"slices"
	"sync"
	"time"

	"leadnurture/internal/domain/lead"
)

// Payload is what the consuming step receives.
type Payload struct {
	Leads     []lead.Lead `json:"leads"`
	Projects  []string    `json:"projects"`
	CreatedAt time.Time   `json:"created_at"`
}

// Empty reports whether there is nothing to build a campaign from.
func (p Payload) Empty() bool {
	return len(p.Leads) == 0
}

// LeadIDs lists lead identifiers in shortlist order.
func (p Payload) LeadIDs() []int64 {
	ids := make([]int64, 0, len(p.Leads))
	for _, l := range p.Leads {
		ids = append(ids, l.ID)
	}
	return ids
}

// Handoff is the transient, single-use shortlist payload.
type Handoff struct {
	mu       sync.Mutex
	payload  Payload
	consumed bool
}

// New snapshots the filtered leads and the distinct project names seen in
// the source set.
func New(filtered []lead.Lead, projects []string) *Handoff {
	return &Handoff{payload: Payload{
		Leads:     nonNil(slices.Clone(filtered)),
		Projects:  nonNil(slices.Clone(projects)),
		CreatedAt: time.Now(),
	}}
}

// Consume hands the payload over. A nil handoff, or one that was already
// consumed, yields an empty lead list and an empty project list.
func Consume(h *Handoff) Payload {
	if h == nil {
		return emptyPayload()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.consumed {
		return emptyPayload()
	}
	h.consumed = true
	p := h.payload
	h.payload = Payload{}
	return p
}

// Size is the number of shortlisted leads, zero once consumed.
func (h *Handoff) Size() int {
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.payload.Leads)
}

func restore(p Payload) *Handoff {
	p.Leads = nonNil(p.Leads)
	p.Projects = nonNil(p.Projects)
	return &Handoff{payload: p}
}

func emptyPayload() Payload {
	return Payload{Leads: []lead.Lead{}, Projects: []string{}}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
