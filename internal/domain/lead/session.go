package lead

import (
	"slices"
	"sync"
	"time"
)

// View is what the presentation layer renders for a filter session.
type View struct {
	Leads         []Lead    `json:"leads"`
	Criteria      Criteria  `json:"criteria"`
	ActiveFilters int       `json:"active_filters"`
	Matched       int       `json:"matched"`
	Total         int       `json:"total"`
	Projects      []string  `json:"projects"`
	Version       uint64    `json:"version"`
	LoadedAt      time.Time `json:"loaded_at"`
}

// FilterSession owns the source leads and criteria of one operator and
// keeps the filtered result current. Every change to either input triggers
// a full recomputation under the lock, so a read never observes a result
// that disagrees with the criteria.
type FilterSession struct {
	mu       sync.RWMutex
	source   []Lead
	projects []string
	criteria Criteria
	result   []Lead
	version  uint64
	loadedAt time.Time
	now      func() time.Time
}

func NewFilterSession() *FilterSession {
	s := &FilterSession{now: time.Now}
	s.recompute()
	return s
}

// SetLeads replaces the source set. Criteria are kept.
func (s *FilterSession) SetLeads(leads []Lead) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = slices.Clone(leads)
	s.projects = DistinctProjects(s.source)
	s.loadedAt = s.now()
	s.recompute()
	return s.viewLocked()
}

// Update applies fn to a copy of the criteria. When fn fails the session
// is left untouched.
func (s *FilterSession) Update(fn func(*Criteria) error) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.criteria.Clone()
	if err := fn(&next); err != nil {
		return s.viewLocked(), err
	}
	s.criteria = next
	s.recompute()
	return s.viewLocked(), nil
}

// Clear resets the criteria to their zero value.
func (s *FilterSession) Clear() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = Criteria{}
	s.recompute()
	return s.viewLocked()
}

func (s *FilterSession) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewLocked()
}

// Snapshot returns copies of the current result and of the distinct
// projects seen in the source set, for handing off to campaign creation.
func (s *FilterSession) Snapshot() ([]Lead, []string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.result), slices.Clone(s.projects)
}

func (s *FilterSession) recompute() {
	s.result = Filter(s.source, s.criteria)
	s.version++
}

func (s *FilterSession) viewLocked() View {
	projects := slices.Clone(s.projects)
	if projects == nil {
		projects = []string{}
	}
	return View{
		Leads:         slices.Clone(s.result),
		Criteria:      s.criteria.Clone(),
		ActiveFilters: s.criteria.ActiveFilterCount(),
		Matched:       len(s.result),
		Total:         len(s.source),
		Projects:      projects,
		Version:       s.version,
		LoadedAt:      s.loadedAt,
	}
}
