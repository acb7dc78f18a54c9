package lead

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// MaxActiveFilters is the number of criterion categories.
const MaxActiveFilters = 5

// Criteria is the set of operator-chosen constraints. The zero value
// accepts every lead. Status and unit-type selections are kept lower-cased;
// a zero budget threshold or a nil date bound never excludes anything.
type Criteria struct {
	Project   string          `json:"project"`
	Statuses  []string        `json:"statuses"`
	MinBudget decimal.Decimal `json:"min_budget"`
	MaxBudget decimal.Decimal `json:"max_budget"`
	UnitTypes []string        `json:"unit_types"`
	From      *time.Time      `json:"from_date"`
	To        *time.Time      `json:"to_date"`
}

func (c *Criteria) SetProject(project string) {
	c.Project = strings.TrimSpace(project)
}

// ToggleStatus adds the status to the selection, or removes it when it is
// already selected.
func (c *Criteria) ToggleStatus(status string) {
	c.Statuses = toggleLabel(c.Statuses, status)
}

func (c *Criteria) SetStatuses(statuses []string) {
	c.Statuses = normalizeSet(statuses)
}

func (c *Criteria) ToggleUnitType(unit string) {
	c.UnitTypes = toggleLabel(c.UnitTypes, unit)
}

func (c *Criteria) SetUnitTypes(units []string) {
	c.UnitTypes = normalizeSet(units)
}

func (c *Criteria) SetMinBudget(v decimal.Decimal) error {
	if v.IsNegative() {
		return ErrNegativeBudget
	}
	c.MinBudget = v
	return nil
}

func (c *Criteria) SetMaxBudget(v decimal.Decimal) error {
	if v.IsNegative() {
		return ErrNegativeBudget
	}
	c.MaxBudget = v
	return nil
}

func (c *Criteria) SetFrom(t *time.Time) {
	c.From = copyTime(t)
}

func (c *Criteria) SetTo(t *time.Time) {
	c.To = copyTime(t)
}

// ActiveFilterCount counts non-default criterion categories: project,
// status, budget (either bound), unit type and date (either bound). It is
// a gate for the presentation layer and never weights results.
func (c Criteria) ActiveFilterCount() int {
	count := 0
	if c.Project != "" {
		count++
	}
	if len(c.Statuses) > 0 {
		count++
	}
	if c.MinBudget.IsPositive() || c.MaxBudget.IsPositive() {
		count++
	}
	if len(c.UnitTypes) > 0 {
		count++
	}
	if c.From != nil || c.To != nil {
		count++
	}
	return count
}

// IsZero reports whether no criterion is set.
func (c Criteria) IsZero() bool {
	return c.ActiveFilterCount() == 0
}

// Clone returns a copy that shares no slices or pointers with c.
func (c Criteria) Clone() Criteria {
	out := c
	out.Statuses = slices.Clone(c.Statuses)
	out.UnitTypes = slices.Clone(c.UnitTypes)
	out.From = copyTime(c.From)
	out.To = copyTime(c.To)
	return out
}

// ParseDateBound turns operator input into a date bound. An empty string
// unsets the bound. A bare date means UTC midnight of that day.
func ParseDateBound(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	return nil, ErrInvalidDate
}

func toggleLabel(set []string, label string) []string {
	label = normalizeLabel(label)
	if label == "" {
		return set
	}
	if i := slices.Index(set, label); i >= 0 {
		return slices.Delete(slices.Clone(set), i, i+1)
	}
	return append(slices.Clone(set), label)
}

func normalizeSet(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		l = normalizeLabel(l)
		if l == "" || slices.Contains(out, l) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func containsLabel(set []string, v string) bool {
	for _, member := range set {
		if normalizeLabel(member) == v {
			return true
		}
	}
	return false
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
