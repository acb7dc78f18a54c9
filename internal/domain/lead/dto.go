package lead

import "github.com/shopspring/decimal"

// FilterPatch is one incremental criteria change from the operator. Nil
// fields are left alone; an empty date string clears that bound and a zero
// budget clears that threshold.
type FilterPatch struct {
	Project        *string          `json:"project"`
	Statuses       *[]string        `json:"statuses"`
	ToggleStatus   string           `json:"toggle_status"`
	MinBudget      *decimal.Decimal `json:"min_budget"`
	MaxBudget      *decimal.Decimal `json:"max_budget"`
	UnitTypes      *[]string        `json:"unit_types"`
	ToggleUnitType string           `json:"toggle_unit_type"`
	FromDate       *string          `json:"from_date"`
	ToDate         *string          `json:"to_date"`
}

// Apply mutates c. It stops at the first invalid field.
func (p FilterPatch) Apply(c *Criteria) error {
	if p.Project != nil {
		c.SetProject(*p.Project)
	}
	if p.Statuses != nil {
		c.SetStatuses(*p.Statuses)
	}
	if p.ToggleStatus != "" {
		c.ToggleStatus(p.ToggleStatus)
	}
	if p.MinBudget != nil {
		if err := c.SetMinBudget(*p.MinBudget); err != nil {
			return err
		}
	}
	if p.MaxBudget != nil {
		if err := c.SetMaxBudget(*p.MaxBudget); err != nil {
			return err
		}
	}
	if p.UnitTypes != nil {
		c.SetUnitTypes(*p.UnitTypes)
	}
	if p.ToggleUnitType != "" {
		c.ToggleUnitType(p.ToggleUnitType)
	}
	if p.FromDate != nil {
		t, err := ParseDateBound(*p.FromDate)
		if err != nil {
			return err
		}
		c.SetFrom(t)
	}
	if p.ToDate != nil {
		t, err := ParseDateBound(*p.ToDate)
		if err != nil {
			return err
		}
		c.SetTo(t)
	}
	return nil
}

// VocabularyResponse lists the labels the filter form offers.
type VocabularyResponse struct {
	Statuses  []Status `json:"statuses"`
	UnitTypes []string `json:"unit_types"`
}
