package lead

// Matches reports whether the lead satisfies every set criterion. Criteria
// combine with AND; a multi-valued selection matches any of its members.
// A lead missing a field that a set criterion needs is excluded.
func (c Criteria) Matches(l Lead) bool {
	if c.Project != "" && l.ProjectName != c.Project {
		return false
	}

	if len(c.Statuses) > 0 && !containsLabel(c.Statuses, l.NormalizedStatus()) {
		return false
	}

	if c.MinBudget.IsPositive() {
		if !l.MinBudget.Valid || l.MinBudget.Decimal.LessThan(c.MinBudget) {
			return false
		}
	}

	if c.MaxBudget.IsPositive() {
		if !l.MaxBudget.Valid || l.MaxBudget.Decimal.GreaterThan(c.MaxBudget) {
			return false
		}
	}

	if len(c.UnitTypes) > 0 {
		unit, ok := l.NormalizedUnitType()
		if !ok || !containsLabel(c.UnitTypes, unit) {
			return false
		}
	}

	if c.From != nil {
		if l.LastConversationAt == nil || l.LastConversationAt.Before(*c.From) {
			return false
		}
	}

	if c.To != nil {
		if l.LastConversationAt == nil || l.LastConversationAt.After(*c.To) {
			return false
		}
	}

	return true
}

// Filter returns the leads matching c in source order.
func Filter(leads []Lead, c Criteria) []Lead {
	out := make([]Lead, 0, len(leads))
	for _, l := range leads {
		if c.Matches(l) {
			out = append(out, l)
		}
	}
	return out
}

// DistinctProjects lists project names in first-seen order. Leads without
// a project are skipped.
func DistinctProjects(leads []Lead) []string {
	seen := make(map[string]struct{}, 8)
	out := make([]string, 0, 8)
	for _, l := range leads {
		if l.ProjectName == "" {
			continue
		}
		if _, ok := seen[l.ProjectName]; ok {
			continue
		}
		seen[l.ProjectName] = struct{}{}
		out = append(out, l.ProjectName)
	}
	return out
}
