package lead

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the CRM lead status label as the remote reports it.
type Status string

const (
	StatusNotConnected          Status = "Not Connected"
	StatusConnected             Status = "Connected"
	StatusVisitScheduled        Status = "Visit scheduled"
	StatusVisitDoneNotPurchased Status = "Visit done not purchased"
	StatusPurchased             Status = "Purchased"
	StatusNotInterested         Status = "Not interested"
)

// StatusOptions is the fixed status vocabulary offered to operators.
var StatusOptions = []Status{
	StatusNotConnected,
	StatusConnected,
	StatusVisitScheduled,
	StatusVisitDoneNotPurchased,
	StatusPurchased,
	StatusNotInterested,
}

// UnitTypeOptions is the unit-type vocabulary offered to operators. The
// predicate accepts any label.
var UnitTypeOptions = []string{
	"studio",
	"1 bed",
	"2 bed",
	"2 bed w study",
	"3 bed",
	"4 bed",
	"duplex",
	"penthouse",
}

// Lead is a CRM contact eligible for campaign targeting. Leads are treated
// as immutable once fetched.
type Lead struct {
	ID                 int64               `json:"id"`
	ExternalID         string              `json:"lead_id"`
	Name               string              `json:"name"`
	Email              string              `json:"email,omitempty"`
	ProjectName        string              `json:"project_name"`
	MinBudget          decimal.NullDecimal `json:"min_budget"`
	MaxBudget          decimal.NullDecimal `json:"max_budget"`
	UnitType           *string             `json:"unit_type"`
	Status             Status              `json:"lead_status"`
	LastConversationAt *time.Time          `json:"last_conversation_date"`
}

// NormalizedStatus is the lower-cased status used for criterion matching.
func (l *Lead) NormalizedStatus() string {
	return normalizeLabel(string(l.Status))
}

// NormalizedUnitType reports false when the lead has no unit type.
func (l *Lead) NormalizedUnitType() (string, bool) {
	if l.UnitType == nil {
		return "", false
	}
	return normalizeLabel(*l.UnitType), true
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
