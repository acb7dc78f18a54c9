package remote

import (
	"time"

	"github.com/shopspring/decimal"

	"leadnurture/internal/domain/campaign"
	"leadnurture/internal/domain/conversation"
	"leadnurture/internal/domain/lead"
	"leadnurture/internal/pkg/apperror"
)

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

type tokenResponse struct {
	Access string `json:"access"`
}

func (r tokenResponse) token(op string) (string, error) {
	if r.Access == "" {
		return "", missingField(op, "access")
	}
	return r.Access, nil
}

type leadPayload struct {
	ID                   int64               `json:"id"`
	LeadID               string              `json:"lead_id"`
	Name                 *string             `json:"name"`
	Email                *string             `json:"email"`
	ProjectName          *string             `json:"project_name"`
	UnitType             *string             `json:"unit_type"`
	MinBudget            decimal.NullDecimal `json:"min_budget"`
	MaxBudget            decimal.NullDecimal `json:"max_budget"`
	LeadStatus           *string             `json:"lead_status"`
	LastConversationDate *string             `json:"last_conversation_date"`
}

func (p leadPayload) toLead() lead.Lead {
	return lead.Lead{
		ID:                 p.ID,
		ExternalID:         p.LeadID,
		Name:               deref(p.Name),
		Email:              deref(p.Email),
		ProjectName:        deref(p.ProjectName),
		MinBudget:          p.MinBudget,
		MaxBudget:          p.MaxBudget,
		UnitType:           p.UnitType,
		Status:             lead.Status(deref(p.LeadStatus)),
		LastConversationAt: parseOptionalTime(p.LastConversationDate),
	}
}

type campaignResponse struct {
	ID int64 `json:"id"`
}

type nurtureRequest struct {
	CampaignID int64   `json:"campaign_id"`
	LeadIDs    []int64 `json:"lead_ids"`
}

type nurtureResponse struct {
	statusEnvelope
	Messages []campaign.GeneratedMessage `json:"messages"`
}

type metricPayload struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ProjectName  string `json:"project_name"`
	LeadsCount   int    `json:"leads_count"`
	MessagesSent int    `json:"messages_sent"`
	CreatedAt    string `json:"created_at"`
}

func (p metricPayload) toMetric() campaign.Metric {
	m := campaign.Metric{
		ID:           p.ID,
		Name:         p.Name,
		ProjectName:  p.ProjectName,
		LeadsCount:   p.LeadsCount,
		MessagesSent: p.MessagesSent,
	}
	if t, ok := parseTime(p.CreatedAt); ok {
		m.CreatedAt = t
	}
	return m
}

type messagePayload struct {
	Sender    string `json:"sender"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

func (p messagePayload) toMessage() conversation.Message {
	m := conversation.Message{
		Sender:  conversation.Sender(p.Sender),
		Content: p.Content,
	}
	if t, ok := parseTime(p.Timestamp); ok {
		m.Timestamp = t
	}
	return m
}

type messagesResponse struct {
	ConversationID int64            `json:"conversation_id"`
	Messages       []messagePayload `json:"messages"`
}

type sendMessageRequest struct {
	ConversationID int64  `json:"conversation_id"`
	Content        string `json:"content"`
}

type sendMessageResponse struct {
	statusEnvelope
	AIMessage  string `json:"ai_message"`
	NewSummary string `json:"new_summary"`
}

// timeLayouts covers ISO datetimes with and without zone and bare dates.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func parseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseOptionalTime treats an unparseable date like a missing one.
func parseOptionalTime(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, ok := parseTime(*s)
	if !ok {
		return nil
	}
	return &t
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func missingField(op, field string) error {
	return &apperror.RemoteRequestError{Op: op, Reason: "response is missing " + field}
}
