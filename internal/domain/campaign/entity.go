package campaign

import (
	"time"

	"leadnurture/internal/domain/lead"
)

// Channel is the outreach medium of a campaign.
type Channel string

const (
	ChannelEmail    Channel = "Email"
	ChannelWhatsApp Channel = "WhatsApp"
)

// ChannelOptions is offered on the draft form.
var ChannelOptions = []Channel{ChannelEmail, ChannelWhatsApp}

// State is the commit lifecycle position of a draft.
type State string

const (
	StateDraft            State = "draft"
	StateSubmitting       State = "submitting"
	StateCampaignCreated  State = "campaign_created"
	StateNurtureTriggered State = "nurture_triggered"
	StateFailed           State = "failed"
)

// Draft is the operator-authored campaign before it is committed.
type Draft struct {
	Name              string      `json:"name" validate:"required"`
	ProjectName       string      `json:"project_name" validate:"required"`
	SalesOfferDetails string      `json:"sales_offer_details" validate:"required"`
	Channel           Channel     `json:"nurturing_channel" validate:"oneof=Email WhatsApp"`
	Leads             []lead.Lead `json:"leads" validate:"min=1"`
	Projects          []string    `json:"projects" validate:"-"`
}

// LeadIDs lists the target lead identifiers in shortlist order.
func (d Draft) LeadIDs() []int64 {
	ids := make([]int64, 0, len(d.Leads))
	for _, l := range d.Leads {
		ids = append(ids, l.ID)
	}
	return ids
}

// CreateInput is the create-campaign request body.
type CreateInput struct {
	Name              string  `json:"name"`
	ProjectName       string  `json:"project_name"`
	SalesOfferDetails string  `json:"sales_offer_details"`
	Channel           Channel `json:"nurturing_channel"`
	LeadIDs           []int64 `json:"lead_ids"`
}

// GeneratedMessage is one outreach message the nurture trigger produced.
type GeneratedMessage struct {
	Lead    string `json:"lead"`
	Message string `json:"message"`
}

// NurtureResult is the trigger response.
type NurtureResult struct {
	Messages []GeneratedMessage `json:"messages"`
}

// Metric is one row of the campaign analytics listing.
type Metric struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	ProjectName  string    `json:"project_name"`
	LeadsCount   int       `json:"leads_count"`
	MessagesSent int       `json:"messages_sent"`
	CreatedAt    time.Time `json:"created_at"`
}
