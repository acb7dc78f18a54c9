package conversation

import "time"

// Sender is who authored a message.
type Sender string

const (
	SenderLead Sender = "lead"
	SenderAI   Sender = "ai"
)

// DeliveryStatus tracks a message the console appended before the remote
// confirmed it. Fetched history is always confirmed.
type DeliveryStatus string

const (
	StatusPending   DeliveryStatus = "pending"
	StatusConfirmed DeliveryStatus = "confirmed"
	StatusFailed    DeliveryStatus = "failed"
)

// Phase is the lifecycle position of the selected conversation.
type Phase string

const (
	PhaseClosed  Phase = "closed"
	PhaseLoading Phase = "loading"
	PhaseOpen    Phase = "open"
	PhaseSending Phase = "sending"
)

// Message is one entry of a conversation thread.
type Message struct {
	LocalID   string         `json:"local_id"`
	Sender    Sender         `json:"sender"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Status    DeliveryStatus `json:"status"`
	Error     string         `json:"error,omitempty"`
}

// Summary is one row of the conversation list.
type Summary struct {
	ID           int64  `json:"id"`
	LeadName     string `json:"lead_name"`
	LeadEmail    string `json:"lead_email"`
	CampaignName string `json:"campaign_name"`
	MessageCount int    `json:"message_count"`
}

// Reply is the remote answer to a lead-authored message.
type Reply struct {
	AIMessage  string `json:"ai_message"`
	NewSummary string `json:"new_summary"`
}
