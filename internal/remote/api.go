package remote

import (
	"context"
	"fmt"
	"net/http"

	"leadnurture/internal/domain/auth"
	"leadnurture/internal/domain/campaign"
	"leadnurture/internal/domain/conversation"
	"leadnurture/internal/domain/lead"
)

// Login exchanges operator credentials for an access token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out tokenResponse
	err := c.do(ctx, "login", http.MethodPost, "crm/token", nil, tokenRequest{
		Username: username,
		Password: password,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.token("login")
}

// Register creates an operator account and returns its access token.
func (c *Client) Register(ctx context.Context, username, password, email string) (string, error) {
	var out tokenResponse
	err := c.do(ctx, "register", http.MethodPost, "crm/register", nil, registerRequest{
		Username: username,
		Password: password,
		Email:    email,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.token("register")
}

func (c *Client) FetchLeads(ctx context.Context, cred auth.Credential) ([]lead.Lead, error) {
	var out []leadPayload
	if err := c.do(ctx, "fetch leads", http.MethodGet, "crm/leads", cred, nil, &out); err != nil {
		return nil, err
	}
	leads := make([]lead.Lead, 0, len(out))
	for _, p := range out {
		leads = append(leads, p.toLead())
	}
	return leads, nil
}

func (c *Client) CreateCampaign(ctx context.Context, cred auth.Credential, in campaign.CreateInput) (int64, error) {
	var out campaignResponse
	if err := c.do(ctx, "create campaign", http.MethodPost, "campaigns/", cred, in, &out); err != nil {
		return 0, err
	}
	if out.ID <= 0 {
		return 0, missingField("create campaign", "id")
	}
	return out.ID, nil
}

func (c *Client) TriggerNurture(ctx context.Context, cred auth.Credential, campaignID int64, leadIDs []int64) (campaign.NurtureResult, error) {
	var out nurtureResponse
	err := c.do(ctx, "trigger nurture", http.MethodPost, "ai/auto_nurture/", cred, nurtureRequest{
		CampaignID: campaignID,
		LeadIDs:    leadIDs,
	}, &out)
	if err != nil {
		return campaign.NurtureResult{}, err
	}
	if err := out.check("trigger nurture"); err != nil {
		return campaign.NurtureResult{}, err
	}
	return campaign.NurtureResult{Messages: out.Messages}, nil
}

func (c *Client) CampaignMetrics(ctx context.Context, cred auth.Credential) ([]campaign.Metric, error) {
	var out []metricPayload
	if err := c.do(ctx, "campaign metrics", http.MethodGet, "campaigns/metrics", cred, nil, &out); err != nil {
		return nil, err
	}
	metrics := make([]campaign.Metric, 0, len(out))
	for _, p := range out {
		metrics = append(metrics, p.toMetric())
	}
	return metrics, nil
}

func (c *Client) ListConversations(ctx context.Context, cred auth.Credential) ([]conversation.Summary, error) {
	var out []conversation.Summary
	if err := c.do(ctx, "fetch conversations", http.MethodGet, "conversations/", cred, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []conversation.Summary{}
	}
	return out, nil
}

// FetchMessages returns the thread in server order.
func (c *Client) FetchMessages(ctx context.Context, cred auth.Credential, conversationID int64) ([]conversation.Message, error) {
	var out messagesResponse
	path := fmt.Sprintf("conversations/%d/messages/", conversationID)
	if err := c.do(ctx, "fetch messages", http.MethodGet, path, cred, nil, &out); err != nil {
		return nil, err
	}
	msgs := make([]conversation.Message, 0, len(out.Messages))
	for _, p := range out.Messages {
		msgs = append(msgs, p.toMessage())
	}
	return msgs, nil
}

func (c *Client) SendMessage(ctx context.Context, cred auth.Credential, conversationID int64, content string) (conversation.Reply, error) {
	var out sendMessageResponse
	err := c.do(ctx, "send message", http.MethodPost, "ai/send_message/", cred, sendMessageRequest{
		ConversationID: conversationID,
		Content:        content,
	}, &out)
	if err != nil {
		return conversation.Reply{}, err
	}
	if err := out.check("send message"); err != nil {
		return conversation.Reply{}, err
	}
	return conversation.Reply{AIMessage: out.AIMessage, NewSummary: out.NewSummary}, nil
}
