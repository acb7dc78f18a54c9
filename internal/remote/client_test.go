package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadnurture/internal/domain/auth"
	"leadnurture/internal/domain/campaign"
	"leadnurture/internal/domain/conversation"
	"leadnurture/internal/pkg/apperror"
	"leadnurture/internal/pkg/logger"
)

const testToken = "remote-token"

var cred = auth.StaticToken(testToken)

// newTestClient serves routes keyed by "METHOD /path" and fails the test on
// anything else.
func newTestClient(t *testing.T, routes map[string]http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api", 5*time.Second, logger.Nop())
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func requireBearer(t *testing.T, r *http.Request) {
	t.Helper()
	assert.Equal(t, "Bearer "+testToken, r.Header.Get("Authorization"))
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, map[string]http.HandlerFunc{
		"POST /api/crm/token": func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.Header.Get("Authorization"))
			body := decodeBody(t, r)
			assert.Equal(t, "operator", body["username"])
			writeJSON(w, http.StatusOK, `{"access":"abc.def.ghi"}`)
		},
	})

	token, err := c.Login(context.Background(), "operator", "secret")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)
}

func TestLoginRejected(t *testing.T) {
	c := newTestClient(t, map[string]http.HandlerFunc{
		"POST /api/crm/token": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, `{"detail":"Invalid credentials"}`)
		},
	})

	_, err := c.Login(context.Background(), "operator", "wrong")
	var authErr *apperror.AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Invalid credentials", authErr.Reason)
}

func TestRegisterConflict(t *testing.T) {
	c := newTestClient(t, map[string]http.HandlerFunc{
		"POST /api/crm/register": func(w http.ResponseWriter, r *http.Request) {
			body := decodeBody(t, r)
			assert.Equal(t, "op@example.com", body["email"])
			writeJSON(w, http.StatusBadRequest, `{"detail":"User already exists"}`)
		},
	})

	_, err := c.Register(context.Background(), "operator", "secret", "op@example.com")
	var remoteErr *apperror.RemoteRequestError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusBadRequest, remoteErr.StatusCode)
	assert.Equal(t, "User already exists", remoteErr.Message())
}

func TestFetchLeads(t *testing.T) {
	c := newTestClient(t, map[string]http.HandlerFunc{
		"GET /api/crm/leads": func(w http.ResponseWriter, r *http.Request) {
			requireBearer(t, r)
			writeJSON(w, http.StatusOK, `[
				{"id":1,"lead_id":"L-1","name":"Asha","email":"asha@example.com","project_name":"Riverside",
				 "unit_type":"2 Bed","min_budget":"5500000.00","max_budget":null,"lead_status":"Connected",
				 "last_conversation_date":"2024-05-01"},
				{"id":2,"lead_id":"L-2","name":"Marek","email":"m@example.com","project_name":null,
				 "unit_type":null,"min_budget":null,"max_budget":1200000,"lead_status":null,
				 "last_conversation_date":"not a date"}
			]`)
		},
	})

	leads, err := c.FetchLeads(context.Background(), cred)
	require.NoError(t, err)
	require.Len(t, leads, 2)

	first := leads[0]
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "L-1", first.ExternalID)
	assert.True(t, first.MinBudget.Valid)
	assert.True(t, first.MinBudget.Decimal.Equal(decimal.NewFromInt(5500000)))
	assert.False(t, first.MaxBudget.Valid)
	require.NotNil(t, first.LastConversationAt)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), *first.LastConversationAt)

	second := leads[1]
	assert.Empty(t, second.ProjectName)
	assert.Nil(t, second.UnitType)
	assert.True(t, second.MaxBudget.Decimal.Equal(decimal.NewFromInt(1200000)))
	assert.Nil(t, second.LastConversationAt)
}

func TestExpiredCredentialIsNotDispatched(t *testing.T) {
	c := newTestClient(t, map[string]http.HandlerFunc{})

	_, err := c.FetchLeads(context.Background(), auth.StaticToken(""))
	assert.True(t, apperror.IsAuthentication(err))
}

func TestForbiddenIsAuthentication(t *testing.T) {
	c := newTestClient(t, map[string]http.HandlerFunc{
		"GET /api/crm/leads": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		},
	})

	_, err := c.FetchLeads(context.Background(), cred)
	var authErr *apperror.AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Forbidden", authErr.Reason)
}

func TestServerErrorWithoutReason(t *testing.T) {
	c := newTestClient(t, map[string]http.HandlerFunc{
		"GET /api/crm/leads": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, "<html>oops</html>")
		},
	})

	_, err := c.FetchLeads(context.Background(), cred)
	var remoteErr *apperror.RemoteRequestError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusInternalServerError, remoteErr.StatusCode)
	assert.Equal(t, apperror.GenericRemoteMessage, remoteErr.Message())
}

func TestValidationDetailList(t *testing.T) {
	c := newTestClient(t, map[string]http.HandlerFunc{
		"POST /api/campaigns/": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","name"],"msg":"field required"},{"msg":"bad channel"}]}`)
		},
	})

	_, err := c.CreateCampaign(context.Background(), cred, campaign.CreateInput{})
	var remoteErr *apperror.RemoteRequestError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "field required; bad channel", remoteErr.Message())
}

func TestCreateCampaign(t *testing.T) {
	c := newTestClient(t, map[string]http.HandlerFunc{
		"POST /api/campaigns/": func(w http.ResponseWriter, r *http.Request) {
			requireBearer(t, r)
			body := decodeBody(t, r)
			assert.Equal(t, "Spring launch", body["name"])
			assert.Equal(t, "Riverside", body["project_name"])
			assert.Equal(t, "5% off", body["sales_offer_details"])
			assert.Equal(t, "Email", body["nurturing_channel"])
			assert.Equal(t, []any{float64(1), float64(10)}, body["lead_ids"])
			writeJSON(w, http.StatusOK, `{"id":42,"name":"Spring launch","lead_ids":[1,10]}`)
		},
	})

	id, err := c.CreateCampaign(context.Background(), cred, campaign.CreateInput{
		Name:              "Spring launch",
		ProjectName:       "Riverside",
		SalesOfferDetails: "5% off",
		Channel:           campaign.ChannelEmail,
		LeadIDs:           []int64{1, 10},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestCreateCampaignDuplicateName(t *testing.T) {
	c := newTestClient(t, map[string]http.HandlerFunc{
		"POST /api/campaigns/": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, `{"detail":"duplicate name"}`)
		},
	})

	_, err := c.CreateCampaign(context.Background(), cred, campaign.CreateInput{Name: "dup"})
	var remoteErr *apperror.RemoteRequestError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "duplicate name", remoteErr.Message())
}

func TestTriggerNurture(t *testing.T) {
	c := newTestClient(t, map[string]http.HandlerFunc{
		"POST /api/ai/auto_nurture/": func(w http.ResponseWriter, r *http.Request) {
			requireBearer(t, r)
			body := decodeBody(t, r)
			assert.Equal(t, float64(42), body["campaign_id"])
			writeJSON(w, http.StatusOK, `{"status":"success","messages":[{"lead":"Asha","message":"Hi Asha"}]}`)
		},
	})

	res, err := c.TriggerNurture(context.Background(), cred, 42, []int64{1})
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)
	assert.Equal(t, "Hi Asha", res.Messages[0].Message)
}

func TestTriggerNurtureStatusError(t *testing.T) {
	c := newTestClient(t, map[string]http.HandlerFunc{
		"POST /api/ai/auto_nurture/": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"status":"error","message":"AI generation failed"}`)
		},
	})

	_, err := c.TriggerNurture(context.Background(), cred, 42, []int64{1})
	var remoteErr *apperror.RemoteRequestError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "AI generation failed", remoteErr.Message())
}

func TestCampaignMetrics(t *testing.T) {
	c := newTestClient(t, map[string]http.HandlerFunc{
		"GET /api/campaigns/metrics": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `[{"id":42,"name":"Spring","project_name":"Riverside","leads_count":2,"messages_sent":5,"created_at":"2024-05-01T10:00:00.123456+00:00"}]`)
		},
	})

	metrics, err := c.CampaignMetrics(context.Background(), cred)
	require.NoError(t, err)
	require.Len(t, metrics, 1)
	assert.Equal(t, 5, metrics[0].MessagesSent)
	assert.Equal(t, 2024, metrics[0].CreatedAt.Year())
}

func TestConversations(t *testing.T) {
	c := newTestClient(t, map[string]http.HandlerFunc{
		"GET /api/conversations/": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `[{"id":7,"lead_name":"Asha","lead_email":"asha@example.com","campaign_name":"Spring","message_count":2}]`)
		},
		"GET /api/conversations/7/messages/": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"conversation_id":7,"messages":[
				{"sender":"ai","content":"Hello Asha","timestamp":"2024-05-01T10:00:00Z"},
				{"sender":"lead","content":"Tell me more","timestamp":"2024-05-01T10:05:00.5+00:00"}
			]}`)
		},
	})

	list, err := c.ListConversations(context.Background(), cred)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "asha@example.com", list[0].LeadEmail)

	msgs, err := c.FetchMessages(context.Background(), cred, 7)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, conversation.SenderAI, msgs[0].Sender)
	assert.Equal(t, conversation.SenderLead, msgs[1].Sender)
	assert.True(t, msgs[0].Timestamp.Before(msgs[1].Timestamp))
}

func TestSendMessage(t *testing.T) {
	c := newTestClient(t, map[string]http.HandlerFunc{
		"POST /api/ai/send_message/": func(w http.ResponseWriter, r *http.Request) {
			body := decodeBody(t, r)
			assert.Equal(t, float64(7), body["conversation_id"])
			assert.Equal(t, "Hello", body["content"])
			writeJSON(w, http.StatusOK, `{"status":"success","ai_message":"Hi there","new_summary":"greeted"}`)
		},
	})

	reply, err := c.SendMessage(context.Background(), cred, 7, "Hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi there", reply.AIMessage)
	assert.Equal(t, "greeted", reply.NewSummary)
}

func TestSendMessageStatusError(t *testing.T) {
	c := newTestClient(t, map[string]http.HandlerFunc{
		"POST /api/ai/send_message/": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"status":"error","message":"AI generation failed"}`)
		},
	})

	_, err := c.SendMessage(context.Background(), cred, 7, "Hello")
	var remoteErr *apperror.RemoteRequestError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "AI generation failed", remoteErr.Message())
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, time.Second, logger.Nop())
	_, err := c.FetchLeads(context.Background(), cred)
	var remoteErr *apperror.RemoteRequestError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, 0, remoteErr.StatusCode)
	assert.Equal(t, apperror.GenericRemoteMessage, remoteErr.Message())
}

func TestParseTimeLayouts(t *testing.T) {
	for _, s := range []string{
		"2024-05-01",
		"2024-05-01T10:00:00Z",
		"2024-05-01T10:00:00.123456+00:00",
		"2024-05-01T10:00:00.123456",
		"2024-05-01 10:00:00",
	} {
		_, ok := parseTime(s)
		assert.True(t, ok, s)
	}
	_, ok := parseTime("yesterday")
	assert.False(t, ok)
}
