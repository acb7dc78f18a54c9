package shortlist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadnurture/internal/domain/auth"
	"leadnurture/internal/domain/lead"
	"leadnurture/internal/pkg/logger"
)

func TestCreateParksFilteredLeads(t *testing.T) {
	gin.SetMode(gin.TestMode)

	session := lead.NewFilterSession()
	session.SetLeads(append(sampleLeads(), lead.Lead{ID: 2, ProjectName: "Hilltop", Status: lead.StatusPurchased}))
	_, err := session.Update(func(c *lead.Criteria) error {
		c.SetProject("Riverside")
		return nil
	})
	require.NoError(t, err)

	slot := NewMemorySlot(0)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(lead.SessionKey, session)
		c.Set(auth.WorkspaceIDKey, "ws-1")
		c.Next()
	})
	RegisterRoutes(r.Group("/api/v1"), NewHandler(slot, logger.Nop()))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/leads/shortlist", nil))
	require.Equal(t, http.StatusCreated, rr.Code)

	var body struct {
		Data CreatedResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Data.Count)
	assert.Equal(t, []string{"Riverside", "Hilltop"}, body.Data.Projects)

	h, err := slot.Take(context.Background(), "ws-1")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 10}, Consume(h).LeadIDs())
}

func TestCreateWithoutWorkspace(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), NewHandler(NewMemorySlot(0), logger.Nop()))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/leads/shortlist", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
