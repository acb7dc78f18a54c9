package shortlist

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"leadnurture/internal/domain/auth"
	"leadnurture/internal/domain/lead"
	"leadnurture/internal/pkg/response"
)

// CreatedResponse summarizes a freshly parked shortlist.
type CreatedResponse struct {
	Count    int      `json:"count"`
	Projects []string `json:"projects"`
}

type Handler struct {
	slot Slot
	log  zerolog.Logger
}

func NewHandler(slot Slot, log zerolog.Logger) *Handler {
	return &Handler{slot: slot, log: log}
}

// Create handles POST /api/v1/leads/shortlist
// @Summary Hand the filtered leads over to campaign creation
// @Tags Leads
// @Security BearerAuth
// @Success 201 {object} CreatedResponse
// @Router /leads/shortlist [post]
func (h *Handler) Create(c *gin.Context) {
	session, err := lead.SessionFrom(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "NO_WORKSPACE", "Workspace not found")
		return
	}
	workspaceID := c.GetString(auth.WorkspaceIDKey)
	if workspaceID == "" {
		response.Error(c, http.StatusUnauthorized, "NO_WORKSPACE", "Workspace not found")
		return
	}

	filtered, projects := session.Snapshot()
	handoff := New(filtered, projects)
	count := handoff.Size()

	if err := h.slot.Put(c.Request.Context(), workspaceID, handoff); err != nil {
		h.log.Error().Err(err).Str("workspace_id", workspaceID).Msg("park shortlist")
		response.Error(c, http.StatusInternalServerError, "SHORTLIST_FAILED", "Failed to store shortlist")
		return
	}

	h.log.Debug().Str("workspace_id", workspaceID).Int("count", count).Msg("shortlist parked")
	response.Success(c, http.StatusCreated, CreatedResponse{Count: count, Projects: nonNil(projects)})
}
