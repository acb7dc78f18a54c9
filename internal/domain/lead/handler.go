package lead

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"leadnurture/internal/domain/auth"
	"leadnurture/internal/pkg/response"
)

// SessionKey is where the workspace middleware stores the filter session.
const SessionKey = "filter_session"

// SessionFrom returns the caller's filter session.
func SessionFrom(c *gin.Context) (*FilterSession, error) {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil, ErrNoFilterSession
	}
	s, ok := v.(*FilterSession)
	if !ok || s == nil {
		return nil, ErrNoFilterSession
	}
	return s, nil
}

// Handler handles lead filtering HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates lead handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Refresh handles POST /api/v1/leads/refresh
// @Summary Reload leads from the CRM
// @Tags Leads
// @Security BearerAuth
// @Success 200 {object} View
// @Router /leads/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	session, cred, ok := h.scope(c)
	if !ok {
		return
	}

	view, err := h.service.Refresh(c.Request.Context(), cred, session)
	if err != nil {
		auth.RespondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, view)
}

// GetFilter handles GET /api/v1/leads/filter
func (h *Handler) GetFilter(c *gin.Context) {
	session, _, ok := h.scope(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, session.View())
}

// UpdateFilter handles PATCH /api/v1/leads/filter
// @Summary Change filter criteria
// @Tags Leads
// @Accept json
// @Param request body FilterPatch true "criteria change"
// @Success 200 {object} View
// @Failure 422 {object} map[string]interface{}
// @Router /leads/filter [patch]
func (h *Handler) UpdateFilter(c *gin.Context) {
	session, _, ok := h.scope(c)
	if !ok {
		return
	}

	var patch FilterPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	view, err := session.Update(patch.Apply)
	if err != nil {
		switch {
		case errors.Is(err, ErrNegativeBudget):
			response.Error(c, http.StatusUnprocessableEntity, "INVALID_BUDGET", err.Error())
		case errors.Is(err, ErrInvalidDate):
			response.Error(c, http.StatusUnprocessableEntity, "INVALID_DATE", err.Error())
		default:
			response.FromError(c, err)
		}
		return
	}

	response.Success(c, http.StatusOK, view)
}

// ClearFilter handles DELETE /api/v1/leads/filter
func (h *Handler) ClearFilter(c *gin.Context) {
	session, _, ok := h.scope(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, session.Clear())
}

// Vocabulary handles GET /api/v1/leads/vocabulary
func (h *Handler) Vocabulary(c *gin.Context) {
	response.Success(c, http.StatusOK, VocabularyResponse{
		Statuses:  StatusOptions,
		UnitTypes: UnitTypeOptions,
	})
}

func (h *Handler) scope(c *gin.Context) (*FilterSession, auth.Credential, bool) {
	session, err := SessionFrom(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "NO_WORKSPACE", "Workspace not found")
		return nil, nil, false
	}
	cred, err := auth.SessionFrom(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "NO_WORKSPACE", "Workspace not found")
		return nil, nil, false
	}
	return session, cred, true
}
