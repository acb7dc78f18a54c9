package campaign

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"leadnurture/internal/domain/auth"
	"leadnurture/internal/domain/shortlist"
	"leadnurture/internal/pkg/response"
	"leadnurture/internal/pkg/validator"
)

// OrchestratorKey is where the workspace middleware stores the
// operator's orchestrator.
const OrchestratorKey = "campaign_orchestrator"

// OrchestratorFrom returns the caller's orchestrator.
func OrchestratorFrom(c *gin.Context) (*Orchestrator, error) {
	v, ok := c.Get(OrchestratorKey)
	if !ok {
		return nil, ErrNoOrchestrator
	}
	o, ok := v.(*Orchestrator)
	if !ok || o == nil {
		return nil, ErrNoOrchestrator
	}
	return o, nil
}

// Handler handles campaign HTTP requests
type Handler struct {
	service *Service
	slot    shortlist.Slot
	log     zerolog.Logger
}

// NewHandler creates campaign handler
func NewHandler(service *Service, slot shortlist.Slot, log zerolog.Logger) *Handler {
	return &Handler{service: service, slot: slot, log: log}
}

// CreateDraft handles POST /api/v1/campaigns/draft
// @Summary Start a draft from the parked shortlist
// @Description Consumes the shortlist handoff. Without one the draft starts empty.
// @Tags Campaigns
// @Security BearerAuth
// @Success 201 {object} Snapshot
// @Failure 409 {object} map[string]interface{}
// @Router /campaigns/draft [post]
func (h *Handler) CreateDraft(c *gin.Context) {
	orch, ok := orchestrator(c)
	if !ok {
		return
	}

	handoff, err := h.slot.Take(c.Request.Context(), c.GetString(auth.WorkspaceIDKey))
	if err != nil {
		h.log.Error().Err(err).Msg("take shortlist")
		response.Error(c, http.StatusInternalServerError, "SHORTLIST_FAILED", "Failed to read shortlist")
		return
	}

	snap, err := orch.Reset(shortlist.Consume(handoff))
	if err != nil {
		h.respond(c, err)
		return
	}
	response.Success(c, http.StatusCreated, snap)
}

// GetDraft handles GET /api/v1/campaigns/draft
func (h *Handler) GetDraft(c *gin.Context) {
	orch, ok := orchestrator(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, orch.Snapshot())
}

// UpdateDraft handles PATCH /api/v1/campaigns/draft
// @Summary Edit the draft
// @Tags Campaigns
// @Accept json
// @Param request body DraftPatch true "draft fields"
// @Success 200 {object} Snapshot
// @Router /campaigns/draft [patch]
func (h *Handler) UpdateDraft(c *gin.Context) {
	orch, ok := orchestrator(c)
	if !ok {
		return
	}

	var patch DraftPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	snap, err := orch.Edit(patch)
	if err != nil {
		h.respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, snap)
}

// Submit handles POST /api/v1/campaigns/draft/submit
// @Summary Create the campaign and trigger AI nurture
// @Tags Campaigns
// @Success 200 {object} Snapshot
// @Failure 422 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /campaigns/draft/submit [post]
func (h *Handler) Submit(c *gin.Context) {
	orch, ok := orchestrator(c)
	if !ok {
		return
	}
	cred, err := auth.SessionFrom(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "NO_WORKSPACE", "Workspace not found")
		return
	}

	snap, err := orch.Submit(c.Request.Context(), cred)
	if err != nil {
		h.respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, snap)
}

// RetryNurture handles POST /api/v1/campaigns/draft/retry-nurture
func (h *Handler) RetryNurture(c *gin.Context) {
	orch, ok := orchestrator(c)
	if !ok {
		return
	}
	cred, err := auth.SessionFrom(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "NO_WORKSPACE", "Workspace not found")
		return
	}

	snap, err := orch.RetryNurture(c.Request.Context(), cred)
	if err != nil {
		h.respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, snap)
}

// Metrics handles GET /api/v1/campaigns/metrics
func (h *Handler) Metrics(c *gin.Context) {
	cred, err := auth.SessionFrom(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "NO_WORKSPACE", "Workspace not found")
		return
	}

	metrics, err := h.service.Metrics(c.Request.Context(), cred)
	if err != nil {
		auth.RespondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"campaigns": metrics})
}

// Commits handles GET /api/v1/campaigns/commits
func (h *Handler) Commits(c *gin.Context) {
	var q CommitsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_QUERY", "Invalid query parameters")
		return
	}
	if errs := validator.Validate(&q); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid query parameters", errs)
		return
	}

	records, err := h.service.Commits(c.Request.Context(), c.GetString(auth.UsernameKey), q)
	if err != nil {
		h.log.Error().Err(err).Msg("list commits")
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list commits")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"commits": records})
}

func (h *Handler) respond(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSubmitInFlight):
		response.Error(c, http.StatusConflict, "SUBMIT_IN_FLIGHT", err.Error())
	case errors.Is(err, ErrNotEditable), errors.Is(err, ErrNotSubmittable), errors.Is(err, ErrNoPartialCommit):
		response.Error(c, http.StatusConflict, "INVALID_STATE", err.Error())
	default:
		auth.RespondError(c, err)
	}
}

func orchestrator(c *gin.Context) (*Orchestrator, bool) {
	orch, err := OrchestratorFrom(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "NO_WORKSPACE", "Workspace not found")
		return nil, false
	}
	return orch, true
}
