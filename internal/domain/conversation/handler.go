package conversation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"leadnurture/internal/domain/auth"
	"leadnurture/internal/pkg/response"
)

// ControllerKey is where the workspace middleware stores the operator's
// conversation controller.
const ControllerKey = "conversation_controller"

// ControllerFrom returns the caller's controller.
func ControllerFrom(c *gin.Context) (*Controller, error) {
	v, ok := c.Get(ControllerKey)
	if !ok {
		return nil, ErrNoController
	}
	ctrl, ok := v.(*Controller)
	if !ok || ctrl == nil {
		return nil, ErrNoController
	}
	return ctrl, nil
}

// InputRequest replaces the composition buffer.
type InputRequest struct {
	Content string `json:"content"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /api/v1/conversations
// @Summary List conversation threads
// @Tags Conversations
// @Security BearerAuth
// @Success 200 {array} Summary
// @Router /conversations [get]
func (h *Handler) List(c *gin.Context) {
	cred, err := auth.SessionFrom(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "NO_WORKSPACE", "Workspace not found")
		return
	}

	list, err := h.service.List(c.Request.Context(), cred)
	if err != nil {
		auth.RespondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"conversations": list})
}

// Open handles POST /api/v1/conversations/:id/open
// @Summary Select a conversation and load its history
// @Tags Conversations
// @Param id path int true "Conversation ID"
// @Success 200 {object} View
// @Router /conversations/{id}/open [post]
func (h *Handler) Open(c *gin.Context) {
	ctrl, cred, ok := scope(c)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid conversation ID")
		return
	}

	view, err := ctrl.Open(c.Request.Context(), cred, id)
	if err != nil {
		respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// Current handles GET /api/v1/conversations/current
func (h *Handler) Current(c *gin.Context) {
	ctrl, err := ControllerFrom(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "NO_WORKSPACE", "Workspace not found")
		return
	}
	response.Success(c, http.StatusOK, ctrl.View())
}

// SetInput handles PUT /api/v1/conversations/current/input
func (h *Handler) SetInput(c *gin.Context) {
	ctrl, err := ControllerFrom(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "NO_WORKSPACE", "Workspace not found")
		return
	}

	var req InputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	view, err := ctrl.SetInput(req.Content)
	if err != nil {
		respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// Send handles POST /api/v1/conversations/current/send
// @Summary Send the buffered input as the lead's reply
// @Tags Conversations
// @Success 200 {object} View
// @Failure 409 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /conversations/current/send [post]
func (h *Handler) Send(c *gin.Context) {
	ctrl, cred, ok := scope(c)
	if !ok {
		return
	}

	view, err := ctrl.Send(c.Request.Context(), cred)
	if err != nil {
		respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// Retry handles POST /api/v1/conversations/current/messages/:local_id/retry
func (h *Handler) Retry(c *gin.Context) {
	ctrl, cred, ok := scope(c)
	if !ok {
		return
	}

	view, err := ctrl.Retry(c.Request.Context(), cred, c.Param("local_id"))
	if err != nil {
		respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// Close handles POST /api/v1/conversations/current/close
func (h *Handler) Close(c *gin.Context) {
	ctrl, err := ControllerFrom(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "NO_WORKSPACE", "Workspace not found")
		return
	}
	response.Success(c, http.StatusOK, ctrl.Close())
}

func scope(c *gin.Context) (*Controller, auth.Credential, bool) {
	ctrl, err := ControllerFrom(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "NO_WORKSPACE", "Workspace not found")
		return nil, nil, false
	}
	cred, err := auth.SessionFrom(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "NO_WORKSPACE", "Workspace not found")
		return nil, nil, false
	}
	return ctrl, cred, true
}

func respond(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSendInFlight):
		response.Error(c, http.StatusConflict, "SEND_IN_FLIGHT", err.Error())
	case errors.Is(err, ErrStaleResponse):
		response.Error(c, http.StatusConflict, "STALE_RESPONSE", err.Error())
	case errors.Is(err, ErrNotOpen):
		response.Error(c, http.StatusConflict, "CONVERSATION_NOT_OPEN", err.Error())
	case errors.Is(err, ErrNotRetryable):
		response.Error(c, http.StatusConflict, "NOT_RETRYABLE", err.Error())
	case errors.Is(err, ErrMessageNotFound):
		response.Error(c, http.StatusNotFound, "MESSAGE_NOT_FOUND", err.Error())
	case errors.Is(err, ErrInvalidID):
		response.Error(c, http.StatusBadRequest, "INVALID_ID", err.Error())
	default:
		auth.RespondError(c, err)
	}
}
