package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leadnurture/internal/pkg/response"
	"leadnurture/internal/pkg/validator"
)

// Handler manages operator login, registration and logout
type Handler struct {
	service *Service
}

// NewHandler creates a new auth handler with injected service
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Login exchanges operator credentials for a console session.
// @Summary		Operator login
// @Tags		Auth
// @Accept		json
// @Produce		json
// @Param		body	body	LoginRequest	true	"credentials"
// @Success		200	{object}	SessionResponse
// @Router		/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid login request", errs)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Register creates an operator account on the remote and logs it in.
// @Summary		Operator registration
// @Tags		Auth
// @Router		/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid registration request", errs)
		return
	}

	resp, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

// Logout invalidates the remote credential and drops the workspace.
// @Summary		Operator logout
// @Tags		Auth
// @Security	BearerAuth
// @Router		/auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	session, _ := SessionFrom(c)
	h.service.Logout(c.GetString(WorkspaceIDKey), session)

	response.Success(c, http.StatusOK, gin.H{"status": "logged_out"})
}
