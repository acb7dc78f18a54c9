package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"leadnurture/internal/pkg/apperror"
	"leadnurture/internal/pkg/jwt"
	"leadnurture/internal/pkg/logger"
)

type mockAuthenticator struct {
	mock.Mock
}

func (m *mockAuthenticator) Login(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

func (m *mockAuthenticator) Register(ctx context.Context, username, password, email string) (string, error) {
	args := m.Called(ctx, username, password, email)
	return args.String(0), args.Error(1)
}

type fakeWorkspaces struct {
	opened map[string]*Session
	closed []string
}

func (f *fakeWorkspaces) Open(username string, session *Session) string {
	id := "ws-" + username
	f.opened[id] = session
	return id
}

func (f *fakeWorkspaces) Close(id string) bool {
	_, ok := f.opened[id]
	delete(f.opened, id)
	f.closed = append(f.closed, id)
	return ok
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func setup(t *testing.T) (*gin.Engine, *mockAuthenticator, *fakeWorkspaces, *jwt.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	remote := new(mockAuthenticator)
	ws := &fakeWorkspaces{opened: map[string]*Session{}}
	jwtService := jwt.New("console-secret", time.Hour)
	h := NewHandler(NewService(remote, ws, jwtService, logger.Nop()))

	r := gin.New()
	v1 := r.Group("/api/v1")
	h.RegisterPublicRoutes(v1)

	protected := v1.Group("")
	protected.Use(func(c *gin.Context) {
		id := c.GetHeader("X-Workspace")
		c.Set(WorkspaceIDKey, id)
		if s, ok := ws.opened[id]; ok {
			c.Set(SessionKey, s)
		}
		c.Next()
	})
	h.RegisterProtectedRoutes(protected)
	return r, remote, ws, jwtService
}

func do(r *gin.Engine, method, path string, body any, header map[string]string) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestLogin_OpensWorkspace(t *testing.T) {
	r, remote, ws, jwtService := setup(t)
	remote.On("Login", mock.Anything, "alice", "pw").Return("remote-access", nil)

	w, env := do(r, http.MethodPost, "/api/v1/auth/login", LoginRequest{Username: "alice", Password: "pw"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, "ws-alice", resp.WorkspaceID)
	assert.Nil(t, resp.RemoteUntil)

	claims, err := jwtService.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "ws-alice", claims.WorkspaceID)
	assert.Equal(t, "alice", claims.Username)

	token, err := ws.opened["ws-alice"].BearerToken()
	require.NoError(t, err)
	assert.Equal(t, "remote-access", token)
	assert.NotContains(t, w.Body.String(), "remote-access")
}

func TestLogin_RemoteRejects(t *testing.T) {
	r, remote, ws, _ := setup(t)
	remote.On("Login", mock.Anything, "alice", "bad").
		Return("", &apperror.AuthenticationError{Reason: "No active account found with the given credentials"})

	w, env := do(r, http.MethodPost, "/api/v1/auth/login", LoginRequest{Username: "alice", Password: "bad"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTHENTICATION_FAILED", env.Error.Code)
	assert.Empty(t, ws.opened)
}

func TestLogin_Validation(t *testing.T) {
	r, remote, _, _ := setup(t)

	w, env := do(r, http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "alice"}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	remote.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister(t *testing.T) {
	r, remote, _, _ := setup(t)
	remote.On("Register", mock.Anything, "bob", "long-password", "bob@example.com").Return("remote-access", nil)

	w, env := do(r, http.MethodPost, "/api/v1/auth/register",
		RegisterRequest{Username: "bob", Password: "long-password", Email: "bob@example.com"}, nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)

	w, env = do(r, http.MethodPost, "/api/v1/auth/register",
		RegisterRequest{Username: "bob", Password: "short", Email: "bob@example.com"}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestLogout_DropsCredentialAndWorkspace(t *testing.T) {
	r, remote, ws, _ := setup(t)
	remote.On("Login", mock.Anything, "alice", "pw").Return("remote-access", nil)
	do(r, http.MethodPost, "/api/v1/auth/login", LoginRequest{Username: "alice", Password: "pw"}, nil)
	session := ws.opened["ws-alice"]
	require.NotNil(t, session)

	w, _ := do(r, http.MethodPost, "/api/v1/auth/logout", nil, map[string]string{"X-Workspace": "ws-alice"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, session.LoggedIn())
	assert.Equal(t, []string{"ws-alice"}, ws.closed)
}

func TestRespondError_AuthLogsOut(t *testing.T) {
	gin.SetMode(gin.TestMode)
	session := NewSession()
	session.Login("t")

	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		c.Set(SessionKey, session)
		RespondError(c, &apperror.AuthenticationError{Reason: "Token is invalid or expired"})
	})
	r.GET("/y", func(c *gin.Context) {
		c.Set(SessionKey, session)
		RespondError(c, &apperror.RemoteRequestError{Op: "fetch leads"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/y", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.True(t, session.LoggedIn())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, session.LoggedIn())
}
