// Package workspace keeps the per-operator state of the console: the
// credential holder, the filter session, the campaign orchestrator and the
// conversation controller. One workspace exists per logged-in session.
package workspace

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"leadnurture/internal/domain/auth"
	"leadnurture/internal/domain/campaign"
	"leadnurture/internal/domain/conversation"
	"leadnurture/internal/domain/lead"
	"leadnurture/internal/domain/shortlist"
)

// Workspace is the state bundle of one operator session.
type Workspace struct {
	ID           string
	Username     string
	Session      *auth.Session
	Filter       *lead.FilterSession
	Campaign     *campaign.Orchestrator
	Conversation *conversation.Controller
	CreatedAt    time.Time

	lastSeen atomic.Int64
}

func (w *Workspace) touch(t time.Time) {
	w.lastSeen.Store(t.UnixNano())
}

// LastSeen is the time of the last request served for the workspace.
func (w *Workspace) LastSeen() time.Time {
	return time.Unix(0, w.lastSeen.Load())
}

// Deps are the shared collaborators every workspace is wired with.
type Deps struct {
	CampaignRemote     campaign.Remote
	Journal            campaign.Recorder
	ConversationRemote conversation.Remote
	Hub                *conversation.Hub
	Slot               shortlist.Slot
	ReturnAfter        time.Duration
	Log                zerolog.Logger
}

// Registry owns all open workspaces.
type Registry struct {
	mu    sync.RWMutex
	items map[string]*Workspace
	deps  Deps
	log   zerolog.Logger
	now   func() time.Time
}

func NewRegistry(deps Deps) *Registry {
	return &Registry{
		items: make(map[string]*Workspace),
		deps:  deps,
		log:   deps.Log.With().Str("component", "workspace").Logger(),
		now:   time.Now,
	}
}

// Open creates a workspace around a logged-in session and returns its id.
func (r *Registry) Open(username string, session *auth.Session) string {
	id := uuid.NewString()
	now := r.now()

	var pub conversation.Publisher
	if r.deps.Hub != nil {
		pub = r.deps.Hub
	}

	ws := &Workspace{
		ID:       id,
		Username: username,
		Session:  session,
		Filter:   lead.NewFilterSession(),
		Campaign: campaign.NewOrchestrator(campaign.Options{
			Remote:      r.deps.CampaignRemote,
			Journal:     r.deps.Journal,
			Log:         r.deps.Log,
			ReturnAfter: r.deps.ReturnAfter,
			WorkspaceID: id,
			Username:    username,
		}),
		Conversation: conversation.NewController(r.deps.ConversationRemote, pub, id, r.deps.Log),
		CreatedAt:    now,
	}
	ws.touch(now)

	r.mu.Lock()
	r.items[id] = ws
	r.mu.Unlock()
	return id
}

// Close logs the workspace out and releases what it holds elsewhere. It
// reports whether the workspace existed.
func (r *Registry) Close(id string) bool {
	r.mu.Lock()
	ws, ok := r.items[id]
	delete(r.items, id)
	r.mu.Unlock()
	if !ok {
		return false
	}

	ws.Session.Logout()
	if r.deps.Slot != nil {
		if err := r.deps.Slot.Drop(context.Background(), id); err != nil {
			r.log.Warn().Err(err).Str("workspace_id", id).Msg("drop shortlist")
		}
	}
	if r.deps.Hub != nil {
		r.deps.Hub.Drop(id)
	}
	return true
}

// Get returns the workspace and marks it as used.
func (r *Registry) Get(id string) (*Workspace, bool) {
	r.mu.RLock()
	ws, ok := r.items[id]
	r.mu.RUnlock()
	if ok {
		ws.touch(r.now())
	}
	return ws, ok
}

func (r *Registry) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.items[id]
	return ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Sweep closes workspaces that were logged out or sat idle longer than
// idle. A zero idle only removes logged-out workspaces.
func (r *Registry) Sweep(idle time.Duration) []string {
	now := r.now()

	r.mu.RLock()
	var expired []string
	for id, ws := range r.items {
		switch {
		case !ws.Session.LoggedIn():
			expired = append(expired, id)
		case idle > 0 && now.Sub(ws.LastSeen()) > idle:
			expired = append(expired, id)
		}
	}
	r.mu.RUnlock()

	sort.Strings(expired)
	for _, id := range expired {
		r.Close(id)
	}
	return expired
}

// CloseAll drops every workspace, used on shutdown.
func (r *Registry) CloseAll() int {
	r.mu.RLock()
	ids := make([]string, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	for _, id := range ids {
		r.Close(id)
	}
	return len(ids)
}
