package conversation

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"leadnurture/internal/domain/auth"
	"leadnurture/internal/pkg/apperror"
)

// Remote is the conversation surface of the lead nurture API.
type Remote interface {
	ListConversations(ctx context.Context, cred auth.Credential) ([]Summary, error)
	FetchMessages(ctx context.Context, cred auth.Credential, conversationID int64) ([]Message, error)
	SendMessage(ctx context.Context, cred auth.Credential, conversationID int64, content string) (Reply, error)
}

// Publisher fans controller state out to the operator's live views.
type Publisher interface {
	Publish(workspaceID string, event Event)
}

// View is the selected conversation as rendered to the operator.
type View struct {
	ConversationID *int64    `json:"conversation_id"`
	Phase          Phase     `json:"phase"`
	Messages       []Message `json:"messages"`
	Input          string    `json:"input"`
	Busy           bool      `json:"busy"`
	Error          string    `json:"error,omitempty"`
}

// Controller keeps one operator's selected conversation in sync with the
// remote. Messages the operator sends are appended before the remote
// answers and carry a delivery status; only one send is outstanding at a
// time, and responses for a conversation that is no longer selected are
// dropped.
type Controller struct {
	mu          sync.Mutex
	remote      Remote
	pub         Publisher
	workspaceID string
	log         zerolog.Logger
	now         func() time.Time
	newID       func() string

	selected   int64
	hasOpen    bool
	generation uint64
	phase      Phase
	messages   []Message
	input      string
	busy       bool
	lastError  string
}

func NewController(remote Remote, pub Publisher, workspaceID string, log zerolog.Logger) *Controller {
	return &Controller{
		remote:      remote,
		pub:         pub,
		workspaceID: workspaceID,
		log:         log.With().Str("component", "conversation").Str("workspace_id", workspaceID).Logger(),
		now:         time.Now,
		newID:       uuid.NewString,
		phase:       PhaseClosed,
	}
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Open selects a conversation and loads its history. The fetch is not
// cancelled when another conversation gets selected meanwhile; its result
// is discarded instead.
func (c *Controller) Open(ctx context.Context, cred auth.Credential, id int64) (View, error) {
	if id <= 0 {
		return c.View(), ErrInvalidID
	}

	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.selected = id
	c.hasOpen = true
	c.phase = PhaseLoading
	c.messages = nil
	c.input = ""
	c.lastError = ""
	c.publishLocked()
	c.mu.Unlock()

	fetched, err := c.remote.FetchMessages(context.WithoutCancel(ctx), cred, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.currentLocked(id, gen) {
		c.log.Debug().Int64("conversation_id", id).Msg("discarding stale history")
		return c.viewLocked(), ErrStaleResponse
	}
	if err != nil {
		c.phase = PhaseClosed
		c.hasOpen = false
		c.lastError = failureReason(err)
		c.publishLocked()
		c.log.Warn().Err(err).Int64("conversation_id", id).Msg("fetch messages failed")
		return c.viewLocked(), err
	}

	msgs := make([]Message, 0, len(fetched))
	for _, m := range fetched {
		m.LocalID = c.newID()
		m.Status = StatusConfirmed
		msgs = append(msgs, m)
	}
	c.messages = msgs
	c.phase = PhaseOpen
	c.publishLocked()
	return c.viewLocked(), nil
}

// SetInput replaces the composition buffer.
func (c *Controller) SetInput(text string) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasOpen {
		return c.viewLocked(), ErrNotOpen
	}
	c.input = text
	return c.viewLocked(), nil
}

// Send appends the buffered input as a pending lead message, clears the
// buffer and posts it. On success the message is confirmed and the AI
// reply is placed right after it; on failure it stays in the thread marked
// failed so it can be retried.
func (c *Controller) Send(ctx context.Context, cred auth.Credential) (View, error) {
	c.mu.Lock()
	if !c.hasOpen || c.phase == PhaseLoading {
		defer c.mu.Unlock()
		return c.viewLocked(), ErrNotOpen
	}
	if c.busy {
		defer c.mu.Unlock()
		return c.viewLocked(), ErrSendInFlight
	}
	content := c.input
	if strings.TrimSpace(content) == "" {
		defer c.mu.Unlock()
		return c.viewLocked(), apperror.NewValidation("message is empty", map[string]string{"input": "required"})
	}

	msg := Message{
		LocalID:   c.newID(),
		Sender:    SenderLead,
		Content:   content,
		Timestamp: c.now(),
		Status:    StatusPending,
	}
	c.messages = append(c.messages, msg)
	c.input = ""
	c.busy = true
	c.phase = PhaseSending
	id, gen := c.selected, c.generation
	c.publishLocked()
	c.mu.Unlock()

	return c.deliver(ctx, cred, id, gen, msg.LocalID, content)
}

// Retry resends a failed message in place.
func (c *Controller) Retry(ctx context.Context, cred auth.Credential, localID string) (View, error) {
	c.mu.Lock()
	if !c.hasOpen || c.phase == PhaseLoading {
		defer c.mu.Unlock()
		return c.viewLocked(), ErrNotOpen
	}
	if c.busy {
		defer c.mu.Unlock()
		return c.viewLocked(), ErrSendInFlight
	}
	idx := c.indexLocked(localID)
	if idx < 0 {
		defer c.mu.Unlock()
		return c.viewLocked(), ErrMessageNotFound
	}
	if c.messages[idx].Status != StatusFailed {
		defer c.mu.Unlock()
		return c.viewLocked(), ErrNotRetryable
	}

	c.messages[idx].Status = StatusPending
	c.messages[idx].Error = ""
	content := c.messages[idx].Content
	c.busy = true
	c.phase = PhaseSending
	id, gen := c.selected, c.generation
	c.publishLocked()
	c.mu.Unlock()

	return c.deliver(ctx, cred, id, gen, localID, content)
}

// Close deselects the conversation. A send still in flight keeps the busy
// flag until it returns.
func (c *Controller) Close() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.selected = 0
	c.hasOpen = false
	c.phase = PhaseClosed
	c.messages = nil
	c.input = ""
	c.lastError = ""
	c.publishLocked()
	return c.viewLocked()
}

func (c *Controller) deliver(ctx context.Context, cred auth.Credential, id int64, gen uint64, localID, content string) (View, error) {
	reply, err := c.remote.SendMessage(context.WithoutCancel(ctx), cred, id, content)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false

	if !c.currentLocked(id, gen) {
		c.log.Debug().Int64("conversation_id", id).Msg("discarding stale reply")
		c.publishLocked()
		return c.viewLocked(), ErrStaleResponse
	}
	c.phase = PhaseOpen

	idx := c.indexLocked(localID)
	if idx < 0 {
		c.publishLocked()
		return c.viewLocked(), ErrStaleResponse
	}

	if err != nil {
		c.messages[idx].Status = StatusFailed
		c.messages[idx].Error = failureReason(err)
		c.publishLocked()
		c.log.Warn().Err(err).Int64("conversation_id", id).Msg("send message failed")
		return c.viewLocked(), err
	}

	c.messages[idx].Status = StatusConfirmed
	ai := Message{
		LocalID:   c.newID(),
		Sender:    SenderAI,
		Content:   reply.AIMessage,
		Timestamp: c.now(),
		Status:    StatusConfirmed,
	}
	c.messages = slices.Insert(c.messages, idx+1, ai)
	c.publishLocked()
	return c.viewLocked(), nil
}

func (c *Controller) currentLocked(id int64, gen uint64) bool {
	return c.hasOpen && c.selected == id && c.generation == gen
}

func (c *Controller) indexLocked(localID string) int {
	return slices.IndexFunc(c.messages, func(m Message) bool { return m.LocalID == localID })
}

func (c *Controller) viewLocked() View {
	v := View{
		Phase:    c.phase,
		Messages: slices.Clone(c.messages),
		Input:    c.input,
		Busy:     c.busy,
		Error:    c.lastError,
	}
	if v.Messages == nil {
		v.Messages = []Message{}
	}
	if c.hasOpen {
		id := c.selected
		v.ConversationID = &id
	}
	return v
}

func (c *Controller) publishLocked() {
	if c.pub == nil {
		return
	}
	c.pub.Publish(c.workspaceID, Event{Type: EventConversationUpdated, Payload: c.viewLocked()})
}

func failureReason(err error) string {
	var remote *apperror.RemoteRequestError
	if errors.As(err, &remote) {
		return remote.Message()
	}
	return err.Error()
}
