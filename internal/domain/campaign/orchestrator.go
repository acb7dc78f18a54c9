package campaign

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
	"leadnurture/internal/domain/lead"
	"leadnurture/internal/domain/shortlist"
	"leadnurture/internal/pkg/apperror"
	"leadnurture/internal/pkg/validator"
)

// DefaultReturnAfter is how long the presentation layer shows the success
// notice before going back to the default view.
const DefaultReturnAfter = 1500 * time.Millisecond

// Remote is the two-phase commit surface of the lead nurture API.
type Remote interface {
	CreateCampaign(ctx context.Context, cred auth.Credential, in CreateInput) (int64, error)
	TriggerNurture(ctx context.Context, cred auth.Credential, campaignID int64, leadIDs []int64) (NurtureResult, error)
}

// Recorder keeps terminal commit outcomes.
type Recorder interface {
	Record(ctx context.Context, rec CommitRecord) error
}

// Snapshot is the orchestrator state as rendered to the operator.
type Snapshot struct {
	AttemptID     string             `json:"attempt_id"`
	State         State              `json:"state"`
	Busy          bool               `json:"busy"`
	Draft         Draft              `json:"draft"`
	Channels      []Channel          `json:"channels"`
	CampaignID    *int64             `json:"campaign_id,omitempty"`
	Failure       string             `json:"failure,omitempty"`
	Messages      []GeneratedMessage `json:"messages,omitempty"`
	ReturnAfterMS int64              `json:"return_after_ms,omitempty"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// Options configure an Orchestrator.
type Options struct {
	Remote      Remote
	Journal     Recorder
	Log         zerolog.Logger
	ReturnAfter time.Duration
	WorkspaceID string
	Username    string
}

// Orchestrator drives one draft through create-campaign followed by
// trigger-nurture. The second call is only issued after the first returned
// a campaign id, and only one attempt is in flight at a time.
type Orchestrator struct {
	mu          sync.Mutex
	remote      Remote
	journal     Recorder
	log         zerolog.Logger
	returnAfter time.Duration
	workspaceID string
	username    string
	now         func() time.Time

	attemptID  string
	state      State
	busy       bool
	draft      Draft
	campaignID *int64
	failure    string
	messages   []GeneratedMessage
	updatedAt  time.Time
}

func NewOrchestrator(opts Options) *Orchestrator {
	returnAfter := opts.ReturnAfter
	if returnAfter <= 0 {
		returnAfter = DefaultReturnAfter
	}
	o := &Orchestrator{
		remote:      opts.Remote,
		journal:     opts.Journal,
		log:         opts.Log.With().Str("component", "campaign").Str("workspace_id", opts.WorkspaceID).Logger(),
		returnAfter: returnAfter,
		workspaceID: opts.WorkspaceID,
		username:    opts.Username,
		now:         time.Now,
	}
	o.resetLocked(shortlist.Payload{})
	return o
}

// ReturnAfter is the delay before the view returns to its default after a
// successful commit.
func (o *Orchestrator) ReturnAfter() time.Duration {
	return o.returnAfter
}

// Reset starts a new draft from a consumed shortlist. An empty payload
// gives an empty draft that cannot be submitted until leads are present.
func (o *Orchestrator) Reset(p shortlist.Payload) (Snapshot, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.busy {
		return o.snapshotLocked(), ErrSubmitInFlight
	}
	o.resetLocked(p)
	return o.snapshotLocked(), nil
}

// Edit applies operator changes. Editing a failed draft moves it back to
// Draft; nothing can be edited once a campaign exists remotely.
func (o *Orchestrator) Edit(patch DraftPatch) (Snapshot, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.busy || (o.state != StateDraft && o.state != StateFailed) {
		return o.snapshotLocked(), ErrNotEditable
	}
	patch.Apply(&o.draft)
	if o.state == StateFailed {
		o.state = StateDraft
		o.failure = ""
	}
	o.updatedAt = o.now()
	return o.snapshotLocked(), nil
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

// Submit validates the draft and commits it. A create failure leaves the
// orchestrator in Failed with the server reason; a nurture failure after a
// successful create yields a PartialCommitError and keeps the campaign id
// for RetryNurture. Submitting a Failed draft first returns it to Draft,
// the same step Edit takes, so every attempt starts from Draft.
func (o *Orchestrator) Submit(ctx context.Context, cred auth.Credential) (Snapshot, error) {
	o.mu.Lock()
	if o.busy {
		snap := o.snapshotLocked()
		o.mu.Unlock()
		return snap, ErrSubmitInFlight
	}
	if o.state != StateDraft && o.state != StateFailed {
		snap := o.snapshotLocked()
		o.mu.Unlock()
		return snap, ErrNotSubmittable
	}
	if o.state == StateFailed {
		o.state = StateDraft
		o.failure = ""
		o.updatedAt = o.now()
	}

	draft := normalizeDraft(o.draft)
	if fields := validator.Validate(&draft); fields != nil {
		snap := o.snapshotLocked()
		o.mu.Unlock()
		return snap, apperror.NewValidation("campaign draft is incomplete", fields)
	}

	o.draft = draft
	o.attemptID = uuid.NewString()
	o.state = StateSubmitting
	o.busy = true
	o.failure = ""
	o.campaignID = nil
	o.messages = nil
	o.updatedAt = o.now()
	attempt := o.attemptID
	o.mu.Unlock()

	// the commit runs to completion even if the caller goes away
	ctx = context.WithoutCancel(ctx)

	id, err := o.remote.CreateCampaign(ctx, cred, CreateInput{
		Name:              draft.Name,
		ProjectName:       draft.ProjectName,
		SalesOfferDetails: draft.SalesOfferDetails,
		Channel:           draft.Channel,
		LeadIDs:           draft.LeadIDs(),
	})
	if err != nil {
		reason := failureReason(err)
		o.mu.Lock()
		o.state = StateFailed
		o.busy = false
		o.failure = reason
		o.updatedAt = o.now()
		snap := o.snapshotLocked()
		o.mu.Unlock()

		o.log.Warn().Err(err).Str("attempt_id", attempt).Msg("create campaign failed")
		o.record(ctx, attempt, draft, nil, OutcomeFailed, reason)
		return snap, err
	}

	o.mu.Lock()
	o.state = StateCampaignCreated
	o.campaignID = &id
	o.updatedAt = o.now()
	o.mu.Unlock()

	o.log.Info().Str("attempt_id", attempt).Int64("campaign_id", id).Msg("campaign created")
	return o.trigger(ctx, cred, attempt, draft, id)
}

// RetryNurture re-issues the trigger for a campaign that was created but
// never nurtured. It is only valid from that partial state.
func (o *Orchestrator) RetryNurture(ctx context.Context, cred auth.Credential) (Snapshot, error) {
	o.mu.Lock()
	if o.busy {
		snap := o.snapshotLocked()
		o.mu.Unlock()
		return snap, ErrSubmitInFlight
	}
	if o.state != StateCampaignCreated || o.campaignID == nil {
		snap := o.snapshotLocked()
		o.mu.Unlock()
		return snap, ErrNoPartialCommit
	}
	o.busy = true
	o.failure = ""
	o.updatedAt = o.now()
	id := *o.campaignID
	attempt := o.attemptID
	draft := o.draft
	o.mu.Unlock()

	return o.trigger(context.WithoutCancel(ctx), cred, attempt, draft, id)
}

func (o *Orchestrator) trigger(ctx context.Context, cred auth.Credential, attempt string, draft Draft, id int64) (Snapshot, error) {
	result, err := o.remote.TriggerNurture(ctx, cred, id, draft.LeadIDs())

	o.mu.Lock()
	o.busy = false
	o.updatedAt = o.now()
	if err != nil {
		reason := failureReason(err)
		o.failure = reason
		snap := o.snapshotLocked()
		o.mu.Unlock()

		o.log.Warn().Err(err).Str("attempt_id", attempt).Int64("campaign_id", id).Msg("nurture trigger failed, campaign left without outreach")
		o.record(ctx, attempt, draft, &id, OutcomePartial, reason)
		return snap, &apperror.PartialCommitError{CampaignID: id, Err: err}
	}
	o.state = StateNurtureTriggered
	o.failure = ""
	o.messages = result.Messages
	snap := o.snapshotLocked()
	o.mu.Unlock()

	o.log.Info().
		Str("attempt_id", attempt).
		Int64("campaign_id", id).
		Int("messages", len(result.Messages)).
		Msg("nurture triggered")
	o.record(ctx, attempt, draft, &id, OutcomeNurtured, "")
	return snap, nil
}

func (o *Orchestrator) record(ctx context.Context, attempt string, draft Draft, campaignID *int64, outcome Outcome, reason string) {
	if o.journal == nil {
		return
	}
	err := o.journal.Record(ctx, CommitRecord{
		AttemptID:   attempt,
		WorkspaceID: o.workspaceID,
		Username:    o.username,
		Name:        draft.Name,
		ProjectName: draft.ProjectName,
		Channel:     string(draft.Channel),
		LeadCount:   len(draft.Leads),
		CampaignID:  campaignID,
		Outcome:     outcome,
		Reason:      reason,
	})
	if err != nil {
		o.log.Error().Err(err).Str("attempt_id", attempt).Msg("journal commit outcome")
	}
}

func (o *Orchestrator) resetLocked(p shortlist.Payload) {
	projects := p.Projects
	if len(projects) == 0 && len(p.Leads) > 0 {
		projects = lead.DistinctProjects(p.Leads)
	}
	leads := slices.Clone(p.Leads)
	if leads == nil {
		leads = []lead.Lead{}
	}
	projects = slices.Clone(projects)
	if projects == nil {
		projects = []string{}
	}

	draft := Draft{Channel: ChannelEmail, Leads: leads, Projects: projects}
	if len(projects) > 0 {
		draft.ProjectName = projects[0]
	}

	o.attemptID = uuid.NewString()
	o.state = StateDraft
	o.busy = false
	o.draft = draft
	o.campaignID = nil
	o.failure = ""
	o.messages = nil
	o.updatedAt = o.now()
}

func (o *Orchestrator) snapshotLocked() Snapshot {
	snap := Snapshot{
		AttemptID: o.attemptID,
		State:     o.state,
		Busy:      o.busy,
		Draft:     cloneDraft(o.draft),
		Channels:  slices.Clone(ChannelOptions),
		Failure:   o.failure,
		Messages:  slices.Clone(o.messages),
		UpdatedAt: o.updatedAt,
	}
	if o.campaignID != nil {
		id := *o.campaignID
		snap.CampaignID = &id
	}
	if o.state == StateNurtureTriggered {
		snap.ReturnAfterMS = o.returnAfter.Milliseconds()
	}
	return snap
}

func cloneDraft(d Draft) Draft {
	d.Leads = slices.Clone(d.Leads)
	d.Projects = slices.Clone(d.Projects)
	return d
}

func normalizeDraft(d Draft) Draft {
	d = cloneDraft(d)
	d.Name = strings.TrimSpace(d.Name)
	d.ProjectName = strings.TrimSpace(d.ProjectName)
	d.SalesOfferDetails = strings.TrimSpace(d.SalesOfferDetails)
	if d.Channel == "" {
		d.Channel = ChannelEmail
	}
	return d
}

func failureReason(err error) string {
	var remote *apperror.RemoteRequestError
	if errors.As(err, &remote) {
		return remote.Message()
	}
	return err.Error()
}
