package publish

import (
	"context"
	"errors"
	"sync"
	"time"

	"spacebook/internal/api"
	"spacebook/internal/logging"
	"spacebook/internal/metrics"
	"spacebook/internal/model"
	"spacebook/internal/store/draftdb"
)

// Publisher arms one-shot jobs that push a draft to the post gateway
// after a delay and remove the draft on confirmed success.
//
// Jobs capture the draft's stable ID, never its position in a
// listing. At fire time the draft is re-read by ID, so a manual
// delete racing an armed job makes the job fail cleanly instead of
// publishing or deleting the wrong draft.
type Publisher struct {
	db      *draftdb.DB
	gateway api.Gateway
}

func New(db *draftdb.DB, gateway api.Gateway) *Publisher {
	return &Publisher{db: db, gateway: gateway}
}

// Job is a scheduled publish. It fires at most once; Cancel before
// the timer fires prevents the publish, after is a no-op.
type Job struct {
	DraftID      int64
	OverrideText string

	timer *time.Timer
	done  chan struct{}

	mu     sync.Mutex
	state  model.JobState
	firing bool
	err    error
}

// State returns the job's current lifecycle state.
func (j *Job) State() model.JobState {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// Err returns the publish error once the job is done, nil otherwise.
func (j *Job) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

// Done is closed when the job reaches a terminal state.
func (j *Job) Done() <-chan struct{} { return j.done }

// Cancel prevents the publish if the timer has not fired yet. It is
// safe to call concurrently with the timer firing and safe to call
// more than once.
func (j *Job) Cancel() {
	j.mu.Lock()
	if j.state != model.JobArmed || j.firing {
		j.mu.Unlock()
		return
	}
	j.state = model.JobCanceled
	j.mu.Unlock()
	j.timer.Stop()
	close(j.done)
	logging.Info("job_canceled", map[string]any{"draft_id": j.DraftID})
}

// begin claims the fire. Exactly one of begin/Cancel wins; a Cancel
// that loses the race becomes a no-op.
func (j *Job) begin() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state != model.JobArmed || j.firing {
		return false
	}
	j.firing = true
	return true
}

func (j *Job) finish(err error) {
	j.mu.Lock()
	if err != nil {
		j.state = model.JobFiredFailure
	} else {
		j.state = model.JobFiredSuccess
	}
	j.err = err
	j.mu.Unlock()
	close(j.done)
}

// Schedule validates that the draft exists, then arms a one-shot
// timer for it. If overrideText is non-empty it supersedes the stored
// draft text for this one publish; the stored draft is untouched
// until a successful publish deletes it.
func (p *Publisher) Schedule(ctx context.Context, draftID int64, overrideText string, delay time.Duration) (*Job, error) {
	if delay < 0 {
		return nil, &model.ValidationError{Field: "delay", Message: "must not be negative"}
	}
	if _, err := p.db.GetDraft(ctx, draftID); err != nil {
		return nil, err
	}
	j := &Job{
		DraftID:      draftID,
		OverrideText: overrideText,
		done:         make(chan struct{}),
		state:        model.JobArmed,
	}
	j.timer = time.AfterFunc(delay, func() {
		p.fire(j)
	})
	logging.Info("job_armed", map[string]any{"draft_id": draftID, "delay": delay.String()})
	return j, nil
}

func (p *Publisher) fire(j *Job) {
	if !j.begin() {
		return
	}
	err := p.PublishAndRemove(context.Background(), j.DraftID, j.OverrideText)
	if err != nil {
		logging.Error("job_publish_failed", map[string]any{"draft_id": j.DraftID, "error": err.Error()})
	} else {
		logging.Info("job_published", map[string]any{"draft_id": j.DraftID})
	}
	j.finish(err)
}

// PublishAndRemove submits the draft's text (or the override) to the
// gateway and deletes the draft only after a confirmed success. On
// any submit failure the draft is preserved for manual retry.
func (p *Publisher) PublishAndRemove(ctx context.Context, draftID int64, overrideText string) error {
	start := time.Now()
	metrics.PublishRuns.Inc()
	draft, err := p.db.GetDraft(ctx, draftID)
	if err != nil {
		metrics.PublishErrors.Inc()
		return err
	}
	text := draft.Text
	if overrideText != "" {
		text = overrideText
	}
	if err := p.gateway.CreatePost(ctx, draft.UserID, text); err != nil {
		metrics.PublishErrors.Inc()
		return err
	}
	metrics.ObservePublishDuration(start)
	if err := p.db.DeleteDraft(ctx, draftID); err != nil && !errors.Is(err, model.ErrDraftNotFound) {
		// the post went out; a failed local delete is a store problem,
		// not a publish failure
		logging.Error("draft_delete_after_publish", map[string]any{"draft_id": draftID, "error": err.Error()})
		return err
	}
	return nil
}
