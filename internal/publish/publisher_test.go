package publish

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"spacebook/internal/model"
	"spacebook/internal/store/draftdb"
)

type fakeGateway struct {
	mu    sync.Mutex
	calls []struct{ UserID, Text string }
	err   error
}

func (g *fakeGateway) CreatePost(ctx context.Context, userID, text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	g.calls = append(g.calls, struct{ UserID, Text string }{userID, text})
	return nil
}

func (g *fakeGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func (g *fakeGateway) lastCall(t *testing.T) struct{ UserID, Text string } {
	t.Helper()
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.calls) == 0 {
		t.Fatal("no gateway calls recorded")
	}
	return g.calls[len(g.calls)-1]
}

func newTestPublisher(t *testing.T) (*Publisher, *draftdb.DB, *fakeGateway) {
	t.Helper()
	db, err := draftdb.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	gw := &fakeGateway{}
	return New(db, gw), db, gw
}

func waitDone(t *testing.T, j *Job) {
	t.Helper()
	select {
	case <-j.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("job did not finish")
	}
}

func TestZeroDelayFiresOnceWithDraftText(t *testing.T) {
	pub, db, gw := newTestPublisher(t)
	ctx := context.Background()
	d, _ := db.SaveDraft(ctx, "u1", "Hello world")

	job, err := pub.Schedule(ctx, d.ID, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	waitDone(t, job)
	if err := job.Err(); err != nil {
		t.Fatal(err)
	}
	if job.State() != model.JobFiredSuccess {
		t.Fatalf("expected fired-success, got %s", job.State())
	}
	if gw.callCount() != 1 {
		t.Fatalf("expected exactly one submit, got %d", gw.callCount())
	}
	call := gw.lastCall(t)
	if call.UserID != "u1" || call.Text != "Hello world" {
		t.Fatalf("unexpected call %+v", call)
	}
	drafts, _ := db.ListDrafts(ctx, "u1")
	if len(drafts) != 0 {
		t.Fatalf("expected draft removed after publish, got %+v", drafts)
	}
}

func TestFailedSubmitPreservesDraft(t *testing.T) {
	pub, db, gw := newTestPublisher(t)
	ctx := context.Background()
	d, _ := db.SaveDraft(ctx, "u1", "keep me")
	gw.err = &model.PublishError{Endpoint: "/user/u1/post", StatusCode: 500}

	job, err := pub.Schedule(ctx, d.ID, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	waitDone(t, job)
	if job.State() != model.JobFiredFailure {
		t.Fatalf("expected fired-failure, got %s", job.State())
	}
	var pe *model.PublishError
	if !errors.As(job.Err(), &pe) {
		t.Fatalf("expected PublishError, got %v", job.Err())
	}
	drafts, _ := db.ListDrafts(ctx, "u1")
	if len(drafts) != 1 || drafts[0].ID != d.ID {
		t.Fatalf("draft must survive a failed publish, got %+v", drafts)
	}
}

func TestAuthFailureIsDistinctAndPreservesDraft(t *testing.T) {
	pub, db, gw := newTestPublisher(t)
	ctx := context.Background()
	d, _ := db.SaveDraft(ctx, "u1", "keep me")
	gw.err = &model.AuthError{Endpoint: "/user/u1/post"}

	job, _ := pub.Schedule(ctx, d.ID, "", 0)
	waitDone(t, job)
	if !model.IsAuth(job.Err()) {
		t.Fatalf("expected AuthError, got %v", job.Err())
	}
	drafts, _ := db.ListDrafts(ctx, "u1")
	if len(drafts) != 1 {
		t.Fatalf("draft must survive an auth failure, got %+v", drafts)
	}
}

func TestOverrideTextSupersedesDraftText(t *testing.T) {
	pub, db, gw := newTestPublisher(t)
	ctx := context.Background()
	d, _ := db.SaveDraft(ctx, "u1", "original")

	job, err := pub.Schedule(ctx, d.ID, "edited version", 0)
	if err != nil {
		t.Fatal(err)
	}
	waitDone(t, job)
	if err := job.Err(); err != nil {
		t.Fatal(err)
	}
	if got := gw.lastCall(t).Text; got != "edited version" {
		t.Fatalf("expected override text submitted, got %q", got)
	}
	// The deleted row is the original draft entry.
	if _, err := db.GetDraft(ctx, d.ID); !errors.Is(err, model.ErrDraftNotFound) {
		t.Fatalf("expected original draft removed, got %v", err)
	}
}

func TestScheduleMissingDraft(t *testing.T) {
	pub, _, _ := newTestPublisher(t)
	if _, err := pub.Schedule(context.Background(), 404, "", 0); !errors.Is(err, model.ErrDraftNotFound) {
		t.Fatalf("expected ErrDraftNotFound, got %v", err)
	}
}

func TestCancelPreventsPublish(t *testing.T) {
	pub, db, gw := newTestPublisher(t)
	ctx := context.Background()
	d, _ := db.SaveDraft(ctx, "u1", "never posted")

	job, err := pub.Schedule(ctx, d.ID, "", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	job.Cancel()
	job.Cancel() // repeat cancel is a no-op
	waitDone(t, job)
	if job.State() != model.JobCanceled {
		t.Fatalf("expected canceled, got %s", job.State())
	}
	if gw.callCount() != 0 {
		t.Fatalf("canceled job must not submit, got %d calls", gw.callCount())
	}
	drafts, _ := db.ListDrafts(ctx, "u1")
	if len(drafts) != 1 {
		t.Fatalf("canceled job must not delete the draft, got %+v", drafts)
	}
}

func TestCancelAfterFireIsNoop(t *testing.T) {
	pub, db, gw := newTestPublisher(t)
	ctx := context.Background()
	d, _ := db.SaveDraft(ctx, "u1", "posted")

	job, _ := pub.Schedule(ctx, d.ID, "", 0)
	waitDone(t, job)
	job.Cancel()
	if job.State() != model.JobFiredSuccess {
		t.Fatalf("cancel after fire must not change state, got %s", job.State())
	}
	if gw.callCount() != 1 {
		t.Fatalf("expected one submit, got %d", gw.callCount())
	}
}

// A manual delete racing an armed job must never reroute the job to a
// different draft: jobs hold stable IDs, not positions.
func TestConcurrentDeleteDoesNotRerouteJob(t *testing.T) {
	pub, db, gw := newTestPublisher(t)
	ctx := context.Background()
	a, _ := db.SaveDraft(ctx, "u1", "A")
	b, _ := db.SaveDraft(ctx, "u1", "B")

	job, err := pub.Schedule(ctx, b.ID, "", 20*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	// Delete A while the job for B is pending.
	if err := db.DeleteDraft(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	waitDone(t, job)
	if err := job.Err(); err != nil {
		t.Fatal(err)
	}
	if got := gw.lastCall(t).Text; got != "B" {
		t.Fatalf("job published wrong draft: %q", got)
	}
	drafts, _ := db.ListDrafts(ctx, "u1")
	if len(drafts) != 0 {
		t.Fatalf("expected both drafts gone (A manually, B by publish), got %+v", drafts)
	}
}

// If the job's own draft is deleted before the timer fires, the job
// fails cleanly instead of publishing stale text or deleting another row.
func TestStaleJobFailsWithoutSideEffects(t *testing.T) {
	pub, db, gw := newTestPublisher(t)
	ctx := context.Background()
	a, _ := db.SaveDraft(ctx, "u1", "A")
	b, _ := db.SaveDraft(ctx, "u1", "B")

	job, err := pub.Schedule(ctx, b.ID, "", 20*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.DeleteDraft(ctx, b.ID); err != nil {
		t.Fatal(err)
	}
	waitDone(t, job)
	if !errors.Is(job.Err(), model.ErrDraftNotFound) {
		t.Fatalf("expected ErrDraftNotFound, got %v", job.Err())
	}
	if gw.callCount() != 0 {
		t.Fatalf("stale job must not submit, got %d calls", gw.callCount())
	}
	drafts, _ := db.ListDrafts(ctx, "u1")
	if len(drafts) != 1 || drafts[0].ID != a.ID {
		t.Fatalf("unrelated draft must survive, got %+v", drafts)
	}
}

func TestEndToEndScenario(t *testing.T) {
	pub, db, gw := newTestPublisher(t)
	ctx := context.Background()

	d, err := db.SaveDraft(ctx, "u1", "Hello world")
	if err != nil {
		t.Fatal(err)
	}
	drafts, _ := db.ListDrafts(ctx, "u1")
	if len(drafts) != 1 || drafts[0].Text != "Hello world" {
		t.Fatalf("unexpected drafts %+v", drafts)
	}

	delay, err := ParseDelay("0", "0", "0")
	if err != nil {
		t.Fatal(err)
	}
	job, err := pub.Schedule(ctx, d.ID, "", delay)
	if err != nil {
		t.Fatal(err)
	}
	waitDone(t, job)
	if err := job.Err(); err != nil {
		t.Fatal(err)
	}
	drafts, _ = db.ListDrafts(ctx, "u1")
	if len(drafts) != 0 {
		t.Fatalf("expected no drafts after publish, got %+v", drafts)
	}
	if gw.callCount() != 1 || gw.lastCall(t).Text != "Hello world" {
		t.Fatalf("expected one submit with draft text, got %+v", gw.calls)
	}
}
