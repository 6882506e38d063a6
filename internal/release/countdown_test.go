package release

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"roomrelease/pkg/logger"
	"roomrelease/pkg/model"
)

// Mock UI for testing
type mockUI struct {
	mu           sync.Mutex
	prompts      []ConfirmPrompt
	cleared      []string
	panelClosed  int
	alerts       []string
	promptErr    error
	promptF      func(prompt ConfirmPrompt) error
	clearPromptF func(feedbackID string) error
}

func (m *mockUI) ShowConfirmPrompt(_ context.Context, prompt ConfirmPrompt) error {
	m.mu.Lock()
	if m.promptErr != nil {
		m.mu.Unlock()
		return m.promptErr
	}
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	// Called outside the mutex so the hook can drive the controller.
	if m.promptF != nil {
		return m.promptF(prompt)
	}
	return nil
}

func (m *mockUI) ClearPrompt(_ context.Context, feedbackID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clearPromptF != nil {
		return m.clearPromptF(feedbackID)
	}
	m.cleared = append(m.cleared, feedbackID)
	return nil
}

func (m *mockUI) ClosePanel(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panelClosed++
	return nil
}

func (m *mockUI) ShowAlert(_ context.Context, title, _ string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts = append(m.alerts, title)
	return nil
}

func (m *mockUI) clearedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cleared)
}

func (m *mockUI) promptCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

func (m *mockUI) lastPrompt() ConfirmPrompt {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prompts[len(m.prompts)-1]
}

// Mock releaser for testing
type mockReleaser struct {
	mu       sync.Mutex
	requests []Request
	outcome  model.ReleaseOutcome
}

func (m *mockReleaser) Release(_ context.Context, req Request) model.ReleaseOutcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	out := m.outcome
	if out.Kind == "" {
		out = model.Released(req.BookingID)
	}
	return out
}

func (m *mockReleaser) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// newTestController uses an hour-long tick interval so the background timer
// never fires during a test; ticks are driven by hand.
func newTestController(releaser Releaser, ui UserInterface, total int) *Controller {
	return NewController(releaser, ui, total, time.Hour, logger.Discard())
}

func (c *Controller) currentSession() *session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess
}

func TestStartShowsInitialPrompt(t *testing.T) {
	ui := &mockUI{}
	releaser := &mockReleaser{}
	c := newTestController(releaser, ui, 180)

	c.Start("B1")

	if got := ui.promptCount(); got != 1 {
		t.Fatalf("expected 1 prompt after start, got %d", got)
	}
	prompt := ui.lastPrompt()
	if !strings.Contains(prompt.Text, "3m 0s") {
		t.Errorf("expected initial prompt to show '3m 0s', got %q", prompt.Text)
	}
	if len(prompt.Options) != 2 || prompt.Options[0].ID != OptionRelease || prompt.Options[1].ID != OptionKeep {
		t.Errorf("unexpected prompt options: %+v", prompt.Options)
	}
	if prompt.FeedbackID == "" {
		t.Error("expected prompt to carry a feedback id")
	}

	st := c.Status()
	if st.State != StateCounting {
		t.Errorf("expected state counting, got %s", st.State)
	}
	if st.BookingID != "B1" {
		t.Errorf("expected booking id B1, got %s", st.BookingID)
	}
	if st.RemainingSeconds != 179 {
		t.Errorf("expected 179 remaining after initial tick, got %d", st.RemainingSeconds)
	}
}

func TestCountdownMonotonicity(t *testing.T) {
	ui := &mockUI{}
	releaser := &mockReleaser{}
	c := newTestController(releaser, ui, 3)

	c.Start("B1")
	s := c.currentSession()

	// Initial tick showed 3s. Two more ticks show 2s and 1s, each strictly
	// one lower than the last.
	for i, want := range []string{"2s", "1s"} {
		if !c.tick(s) {
			t.Fatalf("tick %d: session ended early", i)
		}
		if got := ui.lastPrompt().Text; !strings.Contains(got, want) {
			t.Errorf("tick %d: expected prompt to show %q, got %q", i, want, got)
		}
		if releaser.callCount() != 0 {
			t.Fatalf("tick %d: release fired before countdown reached zero", i)
		}
	}

	// remaining is now 0: the next tick completes, not before, not after.
	if c.tick(s) {
		t.Error("expected final tick to end the session")
	}
	if releaser.callCount() != 1 {
		t.Fatalf("expected exactly one release, got %d", releaser.callCount())
	}
	if releaser.requests[0].Trigger != model.TriggerExpiry {
		t.Errorf("expected expiry trigger, got %s", releaser.requests[0].Trigger)
	}
	if releaser.requests[0].BookingID != "B1" {
		t.Errorf("expected booking B1, got %s", releaser.requests[0].BookingID)
	}
	if st := c.Status(); st.State != StateIdle {
		t.Errorf("expected idle after completion, got %s", st.State)
	}
}

func TestDismissClearsPromptAndKeepsCounting(t *testing.T) {
	ui := &mockUI{}
	releaser := &mockReleaser{}
	c := newTestController(releaser, ui, 180)

	c.Start("B1")
	s := c.currentSession()

	c.HandleResponse(context.Background(), s.feedbackID, OptionKeep)

	if len(ui.cleared) != 1 || ui.cleared[0] != s.feedbackID {
		t.Errorf("expected prompt cleared for session feedback id, got %v", ui.cleared)
	}
	if releaser.callCount() != 0 {
		t.Error("dismiss must not release")
	}
	if st := c.Status(); st.State != StateCounting {
		t.Fatalf("expected countdown to keep running, got %s", st.State)
	}

	// Next tick keeps decrementing from where it was.
	before := c.Status().RemainingSeconds
	if !c.tick(s) {
		t.Fatal("session ended unexpectedly")
	}
	if after := c.Status().RemainingSeconds; after != before-1 {
		t.Errorf("expected remaining %d after tick, got %d", before-1, after)
	}
}

func TestConfirmReleasesImmediately(t *testing.T) {
	ui := &mockUI{}
	releaser := &mockReleaser{}
	c := newTestController(releaser, ui, 180)

	c.Start("B1")
	s := c.currentSession()

	c.HandleResponse(context.Background(), s.feedbackID, OptionRelease)

	if releaser.callCount() != 1 {
		t.Fatalf("expected one release, got %d", releaser.callCount())
	}
	if releaser.requests[0].Trigger != model.TriggerConfirm {
		t.Errorf("expected confirm trigger, got %s", releaser.requests[0].Trigger)
	}
	if st := c.Status(); st.State != StateIdle {
		t.Errorf("expected idle after confirm, got %s", st.State)
	}

	// The session's timer is gone: ticking the old session is a no-op.
	if c.tick(s) {
		t.Error("expected old session tick to be rejected")
	}
}

func TestResponseWithStaleFeedbackIDIgnored(t *testing.T) {
	ui := &mockUI{}
	releaser := &mockReleaser{}
	c := newTestController(releaser, ui, 180)

	c.Start("B1")

	c.HandleResponse(context.Background(), "not-this-session", OptionRelease)

	if releaser.callCount() != 0 {
		t.Error("response for another session must not release")
	}
	if st := c.Status(); st.State != StateCounting {
		t.Errorf("expected countdown untouched, got %s", st.State)
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	ui := &mockUI{}
	releaser := &mockReleaser{}
	c := newTestController(releaser, ui, 180)

	// Cancel with nothing running is a no-op.
	c.Cancel()
	if st := c.Status(); st.State != StateIdle {
		t.Fatalf("expected idle, got %s", st.State)
	}

	c.Start("B1")
	c.Cancel()
	c.Cancel()

	if st := c.Status(); st.State != StateIdle {
		t.Errorf("expected idle after cancel, got %s", st.State)
	}
	if releaser.callCount() != 0 {
		t.Error("cancel must not release")
	}
	if len(ui.cleared) != 1 {
		t.Errorf("expected one prompt clear, got %d", len(ui.cleared))
	}
}

func TestStartSupersedesActiveCountdown(t *testing.T) {
	ui := &mockUI{}
	releaser := &mockReleaser{}
	c := newTestController(releaser, ui, 180)

	c.Start("B1")
	old := c.currentSession()
	c.Start("B2")

	st := c.Status()
	if st.BookingID != "B2" {
		t.Fatalf("expected new countdown for B2, got %s", st.BookingID)
	}
	if st.RemainingSeconds != 179 {
		t.Errorf("expected fresh countdown, got %d remaining", st.RemainingSeconds)
	}

	// At most one countdown exists: the old session's timer path is dead.
	if c.tick(old) {
		t.Error("expected superseded session tick to be rejected")
	}
	select {
	case <-old.stop:
	default:
		t.Error("expected superseded session's timer to be stopped")
	}
}

func TestPromptFailureTearsDownSession(t *testing.T) {
	ui := &mockUI{promptErr: errors.New("ui channel unavailable")}
	releaser := &mockReleaser{}
	c := newTestController(releaser, ui, 180)

	c.Start("B1")

	// Fail closed: no invisible countdown, no release.
	if st := c.Status(); st.State != StateIdle {
		t.Errorf("expected idle after prompt failure, got %s", st.State)
	}
	if releaser.callCount() != 0 {
		t.Error("prompt failure must not release")
	}
}

func TestCancelDuringPromptRenderClearsStalePrompt(t *testing.T) {
	ui := &mockUI{}
	releaser := &mockReleaser{}
	c := newTestController(releaser, ui, 180)

	// Cancel lands while the render is in flight: the teardown's clear runs
	// before the prompt reaches the screen, so the controller must take the
	// repainted prompt down again.
	ui.promptF = func(ConfirmPrompt) error {
		c.Cancel()
		return nil
	}

	c.Start("B1")

	if st := c.Status(); st.State != StateIdle {
		t.Errorf("expected idle after cancel, got %s", st.State)
	}
	if got := ui.clearedCount(); got != 2 {
		t.Errorf("expected the repainted prompt to be cleared again, got %d clears", got)
	}
	if releaser.callCount() != 0 {
		t.Error("cancelled countdown must not release")
	}
}

func TestManualReleaseCancelsActiveCountdown(t *testing.T) {
	ui := &mockUI{}
	releaser := &mockReleaser{}
	c := newTestController(releaser, ui, 180)

	c.Start("B1")
	old := c.currentSession()

	out := c.ManualRelease(context.Background(), "B1")

	if out.Kind != model.OutcomeReleased {
		t.Fatalf("expected released outcome, got %s", out.Kind)
	}
	if releaser.callCount() != 1 {
		t.Fatalf("expected exactly one release, got %d", releaser.callCount())
	}
	if releaser.requests[0].Trigger != model.TriggerManual {
		t.Errorf("expected manual trigger, got %s", releaser.requests[0].Trigger)
	}
	if st := c.Status(); st.State != StateIdle {
		t.Errorf("expected idle after manual release, got %s", st.State)
	}
	if c.tick(old) {
		t.Error("expected cancelled session tick to be rejected")
	}
}

func TestManualReleaseWhileIdle(t *testing.T) {
	ui := &mockUI{}
	releaser := &mockReleaser{}
	c := newTestController(releaser, ui, 180)

	out := c.ManualRelease(context.Background(), "B1")

	if out.Kind != model.OutcomeReleased {
		t.Fatalf("expected released outcome, got %s", out.Kind)
	}
	if st := c.Status(); st.State != StateIdle {
		t.Errorf("expected idle, got %s", st.State)
	}
}

func TestFormatRemaining(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{180, "3m 0s"},
		{61, "1m 1s"},
		{60, "1m 0s"},
		{59, "59s"},
		{45, "45s"},
		{1, "1s"},
	}
	for _, tc := range cases {
		if got := formatRemaining(tc.seconds); got != tc.want {
			t.Errorf("formatRemaining(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}
