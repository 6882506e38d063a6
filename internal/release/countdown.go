package release

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"roomrelease/pkg/logger"
	"roomrelease/pkg/model"
)

// State of the countdown controller.
type State string

const (
	StateIdle       State = "idle"
	StateCounting   State = "counting"
	StateCompleting State = "completing"
)

const (
	promptTitle = "Room release"

	// Prompt option identifiers. Anything other than OptionRelease dismisses
	// the prompt without releasing.
	OptionRelease = 1
	OptionKeep    = 2
)

// session is the single in-flight confirmation instance. It is owned
// exclusively by the Controller; nothing outside this file reads or mutates
// its fields.
type session struct {
	bookingID  string
	feedbackID string
	remaining  int
	stop       chan struct{}
}

// Controller owns the countdown state machine: at most one session exists at
// any time, every path out of Counting stops the ticker, and all entry points
// are serialized on one mutex so ticks and responses are totally ordered.
type Controller struct {
	log          *logger.Logger
	ui           UserInterface
	executor     Releaser
	total        int
	tickInterval time.Duration

	mu    sync.Mutex
	state State
	sess  *session
}

func NewController(executor Releaser, ui UserInterface, totalSeconds int, tickInterval time.Duration, log *logger.Logger) *Controller {
	return &Controller{
		log:          log,
		ui:           ui,
		executor:     executor,
		total:        totalSeconds,
		tickInterval: tickInterval,
		state:        StateIdle,
	}
}

// Status is a read-only snapshot for the status API.
type Status struct {
	State            State  `json:"state"`
	BookingID        string `json:"booking_id,omitempty"`
	RemainingSeconds int    `json:"remaining_seconds,omitempty"`
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := Status{State: c.state}
	if c.sess != nil {
		st.BookingID = c.sess.bookingID
		st.RemainingSeconds = c.sess.remaining
	}
	return st
}

// Start begins a countdown for bookingID. An already-active session is
// superseded: cancelled first, then the new one started.
func (c *Controller) Start(bookingID string) {
	c.mu.Lock()
	if c.sess != nil {
		c.log.Info("superseding active countdown",
			"old_booking_id", c.sess.bookingID, "booking_id", bookingID)
		c.teardownLocked(true)
	}
	s := &session{
		bookingID:  bookingID,
		feedbackID: uuid.NewString(),
		remaining:  c.total,
		stop:       make(chan struct{}),
	}
	c.sess = s
	c.state = StateCounting
	c.mu.Unlock()

	c.log.Info("countdown started",
		"booking_id", bookingID, "total_seconds", c.total, "feedback_id", s.feedbackID)

	// One immediate tick so the prompt shows right away, then one per
	// interval until the session ends.
	if !c.tick(s) {
		return
	}
	go c.run(s)
}

func (c *Controller) run(s *session) {
	t := time.NewTicker(c.tickInterval)
	defer t.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-t.C:
			if !c.tick(s) {
				return
			}
		}
	}
}

// tick advances the countdown by one step. Returns false once the session is
// over (expired, failed, or superseded) so the timer loop exits.
func (c *Controller) tick(s *session) bool {
	c.mu.Lock()
	if c.sess != s {
		// Superseded or cancelled between timer fire and lock acquisition.
		c.mu.Unlock()
		return false
	}
	if s.remaining <= 0 {
		c.teardownLocked(false)
		c.state = StateCompleting
		c.mu.Unlock()
		c.log.Info("countdown expired", "booking_id", s.bookingID)
		c.execute(context.Background(), s.bookingID, s.feedbackID, model.TriggerExpiry)
		return false
	}
	remaining := s.remaining
	s.remaining--
	c.mu.Unlock()

	prompt := ConfirmPrompt{
		Title:      promptTitle,
		Text:       promptText(remaining),
		FeedbackID: s.feedbackID,
		Options: []PromptOption{
			{ID: OptionRelease, Label: "Yes"},
			{ID: OptionKeep, Label: "No"},
		},
	}
	if err := c.ui.ShowConfirmPrompt(context.Background(), prompt); err != nil {
		// Fail closed: never keep counting down with no visible prompt.
		c.log.Error("confirmation prompt failed, abandoning countdown",
			"booking_id", s.bookingID, "error", err)
		c.mu.Lock()
		if c.sess == s {
			c.teardownLocked(false)
		}
		c.mu.Unlock()
		return false
	}

	// The session may have been cancelled or superseded while the render was
	// in flight; that teardown already cleared the prompt, so the render just
	// repainted a dead one. Take it back down.
	c.mu.Lock()
	alive := c.sess == s
	c.mu.Unlock()
	if !alive {
		if err := c.ui.ClearPrompt(context.Background(), s.feedbackID); err != nil {
			c.log.Debug("prompt clear failed", "booking_id", s.bookingID, "error", err)
		}
		return false
	}
	return true
}

// Cancel stops any active countdown without releasing. Safe to call when
// idle; used by the panel's cancel control and by panel close.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		return
	}
	c.log.Info("countdown cancelled", "booking_id", c.sess.bookingID)
	c.teardownLocked(true)
}

// HandleResponse processes a prompt answer. Responses whose feedback id does
// not match the live session are ignored: they belong to an already-ended or
// superseded countdown.
func (c *Controller) HandleResponse(ctx context.Context, feedbackID string, optionID int) {
	c.mu.Lock()
	s := c.sess
	if s == nil || s.feedbackID != feedbackID {
		c.mu.Unlock()
		return
	}

	if optionID == OptionRelease {
		c.teardownLocked(false)
		c.state = StateCompleting
		c.mu.Unlock()
		c.log.Info("release confirmed by user", "booking_id", s.bookingID)
		c.execute(ctx, s.bookingID, s.feedbackID, model.TriggerConfirm)
		return
	}

	// User kept the room for now. The prompt goes away but the countdown
	// keeps running in the background; the next tick re-displays it.
	c.log.Info("release dismissed by user",
		"booking_id", s.bookingID, "remaining_seconds", s.remaining)
	if err := c.ui.ClearPrompt(ctx, s.feedbackID); err != nil {
		c.log.Debug("prompt clear failed", "booking_id", s.bookingID, "error", err)
	}
	c.mu.Unlock()
}

// ManualRelease handles the panel's release control. Any active countdown is
// cancelled first so two release attempts can never run for different
// sessions.
func (c *Controller) ManualRelease(ctx context.Context, bookingID string) model.ReleaseOutcome {
	c.mu.Lock()
	feedbackID := ""
	if c.sess != nil {
		c.log.Info("manual release cancels active countdown",
			"countdown_booking_id", c.sess.bookingID, "booking_id", bookingID)
		feedbackID = c.sess.feedbackID
		c.teardownLocked(false)
	}
	c.state = StateCompleting
	c.mu.Unlock()

	return c.execute(ctx, bookingID, feedbackID, model.TriggerManual)
}

// execute invokes the release executor and returns the controller to Idle
// once the attempt finishes, whatever the outcome. A new countdown started
// while the executor was running keeps its Counting state.
func (c *Controller) execute(ctx context.Context, bookingID, feedbackID string, trigger model.ReleaseTrigger) model.ReleaseOutcome {
	outcome := c.executor.Release(ctx, Request{
		BookingID:  bookingID,
		Trigger:    trigger,
		FeedbackID: feedbackID,
	})

	c.mu.Lock()
	if c.state == StateCompleting && c.sess == nil {
		c.state = StateIdle
	}
	c.mu.Unlock()

	c.log.Info("release attempt finished",
		"booking_id", bookingID,
		"trigger", string(trigger),
		"outcome", string(outcome.Kind),
		"reason", outcome.Reason,
	)
	return outcome
}

// teardownLocked ends the current session: the ticker goroutine is released
// and the session discarded. Caller must hold c.mu.
func (c *Controller) teardownLocked(clearPrompt bool) {
	s := c.sess
	if s == nil {
		return
	}
	close(s.stop)
	c.sess = nil
	c.state = StateIdle
	if clearPrompt {
		// Best-effort: the prompt may or may not be on screen.
		if err := c.ui.ClearPrompt(context.Background(), s.feedbackID); err != nil {
			c.log.Debug("prompt clear failed", "booking_id", s.bookingID, "error", err)
		}
	}
}

func promptText(remainingSeconds int) string {
	return fmt.Sprintf(
		"No active call on this device. Release the room booking? Auto-release in %s.",
		formatRemaining(remainingSeconds),
	)
}

// formatRemaining renders seconds as "3m 0s", omitting minutes when zero.
func formatRemaining(seconds int) string {
	m, s := seconds/60, seconds%60
	if m == 0 {
		return fmt.Sprintf("%ds", s)
	}
	return fmt.Sprintf("%dm %ds", m, s)
}
