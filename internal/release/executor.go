package release

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"roomrelease/pkg/logger"
	"roomrelease/pkg/model"
)

const (
	alertTitle    = "Room released"
	alertDuration = 5 * time.Second
)

// Request describes one release attempt. FeedbackID is the prompt to clear
// before mutating, empty when no prompt is on screen.
type Request struct {
	BookingID  string
	Trigger    model.ReleaseTrigger
	FeedbackID string
}

// Executor performs the decline+delete against the booking system, exactly
// once per countdown instance. The controller guarantees at most one
// invocation is in flight at a time.
type Executor struct {
	log      *logger.Logger
	bookings BookingAPI
	ui       UserInterface
	sinks    []OutcomeSink
}

func NewExecutor(bookings BookingAPI, ui UserInterface, log *logger.Logger, sinks ...OutcomeSink) *Executor {
	return &Executor{
		log:      log,
		bookings: bookings,
		ui:       ui,
		sinks:    sinks,
	}
}

// Release runs the full release sequence for req.BookingID. It never returns
// an error: every failure mode is folded into the outcome, and no outcome
// escalates to the caller as a panic or crash.
func (e *Executor) Release(ctx context.Context, req Request) model.ReleaseOutcome {
	// Presentation cleanup. Best-effort, non-critical: a failure here must
	// not stop the release.
	if err := e.ui.ClearPrompt(ctx, req.FeedbackID); err != nil {
		e.log.Debug("prompt clear failed", "booking_id", req.BookingID, "error", err)
	}
	if err := e.ui.ClosePanel(ctx); err != nil {
		e.log.Debug("panel close failed", "booking_id", req.BookingID, "error", err)
	}

	// The world may have changed between countdown start and now: a new
	// meeting may have started or the booking may already be gone. Releasing
	// anything but the booking the countdown was started for is never safe.
	current, err := e.bookings.CurrentID(ctx)
	if err != nil {
		e.log.Warn("current booking query failed, aborting release",
			"booking_id", req.BookingID, "error", err)
		return e.finish(ctx, model.Failed(req.BookingID, fmt.Sprintf("current booking query: %v", err)), req.Trigger, nil)
	}
	if current != req.BookingID {
		e.log.Info("booking no longer current, aborting release",
			"booking_id", req.BookingID, "current_id", current)
		return e.finish(ctx, model.AbortedStale(req.BookingID), req.Trigger, nil)
	}

	details, err := e.bookings.Details(ctx, req.BookingID)
	if err != nil {
		e.log.Warn("booking details unavailable, aborting release",
			"booking_id", req.BookingID, "error", err)
		return e.finish(ctx, model.AbortedIncomplete(req.BookingID), req.Trigger, nil)
	}
	if details == nil || details.MeetingID == "" {
		e.log.Warn("booking has no meeting identifier, aborting release",
			"booking_id", req.BookingID)
		return e.finish(ctx, model.AbortedIncomplete(req.BookingID), req.Trigger, details)
	}

	// Decline before delete: a delete without a prior decline can leave the
	// organizer's copy inconsistent depending on the calendar backend.
	if err := e.bookings.RespondDecline(ctx, details.MeetingID); err != nil {
		e.log.Error("decline failed",
			"booking_id", req.BookingID, "meeting_id", details.MeetingID, "error", err)
		return e.finish(ctx, model.Failed(req.BookingID, fmt.Sprintf("decline meeting: %v", err)), req.Trigger, details)
	}
	if err := e.bookings.Delete(ctx, details.MeetingID); err != nil {
		e.log.Error("delete failed",
			"booking_id", req.BookingID, "meeting_id", details.MeetingID, "error", err)
		return e.finish(ctx, model.Failed(req.BookingID, fmt.Sprintf("delete booking: %v", err)), req.Trigger, details)
	}

	e.log.Info("booking released",
		"booking_id", req.BookingID, "meeting_id", details.MeetingID, "trigger", string(req.Trigger))

	// Best-effort, non-critical success notification.
	text := fmt.Sprintf("The booking %q has been released.", details.Title)
	if err := e.ui.ShowAlert(ctx, alertTitle, text, alertDuration); err != nil {
		e.log.Debug("success alert failed", "booking_id", req.BookingID, "error", err)
	}

	return e.finish(ctx, model.Released(req.BookingID), req.Trigger, details)
}

func (e *Executor) finish(ctx context.Context, outcome model.ReleaseOutcome, trigger model.ReleaseTrigger, booking *model.BookingRef) model.ReleaseOutcome {
	record := model.ReleaseRecord{
		ID:         uuid.NewString(),
		Outcome:    outcome.Kind,
		Trigger:    trigger,
		BookingID:  outcome.BookingID,
		Booking:    booking,
		Reason:     outcome.Reason,
		OccurredAt: time.Now().UTC(),
	}
	for _, sink := range e.sinks {
		sink.RecordOutcome(ctx, record)
	}
	return outcome
}
