package release

import (
	"context"
	"time"

	"roomrelease/pkg/logger"
)

// CountdownStarter is the entry point the release check hands an eligible
// booking to. Satisfied by Controller.
type CountdownStarter interface {
	Start(bookingID string)
}

// Checker decides, after a call-ended signal, whether a countdown should
// start. Every query failure along the way is logged and treated as "not
// eligible"; nothing propagates back to the signal source.
type Checker struct {
	log       *logger.Logger
	status    DeviceStatus
	bookings  BookingAPI
	countdown CountdownStarter
	settle    time.Duration
}

func NewChecker(status DeviceStatus, bookings BookingAPI, countdown CountdownStarter, settle time.Duration, log *logger.Logger) *Checker {
	return &Checker{
		log:       log,
		status:    status,
		bookings:  bookings,
		countdown: countdown,
		settle:    settle,
	}
}

// CheckForRelease evaluates release eligibility for the room. The settle
// delay absorbs end-of-call signal bursts and back-to-back calls: a new call
// started within the delay shows up in the active call count and makes the
// check a no-op.
func (c *Checker) CheckForRelease(ctx context.Context) {
	if c.settle > 0 {
		select {
		case <-ctx.Done():
			return
		case <-time.After(c.settle):
		}
	}

	count, err := c.status.ActiveCallCount(ctx)
	if err != nil {
		c.log.Warn("active call count query failed, skipping release check", "error", err)
		return
	}
	if count != 0 {
		c.log.Debug("call still active, skipping release check", "active_calls", count)
		return
	}

	id, err := c.bookings.CurrentID(ctx)
	if err != nil {
		c.log.Warn("current booking query failed, skipping release check", "error", err)
		return
	}
	if id == "" {
		c.log.Debug("no current booking, nothing to release")
		return
	}

	c.countdown.Start(id)
}
