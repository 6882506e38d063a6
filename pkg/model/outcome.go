package model

import "time"

// OutcomeKind classifies the terminal result of a release attempt.
type OutcomeKind string

const (
	OutcomeReleased          OutcomeKind = "released"
	OutcomeAbortedStale      OutcomeKind = "aborted_stale"
	OutcomeAbortedIncomplete OutcomeKind = "aborted_incomplete"
	OutcomeFailed            OutcomeKind = "failed"
)

// ReleaseTrigger records what caused the release attempt.
type ReleaseTrigger string

const (
	TriggerExpiry  ReleaseTrigger = "expiry"
	TriggerConfirm ReleaseTrigger = "confirm"
	TriggerManual  ReleaseTrigger = "manual"
)

// ReleaseOutcome is the result of one release attempt. Reason is set only
// for OutcomeFailed.
type ReleaseOutcome struct {
	Kind      OutcomeKind `json:"kind"`
	BookingID string      `json:"booking_id"`
	Reason    string      `json:"reason,omitempty"`
}

func Released(bookingID string) ReleaseOutcome {
	return ReleaseOutcome{Kind: OutcomeReleased, BookingID: bookingID}
}

func AbortedStale(bookingID string) ReleaseOutcome {
	return ReleaseOutcome{Kind: OutcomeAbortedStale, BookingID: bookingID}
}

func AbortedIncomplete(bookingID string) ReleaseOutcome {
	return ReleaseOutcome{Kind: OutcomeAbortedIncomplete, BookingID: bookingID}
}

func Failed(bookingID, reason string) ReleaseOutcome {
	return ReleaseOutcome{Kind: OutcomeFailed, BookingID: bookingID, Reason: reason}
}

// ReleaseRecord is the audit entry persisted (and published) for every
// terminal release outcome.
type ReleaseRecord struct {
	ID         string         `json:"id" bson:"_id"`
	Outcome    OutcomeKind    `json:"outcome" bson:"outcome"`
	Trigger    ReleaseTrigger `json:"trigger" bson:"trigger"`
	BookingID  string         `json:"booking_id" bson:"booking_id"`
	Booking    *BookingRef    `json:"booking,omitempty" bson:"booking,omitempty"`
	Reason     string         `json:"reason,omitempty" bson:"reason,omitempty"`
	OccurredAt time.Time      `json:"occurred_at" bson:"occurred_at"`
}
