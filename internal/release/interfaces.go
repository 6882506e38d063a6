package release

import (
	"context"
	"time"

	"roomrelease/pkg/model"
)

// DeviceStatus exposes the live call state of the endpoint. Queried at
// decision time rather than cached so the agent never acts on stale flags.
type DeviceStatus interface {
	ActiveCallCount(ctx context.Context) (int, error)
}

// BookingAPI is the booking surface of the endpoint's calendar integration.
type BookingAPI interface {
	CurrentID(ctx context.Context) (string, error)
	Details(ctx context.Context, id string) (*model.BookingRef, error)
	RespondDecline(ctx context.Context, meetingID string) error
	Delete(ctx context.Context, meetingID string) error
}

// PromptOption is one selectable answer on a confirmation prompt.
type PromptOption struct {
	ID    int
	Label string
}

// ConfirmPrompt describes the on-screen release confirmation.
type ConfirmPrompt struct {
	Title      string
	Text       string
	FeedbackID string
	Options    []PromptOption
}

// UserInterface renders prompts and alerts on the endpoint. All operations
// except ShowConfirmPrompt are presentation side effects and treated as
// best-effort by callers.
type UserInterface interface {
	ShowConfirmPrompt(ctx context.Context, prompt ConfirmPrompt) error
	ClearPrompt(ctx context.Context, feedbackID string) error
	ClosePanel(ctx context.Context) error
	ShowAlert(ctx context.Context, title, text string, duration time.Duration) error
}

// OutcomeSink receives every terminal release outcome. Implementations are
// best-effort: they log their own failures and must never block the release
// flow.
type OutcomeSink interface {
	RecordOutcome(ctx context.Context, record model.ReleaseRecord)
}

// Releaser performs a release attempt. Satisfied by Executor; narrowed to an
// interface so the countdown controller can be tested against a fake.
type Releaser interface {
	Release(ctx context.Context, req Request) model.ReleaseOutcome
}
