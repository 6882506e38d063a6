package model

// Device event types accepted on the webhook feed.
const (
	EventCallEnded      = "call.ended"
	EventPromptResponse = "prompt.response"
	EventPanelAction    = "panel.action"
)

// Panel control identifiers.
const (
	ControlRelease = "release"
	ControlCancel  = "cancel"
)

// DeviceEvent is the envelope the endpoint posts to the webhook feed.
// Which fields are meaningful depends on Type:
//
//	call.ended      — no extra fields
//	prompt.response — FeedbackID + OptionID
//	panel.action    — ControlID, plus BookingID when ControlID is "release"
type DeviceEvent struct {
	Type       string `json:"type" validate:"required"`
	FeedbackID string `json:"feedback_id,omitempty" validate:"required_if=Type prompt.response"`
	OptionID   int    `json:"option_id,omitempty"`
	ControlID  string `json:"control_id,omitempty" validate:"required_if=Type panel.action"`
	BookingID  string `json:"booking_id,omitempty"`
}
