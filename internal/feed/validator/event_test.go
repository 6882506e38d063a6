package validator

import (
	"strings"
	"testing"

	"roomrelease/pkg/logger"
	"roomrelease/pkg/model"
)

func TestValidateEvent(t *testing.T) {
	v := NewEventValidator(logger.Discard())

	tests := []struct {
		name      string
		event     model.DeviceEvent
		wantError bool
		wantField string
	}{
		{
			name:  "call ended",
			event: model.DeviceEvent{Type: model.EventCallEnded},
		},
		{
			name: "prompt response",
			event: model.DeviceEvent{
				Type:       model.EventPromptResponse,
				FeedbackID: "f1",
				OptionID:   1,
			},
		},
		{
			name:      "prompt response without feedback id",
			event:     model.DeviceEvent{Type: model.EventPromptResponse, OptionID: 1},
			wantError: true,
			wantField: "FeedbackID",
		},
		{
			name: "panel release",
			event: model.DeviceEvent{
				Type:      model.EventPanelAction,
				ControlID: model.ControlRelease,
				BookingID: "B1",
			},
		},
		{
			name: "panel release without booking id",
			event: model.DeviceEvent{
				Type:      model.EventPanelAction,
				ControlID: model.ControlRelease,
			},
			wantError: true,
			wantField: "BookingID",
		},
		{
			name: "panel cancel without booking id",
			event: model.DeviceEvent{
				Type:      model.EventPanelAction,
				ControlID: model.ControlCancel,
			},
		},
		{
			name:      "missing type",
			event:     model.DeviceEvent{},
			wantError: true,
			wantField: "Type",
		},
		{
			name:  "unknown type passes envelope validation",
			event: model.DeviceEvent{Type: "standby.entered"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.event)
			if !tt.wantError {
				if err != nil {
					t.Fatalf("expected valid event, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("expected error naming %s, got %q", tt.wantField, err.Error())
			}
		})
	}
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{
		{Field: "Type", Message: "is required"},
		{Field: "FeedbackID", Message: "is required for this event type (prompt.response)"},
	}

	msg := errs.Error()
	if !strings.Contains(msg, "2 error(s)") {
		t.Errorf("expected error count in message, got %q", msg)
	}
	if !strings.Contains(msg, "Type: is required") {
		t.Errorf("expected field detail in message, got %q", msg)
	}
}
