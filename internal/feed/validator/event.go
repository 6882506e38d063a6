package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"roomrelease/pkg/logger"
	"roomrelease/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// EventValidator checks inbound device event envelopes before dispatch.
type EventValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewEventValidator(log *logger.Logger) *EventValidator {
	return &EventValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *EventValidator) Validate(event *model.DeviceEvent) error {
	if err := v.validate.Struct(event); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return ValidationErrors{{Field: "event", Message: "invalid event structure"}}
		}

		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			var result ValidationErrors
			for _, fe := range fieldErrors {
				result = append(result, ValidationError{
					Field:   fe.Field(),
					Message: fieldMessage(fe),
				})
			}
			return result
		}
		return ValidationErrors{{Field: "event", Message: err.Error()}}
	}

	// The release control needs to know which booking it targets; the tag
	// language cannot express the double condition, so check it here.
	if event.Type == model.EventPanelAction &&
		event.ControlID == model.ControlRelease &&
		event.BookingID == "" {
		return ValidationErrors{{
			Field:   "BookingID",
			Message: "required when control_id is 'release'",
		}}
	}

	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_if":
		return fmt.Sprintf("is required for this event type (%s)", fe.Param())
	default:
		return fmt.Sprintf("failed validation '%s'", fe.Tag())
	}
}
