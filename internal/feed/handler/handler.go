// Package handler exposes the agent's HTTP surface: the device event feed,
// the status API, and the release history listing.
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"roomrelease/internal/feed/validator"
	"roomrelease/internal/history"
	"roomrelease/internal/release"
	apperrors "roomrelease/pkg/errors"
	httputil "roomrelease/pkg/http"
	"roomrelease/pkg/logger"
	"roomrelease/pkg/model"
)

const defaultHistoryLimit = 20

// ReleaseChecker runs the post-call release eligibility check.
type ReleaseChecker interface {
	CheckForRelease(ctx context.Context)
}

// CountdownController is the countdown surface the feed dispatches into.
type CountdownController interface {
	Status() release.Status
	Cancel()
	HandleResponse(ctx context.Context, feedbackID string, optionID int)
	ManualRelease(ctx context.Context, bookingID string) model.ReleaseOutcome
}

type EventHandler struct {
	baseCtx   context.Context
	checker   ReleaseChecker
	countdown CountdownController
	history   history.Repository
	validator *validator.EventValidator
	log       *logger.Logger
}

// NewEventHandler wires the feed. baseCtx scopes detached work to the process
// lifetime: cancelling it stops release checks still sleeping in their settle
// delay. history may be nil when the history store is not configured.
func NewEventHandler(baseCtx context.Context, checker ReleaseChecker, countdown CountdownController, hist history.Repository, v *validator.EventValidator, log *logger.Logger) *EventHandler {
	return &EventHandler{
		baseCtx:   baseCtx,
		checker:   checker,
		countdown: countdown,
		history:   hist,
		validator: v,
		log:       log,
	}
}

func (h *EventHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/events", h.HandleEvent)
	router.GET("/status", h.GetStatus)
	router.GET("/history", h.GetHistory)
}

func (h *EventHandler) HandleEvent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var event model.DeviceEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("invalid event body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "HandleEvent", "error", writeErr)
		}
		return
	}

	if err := h.validator.Validate(&event); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput(err.Error())); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "HandleEvent", "error", writeErr)
		}
		return
	}

	switch event.Type {
	case model.EventCallEnded:
		// The check applies its own settle delay, so it runs detached from
		// the request: the device gets its ack immediately and must never
		// see a failure from the check itself. Scoped to the process, not
		// the request, so shutdown still cancels it.
		go h.checker.CheckForRelease(h.baseCtx)
		h.writeAccepted(w)

	case model.EventPromptResponse:
		h.countdown.HandleResponse(r.Context(), event.FeedbackID, event.OptionID)
		h.writeAccepted(w)

	case model.EventPanelAction:
		h.handlePanelAction(w, r, event)

	default:
		h.log.Info("ignoring unknown device event", "type", event.Type)
		h.writeAccepted(w)
	}
}

func (h *EventHandler) handlePanelAction(w http.ResponseWriter, r *http.Request, event model.DeviceEvent) {
	switch event.ControlID {
	case model.ControlRelease:
		outcome := h.countdown.ManualRelease(r.Context(), event.BookingID)
		if err := httputil.WriteSuccess(w, outcome); err != nil {
			h.log.Error("failed to write success response", "handler", "handlePanelAction", "error", err)
		}

	case model.ControlCancel:
		h.countdown.Cancel()
		h.writeAccepted(w)

	default:
		h.log.Info("ignoring unknown panel control", "control_id", event.ControlID)
		h.writeAccepted(w)
	}
}

func (h *EventHandler) GetStatus(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	if err := httputil.WriteSuccess(w, h.countdown.Status()); err != nil {
		h.log.Error("failed to write success response", "handler", "GetStatus", "error", err)
	}
}

func (h *EventHandler) GetHistory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if h.history == nil {
		if err := httputil.WriteError(w, apperrors.Unavailable("release history store is not configured", nil)); err != nil {
			h.log.Error("failed to write error response", "handler", "GetHistory", "error", err)
		}
		return
	}

	limit := defaultHistoryLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			if writeErr := httputil.WriteError(w, apperrors.InvalidInput("invalid limit parameter: "+s)); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "GetHistory", "error", writeErr)
			}
			return
		}
		limit = v
	}

	records, err := h.history.FindRecent(r.Context(), limit)
	if err != nil {
		h.log.Error("failed to list release records", "error", err)
		if writeErr := httputil.WriteError(w, apperrors.Internal("failed to list release records", err)); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetHistory", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, records); err != nil {
		h.log.Error("failed to write success response", "handler", "GetHistory", "error", err)
	}
}

func (h *EventHandler) writeAccepted(w http.ResponseWriter) {
	if err := httputil.WriteAccepted(w); err != nil {
		h.log.Error("failed to write accepted response", "error", err)
	}
}
