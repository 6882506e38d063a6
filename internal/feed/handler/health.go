package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	httputil "roomrelease/pkg/http"
	"roomrelease/pkg/logger"
)

const readinessTimeout = 3 * time.Second

// Pinger reports device reachability. Satisfied by the device client.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	device Pinger
	log    *logger.Logger
}

func NewHealthHandler(device Pinger, log *logger.Logger) *HealthHandler {
	return &HealthHandler{device: device, log: log}
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}

func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"}); err != nil {
		h.log.Error("failed to write health response", "error", err)
	}
}

// Ready reports whether the endpoint device is reachable. The agent is
// useless without it, so readiness tracks device connectivity.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if err := h.device.Ping(ctx); err != nil {
		h.log.Warn("device unreachable", "error", err)
		if writeErr := httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "device unreachable",
		}); writeErr != nil {
			h.log.Error("failed to write readiness response", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"}); err != nil {
		h.log.Error("failed to write readiness response", "error", err)
	}
}
