package kiosk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

type HealthStatus struct {
	Healthy          bool     `json:"healthy"`
	BackendReachable bool     `json:"backend_reachable"`
	CameraAvailable  bool     `json:"camera_available"`
	SessionActive    bool     `json:"session_active"`
	Polling          bool     `json:"polling"`
	EventsConnected  *bool    `json:"events_connected,omitempty"`
	Errors           []string `json:"errors"`
}

// Connectivity is anything with a live upstream connection, such as the NATS publisher.
type Connectivity interface {
	Connected() bool
}

// HealthChecker reports whether the kiosk can do its job: the backend answers, and the poll
// handle is armed exactly when a session is running.
type HealthChecker struct {
	controller *Controller
	events     Connectivity
}

// NewHealthChecker creates a checker. events may be nil when events only go to the log.
func NewHealthChecker(controller *Controller, events Connectivity) *HealthChecker {
	return &HealthChecker{controller: controller, events: events}
}

func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Healthy: true,
		Errors:  []string{},
	}

	if _, err := h.controller.backend.AvailableSections(ctx); err != nil {
		status.Healthy = false
		status.Errors = append(status.Errors, fmt.Sprintf("backend unreachable: %v", err))
	} else {
		status.BackendReachable = true
	}

	if status.BackendReachable {
		up, err := h.controller.backend.PhotoStats(ctx)
		if err != nil {
			status.Errors = append(status.Errors, fmt.Sprintf("camera check failed: %v", err))
		}
		// the kiosk still works without a camera
		status.CameraAvailable = up
	}

	status.SessionActive = h.controller.state.Started()
	status.Polling = h.controller.Polling()
	if status.SessionActive != status.Polling {
		status.Healthy = false
		status.Errors = append(status.Errors, fmt.Sprintf("session active=%t but polling=%t", status.SessionActive, status.Polling))
	}

	if h.events != nil {
		connected := h.events.Connected()
		status.EventsConnected = &connected
		if !connected {
			status.Healthy = false
			status.Errors = append(status.Errors, "event publisher disconnected")
		}
	}

	return status
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := h.Check(ctx)

	w.Header().Set("Content-Type", "application/json")
	if !status.Healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(status); err != nil {
		log.Error().Err(err).Msg("failed to encode health status")
	}
}
