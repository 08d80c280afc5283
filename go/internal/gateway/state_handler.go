package gateway

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/kiosk/go/internal/tone"
)

// StateHandler serves the kiosk state over plain HTTP for pages that have not opened the
// socket yet, plus the synthesized cue files
type StateHandler struct {
	commands *CommandHandler
	synth    *tone.Synth
}

// NewStateHandler creates a new state handler
func NewStateHandler(commands *CommandHandler, synth *tone.Synth) *StateHandler {
	return &StateHandler{
		commands: commands,
		synth:    synth,
	}
}

// HandleGetBoard handles GET /api/kiosk/board
func (h *StateHandler) HandleGetBoard(w http.ResponseWriter, r *http.Request) {
	k := h.commands.kiosk
	if k == nil {
		http.Error(w, "Kiosk not ready", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, k.Board())
}

// HandleGetSections handles GET /api/kiosk/sections
func (h *StateHandler) HandleGetSections(w http.ResponseWriter, r *http.Request) {
	k := h.commands.kiosk
	if k == nil {
		http.Error(w, "Kiosk not ready", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, SectionsPayload{Sections: k.Sections(r.Context())})
}

// HandleGetReports handles GET /api/kiosk/reports
func (h *StateHandler) HandleGetReports(w http.ResponseWriter, r *http.Request) {
	k := h.commands.kiosk
	if k == nil {
		http.Error(w, "Kiosk not ready", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, ReportsPayload{Reports: k.Reports(r.Context())})
}

// HandleGetCue handles GET /api/kiosk/cues/{file}, where file is "<cue>.wav"
func (h *StateHandler) HandleGetCue(w http.ResponseWriter, r *http.Request) {
	name, ok := strings.CutSuffix(r.PathValue("file"), ".wav")
	cue := tone.Cue(name)
	if !ok || !cue.Valid() {
		http.NotFound(w, r)
		return
	}

	data, err := h.synth.WAV(cue)
	if err != nil {
		log.Error().Err(err).Str("cue", name).Msg("failed to render cue")
		http.Error(w, "Failed to render cue", http.StatusInternalServerError)
		return
	}
	if data == nil {
		// sound is off
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(data); err != nil {
		log.Debug().Err(err).Str("cue", name).Msg("failed to write cue")
	}
}

// RegisterStateRoutes registers state-related HTTP routes
func (h *StateHandler) RegisterStateRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/kiosk/board", h.HandleGetBoard)
	mux.HandleFunc("GET /api/kiosk/sections", h.HandleGetSections)
	mux.HandleFunc("GET /api/kiosk/reports", h.HandleGetReports)
	mux.HandleFunc("GET "+cuePath+"{file}", h.HandleGetCue)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
