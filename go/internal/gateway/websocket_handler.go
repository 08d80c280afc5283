package gateway

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// WebSocketHandler handles WebSocket upgrade requests from kiosk pages
type WebSocketHandler struct {
	connectionManager *ConnectionManager
	onConnect         func(conn *Connection)
}

// NewWebSocketHandler creates a new WebSocket handler. onConnect runs on its own goroutine
// once a page is registered.
func NewWebSocketHandler(cm *ConnectionManager, onConnect func(conn *Connection)) *WebSocketHandler {
	return &WebSocketHandler{
		connectionManager: cm,
		onConnect:         onConnect,
	}
}

// HandleKioskConnection handles GET /ws/kiosk
func (h *WebSocketHandler) HandleKioskConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := h.connectionManager.UpgradeConnection(w, r)
	if err != nil {
		// the upgrader has already replied to the client
		log.Error().
			Err(err).
			Str("remote_addr", r.RemoteAddr).
			Msg("failed to upgrade WebSocket connection")
		return
	}

	if h.onConnect != nil {
		go h.onConnect(conn)
	}
}

// HandleConnectionStats returns statistics about active connections
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.connectionManager.GetConnectionStats())
}

// RegisterRoutes registers WebSocket routes with an HTTP mux
func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws/kiosk", h.HandleKioskConnection)
	mux.HandleFunc("GET /ws/stats", h.HandleConnectionStats)
}
