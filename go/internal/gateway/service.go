// Package gateway connects kiosk pages to the controller: it pushes rendered boards, alerts
// and sound cues over WebSockets and takes operator commands back.
package gateway

import (
	"context"
	"embed"
	"io/fs"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/kiosk/go/internal/tone"
)

const cuePath = "/api/kiosk/cues/"

//go:embed static
var staticFiles embed.FS

// Service is the kiosk gateway: WebSocket fan-out, command intake and the REST surface
type Service struct {
	connectionManager *ConnectionManager
	display           *Display
	commands          *CommandHandler
	wsHandler         *WebSocketHandler
	stateHandler      *StateHandler
}

// Config holds configuration for the gateway
type Config struct {
	ConnectionConfig ConnectionConfig
}

// DefaultConfig returns default configuration for the gateway
func DefaultConfig() Config {
	return Config{
		ConnectionConfig: DefaultConnectionConfig(),
	}
}

// NewService creates a new gateway. Bind the controller before serving.
func NewService(config Config, synth *tone.Synth) *Service {
	connectionManager := NewConnectionManager(config.ConnectionConfig)
	display := NewDisplay(connectionManager, synth, cuePath)
	commands := NewCommandHandler(display, synth)
	connectionManager.OnMessage(commands.HandleMessage)

	s := &Service{
		connectionManager: connectionManager,
		display:           display,
		commands:          commands,
		stateHandler:      NewStateHandler(commands, synth),
	}
	s.wsHandler = NewWebSocketHandler(connectionManager, s.greet)
	return s
}

// Display is the kiosk.Display pages are drawn through
func (s *Service) Display() *Display {
	return s.display
}

// Bind attaches the controller commands are sent to
func (s *Service) Bind(k Kiosk) {
	s.commands.Bind(k)
}

// Start runs message delivery until ctx is done
func (s *Service) Start(ctx context.Context) {
	log.Info().Msg("starting kiosk gateway")
	s.connectionManager.Start(ctx)
	log.Info().Msg("kiosk gateway stopped")
}

// RegisterRoutes registers the page, WebSocket and REST routes
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	s.wsHandler.RegisterRoutes(mux)
	s.stateHandler.RegisterStateRoutes(mux)

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		log.Fatal().Err(err).Msg("embedded page missing")
	}
	mux.Handle("GET /", http.FileServerFS(static))

	log.Info().Msg("kiosk gateway routes registered")
}

// GetStats returns statistics about the gateway service
func (s *Service) GetStats() map[string]interface{} {
	stats := s.connectionManager.GetConnectionStats()
	stats["service"] = "kiosk_gateway"
	return stats
}

// greet brings a freshly connected page up to date
func (s *Service) greet(conn *Connection) {
	k := s.commands.kiosk
	if k == nil {
		return
	}
	ctx := conn.Context()
	if msg, err := NewMessage(MessageTypeBoard, k.Board()); err == nil {
		s.connectionManager.SendTo(conn.ID, msg)
	}
	s.display.push(ctx, MessageTypeSections, SectionsPayload{Sections: k.Sections(ctx)})
	s.display.Sound(ctx)
}
