package gateway

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/kiosk/go/internal/models"
	"github.com/mcdev12/kiosk/go/internal/tone"
)

// Display draws the kiosk on every connected page. Boards go to all pages; alerts, cues and
// confirmation prompts go back to the page whose command caused them, or to all pages when
// the work came from the poller.
type Display struct {
	connections *ConnectionManager
	synth       *tone.Synth
	cuePath     string
}

// NewDisplay creates a display over cm. Cue URLs are built under cuePath.
func NewDisplay(cm *ConnectionManager, synth *tone.Synth, cuePath string) *Display {
	return &Display{
		connections: cm,
		synth:       synth,
		cuePath:     cuePath,
	}
}

func (d *Display) Render(board models.Board) {
	d.push(context.Background(), MessageTypeBoard, board)
}

func (d *Display) Alert(ctx context.Context, message string) {
	d.push(ctx, MessageTypeAlert, AlertPayload{Message: message})
}

// PlayCue is silent while sound is switched off.
func (d *Display) PlayCue(ctx context.Context, cue tone.Cue) {
	if d.synth != nil && !d.synth.Enabled() {
		return
	}
	d.push(ctx, MessageTypeCue, CuePayload{Name: cue, URL: d.CueURL(cue)})
}

// Confirm sends a confirmation prompt for cmd.
func (d *Display) Confirm(ctx context.Context, cmd CommandType, prompt string) {
	d.push(ctx, MessageTypeConfirm, ConfirmPayload{Command: cmd, Prompt: prompt})
}

// Sound sends the current sound settings.
func (d *Display) Sound(ctx context.Context) {
	if d.synth == nil {
		return
	}
	d.push(ctx, MessageTypeSound, SoundPayload{Enabled: d.synth.Enabled(), Volume: d.synth.Volume()})
}

func (d *Display) CueURL(cue tone.Cue) string {
	return d.cuePath + string(cue) + ".wav"
}

func (d *Display) push(ctx context.Context, typ MessageType, payload interface{}) {
	message, err := NewMessage(typ, payload)
	if err != nil {
		log.Error().Err(err).Msg("failed to build message")
		return
	}
	if id, ok := ConnectionFrom(ctx); ok {
		d.connections.SendTo(id, message)
		return
	}
	d.connections.Broadcast(message)
}
