package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/kiosk/go/internal/kiosk"
	"github.com/mcdev12/kiosk/go/internal/models"
	"github.com/mcdev12/kiosk/go/internal/tone"
)

var ErrUnknownCommand = errors.New("unknown command")

// Kiosk is the controller surface the gateway drives
type Kiosk interface {
	Start(ctx context.Context, req kiosk.StartRequest) error
	Reset(ctx context.Context, confirm kiosk.Confirmer) error
	Stop(ctx context.Context, confirm kiosk.Confirmer) (*models.StopSummary, error)
	Drop(ctx context.Context, g kiosk.Gesture) (kiosk.Action, error)
	Sections(ctx context.Context) []string
	Reports(ctx context.Context) []models.Report
	OpenReport(ctx context.Context, filename string) error
	Board() models.Board
}

// CommandHandler turns page commands into controller calls
type CommandHandler struct {
	kiosk   Kiosk
	display *Display
	synth   *tone.Synth
}

// NewCommandHandler creates a command handler. The controller is bound later with Bind
// because the controller itself needs the display to exist first.
func NewCommandHandler(display *Display, synth *tone.Synth) *CommandHandler {
	return &CommandHandler{
		display: display,
		synth:   synth,
	}
}

// Bind attaches the controller
func (h *CommandHandler) Bind(k Kiosk) {
	h.kiosk = k
}

// HandleMessage decodes one frame, runs it and acknowledges it to the sender
func (h *CommandHandler) HandleMessage(ctx context.Context, conn *Connection, message []byte) {
	var cmd Command
	if err := json.Unmarshal(message, &cmd); err != nil {
		log.Warn().Err(err).Str("connection_id", conn.ID).Msg("malformed command")
		return
	}

	log.Debug().
		Str("connection_id", conn.ID).
		Str("command", string(cmd.Type)).
		Bool("confirmed", cmd.Confirmed).
		Msg("received command")

	ack := h.Handle(ctx, cmd)
	msg, err := NewMessage(MessageTypeAck, ack)
	if err != nil {
		log.Error().Err(err).Msg("failed to build ack")
		return
	}
	conn.Manager.SendTo(conn.ID, msg)
}

// Handle runs cmd against the controller. Failures have already been shown to the
// operator by the controller; the ack only reports the outcome.
func (h *CommandHandler) Handle(ctx context.Context, cmd Command) AckPayload {
	ack := AckPayload{Command: cmd.Type, OK: true}
	if h.kiosk == nil {
		return failed(ack, errors.New("kiosk not ready"))
	}

	var err error
	switch cmd.Type {
	case CommandStart:
		var req kiosk.StartRequest
		if cmd.Start != nil {
			req = *cmd.Start
		}
		err = h.kiosk.Start(ctx, req)

	case CommandReset:
		err = h.kiosk.Reset(ctx, h.confirmer(cmd))

	case CommandStop:
		_, err = h.kiosk.Stop(ctx, h.confirmer(cmd))

	case CommandDrop:
		if cmd.Drop == nil {
			return failed(ack, errors.New("drop command without payload"))
		}
		var action kiosk.Action
		action, err = h.kiosk.Drop(ctx, cmd.Drop.Gesture())
		ack.Action = string(action)

	case CommandSections:
		h.display.push(ctx, MessageTypeSections, SectionsPayload{Sections: h.kiosk.Sections(ctx)})

	case CommandReports:
		h.display.push(ctx, MessageTypeReports, ReportsPayload{Reports: h.kiosk.Reports(ctx)})

	case CommandOpenReport:
		err = h.kiosk.OpenReport(ctx, cmd.Filename)

	case CommandSound:
		h.applySound(cmd.Sound)

	default:
		err = fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}

	if err != nil {
		return failed(ack, err)
	}
	return ack
}

// confirmer answers prompts for cmd. An unconfirmed command is declined and the page is
// asked to confirm and resend.
func (h *CommandHandler) confirmer(cmd Command) kiosk.Confirmer {
	if cmd.Confirmed {
		return kiosk.Confirmed(true)
	}
	return kiosk.ConfirmFunc(func(ctx context.Context, prompt string) bool {
		h.display.Confirm(ctx, cmd.Type, prompt)
		return false
	})
}

func (h *CommandHandler) applySound(sound *SoundCommand) {
	if sound == nil || h.synth == nil {
		return
	}
	if sound.Enabled != nil {
		h.synth.SetEnabled(*sound.Enabled)
	}
	if sound.Volume != nil {
		h.synth.SetVolume(*sound.Volume)
	}
	log.Info().
		Bool("enabled", h.synth.Enabled()).
		Float64("volume", h.synth.Volume()).
		Msg("sound settings changed")

	// every page shows the same controls
	h.display.Sound(context.Background())
}

func failed(ack AckPayload, err error) AckPayload {
	ack.OK = false
	ack.Error = err.Error()
	return ack
}
