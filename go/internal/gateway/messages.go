package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mcdev12/kiosk/go/internal/kiosk"
	"github.com/mcdev12/kiosk/go/internal/models"
	"github.com/mcdev12/kiosk/go/internal/tone"
)

// Message is the envelope for everything the gateway pushes to a page
type Message struct {
	ID        string          `json:"id"`
	Type      MessageType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// MessageType represents the type of server message
type MessageType string

const (
	MessageTypeBoard    MessageType = "board"
	MessageTypeAlert    MessageType = "alert"
	MessageTypeCue      MessageType = "cue"
	MessageTypeConfirm  MessageType = "confirm"
	MessageTypeSections MessageType = "sections"
	MessageTypeReports  MessageType = "reports"
	MessageTypeAck      MessageType = "ack"
	MessageTypeSound    MessageType = "sound"
)

// AlertPayload is a modal notice for the operator
type AlertPayload struct {
	Message string `json:"message"`
}

// CuePayload tells the page which sound to play and where to fetch it
type CuePayload struct {
	Name tone.Cue `json:"name"`
	URL  string   `json:"url"`
}

// ConfirmPayload asks the page to confirm a command and send it again with confirmed set
type ConfirmPayload struct {
	Command CommandType `json:"command"`
	Prompt  string      `json:"prompt"`
}

// SoundPayload carries the synth settings so the page's sound controls match the server
type SoundPayload struct {
	Enabled bool    `json:"enabled"`
	Volume  float64 `json:"volume"`
}

type SectionsPayload struct {
	Sections []string `json:"sections"`
}

type ReportsPayload struct {
	Reports []models.Report `json:"reports"`
}

// AckPayload closes out a command so the page can re-enable its controls
type AckPayload struct {
	Command CommandType `json:"command"`
	OK      bool        `json:"ok"`
	Action  string      `json:"action,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// NewMessage wraps payload in an envelope
func NewMessage(typ MessageType, payload interface{}) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", typ, err)
	}
	return &Message{
		ID:        uuid.New().String(),
		Type:      typ,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}, nil
}

// Command is what a page sends over the socket
type Command struct {
	Type      CommandType         `json:"type"`
	Confirmed bool                `json:"confirmed,omitempty"`
	Start     *kiosk.StartRequest `json:"start,omitempty"`
	Drop      *DropCommand        `json:"drop,omitempty"`
	Filename  string              `json:"filename,omitempty"`
	Sound     *SoundCommand       `json:"sound,omitempty"`
}

// CommandType represents the type of page command
type CommandType string

const (
	CommandStart      CommandType = "start"
	CommandReset      CommandType = "reset"
	CommandStop       CommandType = "stop"
	CommandDrop       CommandType = "drop"
	CommandSections   CommandType = "sections"
	CommandReports    CommandType = "reports"
	CommandOpenReport CommandType = "open_report"
	CommandSound      CommandType = "sound"
)

// DropCommand is a finished drag: the row's identity plus the lists it left and landed in
type DropCommand struct {
	Name   string              `json:"name"`
	RollNo string              `json:"roll_no,omitempty"`
	From   models.RosterStatus `json:"from"`
	To     models.RosterStatus `json:"to"`
}

// Gesture converts the command to the kiosk's drag gesture
func (d DropCommand) Gesture() kiosk.Gesture {
	return kiosk.Gesture{
		Name:   d.Name,
		RollNo: d.RollNo,
		Source: d.From,
		Target: d.To,
	}
}

// SoundCommand adjusts the tone synthesizer. Nil fields are left alone.
type SoundCommand struct {
	Enabled *bool    `json:"enabled,omitempty"`
	Volume  *float64 `json:"volume,omitempty"`
}
