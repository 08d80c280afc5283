// Package events publishes what the kiosk did so other services can follow along.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// Type is the kind of kiosk event.
type Type string

const (
	TypeSessionStarted    Type = "session.started"
	TypeSessionReset      Type = "session.reset"
	TypeSessionStopped    Type = "session.stopped"
	TypeAttendanceMarked  Type = "attendance.marked"
	TypeAttendanceRemoved Type = "attendance.removed"
	TypeScanObserved      Type = "scan.observed"
)

// Event is the envelope every publisher sends.
type Event struct {
	ID        string          `json:"id"`
	Type      Type            `json:"type"`
	Section   string          `json:"section"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewEvent builds an event with a fresh ID. data may be nil.
func NewEvent(typ Type, section string, data interface{}) (Event, error) {
	ev := Event{
		ID:        uuid.New().String(),
		Type:      typ,
		Section:   section,
		Timestamp: time.Now().UTC(),
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return Event{}, fmt.Errorf("failed to marshal event data: %w", err)
		}
		ev.Data = raw
	}
	return ev, nil
}

// Publisher sends kiosk events somewhere.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// LogPublisher writes events to the log. Used when no broker is configured.
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (p *LogPublisher) Publish(ctx context.Context, event Event) error {
	log.Info().
		Str("event_id", event.ID).
		Str("event_type", string(event.Type)).
		Str("section", event.Section).
		RawJSON("data", orEmpty(event.Data)).
		Msg("kiosk event")
	return nil
}

// NATSPublisher publishes events on <prefix>.<type>.
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
}

// ConnectNATS dials url and returns a publisher on subject prefix.
func ConnectNATS(url, prefix string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("attendance-kiosk"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("disconnected from NATS")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("reconnected to NATS")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return NewNATSPublisher(conn, prefix), nil
}

func NewNATSPublisher(conn *nats.Conn, prefix string) *NATSPublisher {
	return &NATSPublisher{conn: conn, prefix: prefix}
}

// Subject returns the subject an event of typ is published on.
func (p *NATSPublisher) Subject(typ Type) string {
	return fmt.Sprintf("%s.%s", p.prefix, typ)
}

func (p *NATSPublisher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := nats.NewMsg(p.Subject(event.Type))
	msg.Header.Set(nats.MsgIdHdr, event.ID)
	msg.Data = data

	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	log.Debug().
		Str("subject", msg.Subject).
		Str("event_id", event.ID).
		Int("size", len(data)).
		Msg("published kiosk event")
	return nil
}

// Connected reports whether the NATS connection is currently up.
func (p *NATSPublisher) Connected() bool {
	return p.conn.IsConnected()
}

// Close drains the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}

func orEmpty(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("{}")
	}
	return raw
}
