package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	ev, err := NewEvent(TypeAttendanceMarked, "B", map[string]string{"name": "Asha"})
	require.NoError(t, err)

	_, err = uuid.Parse(ev.ID)
	assert.NoError(t, err)
	assert.Equal(t, TypeAttendanceMarked, ev.Type)
	assert.Equal(t, "B", ev.Section)
	assert.False(t, ev.Timestamp.IsZero())

	var data map[string]string
	require.NoError(t, json.Unmarshal(ev.Data, &data))
	assert.Equal(t, "Asha", data["name"])
}

func TestNewEventWithoutData(t *testing.T) {
	ev, err := NewEvent(TypeSessionReset, "A", nil)
	require.NoError(t, err)
	assert.Empty(t, ev.Data)
}

func TestNATSSubject(t *testing.T) {
	p := NewNATSPublisher(nil, "kiosk.events")
	assert.Equal(t, "kiosk.events.session.started", p.Subject(TypeSessionStarted))
}

func TestLogPublisher(t *testing.T) {
	ev, err := NewEvent(TypeSessionStopped, "A", nil)
	require.NoError(t, err)
	assert.NoError(t, NewLogPublisher().Publish(context.Background(), ev))
}
