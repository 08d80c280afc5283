package kiosk

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	ac "github.com/mcdev12/kiosk/go/clients/attendance_client"
	"github.com/mcdev12/kiosk/go/internal/kiosk/events"
	"github.com/mcdev12/kiosk/go/internal/models"
	"github.com/mcdev12/kiosk/go/internal/tone"
)

// Gesture is one drop: a row from Source released over the Target list.
type Gesture struct {
	Name   string              `json:"name"`
	RollNo string              `json:"roll_no"`
	Source models.RosterStatus `json:"source"`
	Target models.RosterStatus `json:"target"`
}

// Action is the attendance change a gesture asks for.
type Action string

const (
	ActionNone             Action = ""
	ActionMarkPresent      Action = "mark_present"
	ActionRemoveAttendance Action = "remove_attendance"
)

// Classify maps a gesture to its action. Only waiting→present and present→waiting move
// anything; every other combination, and a gesture without a name, is ActionNone.
func Classify(g Gesture) Action {
	if g.Name == "" || !g.Source.Valid() || !g.Target.Valid() {
		return ActionNone
	}
	switch {
	case g.Source == models.RosterStatusWaiting && g.Target == models.RosterStatusPresent:
		return ActionMarkPresent
	case g.Source == models.RosterStatusPresent && g.Target == models.RosterStatusWaiting:
		return ActionRemoveAttendance
	default:
		return ActionNone
	}
}

// DragHandler turns drops into exactly one mutating call and re-renders from the backend
// afterwards. Nothing is patched locally, so a failed call leaves the board as it was.
type DragHandler struct {
	backend   Backend
	state     *State
	renderer  *Renderer
	display   Display
	publisher events.Publisher
}

func NewDragHandler(backend Backend, state *State, renderer *Renderer, display Display, publisher events.Publisher) *DragHandler {
	return &DragHandler{
		backend:   backend,
		state:     state,
		renderer:  renderer,
		display:   display,
		publisher: publisher,
	}
}

// Drop reconciles g. It returns the action taken (ActionNone for ignored gestures).
func (h *DragHandler) Drop(ctx context.Context, g Gesture) (Action, error) {
	action := Classify(g)
	if action == ActionNone {
		return ActionNone, nil
	}

	sess, _, ok := h.state.Active()
	if !ok {
		return ActionNone, ErrNoSession
	}

	req := ac.AttendanceRequest{Section: sess.Section, Name: g.Name, RollNo: g.RollNo}

	var err error
	cue, evType := tone.CueDrag, events.TypeAttendanceMarked
	if action == ActionMarkPresent {
		err = h.backend.MarkPresentManual(ctx, req)
	} else {
		cue, evType = tone.CueDelete, events.TypeAttendanceRemoved
		err = h.backend.RemoveAttendance(ctx, req)
	}
	if err != nil {
		log.Warn().Err(err).Str("action", string(action)).Str("student", g.Name).Msg("drop rejected")
		h.display.Alert(ctx, errorText(err, "Error"))
		h.display.PlayCue(ctx, tone.CueError)
		return action, fmt.Errorf("%s %s: %w", action, g.Name, err)
	}

	if err := h.renderer.Refresh(ctx); err != nil {
		log.Debug().Err(err).Msg("refresh after drop failed")
	}
	h.display.PlayCue(ctx, cue)

	log.Info().
		Str("action", string(action)).
		Str("student", g.Name).
		Str("section", sess.Section).
		Msg("attendance updated")

	publish(ctx, h.publisher, evType, sess.Section, req)
	return action, nil
}

func publish(ctx context.Context, p events.Publisher, typ events.Type, section string, data interface{}) {
	if p == nil {
		return
	}
	ev, err := events.NewEvent(typ, section, data)
	if err == nil {
		err = p.Publish(ctx, ev)
	}
	if err != nil {
		log.Warn().Err(err).Str("event_type", string(typ)).Msg("failed to publish kiosk event")
	}
}
