package kiosk

import (
	"sync"

	"github.com/mcdev12/kiosk/go/internal/models"
)

// State is the kiosk's session state and the board last rendered from it. The controller
// owns it; the renderer and the drag handler hold the same pointer.
//
// epoch advances on every Begin and End so in-flight work started under an older session
// can tell it no longer applies.
type State struct {
	mu      sync.RWMutex
	session models.Session
	epoch   uint64
	board   models.Board
}

func NewState() *State {
	return &State{board: models.EmptyBoard()}
}

// Begin marks sess as started and resets the board to its cleared, visible form.
func (s *State) Begin(sess models.Session) models.Board {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess.Started = true
	s.session = sess
	s.epoch++

	board := models.EmptyBoard()
	board.Visible = true
	board.SessionMeta = sess.Meta()
	board.SessionTitle = sess.Title()
	board.Camera = s.board.Camera
	board.Reports = s.board.Reports
	s.board = board
	return s.board
}

// End clears the session and hides the board.
func (s *State) End() models.Board {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = models.Session{}
	s.epoch++
	s.board = models.EmptyBoard()
	return s.board
}

// Active returns the running session and its epoch. ok is false when idle.
func (s *State) Active() (sess models.Session, epoch uint64, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session, s.epoch, s.session.Started
}

func (s *State) Started() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Started
}

func (s *State) Session() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Board returns the current board. Row slices are replaced, never edited in place,
// so the returned value is safe to hand out.
func (s *State) Board() models.Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.board
}

// Apply runs fn against the board only if the session from epoch is still running.
func (s *State) Apply(epoch uint64, fn func(*models.Board)) (models.Board, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.Started || s.epoch != epoch {
		return s.board, false
	}
	fn(&s.board)
	return s.board, true
}

// Update runs fn against the board regardless of session state.
func (s *State) Update(fn func(*models.Board)) models.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.board)
	return s.board
}
