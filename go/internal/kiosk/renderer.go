package kiosk

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/kiosk/go/internal/models"
)

// Renderer pulls a snapshot for the running session and redraws the board from it.
//
// Every fetch takes a sequence number; a response is applied only if it answers the most
// recently issued fetch and its session is still running. Overlapping polls and responses
// that land after a stop are dropped instead of overwriting newer state.
type Renderer struct {
	backend Backend
	state   *State
	display Display
	camera  *Camera

	issued atomic.Uint64
	mu     sync.Mutex
}

func NewRenderer(backend Backend, state *State, display Display, camera *Camera) *Renderer {
	return &Renderer{
		backend: backend,
		state:   state,
		display: display,
		camera:  camera,
	}
}

// Refresh fetches and renders once. It is a no-op while idle. Fetch errors are returned
// for logging only; nothing is shown to the operator.
func (r *Renderer) Refresh(ctx context.Context) error {
	sess, epoch, ok := r.state.Active()
	if !ok {
		return nil
	}

	seq := r.issued.Add(1)
	resp, err := r.backend.SessionLists(ctx, sess.Section)
	if err != nil {
		return err
	}

	r.mu.Lock()
	if seq != r.issued.Load() {
		r.mu.Unlock()
		log.Debug().Uint64("seq", seq).Msg("dropping stale snapshot")
		return nil
	}

	snap := snapshotFrom(resp)
	board, applied := r.state.Apply(epoch, func(b *models.Board) {
		b.ApplySnapshot(snap)
	})
	if applied {
		r.display.Render(board)
	}
	r.mu.Unlock()

	if !applied {
		log.Debug().Str("section", sess.Section).Msg("session ended before snapshot arrived")
		return nil
	}

	// scans belong to every page, not to the one whose command triggered this refresh
	if snap.LastScan != nil && r.camera != nil {
		r.camera.Observe(context.Background(), *snap.LastScan)
	}
	return nil
}
