package kiosk

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	ac "github.com/mcdev12/kiosk/go/clients/attendance_client"
	"github.com/mcdev12/kiosk/go/internal/kiosk/events"
	"github.com/mcdev12/kiosk/go/internal/models"
	"github.com/mcdev12/kiosk/go/internal/tone"
)

const DefaultPhotoHideDelay = 30 * time.Second

// Camera status labels.
const (
	cameraReady       = "Ready"
	cameraOffline     = "Offline"
	cameraError       = "Error"
	cameraUnavailable = "Camera not available"
)

// Camera drives the photo panel: one capture per new scan, hidden again after a delay.
type Camera struct {
	backend   Backend
	state     *State
	display   Display
	publisher events.Publisher
	clock     clockwork.Clock
	hideAfter time.Duration

	mu      sync.Mutex
	lastKey string
	hide    clockwork.Timer
}

func NewCamera(backend Backend, state *State, display Display, publisher events.Publisher, clock clockwork.Clock, hideAfter time.Duration) *Camera {
	if hideAfter <= 0 {
		hideAfter = DefaultPhotoHideDelay
	}
	return &Camera{
		backend:   backend,
		state:     state,
		display:   display,
		publisher: publisher,
		clock:     clock,
		hideAfter: hideAfter,
	}
}

// Probe asks the service whether the camera is up and shows the result.
func (c *Camera) Probe(ctx context.Context) {
	ok, err := c.backend.PhotoStats(ctx)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("camera probe failed")
		c.setStatus(cameraError, true, "")
	case !ok:
		c.setStatus(cameraOffline, true, "")
	default:
		c.setStatus(cameraReady, false, "")
	}
}

// Observe handles the last scan of a snapshot. Scans already seen are ignored; a new
// one plays the scan cue, publishes scan.observed and captures a photo. It reports whether
// the scan was new.
func (c *Camera) Observe(ctx context.Context, scan models.RosterEntry) bool {
	key := scan.Name + "|" + scan.Time

	c.mu.Lock()
	if key == c.lastKey {
		c.mu.Unlock()
		return false
	}
	c.lastKey = key
	c.mu.Unlock()

	c.display.PlayCue(ctx, tone.CueScan)
	publish(ctx, c.publisher, events.TypeScanObserved, c.state.Session().Section, scan)

	photoURL, err := c.backend.CapturePhoto(ctx, scan.Name)
	switch {
	case errors.Is(err, ac.ErrCameraDisabled):
		c.setStatus(cameraUnavailable, true, "")
		return true
	case err != nil:
		log.Warn().Err(err).Str("student", scan.Name).Msg("failed to capture photo")
		return true
	}

	// cache buster so pages reload a reused photo path
	photoURL = fmt.Sprintf("%s?t=%d", photoURL, c.clock.Now().UnixMilli())
	c.setStatus("📷 "+scan.Name, false, photoURL)
	c.armHide()

	log.Info().Str("student", scan.Name).Msg("photo captured")
	return true
}

// Reset forgets the last scan and cancels a pending hide.
func (c *Camera) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastKey = ""
	if c.hide != nil {
		c.hide.Stop()
		c.hide = nil
	}
}

func (c *Camera) armHide() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hide != nil {
		c.hide.Stop()
	}
	c.hide = c.clock.AfterFunc(c.hideAfter, func() {
		c.setStatus(cameraReady, false, "")
	})
}

func (c *Camera) setStatus(status string, isError bool, photoURL string) {
	board := c.state.Update(func(b *models.Board) {
		b.Camera = models.CameraView{Status: status, Error: isError, PhotoURL: photoURL}
	})
	c.display.Render(board)
}
