package kiosk

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	ac "github.com/mcdev12/kiosk/go/clients/attendance_client"
	"github.com/mcdev12/kiosk/go/internal/kiosk/events"
	"github.com/mcdev12/kiosk/go/internal/models"
	"github.com/mcdev12/kiosk/go/internal/tone"
)

// Config tunes the controller.
type Config struct {
	PollInterval   time.Duration
	PhotoHideDelay time.Duration
	Clock          clockwork.Clock
}

func DefaultConfig() Config {
	return Config{
		PollInterval:   DefaultPollInterval,
		PhotoHideDelay: DefaultPhotoHideDelay,
		Clock:          clockwork.NewRealClock(),
	}
}

// Controller owns the session lifecycle: idle → Start → active → Stop → idle, with Reset
// looping on active. It holds the only poll handle and releases it on Stop and Close.
// Lifecycle operations from different pages run one at a time.
type Controller struct {
	lifecycle sync.Mutex

	backend   Backend
	display   Display
	publisher events.Publisher

	state    *State
	camera   *Camera
	renderer *Renderer
	drops    *DragHandler
	poller   *Poller
}

func NewController(backend Backend, display Display, publisher events.Publisher, config Config) *Controller {
	if config.Clock == nil {
		config.Clock = clockwork.NewRealClock()
	}

	state := NewState()
	camera := NewCamera(backend, state, display, publisher, config.Clock, config.PhotoHideDelay)
	renderer := NewRenderer(backend, state, display, camera)

	return &Controller{
		backend:   backend,
		display:   display,
		publisher: publisher,
		state:     state,
		camera:    camera,
		renderer:  renderer,
		drops:     NewDragHandler(backend, state, renderer, display, publisher),
		poller:    NewPoller(config.Clock, config.PollInterval, renderer.Refresh),
	}
}

// Start opens a class session on the backend and begins polling its lists.
func (c *Controller) Start(ctx context.Context, req StartRequest) error {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	subject := strings.TrimSpace(req.Subject)
	section := strings.TrimSpace(req.Section)
	if subject == "" || section == "" {
		c.display.Alert(ctx, msgEnterSubject)
		return ErrValidation
	}

	err := c.backend.StartClassSession(ctx, ac.StartSessionRequest{
		Subject:    subject,
		Section:    section,
		ClassStart: req.StartTime,
		ClassEnd:   req.EndTime,
	})
	if err != nil {
		log.Warn().Err(err).Str("section", section).Msg("failed to start session")
		c.display.Alert(ctx, startFailureText(err))
		c.display.PlayCue(ctx, tone.CueError)
		return err
	}

	sess := models.Session{
		Subject:   subject,
		Section:   section,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}

	c.poller.Stop()
	c.camera.Reset()
	c.display.Render(c.state.Begin(sess))

	c.refreshReports(ctx)
	c.camera.Probe(ctx)
	if err := c.renderer.Refresh(ctx); err != nil {
		log.Debug().Err(err).Msg("initial refresh failed")
	}

	// polling outlives the request that started it
	c.poller.Start(context.Background())

	log.Info().
		Str("subject", subject).
		Str("section", section).
		Msg("class session started")

	publish(ctx, c.publisher, events.TypeSessionStarted, section, sess)
	return nil
}

// Reset marks every student absent on the backend after confirmation, then re-renders.
func (c *Controller) Reset(ctx context.Context, confirm Confirmer) error {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	sess, _, ok := c.state.Active()
	if !ok {
		c.display.Alert(ctx, msgNoSession)
		return ErrNoSession
	}
	if !confirm.Confirm(ctx, msgResetPrompt) {
		return ErrNotConfirmed
	}

	if err := c.backend.ResetSession(ctx); err != nil {
		log.Warn().Err(err).Str("section", sess.Section).Msg("failed to reset session")
		c.display.Alert(ctx, errorText(err, "Failed to reset session"))
		c.display.PlayCue(ctx, tone.CueError)
		return err
	}

	c.display.Alert(ctx, msgResetDone)
	if err := c.renderer.Refresh(ctx); err != nil {
		log.Debug().Err(err).Msg("refresh after reset failed")
	}

	log.Info().Str("section", sess.Section).Msg("class session reset")
	publish(ctx, c.publisher, events.TypeSessionReset, sess.Section, nil)
	return nil
}

// Stop closes the session on the backend after confirmation, shows the summary and tears
// the board down. The poll handle is released before the board is cleared.
func (c *Controller) Stop(ctx context.Context, confirm Confirmer) (*models.StopSummary, error) {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	sess, _, ok := c.state.Active()
	if !ok {
		c.display.Alert(ctx, msgNoSession)
		return nil, ErrNoSession
	}
	if !confirm.Confirm(ctx, msgStopPrompt) {
		return nil, ErrNotConfirmed
	}

	resp, err := c.backend.StopSession(ctx)
	if err != nil {
		log.Warn().Err(err).Str("section", sess.Section).Msg("failed to stop session")
		c.display.Alert(ctx, errorText(err, "Failed to stop session"))
		c.display.PlayCue(ctx, tone.CueError)
		return nil, err
	}

	summary := &models.StopSummary{
		Total:   resp.Stats.Total,
		Present: resp.Stats.Present,
		Absent:  resp.Stats.Absent,
		PDFFile: resp.PDFFile,
	}
	c.display.Alert(ctx, summary.String())

	c.poller.Stop()
	c.camera.Reset()
	c.display.Render(c.state.End())
	c.refreshReports(ctx)

	log.Info().
		Str("section", sess.Section).
		Int("present", summary.Present).
		Int("absent", summary.Absent).
		Str("pdf_file", summary.PDFFile).
		Msg("class session stopped")

	publish(ctx, c.publisher, events.TypeSessionStopped, sess.Section, summary)
	return summary, nil
}

// Drop reconciles a drag gesture between the two lists.
func (c *Controller) Drop(ctx context.Context, g Gesture) (Action, error) {
	return c.drops.Drop(ctx, g)
}

// Refresh forces one render outside the poll schedule.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.renderer.Refresh(ctx)
}

// Sections lists the sections offered on the setup form. Failures yield an empty list.
func (c *Controller) Sections(ctx context.Context) []string {
	sections, err := c.backend.AvailableSections(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("failed to load sections")
		return []string{}
	}
	if sections == nil {
		return []string{}
	}
	return sections
}

// Reports lists generated session reports. Failures yield an empty list.
func (c *Controller) Reports(ctx context.Context) []models.Report {
	reports, err := c.backend.ListReports(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("failed to list reports")
		return []models.Report{}
	}

	out := make([]models.Report, 0, len(reports))
	for _, r := range reports {
		out = append(out, models.Report{
			Filename: r.Filename,
			Type:     r.Type,
			Size:     r.Size,
			Modified: r.Modified,
		})
	}
	return out
}

// OpenReport asks the service to open a report on the kiosk machine.
func (c *Controller) OpenReport(ctx context.Context, filename string) error {
	if err := c.backend.OpenReport(ctx, filename); err != nil {
		c.display.Alert(ctx, errorText(err, "Failed to open report"))
		return err
	}
	return nil
}

// Board returns the board as last rendered.
func (c *Controller) Board() models.Board {
	return c.state.Board()
}

// Session returns the running session, zero when idle.
func (c *Controller) Session() models.Session {
	return c.state.Session()
}

// Polling reports whether a poll handle is armed.
func (c *Controller) Polling() bool {
	return c.poller.Running()
}

// Close releases the poll handle and any pending camera timer.
func (c *Controller) Close() {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	c.poller.Stop()
	c.camera.Reset()
}

func (c *Controller) refreshReports(ctx context.Context) {
	reports := c.Reports(ctx)
	board := c.state.Update(func(b *models.Board) {
		b.Reports = reports
	})
	c.display.Render(board)
}

func startFailureText(err error) string {
	msg := ac.MessageOf(err)
	if msg == "" {
		return msgStartFallback
	}
	return msg
}
