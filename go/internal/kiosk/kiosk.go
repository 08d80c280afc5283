// Package kiosk drives the attendance kiosk: session lifecycle, the polling list renderer
// and drag reconciliation between the waiting and present lists. All attendance logic lives
// in the backend; this package only decides which call to make and what to show.
package kiosk

import (
	"context"
	"errors"

	ac "github.com/mcdev12/kiosk/go/clients/attendance_client"
	"github.com/mcdev12/kiosk/go/internal/models"
	"github.com/mcdev12/kiosk/go/internal/tone"
)

var (
	ErrValidation   = errors.New("subject and section are required")
	ErrNoSession    = errors.New("no session started")
	ErrNotConfirmed = errors.New("action not confirmed")
)

// User-facing messages.
const (
	msgEnterSubject  = "Enter Subject and Section"
	msgNoSession     = "No session started"
	msgResetPrompt   = "Reset session? This will mark all students as ABSENT."
	msgResetDone     = "Session reset! All students are now absent."
	msgStopPrompt    = "Stop session and export PDF?"
	msgStartFallback = "Failed to start session"
)

// Backend is the part of the attendance service the kiosk drives.
type Backend interface {
	AvailableSections(ctx context.Context) ([]string, error)
	StartClassSession(ctx context.Context, req ac.StartSessionRequest) error
	SessionLists(ctx context.Context, section string) (*ac.SessionListsResponse, error)
	MarkPresentManual(ctx context.Context, req ac.AttendanceRequest) error
	RemoveAttendance(ctx context.Context, req ac.AttendanceRequest) error
	ResetSession(ctx context.Context) error
	StopSession(ctx context.Context) (*ac.StopSessionResponse, error)
	ListReports(ctx context.Context) ([]ac.Report, error)
	OpenReport(ctx context.Context, filename string) error
	CapturePhoto(ctx context.Context, studentName string) (string, error)
	PhotoStats(ctx context.Context) (bool, error)
}

// Display is wherever the board is drawn. Alerts and cues carry the context of the
// action that caused them so a display can route them back to the page that asked.
type Display interface {
	Render(board models.Board)
	Alert(ctx context.Context, message string)
	PlayCue(ctx context.Context, cue tone.Cue)
}

// Confirmer asks the operator to confirm a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// Confirmed answers every prompt with its own value. Pages that confirm before sending a
// command pass it along this way.
type Confirmed bool

func (c Confirmed) Confirm(context.Context, string) bool {
	return bool(c)
}

// StartRequest is the setup form.
type StartRequest struct {
	Subject   string `json:"subject"`
	Section   string `json:"section"`
	StartTime string `json:"class_start"`
	EndTime   string `json:"class_end"`
}

// errorText renders a failed call the way the kiosk alerts it: backend-reported failures
// as "Error: <message>", anything else prefixed with what was being attempted.
func errorText(err error, attempt string) string {
	var apiErr *ac.APIError
	if errors.As(err, &apiErr) {
		return "Error: " + apiErr.Message
	}
	return attempt + ": " + err.Error()
}

func snapshotFrom(resp *ac.SessionListsResponse) models.Snapshot {
	snap := models.Snapshot{
		Total:   resp.Total,
		Present: resp.Present,
		Absent:  resp.Absent,
		Waiting: make([]models.RosterEntry, 0, len(resp.Waiting)),
		Arrived: make([]models.RosterEntry, 0, len(resp.PresentList)),
	}
	if resp.LastScan != nil && resp.LastScan.Name != "" {
		snap.LastScan = &models.RosterEntry{
			Name:   resp.LastScan.Name,
			Time:   resp.LastScan.Time,
			Status: models.RosterStatusPresent,
		}
	}
	for _, w := range resp.Waiting {
		snap.Waiting = append(snap.Waiting, models.RosterEntry{
			Name:   w.Name,
			RollNo: w.RollNo,
			Status: models.RosterStatusWaiting,
		})
	}
	for _, p := range resp.PresentList {
		snap.Arrived = append(snap.Arrived, models.RosterEntry{
			Name:   p.Name,
			Time:   p.Time,
			Status: models.RosterStatusPresent,
		})
	}
	return snap
}
