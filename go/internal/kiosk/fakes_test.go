package kiosk

import (
	"context"
	"sync"

	ac "github.com/mcdev12/kiosk/go/clients/attendance_client"
	"github.com/mcdev12/kiosk/go/internal/kiosk/events"
	"github.com/mcdev12/kiosk/go/internal/models"
	"github.com/mcdev12/kiosk/go/internal/tone"
)

// fakeBackend records every call and answers from its fields.
type fakeBackend struct {
	mu sync.Mutex

	calls []string

	sections    []string
	sectionsErr error
	startErr    error

	lists    *ac.SessionListsResponse
	listsErr error
	listsFn  func(ctx context.Context, call int) (*ac.SessionListsResponse, error)
	listCall int

	markErr   error
	removeErr error
	marked    []ac.AttendanceRequest
	removed   []ac.AttendanceRequest

	resetErr error
	stopErr  error
	stopResp *ac.StopSessionResponse

	reports  []ac.Report
	photoURL string
	photoErr error
	captured []string
	cameraUp bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		lists:    &ac.SessionListsResponse{},
		cameraUp: true,
		photoURL: "/static/photos/latest.jpg",
		stopResp: &ac.StopSessionResponse{
			Response: ac.Response{Success: true},
			Stats:    ac.SessionStats{Total: 3, Present: 1, Absent: 2},
			PDFFile:  "session_report_B.pdf",
		},
	}
}

func (f *fakeBackend) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBackend) Count(call string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeBackend) SetLists(resp *ac.SessionListsResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = resp
}

func (f *fakeBackend) AvailableSections(ctx context.Context) ([]string, error) {
	f.record("sections")
	return f.sections, f.sectionsErr
}

func (f *fakeBackend) StartClassSession(ctx context.Context, req ac.StartSessionRequest) error {
	f.record("start")
	return f.startErr
}

func (f *fakeBackend) SessionLists(ctx context.Context, section string) (*ac.SessionListsResponse, error) {
	f.record("lists")

	f.mu.Lock()
	f.listCall++
	call, fn, resp, err := f.listCall, f.listsFn, f.lists, f.listsErr
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, call)
	}
	return resp, err
}

func (f *fakeBackend) MarkPresentManual(ctx context.Context, req ac.AttendanceRequest) error {
	f.record("mark")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marked = append(f.marked, req)
	return f.markErr
}

func (f *fakeBackend) RemoveAttendance(ctx context.Context, req ac.AttendanceRequest) error {
	f.record("remove")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, req)
	return f.removeErr
}

func (f *fakeBackend) ResetSession(ctx context.Context) error {
	f.record("reset")
	return f.resetErr
}

func (f *fakeBackend) StopSession(ctx context.Context) (*ac.StopSessionResponse, error) {
	f.record("stop")
	if f.stopErr != nil {
		return nil, f.stopErr
	}
	return f.stopResp, nil
}

func (f *fakeBackend) ListReports(ctx context.Context) ([]ac.Report, error) {
	f.record("reports")
	return f.reports, nil
}

func (f *fakeBackend) OpenReport(ctx context.Context, filename string) error {
	f.record("open_report")
	return nil
}

func (f *fakeBackend) CapturePhoto(ctx context.Context, studentName string) (string, error) {
	f.record("capture")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.captured = append(f.captured, studentName)
	return f.photoURL, f.photoErr
}

func (f *fakeBackend) PhotoStats(ctx context.Context) (bool, error) {
	f.record("photo_stats")
	return f.cameraUp, nil
}

// recordingDisplay keeps everything it was asked to show.
type recordingDisplay struct {
	mu      sync.Mutex
	renders []models.Board
	alerts  []string
	cues    []tone.Cue
	cueCtxs []context.Context
}

func (d *recordingDisplay) Render(board models.Board) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.renders = append(d.renders, board)
}

func (d *recordingDisplay) Alert(ctx context.Context, message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.alerts = append(d.alerts, message)
}

func (d *recordingDisplay) PlayCue(ctx context.Context, cue tone.Cue) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cues = append(d.cues, cue)
	d.cueCtxs = append(d.cueCtxs, ctx)
}

func (d *recordingDisplay) Renders() []models.Board {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]models.Board(nil), d.renders...)
}

func (d *recordingDisplay) Alerts() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.alerts...)
}

func (d *recordingDisplay) Cues() []tone.Cue {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]tone.Cue(nil), d.cues...)
}

func (d *recordingDisplay) CueContexts() []context.Context {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]context.Context(nil), d.cueCtxs...)
}

// recordingPublisher keeps published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

var always = Confirmed(true)

func scenarioLists() *ac.SessionListsResponse {
	return &ac.SessionListsResponse{
		Success:     true,
		Total:       3,
		Present:     1,
		Absent:      2,
		Waiting:     []ac.WaitingStudent{{Name: "A", RollNo: "12"}},
		PresentList: []ac.PresentStudent{{Name: "B", Time: "10:00"}},
	}
}
