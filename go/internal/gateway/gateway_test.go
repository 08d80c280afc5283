package gateway

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/kiosk/go/internal/kiosk"
	"github.com/mcdev12/kiosk/go/internal/models"
	"github.com/mcdev12/kiosk/go/internal/tone"
)

// stubKiosk stands in for the controller and echoes what the real one would show
type stubKiosk struct {
	mu      sync.Mutex
	display *Display
	started []kiosk.StartRequest
	drops   []kiosk.Gesture
	opened  []string
	board   models.Board
}

func (k *stubKiosk) Start(ctx context.Context, req kiosk.StartRequest) error {
	k.mu.Lock()
	k.started = append(k.started, req)
	k.mu.Unlock()
	if req.Subject == "" || req.Section == "" {
		k.display.Alert(ctx, "Enter Subject and Section")
		return kiosk.ErrValidation
	}
	k.display.Render(models.EmptyBoard())
	return nil
}

func (k *stubKiosk) Reset(ctx context.Context, confirm kiosk.Confirmer) error {
	if !confirm.Confirm(ctx, "Reset session? This will mark all students as ABSENT.") {
		return kiosk.ErrNotConfirmed
	}
	k.display.Alert(ctx, "Session reset! All students are now absent.")
	return nil
}

func (k *stubKiosk) Stop(ctx context.Context, confirm kiosk.Confirmer) (*models.StopSummary, error) {
	if !confirm.Confirm(ctx, "Stop session and export PDF?") {
		return nil, kiosk.ErrNotConfirmed
	}
	return &models.StopSummary{}, nil
}

func (k *stubKiosk) Drop(ctx context.Context, g kiosk.Gesture) (kiosk.Action, error) {
	k.mu.Lock()
	k.drops = append(k.drops, g)
	k.mu.Unlock()
	action := kiosk.Classify(g)
	if action == kiosk.ActionMarkPresent {
		k.display.PlayCue(ctx, tone.CueDrag)
	}
	return action, nil
}

func (k *stubKiosk) Sections(context.Context) []string { return []string{"A", "B"} }

func (k *stubKiosk) Reports(context.Context) []models.Report {
	return []models.Report{{Filename: "r.pdf", Type: "pdf"}}
}

func (k *stubKiosk) OpenReport(_ context.Context, filename string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.opened = append(k.opened, filename)
	return nil
}

func (k *stubKiosk) Board() models.Board {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.board
}

type harness struct {
	service *Service
	kiosk   *stubKiosk
	synth   *tone.Synth
	server  *httptest.Server
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWithConfig(t, DefaultConfig())
}

func newHarnessWithConfig(t *testing.T, config Config) *harness {
	t.Helper()
	synth := tone.NewSynth()
	service := NewService(config, synth)
	k := &stubKiosk{display: service.Display(), board: models.EmptyBoard()}
	service.Bind(k)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go service.Start(ctx)

	mux := http.NewServeMux()
	service.RegisterRoutes(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &harness{service: service, kiosk: k, synth: synth, server: server}
}

func (h *harness) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(h.server.URL, "http") + "/ws/kiosk"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// greeting: board, sections, sound
	assert.Equal(t, MessageTypeBoard, read(t, conn).Type)
	assert.Equal(t, MessageTypeSections, read(t, conn).Type)
	assert.Equal(t, MessageTypeSound, read(t, conn).Type)
	return conn
}

func read(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

// readUntil skips messages until one of typ arrives
func readUntil(t *testing.T, conn *websocket.Conn, typ MessageType) Message {
	t.Helper()
	for {
		msg := read(t, conn)
		if msg.Type == typ {
			return msg
		}
	}
}

func decode[T any](t *testing.T, msg Message) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(msg.Data, &out))
	return out
}

func TestConnectSendsGreeting(t *testing.T) {
	h := newHarness(t)
	h.synth.SetVolume(0.45)
	url := "ws" + strings.TrimPrefix(h.server.URL, "http") + "/ws/kiosk"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	board := decode[models.Board](t, read(t, conn))
	assert.Equal(t, "0", board.Total)
	assert.Equal(t, models.Dash, board.LastScan)

	sections := decode[SectionsPayload](t, read(t, conn))
	assert.Equal(t, []string{"A", "B"}, sections.Sections)

	sound := decode[SoundPayload](t, read(t, conn))
	assert.Equal(t, SoundPayload{Enabled: true, Volume: 0.45}, sound)
}

func TestConnectionSurvivesPingPong(t *testing.T) {
	config := DefaultConfig()
	config.ConnectionConfig.PingInterval = 10 * time.Millisecond
	h := newHarnessWithConfig(t, config)
	conn := h.dial(t)

	var pings atomic.Int32
	conn.SetPingHandler(func(data string) error {
		pings.Add(1)
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
	})

	// control frames are only handled while reading
	require.NoError(t, conn.SetReadDeadline(time.Time{}))
	alerts := make(chan Message, 1)
	go func() {
		for {
			var msg Message
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if msg.Type == MessageTypeAlert {
				alerts <- msg
			}
		}
	}()

	require.Eventually(t, func() bool { return pings.Load() >= 5 }, 2*time.Second, 5*time.Millisecond)

	h.service.Display().Alert(context.Background(), "still here")
	select {
	case msg := <-alerts:
		assert.Equal(t, "still here", decode[AlertPayload](t, msg).Message)
	case <-time.After(2 * time.Second):
		t.Fatal("connection dropped after ping/pong")
	}
}

func TestStartValidationAlertsOnlySender(t *testing.T) {
	h := newHarness(t)
	sender := h.dial(t)
	other := h.dial(t)

	require.NoError(t, sender.WriteJSON(Command{Type: CommandStart, Start: &kiosk.StartRequest{Subject: "Physics"}}))

	alert := decode[AlertPayload](t, read(t, sender))
	assert.Equal(t, "Enter Subject and Section", alert.Message)

	ack := decode[AckPayload](t, read(t, sender))
	assert.Equal(t, CommandStart, ack.Command)
	assert.False(t, ack.OK)

	// the other page only sees what is broadcast next
	h.service.Display().Render(models.EmptyBoard())
	assert.Equal(t, MessageTypeBoard, read(t, other).Type)
}

func TestStartBroadcastsBoard(t *testing.T) {
	h := newHarness(t)
	sender := h.dial(t)
	other := h.dial(t)

	start := &kiosk.StartRequest{Subject: "Physics", Section: "B", StartTime: "09:00", EndTime: "10:00"}
	require.NoError(t, sender.WriteJSON(Command{Type: CommandStart, Start: start}))

	assert.Equal(t, MessageTypeBoard, read(t, other).Type)
	ack := decode[AckPayload](t, readUntil(t, sender, MessageTypeAck))
	assert.True(t, ack.OK)

	h.kiosk.mu.Lock()
	defer h.kiosk.mu.Unlock()
	assert.Equal(t, []kiosk.StartRequest{*start}, h.kiosk.started)
}

func TestUnconfirmedResetAsksForConfirmation(t *testing.T) {
	h := newHarness(t)
	conn := h.dial(t)

	require.NoError(t, conn.WriteJSON(Command{Type: CommandReset}))
	confirm := decode[ConfirmPayload](t, read(t, conn))
	assert.Equal(t, CommandReset, confirm.Command)
	assert.Equal(t, "Reset session? This will mark all students as ABSENT.", confirm.Prompt)

	ack := decode[AckPayload](t, read(t, conn))
	assert.False(t, ack.OK)

	require.NoError(t, conn.WriteJSON(Command{Type: CommandReset, Confirmed: true}))
	alert := decode[AlertPayload](t, read(t, conn))
	assert.Equal(t, "Session reset! All students are now absent.", alert.Message)
	assert.True(t, decode[AckPayload](t, read(t, conn)).OK)
}

func TestDropCommand(t *testing.T) {
	h := newHarness(t)
	conn := h.dial(t)

	require.NoError(t, conn.WriteJSON(Command{
		Type: CommandDrop,
		Drop: &DropCommand{Name: "A", RollNo: "12", From: models.RosterStatusWaiting, To: models.RosterStatusPresent},
	}))

	cue := decode[CuePayload](t, read(t, conn))
	assert.Equal(t, tone.CueDrag, cue.Name)
	assert.Equal(t, "/api/kiosk/cues/drag.wav", cue.URL)

	ack := decode[AckPayload](t, read(t, conn))
	assert.True(t, ack.OK)
	assert.Equal(t, string(kiosk.ActionMarkPresent), ack.Action)

	h.kiosk.mu.Lock()
	defer h.kiosk.mu.Unlock()
	assert.Equal(t, []kiosk.Gesture{{Name: "A", RollNo: "12", Source: models.RosterStatusWaiting, Target: models.RosterStatusPresent}}, h.kiosk.drops)
}

func TestSoundCommandMutesCues(t *testing.T) {
	h := newHarness(t)
	conn := h.dial(t)
	other := h.dial(t)

	off := false
	volume := 0.8
	require.NoError(t, conn.WriteJSON(Command{Type: CommandSound, Sound: &SoundCommand{Enabled: &off, Volume: &volume}}))
	assert.Equal(t, SoundPayload{Enabled: false, Volume: 0.8}, decode[SoundPayload](t, read(t, conn)))
	assert.True(t, decode[AckPayload](t, read(t, conn)).OK)
	assert.False(t, h.synth.Enabled())
	assert.Equal(t, 0.8, h.synth.Volume())

	// the other page's controls follow
	assert.Equal(t, SoundPayload{Enabled: false, Volume: 0.8}, decode[SoundPayload](t, read(t, other)))

	require.NoError(t, conn.WriteJSON(Command{
		Type: CommandDrop,
		Drop: &DropCommand{Name: "A", From: models.RosterStatusWaiting, To: models.RosterStatusPresent},
	}))
	// no cue ahead of the ack
	assert.Equal(t, MessageTypeAck, read(t, conn).Type)
}

func TestUnknownCommand(t *testing.T) {
	h := newHarness(t)
	conn := h.dial(t)

	require.NoError(t, conn.WriteJSON(Command{Type: "dance"}))
	ack := decode[AckPayload](t, read(t, conn))
	assert.False(t, ack.OK)
	assert.Contains(t, ack.Error, "unknown command")
}

func TestReportsAndOpenReport(t *testing.T) {
	h := newHarness(t)
	conn := h.dial(t)

	require.NoError(t, conn.WriteJSON(Command{Type: CommandReports}))
	reports := decode[ReportsPayload](t, read(t, conn))
	assert.Equal(t, "r.pdf", reports.Reports[0].Filename)
	read(t, conn)

	require.NoError(t, conn.WriteJSON(Command{Type: CommandOpenReport, Filename: "r.pdf"}))
	assert.True(t, decode[AckPayload](t, read(t, conn)).OK)

	h.kiosk.mu.Lock()
	defer h.kiosk.mu.Unlock()
	assert.Equal(t, []string{"r.pdf"}, h.kiosk.opened)
}

func TestBoardEndpoint(t *testing.T) {
	h := newHarness(t)
	h.kiosk.board.Visible = true
	h.kiosk.board.Total = "3"

	resp, err := http.Get(h.server.URL + "/api/kiosk/board")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var board models.Board
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&board))
	assert.True(t, board.Visible)
	assert.Equal(t, "3", board.Total)
}

func TestSectionsEndpoint(t *testing.T) {
	h := newHarness(t)

	resp, err := http.Get(h.server.URL + "/api/kiosk/sections")
	require.NoError(t, err)
	defer resp.Body.Close()

	var payload SectionsPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, []string{"A", "B"}, payload.Sections)
}

func TestCueEndpoint(t *testing.T) {
	h := newHarness(t)

	resp, err := http.Get(h.server.URL + "/api/kiosk/cues/scan.wav")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "audio/wav", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Greater(t, len(body), 44)
	assert.Equal(t, "RIFF", string(body[:4]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(body[22:24]))

	resp, err = http.Get(h.server.URL + "/api/kiosk/cues/nope.wav")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	h.synth.SetEnabled(false)
	resp, err = http.Get(h.server.URL + "/api/kiosk/cues/scan.wav")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestIndexPage(t *testing.T) {
	h := newHarness(t)

	resp, err := http.Get(h.server.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	page := string(body)
	assert.Contains(t, page, "/ws/kiosk")

	// setup and session controls follow the board, sound controls wait for the server
	assert.Contains(t, page, `$('setup').classList.toggle('hidden', board.visible)`)
	assert.Contains(t, page, `$('controls').classList.toggle('hidden', !board.visible)`)
	assert.Contains(t, page, "sound: renderSound")
	assert.Contains(t, page, `<input type="checkbox" id="sound" disabled>`)
	assert.NotContains(t, page, `value="0.3"`)
}

func TestConnectionStats(t *testing.T) {
	h := newHarness(t)
	h.dial(t)

	require.Eventually(t, func() bool {
		return h.service.GetStats()["total_connections"] == 1
	}, time.Second, 10*time.Millisecond)
}
