package web

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-tangible/pkg/hub"
	"github.com/teslashibe/go-tangible/pkg/journal"
	"github.com/teslashibe/go-tangible/pkg/metrics"
	"github.com/teslashibe/go-tangible/pkg/protocol"
	"github.com/teslashibe/go-tangible/pkg/surface"
	"github.com/teslashibe/go-tangible/pkg/tangible"
)

type testEnv struct {
	server  *Server
	events  *hub.Hub
	journal *journal.Journal
}

func newTestServer(t *testing.T) *testEnv {
	t.Helper()

	events := hub.New("events", nil)
	b := NewBroadcaster(events, nil)
	collector := metrics.New()
	mgr, err := tangible.NewManager(
		tangible.WithSink(tangible.MultiSink{b, collector}),
		tangible.WithWhitelistDisabled(true),
		tangible.WithAcceptPolicy(tangible.AcceptUnique),
	)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	b.Attach(mgr)

	j, err := journal.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { j.Close() })

	srv := NewServer(surface.New(mgr, nil), events,
		WithMetrics(collector),
		WithJournal(j, "test"),
	)
	return &testEnv{server: srv, events: events, journal: j}
}

// serve starts the server on a loopback port and returns its address.
func (e *testEnv) serve(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		e.server.Serve(ctx, ln)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return ln.Addr().String()
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	var conn *websocket.Conn
	var err error
	for i := 0; i < 50; i++ {
		conn, _, err = websocket.DefaultDialer.Dial(url, nil)
		if err == nil {
			t.Cleanup(func() { conn.Close() })
			return conn
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("dial %s: %v", url, err)
	return nil
}

func send(t *testing.T, conn *websocket.Conn, msg *protocol.Message, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("build message: %v", err)
	}
	data, err := msg.Bytes()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func read(t *testing.T, conn *websocket.Conn) *protocol.Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	msg, err := protocol.ParseMessage(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return msg
}

func TestWhitelistAPI(t *testing.T) {
	env := newTestServer(t)
	app := env.server.App()

	tests := []struct {
		name string
		body string
		want int
	}{
		{"created", `{"identifier":"corner","points":[[0,10],[0,0],[10,0]]}`, 201},
		{"identifier taken", `{"identifier":"corner","points":[[0,0],[40,0],[10,25]]}`, 409},
		{"similar pattern", `{"identifier":"other","points":[[50,60],[50,50],[60,50]]}`, 409},
		{"two points", `{"identifier":"x","points":[[0,0],[1,1]]}`, 400},
		{"collinear", `{"identifier":"x","points":[[0,0],[1,1],[2,2]]}`, 400},
		{"no identifier", `{"identifier":"","points":[[0,0],[40,0],[10,25]]}`, 400},
		{"bad json", `{"identifier":`, 400},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/whitelist", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			if resp.StatusCode != tc.want {
				body, _ := io.ReadAll(resp.Body)
				t.Errorf("status = %d, want %d (%s)", resp.StatusCode, tc.want, body)
			}
		})
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/api/whitelist", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	var entries []WhitelistEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 1 || entries[0].Identifier != "corner" {
		t.Errorf("whitelist = %+v, want [corner]", entries)
	}
}

func TestStatusAndMetrics(t *testing.T) {
	env := newTestServer(t)
	app := env.server.App()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/status", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	var status StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.Policy != "unique" || status.Tangibles.Complete != 0 {
		t.Errorf("status = %+v", status)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("/health status = %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("/metrics status = %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/ws/events", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 426 {
		t.Errorf("/ws/events without upgrade = %d, want 426", resp.StatusCode)
	}
}

func TestTouchToEvents(t *testing.T) {
	env := newTestServer(t)
	addr := env.serve(t)

	events := dial(t, "ws://"+addr+"/ws/events")
	for i := 0; env.events.ClientCount() == 0 && i < 100; i++ {
		time.Sleep(10 * time.Millisecond)
	}
	if env.events.ClientCount() != 1 {
		t.Fatal("event client never registered")
	}

	pad := dial(t, "ws://"+addr+"/ws/touch/pad")
	points := [][2]float64{{100, 110}, {100, 100}, {110, 100}}
	for i, p := range points {
		id := string(rune('a' + i))
		msg, err := protocol.NewTouchMessage(protocol.PhaseBegan, id, p[0], p[1], 5)
		send(t, pad, msg, err)
	}

	// ping answers prove every touch before it was applied
	ping, err := protocol.NewPingMessage("p1")
	send(t, pad, ping, err)
	pong := read(t, pad)
	if pong.Type != protocol.TypePong {
		t.Fatalf("got %s, want pong", pong.Type)
	}

	var seen []protocol.MessageType
	var active *protocol.EventData
	for active == nil && len(seen) < 10 {
		msg := read(t, events)
		seen = append(seen, msg.Type)
		if msg.Type == protocol.TypeTangibleActive {
			if active, err = msg.GetEventData(); err != nil {
				t.Fatalf("event data: %v", err)
			}
		}
	}
	if active == nil {
		t.Fatalf("no tangible_active in %v", seen)
	}
	if active.Tangible.State != "complete" || len(active.Tangible.Markers) != 3 {
		t.Errorf("tangible = %+v", active.Tangible)
	}

	resp, err := env.server.App().Test(httptest.NewRequest("GET", "/api/tangibles", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	var states []protocol.TangibleState
	if err := json.NewDecoder(resp.Body).Decode(&states); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(states) != 1 || states[0].ID != active.Tangible.ID {
		t.Errorf("tangibles = %+v", states)
	}

	var recorded int
	if err := env.journal.Replay("test", func(journal.TouchEvent) error {
		recorded++
		return nil
	}); err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if recorded != len(points) {
		t.Errorf("journal has %d touches, want %d", recorded, len(points))
	}
}

func TestTouchErrors(t *testing.T) {
	env := newTestServer(t)
	addr := env.serve(t)
	pad := dial(t, "ws://"+addr+"/ws/touch/pad")

	msg, err := protocol.NewTouchMessage(protocol.PhaseMoved, "ghost", 1, 1, 5)
	send(t, pad, msg, err)
	reply := read(t, pad)
	if reply.Type != protocol.TypeError {
		t.Fatalf("got %s, want error", reply.Type)
	}
	data, err := reply.GetErrorData()
	if err != nil || !strings.Contains(data.Message, "unknown touch") {
		t.Errorf("error data = %+v, %v", data, err)
	}

	if err := pad.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if reply := read(t, pad); reply.Type != protocol.TypeError {
		t.Errorf("got %s, want error", reply.Type)
	}

	if got := env.server.Sources().Stats().TouchErrors; got != 1 {
		t.Errorf("TouchErrors = %d, want 1", got)
	}

	dup := dial(t, "ws://"+addr+"/ws/touch/pad")
	if reply := read(t, dup); reply.Type != protocol.TypeError {
		t.Errorf("duplicate source got %s, want error", reply.Type)
	}
}

func TestSourceDisconnectCancelsTouches(t *testing.T) {
	env := newTestServer(t)
	addr := env.serve(t)

	pad := dial(t, "ws://"+addr+"/ws/touch/pad")
	msg, err := protocol.NewTouchMessage(protocol.PhaseBegan, "a", 300, 300, 5)
	send(t, pad, msg, err)
	ping, err := protocol.NewPingMessage("p")
	send(t, pad, ping, err)
	read(t, pad)

	if got := env.server.surface.Touches(); got != 1 {
		t.Fatalf("Touches() = %d, want 1", got)
	}
	pad.Close()

	for i := 0; env.server.surface.Touches() != 0 && i < 100; i++ {
		time.Sleep(10 * time.Millisecond)
	}
	if got := env.server.surface.Touches(); got != 0 {
		t.Errorf("Touches() = %d after disconnect, want 0", got)
	}
}
