package controller

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/moonwalk/internal/games/moonwalk"
)

type jumpCounter struct {
	mu sync.Mutex
	n  int
}

func (j *jumpCounter) jump() {
	j.mu.Lock()
	j.n++
	j.mu.Unlock()
}

func (j *jumpCounter) count() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.n
}

func newTestServer() (*Server, *moonwalk.TiltFilter, *jumpCounter) {
	tilt := moonwalk.NewTiltFilter()
	jumps := &jumpCounter{}
	return New(tilt, jumps.jump, log.New(io.Discard)), tilt, jumps
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestIndexPage(t *testing.T) {
	s, _, _ := newTestServer()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET / = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "devicemotion") {
		t.Error("page should stream device motion")
	}
}

func TestHealth(t *testing.T) {
	s, _, _ := newTestServer()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/v1/health = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("health body is not JSON: %v", err)
	}
	if body["status"] != "ok" || body["clients"] != float64(0) {
		t.Errorf("unexpected health body %v", body)
	}
}

func TestDispatch(t *testing.T) {
	s, tilt, jumps := newTestServer()

	tests := []struct {
		msg      Message
		accepted bool
		tilt     float64
	}{
		{Message{Type: MsgTilt, Value: 1}, true, -1},
		{Message{Type: MsgTilt, Value: math.NaN()}, false, -1},
		{Message{Type: MsgTilt, Value: math.Inf(1)}, false, -1},
		{Message{Type: MsgTilt, Value: 100}, true, -3.5}, // clamped to 4: -4 + -1*-0.5
		{Message{Type: MsgJump}, true, -3.5},
		{Message{Type: "spin"}, false, -3.5},
	}

	for i, tc := range tests {
		if got := s.dispatch(tc.msg); got != tc.accepted {
			t.Errorf("frame %d (%s): accepted = %v, expected %v", i, tc.msg.Type, got, tc.accepted)
		}
		if tilt.Value() != tc.tilt {
			t.Errorf("frame %d: tilt = %v, expected %v", i, tilt.Value(), tc.tilt)
		}
	}
	if jumps.count() != 1 {
		t.Errorf("jumps = %d, expected 1", jumps.count())
	}
}

func TestWebSocketStream(t *testing.T) {
	s, tilt, jumps := newTestServer()
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}

	waitFor(t, "client registration", func() bool { return s.clients.Load() == 1 })

	frames := []string{
		`{"type":"tilt","value":0.5}`,
		`not json`,
		`{"type":"jump"}`,
		`{"type":"jump"}`,
	}
	for _, f := range frames {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}

	waitFor(t, "two jumps", func() bool { return jumps.count() == 2 })
	if tilt.Value() != -0.5 {
		t.Errorf("tilt = %v, expected -0.5", tilt.Value())
	}
	if s.samples.Load() != 1 {
		t.Errorf("samples = %d, expected 1", s.samples.Load())
	}

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()
	waitFor(t, "client removal", func() bool { return s.clients.Load() == 0 })
}
