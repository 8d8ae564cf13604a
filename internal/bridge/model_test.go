package bridge

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/snake-task/internal/core"
	"github.com/vovakirdan/snake-task/internal/event"
	"github.com/vovakirdan/snake-task/internal/snake"
)

type chanPusher struct {
	ch chan event.Event
}

func newChanPusher() *chanPusher {
	return &chanPusher{ch: make(chan event.Event, 64)}
}

func (p *chanPusher) Push(_ event.Source, e event.Event) bool {
	p.ch <- e
	return true
}

func (p *chanPusher) next(t *testing.T) event.Event {
	t.Helper()
	select {
	case e := <-p.ch:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("no event pushed")
		return nil
	}
}

func TestDecodeFrame(t *testing.T) {
	tests := []struct {
		name     string
		frame    Frame
		expected string
	}{
		{"lifecycle dashed", Frame{Method: "model-run", Model: "snake"}, "model:model-run"},
		{"lifecycle camel", Frame{Method: "connectionLost"}, "model:connection-lost"},
		{"reset", Frame{Method: "reset"}, "model:reset"},
		{"gaze", Frame{Method: "gaze-loc", Params: map[string]any{"x": 10.0, "y": 20.0}}, "gaze:gaze-loc"},
		{"attention", Frame{Method: "attention-loc", Params: map[string]any{"x": 1.0, "y": 2.0}}, "gaze:attention-loc"},
		{"gaze without position", Frame{Method: "gaze-loc"}, "unknown:gaze-loc"},
		{"keypress", Frame{Method: "keypress", Params: map[string]any{"key": "left"}}, "key:LEFT"},
		{"bad key", Frame{Method: "keypress", Params: map[string]any{"key": "f1"}}, "unknown:keypress"},
		{"mouse", Frame{Method: "mouseclick"}, "unknown:mouseclick"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := event.Describe(DecodeFrame(tc.frame)); got != tc.expected {
				t.Errorf("DecodeFrame() = %q, expected %q", got, tc.expected)
			}
		})
	}
}

func TestDecodeFrameCarriesModel(t *testing.T) {
	ev, ok := DecodeFrame(Frame{Method: "model-run", Model: "snake-v2"}).(event.ModelEvent)
	if !ok || ev.Model != "snake-v2" {
		t.Errorf("DecodeFrame() = %#v, expected model snake-v2", ev)
	}
}

func TestEncodeNotification(t *testing.T) {
	frame, ok := EncodeNotification(event.SegmentsChanged{Cells: []core.Cell{{Col: 3, Row: 4}, {Col: 3, Row: 3}}})
	if !ok || frame.Method != "segments-changed" {
		t.Fatalf("EncodeNotification() = %+v, %v", frame, ok)
	}
	data, err := json.Marshal(frame)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"cells":[[3,4],[3,3]]`) {
		t.Errorf("encoded frame = %s", data)
	}

	over, _ := EncodeNotification(event.GameOver{Score: 3, Outcome: snake.HitSelf})
	if over.Params["outcome"] != "HIT_SELF" {
		t.Errorf("game-over outcome = %v", over.Params["outcome"])
	}

	if _, ok := EncodeNotification(event.GazeObserved{}); ok {
		t.Error("gaze should not be echoed to the model")
	}
}

func TestHealth(t *testing.T) {
	b := NewModelBridge(newChanPusher(), "", log.New(io.Discard))
	req := httptest.NewRequest("GET", "/healthz", nil)
	rr := httptest.NewRecorder()
	b.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Errorf("GET /healthz = %d %q", rr.Code, rr.Body.String())
	}
}

func TestModelSession(t *testing.T) {
	pusher := newChanPusher()
	b := NewModelBridge(pusher, "/bridge", log.New(io.Discard))
	srv := httptest.NewServer(b.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/bridge"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}

	if got := event.Describe(pusher.next(t)); got != "model:connection-made" {
		t.Fatalf("first event = %q, expected connection-made", got)
	}
	if !b.Connected() {
		t.Error("Connected() = false with a model attached")
	}

	// A second model is turned away.
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("second Dial() should fail")
	}
	if resp == nil || resp.StatusCode != http.StatusConflict {
		t.Errorf("second Dial() response = %v, expected 409", resp)
	}

	if err := conn.WriteJSON(Frame{Method: "model-run", Model: "snake"}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	if got := event.Describe(pusher.next(t)); got != "model:model-run" {
		t.Errorf("event = %q, expected model-run", got)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}
	if got := event.Describe(pusher.next(t)); got != "unknown:malformed" {
		t.Errorf("event = %q, expected unknown:malformed", got)
	}

	b.Notify(event.ScoreChanged{Score: 4})
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame Frame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if frame.Method != "score-changed" || frame.Params["score"] != 4.0 {
		t.Errorf("frame = %+v, expected score-changed 4", frame)
	}

	conn.Close()
	if got := event.Describe(pusher.next(t)); got != "model:connection-lost" {
		t.Errorf("event = %q, expected connection-lost", got)
	}
}
