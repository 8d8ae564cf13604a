// Package bridge connects external producers to the task: a cognitive
// model over WebSocket and an eye tracker over UDP. Both translate their
// wire input into events and push them into the intake; neither touches
// game state.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/snake-task/internal/core"
	"github.com/vovakirdan/snake-task/internal/event"
	"github.com/vovakirdan/snake-task/internal/registry"
)

// ErrAlreadyConnected is returned to a second model trying to attach.
var ErrAlreadyConnected = errors.New("bridge: a model is already connected")

const (
	writeTimeout   = 5 * time.Second
	outboundBuffer = 128
)

func init() {
	registry.Register(registry.Player{
		ID:               "actr",
		Title:            "ACT-R",
		Description:      "Cognitive model playing through the model bridge",
		NeedsModelBridge: true,
	})
}

// Pusher accepts events for the controller. *event.Intake implements it.
type Pusher interface {
	Push(src event.Source, e event.Event) bool
}

// Frame is the JSON message exchanged with the model.
type Frame struct {
	Method string         `json:"method"`
	Model  string         `json:"model,omitempty"`
	Params map[string]any `json:"params,omitempty"`
}

// ModelBridge accepts one model connection at a time. Inbound frames
// become events; notifications are written back to the model.
type ModelBridge struct {
	intake   Pusher
	path     string
	log      *log.Logger
	upgrader websocket.Upgrader

	mu   sync.Mutex
	busy bool
	conn *websocket.Conn
	out  chan []byte
}

// NewModelBridge creates a bridge serving the WebSocket endpoint at path.
func NewModelBridge(intake Pusher, path string, logger *log.Logger) *ModelBridge {
	if path == "" {
		path = "/bridge"
	}
	return &ModelBridge{
		intake: intake,
		path:   path,
		log:    logger.With("component", "model-bridge"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP routes of the bridge.
func (b *ModelBridge) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", b.health)
	r.Get(b.path, b.serveModel)
	return r
}

// ListenAndServe serves the bridge on addr until ctx is done.
func (b *ModelBridge) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           b.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		b.log.Info("model bridge listening", "addr", addr, "path", b.path)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		b.Close()
		if err != nil {
			return fmt.Errorf("bridge: shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("bridge: listen on %s: %w", addr, err)
	}
}

// Connected reports whether a model is attached.
func (b *ModelBridge) Connected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conn != nil
}

// Close drops the current model connection, if any.
func (b *ModelBridge) Close() {
	b.mu.Lock()
	conn := b.conn
	b.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
}

// Notify forwards display-relevant notifications to the model. When the
// outbound buffer is full the oldest frame is dropped.
func (b *ModelBridge) Notify(n event.Notification) {
	frame, ok := EncodeNotification(n)
	if !ok {
		return
	}
	data, err := json.Marshal(frame)
	if err != nil {
		b.log.Warn("cannot encode notification", "method", frame.Method, "err", err)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.out == nil {
		return
	}

	select {
	case b.out <- data:
		return
	default:
	}
	select {
	case <-b.out:
	default:
	}
	select {
	case b.out <- data:
	default:
	}
}

func (b *ModelBridge) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (b *ModelBridge) serveModel(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	if b.busy {
		b.mu.Unlock()
		http.Error(w, ErrAlreadyConnected.Error(), http.StatusConflict)
		return
	}
	b.busy = true
	b.mu.Unlock()

	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.log.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		b.mu.Lock()
		b.busy = false
		b.mu.Unlock()
		return
	}

	out := make(chan []byte, outboundBuffer)
	b.mu.Lock()
	b.conn = conn
	b.out = out
	b.mu.Unlock()

	b.log.Info("model connected", "remote", r.RemoteAddr)
	b.intake.Push(event.SourceModel, event.ModelEvent{Kind: event.ModelConnectionMade})

	go b.writeLoop(conn, out)
	err = b.readLoop(conn)
	b.drop(conn)

	b.log.Info("model disconnected", "remote", r.RemoteAddr, "err", err)
	b.intake.Push(event.SourceModel, event.ModelEvent{Kind: event.ModelConnectionLost})
}

func (b *ModelBridge) readLoop(conn *websocket.Conn) error {
	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if messageType != websocket.TextMessage {
			b.intake.Push(event.SourceModel, event.UnknownEvent{Tag: "binary", Payload: len(data)})
			continue
		}

		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			b.intake.Push(event.SourceModel, event.UnknownEvent{Tag: "malformed", Payload: string(data)})
			continue
		}
		b.intake.Push(event.SourceModel, DecodeFrame(frame))
	}
}

func (b *ModelBridge) writeLoop(conn *websocket.Conn, out <-chan []byte) {
	for data := range out {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			b.log.Warn("write to model failed", "err", err)
			conn.Close()
			return
		}
	}
}

func (b *ModelBridge) drop(conn *websocket.Conn) {
	b.mu.Lock()
	if b.conn == conn {
		close(b.out)
		b.conn = nil
		b.out = nil
		b.busy = false
	}
	b.mu.Unlock()
	conn.Close()
}

// DecodeFrame translates a model frame into an inbound event.
func DecodeFrame(f Frame) event.Event {
	if kind, ok := event.ParseModelKind(f.Method); ok {
		return event.ModelEvent{Kind: kind, Model: f.Model, Params: f.Params}
	}

	switch f.Method {
	case "gaze-loc", "attention-loc":
		kind := event.GazeModelLocation
		if f.Method == "attention-loc" {
			kind = event.GazeAttention
		}
		x, okX := number(f.Params["x"])
		y, okY := number(f.Params["y"])
		if !okX || !okY {
			return event.UnknownEvent{Tag: f.Method, Payload: f.Params}
		}
		return event.GazeEvent{Kind: kind, X: x, Y: y, Payload: f.Params}
	case "keypress":
		name, _ := f.Params["key"].(string)
		key := core.ParseKeyCode(name)
		if key == core.KeyNone {
			return event.UnknownEvent{Tag: "keypress", Payload: f.Params}
		}
		return event.KeyEvent{Key: key}
	default:
		return event.UnknownEvent{Tag: f.Method, Payload: f.Params}
	}
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// EncodeNotification maps a notification to the frame the model sees.
// Notifications the model has no use for return false.
func EncodeNotification(n event.Notification) (Frame, bool) {
	switch ev := n.(type) {
	case event.GameStarted:
		return Frame{Method: "game-started", Params: map[string]any{"game": ev.Game, "board_size": ev.BoardSize}}, true
	case event.SegmentsChanged:
		return Frame{Method: "segments-changed", Params: map[string]any{"cells": cellPairs(ev.Cells)}}, true
	case event.FoodSpawned:
		return Frame{Method: "food-spawned", Params: map[string]any{"cell": [2]int{ev.Cell.Col, ev.Cell.Row}}}, true
	case event.ScoreChanged:
		return Frame{Method: "score-changed", Params: map[string]any{"score": ev.Score}}, true
	case event.GameOver:
		return Frame{Method: "game-over", Params: map[string]any{"score": ev.Score, "outcome": ev.Outcome.String()}}, true
	case event.StateChanged:
		return Frame{Method: "state-changed", Params: map[string]any{"from": ev.From, "to": ev.To}}, true
	default:
		return Frame{}, false
	}
}

func cellPairs(cells []core.Cell) [][2]int {
	out := make([][2]int, len(cells))
	for i, c := range cells {
		out[i] = [2]int{c.Col, c.Row}
	}
	return out
}
