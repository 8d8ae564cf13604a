// Package event defines what flows into the task controller (events from
// keyboard, clock, model bridge and eye tracker) and what flows out of it
// (notifications for presenters and recorders), plus the fan-in queue
// that serializes producers onto the controller goroutine.
package event

import (
	"fmt"

	"github.com/vovakirdan/snake-task/internal/clock"
	"github.com/vovakirdan/snake-task/internal/core"
)

// Event is an inbound event. The set is closed; the controller switches
// over the concrete types.
type Event interface {
	event()
}

// Source identifies the producer that pushed an event.
type Source int

const (
	SourceSystem Source = iota
	SourceKeyboard
	SourceClock
	SourceModel
	SourceEyetracker
)

// String returns a human-readable name for the source.
func (s Source) String() string {
	switch s {
	case SourceSystem:
		return "system"
	case SourceKeyboard:
		return "keyboard"
	case SourceClock:
		return "clock"
	case SourceModel:
		return "model"
	case SourceEyetracker:
		return "eyetracker"
	default:
		return "unknown"
	}
}

// KeyEvent is a key press from a human or from the model.
type KeyEvent struct {
	Key core.KeyCode
}

func (KeyEvent) event() {}

// ModelKind is a cognitive model lifecycle transition.
type ModelKind int

const (
	ModelConnectionMade ModelKind = iota + 1
	ModelConnectionLost
	ModelReset
	ModelRun
	ModelStop
)

// String returns the wire name of the lifecycle kind.
func (k ModelKind) String() string {
	switch k {
	case ModelConnectionMade:
		return "connection-made"
	case ModelConnectionLost:
		return "connection-lost"
	case ModelReset:
		return "reset"
	case ModelRun:
		return "model-run"
	case ModelStop:
		return "model-stop"
	default:
		return "unknown"
	}
}

// ParseModelKind accepts both dashed and camel-cased lifecycle names.
func ParseModelKind(name string) (ModelKind, bool) {
	switch name {
	case "connection-made", "connectionMade":
		return ModelConnectionMade, true
	case "connection-lost", "connectionLost":
		return ModelConnectionLost, true
	case "reset":
		return ModelReset, true
	case "model-run", "modelRun":
		return ModelRun, true
	case "model-stop", "modelStop":
		return ModelStop, true
	default:
		return 0, false
	}
}

// ModelEvent reports a lifecycle change of the model bridge.
type ModelEvent struct {
	Kind   ModelKind
	Model  string
	Params map[string]any
}

func (ModelEvent) event() {}

// GazeKind classifies a gaze sample.
type GazeKind int

const (
	GazeFixation GazeKind = iota + 1
	GazeSaccade
	GazeSample
	// GazeModelLocation and GazeAttention come from the model's simulated eyes.
	GazeModelLocation
	GazeAttention
)

// String returns a human-readable name for the gaze kind.
func (k GazeKind) String() string {
	switch k {
	case GazeFixation:
		return "fixation"
	case GazeSaccade:
		return "saccade"
	case GazeSample:
		return "sample"
	case GazeModelLocation:
		return "gaze-loc"
	case GazeAttention:
		return "attention-loc"
	default:
		return "unknown"
	}
}

// GazeEvent is a gaze sample. It never changes controller state.
type GazeEvent struct {
	Kind    GazeKind
	X, Y    float64
	Payload map[string]any
}

func (GazeEvent) event() {}

// TickEvent is delivered when a scheduled tick elapses.
type TickEvent struct {
	Token clock.Token
}

func (TickEvent) event() {}

// SessionStartEvent asks an idle controller to begin the session.
type SessionStartEvent struct {
	Player string
}

func (SessionStartEvent) event() {}

// CalibrationEvent reports the result of an eye tracker calibration.
type CalibrationEvent struct {
	Succeeded bool
}

func (CalibrationEvent) event() {}

// TrackerEvent reports the eye tracker stream coming up or going away.
type TrackerEvent struct {
	Connected bool
	Reason    string
}

func (TrackerEvent) event() {}

// UnknownEvent carries producer input that could not be classified.
type UnknownEvent struct {
	Tag     string
	Payload any
}

func (UnknownEvent) event() {}

// Describe returns a short tag for logs and recordings.
func Describe(e Event) string {
	switch ev := e.(type) {
	case KeyEvent:
		return "key:" + ev.Key.String()
	case ModelEvent:
		return "model:" + ev.Kind.String()
	case GazeEvent:
		return "gaze:" + ev.Kind.String()
	case TickEvent:
		return fmt.Sprintf("tick:%d", ev.Token)
	case SessionStartEvent:
		return "session-start"
	case CalibrationEvent:
		return fmt.Sprintf("calibration:%t", ev.Succeeded)
	case TrackerEvent:
		return fmt.Sprintf("tracker:%t", ev.Connected)
	case UnknownEvent:
		return "unknown:" + ev.Tag
	default:
		return fmt.Sprintf("%T", e)
	}
}
