package event

import (
	"github.com/vovakirdan/snake-task/internal/core"
	"github.com/vovakirdan/snake-task/internal/snake"
)

// Notification is emitted by the controller for presenters, the model
// bridge and the history recorder.
type Notification interface {
	notification()
}

// StateChanged is emitted on every FSM transition.
type StateChanged struct {
	From string
	To   string
}

func (StateChanged) notification() {}

// WaitingForConnection asks the presenter to show the connection scrim.
type WaitingForConnection struct{}

func (WaitingForConnection) notification() {}

// WaitingForModelRun asks the presenter to show the model-run scrim.
type WaitingForModelRun struct{}

func (WaitingForModelRun) notification() {}

// ModelReady is emitted when the model starts running.
type ModelReady struct {
	Model string
}

func (ModelReady) notification() {}

// CalibrationRequested asks the eye tracker collaborator to calibrate.
type CalibrationRequested struct {
	Attempt int
}

func (CalibrationRequested) notification() {}

// GameStarted is emitted when a fresh game enters PLAY.
type GameStarted struct {
	Game      int
	BoardSize int
}

func (GameStarted) notification() {}

// SegmentsChanged carries the full body after a move, head first.
type SegmentsChanged struct {
	Cells []core.Cell
}

func (SegmentsChanged) notification() {}

// FoodSpawned carries the new food cell.
type FoodSpawned struct {
	Cell core.Cell
}

func (FoodSpawned) notification() {}

// ScoreChanged carries the new score.
type ScoreChanged struct {
	Score int
}

func (ScoreChanged) notification() {}

// GameOver is emitted when the snake hits a wall or itself.
type GameOver struct {
	Game    int
	Score   int
	Ticks   int
	Outcome snake.MoveOutcome
}

func (GameOver) notification() {}

// GameAborted is emitted when the model goes away mid-game.
type GameAborted struct {
	Game   int
	Score  int
	Ticks  int
	Reason string
}

func (GameAborted) notification() {}

// TrackerStatus mirrors TrackerEvent for presenters.
type TrackerStatus struct {
	Connected bool
}

func (TrackerStatus) notification() {}

// GazeObserved forwards a gaze sample together with the state it arrived
// in. Cell is the board cell under the gaze when OnBoard is set.
type GazeObserved struct {
	Gaze    GazeEvent
	State   string
	Cell    core.Cell
	OnBoard bool
}

func (GazeObserved) notification() {}
