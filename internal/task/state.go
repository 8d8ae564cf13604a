package task

// State is a controller FSM state.
type State int

const (
	StateInit State = iota
	StateWaitModelConnection
	StateWaitModelRun
	StateCalibrate
	StateIgnoreInput
	StatePlay
	StateGameOver
)

// String returns the state name as it appears in logs and recordings.
func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateWaitModelConnection:
		return "WAIT_MODEL_CONNECTION"
	case StateWaitModelRun:
		return "WAIT_MODEL_RUN"
	case StateCalibrate:
		return "CALIBRATE"
	case StateIgnoreInput:
		return "IGNORE_INPUT"
	case StatePlay:
		return "PLAY"
	case StateGameOver:
		return "GAME_OVER"
	default:
		return "UNKNOWN"
	}
}
