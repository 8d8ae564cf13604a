package task

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("task: invalid config")

// Config is fixed for the lifetime of a controller.
type Config struct {
	HasModelBridge bool
	HasEyetracker  bool

	BoardSize       int
	InitialLength   int
	InitialInterval time.Duration // Tick interval at the start of a game
	SpawnDelay      time.Duration // Delay before the first tick of a game
	SpeedDecay      float64       // Interval multiplier per food eaten
	MinInterval     time.Duration // Floor for the decaying interval
	SpawnAttempts   int           // Food sampling cap; 0 derives one from the board
	Seed            int64         // RNG seed for food placement

	// CellSize is the display size of one cell in gaze coordinates, used
	// to map gaze samples onto the board. Zero disables the mapping.
	CellSize float64
}

// DefaultConfig returns the standard experiment settings.
func DefaultConfig() Config {
	return Config{
		BoardSize:       41,
		InitialLength:   3,
		InitialInterval: 100 * time.Millisecond,
		SpawnDelay:      2 * time.Second,
		SpeedDecay:      0.99,
		MinInterval:     20 * time.Millisecond,
		CellSize:        10,
	}
}

// Validate checks the config for values the controller cannot run with.
func (c Config) Validate() error {
	switch {
	case c.BoardSize < 7 || c.BoardSize%2 == 0:
		return fmt.Errorf("%w: board size %d must be odd and at least 7", ErrInvalidConfig, c.BoardSize)
	case c.InitialLength < 3 || c.InitialLength > c.BoardSize/2+1:
		return fmt.Errorf("%w: initial length %d does not fit a %d board", ErrInvalidConfig, c.InitialLength, c.BoardSize)
	case c.InitialInterval <= 0:
		return fmt.Errorf("%w: initial interval must be positive", ErrInvalidConfig)
	case c.SpawnDelay < 0:
		return fmt.Errorf("%w: spawn delay must not be negative", ErrInvalidConfig)
	case c.SpeedDecay <= 0 || c.SpeedDecay > 1:
		return fmt.Errorf("%w: speed decay %v outside (0, 1]", ErrInvalidConfig, c.SpeedDecay)
	case c.MinInterval < 0 || c.MinInterval > c.InitialInterval:
		return fmt.Errorf("%w: min interval %v outside [0, %v]", ErrInvalidConfig, c.MinInterval, c.InitialInterval)
	case c.SpawnAttempts < 0:
		return fmt.Errorf("%w: spawn attempts must not be negative", ErrInvalidConfig)
	case c.CellSize < 0:
		return fmt.Errorf("%w: cell size must not be negative", ErrInvalidConfig)
	}
	return nil
}
