package task

import (
	"time"

	"github.com/vovakirdan/snake-task/internal/core"
)

// Snapshot is a copy of the controller's observable state.
type Snapshot struct {
	State    State
	Game     int
	Score    int
	Ticks    int
	Heading  core.Heading
	Cells    []core.Cell
	Food     *core.Cell
	Interval time.Duration
	Ready    bool
}

// Snapshot returns the current state. It must be called from the
// goroutine that runs the controller, or after Run has returned.
func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{
		State:    c.state,
		Game:     c.games,
		Score:    c.score,
		Ticks:    c.ticks,
		Heading:  c.heading,
		Interval: c.pace.Interval,
		Ready:    c.ready,
	}
	if c.body != nil {
		s.Cells = c.body.Cells()
	}
	if c.food != nil {
		f := *c.food
		s.Food = &f
	}
	return s
}
