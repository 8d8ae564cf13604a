// Package snake implements the snake body and food placement on the grid.
// Nothing here knows about timing or input; the task controller drives it.
package snake

import (
	"fmt"

	"github.com/vovakirdan/snake-task/internal/core"
)

// MoveOutcome is the result of advancing the body by one cell.
type MoveOutcome int

const (
	Moved MoveOutcome = iota
	AteFood
	HitWall
	HitSelf
)

// String returns a human-readable name for the outcome.
func (o MoveOutcome) String() string {
	switch o {
	case Moved:
		return "MOVED"
	case AteFood:
		return "ATE_FOOD"
	case HitWall:
		return "HIT_WALL"
	case HitSelf:
		return "HIT_SELF"
	default:
		return "UNKNOWN"
	}
}

// Fatal reports whether the outcome ends the game.
func (o MoveOutcome) Fatal() bool {
	return o == HitWall || o == HitSelf
}

// Body is the ordered list of occupied cells, head at index 0.
// Cells are pairwise distinct for as long as the body is alive.
type Body struct {
	grid  core.Grid
	cells []core.Cell
}

// NewBody lays out length cells starting at head and trailing away from heading.
func NewBody(grid core.Grid, head core.Cell, length int, heading core.Heading) (*Body, error) {
	if length < 1 {
		return nil, fmt.Errorf("snake: invalid length %d", length)
	}
	dc, dr := heading.Opposite().Delta()
	if dc == 0 && dr == 0 {
		return nil, fmt.Errorf("snake: invalid heading %v", heading)
	}

	cells := make([]core.Cell, length)
	for i := range cells {
		c := head.Add(dc*i, dr*i)
		if !grid.Contains(c) {
			return nil, fmt.Errorf("snake: cell %v of initial body is off the board", c)
		}
		cells[i] = c
	}
	return &Body{grid: grid, cells: cells}, nil
}

// Spawn creates the standard opening body: three cells at the board
// center heading up.
func Spawn(grid core.Grid, length int) (*Body, error) {
	return NewBody(grid, grid.Center(), length, core.HeadingUp)
}

// Head returns the head cell.
func (b *Body) Head() core.Cell {
	return b.cells[0]
}

// Len returns the number of cells.
func (b *Body) Len() int {
	return len(b.cells)
}

// Cells returns a copy of the body, head first.
func (b *Body) Cells() []core.Cell {
	out := make([]core.Cell, len(b.cells))
	copy(out, b.cells)
	return out
}

// Occupies returns true if any segment is on c.
func (b *Body) Occupies(c core.Cell) bool {
	for _, seg := range b.cells {
		if seg == c {
			return true
		}
	}
	return false
}

// Advance moves the head one cell in heading.
//
// A candidate outside the board leaves the body untouched and reports
// HitWall. Eating inserts the old head behind the new one, so length grows
// by exactly one and the tail stays put. Otherwise every segment takes the
// place of the one in front of it. Self collision is checked last against
// the resulting body.
func (b *Body) Advance(heading core.Heading, food *core.Cell) MoveOutcome {
	dc, dr := heading.Delta()
	head := b.cells[0]
	candidate := head.Add(dc, dr)

	if !b.grid.Contains(candidate) {
		return HitWall
	}

	outcome := Moved
	if food != nil && candidate == *food {
		b.cells = append(b.cells, core.Cell{})
		copy(b.cells[2:], b.cells[1:])
		b.cells[1] = head
		b.cells[0] = candidate
		outcome = AteFood
	} else {
		copy(b.cells[1:], b.cells[:len(b.cells)-1])
		b.cells[0] = candidate
	}

	for _, seg := range b.cells[1:] {
		if seg == candidate {
			return HitSelf
		}
	}
	return outcome
}
