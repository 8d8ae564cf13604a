// Package core provides the fundamental board types shared by the task:
// grid cells, headings, bounds and the layout mapping used by presenters.
// It contains no external dependencies so the game logic stays pure and testable.
package core

import (
	"fmt"
	"math"
)

// Cell is a position on the board. Columns and rows are 1-based and
// rows increase upward, so (1, 1) is the bottom-left corner.
type Cell struct {
	Col int
	Row int
}

// Add returns the cell offset by (dc, dr).
func (c Cell) Add(dc, dr int) Cell {
	return Cell{Col: c.Col + dc, Row: c.Row + dr}
}

// String returns "(col,row)".
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Col, c.Row)
}

// Heading is one of the four cardinal movement directions.
type Heading int

const (
	HeadingNone Heading = iota
	HeadingUp
	HeadingRight
	HeadingDown
	HeadingLeft
)

// Delta returns the (col, row) step for one move in this heading.
func (h Heading) Delta() (int, int) {
	switch h {
	case HeadingUp:
		return 0, 1
	case HeadingRight:
		return 1, 0
	case HeadingDown:
		return 0, -1
	case HeadingLeft:
		return -1, 0
	default:
		return 0, 0
	}
}

// Opposite returns the reverse heading.
func (h Heading) Opposite() Heading {
	switch h {
	case HeadingUp:
		return HeadingDown
	case HeadingDown:
		return HeadingUp
	case HeadingLeft:
		return HeadingRight
	case HeadingRight:
		return HeadingLeft
	default:
		return HeadingNone
	}
}

// Vertical reports whether the heading is UP or DOWN.
func (h Heading) Vertical() bool {
	return h == HeadingUp || h == HeadingDown
}

// Perpendicular reports whether other is a 90° turn from h.
func (h Heading) Perpendicular(other Heading) bool {
	if h == HeadingNone || other == HeadingNone {
		return false
	}
	return h.Vertical() != other.Vertical()
}

// String returns a human-readable name for the heading.
func (h Heading) String() string {
	switch h {
	case HeadingUp:
		return "UP"
	case HeadingRight:
		return "RIGHT"
	case HeadingDown:
		return "DOWN"
	case HeadingLeft:
		return "LEFT"
	default:
		return "NONE"
	}
}

// Grid is the square N×N playing field.
type Grid struct {
	Size int
}

// NewGrid creates a grid with the given side length.
func NewGrid(size int) Grid {
	return Grid{Size: size}
}

// Contains returns true if c lies within [1, Size] on both axes.
func (g Grid) Contains(c Cell) bool {
	return c.Col >= 1 && c.Col <= g.Size && c.Row >= 1 && c.Row <= g.Size
}

// Center returns the middle cell. For odd sizes it is exact.
func (g Grid) Center() Cell {
	m := g.Size/2 + 1
	return Cell{Col: m, Row: m}
}

// Area returns the number of cells on the board.
func (g Grid) Area() int {
	return g.Size * g.Size
}

// Cells returns every cell, bottom row first.
func (g Grid) Cells() []Cell {
	cells := make([]Cell, 0, g.Area())
	for r := 1; r <= g.Size; r++ {
		for c := 1; c <= g.Size; c++ {
			cells = append(cells, Cell{Col: c, Row: r})
		}
	}
	return cells
}

// Layout maps grid cells to continuous display coordinates. Cells are
// CellSize units wide with a one unit gutter between them and Pad units
// of margin around the board.
type Layout struct {
	Grid     Grid
	CellSize float64
	Pad      float64
}

// Position returns the center of c in display coordinates.
func (l Layout) Position(c Cell) (x, y float64) {
	return l.axis(c.Col), l.axis(c.Row)
}

func (l Layout) axis(i int) float64 {
	f := float64(i)
	return (f-.5)*l.CellSize + f + l.Pad
}

// CellAt returns the cell nearest to the display coordinate (x, y).
// ok is false when the point falls outside the board.
func (l Layout) CellAt(x, y float64) (Cell, bool) {
	c := Cell{Col: l.invert(x), Row: l.invert(y)}
	return c, l.Grid.Contains(c)
}

func (l Layout) invert(v float64) int {
	return int(math.Round((v - l.Pad + .5*l.CellSize) / (l.CellSize + 1)))
}

// Extent returns the total display size of the board including padding.
func (l Layout) Extent() float64 {
	n := float64(l.Grid.Size)
	return n*l.CellSize + (n + 1) + 2*l.Pad
}

// Rect represents an axis-aligned rectangle on the terminal screen.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
