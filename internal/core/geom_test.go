package core

import (
	"math"
	"testing"
)

func TestGridContains(t *testing.T) {
	g := NewGrid(41)

	tests := []struct {
		name     string
		cell     Cell
		expected bool
	}{
		{"center", Cell{21, 21}, true},
		{"bottom-left corner", Cell{1, 1}, true},
		{"top-right corner", Cell{41, 41}, true},
		{"left of board", Cell{0, 10}, false},
		{"right of board", Cell{42, 10}, false},
		{"below board", Cell{10, 0}, false},
		{"above board", Cell{10, 42}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := g.Contains(tc.cell); got != tc.expected {
				t.Errorf("Contains(%v) = %v, expected %v", tc.cell, got, tc.expected)
			}
		})
	}
}

func TestGridCenter(t *testing.T) {
	tests := []struct {
		size     int
		expected Cell
	}{
		{41, Cell{21, 21}},
		{11, Cell{6, 6}},
		{7, Cell{4, 4}},
	}

	for _, tc := range tests {
		if got := NewGrid(tc.size).Center(); got != tc.expected {
			t.Errorf("NewGrid(%d).Center() = %v, expected %v", tc.size, got, tc.expected)
		}
	}
}

func TestGridCells(t *testing.T) {
	g := NewGrid(5)
	cells := g.Cells()
	if len(cells) != g.Area() {
		t.Fatalf("len(Cells()) = %d, expected %d", len(cells), g.Area())
	}
	seen := make(map[Cell]bool)
	for _, c := range cells {
		if !g.Contains(c) {
			t.Errorf("Cells() returned out-of-bounds cell %v", c)
		}
		if seen[c] {
			t.Errorf("Cells() returned %v twice", c)
		}
		seen[c] = true
	}
}

func TestHeadingDelta(t *testing.T) {
	tests := []struct {
		heading Heading
		dc, dr  int
	}{
		{HeadingUp, 0, 1},
		{HeadingRight, 1, 0},
		{HeadingDown, 0, -1},
		{HeadingLeft, -1, 0},
		{HeadingNone, 0, 0},
	}

	for _, tc := range tests {
		dc, dr := tc.heading.Delta()
		if dc != tc.dc || dr != tc.dr {
			t.Errorf("%v.Delta() = (%d, %d), expected (%d, %d)", tc.heading, dc, dr, tc.dc, tc.dr)
		}
	}
}

func TestHeadingPerpendicular(t *testing.T) {
	tests := []struct {
		a, b     Heading
		expected bool
	}{
		{HeadingUp, HeadingLeft, true},
		{HeadingUp, HeadingRight, true},
		{HeadingUp, HeadingDown, false},
		{HeadingUp, HeadingUp, false},
		{HeadingLeft, HeadingDown, true},
		{HeadingLeft, HeadingRight, false},
		{HeadingNone, HeadingUp, false},
	}

	for _, tc := range tests {
		if got := tc.a.Perpendicular(tc.b); got != tc.expected {
			t.Errorf("%v.Perpendicular(%v) = %v, expected %v", tc.a, tc.b, got, tc.expected)
		}
	}
}

func TestHeadingOpposite(t *testing.T) {
	for _, h := range []Heading{HeadingUp, HeadingRight, HeadingDown, HeadingLeft} {
		if h.Opposite().Opposite() != h {
			t.Errorf("%v.Opposite().Opposite() = %v", h, h.Opposite().Opposite())
		}
		dc, dr := h.Delta()
		oc, or := h.Opposite().Delta()
		if dc+oc != 0 || dr+or != 0 {
			t.Errorf("%v and its opposite do not cancel", h)
		}
	}
}

func TestLayoutPosition(t *testing.T) {
	l := Layout{Grid: NewGrid(41), CellSize: 10, Pad: 4}

	x, y := l.Position(Cell{1, 1})
	if x != 10 || y != 10 {
		t.Errorf("Position(1,1) = (%v, %v), expected (10, 10)", x, y)
	}

	x, _ = l.Position(Cell{2, 1})
	if x != 21 {
		t.Errorf("Position(2,1).x = %v, expected 21", x)
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	l := Layout{Grid: NewGrid(11), CellSize: 16, Pad: 3}

	for _, c := range l.Grid.Cells() {
		x, y := l.Position(c)
		got, ok := l.CellAt(x, y)
		if !ok || got != c {
			t.Errorf("CellAt(Position(%v)) = %v, %v", c, got, ok)
		}
	}

	if _, ok := l.CellAt(-100, 5); ok {
		t.Error("CellAt far outside the board should not be ok")
	}
}

func TestLayoutExtent(t *testing.T) {
	l := Layout{Grid: NewGrid(3), CellSize: 10, Pad: 2}
	if got := l.Extent(); math.Abs(got-38) > 1e-9 {
		t.Errorf("Extent() = %v, expected 38", got)
	}
}

func TestMinMax(t *testing.T) {
	if Min(5, 10) != 5 {
		t.Error("Min(5, 10) should be 5")
	}
	if Max(5, 10) != 10 {
		t.Error("Max(5, 10) should be 10")
	}
}

func TestParseKeyCode(t *testing.T) {
	tests := []struct {
		name     string
		expected KeyCode
	}{
		{"up", KeyUp},
		{"LEFT", KeyLeft},
		{"d", KeyRight},
		{"space", KeySpace},
		{"enter", KeyNone},
	}

	for _, tc := range tests {
		if got := ParseKeyCode(tc.name); got != tc.expected {
			t.Errorf("ParseKeyCode(%q) = %v, expected %v", tc.name, got, tc.expected)
		}
	}

	if KeySpace.Heading() != HeadingNone {
		t.Error("KeySpace.Heading() should be HeadingNone")
	}
	if KeyLeft.Heading() != HeadingLeft {
		t.Error("KeyLeft.Heading() should be HeadingLeft")
	}
}
