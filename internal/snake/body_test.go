package snake

import (
	"testing"

	"github.com/vovakirdan/snake-task/internal/core"
)

func mustSpawn(t *testing.T, size int) *Body {
	t.Helper()
	b, err := Spawn(core.NewGrid(size), 3)
	if err != nil {
		t.Fatalf("Spawn(%d) error = %v", size, err)
	}
	return b
}

func TestSpawnLayout(t *testing.T) {
	b := mustSpawn(t, 41)

	expected := []core.Cell{{Col: 21, Row: 21}, {Col: 21, Row: 20}, {Col: 21, Row: 19}}
	got := b.Cells()
	if len(got) != len(expected) {
		t.Fatalf("Len() = %d, expected %d", len(got), len(expected))
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Cells()[%d] = %v, expected %v", i, got[i], expected[i])
		}
	}
}

func TestNewBodyOffBoard(t *testing.T) {
	_, err := NewBody(core.NewGrid(5), core.Cell{Col: 1, Row: 1}, 3, core.HeadingUp)
	if err == nil {
		t.Error("NewBody trailing off the board should fail")
	}
}

func TestAdvanceMoves(t *testing.T) {
	b := mustSpawn(t, 41)

	if out := b.Advance(core.HeadingUp, nil); out != Moved {
		t.Fatalf("Advance() = %v, expected MOVED", out)
	}

	expected := []core.Cell{{Col: 21, Row: 22}, {Col: 21, Row: 21}, {Col: 21, Row: 20}}
	for i, c := range b.Cells() {
		if c != expected[i] {
			t.Errorf("Cells()[%d] = %v, expected %v", i, c, expected[i])
		}
	}
}

func TestAdvanceEatsFood(t *testing.T) {
	b := mustSpawn(t, 41)
	food := core.Cell{Col: 21, Row: 22}

	if out := b.Advance(core.HeadingUp, &food); out != AteFood {
		t.Fatalf("Advance() = %v, expected ATE_FOOD", out)
	}
	if b.Len() != 4 {
		t.Fatalf("Len() = %d, expected 4", b.Len())
	}

	// Tail does not move on the growth tick.
	expected := []core.Cell{{Col: 21, Row: 22}, {Col: 21, Row: 21}, {Col: 21, Row: 20}, {Col: 21, Row: 19}}
	for i, c := range b.Cells() {
		if c != expected[i] {
			t.Errorf("Cells()[%d] = %v, expected %v", i, c, expected[i])
		}
	}
}

func TestAdvanceHitsWall(t *testing.T) {
	tests := []struct {
		name    string
		head    core.Cell
		trail   core.Heading
		heading core.Heading
	}{
		{"top edge", core.Cell{Col: 3, Row: 5}, core.HeadingUp, core.HeadingUp},
		{"bottom edge", core.Cell{Col: 3, Row: 1}, core.HeadingDown, core.HeadingDown},
		{"left edge", core.Cell{Col: 1, Row: 3}, core.HeadingLeft, core.HeadingLeft},
		{"right edge", core.Cell{Col: 5, Row: 3}, core.HeadingRight, core.HeadingRight},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := NewBody(core.NewGrid(5), tc.head, 3, tc.trail)
			if err != nil {
				t.Fatalf("NewBody() error = %v", err)
			}
			before := b.Cells()

			if out := b.Advance(tc.heading, nil); out != HitWall {
				t.Errorf("Advance() = %v, expected HIT_WALL", out)
			}
			for i, c := range b.Cells() {
				if c != before[i] {
					t.Errorf("body changed on HIT_WALL at %d: %v -> %v", i, before[i], c)
				}
			}
		})
	}
}

func TestAdvanceHitsSelf(t *testing.T) {
	// A length-5 body curled so that turning down runs into segment 3.
	b := &Body{
		grid: core.NewGrid(11),
		cells: []core.Cell{
			{Col: 5, Row: 5}, {Col: 4, Row: 5}, {Col: 4, Row: 4}, {Col: 5, Row: 4}, {Col: 6, Row: 4},
		},
	}

	if out := b.Advance(core.HeadingDown, nil); out != HitSelf {
		t.Errorf("Advance() = %v, expected HIT_SELF", out)
	}
}

func TestAdvanceIntoVacatedTail(t *testing.T) {
	// Square loop of four: the head moves into the cell the tail leaves.
	b := &Body{
		grid: core.NewGrid(11),
		cells: []core.Cell{
			{Col: 5, Row: 5}, {Col: 4, Row: 5}, {Col: 4, Row: 4}, {Col: 5, Row: 4},
		},
	}

	if out := b.Advance(core.HeadingDown, nil); out != Moved {
		t.Errorf("Advance() = %v, expected MOVED", out)
	}
}

func TestCellsStayDistinct(t *testing.T) {
	b := mustSpawn(t, 11)
	path := []core.Heading{
		core.HeadingUp, core.HeadingRight, core.HeadingRight, core.HeadingDown,
		core.HeadingDown, core.HeadingLeft, core.HeadingLeft, core.HeadingLeft,
	}
	food := core.Cell{Col: 7, Row: 7}

	for _, h := range path {
		out := b.Advance(h, &food)
		if out.Fatal() {
			t.Fatalf("unexpected %v", out)
		}
		seen := make(map[core.Cell]bool)
		for _, c := range b.Cells() {
			if seen[c] {
				t.Fatalf("duplicate cell %v after %v", c, h)
			}
			seen[c] = true
		}
	}
}

func TestOutcomeString(t *testing.T) {
	tests := []struct {
		outcome  MoveOutcome
		expected string
	}{
		{Moved, "MOVED"},
		{AteFood, "ATE_FOOD"},
		{HitWall, "HIT_WALL"},
		{HitSelf, "HIT_SELF"},
	}
	for _, tc := range tests {
		if got := tc.outcome.String(); got != tc.expected {
			t.Errorf("String() = %q, expected %q", got, tc.expected)
		}
	}
}
