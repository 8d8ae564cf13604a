package snake

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/vovakirdan/snake-task/internal/core"
)

var (
	// ErrBoardFull is returned when no free cell remains for food.
	ErrBoardFull = errors.New("snake: no free cell for food")
	// ErrSpawnExhausted is returned when rejection sampling hits its attempt cap.
	ErrSpawnExhausted = errors.New("snake: food spawn attempts exhausted")
)

// minAttempts is the lower bound for the derived attempt cap.
const minAttempts = 1024

// Spawner places food uniformly at random on cells the snake does not occupy.
type Spawner struct {
	rng         *rand.Rand
	maxAttempts int
}

// NewSpawner creates a spawner. maxAttempts <= 0 derives a cap from the
// board area when Spawn is called.
func NewSpawner(rng *rand.Rand, maxAttempts int) *Spawner {
	return &Spawner{rng: rng, maxAttempts: maxAttempts}
}

// Spawn samples cells until one is not in occupied.
func (s *Spawner) Spawn(grid core.Grid, occupied []core.Cell) (core.Cell, error) {
	taken := make(map[core.Cell]bool, len(occupied))
	for _, c := range occupied {
		if grid.Contains(c) {
			taken[c] = true
		}
	}
	if len(taken) >= grid.Area() {
		return core.Cell{}, ErrBoardFull
	}

	limit := s.maxAttempts
	if limit <= 0 {
		limit = max(minAttempts, 32*grid.Area())
	}

	for range limit {
		c := core.Cell{
			Col: 1 + s.rng.Intn(grid.Size),
			Row: 1 + s.rng.Intn(grid.Size),
		}
		if !taken[c] {
			return c, nil
		}
	}
	return core.Cell{}, fmt.Errorf("%w after %d attempts (%d/%d cells taken)",
		ErrSpawnExhausted, limit, len(taken), grid.Area())
}
