// Package registry provides a global registry of player kinds.
// Input sources register the players they can drive in init() functions,
// so the CLI can list and select them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/snake-task/internal/task"
)

// Player describes who plays the task and which collaborators that needs.
type Player struct {
	ID               string
	Title            string
	Description      string
	NeedsModelBridge bool
	NeedsEyetracker  bool
}

// Apply turns on the collaborators the player needs. It never turns one off.
func (p Player) Apply(cfg *task.Config) {
	if p.NeedsModelBridge {
		cfg.HasModelBridge = true
	}
	if p.NeedsEyetracker {
		cfg.HasEyetracker = true
	}
}

var (
	players = make(map[string]Player)
	mu      sync.RWMutex
)

// Register adds a player kind to the registry.
// Panics if a player with the same ID is already registered.
func Register(p Player) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := players[p.ID]; exists {
		panic(fmt.Sprintf("registry: player %q already registered", p.ID))
	}
	players[p.ID] = p
}

// List returns all registered players, sorted by ID.
func List() []Player {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Player, 0, len(players))
	for _, p := range players {
		result = append(result, p)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Lookup returns the player registered under id.
func Lookup(id string) (Player, error) {
	mu.RLock()
	defer mu.RUnlock()

	p, ok := players[id]
	if !ok {
		return Player{}, fmt.Errorf("registry: unknown player %q", id)
	}
	return p, nil
}

// Exists checks if a player with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := players[id]
	return ok
}
