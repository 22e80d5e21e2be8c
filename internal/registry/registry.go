// Package registry provides a global registry of game variants.
// Variants register themselves in init() functions, so the CLI and the
// platform can list and create them by ID without hardcoded imports.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-2048/internal/core"
)

// Game is the interface the platform drives.
// Games contain pure logic with no Bubble Tea dependency; the platform
// maps keys to actions, runs the tick loop and paints the screen.
type Game interface {
	// ID returns the variant identifier (e.g. "2048", "2048_5x5").
	// Used for CLI arguments and score storage.
	ID() string

	// Title returns a human-readable name.
	Title() string

	// Reset starts a new game for the given screen size and seed.
	Reset(cfg core.RuntimeConfig)

	// Step advances by one tick, applying at most one action.
	Step(in core.InputFrame) core.StepResult

	// Render draws the game into the provided screen buffer.
	Render(dst *core.Screen)

	// State returns score, best score, moves and flags.
	State() core.GameState
}

// Resizer is implemented by games that react to terminal resizes without
// a full reset.
type Resizer interface {
	Resize(w, h int)
}

// BestScoreSeeder is implemented by games that accept a persisted best score.
type BestScoreSeeder interface {
	SetBestScore(best int)
}

// GameInfo contains metadata about a registered variant.
type GameInfo struct {
	ID    string
	Title string
}

// Factory creates a new game instance.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a variant. Panics if the ID is already taken.
func Register(id, title string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	factories[id] = f
	titles[id] = title
}

// List returns all registered variants sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{ID: id, Title: titles[id]})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Create instantiates a variant by ID.
func Create(id string) (Game, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return f(), nil
}

// Exists checks if a variant is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
