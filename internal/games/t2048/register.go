package t2048

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

var (
	settingsMu sync.RWMutex
	sessionCfg = config.DefaultT2048Config()
	sessionLog *log.Logger
)

// SetConfig sets the configuration used by registry-created games.
// Must be called before games are created.
func SetConfig(cfg config.T2048Config) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	sessionCfg = cfg
}

// SetLogger sets the logger used by registry-created games.
func SetLogger(l *log.Logger) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	sessionLog = l
}

// Variant describes a registered board size.
type Variant struct {
	ID    string
	Title string
	Size  int // 0 = size from config
}

// Variants lists the registered board sizes.
var Variants = []Variant{
	{ID: "2048", Title: "2048", Size: 0},
	{ID: "2048_3x3", Title: "2048 (3x3)", Size: 3},
	{ID: "2048_5x5", Title: "2048 (5x5)", Size: 5},
	{ID: "2048_6x6", Title: "2048 (6x6)", Size: 6},
}

// ConfiguredSize returns the board size registry games use when the
// variant does not fix one. An unusable configured size reads as the default,
// matching what New falls back to.
func ConfiguredSize() int {
	settingsMu.RLock()
	size := sessionCfg.Board.Size
	settingsMu.RUnlock()

	if size < MinBoardSize || size > MaxBoardSize {
		return DefaultBoardSize
	}
	return size
}

// BoardSize returns the dimension games of v are created with.
func (v Variant) BoardSize() int {
	if v.Size > 0 {
		return v.Size
	}
	return ConfiguredSize()
}

// NewVariant creates a game for v from the package configuration.
func NewVariant(v Variant, extra ...Option) *Game {
	settingsMu.RLock()
	opts := []Option{WithConfig(sessionCfg), WithID(v.ID, v.Title)}
	if sessionLog != nil {
		opts = append(opts, WithLogger(sessionLog))
	}
	settingsMu.RUnlock()

	if v.Size > 0 {
		opts = append(opts, WithBoardSize(v.Size))
	}
	return New(append(opts, extra...)...)
}

// VariantByID finds a registered variant.
func VariantByID(id string) (Variant, bool) {
	for _, v := range Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

func init() {
	for _, v := range Variants {
		registry.Register(v.ID, v.Title, func() registry.Game {
			return NewVariant(v)
		})
	}
}
