// Package config provides YAML-based game configuration loading and
// difficulty management.
package config

// T2048Config contains all configuration for the 2048 game.
type T2048Config struct {
	Board      BoardConfig      `yaml:"board"`
	Spawn      SpawnConfig      `yaml:"spawn"`
	Undo       UndoConfig       `yaml:"undo"`
	Target     int              `yaml:"target"` // Tile value that counts as a win, 0 = none
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// BoardConfig defines the grid.
type BoardConfig struct {
	Size         int `yaml:"size"`          // Board dimension N (N×N)
	InitialTiles int `yaml:"initial_tiles"` // Tiles spawned at game start
}

// SpawnConfig defines new tile generation.
type SpawnConfig struct {
	FourProbability float64 `yaml:"four_probability"` // Chance a spawned tile is a 4
}

// UndoConfig defines the history stack.
type UndoConfig struct {
	Enabled bool `yaml:"enabled"`
	Limit   int  `yaml:"limit"` // Max snapshots kept, 0 = unlimited
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over the game.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "moves", or "none"
	MaxAt int    `yaml:"max_at"` // Score/moves at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	FourProbabilityIncrease float64 `yaml:"four_probability_increase"` // Added to four_probability at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParseDifficultyPreset validates a preset name. Empty means fixed.
func ParseDifficultyPreset(s string) (DifficultyPreset, bool) {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, true
	case "":
		return DifficultyFixed, true
	}
	return "", false
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
