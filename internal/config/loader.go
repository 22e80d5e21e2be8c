package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Board size limits accepted by Validate.
const (
	MinBoardSize = 2
	MaxBoardSize = 8
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// LoadT2048 loads the 2048 configuration.
// Search order: customPath -> ~/.t2048/configs/t2048.yaml -> ./configs/t2048.yaml -> embedded default.
// Fields missing from the file keep their default values.
func LoadT2048(customPath string) (T2048Config, error) {
	cfg := DefaultT2048Config()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	// Try user config directory
	if userCfgPath := userConfigPath("t2048.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, cfg.Validate()
			}
			cfg = DefaultT2048Config()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/t2048.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, cfg.Validate()
		}
		cfg = DefaultT2048Config()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultT2048YAML, &cfg); err != nil {
		return DefaultT2048Config(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".t2048", "configs", filename)
}

// Validate checks the configuration for values the game cannot run with.
func (c T2048Config) Validate() error {
	if c.Board.Size < MinBoardSize || c.Board.Size > MaxBoardSize {
		return fmt.Errorf("%w: board.size %d out of range %d..%d", ErrInvalidConfig, c.Board.Size, MinBoardSize, MaxBoardSize)
	}
	if c.Board.InitialTiles < 0 || c.Board.InitialTiles > c.Board.Size*c.Board.Size {
		return fmt.Errorf("%w: board.initial_tiles %d", ErrInvalidConfig, c.Board.InitialTiles)
	}
	if c.Spawn.FourProbability < 0 || c.Spawn.FourProbability > 1 {
		return fmt.Errorf("%w: spawn.four_probability %v not in [0, 1]", ErrInvalidConfig, c.Spawn.FourProbability)
	}
	if c.Undo.Limit < 0 {
		return fmt.Errorf("%w: undo.limit %d is negative", ErrInvalidConfig, c.Undo.Limit)
	}
	if c.Target < 0 || (c.Target > 0 && c.Target&(c.Target-1) != 0) {
		return fmt.Errorf("%w: target %d is not a power of two", ErrInvalidConfig, c.Target)
	}
	switch c.Difficulty.Progression.Type {
	case "score", "moves", "none", "":
	default:
		return fmt.Errorf("%w: difficulty.progression.type %q", ErrInvalidConfig, c.Difficulty.Progression.Type)
	}
	return nil
}

// ApplyT2048Preset modifies the config based on a difficulty preset.
func ApplyT2048Preset(cfg *T2048Config, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}
}
