package config

import (
	_ "embed"
)

//go:embed defaults/t2048.yaml
var defaultT2048YAML []byte

// DefaultT2048Config returns the default 2048 configuration.
func DefaultT2048Config() T2048Config {
	return T2048Config{
		Board: BoardConfig{
			Size:         4,
			InitialTiles: 2,
		},
		Spawn: SpawnConfig{
			FourProbability: 0.2,
		},
		Undo: UndoConfig{
			Enabled: true,
			Limit:   0,
		},
		Target: 2048,
		Difficulty: DifficultyConfig{
			Enabled:      false,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 20000,
			},
			Scaling: ScalingConfig{
				FourProbabilityIncrease: 0.2,
			},
		},
	}
}
