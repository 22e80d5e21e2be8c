package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	var cfg T2048Config
	if err := yaml.Unmarshal(defaultT2048YAML, &cfg); err != nil {
		t.Fatalf("embedded yaml does not parse: %v", err)
	}

	if cfg != DefaultT2048Config() {
		t.Errorf("embedded defaults = %+v, want %+v", cfg, DefaultT2048Config())
	}
}

func TestLoadCustomPathPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("board:\n  size: 5\nspawn:\n  four_probability: 0.1\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadT2048(path)
	if err != nil {
		t.Fatalf("LoadT2048() failed: %v", err)
	}

	if cfg.Board.Size != 5 {
		t.Errorf("Board.Size = %d, want 5", cfg.Board.Size)
	}
	if cfg.Spawn.FourProbability != 0.1 {
		t.Errorf("FourProbability = %v, want 0.1", cfg.Spawn.FourProbability)
	}
	// Untouched fields keep defaults
	if cfg.Board.InitialTiles != 2 {
		t.Errorf("InitialTiles = %d, want default 2", cfg.Board.InitialTiles)
	}
	if !cfg.Undo.Enabled {
		t.Error("Undo should stay enabled by default")
	}
}

func TestLoadCustomPathMissing(t *testing.T) {
	_, err := LoadT2048(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing custom config")
	}
}

func TestLoadCustomPathInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("board:\n  size: 12\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadT2048(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("LoadT2048() error = %v, want ErrInvalidConfig", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*T2048Config)
		wantErr bool
	}{
		{"defaults", func(*T2048Config) {}, false},
		{"size too small", func(c *T2048Config) { c.Board.Size = 1 }, true},
		{"size too large", func(c *T2048Config) { c.Board.Size = 9 }, true},
		{"too many initial tiles", func(c *T2048Config) { c.Board.InitialTiles = 17 }, true},
		{"negative probability", func(c *T2048Config) { c.Spawn.FourProbability = -0.1 }, true},
		{"probability above one", func(c *T2048Config) { c.Spawn.FourProbability = 1.5 }, true},
		{"negative undo limit", func(c *T2048Config) { c.Undo.Limit = -1 }, true},
		{"target not power of two", func(c *T2048Config) { c.Target = 1000 }, true},
		{"target disabled", func(c *T2048Config) { c.Target = 0 }, false},
		{"unknown progression", func(c *T2048Config) { c.Difficulty.Progression.Type = "time" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultT2048Config()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := DefaultT2048Config()

	ApplyT2048Preset(&cfg, DifficultyHard)
	if !cfg.Difficulty.Enabled {
		t.Error("hard preset should enable progression")
	}
	if cfg.Difficulty.InitialLevel != 0.7 {
		t.Errorf("InitialLevel = %v, want 0.7", cfg.Difficulty.InitialLevel)
	}

	ApplyT2048Preset(&cfg, DifficultyFixed)
	if cfg.Difficulty.Enabled {
		t.Error("fixed preset should disable progression")
	}
}

func TestParseDifficultyPreset(t *testing.T) {
	if p, ok := ParseDifficultyPreset(""); !ok || p != DifficultyFixed {
		t.Errorf("empty preset = %q, %v; want fixed", p, ok)
	}
	if _, ok := ParseDifficultyPreset("insane"); ok {
		t.Error("unknown preset should be rejected")
	}
}
