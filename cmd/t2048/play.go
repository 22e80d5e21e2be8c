package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var flagDifficulty string

var playCmd = &cobra.Command{
	Use:   "play [variant]",
	Short: "Play 2048 in the terminal",
	Long: `Start playing. Without a variant a menu lets you pick the board size.

Controls:
  Arrows/WASD/hjkl - Slide tiles
  U/Z/Backspace    - Undo
  R                - Restart
  P/Esc            - Pause
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - 4s get more frequent slowly
  normal - 4s get more frequent as you score
  hard   - 4s get frequent early
  fixed  - Keep the configured spawn odds

Examples:
  t2048 play
  t2048 play 2048_3x3
  t2048 play --difficulty hard
  t2048 play --config ./my-2048.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

func terminalSize() (int, int) {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return width, height
}

func runtimeConfig() core.RuntimeConfig {
	width, height := terminalSize()
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStore opens the score database, returning nil when it is unavailable.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		log.Warn("scores database unavailable", "path", flagDBPath, "error", err)
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return nil
	}
	return store
}

func runPlay(_ *cobra.Command, args []string) error {
	if flagDifficulty != "" {
		preset, ok := config.ParseDifficultyPreset(flagDifficulty)
		if !ok {
			return fmt.Errorf("unknown difficulty %q", flagDifficulty)
		}
		cfg, err := config.LoadT2048(flagConfig)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		config.ApplyT2048Preset(&cfg, preset)
		t2048.SetConfig(cfg)
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}
	cfg := runtimeConfig()

	if len(args) == 0 {
		return tui.RunSession(store, cfg)
	}

	gameID := args[0]
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown variant %q, run 't2048 list' to see them", gameID)
	}
	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}
	return tui.Run(game, store, cfg)
}
