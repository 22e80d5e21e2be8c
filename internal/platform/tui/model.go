package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// Model is the Bubble Tea model for one running game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	elapsed    time.Duration
	quitting   bool
	backToMenu bool
}

// NewModel creates a model for game. store may be nil.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	logger := log.Default().WithPrefix("tui")
	if store != nil {
		if seeder, ok := game.(registry.BestScoreSeeder); ok {
			best, err := store.BestScore(game.ID())
			if err != nil {
				logger.Warn("cannot load best score", "game", game.ID(), "error", err)
			}
			seeder.SetBestScore(best)
		}
		if tg, ok := game.(*t2048.Game); ok {
			tg.Subscribe(persistScores(tg, store, logger))
		}
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		logger:     logger,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
	}
}

// persistScores stores the best score whenever it rises and records the
// result when the game ends.
func persistScores(g *t2048.Game, store *storage.Store, logger *log.Logger) t2048.Observer {
	return func(e t2048.Event) {
		switch e.Kind {
		case t2048.EventBestScoreChanged:
			if err := store.SetBestScore(g.ID(), e.Value); err != nil {
				logger.Warn("cannot save best score", "error", err)
			}
		case t2048.EventGameOver:
			if !e.GameOver || g.Score() == 0 || !g.ClaimResult() {
				return
			}
			_, err := store.SaveScore(storage.Result{
				GameID:  g.ID(),
				Score:   g.Score(),
				MaxTile: g.MaxTile(),
				Moves:   g.Moves(),
			})
			if err != nil {
				logger.Warn("cannot save score", "error", err)
			}
		}
	}
}

// Init starts the game and the tick loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	// Back leaves a paused or finished game; otherwise it pauses.
	if action, _ := m.keyMapper.MapKey(msg); action == core.ActionBack {
		if m.gameState.GameOver || m.gameState.Paused {
			m.backToMenu = true
			return m, nil
		}
		m.inputFrame.Set(core.ActionPause)
	}
	return m, nil
}

// handleResize keeps the game running at the new size.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if r, ok := m.game.(registry.Resizer); ok {
		r.Resize(msg.Width, msg.Height)
	} else if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	restart := m.inputFrame.Has(core.ActionRestart)

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	switch {
	case restart:
		m.elapsed = 0
	case !m.gameState.Paused && !m.gameState.GameOver && m.gameState.Moves > 0:
		m.elapsed += tickInterval(m.config.TickRate)
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// saveScreenshot writes the current screen to ~/.t2048/screenshots.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".t2048", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("cannot create screenshot directory", "error", err)
		return
	}

	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	if err := os.WriteFile(filepath.Join(dir, name), []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("cannot save screenshot", "error", err)
	}
}

// Elapsed returns the time spent playing, excluding pauses.
func (m Model) Elapsed() time.Duration {
	return m.elapsed
}

// View renders the game and the elapsed time.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	if h := m.screen.Height(); h > 0 {
		secs := int(m.elapsed / time.Second)
		m.screen.DrawTextColored(1, h-1, fmt.Sprintf("Time %02d:%02d", secs/60, secs%60), core.ColorGray)
	}
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run plays a single game in the current terminal.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(
		runModel{NewModel(game, store, cfg)},
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}

// runModel quits when the game asks for the menu, since there is none.
type runModel struct {
	Model
}

func (r runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := r.Model.Update(msg)
	r.Model = next.(Model)
	if r.BackToMenu() {
		return r, tea.Quit
	}
	return r, cmd
}
