package tui

import (
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp, false},
		{runeKey('s'), core.ActionDown, false},
		{runeKey('h'), core.ActionLeft, false},
		{tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight, false},
		{runeKey('u'), core.ActionUndo, false},
		{runeKey('r'), core.ActionRestart, false},
		{runeKey('p'), core.ActionPause, false},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack, false},
		{runeKey('q'), core.ActionQuit, true},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{runeKey('x'), core.ActionNone, false},
	}
	for _, tt := range tests {
		action, quit := km.MapKey(tt.msg)
		if action != tt.action || quit != tt.quit {
			t.Errorf("MapKey(%q) = %v, %v; want %v, %v", tt.msg.String(), action, quit, tt.action, tt.quit)
		}
	}

	if km.MapKeyToMenuAction(tea.KeyMsg{Type: tea.KeyTab}) != MenuActionScoreboard {
		t.Error("tab should open the scoreboard")
	}
	if km.MapKeyToMenuAction(tea.KeyMsg{Type: tea.KeyEnter}) != MenuActionSelect {
		t.Error("enter should select")
	}
}

func newTestModel(t *testing.T, store *storage.Store) (Model, *t2048.Game) {
	t.Helper()
	g := t2048.New(t2048.WithSeed(3), t2048.WithLogger(log.New(io.Discard)))
	m := NewModel(g, store, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 30, Seed: 3})
	m.Init()
	return m, g
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	m = next.(Model)
	next, _ = m.Update(TickMsg(time.Now()))
	return next.(Model)
}

func TestModelMovesAndUndo(t *testing.T) {
	m, g := newTestModel(t, nil)

	for _, k := range []tea.KeyType{tea.KeyLeft, tea.KeyRight, tea.KeyUp, tea.KeyDown} {
		m = step(t, m, tea.KeyMsg{Type: k})
		if g.Moves() > 0 {
			break
		}
	}
	if g.Moves() == 0 {
		t.Fatal("no key produced a move")
	}
	if m.Elapsed() == 0 {
		t.Error("elapsed time should run once a move is made")
	}

	m = step(t, m, runeKey('u'))
	if g.Moves() != 0 {
		t.Errorf("undo key: moves = %d, want 0", g.Moves())
	}

	view := m.View()
	if !strings.Contains(view, "Score") || !strings.Contains(view, "Time") {
		t.Error("view should show the HUD and the timer")
	}
}

func TestModelBackPausesFirst(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.BackToMenu() {
		t.Fatal("esc during play should pause, not leave")
	}
	if !m.gameState.Paused {
		t.Fatal("esc during play should pause")
	}

	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() {
		t.Error("esc while paused should go back to the menu")
	}
}

func TestModelQuit(t *testing.T) {
	m, _ := newTestModel(t, nil)
	next, cmd := m.Update(runeKey('q'))
	if !next.(Model).IsQuitting() || cmd == nil {
		t.Error("q should quit")
	}
}

func TestModelPersistsBestScore(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if err := store.SetBestScore("2048", 32); err != nil {
		t.Fatal(err)
	}

	m, g := newTestModel(t, store)
	if g.BestScore() != 32 {
		t.Fatalf("seeded best = %d, want 32", g.BestScore())
	}

	if err := g.Load(t2048.Grid{
		{32, 32, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}, 0, 0); err != nil {
		t.Fatal(err)
	}
	step(t, m, tea.KeyMsg{Type: tea.KeyLeft})

	best, err := store.BestScore("2048")
	if err != nil {
		t.Fatal(err)
	}
	if best != 64 {
		t.Errorf("stored best = %d, want 64", best)
	}
}

func TestModelSavesOneResultPerGame(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	m, g := newTestModel(t, store)

	// Sliding right fills the last cell and locks the board whatever spawns.
	if err := g.Load(t2048.Grid{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{64, 4, 2, 4},
		{8, 16, 32, 0},
	}, 100, 5); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		m = step(t, m, tea.KeyMsg{Type: tea.KeyRight})
		if !g.IsGameOver() {
			t.Fatalf("round %d: expected game over", i)
		}
		m = step(t, m, runeKey('u'))
		if g.IsGameOver() {
			t.Fatalf("round %d: undo should clear game over", i)
		}
	}

	scores, err := store.AllScores("2048")
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 1 {
		t.Errorf("saved %d results for one game, want 1", len(scores))
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(10, 2)
	s.DrawText(0, 0, "ab")
	s.DrawTextColored(2, 0, "cd", core.ColorBrightRed)

	out := RenderScreen(s)
	if !strings.Contains(out, "ab") || !strings.Contains(out, "cd") {
		t.Errorf("rendered output lost text: %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Error("expected one newline between two rows")
	}
}

func TestCenterText(t *testing.T) {
	if got := centerText("ab", 6); got != "  ab" {
		t.Errorf("centerText = %q, want %q", got, "  ab")
	}
	if got := centerText("abcdef", 4); got != "abcdef" {
		t.Errorf("centerText overflow = %q", got)
	}
}
