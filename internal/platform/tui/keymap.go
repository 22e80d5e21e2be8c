package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/core"
)

type actionBinding struct {
	action core.Action
	key    key.Binding
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionScoreboard
	MenuActionQuit
)

type menuBinding struct {
	action MenuAction
	key    key.Binding
}

// KeyMapper translates Bubble Tea key messages to game and menu actions.
type KeyMapper struct {
	quit key.Binding
	game []actionBinding
	menu []menuBinding
}

// NewKeyMapper creates a key mapper with the default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{
		quit: key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		game: []actionBinding{
			{core.ActionUp, key.NewBinding(key.WithKeys("up", "w", "k"), key.WithHelp("↑/w", "up"))},
			{core.ActionDown, key.NewBinding(key.WithKeys("down", "s", "j"), key.WithHelp("↓/s", "down"))},
			{core.ActionLeft, key.NewBinding(key.WithKeys("left", "a", "h"), key.WithHelp("←/a", "left"))},
			{core.ActionRight, key.NewBinding(key.WithKeys("right", "d", "l"), key.WithHelp("→/d", "right"))},
			{core.ActionUndo, key.NewBinding(key.WithKeys("u", "z", "backspace"), key.WithHelp("u", "undo"))},
			{core.ActionConfirm, key.NewBinding(key.WithKeys("enter"))},
			{core.ActionBack, key.NewBinding(key.WithKeys("b", "esc"), key.WithHelp("esc", "back"))},
			{core.ActionPause, key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause"))},
			{core.ActionRestart, key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart"))},
		},
		menu: []menuBinding{
			{MenuActionUp, key.NewBinding(key.WithKeys("up", "w", "k"), key.WithHelp("↑", "up"))},
			{MenuActionDown, key.NewBinding(key.WithKeys("down", "s", "j"), key.WithHelp("↓", "down"))},
			{MenuActionSelect, key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "play"))},
			{MenuActionBack, key.NewBinding(key.WithKeys("b", "esc"))},
			{MenuActionScoreboard, key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "scores"))},
		},
	}
}

// MapKey translates a key message to a game action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	if key.Matches(msg, km.quit) {
		return core.ActionQuit, true
	}
	for _, b := range km.game {
		if key.Matches(msg, b.key) {
			return b.action, false
		}
	}
	return core.ActionNone, false
}

// MapKeyToFrame updates an input frame based on a key message.
// Returns true if the key was a quit request. Back is handled by the
// model, not the game.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone && action != core.ActionBack {
		frame.Set(action)
	}
	return isQuit
}

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	if key.Matches(msg, km.quit) {
		return MenuActionQuit
	}
	for _, b := range km.menu {
		if key.Matches(msg, b.key) {
			return b.action
		}
	}
	return MenuActionNone
}

// MenuHelp returns the menu bindings that carry help text.
func (km *KeyMapper) MenuHelp() []key.Binding {
	out := make([]key.Binding, 0, len(km.menu)+1)
	for _, b := range km.menu {
		if b.key.Help().Key != "" {
			out = append(out, b.key)
		}
	}
	return append(out, km.quit)
}
