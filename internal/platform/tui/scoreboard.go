package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

const maxScores = 100

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Next    key.Binding
	Prev    key.Binding
	Clear   key.Binding
	Back    key.Binding
	Quit    key.Binding
	Confirm key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Next, k.Prev, k.Clear, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Next, k.Prev},
		{k.Clear, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l", "tab"),
			key.WithHelp("→/tab", "next size"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "h", "shift+tab"),
			key.WithHelp("←", "prev size"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel shows the recorded games of each board size.
type ScoreboardModel struct {
	variants []registry.GameInfo
	cursor   int
	store    *storage.Store // nil when scores are unavailable

	scores []storage.ScoreEntry
	stats  *storage.GameStats
	best   int
	err    error

	table table.Model
	help  help.Model
	keys  ScoreboardKeyMap

	width, height int

	confirmClear bool
	quitting     bool
	goingBack    bool
}

// NewScoreboardModel creates a scoreboard. store may be nil.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		variants: registry.List(),
		store:    store,
		keys:     DefaultScoreboardKeyMap(),
		help:     help.New(),
		width:    width,
		height:   height,
	}
	m.table = m.newTable()
	m.load()
	return m
}

func (m *ScoreboardModel) newTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Score", Width: 8},
		{Title: "Max", Width: 6},
		{Title: "Moves", Width: 6},
		{Title: "Date", Width: 14},
	}

	// Give spare room to the score and date columns
	if spare := m.width - 4 - 50; spare > 0 {
		columns[1].Width += min(spare/2, 4)
		columns[4].Width += min(spare-spare/2, 6)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// current returns the selected variant ID.
func (m ScoreboardModel) current() string {
	if len(m.variants) == 0 {
		return ""
	}
	return m.variants[m.cursor].ID
}

// load reads the scores, stats and best score of the selected variant.
func (m *ScoreboardModel) load() {
	m.scores, m.stats, m.best, m.err = nil, nil, 0, nil

	id := m.current()
	if m.store != nil && id != "" {
		m.scores, m.err = m.store.TopScores(id, maxScores)
		if m.err == nil {
			m.stats, m.err = m.store.GetGameStats(id)
		}
		if m.err == nil {
			m.best, m.err = m.store.BestScore(id)
		}
	}

	rows := make([]table.Row, len(m.scores))
	for i, s := range m.scores {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("%d", s.Score),
			fmt.Sprintf("%d", s.MaxTile),
			fmt.Sprintf("%d", s.Moves),
			s.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m *ScoreboardModel) step(delta int) {
	if len(m.variants) == 0 {
		return
	}
	m.cursor = (m.cursor + delta + len(m.variants)) % len(m.variants)
	m.load()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirmClear {
			m.confirmClear = false
			if key.Matches(msg, m.keys.Confirm) && m.store != nil {
				if err := m.store.ClearScores(m.current()); err != nil {
					m.err = err
					return m, nil
				}
				m.load()
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Next):
			m.step(1)
			return m, nil

		case key.Matches(msg, m.keys.Prev):
			m.step(-1)
			return m, nil

		case key.Matches(msg, m.keys.Clear):
			m.confirmClear = m.store != nil && len(m.scores) > 0
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.newTable()
		m.load()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

var (
	scoreTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	scoreMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	scoreTabStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	scoreActiveTab  = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)
	scoreBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	b.WriteString(scoreTitleStyle.Render(centerText("HIGH SCORES", m.width)))
	b.WriteString("\n\n")

	tabs := make([]string, len(m.variants))
	for i, v := range m.variants {
		if i == m.cursor {
			tabs[i] = scoreActiveTab.Render(v.Title)
		} else {
			tabs[i] = scoreTabStyle.Render(v.Title)
		}
	}
	tabLine := strings.Join(tabs, " ")
	if lipgloss.Width(tabLine) > m.width-4 && len(m.variants) > 0 {
		tabLine = fmt.Sprintf("< %s >", m.variants[m.cursor].Title)
	}
	b.WriteString(centerText(tabLine, m.width))
	b.WriteString("\n\n")

	b.WriteString(centerText(m.summary(), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(scoreBoxStyle.Render(m.body()), m.width))
	b.WriteString("\n")

	switch {
	case m.confirmClear:
		b.WriteString(errStyle.Render(centerText(fmt.Sprintf("Clear all scores for %s? y to confirm", m.variants[m.cursor].Title), m.width)))
	case m.err != nil:
		b.WriteString(errStyle.Render(centerText("Error: "+m.err.Error(), m.width)))
	default:
		b.WriteString(scoreMutedStyle.Render(m.help.View(m.keys)))
	}
	return b.String()
}

// summary is the stats line above the table.
func (m ScoreboardModel) summary() string {
	if m.stats == nil || m.stats.GamesCount == 0 {
		if m.best > 0 {
			return fmt.Sprintf("Best: %d", m.best)
		}
		return ""
	}
	return fmt.Sprintf("Best: %d  Games: %d  Avg: %.0f  Best tile: %d",
		max(m.best, m.stats.HighScore), m.stats.GamesCount, m.stats.AvgScore, m.stats.BestTile)
}

func (m ScoreboardModel) body() string {
	switch {
	case m.store == nil:
		return scoreMutedStyle.Italic(true).Padding(2, 4).Render("Score storage is unavailable.")
	case len(m.scores) == 0:
		return scoreMutedStyle.Italic(true).Padding(2, 4).Render("No games recorded yet.\nFinish a game to set a high score!")
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen on its own.
func RunScoreboard(store *storage.Store, width, height int) error {
	p := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
