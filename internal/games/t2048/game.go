package t2048

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
)

// Game is a single 2048 session: board, score, move count and undo history.
// It is not safe for concurrent use; callers serialize access.
type Game struct {
	id    string
	title string

	cfg        config.T2048Config
	difficulty *config.DifficultyManager
	logger     *log.Logger

	rng       *rand.Rand
	board     *Board
	spawner   *Spawner
	history   *History
	observers []Observer

	tick          uint64
	score         int
	bestScore     int
	moves         int
	gameOver      bool
	targetReached bool
	recorded      bool // result of this run already saved

	// Screen state, only used when driven by the platform
	screenW  int
	screenH  int
	paused   bool
	tooSmall bool
}

// Option configures a Game.
type Option func(*Game)

// WithConfig applies a full game configuration.
func WithConfig(cfg config.T2048Config) Option {
	return func(g *Game) {
		g.cfg = cfg
	}
}

// WithBoardSize overrides the board dimension.
func WithBoardSize(size int) Option {
	return func(g *Game) {
		g.cfg.Board.Size = size
	}
}

// WithLogger sets the logger used for invalid moves and spawn failures.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithSeed seeds the spawn RNG. Without it the game seeds from the clock.
func WithSeed(seed int64) Option {
	return func(g *Game) {
		g.rng = rand.New(rand.NewSource(seed))
	}
}

// WithID overrides the registry identifier and title.
func WithID(id, title string) Option {
	return func(g *Game) {
		g.id = id
		g.title = title
	}
}

// New creates a game and starts it with the initial tiles.
func New(opts ...Option) *Game {
	g := &Game{
		id:     "2048",
		title:  "2048",
		cfg:    config.DefaultT2048Config(),
		logger: log.Default().WithPrefix("t2048"),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	board, err := NewBoard(g.cfg.Board.Size)
	if err != nil {
		g.logger.Warn("falling back to default board size", "size", g.cfg.Board.Size, "error", err)
		g.cfg.Board.Size = DefaultBoardSize
		board, _ = NewBoard(DefaultBoardSize)
	}
	g.board = board
	g.difficulty = config.NewDifficultyManager(g.cfg.Difficulty)
	g.spawner = NewSpawner(g.rng, g.cfg.Spawn.FourProbability)
	g.history = NewHistory(g.cfg.Undo.Limit)

	g.start()
	return g
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return g.id
}

// Title returns the display name.
func (g *Game) Title() string {
	return g.title
}

// Subscribe registers an observer for game events.
func (g *Game) Subscribe(o Observer) {
	if o != nil {
		g.observers = append(g.observers, o)
	}
}

func (g *Game) emit(e Event) {
	for _, o := range g.observers {
		o(e)
	}
}

func (g *Game) emitCounters() {
	g.emit(Event{Kind: EventScoreChanged, Value: g.score})
	g.emit(Event{Kind: EventMoveCountChanged, Value: g.moves})
}

// start clears the session and spawns the initial tiles.
func (g *Game) start() {
	g.board.Clear()
	g.history.Clear()
	g.score = 0
	g.moves = 0
	g.gameOver = false
	g.targetReached = false
	g.recorded = false

	g.emit(Event{Kind: EventBoardReset})
	g.emitCounters()

	for range g.cfg.Board.InitialTiles {
		g.spawn()
	}
	g.checkGameOver()
}

// Restart begins a new game on the same board size, keeping the best score.
func (g *Game) Restart() {
	g.start()
}

// spawn places one random tile, logging when the board is full.
func (g *Game) spawn() {
	if g.difficulty.IsEnabled() {
		p := g.difficulty.FourProbability(g.cfg.Spawn.FourProbability, g.score, g.moves)
		if p != g.spawner.Spawn4Probability() {
			g.logger.Debug("spawn odds changed", "four_probability", p, "score", g.score)
			g.spawner.spawn4Prob = p
		}
	}
	tile, err := g.spawner.Spawn(g.board)
	if err != nil {
		g.logger.Error("unable to spawn tile", "error", err, "moves", g.moves)
		return
	}
	pos := tile.Pos
	g.emit(Event{Kind: EventTileSpawned, Value: tile.Value, Pos: &pos})
}

// TryMove applies a move. It returns what moved; an unchanged board is not
// an error and records nothing. DirNone is a no-op. Any other value outside
// the four directions yields ErrInvalidMove.
func (g *Game) TryMove(dir Direction) (MoveOutcome, error) {
	if dir == DirNone {
		return MoveOutcome{}, nil
	}
	if !dir.Valid() {
		err := fmt.Errorf("%w: %v", ErrInvalidMove, dir)
		g.logger.Warn("invalid move", "direction", dir)
		return MoveOutcome{}, err
	}

	before := Snapshot{
		Values:    g.board.SnapshotValues(),
		Score:     g.score,
		MoveCount: g.moves,
	}

	out := g.board.Move(dir)
	if !out.Moved {
		return out, nil
	}

	if g.cfg.Undo.Enabled {
		g.history.Push(before)
	}
	g.moves++
	g.emit(Event{Kind: EventMoveCountChanged, Value: g.moves})

	for _, m := range out.Merges {
		pos := m.To
		g.emit(Event{Kind: EventTileMerged, Value: m.Value, Pos: &pos})
	}
	if out.Score > 0 {
		g.addScore(out.Score)
	}

	g.spawn()

	if g.cfg.Target > 0 && !g.targetReached && g.board.MaxTile() >= g.cfg.Target {
		g.targetReached = true
		g.logger.Info("target reached", "target", g.cfg.Target, "moves", g.moves)
	}

	g.checkGameOver()
	return out, nil
}

// TryMoveAxes applies a move given as a discrete axis signal, positive y
// being up. Diagonal signals are logged and ignored.
func (g *Game) TryMoveAxes(x, y int) (MoveOutcome, error) {
	dir, err := DirectionFromAxes(x, y)
	if err != nil {
		g.logger.Warn("invalid move", "x", x, "y", y)
		return MoveOutcome{}, err
	}
	return g.TryMove(dir)
}

func (g *Game) addScore(delta int) {
	g.score += delta
	g.emit(Event{Kind: EventScoreChanged, Value: g.score})

	if g.score > g.bestScore {
		g.bestScore = g.score
		g.emit(Event{Kind: EventBestScoreChanged, Value: g.bestScore})
	}
}

func (g *Game) checkGameOver() {
	over := !g.board.AnyMovesLeft()
	if over == g.gameOver {
		return
	}
	g.gameOver = over
	g.emit(Event{Kind: EventGameOver, GameOver: over})
}

// Undo restores the state before the last successful move. It reports
// false when there is nothing to undo.
func (g *Game) Undo() bool {
	snap, err := g.history.Pop()
	if err != nil {
		if !errors.Is(err, ErrEmptyHistory) {
			g.logger.Error("undo failed", "error", err)
		}
		return false
	}

	if err := g.board.RestoreFromValues(snap.Values); err != nil {
		// Snapshots come from this board; a mismatch is a bug.
		g.logger.Error("undo snapshot rejected", "error", err)
		return false
	}
	g.score = snap.Score
	g.moves = snap.MoveCount

	g.emit(Event{Kind: EventBoardReset})
	g.emitCounters()
	if g.gameOver {
		g.gameOver = false
		g.emit(Event{Kind: EventGameOver, GameOver: false})
	}
	g.checkGameOver()
	return true
}

// Load replaces the board, score and move count, clearing history.
func (g *Game) Load(values Grid, score, moves int) error {
	if err := g.board.RestoreFromValues(values); err != nil {
		return err
	}
	g.history.Clear()
	g.score = score
	g.moves = moves
	g.gameOver = false
	g.recorded = false
	g.targetReached = g.cfg.Target > 0 && g.board.MaxTile() >= g.cfg.Target
	if g.score > g.bestScore {
		g.bestScore = g.score
	}

	g.emit(Event{Kind: EventBoardReset})
	g.emitCounters()
	g.checkGameOver()
	return nil
}

// ClaimResult reports whether the result of the current run still has to
// be saved, and marks it saved. Undoing out of game over and finishing again
// does not start a new run; only Restart, Reset and Load do.
func (g *Game) ClaimResult() bool {
	if g.recorded {
		return false
	}
	g.recorded = true
	return true
}

// SetBestScore seeds the best score from persisted storage. It never
// lowers the current best and emits no event.
func (g *Game) SetBestScore(best int) {
	if best > g.bestScore {
		g.bestScore = best
	}
}

// Values returns a copy of the board values.
func (g *Game) Values() Grid {
	return g.board.SnapshotValues()
}

// CellAt returns the tile at (x, y), if any.
func (g *Game) CellAt(x, y int) (Tile, bool) {
	return g.board.CellAt(x, y)
}

// CanMove reports whether dir would change the board.
func (g *Game) CanMove(dir Direction) bool {
	return g.board.CanMove(dir)
}

// Size returns the board dimension.
func (g *Game) Size() int { return g.board.Size() }

// Score returns the current score.
func (g *Game) Score() int { return g.score }

// BestScore returns the best score seen by this game.
func (g *Game) BestScore() int { return g.bestScore }

// Moves returns the number of successful moves.
func (g *Game) Moves() int { return g.moves }

// MaxTile returns the highest tile value on the board.
func (g *Game) MaxTile() int { return g.board.MaxTile() }

// IsGameOver reports whether no move can change the board.
func (g *Game) IsGameOver() bool { return g.gameOver }

// TargetReached reports whether the configured target tile has appeared.
func (g *Game) TargetReached() bool { return g.targetReached }

// UndoDepth returns the number of moves that can be undone.
func (g *Game) UndoDepth() int { return g.history.Len() }

// Reset restarts the game for the platform with a fresh seed and screen size.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g.rng.Seed(seed)
	g.tick = 0
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.paused = false
	g.checkScreenSize()
	g.start()
}

// Step advances the game by one tick, applying at most one move.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionRestart) {
		g.Restart()
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionUndo) {
		g.Undo()
		return core.StepResult{State: g.State()}
	}

	dir := DirNone
	switch {
	case in.Has(core.ActionUp):
		dir = DirUp
	case in.Has(core.ActionDown):
		dir = DirDown
	case in.Has(core.ActionLeft):
		dir = DirLeft
	case in.Has(core.ActionRight):
		dir = DirRight
	}

	out, _ := g.TryMove(dir)
	return core.StepResult{State: g.State(), Moved: out.Moved}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:     g.score,
		BestScore: g.bestScore,
		Moves:     g.moves,
		GameOver:  g.gameOver,
		Paused:    g.paused || g.tooSmall,
	}
}
