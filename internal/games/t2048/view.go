package t2048

// StateType describes the phase a game is in.
type StateType string

const (
	StatePlaying     StateType = "playing"
	StateGameOver    StateType = "game_over"
	StatePaused      StateType = "paused"
	StatePausedSmall StateType = "paused_small_window"
)

// View is a serializable picture of a game, shared by the HTTP, WebSocket
// and MCP surfaces and by determinism tests.
type View struct {
	Tick          uint64    `json:"tick"`
	Size          int       `json:"size"`
	Grid          Grid      `json:"grid"`
	Score         int       `json:"score"`
	BestScore     int       `json:"best_score"`
	Moves         int       `json:"moves"`
	MaxTile       int       `json:"max_tile"`
	Target        int       `json:"target,omitempty"`
	TargetReached bool      `json:"target_reached"`
	UndoDepth     int       `json:"undo_depth"`
	CanMove       []string  `json:"can_move"`
	State         StateType `json:"state"`
}

// View returns the current game view.
func (g *Game) View() View {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.gameOver:
		state = StateGameOver
	case g.paused:
		state = StatePaused
	}

	moves := make([]string, 0, len(Directions))
	for _, d := range Directions {
		if g.board.CanMove(d) {
			moves = append(moves, d.String())
		}
	}

	return View{
		Tick:          g.tick,
		Size:          g.board.Size(),
		Grid:          g.board.SnapshotValues(),
		Score:         g.score,
		BestScore:     g.bestScore,
		Moves:         g.moves,
		MaxTile:       g.board.MaxTile(),
		Target:        g.cfg.Target,
		TargetReached: g.targetReached,
		UndoDepth:     g.history.Len(),
		CanMove:       moves,
		State:         state,
	}
}
