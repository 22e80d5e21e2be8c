package t2048

import "fmt"

// EventKind identifies what changed in a game.
type EventKind int

const (
	EventScoreChanged EventKind = iota
	EventBestScoreChanged
	EventMoveCountChanged
	EventTileSpawned
	EventTileMerged
	EventGameOver
	EventBoardReset
)

var eventNames = map[EventKind]string{
	EventScoreChanged:     "score_changed",
	EventBestScoreChanged: "best_score_changed",
	EventMoveCountChanged: "move_count_changed",
	EventTileSpawned:      "tile_spawned",
	EventTileMerged:       "tile_merged",
	EventGameOver:         "game_over",
	EventBoardReset:       "board_reset",
}

// String returns the snake_case event name.
func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// MarshalText encodes the kind by name.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event is emitted to observers after the game state changes.
//
// Value carries the new score, best score or move count for the counter
// events, and the tile value for spawn and merge events. Pos is set for
// spawn and merge events. GameOver is set for EventGameOver.
type Event struct {
	Kind     EventKind `json:"kind"`
	Value    int       `json:"value,omitempty"`
	Pos      *Pos      `json:"pos,omitempty"`
	GameOver bool      `json:"game_over,omitempty"`
}

// Observer receives game events synchronously, in emission order.
type Observer func(Event)
