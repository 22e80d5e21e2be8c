package t2048

import "errors"

// Errors reported by the engine. None of them are fatal to a session.
var (
	ErrInvalidMove  = errors.New("t2048: invalid move")
	ErrSpawnFailure = errors.New("t2048: no empty cell to spawn a tile")
	ErrEmptyHistory = errors.New("t2048: no move to undo")
	ErrCellOccupied = errors.New("t2048: cell is occupied")
	ErrOutOfBounds  = errors.New("t2048: position out of bounds")
	ErrInvalidValue = errors.New("t2048: tile value must be a positive power of two")
	ErrInvalidGrid  = errors.New("t2048: grid does not match board size")
	ErrInvalidSize  = errors.New("t2048: unsupported board size")
)
