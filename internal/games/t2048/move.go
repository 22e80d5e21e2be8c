package t2048

import (
	"fmt"
	"math"
	"strings"
)

// Direction represents a move direction.
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// Directions lists the four playable directions.
var Directions = [...]Direction{DirUp, DirDown, DirLeft, DirRight}

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case DirNone:
		return "none"
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Valid reports whether d is one of the four playable directions.
func (d Direction) Valid() bool {
	return d >= DirUp && d <= DirRight
}

// ParseDirection converts a name ("left"), a vim key ("h") or a WASD key
// ("a") to a direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "w", "k":
		return DirUp, nil
	case "down", "s", "j":
		return DirDown, nil
	case "left", "a", "h":
		return DirLeft, nil
	case "right", "d", "l":
		return DirRight, nil
	case "none", "":
		return DirNone, nil
	}
	return DirNone, fmt.Errorf("%w: unknown direction %q", ErrInvalidMove, s)
}

// DirectionFromAxes converts a discrete axis signal to a direction.
// Positive y is up, positive x is right. (0, 0) is DirNone. A signal with
// both axes set is rejected with ErrInvalidMove.
func DirectionFromAxes(x, y int) (Direction, error) {
	switch {
	case x == 0 && y == 0:
		return DirNone, nil
	case x != 0 && y != 0:
		return DirNone, fmt.Errorf("%w: diagonal (%d, %d)", ErrInvalidMove, x, y)
	case y > 0:
		return DirUp, nil
	case y < 0:
		return DirDown, nil
	case x < 0:
		return DirLeft, nil
	default:
		return DirRight, nil
	}
}

// ResolveGesture turns a free-form swipe delta into a direction using the
// axis with the larger magnitude. Swipes shorter than minDistance, or with
// equal magnitude on both axes, resolve to DirNone.
func ResolveGesture(dx, dy, minDistance float64) Direction {
	if math.Hypot(dx, dy) < minDistance {
		return DirNone
	}
	ax, ay := math.Abs(dx), math.Abs(dy)
	switch {
	case ax > ay && dx > 0:
		return DirRight
	case ax > ay:
		return DirLeft
	case ay > ax && dy > 0:
		return DirUp
	case ay > ax:
		return DirDown
	}
	return DirNone
}

// Merge records two tiles combining into one.
type Merge struct {
	From  Pos // cell the moving tile left
	To    Pos // cell holding the merged tile
	Value int // value after the merge
}

// Slide records a tile moving into an empty cell.
type Slide struct {
	From  Pos
	To    Pos
	Value int
}

// MoveOutcome describes what a move did to the board.
type MoveOutcome struct {
	Moved  bool
	Score  int // sum of merged tile values
	Merges []Merge
	Slides []Slide
}

// line returns the cells of row or column i for dir, ordered from the
// destination edge inward.
func (b *Board) line(dir Direction, i int) []Pos {
	n := b.size
	cells := make([]Pos, n)
	for k := range n {
		switch dir {
		case DirLeft:
			cells[k] = Pos{k, i}
		case DirRight:
			cells[k] = Pos{n - 1 - k, i}
		case DirUp:
			cells[k] = Pos{i, k}
		case DirDown:
			cells[k] = Pos{i, n - 1 - k}
		}
	}
	return cells
}

// nearestOccupied scans from line[k] toward the edge across empty cells
// and returns the index of the first occupied cell, or -1 if the path to
// the edge is clear.
func (b *Board) nearestOccupied(line []Pos, k int) int {
	j := k - 1
	for j >= 0 && b.at(line[j]).value == 0 {
		j--
	}
	return j
}

// canMerge reports whether src may merge into dst during the current move.
func canMerge(dst, src *cell) bool {
	return dst.value == src.value && !dst.engaged && !src.engaged
}

// Move slides and merges every line toward dir. The board is settled on
// return. An invalid direction leaves the board unchanged.
func (b *Board) Move(dir Direction) MoveOutcome {
	var out MoveOutcome
	if !dir.Valid() {
		return out
	}
	for i := range b.size {
		b.moveLine(b.line(dir, i), &out)
	}
	b.settle()
	return out
}

func (b *Board) moveLine(line []Pos, out *MoveOutcome) {
	// line[0] is already at the edge and can never move.
	for k := 1; k < len(line); k++ {
		src := b.at(line[k])
		if src.value == 0 {
			continue
		}

		j := b.nearestOccupied(line, k)
		if j >= 0 {
			dst := b.at(line[j])
			if canMerge(dst, src) {
				dst.value *= 2
				dst.engaged = true
				*src = cell{}
				out.Moved = true
				out.Score += dst.value
				out.Merges = append(out.Merges, Merge{From: line[k], To: line[j], Value: dst.value})
				continue
			}
		}

		target := j + 1
		if target == k {
			continue // blocked by its neighbor
		}
		*b.at(line[target]) = *src
		*src = cell{}
		out.Moved = true
		out.Slides = append(out.Slides, Slide{From: line[k], To: line[target], Value: b.at(line[target]).value})
	}
}

// CanMove reports whether a move toward dir would change the board,
// without mutating it.
func (b *Board) CanMove(dir Direction) bool {
	if !dir.Valid() {
		return false
	}
	for i := range b.size {
		line := b.line(dir, i)
		for k := 1; k < len(line); k++ {
			src := b.at(line[k])
			if src.value == 0 {
				continue
			}
			j := b.nearestOccupied(line, k)
			if j+1 != k {
				return true
			}
			if j >= 0 && canMerge(b.at(line[j]), src) {
				return true
			}
		}
	}
	return false
}

// AnyMovesLeft reports whether at least one direction can change the board.
func (b *Board) AnyMovesLeft() bool {
	for _, dir := range Directions {
		if b.CanMove(dir) {
			return true
		}
	}
	return false
}
