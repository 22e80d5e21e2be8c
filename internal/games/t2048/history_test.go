package t2048

import (
	"errors"
	"testing"
)

func TestHistoryPushPop(t *testing.T) {
	h := NewHistory(0)

	if _, err := h.Pop(); !errors.Is(err, ErrEmptyHistory) {
		t.Errorf("Pop on empty = %v, want ErrEmptyHistory", err)
	}

	g := Grid{{2, 0}, {0, 0}}
	h.Push(Snapshot{Values: g, Score: 0, MoveCount: 0})
	h.Push(Snapshot{Values: Grid{{4, 0}, {0, 2}}, Score: 4, MoveCount: 1})

	// Pushed grids are copied.
	g[0][0] = 8

	if h.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", h.Len())
	}

	s, err := h.Pop()
	if err != nil || s.Score != 4 || s.MoveCount != 1 {
		t.Errorf("Pop = %+v, %v", s, err)
	}
	s, _ = h.Pop()
	if s.Values[0][0] != 2 {
		t.Errorf("snapshot value = %d, want 2", s.Values[0][0])
	}
	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
}

func TestHistoryLimit(t *testing.T) {
	h := NewHistory(2)
	for i := range 5 {
		h.Push(Snapshot{Values: NewGrid(2), MoveCount: i})
	}
	if h.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", h.Len())
	}
	s, _ := h.Pop()
	if s.MoveCount != 4 {
		t.Errorf("newest = %d, want 4", s.MoveCount)
	}
	s, _ = h.Pop()
	if s.MoveCount != 3 {
		t.Errorf("oldest kept = %d, want 3", s.MoveCount)
	}

	h.Push(Snapshot{Values: NewGrid(2)})
	h.Clear()
	if h.Len() != 0 {
		t.Error("Clear should empty the history")
	}
	if NewHistory(-3).Limit() != 0 {
		t.Error("negative limit should mean unlimited")
	}
}
