package t2048

import (
	"errors"
	"testing"
)

func TestNewBoardSize(t *testing.T) {
	tests := []struct {
		size    int
		wantErr bool
	}{
		{1, true},
		{2, false},
		{4, false},
		{8, false},
		{9, true},
	}

	for _, tt := range tests {
		b, err := NewBoard(tt.size)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidSize) {
				t.Errorf("NewBoard(%d) err = %v, want ErrInvalidSize", tt.size, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NewBoard(%d) unexpected error: %v", tt.size, err)
		}
		if b.Size() != tt.size {
			t.Errorf("Size() = %d, want %d", b.Size(), tt.size)
		}
		if len(b.EmptyCells()) != tt.size*tt.size {
			t.Errorf("new board should be empty")
		}
	}
}

func TestPlaceTile(t *testing.T) {
	b, _ := NewBoard(4)

	if err := b.PlaceTile(1, 2, 8); err != nil {
		t.Fatalf("PlaceTile failed: %v", err)
	}
	tile, ok := b.CellAt(1, 2)
	if !ok || tile.Value != 8 || tile.Pos != (Pos{1, 2}) {
		t.Errorf("CellAt(1,2) = %+v, %v", tile, ok)
	}
	if tile.Engaged() {
		t.Error("placed tile should not be engaged")
	}

	tests := []struct {
		name  string
		x, y  int
		value int
		want  error
	}{
		{"occupied", 1, 2, 2, ErrCellOccupied},
		{"out of bounds x", 4, 0, 2, ErrOutOfBounds},
		{"out of bounds y", 0, -1, 2, ErrOutOfBounds},
		{"zero value", 0, 0, 0, ErrInvalidValue},
		{"one", 0, 0, 1, ErrInvalidValue},
		{"not power of two", 0, 0, 6, ErrInvalidValue},
		{"negative", 0, 0, -4, ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := b.PlaceTile(tt.x, tt.y, tt.value)
			if !errors.Is(err, tt.want) {
				t.Errorf("PlaceTile(%d,%d,%d) = %v, want %v", tt.x, tt.y, tt.value, err, tt.want)
			}
		})
	}
}

func TestRemoveTile(t *testing.T) {
	b, _ := NewBoard(3)
	_ = b.PlaceTile(0, 0, 2)

	b.RemoveTile(0, 0)
	if _, ok := b.CellAt(0, 0); ok {
		t.Error("cell should be empty after RemoveTile")
	}

	// No-ops
	b.RemoveTile(0, 0)
	b.RemoveTile(5, 5)
	if b.TileCount() != 0 {
		t.Errorf("TileCount() = %d, want 0", b.TileCount())
	}
}

func TestCellAtOutOfBounds(t *testing.T) {
	b, _ := NewBoard(4)
	if _, ok := b.CellAt(-1, 0); ok {
		t.Error("out of bounds should read empty")
	}
	if _, ok := b.CellAt(0, 4); ok {
		t.Error("out of bounds should read empty")
	}
}

func TestSnapshotRestore(t *testing.T) {
	g := Grid{
		{2, 0, 0, 4},
		{0, 8, 0, 0},
		{0, 0, 16, 0},
		{32, 0, 0, 2048},
	}
	b, err := NewBoardFromValues(g)
	if err != nil {
		t.Fatalf("NewBoardFromValues failed: %v", err)
	}

	snap := b.SnapshotValues()
	if !snap.Equal(g) {
		t.Errorf("snapshot = %v, want %v", snap, g)
	}

	// Snapshot is a copy
	snap[0][0] = 4
	if tile, _ := b.CellAt(0, 0); tile.Value != 2 {
		t.Error("mutating snapshot changed the board")
	}

	if b.TileCount() != 6 {
		t.Errorf("TileCount() = %d, want 6", b.TileCount())
	}
	if b.MaxTile() != 2048 {
		t.Errorf("MaxTile() = %d, want 2048", b.MaxTile())
	}

	other := NewGrid(4)
	other[1][1] = 2
	if err := b.RestoreFromValues(other); err != nil {
		t.Fatalf("RestoreFromValues failed: %v", err)
	}
	if b.TileCount() != 1 {
		t.Errorf("restore should wipe previous tiles, TileCount() = %d", b.TileCount())
	}
}

func TestRestoreRejectsBadGrid(t *testing.T) {
	b, _ := NewBoard(2)
	_ = b.PlaceTile(0, 0, 4)

	tests := []struct {
		name string
		grid Grid
		want error
	}{
		{"too few rows", Grid{{0, 0}}, ErrInvalidGrid},
		{"ragged", Grid{{0, 0}, {0}}, ErrInvalidGrid},
		{"bad value", Grid{{3, 0}, {0, 0}}, ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := b.RestoreFromValues(tt.grid); !errors.Is(err, tt.want) {
				t.Errorf("RestoreFromValues = %v, want %v", err, tt.want)
			}
			if tile, ok := b.CellAt(0, 0); !ok || tile.Value != 4 {
				t.Error("rejected restore must leave the board untouched")
			}
		})
	}
}

func TestBoardString(t *testing.T) {
	b, _ := NewBoardFromValues(Grid{{2, 0}, {0, 16}})
	want := " 2  .\n . 16\n"
	if got := b.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
