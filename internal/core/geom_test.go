package core

import "testing"

func TestRectEdges(t *testing.T) {
	r := NewRect(2, 3, 4, 5)

	if r.Right() != 6 || r.Bottom() != 8 {
		t.Errorf("Right, Bottom = %d, %d; expected 6, 8", r.Right(), r.Bottom())
	}
	if x, y := r.Center(); x != 4 || y != 5 {
		t.Errorf("Center = (%d, %d), expected (4, 5)", x, y)
	}

	tests := []struct {
		x, y int
		want bool
	}{
		{2, 3, true},
		{5, 7, true},
		{6, 3, false},
		{2, 8, false},
		{1, 4, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%d, %d) = %v, expected %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestCenteredAt(t *testing.T) {
	r := CenteredAt(10, 5, 8, 3)
	if r != NewRect(6, 4, 8, 3) {
		t.Errorf("CenteredAt = %+v", r)
	}
	if x, y := r.Center(); x != 10 || y != 5 {
		t.Errorf("Center of centered rect = (%d, %d)", x, y)
	}
}

func TestRectFits(t *testing.T) {
	tests := []struct {
		r    Rect
		want bool
	}{
		{NewRect(0, 0, 29, 9), true},
		{NewRect(1, 0, 29, 9), false},
		{NewRect(-1, 0, 4, 4), false},
		{NewRect(0, 6, 4, 5), false},
	}
	for _, tt := range tests {
		if got := tt.r.Fits(29, 10); got != tt.want {
			t.Errorf("%+v.Fits(29, 10) = %v, expected %v", tt.r, got, tt.want)
		}
	}
}
