package core

import (
	"slices"
	"testing"
)

func TestInputFrame(t *testing.T) {
	var f InputFrame
	if !f.Empty() || f.Has(ActionUp) {
		t.Fatal("zero frame should be empty")
	}

	f.Set(ActionNone)
	if !f.Empty() {
		t.Error("ActionNone must not mark the frame")
	}

	f.Set(ActionRight)
	f.Set(ActionUndo)
	f.Set(ActionRight)
	if !f.Has(ActionRight) || !f.Has(ActionUndo) || f.Has(ActionLeft) {
		t.Errorf("unexpected actions %v", f.Actions())
	}
	if got := f.Actions(); !slices.Equal(got, []Action{ActionRight, ActionUndo}) {
		t.Errorf("Actions() = %v", got)
	}

	f.Clear()
	if !f.Empty() {
		t.Error("Clear should empty the frame")
	}

	g := NewInputFrame(ActionPause, ActionQuit)
	if !g.Has(ActionPause) || !g.Has(ActionQuit) {
		t.Errorf("NewInputFrame lost actions: %v", g.Actions())
	}
}

func TestActionString(t *testing.T) {
	tests := []struct {
		a    Action
		want string
	}{
		{ActionNone, "none"},
		{ActionUp, "up"},
		{ActionUndo, "undo"},
		{ActionPause, "pause"},
		{Action(200), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.a.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.a, got, tt.want)
		}
	}
}

func TestActionIsMove(t *testing.T) {
	for _, a := range []Action{ActionUp, ActionDown, ActionLeft, ActionRight} {
		if !a.IsMove() {
			t.Errorf("%v should be a move", a)
		}
	}
	for _, a := range []Action{ActionNone, ActionUndo, ActionRestart, ActionQuit} {
		if a.IsMove() {
			t.Errorf("%v should not be a move", a)
		}
	}
}
