package registry

import (
	"testing"

	"github.com/vovakirdan/tui-2048/internal/core"
)

type stubGame struct{ id string }

func (s *stubGame) ID() string                           { return s.id }
func (s *stubGame) Title() string                        { return "Stub" }
func (s *stubGame) Reset(core.RuntimeConfig)             {}
func (s *stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (s *stubGame) Render(*core.Screen)                  {}
func (s *stubGame) State() core.GameState                { return core.GameState{} }

func TestRegisterCreate(t *testing.T) {
	Register("stub_b", "Stub B", func() Game { return &stubGame{id: "stub_b"} })
	Register("stub_a", "Stub A", func() Game { return &stubGame{id: "stub_a"} })

	if !Exists("stub_a") {
		t.Fatal("stub_a should exist")
	}
	if Exists("missing") {
		t.Error("missing should not exist")
	}

	g, err := Create("stub_b")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if g.ID() != "stub_b" {
		t.Errorf("ID = %q, want stub_b", g.ID())
	}

	if _, err := Create("missing"); err == nil {
		t.Error("expected error for unknown game")
	}

	list := List()
	var ids []string
	for _, info := range list {
		if info.ID == "stub_a" || info.ID == "stub_b" {
			ids = append(ids, info.ID)
		}
	}
	if len(ids) != 2 || ids[0] != "stub_a" || ids[1] != "stub_b" {
		t.Errorf("List order = %v, want [stub_a stub_b]", ids)
	}
	for _, info := range list {
		if info.ID == "stub_a" && info.Title != "Stub A" {
			t.Errorf("title = %q, want Stub A", info.Title)
		}
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("stub_dup", "Dup", func() Game { return &stubGame{id: "stub_dup"} })

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register("stub_dup", "Dup", func() Game { return &stubGame{id: "stub_dup"} })
}
