package mcp

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/session"
)

func newTestServer() (*Server, *session.Manager) {
	logger := log.New(io.Discard)
	m := session.NewManager(session.WithSeed(3), session.WithLogger(logger))
	return NewServer(m, logger), m
}

func call(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func text(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected result content")
	}
	content, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return content.Text
}

func TestNewGame(t *testing.T) {
	s, m := newTestServer()

	result, err := s.handleNewGame(context.Background(), call("new_game", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("new_game failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("Unexpected tool error: %s", text(t, result))
	}

	sessions := m.List()
	if len(sessions) != 1 {
		t.Fatalf("Expected 1 session, got %d", len(sessions))
	}
	if !strings.Contains(text(t, result), sessions[0].ID()) {
		t.Errorf("Expected session ID in result, got: %s", text(t, result))
	}
}

func TestNewGameUnknownVariant(t *testing.T) {
	s, _ := newTestServer()

	result, err := s.handleNewGame(context.Background(), call("new_game", map[string]interface{}{"variant": "tetris"}))
	if err != nil {
		t.Fatalf("new_game failed: %v", err)
	}
	if !result.IsError {
		t.Error("Expected a tool error for an unknown variant")
	}
}

func TestMoveUndoRestart(t *testing.T) {
	s, m := newTestServer()
	sess, err := m.Create("2048")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	ctx := context.Background()
	dir := sess.View().CanMove[0]

	result, _ := s.handleMove(ctx, call("move", map[string]interface{}{
		"session_id": sess.ID(),
		"direction":  dir,
	}))
	if result.IsError {
		t.Fatalf("move failed: %s", text(t, result))
	}
	if !strings.Contains(text(t, result), "Moves: 1") {
		t.Errorf("Expected move count 1, got: %s", text(t, result))
	}

	result, _ = s.handleUndo(ctx, call("undo", map[string]interface{}{"session_id": sess.ID()}))
	if result.IsError {
		t.Fatalf("undo failed: %s", text(t, result))
	}
	if sess.View().Moves != 0 {
		t.Errorf("Expected move count 0 after undo, got %d", sess.View().Moves)
	}

	result, _ = s.handleUndo(ctx, call("undo", map[string]interface{}{"session_id": sess.ID()}))
	if !result.IsError {
		t.Error("Expected undo with empty history to be a tool error")
	}

	result, _ = s.handleRestart(ctx, call("restart", map[string]interface{}{"session_id": sess.ID()}))
	if result.IsError || !strings.Contains(text(t, result), "Restarted") {
		t.Errorf("restart failed: %s", text(t, result))
	}
}

func TestToolErrors(t *testing.T) {
	s, m := newTestServer()
	sess, _ := m.Create("2048")
	ctx := context.Background()

	tests := []struct {
		name   string
		handle func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args   map[string]interface{}
	}{
		{"state without session", s.handleGameState, map[string]interface{}{}},
		{"state unknown session", s.handleGameState, map[string]interface{}{"session_id": "missing"}},
		{"move without direction", s.handleMove, map[string]interface{}{"session_id": sess.ID()}},
		{"move diagonal", s.handleMove, map[string]interface{}{"session_id": sess.ID(), "direction": "up-left"}},
		{"undo unknown session", s.handleUndo, map[string]interface{}{"session_id": "missing"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.handle(ctx, call("tool", tt.args))
			if err != nil {
				t.Fatalf("handler returned protocol error: %v", err)
			}
			if !result.IsError {
				t.Errorf("Expected tool error, got: %s", text(t, result))
			}
		})
	}
}

func TestFormatView(t *testing.T) {
	v := t2048.View{
		Size:      2,
		Grid:      t2048.Grid{{2, 0}, {16, 4}},
		Score:     20,
		BestScore: 40,
		Moves:     3,
		MaxTile:   16,
		CanMove:   []string{"up", "right"},
		State:     t2048.StatePlaying,
	}

	out := formatView("abc", v)
	for _, want := range []string{"Session: abc", "Score: 20", "Best: 40", " 2  .", "16  4", "Legal moves: up, right"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}

	v.State = t2048.StateGameOver
	v.UndoDepth = 1
	if out := formatView("abc", v); !strings.Contains(out, "GAME OVER (undo is available)") {
		t.Errorf("Expected game over line, got:\n%s", out)
	}
}

func TestListVariants(t *testing.T) {
	s, _ := newTestServer()

	result, _ := s.handleListVariants(context.Background(), call("list_variants", nil))
	out := text(t, result)
	for _, v := range t2048.Variants {
		if !strings.Contains(out, v.ID) {
			t.Errorf("Expected variant %s in output", v.ID)
		}
	}
}
