// Package mcp exposes game sessions as Model Context Protocol tools so an
// agent can play over stdio.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/session"
)

const (
	serverName    = "t2048"
	serverVersion = "1.0.0"
)

const instructions = `2048 - MCP Interface

Slide tiles on an N×N board. Equal tiles that collide merge into their sum,
which is added to the score. After every move that changes the board a new
tile (2, sometimes 4) appears. The game ends when no move changes the board.

TOOLS:
- list_variants: available board sizes
- new_game: start a game and get its session_id
- game_state: board, score and legal moves of a session
- move: slide up/down/left/right
- undo: take back the last move
- restart: start over on the same board size`

// Server serves MCP tools backed by a session manager.
type Server struct {
	manager   *session.Manager
	logger    *log.Logger
	mcpServer *server.MCPServer
}

// NewServer creates the MCP server and registers its tools.
func NewServer(m *session.Manager, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default().WithPrefix("mcp")
	}
	s := &Server{manager: m, logger: logger}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
		server.WithInstructions(instructions),
	)
	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves requests on stdin/stdout until the input closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func sessionSchema(extra map[string]interface{}, required ...string) mcp.ToolInputSchema {
	props := map[string]interface{}{
		"session_id": map[string]interface{}{
			"type":        "string",
			"description": "Session ID returned by new_game",
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: props,
		Required:   append([]string{"session_id"}, required...),
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_variants",
		Description: "List the available board sizes",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListVariants)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "new_game",
		Description: "Start a new game and return its session ID and board",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"variant": map[string]interface{}{
					"type":        "string",
					"description": "Variant ID from list_variants (default 2048)",
				},
			},
		},
	}, s.handleNewGame)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the board, score and legal moves of a game",
		InputSchema: sessionSchema(nil),
	}, s.handleGameState)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Slide all tiles in a direction",
		InputSchema: sessionSchema(map[string]interface{}{
			"direction": map[string]interface{}{
				"type":        "string",
				"enum":        []string{"up", "down", "left", "right"},
				"description": "Direction to slide the tiles",
			},
		}, "direction"),
	}, s.handleMove)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "undo",
		Description: "Take back the last move",
		InputSchema: sessionSchema(nil),
	}, s.handleUndo)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "restart",
		Description: "Start over on the same board size, keeping the best score",
		InputSchema: sessionSchema(nil),
	}, s.handleRestart)
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func (s *Server) lookup(request mcp.CallToolRequest) (*session.Session, error) {
	id, _ := arguments(request)["session_id"].(string)
	if id == "" {
		return nil, errors.New("session_id is required")
	}
	return s.manager.Get(id)
}

// formatView renders a view as plain text for agents.
func formatView(id string, v t2048.View) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Session: %s\n", id)
	fmt.Fprintf(&b, "Score: %d  Best: %d  Moves: %d  Max tile: %d\n", v.Score, v.BestScore, v.Moves, v.MaxTile)
	if v.Target > 0 {
		fmt.Fprintf(&b, "Target: %d (reached: %t)\n", v.Target, v.TargetReached)
	}
	b.WriteString("\n")

	width := len(strconv.Itoa(max(v.MaxTile, 2)))
	for _, row := range v.Grid {
		cells := make([]string, len(row))
		for x, value := range row {
			if value == 0 {
				cells[x] = fmt.Sprintf("%*s", width, ".")
			} else {
				cells[x] = fmt.Sprintf("%*d", width, value)
			}
		}
		b.WriteString(strings.Join(cells, " "))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if v.State == t2048.StateGameOver {
		b.WriteString("GAME OVER")
		if v.UndoDepth > 0 {
			b.WriteString(" (undo is available)")
		}
		b.WriteString("\n")
	} else {
		fmt.Fprintf(&b, "Legal moves: %s\n", strings.Join(v.CanMove, ", "))
	}
	fmt.Fprintf(&b, "Undo depth: %d\n", v.UndoDepth)
	return b.String()
}

// Tool handlers

func (s *Server) handleListVariants(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var b strings.Builder
	for _, v := range t2048.Variants {
		fmt.Fprintf(&b, "%s: %s\n", v.ID, v.Title)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	variant, _ := arguments(request)["variant"].(string)

	sess, err := s.manager.Create(variant)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.logger.Info("game created", "id", sess.ID(), "variant", sess.Variant())
	return mcp.NewToolResultText(formatView(sess.ID(), sess.View())), nil
}

func (s *Server) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.lookup(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatView(sess.ID(), sess.View())), nil
}

func (s *Server) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.lookup(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	raw, _ := arguments(request)["direction"].(string)
	dir, err := t2048.ParseDirection(raw)
	if err == nil && dir == t2048.DirNone {
		err = errors.New("direction is required")
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, v, err := sess.Move(dir)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var header string
	switch {
	case !out.Moved:
		header = fmt.Sprintf("Move %s changed nothing.\n", dir)
	case out.Score > 0:
		header = fmt.Sprintf("Moved %s: %d merge(s), +%d points.\n", dir, len(out.Merges), out.Score)
	default:
		header = fmt.Sprintf("Moved %s.\n", dir)
	}
	return mcp.NewToolResultText(header + formatView(sess.ID(), v)), nil
}

func (s *Server) handleUndo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.lookup(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	v, ok := sess.Undo()
	if !ok {
		return mcp.NewToolResultError("nothing to undo"), nil
	}
	return mcp.NewToolResultText("Undone.\n" + formatView(sess.ID(), v)), nil
}

func (s *Server) handleRestart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.lookup(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Restarted.\n" + formatView(sess.ID(), sess.Restart())), nil
}
