package main

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	mcpapi "github.com/vovakirdan/tui-2048/internal/transport/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve MCP tools on stdio",
	Long: `Run a Model Context Protocol server on stdin/stdout so an agent can
play. Logs go to stderr or --log-file.

Tools: list_variants, new_game, game_state, move, undo, restart

Example MCP client entry:
  {"command": "t2048", "args": ["mcp", "--log-level", "warn"]}`,
	RunE: runMCP,
}

func runMCP(_ *cobra.Command, _ []string) error {
	manager, store := newManager()
	if store != nil {
		defer store.Close()
	}

	server := mcpapi.NewServer(manager, log.Default().WithPrefix("mcp"))
	log.Info("MCP stdio server ready")
	return server.ServeStdio()
}
