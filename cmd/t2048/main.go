// t2048 is the 2048 sliding tile puzzle for the terminal, SSH, HTTP and MCP.
//
// Usage:
//
//	t2048 play [variant]     - Play in the terminal (menu when no variant)
//	t2048 list               - List board variants
//	t2048 scores [variant]   - Show high scores and stats
//	t2048 serve              - Start the SSH server
//	t2048 web                - Start the HTTP/WebSocket API
//	t2048 mcp                - Serve MCP tools on stdio
//
// Global flags:
//
//	--fps <rate>        - Tick rate (default: 30)
//	--seed <value>      - RNG seed for reproducible games
//	--db <path>         - Database path (default: ~/.t2048/scores.db)
//	--config <path>     - Custom t2048.yaml
//	--log-level <lvl>   - debug, info, warn, error
//	--log-file <path>   - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

const defaultDBPath = "~/.t2048/scores.db"

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
	flagLogFile  string

	logFile *os.File
)

func main() {
	// A missing .env is not an error.
	_ = godotenv.Load()

	err := rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "t2048",
	Short: "2048 - slide and merge tiles in your terminal",
	Long: `t2048 is the 2048 sliding tile puzzle with undo.

Available commands:
  play     - Play in the terminal
  list     - Show the board variants
  scores   - View high scores
  serve    - Start the SSH server for remote play
  web      - Start the HTTP and WebSocket API
  mcp      - Serve MCP tools on stdio for agents

Examples:
  t2048 play
  t2048 play 2048_5x5
  t2048 serve --ssh :2222
  t2048 web --addr :8080
  t2048 scores 2048`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", defaultDBPath, "Path to scores database (env T2048_DB)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom t2048.yaml")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error (env T2048_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(mcpCmd)
}

// setup applies environment overrides, logging and the game config before
// any subcommand runs.
func setup(cmd *cobra.Command, _ []string) error {
	if !cmd.Flags().Changed("db") {
		if v := os.Getenv("T2048_DB"); v != "" {
			flagDBPath = v
		}
	}
	if !cmd.Flags().Changed("log-level") {
		if v := os.Getenv("T2048_LOG_LEVEL"); v != "" {
			flagLogLevel = v
		}
	}

	// The TUI owns the terminal, so it only logs to a file.
	quiet := cmd.Name() == "play"
	if err := setupLogging(quiet); err != nil {
		return err
	}

	cfg, err := config.LoadT2048(flagConfig)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	t2048.SetConfig(cfg)
	t2048.SetLogger(log.Default().WithPrefix("t2048"))
	return nil
}

func setupLogging(quiet bool) error {
	level, err := log.ParseLevel(strings.ToLower(flagLogLevel))
	if err != nil {
		return fmt.Errorf("invalid log level %q", flagLogLevel)
	}

	var w io.Writer = os.Stderr
	switch {
	case flagLogFile != "":
		path := expandHome(flagLogFile)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = f
		w = f
	case quiet:
		w = io.Discard
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})
	log.SetDefault(logger)
	return nil
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
