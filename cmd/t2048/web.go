package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/session"
	"github.com/vovakirdan/tui-2048/internal/storage"
	"github.com/vovakirdan/tui-2048/internal/transport/httpapi"
	"github.com/vovakirdan/tui-2048/internal/transport/websocket"
)

var (
	flagWebAddr     string
	flagSessionIdle time.Duration
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the HTTP and WebSocket API",
	Long: `Serve games over a JSON API. Each game is a session addressed by ID;
clients can stream its events over a websocket.

Endpoints:
  POST /api/games                 {"variant":"2048"}
  GET  /api/games/{id}
  POST /api/games/{id}/move       {"direction":"left"}
  POST /api/games/{id}/undo
  POST /api/games/{id}/restart
  GET  /api/games/{id}/ws
  GET  /api/scores?game=2048
  GET  /health

Examples:
  t2048 web
  t2048 web --addr 127.0.0.1:9000 --session-idle 10m`,
	RunE: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", ":8080", "HTTP listen address")
	webCmd.Flags().DurationVar(&flagSessionIdle, "session-idle", 30*time.Minute, "Drop sessions idle for this long")
}

// newManager builds a session manager persisting to the score database.
// The returned store is nil when the database is unavailable.
func newManager() (*session.Manager, *storage.Store) {
	opts := []session.ManagerOption{
		session.WithLogger(log.Default().WithPrefix("session")),
		session.WithSeed(flagSeed),
	}

	store := openStore()
	if store != nil {
		opts = append(opts, session.WithStore(store))
	}
	return session.NewManager(opts...), store
}

func runWeb(_ *cobra.Command, _ []string) error {
	opts := []httpapi.Option{httpapi.WithLogger(log.Default().WithPrefix("http"))}

	manager, store := newManager()
	if store != nil {
		defer store.Close()
		opts = append(opts, httpapi.WithScores(store))
	}

	hub := websocket.NewHub(manager, log.Default().WithPrefix("ws"))
	opts = append(opts, httpapi.WithHub(hub))
	server := httpapi.New(manager, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go manager.RunJanitor(ctx, time.Minute, flagSessionIdle)

	fmt.Printf("Starting t2048 API on %s\n", flagWebAddr)
	fmt.Println("Press Ctrl+C to stop")
	return server.ListenAndServe(ctx, flagWebAddr)
}
