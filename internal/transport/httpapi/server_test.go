package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	gorilla "github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-2048/internal/session"
	"github.com/vovakirdan/tui-2048/internal/storage"
	"github.com/vovakirdan/tui-2048/internal/transport/websocket"
)

func newTestServer(t *testing.T, opts ...Option) (*Server, *session.Manager) {
	t.Helper()

	logger := log.New(io.Discard)
	m := session.NewManager(session.WithSeed(42), session.WithLogger(logger))
	opts = append([]Option{WithLogger(logger), WithHub(websocket.NewHub(m, logger))}, opts...)
	return New(m, opts...), m
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("cannot decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func createGame(t *testing.T, s *Server, body string) gameResponse {
	t.Helper()

	rec := do(t, s, http.MethodPost, "/api/games", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	return decode[gameResponse](t, rec)
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	got := decode[map[string]any](t, rec)
	if got["ok"] != true {
		t.Errorf("Expected ok=true, got %v", got)
	}
}

func TestCreateGame(t *testing.T) {
	s, m := newTestServer(t)

	game := createGame(t, s, "")
	if game.Variant != "2048" || game.View.Size != 4 {
		t.Errorf("Expected default 4x4 game, got variant=%q size=%d", game.Variant, game.View.Size)
	}

	game = createGame(t, s, `{"variant":"2048_5x5"}`)
	if game.View.Size != 5 {
		t.Errorf("Expected 5x5 board, got %d", game.View.Size)
	}

	tiles := 0
	for _, row := range game.View.Grid {
		for _, v := range row {
			if v != 0 {
				tiles++
			}
		}
	}
	if tiles != 2 {
		t.Errorf("Expected 2 initial tiles, got %d", tiles)
	}

	if m.Count() != 2 {
		t.Errorf("Expected 2 sessions, got %d", m.Count())
	}
}

func TestCreateGameErrors(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"unknown variant", `{"variant":"2048_9x9"}`},
		{"malformed body", `{"variant":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/games", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestGetGameNotFound(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/games/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
	if decode[errorResponse](t, rec).Error == "" {
		t.Error("Expected an error message")
	}
}

func TestMoveAndUndo(t *testing.T) {
	s, _ := newTestServer(t)
	game := createGame(t, s, "")

	rec := do(t, s, http.MethodPost, "/api/games/"+game.ID+"/undo", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if decode[undoResponse](t, rec).OK {
		t.Error("Expected undo on a fresh game to report ok=false")
	}

	dir := game.View.CanMove[0]
	rec = do(t, s, http.MethodPost, "/api/games/"+game.ID+"/move", `{"direction":"`+dir+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	moved := decode[moveResponse](t, rec)
	if !moved.Moved || moved.View.Moves != 1 {
		t.Fatalf("Expected a successful move, got %+v", moved)
	}
	if moved.View.UndoDepth != 1 {
		t.Errorf("Expected undo depth 1, got %d", moved.View.UndoDepth)
	}

	rec = do(t, s, http.MethodPost, "/api/games/"+game.ID+"/undo", "")
	undone := decode[undoResponse](t, rec)
	if !undone.OK {
		t.Fatal("Expected undo to succeed")
	}
	if undone.View.Moves != 0 || undone.View.Score != 0 {
		t.Errorf("Expected counters restored, got moves=%d score=%d", undone.View.Moves, undone.View.Score)
	}
	for y := range game.View.Grid {
		for x := range game.View.Grid[y] {
			if undone.View.Grid[y][x] != game.View.Grid[y][x] {
				t.Fatalf("Grid not restored at (%d,%d): got %v want %v", x, y, undone.View.Grid, game.View.Grid)
			}
		}
	}
}

func TestMoveErrors(t *testing.T) {
	s, _ := newTestServer(t)
	game := createGame(t, s, "")

	tests := []struct {
		name string
		path string
		body string
		code int
	}{
		{"unknown direction", "/api/games/" + game.ID + "/move", `{"direction":"diagonal"}`, http.StatusBadRequest},
		{"missing direction", "/api/games/" + game.ID + "/move", `{}`, http.StatusBadRequest},
		{"malformed body", "/api/games/" + game.ID + "/move", `{`, http.StatusBadRequest},
		{"unknown game", "/api/games/missing/move", `{"direction":"left"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tt.path, tt.body)
			if rec.Code != tt.code {
				t.Errorf("Expected %d, got %d: %s", tt.code, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRestartAndDelete(t *testing.T) {
	s, _ := newTestServer(t)
	game := createGame(t, s, "")

	do(t, s, http.MethodPost, "/api/games/"+game.ID+"/move", `{"direction":"`+game.View.CanMove[0]+`"}`)

	rec := do(t, s, http.MethodPost, "/api/games/"+game.ID+"/restart", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	restarted := decode[gameResponse](t, rec)
	if restarted.View.Moves != 0 || restarted.View.UndoDepth != 0 {
		t.Errorf("Expected fresh game, got moves=%d undo=%d", restarted.View.Moves, restarted.View.UndoDepth)
	}

	rec = do(t, s, http.MethodDelete, "/api/games/"+game.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", rec.Code)
	}
	rec = do(t, s, http.MethodGet, "/api/games/"+game.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", rec.Code)
	}
}

func TestListGamesAndVariants(t *testing.T) {
	s, _ := newTestServer(t)
	createGame(t, s, "")
	createGame(t, s, `{"variant":"2048_3x3"}`)

	games := decode[[]gameResponse](t, do(t, s, http.MethodGet, "/api/games", ""))
	if len(games) != 2 {
		t.Fatalf("Expected 2 games, got %d", len(games))
	}

	type variant struct {
		ID   string `json:"id"`
		Size int    `json:"size"`
	}
	variants := decode[[]variant](t, do(t, s, http.MethodGet, "/api/variants", ""))
	if len(variants) != 4 {
		t.Fatalf("Expected 4 variants, got %d", len(variants))
	}
	if variants[0].ID != "2048" || variants[0].Size != 4 {
		t.Errorf("Expected default variant 2048 at size 4, got %+v", variants[0])
	}
}

func TestScores(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/scores", "")
	if rec.Code != http.StatusNotImplemented {
		t.Errorf("Expected 501 without storage, got %d", rec.Code)
	}

	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	for _, score := range []int{120, 900, 450} {
		if _, err := store.SaveScore(storage.Result{GameID: "2048", Score: score, MaxTile: 64, Moves: 30}); err != nil {
			t.Fatalf("SaveScore failed: %v", err)
		}
	}

	s, _ = newTestServer(t, WithScores(store))
	rec = do(t, s, http.MethodGet, "/api/scores?game=2048&limit=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	scores := decode[[]scoreResponse](t, rec)
	if len(scores) != 2 {
		t.Fatalf("Expected 2 scores, got %d", len(scores))
	}
	if scores[0].Score != 900 || scores[0].Rank != 1 || scores[1].Score != 450 {
		t.Errorf("Unexpected ordering: %+v", scores)
	}

	rec = do(t, s, http.MethodGet, "/api/scores?limit=abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad limit, got %d", rec.Code)
	}
}

func TestWebSocketRoute(t *testing.T) {
	s, _ := newTestServer(t)
	game := createGame(t, s, "")

	srv := httptest.NewServer(s)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/games/" + game.ID + "/ws"
	conn, _, err := gorilla.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	var msg websocket.Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if msg.Type != websocket.TypeState || msg.SessionID != game.ID {
		t.Errorf("Expected state frame for %s, got %+v", game.ID, msg)
	}
}
