// Package httpapi exposes game sessions over a JSON HTTP API.
//
// Routes:
//
//	GET    /health
//	GET    /api/variants
//	GET    /api/games
//	POST   /api/games                {"variant": "2048_5x5"}
//	GET    /api/games/{id}
//	DELETE /api/games/{id}
//	POST   /api/games/{id}/move      {"direction": "left"}
//	POST   /api/games/{id}/undo
//	POST   /api/games/{id}/restart
//	GET    /api/games/{id}/ws        websocket event stream
//	GET    /api/scores?game=2048&limit=10
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/session"
	"github.com/vovakirdan/tui-2048/internal/storage"
	"github.com/vovakirdan/tui-2048/internal/transport/websocket"
)

const (
	requestTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 12
)

// ScoreLister reads the scoreboard. *storage.Store implements it.
type ScoreLister interface {
	TopScores(gameID string, limit int) ([]storage.ScoreEntry, error)
}

// Server bundles the router, the session manager and the websocket hub.
type Server struct {
	r       *chi.Mux
	manager *session.Manager
	hub     *websocket.Hub
	scores  ScoreLister
	logger  *log.Logger

	httpServer *http.Server
	listener   net.Listener
}

// Option configures a Server.
type Option func(*Server)

// WithHub serves websocket streams from h.
func WithHub(h *websocket.Hub) Option {
	return func(s *Server) { s.hub = h }
}

// WithScores enables GET /api/scores.
func WithScores(l ScoreLister) Option {
	return func(s *Server) { s.scores = l }
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Server, installs middleware and registers routes.
func New(m *session.Manager, opts ...Option) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		manager: m,
		logger:  log.Default().WithPrefix("http"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(s.logRequests)

	s.r.Get("/health", s.handleHealth)

	s.r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(requestTimeout))
			r.Use(jsonContentType)

			r.Get("/variants", s.handleVariants)
			r.Get("/scores", s.handleScores)

			r.Get("/games", s.handleListGames)
			r.Post("/games", s.handleCreateGame)
			r.Get("/games/{id}", s.handleGetGame)
			r.Delete("/games/{id}", s.handleDeleteGame)
			r.Post("/games/{id}/move", s.handleMove)
			r.Post("/games/{id}/undo", s.handleUndo)
			r.Post("/games/{id}/restart", s.handleRestart)
		})

		// The websocket upgrade must not sit behind the timeout middleware.
		r.Get("/games/{id}/ws", s.handleWebSocket)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "not found: "+r.URL.Path)
	})
	s.r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.r.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.logger.Info("HTTP server listening", "address", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown()
	case err := <-errCh:
		return err
	}
}

// Shutdown disconnects websocket clients and stops the server.
func (s *Server) Shutdown() error {
	if s.hub != nil {
		s.hub.Close()
	}
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("shutting down HTTP server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the listening address once the server is started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// ----------------------------- middleware ----------------------------------

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

// ----------------------------- responses -----------------------------------

type errorResponse struct {
	Error string `json:"error"`
}

type gameResponse struct {
	ID        string     `json:"id"`
	Variant   string     `json:"variant"`
	CreatedAt time.Time  `json:"created_at"`
	View      t2048.View `json:"view"`
}

type moveResponse struct {
	Moved  bool       `json:"moved"`
	Gained int        `json:"gained"`
	Merges int        `json:"merges"`
	View   t2048.View `json:"view"`
}

type undoResponse struct {
	OK   bool       `json:"ok"`
	View t2048.View `json:"view"`
}

type scoreResponse struct {
	Rank      int       `json:"rank"`
	Score     int       `json:"score"`
	MaxTile   int       `json:"max_tile"`
	Moves     int       `json:"moves"`
	CreatedAt time.Time `json:"created_at"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrUnknownVariant), errors.Is(err, t2048.ErrInvalidMove):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func toGameResponse(sess *session.Session, v t2048.View) gameResponse {
	return gameResponse{
		ID:        sess.ID(),
		Variant:   sess.Variant(),
		CreatedAt: sess.CreatedAt(),
		View:      v,
	}
}

// decodeBody reads an optional JSON body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

// ------------------------------ handlers -----------------------------------

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"sessions": s.manager.Count(),
	})
}

func (s *Server) handleVariants(w http.ResponseWriter, r *http.Request) {
	type variant struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Size  int    `json:"size"`
	}

	out := make([]variant, 0, len(t2048.Variants))
	for _, v := range t2048.Variants {
		out = append(out, variant{ID: v.ID, Title: v.Title, Size: v.BoardSize()})
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	sessions := s.manager.List()
	out := make([]gameResponse, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, toGameResponse(sess, sess.View()))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Variant string `json:"variant"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := s.manager.Create(req.Variant)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	s.logger.Info("game created", "id", sess.ID(), "variant", sess.Variant())
	respondJSON(w, http.StatusCreated, toGameResponse(sess, sess.View()))
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.manager.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return nil, false
	}
	return sess, true
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, toGameResponse(sess, sess.View()))
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.Delete(chi.URLParam(r, "id")); err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Direction string `json:"direction"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dir, err := t2048.ParseDirection(req.Direction)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	if dir == t2048.DirNone {
		respondError(w, http.StatusBadRequest, "direction is required")
		return
	}

	out, v, err := sess.Move(dir)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, moveResponse{
		Moved:  out.Moved,
		Gained: out.Score,
		Merges: len(out.Merges),
		View:   v,
	})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	v, undone := sess.Undo()
	respondJSON(w, http.StatusOK, undoResponse{OK: undone, View: v})
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, toGameResponse(sess, sess.Restart()))
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		respondError(w, http.StatusNotImplemented, "websocket streaming is disabled")
		return
	}
	s.hub.ServeWS(w, r, chi.URLParam(r, "id"))
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	if s.scores == nil {
		respondError(w, http.StatusNotImplemented, "score storage is disabled")
		return
	}

	gameID := r.URL.Query().Get("game")
	if gameID == "" {
		gameID = t2048.Variants[0].ID
	}
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			respondError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	entries, err := s.scores.TopScores(gameID, limit)
	if err != nil {
		s.logger.Error("cannot load scores", "game", gameID, "error", err)
		respondError(w, http.StatusInternalServerError, "cannot load scores")
		return
	}

	out := make([]scoreResponse, 0, len(entries))
	for i, e := range entries {
		out = append(out, scoreResponse{
			Rank:      i + 1,
			Score:     e.Score,
			MaxTile:   e.MaxTile,
			Moves:     e.Moves,
			CreatedAt: e.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, out)
}
