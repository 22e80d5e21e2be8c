package session

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// Session is one live game. All methods are safe for concurrent use.
type Session struct {
	id        string
	variant   string
	createdAt time.Time

	mu           sync.Mutex
	game         *t2048.Game
	lastAccessed time.Time

	subsMu  sync.Mutex
	subs    map[uint64]*Subscriber
	nextSub uint64

	store  ScoreStore
	logger *log.Logger
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Variant returns the registry ID of the game variant.
func (s *Session) Variant() string { return s.variant }

// CreatedAt returns when the session started.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// LastAccessed returns the time of the last command.
func (s *Session) LastAccessed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccessed
}

// do runs fn with exclusive access to the game.
func (s *Session) do(fn func(g *t2048.Game)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccessed = time.Now()
	fn(s.game)
}

// View returns the current game view.
func (s *Session) View() t2048.View {
	var v t2048.View
	s.do(func(g *t2048.Game) { v = g.View() })
	return v
}

// Move applies dir and returns the outcome and the resulting view.
func (s *Session) Move(dir t2048.Direction) (t2048.MoveOutcome, t2048.View, error) {
	var (
		out t2048.MoveOutcome
		v   t2048.View
		err error
	)
	s.do(func(g *t2048.Game) {
		out, err = g.TryMove(dir)
		v = g.View()
	})
	return out, v, err
}

// MoveAxes applies a discrete axis signal, positive y being up. (0, 0) is a
// no-op; a diagonal is rejected with t2048.ErrInvalidMove.
func (s *Session) MoveAxes(x, y int) (t2048.MoveOutcome, t2048.View, error) {
	var (
		out t2048.MoveOutcome
		v   t2048.View
		err error
	)
	s.do(func(g *t2048.Game) {
		out, err = g.TryMoveAxes(x, y)
		v = g.View()
	})
	return out, v, err
}

// Undo reverts the last move. ok is false when there is nothing to undo.
func (s *Session) Undo() (v t2048.View, ok bool) {
	s.do(func(g *t2048.Game) {
		ok = g.Undo()
		v = g.View()
	})
	return v, ok
}

// Restart begins a new game, keeping the best score.
func (s *Session) Restart() t2048.View {
	var v t2048.View
	s.do(func(g *t2048.Game) {
		if g.Moves() > 0 && !g.IsGameOver() {
			s.record(g)
		}
		g.Restart()
		v = g.View()
	})
	return v
}

// Subscribe registers a subscriber for game events. Call Unsubscribe when
// done.
func (s *Session) Subscribe(buffer int) *Subscriber {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	s.nextSub++
	sub := newSubscriber(s.nextSub, buffer)
	s.subs[sub.id] = sub
	return sub
}

// Unsubscribe removes and closes sub.
func (s *Session) Unsubscribe(sub *Subscriber) {
	s.subsMu.Lock()
	delete(s.subs, sub.id)
	s.subsMu.Unlock()
	sub.close()
}

// Subscribers returns the number of attached subscribers.
func (s *Session) Subscribers() int {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	return len(s.subs)
}

func (s *Session) closeSubscribers() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for id, sub := range s.subs {
		sub.close()
		delete(s.subs, id)
	}
}

// onEvent runs inside the game while s.mu is held.
func (s *Session) onEvent(e t2048.Event) {
	switch e.Kind {
	case t2048.EventBestScoreChanged:
		if s.store != nil {
			if err := s.store.SetBestScore(s.variant, e.Value); err != nil {
				s.logger.Warn("cannot persist best score", "session", s.id, "error", err)
			}
		}
	case t2048.EventGameOver:
		if e.GameOver {
			s.record(s.game)
		}
	}

	s.subsMu.Lock()
	for _, sub := range s.subs {
		sub.send(e)
	}
	s.subsMu.Unlock()
}

// record saves the current game as a finished result, once per run.
func (s *Session) record(g *t2048.Game) {
	if s.store == nil || !g.ClaimResult() {
		return
	}
	_, err := s.store.SaveScore(storage.Result{
		GameID:  s.variant,
		Score:   g.Score(),
		MaxTile: g.MaxTile(),
		Moves:   g.Moves(),
	})
	if err != nil {
		s.logger.Warn("cannot save score", "session", s.id, "error", err)
	}
}
