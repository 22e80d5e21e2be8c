// Package session keeps concurrent 2048 games for the network surfaces.
// Each session owns one game and one mutex, so every board mutation is
// serialized no matter how many clients talk to it.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	ErrSessionNotFound = errors.New("session: not found")
	ErrUnknownVariant  = errors.New("session: unknown variant")
)

// ScoreStore persists finished games and best scores.
// *storage.Store implements it.
type ScoreStore interface {
	SaveScore(r storage.Result) (int64, error)
	BestScore(slot string) (int, error)
	SetBestScore(slot string, score int) error
}

// Manager owns the live sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	store  ScoreStore
	logger *log.Logger
	seed   int64 // 0 = seed each game from the clock
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithStore persists best scores and finished games.
func WithStore(s ScoreStore) ManagerOption {
	return func(m *Manager) { m.store = s }
}

// WithLogger sets the manager logger.
func WithLogger(l *log.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithSeed makes every new game use the same seed. Intended for tests.
func WithSeed(seed int64) ManagerOption {
	return func(m *Manager) { m.seed = seed }
}

// NewManager creates an empty manager.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		logger:   log.Default().WithPrefix("session"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func generateID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%x", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

// Create starts a new game of the given variant ("" = "2048").
func (m *Manager) Create(variantID string) (*Session, error) {
	if variantID == "" {
		variantID = t2048.Variants[0].ID
	}
	v, ok := t2048.VariantByID(variantID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, variantID)
	}

	opts := []t2048.Option{t2048.WithLogger(m.logger.WithPrefix("t2048"))}
	if m.seed != 0 {
		opts = append(opts, t2048.WithSeed(m.seed))
	}

	s := &Session{
		id:           generateID(),
		variant:      v.ID,
		game:         t2048.NewVariant(v, opts...),
		createdAt:    time.Now(),
		lastAccessed: time.Now(),
		subs:         make(map[uint64]*Subscriber),
		store:        m.store,
		logger:       m.logger,
	}

	if m.store != nil {
		best, err := m.store.BestScore(v.ID)
		if err != nil {
			m.logger.Warn("cannot load best score", "variant", v.ID, "error", err)
		}
		s.game.SetBestScore(best)
	}
	s.game.Subscribe(s.onEvent)

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	m.logger.Debug("session created", "id", s.id, "variant", v.ID)
	return s, nil
}

// Get looks up a session by ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[strings.ToLower(id)]
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	return s, nil
}

// Delete removes a session and closes its subscribers.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[strings.ToLower(id)]
	delete(m.sessions, strings.ToLower(id))
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	s.closeSubscribers()
	return nil
}

// List returns all sessions, oldest first.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	result := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		result = append(result, s)
	}
	m.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].createdAt.Before(result[j].createdAt)
	})
	return result
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Reap deletes sessions idle for longer than maxIdle and returns how many
// were removed.
func (m *Manager) Reap(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	var expired []string
	for _, s := range m.List() {
		if s.LastAccessed().Before(cutoff) {
			expired = append(expired, s.id)
		}
	}
	for _, id := range expired {
		_ = m.Delete(id)
	}
	if len(expired) > 0 {
		m.logger.Info("reaped idle sessions", "count", len(expired))
	}
	return len(expired)
}

// RunJanitor reaps idle sessions every interval until ctx is done.
func (m *Manager) RunJanitor(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Reap(maxIdle)
		}
	}
}
