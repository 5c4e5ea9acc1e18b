package engine

import (
	"log/slog"
	"sync"
	"time"

	"lawdesk_backend/platform/logger"
)

// ManagerConfig is the slice of app configuration the manager consumes.
type ManagerConfig interface {
	GetSearchSessionTTL() time.Duration
	GetSearchNoExactDelay() time.Duration
	GetSearchSecondaryFuzzyDelay() time.Duration
}

// Manager owns the live search sessions, keyed by an opaque client-chosen
// session id scoped to the authenticated user.
type Manager struct {
	searcher Searcher
	log      *logger.Logger

	ttl            time.Duration
	noExactDelay   time.Duration
	secondaryDelay time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(searcher Searcher, log *logger.Logger, cfg ManagerConfig) *Manager {
	return &Manager{
		searcher:       searcher,
		log:            log,
		ttl:            cfg.GetSearchSessionTTL(),
		noExactDelay:   cfg.GetSearchNoExactDelay(),
		secondaryDelay: cfg.GetSearchSecondaryFuzzyDelay(),
		sessions:       make(map[string]*Session),
	}
}

// Session returns the session for the given id, creating it on first use.
func (m *Manager) Session(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s
	}
	s := newSession(id, m.searcher, m.log, m.noExactDelay, m.secondaryDelay)
	m.sessions[id] = s
	return s
}

// Drop clears and removes one session.
func (m *Manager) Drop(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.Clear()
	}
}

// Sweep evicts sessions idle past the TTL and reports how many were removed.
func (m *Manager) Sweep() int {
	cutoff := time.Now().Add(-m.ttl)

	m.mu.Lock()
	stale := make([]*Session, 0)
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		s.Clear()
	}
	if len(stale) > 0 {
		m.log.Info("search_sessions_evicted", slog.Int("count", len(stale)))
	}
	return len(stale)
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
