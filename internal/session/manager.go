package session

import (
	"errors"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for unknown session IDs.
var ErrSessionNotFound = errors.New("session: not found")

// Manager holds sessions for network front-ends. Each session is guarded
// by its own mutex so requests for one game never interleave.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	opts     []Option
	logger   *log.Logger
}

type entry struct {
	mu sync.Mutex
	s  *Session
}

// NewManager creates a manager; opts are applied to every new session.
func NewManager(logger *log.Logger, opts ...Option) *Manager {
	return &Manager{
		sessions: make(map[string]*entry),
		opts:     opts,
		logger:   logger,
	}
}

// Create starts a new session with a random ID and returns its snapshot.
func (m *Manager) Create() Snapshot {
	id := uuid.NewString()

	opts := make([]Option, 0, len(m.opts)+2)
	opts = append(opts, m.opts...)
	opts = append(opts, WithID(id), WithLogger(m.logger))
	s := New(opts...)

	m.mu.Lock()
	m.sessions[id] = &entry{s: s}
	m.mu.Unlock()

	m.logger.Info("session created", "session", id)
	return s.Snapshot()
}

// Do runs fn with exclusive access to the session.
func (m *Manager) Do(id string, fn func(*Session) error) error {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.s)
}

// Get returns the snapshot of a session.
func (m *Manager) Get(id string) (Snapshot, error) {
	var snap Snapshot
	err := m.Do(id, func(s *Session) error {
		snap = s.Snapshot()
		return nil
	})
	return snap, err
}

// Delete closes and removes a session.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	e, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	e.mu.Lock()
	e.s.Close()
	e.mu.Unlock()

	m.logger.Info("session deleted", "session", id)
	return nil
}

// List returns the IDs of all sessions, sorted.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CloseAll closes every session, recording unfinished games.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, e := range m.sessions {
		e.mu.Lock()
		e.s.Close()
		e.mu.Unlock()
		delete(m.sessions, id)
	}
}
