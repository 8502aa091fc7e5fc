package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/slidegame/fivetwelve/game/engine"
	"github.com/slidegame/fivetwelve/game/service"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

// Manager owns the in-memory table of running games. Session IDs are matched
// case-insensitively so "ab3f" and "AB3F" name the same board; with
// persistence attached, boards are written through on every change and can be
// faulted back in after a restart.
type Manager struct {
	sessions    map[string]*service.Session
	persistence SessionPersistence
	mu          sync.RWMutex
}

// NewManager returns a memory-only manager; games vanish on process exit.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*service.Session),
	}
}

// NewManagerWithPersistence returns a manager that writes every board through
// to the given store.
func NewManagerWithPersistence(persistence SessionPersistence) *Manager {
	return &Manager{
		sessions:    make(map[string]*service.Session),
		persistence: persistence,
	}
}

// lookupLocked finds a session under the caller-held lock. The lowercase key
// is canonical; the exact-spelling fallback covers sessions saved before IDs
// were folded.
func (m *Manager) lookupLocked(id string) (*service.Session, bool) {
	if sess, ok := m.sessions[strings.ToLower(id)]; ok {
		return sess, true
	}
	sess, ok := m.sessions[id]
	return sess, ok
}

// Create starts a fresh game under the given ID, or under a generated short
// ID when none is supplied. The new board gets its starting tiles from the
// config and an event collector wired in before the first move.
func (m *Manager) Create(id string, config *engine.GameConfig) (*service.Session, error) {
	if id == "" {
		id = m.generateSessionID()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sessionExists(id) {
		return nil, ErrSessionAlreadyExists
	}

	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	collector := &service.EventCollector{}
	eng.AddListener(collector)
	sess := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
		Collector:      collector,
	}

	m.sessions[strings.ToLower(id)] = sess

	// A failed write is logged, not fatal; the game still plays in memory.
	if m.persistence != nil {
		if err := m.persistence.Save(sess); err != nil {
			fmt.Printf("Warning: Failed to persist session %s: %v\n", id, err)
		}
	}

	return sess, nil
}

// Get returns the session for an ID, faulting it in from persistence when
// it is not resident.
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	sess, ok := m.lookupLocked(id)
	m.mu.RUnlock()

	if ok {
		return sess, nil
	}

	if m.persistence != nil && m.persistence.Exists(id) {
		sess, err := m.persistence.Load(id)
		if err != nil {
			return nil, fmt.Errorf("failed to load persisted session: %w", err)
		}

		m.mu.Lock()
		m.sessions[strings.ToLower(id)] = sess
		m.mu.Unlock()

		return sess, nil
	}

	return nil, ErrSessionNotFound
}

// GetOrCreate resumes an existing game or starts a new one under the ID.
func (m *Manager) GetOrCreate(id string, config *engine.GameConfig) (*service.Session, error) {
	sess, err := m.Get(id)
	if err == nil {
		return sess, nil
	}
	if errors.Is(err, ErrSessionNotFound) {
		return m.Create(id, config)
	}
	return nil, err
}

// List returns every resident session in no particular order.
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		result = append(result, sess)
	}
	return result
}

// Delete ends a game, removing it from memory and from the store.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	inMemory := false
	if _, ok := m.sessions[strings.ToLower(id)]; ok {
		delete(m.sessions, strings.ToLower(id))
		inMemory = true
	} else if _, ok := m.sessions[id]; ok {
		delete(m.sessions, id)
		inMemory = true
	}

	if m.persistence != nil && m.persistence.Exists(id) {
		if err := m.persistence.Delete(id); err != nil {
			return fmt.Errorf("failed to delete persisted session: %w", err)
		}
		return nil
	}

	if !inMemory {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteFromMemory evicts a session without touching its save file. The
// filesystem sync loop uses this in the opposite direction, dropping sessions
// whose file disappeared.
func (m *Manager) DeleteFromMemory(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[strings.ToLower(id)]; ok {
		delete(m.sessions, strings.ToLower(id))
		return nil
	}
	if _, ok := m.sessions[id]; ok {
		delete(m.sessions, id)
		return nil
	}
	return ErrSessionNotFound
}

// UpdateLastAccessed marks a session as recently played, which keeps the
// cleanup routine from expiring it.
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.lookupLocked(id)
	if !ok {
		return ErrSessionNotFound
	}

	sess.LastAccessedAt = time.Now()

	if m.persistence != nil {
		if err := m.persistence.Save(sess); err != nil {
			fmt.Printf("Warning: Failed to persist session %s after access update: %v\n", id, err)
		}
	}
	return nil
}

// Save writes one session's board and history to the store. A manager
// without persistence treats this as a no-op.
func (m *Manager) Save(id string) error {
	if m.persistence == nil {
		return nil
	}

	m.mu.RLock()
	sess, ok := m.lookupLocked(id)
	m.mu.RUnlock()

	if !ok {
		return ErrSessionNotFound
	}
	return m.persistence.Save(sess)
}

// CleanupExpiredSessions evicts games idle for longer than maxAge and
// reports how many were dropped.
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for id, sess := range m.sessions {
		if sess.LastAccessedAt.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Count returns how many games are resident.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// generateSessionID picks a 4-hex-character ID, short enough to type into a
// chat with an agent.
func (m *Manager) generateSessionID() string {
	bytes := make([]byte, 2)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// sessionExists reports whether an ID is taken. Callers must hold the lock.
func (m *Manager) sessionExists(id string) bool {
	_, ok := m.lookupLocked(id)
	return ok
}

// LoadPersistedSessions pulls every saved game into memory. Called once at
// startup so /api/sessions reflects boards from before the restart.
func (m *Manager) LoadPersistedSessions() error {
	if m.persistence == nil {
		return nil
	}

	sessionIDs, err := m.persistence.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list persisted sessions: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	loaded := 0
	for _, id := range sessionIDs {
		if _, ok := m.sessions[strings.ToLower(id)]; ok {
			continue
		}

		// One unreadable save file should not block the rest.
		sess, err := m.persistence.Load(id)
		if err != nil {
			fmt.Printf("Warning: Failed to load persisted session %s: %v\n", id, err)
			continue
		}

		m.sessions[strings.ToLower(id)] = sess
		loaded++
	}

	if loaded > 0 {
		fmt.Printf("Loaded %d persisted sessions from storage\n", loaded)
	}
	return nil
}

// SaveAllSessions flushes every resident board to the store, continuing past
// individual failures and reporting a count of them.
func (m *Manager) SaveAllSessions() error {
	if m.persistence == nil {
		return nil
	}

	m.mu.RLock()
	sessions := make([]*service.Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		sessions = append(sessions, sess)
	}
	m.mu.RUnlock()

	failures := 0
	for _, sess := range sessions {
		if err := m.persistence.Save(sess); err != nil {
			fmt.Printf("Warning: Failed to save session %s: %v\n", sess.ID, err)
			failures++
		}
	}

	if failures > 0 {
		return fmt.Errorf("failed to save %d sessions", failures)
	}
	return nil
}
