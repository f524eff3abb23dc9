package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wricardo/gridquest/game/config"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

// maxIDAttempts bounds the search for an unused generated id.
const maxIDAttempts = 32

// Manager keeps the sessions of one process in memory. Ids are compared
// case-insensitively.
type Manager struct {
	sessions map[string]*Session
	opts     []Option
	log      logrus.FieldLogger
	mu       sync.RWMutex
}

// NewManager creates an empty manager. opts are passed to every session
// it creates.
func NewManager(opts ...Option) *Manager {
	o := buildOptions(opts)
	return &Manager{
		sessions: make(map[string]*Session),
		opts:     append(slices.Clip(opts), WithRegistry(o.registry), WithLogger(o.log)),
		log:      o.log.WithField("component", "sessions"),
	}
}

// Create starts a session on cfg. An empty id gets a random four character
// one.
func (m *Manager) Create(id string, cfg *config.GameConfig) (*Session, error) {
	if strings.ContainsAny(id, " /\\?#") {
		return nil, ErrInvalidSessionID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		var err error
		if id, err = m.generateSessionID(); err != nil {
			return nil, err
		}
	} else if _, exists := m.sessions[strings.ToLower(id)]; exists {
		return nil, ErrSessionAlreadyExists
	}

	sess, err := New(id, cfg, m.opts...)
	if err != nil {
		return nil, err
	}
	m.sessions[strings.ToLower(id)] = sess
	m.log.WithFields(logrus.Fields{"session": id, "map": cfg.Name}).Info("session created")
	return sess, nil
}

// Get retrieves a session by id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// GetOrCreate gets an existing session or creates a new one.
func (m *Manager) GetOrCreate(id string, cfg *config.GameConfig) (*Session, error) {
	sess, err := m.Get(id)
	if err == nil {
		return sess, nil
	}
	if errors.Is(err, ErrSessionNotFound) {
		return m.Create(id, cfg)
	}
	return nil, err
}

// List returns every session, oldest first.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		result = append(result, sess)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// Delete closes and removes a session.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	sess, exists := m.sessions[strings.ToLower(id)]
	delete(m.sessions, strings.ToLower(id))
	m.mu.Unlock()

	if !exists {
		return ErrSessionNotFound
	}
	sess.Close()
	m.log.WithField("session", sess.ID).Info("session deleted")
	return nil
}

// CleanupExpiredSessions closes sessions that have not been used within
// maxAge and returns how many were removed.
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	m.mu.Lock()
	var expired []*Session
	for key, sess := range m.sessions {
		if sess.LastAccessed().Before(cutoff) {
			delete(m.sessions, key)
			expired = append(expired, sess)
		}
	}
	m.mu.Unlock()

	for _, sess := range expired {
		sess.Close()
	}
	return len(expired)
}

// Count returns the number of active sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CloseAll closes and forgets every session.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, sess := range sessions {
		sess.Close()
	}
}

// generateSessionID returns an unused random 4-character hex id. The
// caller holds m.mu.
func (m *Manager) generateSessionID() (string, error) {
	b := make([]byte, 2)
	for range maxIDAttempts {
		if _, err := rand.Read(b); err != nil {
			return "", err
		}
		id := hex.EncodeToString(b)
		if _, exists := m.sessions[id]; !exists {
			return id, nil
		}
	}
	return "", ErrSessionAlreadyExists
}
