// Package session is the application-state container for browser sessions:
// the API token and user id, the profile tab and the ownership hints.
package session

import (
	"context"
	"errors"
	"slices"
	"sync"

	"gamehub/models"
)

var ErrNotFound = errors.New("session not found")

// Store persists client sessions. Load returns ErrNotFound for unknown ids.
type Store interface {
	Load(ctx context.Context, id string) (*models.ClientSession, error)
	Save(ctx context.Context, sess *models.ClientSession) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps sessions in process. Used in development and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]models.ClientSession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]models.ClientSession)}
}

func (m *MemoryStore) Load(_ context.Context, id string) (*models.ClientSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(sess), nil
}

func (m *MemoryStore) Save(_ context.Context, sess *models.ClientSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = *clone(*sess)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

func clone(s models.ClientSession) *models.ClientSession {
	s.WishlistedIDs = slices.Clone(s.WishlistedIDs)
	s.OwnedIDs = slices.Clone(s.OwnedIDs)
	return &s
}
