// Package memory provides in-memory implementations of driven storage
// ports. Used in tests and when transcript persistence is disabled.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/shopquery-cli/internal/core/domain"
	"github.com/custodia-labs/shopquery-cli/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of driven.SessionStore.
// Safe for concurrent use.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
}

// NewSessionStore creates an empty in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*domain.Session),
	}
}

// SaveSession creates or replaces a session record.
func (s *SessionStore) SaveSession(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := cloneSession(session)
	now := time.Now().UTC()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = now
	}

	s.sessions[session.ID] = stored
	return nil
}

// AppendTurns appends turns to an existing session.
func (s *SessionStore) AppendTurns(_ context.Context, sessionID string, turns []domain.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return fmt.Errorf("%w: session %s", domain.ErrNotFound, sessionID)
	}

	session.Turns = append(session.Turns, turns...)
	session.UpdatedAt = time.Now().UTC()
	return nil
}

// GetSession retrieves a session with its full transcript.
func (s *SessionStore) GetSession(_ context.Context, sessionID string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: session %s", domain.ErrNotFound, sessionID)
	}
	return cloneSession(session), nil
}

// ListSessions returns session summaries, most recent first.
func (s *SessionStore) ListSessions(_ context.Context) ([]domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]domain.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, domain.Session{
			ID:        session.ID,
			CreatedAt: session.CreatedAt,
			UpdatedAt: session.UpdatedAt,
		})
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	return sessions, nil
}

// DeleteSession removes a session and its transcript.
func (s *SessionStore) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}

// Close releases resources.
func (s *SessionStore) Close() error {
	return nil
}

// cloneSession deep-copies a session so callers cannot mutate stored
// state.
func cloneSession(session *domain.Session) *domain.Session {
	copied := *session
	copied.Turns = make([]domain.Turn, len(session.Turns))
	copy(copied.Turns, session.Turns)
	return &copied
}
