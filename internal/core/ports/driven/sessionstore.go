package driven

import (
	"context"

	"github.com/custodia-labs/shopquery-cli/internal/core/domain"
)

// SessionStore persists chat transcripts across runs.
// This is an optional service - when nil, sessions live only in memory.
//
// The store records the full transcript as appended; it is not subject
// to the in-memory history eviction budget, which only bounds what is
// sent to the LLM.
type SessionStore interface {
	// SaveSession creates or replaces a session record.
	SaveSession(ctx context.Context, session *domain.Session) error

	// AppendTurns appends turns to an existing session.
	// Returns domain.ErrNotFound if the session does not exist.
	AppendTurns(ctx context.Context, sessionID string, turns []domain.Turn) error

	// GetSession retrieves a session with its full transcript.
	// Returns domain.ErrNotFound if the session does not exist.
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)

	// ListSessions returns session summaries, most recent first.
	// Returned sessions carry no turns.
	ListSessions(ctx context.Context) ([]domain.Session, error)

	// DeleteSession removes a session and its transcript.
	DeleteSession(ctx context.Context, sessionID string) error

	// Close releases resources.
	Close() error
}
