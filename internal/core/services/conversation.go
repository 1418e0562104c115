package services

import (
	"time"

	"github.com/custodia-labs/shopquery-cli/internal/core/domain"
	"github.com/custodia-labs/shopquery-cli/internal/logger"
)

// ConversationManager owns one session's ordered turn history and
// enforces its size budget. When a budget is exceeded it evicts whole
// user/assistant pairs from the oldest end; eviction is destructive and
// never touches the most recent pair.
//
// The manager does not validate role alternation - that is the caller's
// discipline. It is not safe for concurrent use: one session has one
// owner.
type ConversationManager struct {
	maxTurns int
	maxChars int
	turns    []domain.Turn
	nextSeq  int
}

// NewConversationManager creates a manager with the given budgets.
// maxTurns bounds the turn count, maxChars the total content size;
// either may trigger eviction.
func NewConversationManager(maxTurns, maxChars int) *ConversationManager {
	return &ConversationManager{
		maxTurns: maxTurns,
		maxChars: maxChars,
		nextSeq:  1,
	}
}

// Append inserts a turn at the end of the history and evicts oldest
// pairs until the budgets hold again. The appended turn is returned
// with its sequence number assigned.
func (m *ConversationManager) Append(role domain.Role, content string) domain.Turn {
	turn := domain.Turn{
		Role:      role,
		Content:   content,
		Seq:       m.nextSeq,
		CreatedAt: time.Now(),
	}
	m.nextSeq++
	m.turns = append(m.turns, turn)
	m.evict()
	return turn
}

// evict drops whole pairs from the oldest end while either budget is
// exceeded. The newest pair always survives, even if it alone exceeds
// the character budget.
func (m *ConversationManager) evict() {
	for len(m.turns) > 2 && (len(m.turns) > m.maxTurns || m.totalChars() > m.maxChars) {
		logger.Debug("History budget exceeded, evicting oldest pair (seq %d, %d)",
			m.turns[0].Seq, m.turns[1].Seq)
		m.turns = m.turns[2:]
	}
}

// totalChars sums the content length of all turns.
func (m *ConversationManager) totalChars() int {
	n := 0
	for i := range m.turns {
		n += len(m.turns[i].Content)
	}
	return n
}

// History returns a read-only snapshot of the history, oldest first.
func (m *ConversationManager) History() []domain.Turn {
	snapshot := make([]domain.Turn, len(m.turns))
	copy(snapshot, m.turns)
	return snapshot
}

// Len returns the number of turns currently held.
func (m *ConversationManager) Len() int {
	return len(m.turns)
}

// Empty reports whether no turn has ever been appended (or the manager
// has been reset). A session leaves the empty state on its first turn
// and stays active until Reset.
func (m *ConversationManager) Empty() bool {
	return len(m.turns) == 0
}

// CompletedExchanges returns the number of full user/assistant pairs
// currently in the history.
func (m *ConversationManager) CompletedExchanges() int {
	return len(m.turns) / 2
}

// Reset clears all turns, returning the session to the empty state.
// Sequence numbering continues; evicted or cleared turns never reuse
// sequence numbers.
func (m *ConversationManager) Reset() {
	m.turns = nil
}
