package domain

import "time"

// Role is the speaker of a conversation turn.
type Role string

// Available roles.
const (
	// RoleUser is a message from the user.
	RoleUser Role = "user"

	// RoleAssistant is a message from the assistant.
	RoleAssistant Role = "assistant"

	// RoleSystem is a behavioural instruction message.
	RoleSystem Role = "system"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// Turn is a single utterance in a chat session.
type Turn struct {
	// Role is the speaker.
	Role Role

	// Content is the utterance text.
	Content string

	// Seq is the append order within the session, starting at 1.
	// Eviction never renumbers surviving turns.
	Seq int

	// CreatedAt is when the turn was appended.
	CreatedAt time.Time
}

// Session is a persisted chat transcript.
type Session struct {
	// ID is the unique session identifier.
	ID string

	// Turns is the ordered transcript, oldest first.
	Turns []Turn

	// CreatedAt is when the session started.
	CreatedAt time.Time

	// UpdatedAt is when the last turn was appended.
	UpdatedAt time.Time
}
