package driving

import (
	"context"

	"github.com/custodia-labs/shopquery-cli/internal/core/domain"
)

// ChatService drives one conversational session with the product
// assistant. A service instance owns exactly one session's history and
// must not be shared between concurrent callers.
type ChatService interface {
	// Ask answers a question grounded on retrieved products, appending
	// the exchange to the session history on success. When retrieval
	// finds nothing, the returned answer is the fixed "no information"
	// reply and the generator is not invoked.
	Ask(ctx context.Context, question string) (*domain.Answer, error)

	// History returns a read-only snapshot of the session history,
	// oldest first.
	History() []domain.Turn

	// Reset clears the session history.
	Reset()

	// SessionID returns the identifier of the owned session.
	SessionID() string
}
