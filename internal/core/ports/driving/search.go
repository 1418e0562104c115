package driving

import (
	"context"

	"github.com/custodia-labs/shopquery-cli/internal/core/domain"
)

// SearchService provides product search capabilities to external actors.
type SearchService interface {
	// Search runs the configured retrieval signals against the product
	// index and returns fused, hydrated results.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
