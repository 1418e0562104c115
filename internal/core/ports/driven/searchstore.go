package driven

import (
	"context"

	"github.com/custodia-labs/shopquery-cli/internal/core/domain"
)

// SearchStore provides ranked retrieval from the product index.
// Backed by Elasticsearch: BM25 for the lexical signal and an ELSER
// sparse_vector query for the semantic signal. The store is read-only;
// ingest and index provisioning happen outside shopquery.
//
// Both search methods return lists sorted by the issuing signal's own
// score descending, ties broken by product ID ascending.
type SearchStore interface {
	// LexicalSearch performs a BM25 keyword query.
	LexicalSearch(ctx context.Context, query string, k int) ([]domain.RankedResult, error)

	// SemanticSearch performs an ELSER learned-sparse query.
	SemanticSearch(ctx context.Context, query string, k int) ([]domain.RankedResult, error)

	// GetProducts resolves ranked hits to full products, preserving the
	// order of ids. Missing products are skipped, not errors.
	GetProducts(ctx context.Context, ids []string) ([]domain.Product, error)

	// Ping validates the index is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
