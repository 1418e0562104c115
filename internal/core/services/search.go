package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/shopquery-cli/internal/core/domain"
	"github.com/custodia-labs/shopquery-cli/internal/core/ports/driven"
	"github.com/custodia-labs/shopquery-cli/internal/core/ports/driving"
	"github.com/custodia-labs/shopquery-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// defaultSearchLimit is used when the caller does not specify one.
const defaultSearchLimit = 10

// SearchService provides hybrid product search.
type SearchService struct {
	store    driven.SearchStore
	settings domain.SearchSettings
}

// NewSearchService creates a new search service.
// Settings must already be validated; NewSearchService fails fast on a
// non-positive rank constant since fusion depends on it.
func NewSearchService(store driven.SearchStore, settings domain.SearchSettings) (*SearchService, error) {
	if settings.RankConstant <= 0 {
		return nil, fmt.Errorf("%w: rrf rank constant must be positive, got %d",
			domain.ErrInvalidConfig, settings.RankConstant)
	}
	return &SearchService{store: store, settings: settings}, nil
}

// Search runs the configured retrieval signals against the product
// index and returns fused, hydrated results.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is empty", domain.ErrInvalidQuery)
	}
	logger.Debug("Query: %q", query)

	limit := opts.Limit
	if limit == 0 {
		limit = defaultSearchLimit
	}
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be >= 1, got %d", domain.ErrInvalidQuery, limit)
	}

	mode := opts.Mode
	if mode == "" {
		mode = s.settings.Mode
	}
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: unknown search mode %q", domain.ErrInvalidConfig, mode)
	}
	logger.Info("Mode: %s, limit: %d", mode.Description(), limit)

	if s.settings.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.settings.RequestTimeout)
		defer cancel()
	}

	lexical, semantic, err := s.retrieve(ctx, query, limit, mode)
	if err != nil {
		return nil, err
	}
	logger.Debug("Retrieved: %d lexical, %d semantic", len(lexical), len(semantic))

	fused, err := domain.FuseRRF(lexical, semantic, s.settings.RankConstant)
	if err != nil {
		return nil, err
	}
	if len(fused) > limit {
		fused = fused[:limit]
	}
	logger.Debug("Fused: %d results", len(fused))

	return s.hydrate(ctx, fused)
}

// retrieve dispatches the query to the signals the mode requires.
// In hybrid mode the two queries run concurrently; they share no state
// and are only combined afterwards by fusion. If exactly one signal
// fails, retrieval degrades to the other instead of failing the call.
func (s *SearchService) retrieve(
	ctx context.Context, query string, k int, mode domain.SearchMode,
) (lexical, semantic []domain.RankedResult, err error) {
	switch mode {
	case domain.SearchModeLexical:
		lexical, err = s.store.LexicalSearch(ctx, query, k)
		if err != nil {
			return nil, nil, fmt.Errorf("lexical search: %w", err)
		}
		return lexical, nil, nil

	case domain.SearchModeSemantic:
		semantic, err = s.store.SemanticSearch(ctx, query, k)
		if err != nil {
			return nil, nil, fmt.Errorf("semantic search: %w", err)
		}
		return nil, semantic, nil

	case domain.SearchModeHybrid:
		var lexErr, semErr error
		var wg sync.WaitGroup
		wg.Add(2)

		go func() {
			defer wg.Done()
			lexical, lexErr = s.store.LexicalSearch(ctx, query, k)
		}()

		go func() {
			defer wg.Done()
			semantic, semErr = s.store.SemanticSearch(ctx, query, k)
		}()

		wg.Wait()

		if lexErr != nil && semErr != nil {
			return nil, nil, fmt.Errorf("hybrid search: lexical=%w, semantic=%w", lexErr, semErr)
		}
		if lexErr != nil {
			logger.Warn("Lexical signal failed, degrading to semantic only: %v", lexErr)
			return nil, semantic, nil
		}
		if semErr != nil {
			logger.Warn("Semantic signal failed, degrading to lexical only: %v", semErr)
			return lexical, nil, nil
		}
		return lexical, semantic, nil

	default:
		return nil, nil, fmt.Errorf("%w: unknown search mode %q", domain.ErrInvalidConfig, mode)
	}
}

// hydrate resolves fused hits to full products, preserving fused order.
// Products deleted between ranking and hydration are skipped.
func (s *SearchService) hydrate(
	ctx context.Context, fused []domain.FusedResult,
) ([]domain.SearchResult, error) {
	if len(fused) == 0 {
		return []domain.SearchResult{}, nil
	}

	ids := make([]string, len(fused))
	for i := range fused {
		ids[i] = fused[i].ProductID
	}

	products, err := s.store.GetProducts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}

	byID := make(map[string]domain.Product, len(products))
	for i := range products {
		byID[products[i].ID] = products[i]
	}

	results := make([]domain.SearchResult, 0, len(fused))
	for _, f := range fused {
		product, ok := byID[f.ProductID]
		if !ok {
			logger.Debug("Product %s no longer in index, skipping", f.ProductID)
			continue
		}
		results = append(results, domain.SearchResult{
			Product:      product,
			Score:        f.Score,
			LexicalRank:  f.LexicalRank,
			SemanticRank: f.SemanticRank,
		})
	}

	return results, nil
}
