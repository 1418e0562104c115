// Package elastic provides a SearchStore adapter backed by an
// Elasticsearch product index. The lexical signal is a BM25 multi_match
// query; the semantic signal is an ELSER sparse_vector query served by
// an inference endpoint on the cluster.
package elastic

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/custodia-labs/shopquery-cli/internal/core/domain"
	"github.com/custodia-labs/shopquery-cli/internal/core/ports/driven"
	"github.com/custodia-labs/shopquery-cli/internal/logger"
)

// Ensure SearchStore implements the interface.
var _ driven.SearchStore = (*SearchStore)(nil)

// lexicalFields are the BM25 target fields with boosts. Name matches
// count triple, description double.
var lexicalFields = []string{
	"name^3",
	"description^2",
	"category",
	"features",
	"reviews.summary",
}

// semanticField is the sparse_vector field holding ELSER expansions.
const semanticField = "elser_embedding"

// Config holds connection settings for the product index.
type Config struct {
	// Settings carries the cluster endpoint, index and credentials.
	Settings domain.ElasticsearchSettings

	// Transport overrides the HTTP transport. Used in tests.
	Transport http.RoundTripper
}

// SearchStore queries the product index.
type SearchStore struct {
	client      *elasticsearch.Client
	index       string
	inferenceID string
}

// NewSearchStore creates a search store connected to the configured
// cluster. The connection is lazy; use Ping to validate it.
func NewSearchStore(cfg Config) (*SearchStore, error) {
	settings := cfg.Settings
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: elasticsearch url and index are required", domain.ErrInvalidConfig)
	}

	esCfg := elasticsearch.Config{
		Addresses: []string{settings.URL},
		Username:  settings.Username,
		Password:  settings.Password,
		APIKey:    settings.APIKey,
	}
	if cfg.Transport != nil {
		esCfg.Transport = cfg.Transport
	} else if settings.InsecureSkipVerify {
		esCfg.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // Opt-in for local clusters.
		}
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	return &SearchStore{
		client:      client,
		index:       settings.Index,
		inferenceID: settings.InferenceID,
	}, nil
}

// LexicalSearch performs a BM25 keyword query across the product text
// fields.
func (s *SearchStore) LexicalSearch(ctx context.Context, query string, k int) ([]domain.RankedResult, error) {
	body := map[string]any{
		"size":    k,
		"_source": false,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    lexicalFields,
				"type":      "best_fields",
				"fuzziness": "AUTO",
			},
		},
	}

	return s.search(ctx, body, domain.SignalLexical)
}

// SemanticSearch performs an ELSER learned-sparse query against the
// embedding field.
func (s *SearchStore) SemanticSearch(ctx context.Context, query string, k int) ([]domain.RankedResult, error) {
	body := map[string]any{
		"size":    k,
		"_source": false,
		"query": map[string]any{
			"sparse_vector": map[string]any{
				"field":        semanticField,
				"inference_id": s.inferenceID,
				"query":        query,
			},
		},
	}

	return s.search(ctx, body, domain.SignalSemantic)
}

// searchResponse is the subset of the search API response we read.
type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID    string   `json:"_id"`
			Score *float64 `json:"_score"`
		} `json:"hits"`
	} `json:"hits"`
}

// search issues one query and converts hits to ranked results, sorted
// by score descending with ties broken by product ID ascending.
func (s *SearchStore) search(ctx context.Context, body map[string]any, signal domain.Signal) ([]domain.RankedResult, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	resp, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(jsonBody)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrievalUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return nil, fmt.Errorf("%w: %s", domain.ErrRetrievalUnavailable, responseError(resp))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", domain.ErrRetrievalUnavailable, err)
	}

	results := make([]domain.RankedResult, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		score := 0.0
		if hit.Score != nil {
			score = *hit.Score
		}
		results = append(results, domain.RankedResult{
			ProductID: hit.ID,
			Score:     score,
			Signal:    signal,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ProductID < results[j].ProductID
	})

	logger.Debug("%s query returned %d hits", signal, len(results))
	return results, nil
}

// mgetResponse is the subset of the mget API response we read.
type mgetResponse struct {
	Docs []struct {
		ID     string          `json:"_id"`
		Found  bool            `json:"found"`
		Source json.RawMessage `json:"_source"`
	} `json:"docs"`
}

// productDoc is the indexed product document shape.
type productDoc struct {
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Category       string            `json:"category"`
	Price          float64           `json:"price"`
	Features       []string          `json:"features"`
	Specifications map[string]string `json:"specifications"`
	Reviews        *struct {
		Rating  float64 `json:"rating"`
		Count   int     `json:"count"`
		Summary string  `json:"summary"`
	} `json:"reviews"`
}

// GetProducts resolves ranked hits to full products via mget,
// preserving the order of ids. Missing products are skipped.
func (s *SearchStore) GetProducts(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	body, err := json.Marshal(map[string]any{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("marshal mget request: %w", err)
	}

	resp, err := s.client.Mget(
		bytes.NewReader(body),
		s.client.Mget.WithContext(ctx),
		s.client.Mget.WithIndex(s.index),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrievalUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return nil, fmt.Errorf("%w: %s", domain.ErrRetrievalUnavailable, responseError(resp))
	}

	var parsed mgetResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", domain.ErrRetrievalUnavailable, err)
	}

	products := make([]domain.Product, 0, len(parsed.Docs))
	for _, doc := range parsed.Docs {
		if !doc.Found {
			logger.Debug("Product %s not found in index", doc.ID)
			continue
		}

		var src productDoc
		if err := json.Unmarshal(doc.Source, &src); err != nil {
			return nil, fmt.Errorf("decode product %s: %w", doc.ID, err)
		}

		product := domain.Product{
			ID:             doc.ID,
			Name:           src.Name,
			Description:    src.Description,
			Category:       src.Category,
			Price:          src.Price,
			Features:       src.Features,
			Specifications: src.Specifications,
		}
		if src.Reviews != nil {
			product.Reviews = &domain.ProductReviews{
				Rating:  src.Reviews.Rating,
				Count:   src.Reviews.Count,
				Summary: src.Reviews.Summary,
			}
		}
		products = append(products, product)
	}

	return products, nil
}

// Ping validates the cluster is reachable.
func (s *SearchStore) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(s.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrRetrievalUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("%w: %s", domain.ErrRetrievalUnavailable, responseError(resp))
	}
	return nil
}

// Close releases resources.
func (s *SearchStore) Close() error {
	// The underlying HTTP transport needs no explicit cleanup.
	return nil
}

// responseError extracts a readable message from an error response.
func responseError(resp *esapi.Response) string {
	body, err := io.ReadAll(resp.Body)
	if err != nil || len(body) == 0 {
		return resp.Status()
	}

	var parsed struct {
		Error struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.Error.Type == "" {
		return fmt.Sprintf("%s: %s", resp.Status(), string(body))
	}
	return fmt.Sprintf("%s: %s (%s)", resp.Status(), parsed.Error.Reason, parsed.Error.Type)
}
