package elastic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/shopquery-cli/internal/core/domain"
)

// fakeTransport serves canned responses and records requests.
type fakeTransport struct {
	status   int
	body     string
	requests []*http.Request
	bodies   []string
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.requests = append(f.requests, req)
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		f.bodies = append(f.bodies, string(data))
	} else {
		f.bodies = append(f.bodies, "")
	}

	status := f.status
	if status == 0 {
		status = http.StatusOK
	}

	header := http.Header{}
	// The v8 client rejects responses without the product header.
	header.Set("X-Elastic-Product", "Elasticsearch")
	header.Set("Content-Type", "application/json")

	return &http.Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(f.body)),
		Request:    req,
	}, nil
}

func newTestStore(t *testing.T, transport *fakeTransport) *SearchStore {
	t.Helper()
	store, err := NewSearchStore(Config{
		Settings: domain.ElasticsearchSettings{
			URL:         "http://localhost:9200",
			Index:       "products-elser-search",
			InferenceID: "elser-inference-endpoint",
		},
		Transport: transport,
	})
	require.NoError(t, err)
	return store
}

const searchHitsBody = `{
	"hits": {
		"hits": [
			{"_id": "prod-1", "_score": 9.2},
			{"_id": "prod-2", "_score": 7.1},
			{"_id": "prod-3", "_score": 7.1}
		]
	}
}`

func TestNewSearchStore_RequiresURLAndIndex(t *testing.T) {
	_, err := NewSearchStore(Config{Settings: domain.ElasticsearchSettings{URL: "http://localhost:9200"}})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestSearchStore_LexicalSearch(t *testing.T) {
	transport := &fakeTransport{body: searchHitsBody}
	store := newTestStore(t, transport)

	results, err := store.LexicalSearch(context.Background(), "wireless earbuds", 10)

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "prod-1", results[0].ProductID)
	assert.InDelta(t, 9.2, results[0].Score, 1e-9)
	assert.Equal(t, domain.SignalLexical, results[0].Signal)

	// Equal scores order by product ID ascending.
	assert.Equal(t, "prod-2", results[1].ProductID)
	assert.Equal(t, "prod-3", results[2].ProductID)

	require.Len(t, transport.requests, 1)
	assert.Contains(t, transport.requests[0].URL.Path, "/products-elser-search/_search")

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(transport.bodies[0]), &body))
	assert.Equal(t, float64(10), body["size"])
	assert.Equal(t, false, body["_source"])

	multiMatch := body["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "wireless earbuds", multiMatch["query"])
	assert.Equal(t, "best_fields", multiMatch["type"])
	assert.Equal(t, "AUTO", multiMatch["fuzziness"])

	fields := multiMatch["fields"].([]any)
	assert.Contains(t, fields, "name^3")
	assert.Contains(t, fields, "description^2")
	assert.Contains(t, fields, "reviews.summary")
}

func TestSearchStore_SemanticSearch(t *testing.T) {
	transport := &fakeTransport{body: searchHitsBody}
	store := newTestStore(t, transport)

	results, err := store.SemanticSearch(context.Background(), "something for music", 5)

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, domain.SignalSemantic, results[0].Signal)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(transport.bodies[0]), &body))

	sparse := body["query"].(map[string]any)["sparse_vector"].(map[string]any)
	assert.Equal(t, "elser_embedding", sparse["field"])
	assert.Equal(t, "elser-inference-endpoint", sparse["inference_id"])
	assert.Equal(t, "something for music", sparse["query"])
}

func TestSearchStore_Search_NoHits(t *testing.T) {
	transport := &fakeTransport{body: `{"hits": {"hits": []}}`}
	store := newTestStore(t, transport)

	results, err := store.LexicalSearch(context.Background(), "nothing", 10)

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchStore_Search_ErrorStatus(t *testing.T) {
	transport := &fakeTransport{
		status: http.StatusServiceUnavailable,
		body:   `{"error": {"type": "search_phase_execution_exception", "reason": "all shards failed"}}`,
	}
	store := newTestStore(t, transport)

	_, err := store.SemanticSearch(context.Background(), "anything", 10)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRetrievalUnavailable)
	assert.Contains(t, err.Error(), "all shards failed")
}

func TestSearchStore_GetProducts(t *testing.T) {
	transport := &fakeTransport{body: `{
		"docs": [
			{"_id": "prod-2", "found": true, "_source": {
				"name": "SoundWave Buds",
				"description": "Wireless earbuds with noise cancellation.",
				"category": "Audio",
				"price": 149.99,
				"features": ["ANC", "30h battery"],
				"specifications": {"weight": "5g"},
				"reviews": {"rating": 4.4, "count": 87, "summary": "Great sound"}
			}},
			{"_id": "prod-9", "found": false},
			{"_id": "prod-1", "found": true, "_source": {
				"name": "UltraBook Pro",
				"category": "Laptops",
				"price": 1299.99
			}}
		]
	}`}
	store := newTestStore(t, transport)

	products, err := store.GetProducts(context.Background(), []string{"prod-2", "prod-9", "prod-1"})

	require.NoError(t, err)
	require.Len(t, products, 2)

	// Order follows the requested ids; the missing product is skipped.
	assert.Equal(t, "prod-2", products[0].ID)
	assert.Equal(t, "SoundWave Buds", products[0].Name)
	assert.InDelta(t, 149.99, products[0].Price, 1e-9)
	assert.Equal(t, []string{"ANC", "30h battery"}, products[0].Features)
	require.NotNil(t, products[0].Reviews)
	assert.InDelta(t, 4.4, products[0].Reviews.Rating, 1e-9)

	assert.Equal(t, "prod-1", products[1].ID)
	assert.Nil(t, products[1].Reviews)

	require.Len(t, transport.requests, 1)
	assert.Contains(t, transport.requests[0].URL.Path, "/products-elser-search/_mget")

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(transport.bodies[0]), &body))
	assert.Equal(t, []any{"prod-2", "prod-9", "prod-1"}, body["ids"])
}

func TestSearchStore_GetProducts_Empty(t *testing.T) {
	transport := &fakeTransport{}
	store := newTestStore(t, transport)

	products, err := store.GetProducts(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, products)
	assert.Empty(t, transport.requests)
}

func TestSearchStore_Ping(t *testing.T) {
	transport := &fakeTransport{body: `{}`}
	store := newTestStore(t, transport)

	assert.NoError(t, store.Ping(context.Background()))
}

func TestSearchStore_Ping_Unreachable(t *testing.T) {
	transport := &fakeTransport{status: http.StatusBadGateway, body: `{}`}
	store := newTestStore(t, transport)

	err := store.Ping(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRetrievalUnavailable)
}
