package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// SearchMode defines which retrieval signals a search uses.
type SearchMode string

// Available search modes.
const (
	// SearchModeLexical uses only BM25 keyword search.
	SearchModeLexical SearchMode = "lexical"

	// SearchModeSemantic uses only ELSER semantic search.
	SearchModeSemantic SearchMode = "semantic"

	// SearchModeHybrid combines both signals with reciprocal rank fusion.
	SearchModeHybrid SearchMode = "hybrid"
)

// IsValid returns true if the search mode is recognised.
func (m SearchMode) IsValid() bool {
	switch m {
	case SearchModeLexical, SearchModeSemantic, SearchModeHybrid:
		return true
	default:
		return false
	}
}

// UsesLexical returns true if this mode issues the keyword query.
func (m SearchMode) UsesLexical() bool {
	return m == SearchModeLexical || m == SearchModeHybrid
}

// UsesSemantic returns true if this mode issues the semantic query.
func (m SearchMode) UsesSemantic() bool {
	return m == SearchModeSemantic || m == SearchModeHybrid
}

// String returns the string representation.
func (m SearchMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m SearchMode) Description() string {
	switch m {
	case SearchModeLexical:
		return "Lexical (BM25 keyword search)"
	case SearchModeSemantic:
		return "Semantic (ELSER sparse retrieval)"
	case SearchModeHybrid:
		return "Hybrid (keyword + semantic with RRF)"
	default:
		return unknownDescription
	}
}

// AIProvider identifies an LLM service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// SearchSettings holds search behaviour configuration.
type SearchSettings struct {
	// Mode is the default retrieval mode.
	Mode SearchMode

	// TopK is the number of fused results used for grounding context.
	TopK int

	// RankConstant is the RRF rank constant for hybrid fusion.
	RankConstant int

	// MaxContextChars bounds the rendered context block.
	MaxContextChars int

	// RequestTimeout bounds each external call (retrieval, generation).
	RequestTimeout time.Duration
}

// ChatSettings holds conversational assistant configuration.
type ChatSettings struct {
	// MaxHistoryTurns bounds the in-memory conversation history.
	// Oldest user/assistant pairs are evicted beyond this.
	MaxHistoryTurns int

	// MaxHistoryChars bounds total history size by character count.
	MaxHistoryChars int

	// MaxTokens is the generation token budget per response.
	MaxTokens int

	// Temperature controls generation randomness.
	Temperature float64
}

// ElasticsearchSettings holds connection details for the product index.
type ElasticsearchSettings struct {
	// URL is the cluster endpoint.
	URL string

	// Index is the product index name.
	Index string

	// Username and Password configure basic auth.
	Username string
	Password string

	// APIKey configures API-key auth. Takes precedence over basic auth.
	APIKey string

	// InferenceID is the ELSER inference endpoint used by the
	// sparse_vector query.
	InferenceID string

	// InsecureSkipVerify disables TLS certificate verification.
	// Intended for local clusters with self-signed certificates.
	InsecureSkipVerify bool
}

// IsConfigured returns true if a cluster connection is set up.
func (e ElasticsearchSettings) IsConfigured() bool {
	return e.URL != "" && e.Index != ""
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the chat model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or OpenAI-compatible APIs).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Search holds search behaviour settings.
	Search SearchSettings

	// Chat holds conversational assistant settings.
	Chat ChatSettings

	// Elasticsearch holds product index connection settings.
	Elasticsearch ElasticsearchSettings

	// LLM holds LLM provider settings.
	LLM LLMSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The Elasticsearch connection and LLM provider are left unconfigured;
// users set them via 'shopquery settings'.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Search: SearchSettings{
			Mode:            SearchModeHybrid,
			TopK:            3,
			RankConstant:    DefaultRankConstant,
			MaxContextChars: 4000,
			RequestTimeout:  30 * time.Second,
		},
		Chat: ChatSettings{
			MaxHistoryTurns: 10,
			MaxHistoryChars: 16000,
			MaxTokens:       500,
			Temperature:     0.7,
		},
		Elasticsearch: ElasticsearchSettings{
			URL:         "http://localhost:9200",
			Index:       "products-elser-search",
			InferenceID: "elser-inference-endpoint",
		},
	}
}

// Validate checks all tunables and fails fast on the first bad value.
// Every violation wraps ErrInvalidConfig.
func (s AppSettings) Validate() error {
	if !s.Search.Mode.IsValid() {
		return fmt.Errorf("%w: unknown search mode %q", ErrInvalidConfig, s.Search.Mode)
	}
	if s.Search.TopK < 1 {
		return fmt.Errorf("%w: search.top_k must be >= 1, got %d", ErrInvalidConfig, s.Search.TopK)
	}
	if s.Search.RankConstant <= 0 {
		return fmt.Errorf("%w: search.rrf_rank_constant must be positive, got %d",
			ErrInvalidConfig, s.Search.RankConstant)
	}
	if s.Search.MaxContextChars <= 0 {
		return fmt.Errorf("%w: search.max_context_chars must be positive, got %d",
			ErrInvalidConfig, s.Search.MaxContextChars)
	}
	if s.Search.RequestTimeout <= 0 {
		return fmt.Errorf("%w: search.request_timeout must be positive, got %s",
			ErrInvalidConfig, s.Search.RequestTimeout)
	}
	if s.Chat.MaxHistoryTurns < 2 {
		return fmt.Errorf("%w: chat.max_history_turns must be >= 2, got %d",
			ErrInvalidConfig, s.Chat.MaxHistoryTurns)
	}
	if s.Chat.MaxHistoryChars <= 0 {
		return fmt.Errorf("%w: chat.max_history_chars must be positive, got %d",
			ErrInvalidConfig, s.Chat.MaxHistoryChars)
	}
	if s.LLM.Provider != "" && !s.LLM.Provider.IsValid() {
		return fmt.Errorf("%w: unknown llm provider %q", ErrInvalidConfig, s.LLM.Provider)
	}
	return nil
}
