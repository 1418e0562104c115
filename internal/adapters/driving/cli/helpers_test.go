package cli

import (
	"context"
	"errors"

	"github.com/custodia-labs/shopquery-cli/internal/core/domain"
	"github.com/custodia-labs/shopquery-cli/internal/core/ports/driven"
)

// mockSearchService returns a fixed result set.
type mockSearchService struct {
	results []domain.SearchResult
}

func (m *mockSearchService) Search(
	_ context.Context, _ string, _ domain.SearchOptions,
) ([]domain.SearchResult, error) {
	return m.results, nil
}

// mockSearchServiceError always fails.
type mockSearchServiceError struct{}

func (m *mockSearchServiceError) Search(
	_ context.Context, _ string, _ domain.SearchOptions,
) ([]domain.SearchResult, error) {
	return nil, errors.New("cluster unreachable")
}

// mockSettingsService serves a fixed settings struct and records writes.
type mockSettingsService struct {
	settings     domain.AppSettings
	savedMode    domain.SearchMode
	savedLLM     domain.LLMSettings
	savedElastic domain.ElasticsearchSettings
	err          error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	settings := m.settings
	return &settings, nil
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return m.err }

func (m *mockSettingsService) SetSearchMode(mode domain.SearchMode) error {
	m.savedMode = mode
	return m.err
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.savedLLM = domain.LLMSettings{Provider: provider, Model: model, APIKey: apiKey}
	return m.err
}

func (m *mockSettingsService) SetElasticsearch(settings domain.ElasticsearchSettings) error {
	m.savedElastic = settings
	return m.err
}

func (m *mockSettingsService) Validate() error { return m.err }

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// mockLLM answers every generation with a fixed reply.
type mockLLM struct {
	reply  string
	closed bool
}

var _ driven.LLMService = (*mockLLM)(nil)

func (m *mockLLM) Generate(_ context.Context, _ string, _ driven.GenerateOptions) (string, error) {
	return m.reply, nil
}

func (m *mockLLM) Chat(_ context.Context, _ []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	return m.reply, nil
}

func (m *mockLLM) ModelName() string            { return "mock-model" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { m.closed = true; return nil }

func sampleResults() []domain.SearchResult {
	return []domain.SearchResult{
		{
			Product: domain.Product{
				ID:       "prod-1",
				Name:     "UltraBook Pro",
				Category: "Laptops",
				Price:    1299.99,
				Features: []string{"16GB RAM", "1TB SSD"},
				Reviews:  &domain.ProductReviews{Rating: 4.5, Count: 12},
			},
			Score:        0.0325,
			LexicalRank:  1,
			SemanticRank: 2,
		},
		{
			Product: domain.Product{
				ID:    "prod-2",
				Name:  "GameMaster X",
				Price: 1999.99,
			},
			Score:       0.0161,
			LexicalRank: 2,
		},
	}
}

// setupTestServices installs mock services and returns a cleanup that
// restores the previous wiring.
func setupTestServices() func() {
	oldSearch := searchService
	oldSettings := settingsService
	oldSessions := sessionStore
	oldPrompts := promptStore
	oldNewLLM := newLLMService

	searchService = &mockSearchService{results: sampleResults()}
	settingsService = &mockSettingsService{settings: domain.DefaultAppSettings()}
	sessionStore = nil
	promptStore = nil
	newLLMService = func() (driven.LLMService, error) {
		return &mockLLM{reply: "The UltraBook Pro costs $1299.99."}, nil
	}

	return func() {
		searchService = oldSearch
		settingsService = oldSettings
		sessionStore = oldSessions
		promptStore = oldPrompts
		newLLMService = oldNewLLM
	}
}
