package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/shopquery-cli/internal/core/domain"
	"github.com/custodia-labs/shopquery-cli/internal/core/ports/driven"
	"github.com/custodia-labs/shopquery-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keySearchMode       = "search.mode"
	keySearchTopK       = "search.top_k"
	keyRankConstant     = "search.rrf_rank_constant"
	keyMaxContextChars  = "search.max_context_chars"
	keyRequestTimeout   = "search.request_timeout_seconds"
	keyMaxHistoryTurns  = "chat.max_history_turns"
	keyMaxHistoryChars  = "chat.max_history_chars"
	keyChatMaxTokens    = "chat.max_tokens"
	keyChatTemperature  = "chat.temperature"
	keyESURL            = "elasticsearch.url"
	keyESIndex          = "elasticsearch.index"
	keyESUsername       = "elasticsearch.username"
	keyESPassword       = "elasticsearch.password"
	keyESAPIKey         = "elasticsearch.api_key"
	keyESInferenceID    = "elasticsearch.inference_id"
	keyESSkipVerify     = "elasticsearch.insecure_skip_verify"
	keyLLMProvider      = "llm.provider"
	keyLLMModel         = "llm.model"
	keyLLMBaseURL       = "llm.base_url"
	keyLLMAPIKey        = "llm.api_key"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings, filling gaps with
// defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Search: domain.SearchSettings{
			Mode:            s.getSearchMode(defaults.Search.Mode),
			TopK:            s.getInt(keySearchTopK, defaults.Search.TopK),
			RankConstant:    s.getInt(keyRankConstant, defaults.Search.RankConstant),
			MaxContextChars: s.getInt(keyMaxContextChars, defaults.Search.MaxContextChars),
			RequestTimeout:  s.getTimeout(defaults.Search.RequestTimeout),
		},
		Chat: domain.ChatSettings{
			MaxHistoryTurns: s.getInt(keyMaxHistoryTurns, defaults.Chat.MaxHistoryTurns),
			MaxHistoryChars: s.getInt(keyMaxHistoryChars, defaults.Chat.MaxHistoryChars),
			MaxTokens:       s.getInt(keyChatMaxTokens, defaults.Chat.MaxTokens),
			Temperature:     s.getFloat(keyChatTemperature, defaults.Chat.Temperature),
		},
		Elasticsearch: domain.ElasticsearchSettings{
			URL:                s.getString(keyESURL, defaults.Elasticsearch.URL),
			Index:              s.getString(keyESIndex, defaults.Elasticsearch.Index),
			Username:           s.configStore.GetString(keyESUsername),
			Password:           s.configStore.GetString(keyESPassword),
			APIKey:             s.configStore.GetString(keyESAPIKey),
			InferenceID:        s.getString(keyESInferenceID, defaults.Elasticsearch.InferenceID),
			InsecureSkipVerify: s.configStore.GetBool(keyESSkipVerify),
		},
		LLM: domain.LLMSettings{
			Provider: domain.AIProvider(s.configStore.GetString(keyLLMProvider)),
			Model:    s.configStore.GetString(keyLLMModel),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	entries := []struct {
		key   string
		value any
	}{
		{keySearchMode, settings.Search.Mode.String()},
		{keySearchTopK, settings.Search.TopK},
		{keyRankConstant, settings.Search.RankConstant},
		{keyMaxContextChars, settings.Search.MaxContextChars},
		{keyRequestTimeout, int(settings.Search.RequestTimeout / time.Second)},
		{keyMaxHistoryTurns, settings.Chat.MaxHistoryTurns},
		{keyMaxHistoryChars, settings.Chat.MaxHistoryChars},
		{keyChatMaxTokens, settings.Chat.MaxTokens},
		{keyChatTemperature, settings.Chat.Temperature},
		{keyESURL, settings.Elasticsearch.URL},
		{keyESIndex, settings.Elasticsearch.Index},
		{keyESUsername, settings.Elasticsearch.Username},
		{keyESInferenceID, settings.Elasticsearch.InferenceID},
		{keyESSkipVerify, settings.Elasticsearch.InsecureSkipVerify},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
	}

	for _, e := range entries {
		if err := s.configStore.Set(e.key, e.value); err != nil {
			return fmt.Errorf("save %s: %w", e.key, err)
		}
	}

	// Secrets are only written when present so a partial settings
	// struct cannot blank stored credentials.
	if settings.Elasticsearch.Password != "" {
		if err := s.configStore.Set(keyESPassword, settings.Elasticsearch.Password); err != nil {
			return fmt.Errorf("save %s: %w", keyESPassword, err)
		}
	}
	if settings.Elasticsearch.APIKey != "" {
		if err := s.configStore.Set(keyESAPIKey, settings.Elasticsearch.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyESAPIKey, err)
		}
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyLLMAPIKey, err)
		}
	}

	return nil
}

// SetSearchMode updates the default search mode.
func (s *SettingsService) SetSearchMode(mode domain.SearchMode) error {
	if !mode.IsValid() {
		return fmt.Errorf("%w: unknown search mode %q", domain.ErrInvalidConfig, mode)
	}
	return s.configStore.Set(keySearchMode, mode.String())
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: unknown llm provider %q", domain.ErrInvalidConfig, provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: provider %s requires an API key", domain.ErrInvalidConfig, provider)
	}

	if err := s.configStore.Set(keyLLMProvider, provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if apiKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, apiKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}
	return nil
}

// SetElasticsearch configures the product index connection.
func (s *SettingsService) SetElasticsearch(settings domain.ElasticsearchSettings) error {
	if !settings.IsConfigured() {
		return fmt.Errorf("%w: elasticsearch url and index are required", domain.ErrInvalidConfig)
	}

	current, err := s.Get()
	if err != nil {
		return err
	}
	current.Elasticsearch = settings
	return s.Save(current)
}

// Validate checks if current settings are valid.
// Intended for startup: a bad tunable fails fast here.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// getSearchMode reads the stored mode, falling back when absent or
// unrecognised.
func (s *SettingsService) getSearchMode(fallback domain.SearchMode) domain.SearchMode {
	raw := s.configStore.GetString(keySearchMode)
	if raw == "" {
		return fallback
	}
	mode := domain.SearchMode(raw)
	if !mode.IsValid() {
		return fallback
	}
	return mode
}

// getTimeout reads the stored timeout in seconds.
func (s *SettingsService) getTimeout(fallback time.Duration) time.Duration {
	seconds := s.configStore.GetInt(keyRequestTimeout)
	if seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

// getString returns the stored value or fallback when absent.
func (s *SettingsService) getString(key, fallback string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return fallback
}

// getInt returns the stored value or fallback when absent or zero.
func (s *SettingsService) getInt(key string, fallback int) int {
	if v := s.configStore.GetInt(key); v != 0 {
		return v
	}
	return fallback
}

// getFloat returns the stored value or fallback when absent or zero.
func (s *SettingsService) getFloat(key string, fallback float64) float64 {
	if v := s.configStore.GetFloat(key); v != 0 {
		return v
	}
	return fallback
}
