package driving

import "github.com/custodia-labs/shopquery-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetSearchMode updates the default search mode.
	SetSearchMode(mode domain.SearchMode) error

	// SetLLMProvider configures the LLM provider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// SetElasticsearch configures the product index connection.
	SetElasticsearch(settings domain.ElasticsearchSettings) error

	// Validate checks if current settings are valid.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
