package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSearchMode_IsValid tests all valid and invalid search modes
func TestSearchMode_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		mode     SearchMode
		expected bool
	}{
		{name: "lexical is valid", mode: SearchModeLexical, expected: true},
		{name: "semantic is valid", mode: SearchModeSemantic, expected: true},
		{name: "hybrid is valid", mode: SearchModeHybrid, expected: true},
		{name: "empty string is invalid", mode: SearchMode(""), expected: false},
		{name: "unknown mode is invalid", mode: SearchMode("keyword"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.mode.IsValid())
		})
	}
}

// TestSearchMode_Signals tests which signals each mode issues
func TestSearchMode_Signals(t *testing.T) {
	assert.True(t, SearchModeLexical.UsesLexical())
	assert.False(t, SearchModeLexical.UsesSemantic())

	assert.False(t, SearchModeSemantic.UsesLexical())
	assert.True(t, SearchModeSemantic.UsesSemantic())

	assert.True(t, SearchModeHybrid.UsesLexical())
	assert.True(t, SearchModeHybrid.UsesSemantic())
}

// TestAIProvider_RequiresAPIKey tests API key requirements
func TestAIProvider_RequiresAPIKey(t *testing.T) {
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.False(t, AIProviderOllama.RequiresAPIKey())
}

// TestLLMSettings_IsConfigured tests LLM configuration detection
func TestLLMSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings LLMSettings
		expected bool
	}{
		{
			name:     "unconfigured",
			settings: LLMSettings{},
			expected: false,
		},
		{
			name:     "ollama without key",
			settings: LLMSettings{Provider: AIProviderOllama, Model: "llama3"},
			expected: true,
		},
		{
			name:     "openai without key",
			settings: LLMSettings{Provider: AIProviderOpenAI, Model: "gpt-4o-mini"},
			expected: false,
		},
		{
			name:     "openai with key",
			settings: LLMSettings{Provider: AIProviderOpenAI, Model: "gpt-4o-mini", APIKey: "sk-test"},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.IsConfigured())
		})
	}
}

// TestDefaultAppSettings verifies the defaults validate cleanly and
// match the documented tunables.
func TestDefaultAppSettings(t *testing.T) {
	settings := DefaultAppSettings()

	require.NoError(t, settings.Validate())
	assert.Equal(t, SearchModeHybrid, settings.Search.Mode)
	assert.Equal(t, 3, settings.Search.TopK)
	assert.Equal(t, DefaultRankConstant, settings.Search.RankConstant)
	assert.Equal(t, 10, settings.Chat.MaxHistoryTurns)
	assert.Equal(t, 30*time.Second, settings.Search.RequestTimeout)
}

// TestAppSettings_Validate tests fail-fast validation of tunables
func TestAppSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppSettings)
	}{
		{
			name:   "invalid mode",
			mutate: func(s *AppSettings) { s.Search.Mode = "fulltext" },
		},
		{
			name:   "zero top_k",
			mutate: func(s *AppSettings) { s.Search.TopK = 0 },
		},
		{
			name:   "negative rank constant",
			mutate: func(s *AppSettings) { s.Search.RankConstant = -1 },
		},
		{
			name:   "zero rank constant",
			mutate: func(s *AppSettings) { s.Search.RankConstant = 0 },
		},
		{
			name:   "zero context budget",
			mutate: func(s *AppSettings) { s.Search.MaxContextChars = 0 },
		},
		{
			name:   "zero timeout",
			mutate: func(s *AppSettings) { s.Search.RequestTimeout = 0 },
		},
		{
			name:   "history too small",
			mutate: func(s *AppSettings) { s.Chat.MaxHistoryTurns = 1 },
		},
		{
			name:   "zero history chars",
			mutate: func(s *AppSettings) { s.Chat.MaxHistoryChars = 0 },
		},
		{
			name:   "unknown llm provider",
			mutate: func(s *AppSettings) { s.LLM.Provider = "cohere" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := DefaultAppSettings()
			tt.mutate(&settings)
			assert.ErrorIs(t, settings.Validate(), ErrInvalidConfig)
		})
	}
}
