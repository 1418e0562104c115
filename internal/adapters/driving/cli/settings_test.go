package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/shopquery-cli/internal/core/domain"
)

func TestSettingsCmd_Show(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := &mockSettingsService{settings: domain.DefaultAppSettings()}
	mock.settings.LLM = domain.LLMSettings{
		Provider: domain.AIProviderOpenAI,
		Model:    "gpt-4o-mini",
		APIKey:   "sk-test-1234567890abcdef",
	}
	settingsService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "[Search]")
	assert.Contains(t, output, "Hybrid (keyword + semantic with RRF)")
	assert.Contains(t, output, "[Elasticsearch]")
	assert.Contains(t, output, "products-elser-search")
	assert.Contains(t, output, "[LLM]")
	assert.Contains(t, output, "gpt-4o-mini")
	assert.Contains(t, output, "[Chat]")
	// API keys are masked, never echoed in full.
	assert.NotContains(t, output, "sk-test-1234567890abcdef")
	assert.Contains(t, output, "sk-t********cdef")
}

func TestSettingsCmd_DefaultsToShow(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Current Settings")
}

func TestSettingsCmd_ServiceNotConfigured(t *testing.T) {
	old := settingsService
	settingsService = nil
	defer func() { settingsService = old }()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}

func TestSettingsCmd_Mode(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mock := &mockSettingsService{settings: domain.DefaultAppSettings()}
	settingsService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetIn(strings.NewReader("2\n"))
	rootCmd.SetArgs([]string{"settings", "mode"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, domain.SearchModeLexical, mock.savedMode)
	assert.Contains(t, buf.String(), "Search mode set:")
}

func TestSettingsCmd_Mode_DefaultsToHybrid(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mock := &mockSettingsService{settings: domain.DefaultAppSettings()}
	settingsService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetIn(strings.NewReader("\n"))
	rootCmd.SetArgs([]string{"settings", "mode"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, domain.SearchModeHybrid, mock.savedMode)
}

func TestSettingsCmd_LLM_Ollama(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mock := &mockSettingsService{settings: domain.DefaultAppSettings()}
	settingsService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	// Choice 1 (ollama), provider-default model, no API key needed.
	rootCmd.SetIn(strings.NewReader("1\n\n"))
	rootCmd.SetArgs([]string{"settings", "llm"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, mock.savedLLM.Provider)
	assert.Contains(t, buf.String(), "Validating configuration... OK")
	assert.Contains(t, buf.String(), "LLM provider configured: Ollama (local)")
}

func TestSettingsCmd_LLM_OpenAIRequiresKey(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mock := &mockSettingsService{settings: domain.DefaultAppSettings()}
	settingsService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	// Choice 2 (openai), model, then an empty API key.
	rootCmd.SetIn(strings.NewReader("2\ngpt-4o-mini\n\n"))
	rootCmd.SetArgs([]string{"settings", "llm"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestSettingsCmd_Elasticsearch(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mock := &mockSettingsService{settings: domain.DefaultAppSettings()}
	settingsService = mock

	var validated domain.ElasticsearchSettings
	oldValidator := validateElasticsearch
	SetElasticsearchValidator(func(s domain.ElasticsearchSettings) error {
		validated = s
		return nil
	})
	defer SetElasticsearchValidator(oldValidator)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	// URL, index, default inference endpoint, API key.
	rootCmd.SetIn(strings.NewReader("http://es:9200\nproducts\n\nes-key-123\n"))
	rootCmd.SetArgs([]string{"settings", "elasticsearch"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, "http://es:9200", mock.savedElastic.URL)
	assert.Equal(t, "products", mock.savedElastic.Index)
	assert.Equal(t, "elser-inference-endpoint", mock.savedElastic.InferenceID)
	assert.Equal(t, "es-key-123", mock.savedElastic.APIKey)
	assert.Equal(t, mock.savedElastic, validated)
	assert.Contains(t, buf.String(), "Validating connection... OK")
}

func TestParseChoice(t *testing.T) {
	assert.Equal(t, 1, parseChoice("", 3, 1))
	assert.Equal(t, 2, parseChoice("2", 3, 1))
	assert.Equal(t, 1, parseChoice("7", 3, 1))
	assert.Equal(t, 1, parseChoice("abc", 3, 1))
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("1234"))
	assert.Equal(t, "sk-t********cdef", maskAPIKey("sk-test-1234567890abcdef"))
}
