package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/shopquery-cli/internal/core/domain"
)

func TestCreateLLMService_NotConfigured(t *testing.T) {
	svc, err := CreateLLMService(nil)
	require.NoError(t, err)
	assert.Nil(t, svc)

	svc, err = CreateLLMService(&domain.LLMSettings{})
	require.NoError(t, err)
	assert.Nil(t, svc)
}

func TestCreateLLMService_Ollama(t *testing.T) {
	svc, err := CreateLLMService(&domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		Model:    "llama3.2",
	})

	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.Equal(t, "llama3.2", svc.ModelName())
}

func TestCreateLLMService_OpenAI(t *testing.T) {
	svc, err := CreateLLMService(&domain.LLMSettings{
		Provider: domain.AIProviderOpenAI,
		Model:    "gpt-4o-mini",
		APIKey:   "sk-test",
	})

	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.Equal(t, "gpt-4o-mini", svc.ModelName())
}

func TestCreateLLMService_OpenAIWithoutKey(t *testing.T) {
	// Without a key OpenAI is not configured; the factory treats that
	// as "no LLM" rather than an error.
	svc, err := CreateLLMService(&domain.LLMSettings{
		Provider: domain.AIProviderOpenAI,
		Model:    "gpt-4o-mini",
	})

	require.NoError(t, err)
	assert.Nil(t, svc)
}

func TestValidateLLMConfig_NotConfigured(t *testing.T) {
	assert.NoError(t, ValidateLLMConfig(nil))
	assert.NoError(t, ValidateLLMConfig(&domain.LLMSettings{}))
}
