package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/shopquery-cli/internal/core/domain"
)

// validateElasticsearch checks connectivity for a candidate cluster
// configuration. Wired by the composition root; nil skips validation.
var validateElasticsearch func(domain.ElasticsearchSettings) error

// SetElasticsearchValidator wires the connectivity check used by the
// settings commands.
func SetElasticsearchValidator(fn func(domain.ElasticsearchSettings) error) {
	validateElasticsearch = fn
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the product index connection, search behaviour
and the LLM provider.

Use subcommands to configure specific settings or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

var settingsModeCmd = &cobra.Command{
	Use:   "mode",
	Short: "Set the default search mode",
	Long: `Set the default retrieval mode.

Available modes:
  lexical  - BM25 keyword search only (fastest)
  semantic - ELSER semantic search only
  hybrid   - both signals fused with reciprocal rank fusion (default)`,
	RunE: runSettingsMode,
}

var settingsElasticsearchCmd = &cobra.Command{
	Use:   "elasticsearch",
	Short: "Configure the product index connection",
	Long:  `Configure the Elasticsearch cluster holding the product catalogue.`,
	RunE:  runSettingsElasticsearch,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure the LLM provider",
	Long:  `Configure the LLM provider for the conversational assistant.`,
	RunE:  runSettingsLLM,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsModeCmd)
	settingsCmd.AddCommand(settingsElasticsearchCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Mode: %s\n", settings.Search.Mode.Description())
	cmd.Printf("  Top K: %d\n", settings.Search.TopK)
	cmd.Printf("  RRF rank constant: %d\n", settings.Search.RankConstant)
	cmd.Printf("  Request timeout: %s\n", settings.Search.RequestTimeout)
	cmd.Println()

	cmd.Println("[Elasticsearch]")
	cmd.Printf("  URL: %s\n", settings.Elasticsearch.URL)
	cmd.Printf("  Index: %s\n", settings.Elasticsearch.Index)
	cmd.Printf("  Inference endpoint: %s\n", settings.Elasticsearch.InferenceID)
	if settings.Elasticsearch.APIKey != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Elasticsearch.APIKey))
	} else if settings.Elasticsearch.Username != "" {
		cmd.Printf("  Username: %s\n", settings.Elasticsearch.Username)
	}
	cmd.Printf("  Status: %s\n", configuredStatus(settings.Elasticsearch.IsConfigured()))
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		if settings.LLM.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.LLM.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	cmd.Printf("  Status: %s\n", configuredStatus(settings.LLM.IsConfigured()))
	cmd.Println()

	cmd.Println("[Chat]")
	cmd.Printf("  History budget: %d turns / %d chars\n",
		settings.Chat.MaxHistoryTurns, settings.Chat.MaxHistoryChars)
	cmd.Printf("  Max tokens: %d\n", settings.Chat.MaxTokens)
	cmd.Printf("  Temperature: %.1f\n", settings.Chat.Temperature)

	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Println("shopquery Setup Wizard")
	cmd.Println("======================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	if err := configureElasticsearch(cmd, reader); err != nil {
		return err
	}
	if err := configureLLMProvider(cmd, reader); err != nil {
		return err
	}
	if err := configureSearchMode(cmd, reader); err != nil {
		return err
	}

	if err := settingsService.Validate(); err != nil {
		return fmt.Errorf("settings validation failed: %w", err)
	}

	cmd.Println("Setup complete. Try: shopquery search \"gaming laptop\"")
	return nil
}

func runSettingsMode(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureSearchMode(cmd, reader)
}

func runSettingsElasticsearch(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureElasticsearch(cmd, reader)
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureLLMProvider(cmd, reader)
}

func configureSearchMode(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select Search Mode")
	modes := []domain.SearchMode{
		domain.SearchModeHybrid,
		domain.SearchModeLexical,
		domain.SearchModeSemantic,
	}
	for i, m := range modes {
		cmd.Printf("  %d. %s\n", i+1, m.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(modes), 1)
	mode := modes[idx-1]

	if err := settingsService.SetSearchMode(mode); err != nil {
		return fmt.Errorf("failed to set search mode: %w", err)
	}

	cmd.Printf("Search mode set: %s\n\n", mode.Description())
	return nil
}

func configureElasticsearch(cmd *cobra.Command, reader *bufio.Reader) error {
	defaults := settingsService.GetDefaults().Elasticsearch

	cmd.Println("Configure Product Index (Elasticsearch)")

	cmd.Printf("Cluster URL [%s]: ", defaults.URL)
	url := readLine(reader)
	if url == "" {
		url = defaults.URL
	}

	cmd.Printf("Index name [%s]: ", defaults.Index)
	index := readLine(reader)
	if index == "" {
		index = defaults.Index
	}

	cmd.Printf("ELSER inference endpoint [%s]: ", defaults.InferenceID)
	inferenceID := readLine(reader)
	if inferenceID == "" {
		inferenceID = defaults.InferenceID
	}

	cmd.Print("API key (empty for basic auth): ")
	apiKey := readPassword(reader)
	cmd.Println()

	settings := domain.ElasticsearchSettings{
		URL:         url,
		Index:       index,
		InferenceID: inferenceID,
		APIKey:      apiKey,
	}
	if apiKey == "" {
		cmd.Print("Username (empty for none): ")
		settings.Username = readLine(reader)
		if settings.Username != "" {
			cmd.Print("Password: ")
			settings.Password = readPassword(reader)
			cmd.Println()
		}
	}

	if validateElasticsearch != nil {
		cmd.Print("Validating connection... ")
		if err := validateElasticsearch(settings); err != nil {
			cmd.Printf("FAILED: %v\n", err)
			return fmt.Errorf("elasticsearch validation failed: %w", err)
		}
		cmd.Println("OK")
	}

	if err := settingsService.SetElasticsearch(settings); err != nil {
		return fmt.Errorf("failed to configure elasticsearch: %w", err)
	}

	cmd.Printf("Product index configured: %s/%s\n\n", url, index)
	return nil
}

func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	providers := []domain.AIProvider{
		domain.AIProviderOllama,
		domain.AIProviderOpenAI,
	}
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	cmd.Print("Enter model name (empty for provider default): ")
	model := readLine(reader)

	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetLLMProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	// Validate by creating the service and pinging it.
	if newLLMService != nil {
		cmd.Print("Validating configuration... ")
		llm, err := newLLMService()
		if err != nil {
			cmd.Printf("FAILED: %v\n", err)
			return fmt.Errorf("LLM configuration validation failed: %w", err)
		}
		if llm != nil {
			llm.Close()
		}
		cmd.Println("OK")
	}

	cmd.Printf("LLM provider configured: %s\n\n", selectedProvider.Description())
	return nil
}

// Helper functions.

func configuredStatus(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads a secret without echo when stdin is a terminal,
// falling back to a plain line read otherwise (tests, pipes).
//
//nolint:errcheck // CLI helper, error ignored for UX
func readPassword(reader *bufio.Reader) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	return readLine(reader)
}

// maskAPIKey shows only the first and last few characters of a key.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", 8) + key[len(key)-4:]
}
