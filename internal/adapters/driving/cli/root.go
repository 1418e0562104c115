// Package cli provides the shopquery command-line interface.
// It is a driving adapter: commands translate flags and arguments into
// calls on the driving ports and render the results.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/shopquery-cli/internal/core/ports/driven"
	"github.com/custodia-labs/shopquery-cli/internal/core/ports/driving"
	"github.com/custodia-labs/shopquery-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// verbose enables pipeline logging on stderr.
var verbose bool

// Services wired in by the composition root (main). Commands check for
// nil and fail with a configuration hint instead of panicking.
var (
	searchService   driving.SearchService
	settingsService driving.SettingsService
	sessionStore    driven.SessionStore
	promptStore     driven.PromptStore

	// newLLMService creates and validates the configured LLM on demand.
	// Deferred so commands that never talk to the LLM do not pay for
	// the connectivity check.
	newLLMService func() (driven.LLMService, error)
)

// Services aggregates everything the CLI needs from the composition root.
type Services struct {
	// Search provides product search. Required for search, chat, mcp
	// and tui commands.
	Search driving.SearchService

	// Settings manages application settings. Required for the settings
	// command.
	Settings driving.SettingsService

	// Sessions persists chat transcripts. Optional.
	Sessions driven.SessionStore

	// Prompts provides user-editable prompt templates. Optional.
	Prompts driven.PromptStore

	// NewLLM creates and validates the configured LLM service.
	// Optional; when nil or failing, chat features are unavailable.
	NewLLM func() (driven.LLMService, error)
}

// SetServices injects the wired services into the CLI commands.
func SetServices(s *Services) {
	if s == nil {
		return
	}
	searchService = s.Search
	settingsService = s.Settings
	sessionStore = s.Sessions
	promptStore = s.Prompts
	newLLMService = s.NewLLM
}

var rootCmd = &cobra.Command{
	Use:   "shopquery",
	Short: "Search and chat over an electronics product catalogue",
	Long: `shopquery searches an Elasticsearch product catalogue with hybrid
retrieval (BM25 keyword + ELSER semantic, fused with reciprocal rank
fusion) and answers questions about it with an LLM grounded on the
retrieved products.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"log the retrieval and generation pipeline to stderr")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
