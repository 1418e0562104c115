// Command shopquery is the entry point for the product search and
// assistant CLI. It wires infrastructure adapters to the core services
// and hands the result to the cli package.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/custodia-labs/shopquery-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/shopquery-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/shopquery-cli/internal/adapters/driven/elastic"
	"github.com/custodia-labs/shopquery-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/shopquery-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/shopquery-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/shopquery-cli/internal/core/domain"
	"github.com/custodia-labs/shopquery-cli/internal/core/ports/driven"
	"github.com/custodia-labs/shopquery-cli/internal/core/services"
	"github.com/custodia-labs/shopquery-cli/internal/logger"
)

// pingTimeout bounds the connectivity check used by settings validation.
const pingTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("initialising config store: %w", err)
	}

	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	wired := &cli.Services{
		Settings: settingsService,
	}

	// Prompt templates are optional; a failure here only disables
	// user overrides.
	if promptStore, err := file.NewPromptStore(""); err == nil {
		wired.Prompts = promptStore
	} else {
		logger.Warn("prompt store unavailable: %v", err)
	}

	// The search service only exists once a cluster is configured.
	// Commands that need it print a settings hint otherwise.
	if settings.Elasticsearch.IsConfigured() {
		searchStore, err := elastic.NewSearchStore(elastic.Config{
			Settings: settings.Elasticsearch,
		})
		if err != nil {
			return fmt.Errorf("initialising search store: %w", err)
		}
		defer searchStore.Close()

		searchService, err := services.NewSearchService(searchStore, settings.Search)
		if err != nil {
			return fmt.Errorf("initialising search service: %w", err)
		}
		wired.Search = searchService
	}

	// Transcript persistence falls back to in-memory when the database
	// cannot be opened.
	if store, err := sqlite.NewStore(""); err == nil {
		defer store.Close()
		wired.Sessions = store.SessionStore()
	} else {
		logger.Warn("session database unavailable, transcripts will not persist: %v", err)
		wired.Sessions = memory.NewSessionStore()
	}

	// LLM creation is deferred to the commands that need it, so search
	// runs never pay for the connectivity check.
	wired.NewLLM = func() (driven.LLMService, error) {
		current, err := settingsService.Get()
		if err != nil {
			return nil, err
		}
		return ai.CreateAndValidateLLMService(&current.LLM)
	}

	cli.SetServices(wired)
	cli.SetElasticsearchValidator(validateElasticsearch)

	return cli.Execute()
}

// validateElasticsearch checks a candidate cluster configuration by
// pinging it before the settings command persists it.
func validateElasticsearch(candidate domain.ElasticsearchSettings) error {
	store, err := elastic.NewSearchStore(elastic.Config{Settings: candidate})
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return store.Ping(ctx)
}
