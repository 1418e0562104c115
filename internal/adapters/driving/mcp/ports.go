package mcp

import (
	"github.com/custodia-labs/shopquery-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides product search capabilities.
	Search driving.SearchService

	// Chat is the grounded product assistant. Optional; without it the
	// ask_assistant tool reports the assistant as unavailable.
	Chat driving.ChatService

	// Settings exposes current application settings as a resource.
	// Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	// Chat and Settings are optional.
	return nil
}
