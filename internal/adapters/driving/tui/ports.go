// Package tui provides an interactive terminal user interface for
// shopquery. It implements a driving adapter following hexagonal
// architecture principles.
package tui

import (
	"github.com/custodia-labs/shopquery-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides product search capabilities.
	Search driving.SearchService

	// Chat is the grounded product assistant. Optional; without it the
	// chat view explains that no LLM is configured.
	Chat driving.ChatService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	// Chat is optional.
	return nil
}
