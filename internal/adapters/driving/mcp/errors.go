// Package mcp provides an MCP (Model Context Protocol) server adapter for
// shopquery. It enables AI assistants like Claude to search the product
// catalogue and ask the grounded product assistant.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrAssistantUnavailable is returned when the assistant tool is invoked
// without a configured chat service.
var ErrAssistantUnavailable = errors.New("mcp: assistant unavailable, no LLM configured")
