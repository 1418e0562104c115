package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidQuery indicates a malformed search query (empty after
	// trimming, or a non-positive result limit). Never retried.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrInvalidConfig indicates a bad tunable value.
	// Configuration is validated at startup and fails fast.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrRetrievalUnavailable indicates the product index could not be
	// reached or returned a transport error. Transient; callers may
	// retry or degrade to a single retrieval signal.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")

	// ErrEmptyContext indicates retrieval produced no grounding context.
	// This is an expected condition: callers surface "no relevant
	// results" instead of invoking the generator.
	ErrEmptyContext = errors.New("no grounding context available")

	// ErrGenerationUnavailable indicates the LLM call failed or timed
	// out. Transient; surfaced verbatim, never replaced with a
	// fabricated answer.
	ErrGenerationUnavailable = errors.New("generation unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Features requiring LLM (chat, query reformulation) are disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrSessionClosed indicates an operation on a closed chat session.
	ErrSessionClosed = errors.New("session closed")
)
