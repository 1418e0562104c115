package domain

// Answer is the assistant's reply to one question.
type Answer struct {
	// Text is the generated (or fixed fallback) reply.
	Text string

	// Sources are the fused search results the reply is grounded on,
	// in rank order. Empty when Grounded is false.
	Sources []SearchResult

	// Grounded reports whether the generator was invoked with
	// retrieved context. False means retrieval found nothing and the
	// fixed "no information" reply was used instead.
	Grounded bool
}
