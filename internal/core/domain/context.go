package domain

import "strings"

// Excerpt is one product rendered for grounding, tagged with its source
// product ID so generated citations can be checked.
type Excerpt struct {
	// ProductID is the source product.
	ProductID string

	// Text is the rendered excerpt.
	Text string
}

// ContextBlock is the ordered sequence of excerpts handed to the
// generator. It is rebuilt fresh per query and never mutated after
// construction.
type ContextBlock struct {
	// Excerpts are in fused rank order.
	Excerpts []Excerpt
}

// Text renders the block as a single string, excerpts separated by
// blank lines.
func (b ContextBlock) Text() string {
	parts := make([]string, len(b.Excerpts))
	for i := range b.Excerpts {
		parts[i] = b.Excerpts[i].Text
	}
	return strings.Join(parts, "\n")
}

// Len returns the rendered length in characters.
func (b ContextBlock) Len() int {
	n := 0
	for i := range b.Excerpts {
		n += len(b.Excerpts[i].Text)
	}
	if len(b.Excerpts) > 1 {
		n += len(b.Excerpts) - 1 // separators
	}
	return n
}
