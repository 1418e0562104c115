package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/shopquery-cli/internal/core/domain"
	"github.com/custodia-labs/shopquery-cli/internal/logger"
)

// minExcerptChars is the smallest useful truncated excerpt. When the
// remaining budget is below this, the excerpt is dropped instead.
const minExcerptChars = 80

// maxExcerptSpecs bounds how many specification entries one excerpt
// lists.
const maxExcerptSpecs = 5

// truncationMarker terminates a truncated excerpt.
const truncationMarker = "..."

// BuildContext renders the top k search results into a bounded context
// block for generation. Excerpts keep fused rank order; to honour
// maxChars, individual excerpts are truncated and lowest-ranked ones
// dropped - results are never reordered for size.
//
// Returns domain.ErrEmptyContext when results is empty: callers must
// treat that as "no grounding available" rather than generating
// ungrounded text.
func BuildContext(results []domain.SearchResult, k, maxChars int) (*domain.ContextBlock, error) {
	if len(results) == 0 {
		return nil, domain.ErrEmptyContext
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: context top-k must be >= 1, got %d", domain.ErrInvalidConfig, k)
	}
	if maxChars <= 0 {
		return nil, fmt.Errorf("%w: max context chars must be positive, got %d",
			domain.ErrInvalidConfig, maxChars)
	}

	if len(results) > k {
		results = results[:k]
	}

	block := &domain.ContextBlock{}
	remaining := maxChars

	for i := range results {
		// Account for the blank-line separator between excerpts.
		budget := remaining
		if len(block.Excerpts) > 0 {
			budget--
		}

		text := renderExcerpt(i+1, &results[i].Product)
		if len(text) > budget {
			if budget < minExcerptChars && len(block.Excerpts) > 0 {
				logger.Debug("Context budget exhausted after %d excerpts", len(block.Excerpts))
				break
			}
			text = truncateExcerpt(text, budget)
			if text == "" {
				break
			}
		}

		block.Excerpts = append(block.Excerpts, domain.Excerpt{
			ProductID: results[i].Product.ID,
			Text:      text,
		})
		remaining = maxChars - block.Len()
	}

	logger.Debug("Context block: %d excerpts, %d chars", len(block.Excerpts), block.Len())
	return block, nil
}

// renderExcerpt formats one product as a labelled grounding excerpt.
func renderExcerpt(position int, p *domain.Product) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Product %d [%s]:\n", position, p.ID)
	fmt.Fprintf(&b, "- Name: %s\n", p.Name)
	fmt.Fprintf(&b, "- Category: %s\n", p.Category)
	fmt.Fprintf(&b, "- Price: $%.2f\n", p.Price)
	fmt.Fprintf(&b, "- Description: %s\n", p.Description)

	if len(p.Features) > 0 {
		fmt.Fprintf(&b, "- Features: %s\n", strings.Join(p.Features, ", "))
	}

	if len(p.Specifications) > 0 {
		keys := make([]string, 0, len(p.Specifications))
		for key := range p.Specifications {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		if len(keys) > maxExcerptSpecs {
			keys = keys[:maxExcerptSpecs]
		}
		b.WriteString("- Key Specs:\n")
		for _, key := range keys {
			fmt.Fprintf(&b, "  * %s: %s\n", key, p.Specifications[key])
		}
	}

	if p.Reviews != nil {
		fmt.Fprintf(&b, "- Rating: %.1f/5.0 (%d reviews)\n", p.Reviews.Rating, p.Reviews.Count)
	}

	return b.String()
}

// truncateExcerpt cuts text to fit budget, ending with a marker.
// Returns empty when the budget cannot hold even the marker.
func truncateExcerpt(text string, budget int) string {
	if budget <= len(truncationMarker) {
		return ""
	}
	cut := budget - len(truncationMarker)
	if cut >= len(text) {
		return text
	}
	return text[:cut] + truncationMarker
}
