package domain

// Signal identifies the retrieval method that produced a ranked result.
// Modelling the two signals as a closed set gives exhaustive switches
// when handling degraded or missing signals.
type Signal string

// Available retrieval signals.
const (
	// SignalLexical is BM25 keyword ranking.
	SignalLexical Signal = "lexical"

	// SignalSemantic is ELSER learned-sparse ranking.
	SignalSemantic Signal = "semantic"
)

// IsValid returns true if the signal is recognised.
func (s Signal) IsValid() bool {
	switch s {
	case SignalLexical, SignalSemantic:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s Signal) String() string {
	return string(s)
}

// RankedResult is a single hit from one retrieval signal.
// Scores are only comparable within the signal that produced them.
type RankedResult struct {
	// ProductID references the matched product.
	ProductID string

	// Score is the signal's own relevance score (BM25 or sparse dot
	// product). Raw scales differ between signals.
	Score float64

	// Signal is the retrieval method that produced this hit.
	Signal Signal
}

// FusedResult is a hit after reciprocal rank fusion of both signals.
// Only the ordering is meaningful; fused score magnitudes are not
// comparable across queries.
type FusedResult struct {
	// ProductID references the matched product.
	ProductID string

	// Score is the combined RRF score.
	Score float64

	// LexicalRank is the 1-based position in the lexical list,
	// or 0 if the product was absent from it.
	LexicalRank int

	// SemanticRank is the 1-based position in the semantic list,
	// or 0 if the product was absent from it.
	SemanticRank int
}

// SearchOptions configures a search query.
type SearchOptions struct {
	// Mode selects which retrieval signals to use.
	// Zero value falls back to the configured default.
	Mode SearchMode

	// Limit is the maximum number of results.
	Limit int
}

// SearchResult is a fused hit hydrated with its product.
type SearchResult struct {
	// Product is the matched catalogue entry.
	Product Product

	// Score is the fused relevance score.
	Score float64

	// LexicalRank is the 1-based lexical position (0 = absent).
	LexicalRank int

	// SemanticRank is the 1-based semantic position (0 = absent).
	SemanticRank int
}
