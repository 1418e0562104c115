// Package domain defines the core business entities for shopquery.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Product: A catalogue entry in the product index
//   - RankedResult: A single hit from one retrieval signal
//   - FusedResult: A hit after reciprocal rank fusion
//   - Turn: A single utterance in a chat session
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
