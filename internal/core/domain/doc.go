// Package domain defines the core business entities for Scout.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SourceHandle: An allow-listed club channel the pipeline may cite
//   - RetrievalRequest: One grounded-generation instruction
//   - RawResponse: Untrusted text plus citations from the generator
//   - EventRecord: A validated, classified event, deadline or spotlight
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
