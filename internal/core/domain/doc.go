// Package domain defines the core business entities for Evidenzia.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - HighlightSpan: A merged run of same-colored highlighted text
//   - Comment: A reviewer comment with its anchored document range
//   - ClassificationPair: A (code, label) pair parsed from comment text
//   - ParagraphRef: A paragraph row used for link narrowing
//   - MappingState: User-editable category mapping configuration
//   - LinkedAnnotation: A comment joined to its best-matching highlight
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
