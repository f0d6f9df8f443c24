// Package domain defines the core business entities for the playbook.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SOP: A standard operating procedure with steps, edge cases and contacts
//   - SearchEntry: A derived, searchable projection of an SOP or one of its sections
//   - Segment: A piece of highlighted text
//   - AppSettings: User-configurable behaviour
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
