// Package services implements the driving port interfaces.
// Services hold the SOP collection, derive the search index from it and
// orchestrate calls to driven ports (adapters).
package services
