// Package filesystem reads SOP collections from JSON files on disk and
// watches a directory for changes to them.
//
// Files are discovered with the glob "**/*.json" relative to the root.
// Each file may hold one SOP, an array of SOPs, or an object with a "sops"
// array; legacy shapes are reconciled by the SOP normaliser.
package filesystem
