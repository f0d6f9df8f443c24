// Package mcp exposes the playbook over the Model Context Protocol so AI
// assistants can search SOPs and read them as resources.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrMissingSOPService is returned when the SOP service is not provided.
var ErrMissingSOPService = errors.New("mcp: sop service is required")
