package mcp

import (
	"github.com/throughnateseyes/playbook/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search runs the two-tier matcher.
	Search driving.SearchService

	// SOP reads the SOP collection.
	SOP driving.SOPService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.SOP == nil {
		return ErrMissingSOPService
	}
	return nil
}
