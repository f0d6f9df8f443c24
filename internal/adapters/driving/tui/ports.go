// Package tui provides an interactive terminal user interface for playbook.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/throughnateseyes/playbook/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// SOP owns the collection and its search index.
	SOP driving.SOPService

	// Search runs full searches for the results view.
	Search driving.SearchService

	// Settings manages application settings and pins.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	sop driving.SOPService,
	search driving.SearchService,
	settings driving.SettingsService,
) *Ports {
	return &Ports{
		SOP:      sop,
		Search:   search,
		Settings: settings,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.SOP == nil {
		return ErrMissingSOPService
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Settings == nil {
		return ErrMissingSettingsService
	}
	return nil
}
