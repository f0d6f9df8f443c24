package tui

import "errors"

// ErrMissingSOPService is returned when the SOP service is not provided.
var ErrMissingSOPService = errors.New("tui: sop service is required")

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("tui: search service is required")

// ErrMissingSettingsService is returned when the settings service is not provided.
var ErrMissingSettingsService = errors.New("tui: settings service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
