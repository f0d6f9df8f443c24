package services

import (
	"context"
	"strings"
	"time"

	"github.com/throughnateseyes/playbook/internal/core/domain"
	"github.com/throughnateseyes/playbook/internal/core/ports/driving"
	"github.com/throughnateseyes/playbook/internal/index"
	"github.com/throughnateseyes/playbook/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// EntrySource supplies the current index snapshot.
type EntrySource interface {
	Entries() []domain.SearchEntry
}

// SearchService runs the two-tier matcher over an index snapshot.
type SearchService struct {
	source EntrySource
}

// NewSearchService creates a new search service.
func NewSearchService(source EntrySource) *SearchService {
	return &SearchService{source: source}
}

// Search returns document matches followed by at most index.SectionCap
// section matches, each with a snippet and its highlighted segments.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	start := time.Now()
	matched := index.Search(s.source.Entries(), query)
	if opts.Limit > 0 && len(matched) > opts.Limit {
		matched = matched[:opts.Limit]
	}

	results := index.Present(matched, query)

	logger.Timed(start, "Matched %d entries", len(results))
	return results, nil
}
