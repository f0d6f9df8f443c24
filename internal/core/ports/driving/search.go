package driving

import (
	"context"

	"github.com/throughnateseyes/playbook/internal/core/domain"
)

// SearchService provides search capabilities to external actors.
type SearchService interface {
	// Search runs the two-tier matcher over the current index snapshot.
	// SOP title matches come first, then section matches.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
