package index

import (
	"strings"

	"github.com/throughnateseyes/playbook/internal/core/domain"
)

// Present attaches a snippet and its highlighted segments to each entry.
// The query is trimmed the same way Search trims it.
func Present(entries []domain.SearchEntry, query string) []domain.SearchResult {
	q := strings.TrimSpace(query)
	results := make([]domain.SearchResult, 0, len(entries))
	for i := range entries {
		snippet := Snippet(entries[i].MatchText(), q, DefaultSnippetLength)
		results = append(results, domain.SearchResult{
			Entry:    entries[i],
			Snippet:  snippet,
			Segments: Highlight(snippet, q),
		})
	}
	return results
}
