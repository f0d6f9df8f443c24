package index

import (
	"strings"

	"github.com/throughnateseyes/playbook/internal/core/domain"
)

// SectionCap bounds the number of section entries in one result set.
// Document entries are never capped.
const SectionCap = 15

// Search returns entries matching query: every matching document entry in
// index order, then up to SectionCap matching section entries in index
// order. A blank query matches nothing.
func Search(entries []domain.SearchEntry, query string) []domain.SearchEntry {
	q := strings.TrimSpace(query)
	if q == "" {
		return []domain.SearchEntry{}
	}
	needle := lowerRunes(q)

	var docs, sections []domain.SearchEntry
	for i := range entries {
		e := &entries[i]
		if e.IsDocument() {
			if indexRunes(lowerRunes(e.DocumentTitle), needle) >= 0 {
				docs = append(docs, *e)
			}
			continue
		}
		if len(sections) >= SectionCap {
			continue
		}
		if indexRunes(lowerRunes(e.Text), needle) >= 0 {
			sections = append(sections, *e)
		}
	}

	out := make([]domain.SearchEntry, 0, len(docs)+len(sections))
	out = append(out, docs...)
	return append(out, sections...)
}

// Matches reports whether the entry matches query.
func Matches(e domain.SearchEntry, query string) bool {
	q := strings.TrimSpace(query)
	if q == "" {
		return false
	}
	return indexRunes(lowerRunes(e.MatchText()), lowerRunes(q)) >= 0
}
