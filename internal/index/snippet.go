package index

import (
	"unicode"

	"github.com/throughnateseyes/playbook/internal/core/domain"
)

// DefaultSnippetLength is the prefix length used when no match is found.
const DefaultSnippetLength = 120

// Snippet window around a match, in characters.
const (
	contextBefore = 35
	contextAfter  = 65
)

// Ellipsis marks text cut away at a snippet boundary.
const Ellipsis = "…"

// Snippet returns an excerpt of text around the first case-insensitive
// occurrence of query: up to 35 characters before the match and 65 after
// it, with an ellipsis on each side that was cut. Without a match it falls
// back to the first maxLen characters.
func Snippet(text, query string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultSnippetLength
	}
	runes := []rune(text)

	idx := -1
	needle := lowerRunes(query)
	if len(needle) > 0 {
		idx = indexRunes(lowerRunes(text), needle)
	}

	if idx < 0 {
		if len(runes) <= maxLen {
			return text
		}
		return string(runes[:maxLen]) + Ellipsis
	}

	start := max(0, idx-contextBefore)
	end := min(len(runes), idx+len(needle)+contextAfter)

	out := string(runes[start:end])
	if start > 0 {
		out = Ellipsis + out
	}
	if end < len(runes) {
		out += Ellipsis
	}
	return out
}

// Highlight splits text into matching and non-matching segments. The split
// is a partition: concatenating every segment's Text yields text.
func Highlight(text, query string) []domain.Segment {
	if text == "" {
		return []domain.Segment{}
	}
	positions := MatchPositions(text, query)
	if len(positions) == 0 {
		return []domain.Segment{{Text: text}}
	}

	runes := []rune(text)
	n := len(lowerRunes(query))
	segments := make([]domain.Segment, 0, len(positions)*2+1)
	cursor := 0
	for _, p := range positions {
		if p > cursor {
			segments = append(segments, domain.Segment{Text: string(runes[cursor:p])})
		}
		segments = append(segments, domain.Segment{Text: string(runes[p : p+n]), IsMatch: true})
		cursor = p + n
	}
	if cursor < len(runes) {
		segments = append(segments, domain.Segment{Text: string(runes[cursor:])})
	}
	return segments
}

// MatchPositions returns the rune offsets of every non-overlapping
// case-insensitive occurrence of query in text.
func MatchPositions(text, query string) []int {
	needle := lowerRunes(query)
	if len(needle) == 0 {
		return nil
	}
	hay := lowerRunes(text)

	var positions []int
	for i := 0; i+len(needle) <= len(hay); {
		j := indexRunes(hay[i:], needle)
		if j < 0 {
			break
		}
		positions = append(positions, i+j)
		i += j + len(needle)
	}
	return positions
}

// MatchCount returns the number of non-overlapping occurrences of query.
func MatchCount(text, query string) int {
	return len(MatchPositions(text, query))
}

// lowerRunes lowers rune by rune so offsets line up with []rune(s).
func lowerRunes(s string) []rune {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return runes
}

func indexRunes(hay, needle []rune) int {
	if len(needle) == 0 {
		return 0
	}
	for i := 0; i+len(needle) <= len(hay); i++ {
		if hay[i] != needle[0] {
			continue
		}
		match := true
		for k := 1; k < len(needle); k++ {
			if hay[i+k] != needle[k] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
