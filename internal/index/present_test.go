package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/throughnateseyes/playbook/internal/core/domain"
)

func TestPresent(t *testing.T) {
	entries := []domain.SearchEntry{
		{Kind: domain.EntryKindDocument, DocumentID: "1", DocumentTitle: "Quiet Hours"},
		{Kind: domain.EntryKindSection, DocumentID: "2", DocumentTitle: "Noise", SectionLabel: "Step 1", Text: "Remind residents of quiet hours"},
	}

	results := Present(entries, "quiet")

	require.Len(t, results, 2)
	assert.Equal(t, "Quiet Hours", results[0].Snippet)
	assert.Equal(t, "Remind residents of quiet hours", results[1].Snippet)
	assert.Equal(t, []domain.Segment{
		{Text: "Remind residents of "},
		{Text: "quiet", IsMatch: true},
		{Text: " hours"},
	}, results[1].Segments)
	assert.Empty(t, Present(nil, "x"))
}

func TestPresent_PaddedQuery(t *testing.T) {
	entries := []domain.SearchEntry{
		{Kind: domain.EntryKindSection, DocumentID: "2", DocumentTitle: "Noise", SectionLabel: "Step 1", Text: "Remind residents of quiet hours"},
	}

	results := Present(entries, "  quiet ")

	require.Len(t, results, 1)
	assert.Equal(t, []domain.Segment{
		{Text: "Remind residents of "},
		{Text: "quiet", IsMatch: true},
		{Text: " hours"},
	}, results[0].Segments)
}
