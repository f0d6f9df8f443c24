package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchEntry_MatchText(t *testing.T) {
	doc := SearchEntry{
		Kind:          EntryKindDocument,
		DocumentTitle: "Noise Complaint Resolution",
		Text:          "ignored",
	}
	sec := SearchEntry{
		Kind:          EntryKindSection,
		DocumentTitle: "Noise Complaint Resolution",
		SectionLabel:  "Step 2",
		Text:          "Review community quiet hours policy",
	}

	assert.True(t, doc.IsDocument())
	assert.Equal(t, "Noise Complaint Resolution", doc.MatchText())
	assert.False(t, sec.IsDocument())
	assert.Equal(t, "Review community quiet hours policy", sec.MatchText())
}

func TestSearchOptions_ZeroValue(t *testing.T) {
	var opts SearchOptions
	assert.Zero(t, opts.Limit)
}
