package messages

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/throughnateseyes/playbook/internal/core/domain"
	"github.com/throughnateseyes/playbook/internal/surface"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view     ViewType
		expected string
	}{
		{ViewBrowse, "browse"},
		{ViewResults, "results"},
		{ViewDetail, "detail"},
		{ViewSettings, "settings"},
		{ViewHelp, "help"},
		{ViewType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.view.String())
		})
	}
}

func TestNavigate(t *testing.T) {
	tests := []struct {
		name     string
		sel      surface.Selection
		expected any
	}{
		{
			name:     "document",
			sel:      surface.Selection{Kind: surface.SelectDocument, DocumentID: "1"},
			expected: OpenSOP{ID: "1"},
		},
		{
			name:     "section",
			sel:      surface.Selection{Kind: surface.SelectSection, DocumentID: "4", Query: "quiet"},
			expected: OpenSOP{ID: "4", Query: "quiet"},
		},
		{
			name:     "fallback",
			sel:      surface.Selection{Kind: surface.SelectFallback, Query: "boiler"},
			expected: RunSearch{Query: "boiler"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := Navigate(tt.sel)
			require.NotNil(t, cmd)
			assert.Equal(t, tt.expected, cmd())
		})
	}
}

func TestSettleAfter(t *testing.T) {
	cmd := SettleAfter(SurfacePalette, 7, time.Millisecond)
	require.NotNil(t, cmd)

	msg := cmd()
	assert.Equal(t, QuerySettled{Surface: SurfacePalette, Token: 7}, msg)
}

func TestSOPsLoaded_CarriesCounts(t *testing.T) {
	msg := SOPsLoaded{
		SOPs:       []domain.SOP{{ID: "1"}},
		Categories: []domain.CategoryCount{{Category: domain.CategoryFinance, Count: 1}},
		Total:      1,
	}
	assert.Len(t, msg.SOPs, 1)
	assert.Equal(t, 1, msg.Categories[0].Count)
}
