package palette

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/throughnateseyes/playbook/internal/adapters/driven/storage/memory"
	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/messages"
	"github.com/throughnateseyes/playbook/internal/core/services"
	"github.com/throughnateseyes/playbook/internal/seed"
	"github.com/throughnateseyes/playbook/internal/surface"
)

func newSeededService(t *testing.T) *services.SOPService {
	t.Helper()
	svc := services.NewSOPService(memory.NewSOPStore(), "test", true)
	_, err := svc.Seed(context.Background(), seed.SOPs())
	require.NoError(t, err)
	return svc
}

func TestNewView_Closed(t *testing.T) {
	v := NewView(nil, nil, nil, 0)

	require.NotNil(t, v)
	assert.False(t, v.IsOpen())
	assert.Equal(t, surface.StateClosed, v.State())
	assert.Empty(t, v.View())
}

func TestView_OpenAndRender(t *testing.T) {
	v := NewView(nil, nil, newSeededService(t), 0)
	v.SetDimensions(120, 40)

	v.Open()

	assert.True(t, v.IsOpen())
	assert.Equal(t, surface.StateOpenEmpty, v.State())
	view := v.View()
	assert.Contains(t, view, "Search")
	assert.Contains(t, view, "esc back")
}

func TestView_SearchAndCommit(t *testing.T) {
	v := NewView(nil, nil, newSeededService(t), 0)
	v.SetDimensions(120, 40)
	v.Open()

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("noise")})
	assert.Equal(t, -1, v.Finder().Cursor())

	v, _ = v.Update(messages.QuerySettled{Surface: messages.SurfacePalette, Token: v.Finder().Token()})
	require.Equal(t, surface.StateOpenResults, v.State())
	assert.Contains(t, v.View(), "Noise Complaint Resolution")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.OpenSOP{ID: "4"}, cmd())
	assert.False(t, v.IsOpen())
}

func TestView_NilServiceFindsNothing(t *testing.T) {
	v := NewView(nil, nil, nil, 0)
	v.Open()
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("noise")})

	v, _ = v.Update(messages.QuerySettled{Surface: messages.SurfacePalette, Token: v.Finder().Token()})

	assert.Equal(t, surface.StateOpenNoResults, v.State())
}

func TestView_EscCloses(t *testing.T) {
	v := NewView(nil, nil, nil, 0)
	v.Open()

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, v.IsOpen())
}
