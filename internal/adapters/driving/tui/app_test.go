package tui

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/messages"
	"github.com/throughnateseyes/playbook/internal/core/domain"
	"github.com/throughnateseyes/playbook/internal/surface"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	ports, _ := newTestPorts(t)
	app, err := NewApp(ports)
	require.NoError(t, err)
	app.SetDimensions(120, 40)
	drain(app, app.Init())
	return app
}

// drain runs cmd and feeds application messages back into the app until
// nothing is left. Bubbletea's own messages (cursor blinks, window title)
// are dropped.
func drain(a *App, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			drain(a, c)
		}
		return
	}
	if !strings.HasPrefix(fmt.Sprintf("%T", msg), "messages.") {
		return
	}
	_, next := a.Update(msg)
	drain(a, next)
}

func send(a *App, msg tea.Msg) tea.Cmd {
	_, cmd := a.Update(msg)
	return cmd
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+k":
		return tea.KeyMsg{Type: tea.KeyCtrlK}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// typeIntoPalette types text into the palette one keystroke at a time and settles
// the last keystroke.
func typeIntoPalette(a *App, text string) {
	for _, r := range text {
		send(a, keyMsg(string(r)))
	}
	drain(a, func() tea.Msg {
		return messages.QuerySettled{Surface: messages.SurfacePalette, Token: a.Palette().Finder().Token()}
	})
}

func TestNewApp_Success(t *testing.T) {
	ports, _ := newTestPorts(t)

	app, err := NewApp(ports)

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewBrowse, app.CurrentView())
	assert.False(t, app.Palette().IsOpen())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	ports, _ := newTestPorts(t)
	ports.SOP = nil

	app, err := NewApp(ports)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingSOPService)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	ports, _ := newTestPorts(t)
	app, _ := NewApp(ports)

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")
	result := app.WithContext(ctx)

	assert.Equal(t, app, result)
}

func TestApp_InitLoadsBrowse(t *testing.T) {
	app := newTestApp(t)

	assert.Len(t, app.Browse().SOPs(), 6)
	assert.Contains(t, app.View(), "Emergency Maintenance Request")
}

func TestApp_View_NotReady(t *testing.T) {
	ports, _ := newTestPorts(t)
	app, _ := NewApp(ports)

	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())

	send(app, tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.True(t, app.Ready())
}

func TestApp_CtrlCQuits(t *testing.T) {
	app := newTestApp(t)

	cmd := send(app, keyMsg("ctrl+c"))

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestApp_QQuitsOutsideTextInput(t *testing.T) {
	app := newTestApp(t)

	cmd := send(app, keyMsg("q"))

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestApp_QuitMessage(t *testing.T) {
	app := newTestApp(t)

	cmd := send(app, messages.Quit{})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestApp_PaletteShortcuts(t *testing.T) {
	t.Run("ctrl+k", func(t *testing.T) {
		app := newTestApp(t)
		send(app, keyMsg("ctrl+k"))
		assert.True(t, app.Palette().IsOpen())
		assert.Contains(t, app.View(), "Search")
	})

	t.Run("slash", func(t *testing.T) {
		app := newTestApp(t)
		send(app, keyMsg(surface.KeyPaletteSlash))
		assert.True(t, app.Palette().IsOpen())
	})

	t.Run("slash while filtering is typed", func(t *testing.T) {
		app := newTestApp(t)
		send(app, keyMsg("f"))
		require.True(t, app.Browse().Filtering())

		send(app, keyMsg(surface.KeyPaletteSlash))
		assert.False(t, app.Palette().IsOpen())
	})

	t.Run("ctrl+k while filtering", func(t *testing.T) {
		app := newTestApp(t)
		send(app, keyMsg("f"))

		send(app, keyMsg("ctrl+k"))
		assert.True(t, app.Palette().IsOpen())
	})
}

func TestApp_QWhileFilteringDoesNotQuit(t *testing.T) {
	app := newTestApp(t)
	send(app, keyMsg("f"))

	send(app, keyMsg("q"))

	assert.True(t, app.Browse().Filtering())
	assert.Equal(t, messages.ViewBrowse, app.CurrentView())
}

func TestApp_PaletteOpensDocument(t *testing.T) {
	app := newTestApp(t)
	send(app, keyMsg("ctrl+k"))

	typeIntoPalette(app, "noise")
	assert.Equal(t, surface.StateOpenResults, app.Palette().State())

	drain(app, send(app, keyMsg("enter")))

	assert.False(t, app.Palette().IsOpen())
	assert.Equal(t, messages.ViewDetail, app.CurrentView())
	require.NotNil(t, app.Detail().SOP())
	assert.Equal(t, "4", app.Detail().SOP().ID)
	assert.Empty(t, app.Detail().Query())
}

func TestApp_PaletteEscCloses(t *testing.T) {
	app := newTestApp(t)
	send(app, keyMsg("ctrl+k"))

	send(app, keyMsg("esc"))

	assert.False(t, app.Palette().IsOpen())
	assert.Equal(t, messages.ViewBrowse, app.CurrentView())
}

func TestApp_PaletteKeysDoNotReachView(t *testing.T) {
	app := newTestApp(t)
	send(app, keyMsg("ctrl+k"))

	cmd := send(app, keyMsg("q"))

	assert.True(t, app.Palette().IsOpen())
	if cmd != nil {
		assert.NotEqual(t, tea.QuitMsg{}, cmd())
	}
	assert.Equal(t, "q", app.Palette().Finder().Query())
}

func TestApp_RunSearchShowsResults(t *testing.T) {
	app := newTestApp(t)

	drain(app, send(app, messages.RunSearch{Query: "unreachable"}))

	assert.Equal(t, messages.ViewResults, app.CurrentView())
	assert.Equal(t, "unreachable", app.Results().Query())
	assert.NotEmpty(t, app.Results().Results())
}

func TestApp_BackReturnsToOpener(t *testing.T) {
	app := newTestApp(t)
	drain(app, send(app, messages.RunSearch{Query: "unreachable"}))

	drain(app, send(app, messages.OpenSOP{ID: "1", Query: "unreachable"}))
	require.Equal(t, messages.ViewDetail, app.CurrentView())
	assert.Equal(t, 2, app.Detail().MatchTotal())

	drain(app, send(app, keyMsg("esc")))
	assert.Equal(t, messages.ViewResults, app.CurrentView())

	drain(app, send(app, keyMsg("esc")))
	assert.Equal(t, messages.ViewBrowse, app.CurrentView())
}

func TestApp_BackFromDetailOpenedInBrowse(t *testing.T) {
	app := newTestApp(t)

	drain(app, send(app, keyMsg("enter")))
	require.Equal(t, messages.ViewDetail, app.CurrentView())
	assert.Equal(t, "1", app.Detail().SOP().ID)

	drain(app, send(app, keyMsg("esc")))
	assert.Equal(t, messages.ViewBrowse, app.CurrentView())
}

func TestApp_BackWithoutHistory(t *testing.T) {
	app := newTestApp(t)

	send(app, messages.Back{})

	assert.Equal(t, messages.ViewBrowse, app.CurrentView())
}

func TestApp_Help(t *testing.T) {
	app := newTestApp(t)

	send(app, keyMsg("?"))
	require.Equal(t, messages.ViewHelp, app.CurrentView())
	view := app.View()
	assert.Contains(t, view, "Help")
	assert.Contains(t, view, "palette")
	assert.Contains(t, view, "next match")

	send(app, keyMsg("esc"))
	assert.Equal(t, messages.ViewBrowse, app.CurrentView())
}

func TestApp_HelpToggles(t *testing.T) {
	app := newTestApp(t)

	send(app, keyMsg("?"))
	send(app, keyMsg("?"))

	assert.Equal(t, messages.ViewBrowse, app.CurrentView())
}

func TestApp_Settings(t *testing.T) {
	app := newTestApp(t)

	drain(app, send(app, keyMsg(",")))

	assert.Equal(t, messages.ViewSettings, app.CurrentView())
	assert.Contains(t, app.View(), domain.SettingPaletteDebounce)
}

func TestApp_ViewChanged(t *testing.T) {
	app := newTestApp(t)
	drain(app, send(app, messages.OpenSOP{ID: "2"}))

	drain(app, send(app, messages.ViewChanged{View: messages.ViewBrowse}))

	assert.Equal(t, messages.ViewBrowse, app.CurrentView())
	send(app, messages.Back{})
	assert.Equal(t, messages.ViewBrowse, app.CurrentView())
}

func TestApp_SOPsChangedReachesViews(t *testing.T) {
	ports, sops := newTestPorts(t)
	app, err := NewApp(ports)
	require.NoError(t, err)
	app.SetDimensions(120, 40)
	drain(app, app.Init())
	drain(app, send(app, messages.OpenSOP{ID: "3"}))

	_, err = sops.Create(context.Background(), domain.SOP{ID: "7", Title: "Pool Closure Notice", Category: domain.CategoryOperations})
	require.NoError(t, err)
	_, err = sops.Update(context.Background(), "3", map[string]any{"title": "Late Fee Policy"})
	require.NoError(t, err)

	drain(app, send(app, messages.SOPsChanged{}))

	assert.Len(t, app.Browse().SOPs(), 7)
	assert.Equal(t, "Late Fee Policy", app.Detail().SOP().Title)
}

func TestApp_PinToggledReachesDetail(t *testing.T) {
	app := newTestApp(t)
	drain(app, send(app, messages.OpenSOP{ID: "5"}))

	drain(app, send(app, keyMsg("p")))

	assert.True(t, app.Detail().Pinned())
}

func TestApp_ErrorOccurred(t *testing.T) {
	app := newTestApp(t)
	testErr := assert.AnError

	send(app, messages.ErrorOccurred{Err: testErr})

	assert.Equal(t, testErr, app.Err())
}
