package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/keymap"
	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/messages"
	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/styles"
	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/views/browse"
	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/views/detail"
	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/views/palette"
	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/views/results"
	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/views/settings"
	"github.com/throughnateseyes/playbook/internal/core/domain"
	"github.com/throughnateseyes/playbook/internal/logger"
	"github.com/throughnateseyes/playbook/internal/surface"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap
	help   help.Model

	// browseView is the sidebar and SOP list.
	browseView *browse.View

	// resultsView lists results of a full search.
	resultsView *results.View

	// detailView shows one SOP with highlighted matches.
	detailView *detail.View

	// settingsView is the settings configuration view component.
	settingsView *settings.View

	// paletteView is the modal palette drawn over every other view.
	paletteView *palette.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// history holds the views to return to on Back.
	history []messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	timing := domain.DefaultAppSettings().Search

	a := &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		help:         help.New(),
		browseView:   browse.NewView(s, km, ports.SOP, ports.Settings, timing.InlineDebounce),
		resultsView:  results.NewView(s, km, ports.Search),
		detailView:   detail.NewView(s, km, ports.SOP, ports.Settings),
		settingsView: settings.NewView(s, ports.Settings),
		paletteView:  palette.NewView(s, km, ports.SOP, timing.PaletteDebounce),
		currentView:  messages.ViewBrowse,
	}
	a.applySettings()
	return a, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.browseView.WithContext(ctx)
	a.resultsView.WithContext(ctx)
	a.detailView.WithContext(ctx)
	return a
}

// applySettings pushes the configured search timing into the views.
func (a *App) applySettings() {
	st, err := a.ports.Settings.Get()
	if err != nil {
		logger.Warn("Reading settings failed, keeping current timing: %v", err)
		return
	}
	a.paletteView.SetDebounce(st.Search.PaletteDebounce)
	a.browseView.SetInlineDebounce(st.Search.InlineDebounce)
	a.detailView.SetTiming(st.Search.HighlightDelay, st.Search.ScrollOffset)
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("playbook"),
		a.browseView.Init(),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.OpenSOP:
		a.paletteView.Close()
		if a.currentView != messages.ViewDetail {
			a.history = append(a.history, a.currentView)
		}
		a.currentView = messages.ViewDetail
		return a, a.detailView.Open(msg.ID, msg.Query)

	case messages.RunSearch:
		a.paletteView.Close()
		a.currentView = messages.ViewResults
		return a, a.resultsView.Run(msg.Query)

	case messages.Back:
		a.back()
		return a, nil

	case messages.ViewChanged:
		a.history = nil
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewSettings:
			a.settingsView.Reset()
			return a, a.settingsView.Init()
		case messages.ViewBrowse:
			return a, a.browseView.Init()
		case messages.ViewResults, messages.ViewDetail, messages.ViewHelp:
			// Other views keep their state
		}
		return a, nil

	case messages.SOPsChanged:
		var cmds []tea.Cmd
		a.paletteView, cmd = a.paletteView.Update(msg)
		cmds = append(cmds, cmd)
		a.browseView, cmd = a.browseView.Update(msg)
		cmds = append(cmds, cmd)
		a.resultsView, cmd = a.resultsView.Update(msg)
		cmds = append(cmds, cmd)
		a.detailView, cmd = a.detailView.Update(msg)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)

	case messages.QuerySettled:
		switch msg.Surface {
		case messages.SurfacePalette:
			a.paletteView, cmd = a.paletteView.Update(msg)
		case messages.SurfaceInline:
			a.browseView, cmd = a.browseView.Update(msg)
		}
		return a, cmd

	case messages.SOPsLoaded:
		a.browseView, cmd = a.browseView.Update(msg)
		return a, cmd

	case messages.PinToggled:
		var detailCmd tea.Cmd
		a.browseView, cmd = a.browseView.Update(msg)
		a.detailView, detailCmd = a.detailView.Update(msg)
		return a, tea.Batch(cmd, detailCmd)

	case messages.SOPLoaded, messages.ScrollToMatch:
		a.detailView, cmd = a.detailView.Update(msg)
		return a, cmd

	case messages.SearchCompleted:
		a.resultsView, cmd = a.resultsView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.SettingsSaved:
		if msg.Err == nil {
			a.applySettings()
		}
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, a.forward(msg)

	case messages.Quit:
		return a, tea.Quit
	}

	if a.paletteView.IsOpen() {
		a.paletteView, cmd = a.paletteView.Update(msg)
		return a, cmd
	}
	return a, a.forward(msg)
}

func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()

	// Global quit with ctrl+c
	if k == "ctrl+c" {
		return a, tea.Quit
	}

	if a.paletteView.IsOpen() {
		var cmd tea.Cmd
		a.paletteView, cmd = a.paletteView.Update(msg)
		return a, cmd
	}

	typing := a.textInputFocused()
	if surface.OpensPalette(k, typing) {
		return a, a.paletteView.Open()
	}

	if !typing {
		switch {
		case keymap.Matches(k, a.keymap.Quit):
			return a, tea.Quit
		case keymap.Matches(k, a.keymap.Help):
			if a.currentView == messages.ViewHelp {
				a.back()
				return a, nil
			}
			a.history = append(a.history, a.currentView)
			a.currentView = messages.ViewHelp
			return a, nil
		case keymap.Matches(k, a.keymap.Settings) && a.currentView != messages.ViewSettings:
			a.history = append(a.history, a.currentView)
			a.currentView = messages.ViewSettings
			a.settingsView.Reset()
			return a, a.settingsView.Init()
		}
	}

	if a.currentView == messages.ViewHelp {
		if keymap.Matches(k, a.keymap.Back) {
			a.back()
		}
		return a, nil
	}

	return a, a.forward(msg)
}

// forward sends msg to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewBrowse:
		a.browseView, cmd = a.browseView.Update(msg)
	case messages.ViewResults:
		a.resultsView, cmd = a.resultsView.Update(msg)
	case messages.ViewDetail:
		a.detailView, cmd = a.detailView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't need to handle other messages
	}
	return cmd
}

// back returns to the view that opened the current one.
func (a *App) back() {
	if n := len(a.history); n > 0 {
		a.currentView = a.history[n-1]
		a.history = a.history[:n-1]
		return
	}
	a.currentView = messages.ViewBrowse
}

// textInputFocused reports whether keystrokes are being typed into a field.
func (a *App) textInputFocused() bool {
	if a.paletteView.IsOpen() {
		return true
	}
	switch a.currentView {
	case messages.ViewBrowse:
		return a.browseView.TextInputFocused()
	case messages.ViewResults:
		return a.resultsView.InputFocused()
	case messages.ViewSettings:
		return a.settingsView.Editing()
	case messages.ViewDetail, messages.ViewHelp:
		return false
	}
	return false
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	if a.paletteView.IsOpen() {
		return a.paletteView.View()
	}

	switch a.currentView {
	case messages.ViewBrowse:
		return a.browseView.View()
	case messages.ViewResults:
		return a.resultsView.View()
	case messages.ViewDetail:
		return a.detailView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.browseView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	b.WriteString(a.help.FullHelpView(a.keymap.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Help.Render("[esc] back"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Browse returns the browse view.
func (a *App) Browse() *browse.View {
	return a.browseView
}

// Results returns the results view.
func (a *App) Results() *results.View {
	return a.resultsView
}

// Detail returns the detail view.
func (a *App) Detail() *detail.View {
	return a.detailView
}

// Palette returns the palette view.
func (a *App) Palette() *palette.View {
	return a.paletteView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.help.Width = width
	a.browseView.SetDimensions(width, height)
	a.resultsView.SetDimensions(width, height)
	a.detailView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
	a.paletteView.SetDimensions(width, height)
}
