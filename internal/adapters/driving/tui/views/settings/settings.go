// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/messages"
	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/styles"
	"github.com/throughnateseyes/playbook/internal/core/domain"
	"github.com/throughnateseyes/playbook/internal/core/ports/driving"
)

// ErrNoSettingsService indicates that no settings service was provided.
var ErrNoSettingsService = errors.New("settings service not available")

// Key constants for key handling.
const (
	keyDown  = "down"
	keyEnter = "enter"
	keyEsc   = "esc"
)

// descriptions are shown beside each key.
var descriptions = map[string]string{
	domain.SettingWorkspace:       "Workspace whose SOPs are shown",
	domain.SettingStorageBackend:  "sqlite or memory (applies on restart)",
	domain.SettingStorageDataDir:  "Database directory (applies on restart)",
	domain.SettingPaletteDebounce: "Palette quiet interval, ms",
	domain.SettingInlineDebounce:  "Inline search quiet interval, ms",
	domain.SettingHighlightDelay:  "Delay before scrolling to a match, ms",
	domain.SettingScrollOffset:    "Lines kept above a scrolled-to match",
	domain.SettingCanCreateSOP:    "Allow creating and importing SOPs",
}

// View is the settings configuration view.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	settings *domain.AppSettings
	keys     []string
	err      error
	notice   string

	selected int
	editing  bool
	input    textinput.Model

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	in := textinput.New()
	in.CharLimit = 256

	var keys []string
	if settingsService != nil {
		keys = settingsService.Keys()
	}

	return &View{
		styles:          s,
		settingsService: settingsService,
		keys:            keys,
		input:           in,
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

// loadSettings returns a command that loads current settings.
func (v *View) loadSettings() tea.Cmd {
	settingsService := v.settingsService
	return func() tea.Msg {
		if settingsService == nil {
			return messages.SettingsLoaded{Err: ErrNoSettingsService}
		}
		settings, err := settingsService.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// saveValue returns a command that stores value under key.
func (v *View) saveValue(key, value string) tea.Cmd {
	settingsService := v.settingsService
	return func() tea.Msg {
		if settingsService == nil {
			return messages.SettingsSaved{Key: key, Err: ErrNoSettingsService}
		}
		return messages.SettingsSaved{Key: key, Err: settingsService.SetValue(key, value)}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.err = nil
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			v.notice = ""
			return v, nil
		}
		v.err = nil
		v.notice = fmt.Sprintf("Saved %s", msg.Key)
		return v, v.loadSettings()

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	if v.editing {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.editing {
		switch msg.String() {
		case keyEsc:
			v.editing = false
			v.input.Blur()
			return v, nil
		case keyEnter:
			v.editing = false
			v.input.Blur()
			return v, v.saveValue(v.keys[v.selected], v.input.Value())
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch msg.String() {
	case keyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewBrowse}
		}
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < len(v.keys)-1 {
			v.selected++
		}
	case keyEnter:
		if len(v.keys) == 0 {
			return v, nil
		}
		v.editing = true
		v.notice = ""
		v.input.SetValue(v.value(v.keys[v.selected]))
		v.input.CursorEnd()
		return v, v.input.Focus()
	}
	return v, nil
}

func (v *View) value(key string) string {
	if v.settings == nil {
		return ""
	}
	val, _ := v.settings.Value(key)
	return val
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.settings == nil && v.err == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		b.WriteString("\n")
		return b.String()
	}

	width := 0
	for _, k := range v.keys {
		if len(k) > width {
			width = len(k)
		}
	}

	for i, k := range v.keys {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}

		val := v.value(k)
		if val == "" {
			val = "(default)"
		}
		if v.editing && i == v.selected {
			val = v.input.View()
		}

		line := fmt.Sprintf("%s%-*s  ", indicator, width, k)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString(val)
		if desc := descriptions[k]; desc != "" {
			b.WriteString(v.styles.Muted.Render("  " + desc))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
	} else if v.notice != "" {
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n\n")
	}

	if v.editing {
		b.WriteString(v.styles.Help.Render("[enter] save  [esc] cancel"))
	} else {
		b.WriteString(v.styles.Help.Render("[↑/↓] select  [enter] edit  [esc] back"))
	}
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.input.Width = width / 3
}

// Reset resets the view state.
func (v *View) Reset() {
	v.selected = 0
	v.editing = false
	v.notice = ""
	v.err = nil
	v.input.Blur()
}

// Editing reports whether a value is being edited.
func (v *View) Editing() bool {
	return v.editing
}

// Settings returns the loaded settings.
func (v *View) Settings() *domain.AppSettings {
	return v.settings
}

// SelectedKey returns the key under the cursor.
func (v *View) SelectedKey() string {
	if v.selected < 0 || v.selected >= len(v.keys) {
		return ""
	}
	return v.keys[v.selected]
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
