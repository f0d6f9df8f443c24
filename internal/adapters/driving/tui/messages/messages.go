// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/throughnateseyes/playbook/internal/core/domain"
	"github.com/throughnateseyes/playbook/internal/surface"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewBrowse is the sidebar and SOP list.
	ViewBrowse ViewType = iota
	// ViewResults lists search results for a bare query.
	ViewResults
	// ViewDetail shows one SOP.
	ViewDetail
	// ViewSettings is the settings view.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewBrowse:
		return "browse"
	case ViewResults:
		return "results"
	case ViewDetail:
		return "detail"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Surface names a search surface for settle messages.
type Surface string

// Search surfaces.
const (
	SurfacePalette Surface = "palette"
	SurfaceInline  Surface = "inline"
)

// QuerySettled fires when a surface's debounce interval elapses.
// Token is compared against the surface's latest keystroke.
type QuerySettled struct {
	Surface Surface
	Token   uint64
}

// SettleAfter returns a command that settles token on surface after delay.
func SettleAfter(s Surface, token uint64, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return QuerySettled{Surface: s, Token: token}
	})
}

// OpenSOP navigates to an SOP. A non-empty Query is highlighted in it.
type OpenSOP struct {
	ID    string
	Query string
}

// Back returns to the view that opened the current one.
type Back struct{}

// RunSearch navigates to the results view for a bare query.
type RunSearch struct {
	Query string
}

// Navigate turns a committed surface selection into a navigation command.
func Navigate(sel surface.Selection) tea.Cmd {
	return func() tea.Msg {
		switch sel.Kind {
		case surface.SelectDocument:
			return OpenSOP{ID: sel.DocumentID}
		case surface.SelectSection:
			return OpenSOP{ID: sel.DocumentID, Query: sel.Query}
		default:
			return RunSearch{Query: sel.Query}
		}
	}
}

// SearchCompleted carries search results back to the model.
type SearchCompleted struct {
	Query   string
	Results []domain.SearchResult
	Err     error
}

// ScrollToMatch fires once the highlight delay after opening an SOP has
// passed. Stale tokens are ignored.
type ScrollToMatch struct {
	Token uint64
}

// SOPsChanged signals the collection changed and derived state is stale.
type SOPsChanged struct{}

// SOPsLoaded carries the sidebar data.
type SOPsLoaded struct {
	SOPs       []domain.SOP
	Categories []domain.CategoryCount
	Pinned     []string
	Total      int
	Err        error
}

// SOPLoaded carries one SOP for the detail view.
type SOPLoaded struct {
	SOP   *domain.SOP
	Query string
	Err   error
}

// PinToggled signals an SOP was pinned or unpinned.
type PinToggled struct {
	ID     string
	Pinned bool
	Err    error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals a setting was saved.
type SettingsSaved struct {
	Key string
	Err error
}
