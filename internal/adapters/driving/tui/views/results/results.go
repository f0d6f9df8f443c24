// Package results provides the full results view for a bare query.
package results

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/components/input"
	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/components/list"
	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/components/status"
	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/keymap"
	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/messages"
	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/styles"
	"github.com/throughnateseyes/playbook/internal/core/domain"
	"github.com/throughnateseyes/playbook/internal/core/ports/driving"
)

// ErrNoSearchService indicates that no search service was provided.
var ErrNoSearchService = errors.New("search service is required")

// View lists every result for a query, with an editable query line.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	list      *list.ResultList
	statusbar *status.Bar

	searchService driving.SearchService
	ctx           context.Context

	query      string
	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = editing the query, false = navigating results
}

// NewView creates a new results view.
func NewView(s *styles.Styles, km *keymap.KeyMap, searchService driving.SearchService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	in := input.NewSearchInput(s, "Search: ", "")
	in.Blur()

	return &View{
		styles:        s,
		keymap:        km,
		input:         in,
		list:          list.NewResultList(s),
		statusbar:     status.NewBar(s, km),
		searchService: searchService,
		ctx:           context.Background(),
		width:         80,
		height:        24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Run sets the query and starts a search for it.
func (v *View) Run(query string) tea.Cmd {
	v.query = strings.TrimSpace(query)
	v.input.SetValue(v.query)
	v.input.Blur()
	v.focusInput = false
	v.err = nil
	v.list.SetResults(nil)
	v.statusbar.SetState(status.StateSearching)
	v.statusbar.SetMessage("")
	return v.performSearch(v.query)
}

// performSearch executes a search and returns results.
func (v *View) performSearch(query string) tea.Cmd {
	searchService := v.searchService
	ctx := v.ctx
	return func() tea.Msg {
		if searchService == nil {
			return messages.ErrorOccurred{Err: ErrNoSearchService}
		}

		results, err := searchService.Search(ctx, query, domain.SearchOptions{})
		return messages.SearchCompleted{Query: query, Results: results, Err: err}
	}
}

// Update handles messages for the results view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.SOPsChanged:
		if v.query == "" {
			return v, nil
		}
		return v, v.performSearch(v.query)

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	if v.focusInput {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.focusInput {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyEnter:
			query := strings.TrimSpace(v.input.Value())
			if query == "" {
				return v, nil
			}
			return v, v.Run(query)
		case tea.KeyEsc:
			v.focusInput = false
			v.input.Blur()
			v.input.SetValue(v.query)
			return v, nil
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewBrowse}
		}
	}

	if msg.Type == tea.KeyEnter {
		result := v.list.SelectedResult()
		if result == nil {
			return v, nil
		}
		open := messages.OpenSOP{ID: result.Entry.DocumentID}
		if !result.Entry.IsDocument() {
			open.Query = v.query
		}
		return v, func() tea.Msg { return open }
	}

	switch {
	case keymap.Matches(msg.String(), v.keymap.Up):
		v.list.MoveUp()
	case keymap.Matches(msg.String(), v.keymap.Down):
		v.list.MoveDown()
	case keymap.Matches(msg.String(), v.keymap.Search):
		v.focusInput = true
		return v, v.input.Focus()
	}
	return v, nil
}

func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Query != v.query {
		return
	}
	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	v.err = nil
	v.list.SetResults(msg.Results)
	v.statusbar.SetMessage("")
	v.statusbar.SetResultCount(len(msg.Results))
	if len(msg.Results) == 0 {
		v.statusbar.SetState(status.StateNoResults)
	} else {
		v.statusbar.SetState(status.StateResults)
	}
}

// View renders the results view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{v.styles.Title.Render("Results"), "", v.input.View(), ""}

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	if v.list.IsEmpty() && v.statusbar.State() == status.StateNoResults {
		sections = append(sections, v.styles.Muted.Render("No SOP titles or sections contain \""+v.query+"\""))
	} else {
		sections = append(sections, v.list.View())
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-8)
	v.statusbar.SetWidth(width)
}

// Query returns the query the results belong to.
func (v *View) Query() string {
	return v.query
}

// Results returns the current results.
func (v *View) Results() []domain.SearchResult {
	return v.list.Results()
}

// SelectedIndex returns the index of the selected result.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// InputFocused returns whether the query input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}
