// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/throughnateseyes/playbook/internal/core/domain"
)

// Theme defines the colour palette and styling for the TUI.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Secondary is the secondary accent colour.
	Secondary lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Highlight marks matched query text.
	Highlight lipgloss.Color

	// Success indicates positive outcomes.
	Success lipgloss.Color

	// Warning indicates caution.
	Warning lipgloss.Color

	// Error indicates problems.
	Error lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color

	// Categories maps each known category to its badge colour.
	Categories map[domain.Category]lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#2563EB"), // Blue
		Secondary:  lipgloss.Color("#0EA5E9"), // Sky
		Foreground: lipgloss.Color("#E2E8F0"), // Slate 200
		Muted:      lipgloss.Color("#64748B"), // Slate 500
		Highlight:  lipgloss.Color("#FDE047"), // Yellow 300
		Success:    lipgloss.Color("#22C55E"),
		Warning:    lipgloss.Color("#F59E0B"),
		Error:      lipgloss.Color("#EF4444"),
		Border:     lipgloss.Color("#334155"),
		Categories: map[domain.Category]lipgloss.Color{
			domain.CategoryOperations:      lipgloss.Color("#F97316"),
			domain.CategoryResidentSupport: lipgloss.Color("#14B8A6"),
			domain.CategoryFinance:         lipgloss.Color("#A855F7"),
			domain.CategoryLeasing:         lipgloss.Color("#3B82F6"),
		},
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	// Title style for headers.
	Title lipgloss.Style

	// Subtitle style for secondary headers.
	Subtitle lipgloss.Style

	// Normal style for regular text.
	Normal lipgloss.Style

	// Muted style for less important text.
	Muted lipgloss.Style

	// Selected style for highlighted items.
	Selected lipgloss.Style

	// Match style for query matches inside text.
	Match lipgloss.Style

	// ActiveMatch style for the match the cursor is on.
	ActiveMatch lipgloss.Style

	// Error style for error messages.
	Error lipgloss.Style

	// Success style for success messages.
	Success lipgloss.Style

	// Warning style for warning messages.
	Warning lipgloss.Style

	// InputField style for input areas.
	InputField lipgloss.Style

	// Script style for verbatim step scripts.
	Script lipgloss.Style

	// StatusBar style for the status bar.
	StatusBar lipgloss.Style

	// Help style for help text.
	Help lipgloss.Style

	// Border style for bordered containers.
	Border lipgloss.Style

	// Palette style for the modal palette box.
	Palette lipgloss.Style

	// Sidebar style for the category column.
	Sidebar lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Primary),

		Match: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Highlight),

		ActiveMatch: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#000000")).
			Background(theme.Highlight),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		Script: lipgloss.NewStyle().
			Foreground(theme.Secondary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(theme.Border).
			PaddingLeft(1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(lipgloss.Color("#0F172A")).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),

		Palette: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Primary).
			Padding(0, 1),

		Sidebar: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(theme.Border).
			PaddingRight(1),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Category renders a category badge in its colour. Unknown categories
// use the muted colour.
func (s *Styles) Category(c domain.Category) string {
	colour, ok := s.theme.Categories[c]
	if !ok {
		colour = s.theme.Muted
	}
	return lipgloss.NewStyle().Foreground(colour).Render(c.String())
}

// Segments renders highlighted text. active is the index among matching
// segments to render with ActiveMatch, or -1 for none.
func (s *Styles) Segments(segments []domain.Segment, base lipgloss.Style, active int) string {
	out := ""
	matchIdx := 0
	for _, seg := range segments {
		switch {
		case !seg.IsMatch:
			out += base.Render(seg.Text)
		case matchIdx == active:
			out += s.ActiveMatch.Render(seg.Text)
			matchIdx++
		default:
			out += s.Match.Render(seg.Text)
			matchIdx++
		}
	}
	return out
}
