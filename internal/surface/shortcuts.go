package surface

// Palette shortcuts.
const (
	KeyPalette      = "ctrl+k"
	KeyPaletteSlash = "/"
)

// OpensPalette reports whether key opens the palette. "/" only counts when
// focus is not inside a text input, where it is an ordinary character.
func OpensPalette(key string, focusInTextInput bool) bool {
	switch key {
	case KeyPalette:
		return true
	case KeyPaletteSlash:
		return !focusInTextInput
	default:
		return false
	}
}

// MatchCursor cycles through highlighted matches in a detail view.
type MatchCursor struct {
	total   int
	current int
}

// Reset sets the match count and selects the first match.
func (c *MatchCursor) Reset(total int) {
	if total < 0 {
		total = 0
	}
	c.total = total
	c.current = 0
}

// Next selects the following match, wrapping to the first.
func (c *MatchCursor) Next() int {
	if c.total == 0 {
		return -1
	}
	c.current = (c.current + 1) % c.total
	return c.current
}

// Prev selects the previous match, wrapping to the last.
func (c *MatchCursor) Prev() int {
	if c.total == 0 {
		return -1
	}
	c.current = (c.current - 1 + c.total) % c.total
	return c.current
}

// Current returns the selected match, or -1 when there are none.
func (c *MatchCursor) Current() int {
	if c.total == 0 {
		return -1
	}
	return c.current
}

// Total returns the number of matches.
func (c *MatchCursor) Total() int {
	return c.total
}
