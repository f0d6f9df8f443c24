package surface

// FocusRing traps Tab inside an open surface: focus cycles through the
// surface's own elements and never leaves them.
type FocusRing struct {
	items   []string
	current int
}

// NewFocusRing creates a ring over the named elements, focused on the first.
func NewFocusRing(items ...string) *FocusRing {
	return &FocusRing{items: items}
}

// Current returns the focused element, or "" for an empty ring.
func (f *FocusRing) Current() string {
	if len(f.items) == 0 {
		return ""
	}
	return f.items[f.current]
}

// Next moves focus forward, wrapping from last to first.
func (f *FocusRing) Next() string {
	if len(f.items) == 0 {
		return ""
	}
	f.current = (f.current + 1) % len(f.items)
	return f.items[f.current]
}

// Prev moves focus backward, wrapping from first to last.
func (f *FocusRing) Prev() string {
	if len(f.items) == 0 {
		return ""
	}
	f.current = (f.current - 1 + len(f.items)) % len(f.items)
	return f.items[f.current]
}

// Reset focuses the first element.
func (f *FocusRing) Reset() {
	f.current = 0
}

// Is reports whether name has focus.
func (f *FocusRing) Is(name string) bool {
	return f.Current() == name
}
