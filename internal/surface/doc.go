// Package surface implements the interaction contract shared by every
// search surface: the modal palette and the inline dropdown.
//
// Model is a plain state machine with no timers. Raw keystrokes update the
// immediate query; only a settled query, applied through Settle with the
// token returned by Type, reaches the matcher. Callers pick their own clock:
// the TUI settles on a tea.Tick message. Debouncer is the timer-driven
// form for callers outside an event loop, such as the file watcher.
package surface
