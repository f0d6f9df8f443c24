package domain

import (
	"strconv"
	"time"
)

const unknownDescription = "Unknown"

// StorageBackend selects where SOPs are persisted.
type StorageBackend string

// Available storage backends.
const (
	// StorageSQLite persists SOPs in a local SQLite database.
	StorageSQLite StorageBackend = "sqlite"

	// StorageMemory keeps SOPs for the lifetime of the process only.
	StorageMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageSQLite, StorageMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StorageBackend) Description() string {
	switch b {
	case StorageSQLite:
		return "SQLite (persistent)"
	case StorageMemory:
		return "Memory (session only)"
	default:
		return unknownDescription
	}
}

// StorageSettings holds persistence configuration.
type StorageSettings struct {
	// Backend is the storage implementation.
	Backend StorageBackend

	// DataDir is where the database lives. Empty means ~/.playbook/data.
	DataDir string
}

// SearchSettings holds interactive search timing.
type SearchSettings struct {
	// PaletteDebounce is the quiet interval before the palette re-queries.
	PaletteDebounce time.Duration

	// InlineDebounce is the quiet interval before the inline dropdown re-queries.
	InlineDebounce time.Duration

	// HighlightDelay is how long the detail view waits after a section
	// navigation before scrolling to the first match.
	HighlightDelay time.Duration

	// ScrollOffset is the number of lines kept above the first match.
	ScrollOffset int
}

// PermissionSettings gates write affordances.
type PermissionSettings struct {
	// CanCreateSOP enables the "new SOP" affordance.
	CanCreateSOP bool
}

// AppSettings holds all user-configurable settings.
type AppSettings struct {
	Workspace   string
	Storage     StorageSettings
	Search      SearchSettings
	Permissions PermissionSettings
}

// Setting keys as stored in the config file.
const (
	SettingWorkspace       = "workspace"
	SettingStorageBackend  = "storage.backend"
	SettingStorageDataDir  = "storage.data_dir"
	SettingPaletteDebounce = "search.palette_debounce_ms"
	SettingInlineDebounce  = "search.inline_debounce_ms"
	SettingHighlightDelay  = "search.highlight_delay_ms"
	SettingScrollOffset    = "search.scroll_offset"
	SettingCanCreateSOP    = "permissions.can_create_sop"
	SettingPinned          = "sidebar.pinned"
)

// Value returns the value of key in the form accepted when setting it.
func (s *AppSettings) Value(key string) (string, bool) {
	switch key {
	case SettingWorkspace:
		return s.Workspace, true
	case SettingStorageBackend:
		return s.Storage.Backend.String(), true
	case SettingStorageDataDir:
		return s.Storage.DataDir, true
	case SettingPaletteDebounce:
		return strconv.FormatInt(s.Search.PaletteDebounce.Milliseconds(), 10), true
	case SettingInlineDebounce:
		return strconv.FormatInt(s.Search.InlineDebounce.Milliseconds(), 10), true
	case SettingHighlightDelay:
		return strconv.FormatInt(s.Search.HighlightDelay.Milliseconds(), 10), true
	case SettingScrollOffset:
		return strconv.Itoa(s.Search.ScrollOffset), true
	case SettingCanCreateSOP:
		return strconv.FormatBool(s.Permissions.CanCreateSOP), true
	default:
		return "", false
	}
}

// DefaultWorkspace is used when no workspace is configured.
const DefaultWorkspace = "default"

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Workspace: DefaultWorkspace,
		Storage: StorageSettings{
			Backend: StorageSQLite,
		},
		Search: SearchSettings{
			PaletteDebounce: 150 * time.Millisecond,
			InlineDebounce:  200 * time.Millisecond,
			HighlightDelay:  280 * time.Millisecond,
			ScrollOffset:    3,
		},
		Permissions: PermissionSettings{
			CanCreateSOP: true,
		},
	}
}

// WorkspaceKey returns the storage key for a workspace's SOP collection.
func WorkspaceKey(workspace string) string {
	if workspace == "" {
		workspace = DefaultWorkspace
	}
	return "playbook_sops_" + workspace
}
