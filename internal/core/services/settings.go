package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/throughnateseyes/playbook/internal/core/domain"
	"github.com/throughnateseyes/playbook/internal/core/ports/driven"
	"github.com/throughnateseyes/playbook/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyWorkspace       = domain.SettingWorkspace
	keyStorageBackend  = domain.SettingStorageBackend
	keyStorageDataDir  = domain.SettingStorageDataDir
	keyPaletteDebounce = domain.SettingPaletteDebounce
	keyInlineDebounce  = domain.SettingInlineDebounce
	keyHighlightDelay  = domain.SettingHighlightDelay
	keyScrollOffset    = domain.SettingScrollOffset
	keyCanCreateSOP    = domain.SettingCanCreateSOP
	keyPinned          = domain.SettingPinned
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Workspace: s.getString(keyWorkspace, defaults.Workspace),
		Storage: domain.StorageSettings{
			Backend: s.getBackend(defaults.Storage.Backend),
			DataDir: s.configStore.GetString(keyStorageDataDir), // Empty means the store picks its default
		},
		Search: domain.SearchSettings{
			PaletteDebounce: s.getMillis(keyPaletteDebounce, defaults.Search.PaletteDebounce),
			InlineDebounce:  s.getMillis(keyInlineDebounce, defaults.Search.InlineDebounce),
			HighlightDelay:  s.getMillis(keyHighlightDelay, defaults.Search.HighlightDelay),
			ScrollOffset:    s.getInt(keyScrollOffset, defaults.Search.ScrollOffset),
		},
		Permissions: domain.PermissionSettings{
			CanCreateSOP: s.getBool(keyCanCreateSOP, defaults.Permissions.CanCreateSOP),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.configStore.Set(keyWorkspace, settings.Workspace); err != nil {
		return fmt.Errorf("save workspace: %w", err)
	}
	if err := s.configStore.Set(keyStorageBackend, settings.Storage.Backend.String()); err != nil {
		return fmt.Errorf("save storage backend: %w", err)
	}
	if settings.Storage.DataDir != "" {
		if err := s.configStore.Set(keyStorageDataDir, settings.Storage.DataDir); err != nil {
			return fmt.Errorf("save storage data_dir: %w", err)
		}
	}
	if err := s.configStore.Set(keyPaletteDebounce, settings.Search.PaletteDebounce.Milliseconds()); err != nil {
		return fmt.Errorf("save palette debounce: %w", err)
	}
	if err := s.configStore.Set(keyInlineDebounce, settings.Search.InlineDebounce.Milliseconds()); err != nil {
		return fmt.Errorf("save inline debounce: %w", err)
	}
	if err := s.configStore.Set(keyHighlightDelay, settings.Search.HighlightDelay.Milliseconds()); err != nil {
		return fmt.Errorf("save highlight delay: %w", err)
	}
	if err := s.configStore.Set(keyScrollOffset, settings.Search.ScrollOffset); err != nil {
		return fmt.Errorf("save scroll offset: %w", err)
	}
	if err := s.configStore.Set(keyCanCreateSOP, settings.Permissions.CanCreateSOP); err != nil {
		return fmt.Errorf("save can_create_sop: %w", err)
	}

	return nil
}

// Keys returns the supported config keys in display order.
func (s *SettingsService) Keys() []string {
	return []string{
		keyWorkspace,
		keyStorageBackend,
		keyStorageDataDir,
		keyPaletteDebounce,
		keyInlineDebounce,
		keyHighlightDelay,
		keyScrollOffset,
		keyCanCreateSOP,
	}
}

// SetValue parses value for key and stores it.
func (s *SettingsService) SetValue(key, value string) error {
	value = strings.TrimSpace(value)

	switch key {
	case keyWorkspace:
		if value == "" {
			return fmt.Errorf("%w: workspace must not be empty", domain.ErrInvalidInput)
		}
		return s.configStore.Set(key, value)

	case keyStorageBackend:
		backend := domain.StorageBackend(value)
		if !backend.IsValid() {
			return fmt.Errorf("%w: unknown storage backend %q", domain.ErrInvalidInput, value)
		}
		return s.configStore.Set(key, backend.String())

	case keyStorageDataDir:
		return s.configStore.Set(key, value)

	case keyPaletteDebounce, keyInlineDebounce, keyHighlightDelay, keyScrollOffset:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, n)

	case keyCanCreateSOP:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, b)

	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Pinned returns the pinned SOP IDs.
func (s *SettingsService) Pinned() []string {
	return s.configStore.GetStringSlice(keyPinned)
}

// TogglePin pins or unpins an SOP.
func (s *SettingsService) TogglePin(id string) (bool, error) {
	current := s.Pinned()
	next := make([]string, 0, len(current)+1)
	pinned := true
	for _, p := range current {
		if p == id {
			pinned = false
			continue
		}
		next = append(next, p)
	}
	if pinned {
		next = append(next, id)
	}

	if err := s.configStore.Set(keyPinned, next); err != nil {
		return false, fmt.Errorf("save pinned: %w", err)
	}
	return pinned, nil
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getMillis(key string, defaultVal time.Duration) time.Duration {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return time.Duration(s.configStore.GetInt(key)) * time.Millisecond
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	val := s.configStore.GetString(keyStorageBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.StorageBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
