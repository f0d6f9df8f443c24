package driving

import "github.com/throughnateseyes/playbook/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetValue updates one setting by its config key.
	// Returns domain.ErrInvalidInput for unknown keys or bad values.
	SetValue(key, value string) error

	// Keys returns the supported config keys in display order.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// Pinned returns the pinned SOP IDs.
	Pinned() []string

	// TogglePin pins or unpins an SOP and reports whether it is now pinned.
	TogglePin(id string) (bool, error)
}
