package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/throughnateseyes/playbook/internal/adapters/driven/storage/memory"
	"github.com/throughnateseyes/playbook/internal/core/domain"
)

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings, err := service.Get()
	require.NoError(t, err)

	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Workspace, settings.Workspace)
	assert.Equal(t, defaults.Storage.Backend, settings.Storage.Backend)
	assert.Equal(t, 150*time.Millisecond, settings.Search.PaletteDebounce)
	assert.Equal(t, 200*time.Millisecond, settings.Search.InlineDebounce)
	assert.Equal(t, 280*time.Millisecond, settings.Search.HighlightDelay)
	assert.Equal(t, defaults.Search.ScrollOffset, settings.Search.ScrollOffset)
	assert.True(t, settings.Permissions.CanCreateSOP)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("workspace", "north-tower")
	_ = store.Set("storage.backend", "memory")
	_ = store.Set("search.palette_debounce_ms", int64(50))
	_ = store.Set("search.scroll_offset", 0)
	_ = store.Set("permissions.can_create_sop", false)

	settings, err := NewSettingsService(store).Get()
	require.NoError(t, err)

	assert.Equal(t, "north-tower", settings.Workspace)
	assert.Equal(t, domain.StorageMemory, settings.Storage.Backend)
	assert.Equal(t, 50*time.Millisecond, settings.Search.PaletteDebounce)
	assert.Equal(t, 0, settings.Search.ScrollOffset)
	assert.False(t, settings.Permissions.CanCreateSOP)
}

func TestSettingsService_Get_InvalidBackendFallsBack(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("storage.backend", "postgres")

	settings, err := NewSettingsService(store).Get()
	require.NoError(t, err)
	assert.Equal(t, domain.StorageSQLite, settings.Storage.Backend)
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings := domain.DefaultAppSettings()
	settings.Workspace = "south"
	settings.Storage.DataDir = "/var/lib/playbook"
	settings.Search.HighlightDelay = 400 * time.Millisecond
	settings.Permissions.CanCreateSOP = false
	require.NoError(t, service.Save(&settings))

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, *got)
}

func TestSettingsService_SetValue(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
		check   func(t *testing.T, s *domain.AppSettings)
	}{
		{key: "workspace", value: " east ", check: func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, "east", s.Workspace)
		}},
		{key: "workspace", value: "  ", wantErr: true},
		{key: "storage.backend", value: "memory", check: func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, domain.StorageMemory, s.Storage.Backend)
		}},
		{key: "storage.backend", value: "mysql", wantErr: true},
		{key: "search.palette_debounce_ms", value: "90", check: func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, 90*time.Millisecond, s.Search.PaletteDebounce)
		}},
		{key: "search.scroll_offset", value: "-1", wantErr: true},
		{key: "search.inline_debounce_ms", value: "soon", wantErr: true},
		{key: "permissions.can_create_sop", value: "false", check: func(t *testing.T, s *domain.AppSettings) {
			assert.False(t, s.Permissions.CanCreateSOP)
		}},
		{key: "permissions.can_create_sop", value: "maybe", wantErr: true},
		{key: "unknown.key", value: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			service := NewSettingsService(memory.NewConfigStore())

			err := service.SetValue(tt.key, tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)

			settings, err := service.Get()
			require.NoError(t, err)
			tt.check(t, settings)
		})
	}
}

func TestSettingsService_Keys(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	for _, key := range service.Keys() {
		assert.NotEqual(t, "sidebar.pinned", key)
	}
	assert.Contains(t, service.Keys(), "permissions.can_create_sop")
}

func TestSettingsService_TogglePin(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())
	assert.Empty(t, service.Pinned())

	pinned, err := service.TogglePin("1")
	require.NoError(t, err)
	assert.True(t, pinned)

	pinned, err = service.TogglePin("4")
	require.NoError(t, err)
	assert.True(t, pinned)
	assert.Equal(t, []string{"1", "4"}, service.Pinned())

	pinned, err = service.TogglePin("1")
	require.NoError(t, err)
	assert.False(t, pinned)
	assert.Equal(t, []string{"4"}, service.Pinned())
}
