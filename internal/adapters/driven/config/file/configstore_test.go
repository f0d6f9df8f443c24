package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "playbook")

	_, err := NewConfigStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	_, err := NewConfigStore(filepath.Join(blocker, "sub"))
	assert.Error(t, err)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("workspace = [unclosed"), 0600))

	_, err := NewConfigStore(tmpDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config.toml")
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("workspace", "north"))
	require.NoError(t, store.Set("search.scroll_offset", 3))
	require.NoError(t, store.Set("permissions.can_create_sop", true))
	require.NoError(t, store.Set("sidebar.pinned", []string{"1", "4"}))

	assert.Equal(t, "north", store.GetString("workspace"))
	assert.Equal(t, 3, store.GetInt("search.scroll_offset"))
	assert.True(t, store.GetBool("permissions.can_create_sop"))
	assert.Equal(t, []string{"1", "4"}, store.GetStringSlice("sidebar.pinned"))

	assert.Empty(t, store.GetString("missing"))
	assert.Zero(t, store.GetInt("workspace"))
	assert.False(t, store.GetBool("workspace"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_PersistenceUsesNestedTables(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("workspace", "south"))
	require.NoError(t, store.Set("search.palette_debounce_ms", int64(150)))
	require.NoError(t, store.Set("search.scroll_offset", 3))
	require.NoError(t, store.Set("sidebar.pinned", []string{"2"}))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[search]")
	assert.NotContains(t, string(raw), "'search.scroll_offset'")

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "south", reopened.GetString("workspace"))
	assert.Equal(t, 150, reopened.GetInt("search.palette_debounce_ms"))
	assert.Equal(t, 3, reopened.GetInt("search.scroll_offset"))
	assert.Equal(t, []string{"2"}, reopened.GetStringSlice("sidebar.pinned"))
}

func TestConfigStore_ReadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
workspace = "east"

[storage]
backend = "memory"

[search]
highlight_delay_ms = 400
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "east", store.GetString("workspace"))
	assert.Equal(t, "memory", store.GetString("storage.backend"))
	assert.Equal(t, 400, store.GetInt("search.highlight_delay_ms"))
}

func TestConfigStore_Load_NonExistent(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Load())
	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), nil, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	_, ok := store.Get("workspace")
	assert.False(t, ok)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("workspace", "x"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_SaveLeavesNoTempFiles(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("workspace", "x"))
	require.NoError(t, store.Save())

	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "config.toml", entries[0].Name())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set(fmt.Sprintf("bench.key_%d", n), n)
		}(i)
		go func(n int) {
			defer wg.Done()
			_ = store.GetInt(fmt.Sprintf("bench.key_%d", n))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 9, store.GetInt("bench.key_9"))
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"workspace":         "default",
		"search.scroll":     3,
		"search.deep.value": true,
		"a":                 1,
		"a.b":               2,
	})

	assert.Equal(t, "default", nested["workspace"])
	assert.Equal(t, 1, nested["a"])
	search, ok := nested["search"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 3, search["scroll"])
	deep, ok := search["deep"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, deep["value"])

	assert.Equal(t, flattenMap(map[string]any{"search": search}, ""), map[string]any{
		"search.scroll":     3,
		"search.deep.value": true,
	})
}
