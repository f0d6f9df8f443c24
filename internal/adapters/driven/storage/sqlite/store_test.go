package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/throughnateseyes/playbook/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "playbook-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

func testSOP(id, title string) domain.SOP {
	return domain.SOP{
		ID:       id,
		Title:    title,
		Category: domain.CategoryOperations,
		Overview: "Overview of " + title,
		Steps:    []domain.Step{{Text: "Do the thing", Title: "First"}},
		Contacts: []domain.Contact{{Name: "Tom Wilson", Role: "Maintenance Supervisor"}},
		Tags:     []string{"urgent"},
	}
}

// ==================== Store Creation and Initialization Tests ====================

func TestNewStore_CreatesDatabase(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	assert.Equal(t, dbFileName, filepath.Base(store.Path()))
	_, err := os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_RecordsMigrations(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	version, err := store.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	tempDir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	sop := testSOP("1", "Emergency Maintenance Request")
	require.NoError(t, store.SOPStore().SaveSOP(ctx, "default", &sop))
	require.NoError(t, store.Close())

	reopened, err := NewStore(tempDir)
	require.NoError(t, err)
	defer reopened.Close()

	sops, err := reopened.SOPStore().ListSOPs(ctx, "default")
	require.NoError(t, err)
	require.Len(t, sops, 1)
	assert.Equal(t, sop, sops[0])
}

// ==================== SOP Store Tests ====================

func TestSOPStore_ListEmpty(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	sops, err := store.SOPStore().ListSOPs(context.Background(), "default")
	require.NoError(t, err)
	assert.NotNil(t, sops)
	assert.Empty(t, sops)
}

func TestSOPStore_SaveUpsertKeepsPosition(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	sopStore := store.SOPStore()

	first := testSOP("1", "First")
	second := testSOP("2", "Second")
	require.NoError(t, sopStore.SaveSOP(ctx, "default", &first))
	require.NoError(t, sopStore.SaveSOP(ctx, "default", &second))

	first.Title = "First, revised"
	require.NoError(t, sopStore.SaveSOP(ctx, "default", &first))

	sops, err := sopStore.ListSOPs(ctx, "default")
	require.NoError(t, err)
	require.Len(t, sops, 2)
	assert.Equal(t, "First, revised", sops[0].Title)
	assert.Equal(t, "Second", sops[1].Title)
}

func TestSOPStore_SaveNil(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.SOPStore().SaveSOP(context.Background(), "default", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSOPStore_WorkspacesAreIsolated(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	sopStore := store.SOPStore()

	sop := testSOP("1", "Shared ID")
	require.NoError(t, sopStore.SaveSOP(ctx, "north", &sop))
	sop.Title = "Other workspace"
	require.NoError(t, sopStore.SaveSOP(ctx, "south", &sop))

	north, err := sopStore.ListSOPs(ctx, "north")
	require.NoError(t, err)
	require.Len(t, north, 1)
	assert.Equal(t, "Shared ID", north[0].Title)

	south, err := sopStore.ListSOPs(ctx, "south")
	require.NoError(t, err)
	require.Len(t, south, 1)
	assert.Equal(t, "Other workspace", south[0].Title)
}

func TestSOPStore_Delete(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	sopStore := store.SOPStore()

	require.NoError(t, sopStore.ReplaceAll(ctx, "default", []domain.SOP{
		testSOP("1", "One"), testSOP("2", "Two"), testSOP("3", "Three"),
	}))
	require.NoError(t, sopStore.DeleteSOP(ctx, "default", "2"))
	require.NoError(t, sopStore.DeleteSOP(ctx, "default", "missing"))

	sops, err := sopStore.ListSOPs(ctx, "default")
	require.NoError(t, err)
	require.Len(t, sops, 2)
	assert.Equal(t, "1", sops[0].ID)
	assert.Equal(t, "3", sops[1].ID)
}

func TestSOPStore_ReplaceAll(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	sopStore := store.SOPStore()

	require.NoError(t, sopStore.ReplaceAll(ctx, "default", []domain.SOP{testSOP("old", "Old")}))
	require.NoError(t, sopStore.ReplaceAll(ctx, "default", []domain.SOP{
		testSOP("b", "B"), testSOP("a", "A"),
	}))

	sops, err := sopStore.ListSOPs(ctx, "default")
	require.NoError(t, err)
	require.Len(t, sops, 2)
	assert.Equal(t, "b", sops[0].ID)
	assert.Equal(t, "a", sops[1].ID)

	// Appending after a replace continues from the last position.
	c := testSOP("c", "C")
	require.NoError(t, sopStore.SaveSOP(ctx, "default", &c))
	sops, err = sopStore.ListSOPs(ctx, "default")
	require.NoError(t, err)
	require.Len(t, sops, 3)
	assert.Equal(t, "c", sops[2].ID)
}

func TestSOPStore_ReplaceAllDuplicateIDs(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	sopStore := store.SOPStore()

	require.NoError(t, sopStore.ReplaceAll(ctx, "default", []domain.SOP{
		testSOP("1", "First"), testSOP("1", "Duplicate"),
	}))

	sops, err := sopStore.ListSOPs(ctx, "default")
	require.NoError(t, err)
	require.Len(t, sops, 1)
	assert.Equal(t, "Duplicate", sops[0].Title)
}

func TestSOPStore_ClosedDatabase(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	sopStore := store.SOPStore()
	require.NoError(t, store.Close())

	_, err = sopStore.ListSOPs(context.Background(), "default")
	assert.ErrorIs(t, err, domain.ErrStorage)

	sop := testSOP("1", "x")
	err = sopStore.SaveSOP(context.Background(), "default", &sop)
	assert.ErrorIs(t, err, domain.ErrStorage)
}
