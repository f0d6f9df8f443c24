package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/throughnateseyes/playbook/internal/core/domain"
)

func TestSOPStore_EmptyWorkspace(t *testing.T) {
	store := NewSOPStore()

	sops, err := store.ListSOPs(context.Background(), "default")
	require.NoError(t, err)
	assert.NotNil(t, sops)
	assert.Empty(t, sops)
}

func TestSOPStore_SaveKeepsOrder(t *testing.T) {
	store := NewSOPStore()
	ctx := context.Background()

	require.NoError(t, store.SaveSOP(ctx, "default", &domain.SOP{ID: "1", Title: "First"}))
	require.NoError(t, store.SaveSOP(ctx, "default", &domain.SOP{ID: "2", Title: "Second"}))
	require.NoError(t, store.SaveSOP(ctx, "default", &domain.SOP{ID: "1", Title: "First, revised"}))

	sops, err := store.ListSOPs(ctx, "default")
	require.NoError(t, err)
	require.Len(t, sops, 2)
	assert.Equal(t, "First, revised", sops[0].Title)
	assert.Equal(t, "Second", sops[1].Title)
}

func TestSOPStore_SaveNil(t *testing.T) {
	store := NewSOPStore()
	err := store.SaveSOP(context.Background(), "default", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSOPStore_WorkspacesAreIsolated(t *testing.T) {
	store := NewSOPStore()
	ctx := context.Background()

	require.NoError(t, store.SaveSOP(ctx, "a", &domain.SOP{ID: "1"}))

	sops, err := store.ListSOPs(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, sops)
}

func TestSOPStore_Delete(t *testing.T) {
	store := NewSOPStore()
	ctx := context.Background()

	require.NoError(t, store.ReplaceAll(ctx, "default", []domain.SOP{{ID: "1"}, {ID: "2"}, {ID: "3"}}))
	require.NoError(t, store.DeleteSOP(ctx, "default", "2"))
	require.NoError(t, store.DeleteSOP(ctx, "default", "missing"))

	sops, err := store.ListSOPs(ctx, "default")
	require.NoError(t, err)
	require.Len(t, sops, 2)
	assert.Equal(t, "1", sops[0].ID)
	assert.Equal(t, "3", sops[1].ID)
}

func TestSOPStore_ListReturnsCopy(t *testing.T) {
	store := NewSOPStore()
	ctx := context.Background()
	require.NoError(t, store.SaveSOP(ctx, "default", &domain.SOP{ID: "1", Title: "Original"}))

	sops, err := store.ListSOPs(ctx, "default")
	require.NoError(t, err)
	sops[0].Title = "Mutated"

	again, err := store.ListSOPs(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, "Original", again[0].Title)
}

func TestSOPStore_NestedSlicesAreCopied(t *testing.T) {
	store := NewSOPStore()
	ctx := context.Background()
	sop := &domain.SOP{ID: "1", Steps: []domain.Step{{Text: "Original"}}, Tags: []string{"a"}}
	require.NoError(t, store.SaveSOP(ctx, "default", sop))

	sop.Steps[0].Text = "Mutated after save"
	sops, err := store.ListSOPs(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, "Original", sops[0].Steps[0].Text)

	sops[0].Tags[0] = "b"
	again, err := store.ListSOPs(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, again[0].Tags)
}

func TestSOPStore_ConcurrentSaves(t *testing.T) {
	store := NewSOPStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.SaveSOP(ctx, "default", &domain.SOP{ID: string(rune('a' + n%26)) + string(rune('A'+n/26))})
		}(i)
	}
	wg.Wait()

	sops, err := store.ListSOPs(ctx, "default")
	require.NoError(t, err)
	assert.Len(t, sops, 50)
}
