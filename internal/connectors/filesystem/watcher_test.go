package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/throughnateseyes/playbook/internal/core/domain"
	"github.com/throughnateseyes/playbook/internal/normalisers/sop"
)

const testDebounce = 20 * time.Millisecond

func nextChange(t *testing.T, changes <-chan domain.RawDocumentChange) domain.RawDocumentChange {
	t.Helper()
	select {
	case change, ok := <-changes:
		require.True(t, ok, "channel closed")
		return change
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for file change event")
	}
	return domain.RawDocumentChange{}
}

func expectNoChange(t *testing.T, changes <-chan domain.RawDocumentChange) {
	t.Helper()
	select {
	case change := <-changes:
		t.Fatalf("unexpected change %s for %s", change.Type, change.Document.URI)
	case <-time.After(10 * testDebounce):
	}
}

func TestWatcher_ReportsCreatedFile(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	watcher := NewWatcher(NewLoader(root, sop.New()), testDebounce)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := watcher.Watch(ctx)
	require.NoError(t, err)

	writeFile(t, filepath.Join(root, "new.json"), `[{"id":"1"}]`)

	change := nextChange(t, changes)
	assert.Equal(t, domain.ChangeCreated, change.Type)
	assert.Contains(t, change.Document.URI, "new.json")
	assert.NotZero(t, change.Document.Hash)

	cancel()
	for range changes {
	}
}

func TestWatcher_ReportsModifiedFileOnce(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	path := filepath.Join(root, "ops.json")
	writeFile(t, path, `[{"id":"1","title":"Before"}]`)

	watcher := NewWatcher(NewLoader(root, sop.New()), testDebounce)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := watcher.Watch(ctx)
	require.NoError(t, err)

	// A burst of writes collapses into one change.
	for i := 0; i < 5; i++ {
		writeFile(t, path, `[{"id":"1","title":"After"}]`)
	}

	change := nextChange(t, changes)
	assert.Equal(t, domain.ChangeUpdated, change.Type)
	assert.Contains(t, string(change.Document.Content), "After")
	expectNoChange(t, changes)

	cancel()
	for range changes {
	}
}

func TestWatcher_SkipsUnchangedContent(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	path := filepath.Join(root, "ops.json")
	writeFile(t, path, `[{"id":"1"}]`)

	watcher := NewWatcher(NewLoader(root, sop.New()), testDebounce)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := watcher.Watch(ctx)
	require.NoError(t, err)

	writeFile(t, path, `[{"id":"1"}]`)
	expectNoChange(t, changes)

	cancel()
	for range changes {
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	watcher := NewWatcher(NewLoader(root, sop.New()), testDebounce)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := watcher.Watch(ctx)
	require.NoError(t, err)

	writeFile(t, filepath.Join(root, "notes.txt"), "hello")
	expectNoChange(t, changes)

	cancel()
	for range changes {
	}
}

func TestWatcher_ReportsDeletion(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	path := filepath.Join(root, "gone.json")
	writeFile(t, path, `[]`)

	watcher := NewWatcher(NewLoader(root, sop.New()), testDebounce)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := watcher.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))

	change := nextChange(t, changes)
	assert.Equal(t, domain.ChangeDeleted, change.Type)
	assert.Contains(t, change.Document.URI, "gone.json")

	cancel()
	for range changes {
	}
}

func TestWatcher_WatchesNewSubdirectories(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	watcher := NewWatcher(NewLoader(root, sop.New()), testDebounce)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := watcher.Watch(ctx)
	require.NoError(t, err)

	sub := filepath.Join(root, "finance")
	require.NoError(t, os.Mkdir(sub, 0o755))
	time.Sleep(5 * testDebounce)
	writeFile(t, filepath.Join(sub, "fees.json"), `[]`)

	change := nextChange(t, changes)
	assert.Equal(t, domain.ChangeCreated, change.Type)
	assert.Contains(t, change.Document.URI, "finance/fees.json")

	cancel()
	for range changes {
	}
}

func TestWatcher_Errors(t *testing.T) {
	defer goleak.VerifyNone(t)

	t.Run("missing root", func(t *testing.T) {
		changes, err := NewWatcher(NewLoader("/non/existent/path", sop.New()), 0).Watch(context.Background())
		assert.Nil(t, changes)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "root path error")
	})

	t.Run("closed", func(t *testing.T) {
		watcher := NewWatcher(NewLoader(t.TempDir(), sop.New()), 0)
		require.NoError(t, watcher.Close())
		require.NoError(t, watcher.Close())

		changes, err := watcher.Watch(context.Background())
		assert.Nil(t, changes)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "closed")
	})
}

func TestWatcher_CloseEndsChannel(t *testing.T) {
	defer goleak.VerifyNone(t)

	watcher := NewWatcher(NewLoader(t.TempDir(), sop.New()), testDebounce)
	changes, err := watcher.Watch(context.Background())
	require.NoError(t, err)

	require.NoError(t, watcher.Close())

	select {
	case _, ok := <-changes:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel did not close after Close")
	}
}

// recordingImporter collects imported SOPs.
type recordingImporter struct {
	mu   sync.Mutex
	sops []domain.SOP
	done chan struct{}
}

func (r *recordingImporter) Import(_ context.Context, sops []domain.SOP) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sops = append(r.sops, sops...)
	close(r.done)
	return len(sops), nil
}

func TestWatcher_Sync(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	watcher := NewWatcher(NewLoader(root, sop.New()), testDebounce)
	importer := &recordingImporter{done: make(chan struct{})}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- watcher.Sync(ctx, importer) }()

	// Give the watcher time to register before writing.
	time.Sleep(5 * testDebounce)
	writeFile(t, filepath.Join(root, "import.json"), `[{"id":"42","title":"Snow Removal","steps":["Salt the walkways"]}]`)

	select {
	case <-importer.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for import")
	}

	cancel()
	require.NoError(t, <-errCh)

	importer.mu.Lock()
	defer importer.mu.Unlock()
	require.Len(t, importer.sops, 1)
	assert.Equal(t, "42", importer.sops[0].ID)
	assert.Equal(t, "Salt the walkways", importer.sops[0].Steps[0].Text)
}

func TestWatcher_BurstAcrossFilesFlushesInPathOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	watcher := NewWatcher(NewLoader(root, sop.New()), 100*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := watcher.Watch(ctx)
	require.NoError(t, err)

	writeFile(t, filepath.Join(root, "b.json"), `[{"id":"b"}]`)
	writeFile(t, filepath.Join(root, "a.json"), `[{"id":"a"}]`)

	first := nextChange(t, changes)
	second := nextChange(t, changes)
	assert.Contains(t, first.Document.URI, "a.json")
	assert.Contains(t, second.Document.URI, "b.json")

	cancel()
	for range changes {
	}
}

func TestWatcher_CancelDuringQuietPeriod(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	watcher := NewWatcher(NewLoader(root, sop.New()), time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	changes, err := watcher.Watch(ctx)
	require.NoError(t, err)

	writeFile(t, filepath.Join(root, "pending.json"), `[{"id":"1"}]`)
	time.Sleep(50 * time.Millisecond)
	cancel()

	for change := range changes {
		t.Fatalf("unexpected change %s", change.Type)
	}
}
