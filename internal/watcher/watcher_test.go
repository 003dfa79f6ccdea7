package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/maharajah/maharajah/internal/chunk"
	"github.com/maharajah/maharajah/internal/embedder"
	"github.com/maharajah/maharajah/internal/hashutil"
	"github.com/maharajah/maharajah/internal/indexer"
	"github.com/maharajah/maharajah/internal/store"
)

const testDim = 16

func newTestIndexer(t *testing.T, rootDir string) (*indexer.Indexer, *store.Store) {
	t.Helper()
	s, err := store.Open(store.Config{Dir: t.TempDir(), ModelID: "test-model", Dimension: testDim})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ix := indexer.New(indexer.Config{
		RootDir:    rootDir,
		Store:      s,
		Registry:   chunk.NewRegistry(),
		Provider:   embedder.NewWordVectorProvider(testDim),
		Extensions: []string{".go"},
	})
	t.Cleanup(ix.Close)
	return ix, s
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestWatcher_WriteTriggersDebouncedReindex(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "main.go")
	initial := []byte("package main\n\nfunc main() {}\n")
	require.NoError(t, os.WriteFile(path, initial, 0o644))

	ix, s := newTestIndexer(t, root)
	_, err := ix.Index(context.Background(), indexer.Options{Quiet: true})
	require.NoError(t, err)

	w, err := New(root, []string{".go"}, ix)
	require.NoError(t, err)
	w.debounce = 50 * time.Millisecond

	w.Start(context.Background())
	defer w.Stop()

	updated := []byte("package main\n\nfunc main() { println(\"hi\") }\n")
	require.NoError(t, os.WriteFile(path, updated, 0o644))
	wantHash := hashutil.ContentHex(updated)

	waitFor(t, 2*time.Second, func() bool {
		hashes, err := s.ListFileHashes()
		return err == nil && hashes["main.go"] == wantHash
	})
}

func TestWatcher_IgnoresUnregisteredExtensions(t *testing.T) {
	root := t.TempDir()
	ix, _ := newTestIndexer(t, root)
	w, err := New(root, []string{".go"}, ix)
	require.NoError(t, err)
	w.debounce = 20 * time.Millisecond

	w.Start(context.Background())
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("hello"), 0o644))
	time.Sleep(100 * time.Millisecond)

	w.mu.Lock()
	accumulated := len(w.accumulated)
	w.mu.Unlock()
	require.Equal(t, 0, accumulated, "non-watched extensions must not accumulate")
}

func TestWatcher_StopAfterStartSucceeds(t *testing.T) {
	root := t.TempDir()
	ix, _ := newTestIndexer(t, root)
	w, err := New(root, []string{".go"}, ix)
	require.NoError(t, err)

	w.Start(context.Background())
	require.NoError(t, w.Stop())
}

func TestWatcher_NewDirectoryIsWatched(t *testing.T) {
	root := t.TempDir()
	ix, _ := newTestIndexer(t, root)
	w, err := New(root, []string{".go"}, ix)
	require.NoError(t, err)
	w.debounce = 20 * time.Millisecond

	w.Start(context.Background())
	defer w.Stop()

	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))

	waitFor(t, time.Second, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.watchedDirs >= 2
	})

	require.NoError(t, os.WriteFile(filepath.Join(sub, "nested.go"), []byte("package sub\n"), 0o644))

	waitFor(t, time.Second, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		return len(w.accumulated) > 0
	})
}
