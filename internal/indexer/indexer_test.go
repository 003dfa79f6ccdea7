package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maharajah/maharajah/internal/chunk"
	"github.com/maharajah/maharajah/internal/embedder"
	"github.com/maharajah/maharajah/internal/store"
)

const dimensions = 16

func newTestIndexer(t *testing.T, rootDir string) (*Indexer, *store.Store) {
	t.Helper()

	s, err := store.Open(store.Config{Dir: t.TempDir(), ModelID: "test-model", Dimension: dimensions})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ix := New(Config{
		RootDir:       rootDir,
		Store:         s,
		Registry:      chunk.NewRegistry(),
		Provider:      embedder.NewWordVectorProvider(dimensions),
		Extensions:    []string{".go"},
		MaxChunkLines: 150,
		Workers:       2,
	})
	t.Cleanup(ix.Close)

	return ix, s
}

func writeFile(t *testing.T, dir, relPath, content string) {
	t.Helper()
	full := filepath.Join(dir, relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestIndex_FirstRunWritesAllChunks(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "a.go", "package p\nfunc Hello() string { return \"hi\" }\n")
	writeFile(t, root, "b.go", "package p\nfunc World() string { return \"world\" }\n")

	ix, s := newTestIndexer(t, root)

	report, err := ix.Index(context.Background(), Options{Quiet: true})
	require.NoError(t, err)
	assert.Equal(t, 2, report.FilesScanned)
	assert.Equal(t, 2, report.FilesChanged)
	assert.Equal(t, 2, report.ChunksWritten)
	assert.Equal(t, 0, report.FilesDeleted)

	_, chunkCount, _, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, chunkCount)
}

func TestIndex_SecondRunWithNoChangesWritesNothing(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "a.go", "package p\nfunc Hello() string { return \"hi\" }\n")

	ix, _ := newTestIndexer(t, root)

	_, err := ix.Index(context.Background(), Options{Quiet: true})
	require.NoError(t, err)

	report, err := ix.Index(context.Background(), Options{Quiet: true})
	require.NoError(t, err)
	assert.Equal(t, 1, report.FilesScanned)
	assert.Equal(t, 0, report.FilesChanged)
	assert.Equal(t, 0, report.ChunksWritten)
}

func TestIndex_ModifiedFileReplacesRows(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "a.go", "package p\nfunc Hello() string { return \"hi\" }\n")

	ix, s := newTestIndexer(t, root)

	_, err := ix.Index(context.Background(), Options{Quiet: true})
	require.NoError(t, err)

	writeFile(t, root, "a.go", "package p\nfunc Hello() string { return \"hi\" }\nfunc Bye() string { return \"bye\" }\n")

	report, err := ix.Index(context.Background(), Options{Quiet: true})
	require.NoError(t, err)
	assert.Equal(t, 1, report.FilesChanged)
	assert.Equal(t, 2, report.ChunksWritten)

	_, chunkCount, _, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, chunkCount)
}

func TestIndex_DeletedFileRemovesRows(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "a.go", "package p\nfunc Hello() string { return \"hi\" }\n")
	writeFile(t, root, "b.go", "package p\nfunc World() string { return \"world\" }\n")

	ix, s := newTestIndexer(t, root)

	_, err := ix.Index(context.Background(), Options{Quiet: true})
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(root, "b.go")))

	report, err := ix.Index(context.Background(), Options{Quiet: true})
	require.NoError(t, err)
	assert.Equal(t, 1, report.FilesDeleted)

	hashes, err := s.ListFileHashes()
	require.NoError(t, err)
	assert.NotContains(t, hashes, "b.go")
	assert.Contains(t, hashes, "a.go")
}

func TestIndex_ReindexClearsStoreFirst(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "a.go", "package p\nfunc Hello() string { return \"hi\" }\n")

	ix, s := newTestIndexer(t, root)

	_, err := ix.Index(context.Background(), Options{Quiet: true})
	require.NoError(t, err)

	report, err := ix.Index(context.Background(), Options{Quiet: true, Reindex: true})
	require.NoError(t, err)
	assert.Equal(t, 1, report.FilesChanged, "reindex must re-treat every file as changed")

	_, chunkCount, _, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, chunkCount)
}

func TestIndex_HintSkipsDeletionReconciliation(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "a.go", "package p\nfunc Hello() string { return \"hi\" }\n")
	writeFile(t, root, "b.go", "package p\nfunc World() string { return \"world\" }\n")

	ix, s := newTestIndexer(t, root)

	_, err := ix.Index(context.Background(), Options{Quiet: true})
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(root, "b.go")))

	report, err := ix.Index(context.Background(), Options{Quiet: true, Hint: []string{"a.go"}})
	require.NoError(t, err)
	assert.Equal(t, 0, report.FilesDeleted, "a hinted run must not reconcile deletions outside its hint set")

	hashes, err := s.ListFileHashes()
	require.NoError(t, err)
	assert.Contains(t, hashes, "b.go", "b.go's rows survive since the hinted run never looked at it")
}

func TestIndex_EmptyChunkFileStillMarksProcessed(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "README.md", "# no chunker registered for markdown\n")

	ix, s := newTestIndexer(t, root)
	ix.extensions = []string{".md"}

	report, err := ix.Index(context.Background(), Options{Quiet: true})
	require.NoError(t, err)
	assert.Equal(t, 1, report.FilesScanned)
	assert.Equal(t, 1, report.FilesChanged)
	assert.Equal(t, 0, report.ChunksWritten)

	_, chunkCount, _, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, chunkCount)
}

func TestIndex_CancellationStopsBeforeNewWrites(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "a.go", "package p\nfunc Hello() string { return \"hi\" }\n")

	ix, _ := newTestIndexer(t, root)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ix.Index(ctx, Options{Quiet: true})
	assert.ErrorIs(t, err, context.Canceled)
}
