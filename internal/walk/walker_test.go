package walk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte("package p\n"), 0o644))
}

func TestWalker_ExtensionAndExcludeFiltering(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "src/foo.rs")
	writeFile(t, root, "target/debug/build/bar.rs")
	writeFile(t, root, "README.md")

	w, err := New(root, []string{".rs"}, nil, []string{"target/**"})
	require.NoError(t, err)

	files, err := w.Files()
	require.NoError(t, err)
	require.Equal(t, []string{"src/foo.rs"}, files)
}

func TestWalker_PrunesExcludedDirectories(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "src/foo.rs")
	writeFile(t, root, "target/debug/build/bar.rs")
	writeFile(t, root, "target/debug/build/deeper/baz.rs")

	w, err := New(root, []string{".rs"}, nil, []string{"target/**"})
	require.NoError(t, err)

	var dirsOpened int
	w.DirsOpened = &dirsOpened

	files, err := w.Files()
	require.NoError(t, err)
	require.Equal(t, []string{"src/foo.rs"}, files)

	// Root + src/ only: target/, target/debug/, target/debug/build/ and
	// target/debug/build/deeper/ must never be opened.
	require.Equal(t, 2, dirsOpened)
}

func TestWalker_IncludeGlobNarrowsResults(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "pkg/a.go")
	writeFile(t, root, "cmd/b.go")

	w, err := New(root, []string{".go"}, []string{"pkg/**"}, nil)
	require.NoError(t, err)

	files, err := w.Files()
	require.NoError(t, err)
	require.Equal(t, []string{"pkg/a.go"}, files)
}

func TestWalker_DeterministicOrdering(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "z.go")
	writeFile(t, root, "a.go")
	writeFile(t, root, "m/b.go")

	w, err := New(root, []string{".go"}, nil, nil)
	require.NoError(t, err)

	files, err := w.Files()
	require.NoError(t, err)
	require.Equal(t, []string{"a.go", "m/b.go", "z.go"}, files)
}

func TestWalker_HiddenFilesNotSkippedByDefault(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, ".hidden.go")

	w, err := New(root, []string{".go"}, nil, nil)
	require.NoError(t, err)

	files, err := w.Files()
	require.NoError(t, err)
	require.Equal(t, []string{".hidden.go"}, files)
}
