package embedder

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockDownloader is a test double that doesn't actually download.
type mockDownloader struct {
	called bool
	err    error
}

func (m *mockDownloader) DownloadAndExtract(url, targetDir, ext string) error {
	m.called = true
	if m.err != nil {
		return m.err
	}

	platform, err := detectPlatform()
	if err != nil {
		return err
	}

	binaryName := "maharajah-embed-" + platform
	if runtime.GOOS == "windows" {
		binaryName += ".exe"
	}
	binaryPath := filepath.Join(targetDir, binaryName)

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return err
	}

	return os.WriteFile(binaryPath, []byte("fake binary"), 0755)
}

func TestDetectPlatform(t *testing.T) {
	t.Parallel()

	platform, err := detectPlatform()
	require.NoError(t, err)

	expectedPlatform := runtime.GOOS + "-" + runtime.GOARCH
	assert.Equal(t, expectedPlatform, platform)

	supported := []string{
		"darwin-arm64",
		"darwin-amd64",
		"linux-amd64",
		"linux-arm64",
		"windows-amd64",
	}

	found := false
	for _, p := range supported {
		if platform == p {
			found = true
			break
		}
	}

	if !found {
		t.Skipf("current platform %s not in supported list", platform)
	}
}

func TestEnsureBinaryInstalled_ExistingBinary(t *testing.T) {
	// Not parallel: modifies HOME.
	tmpHome := t.TempDir()

	oldHome := os.Getenv("HOME")
	t.Cleanup(func() { _ = os.Setenv("HOME", oldHome) })
	require.NoError(t, os.Setenv("HOME", tmpHome))

	binDir := filepath.Join(tmpHome, ".maharajah", "bin")
	require.NoError(t, os.MkdirAll(binDir, 0755))

	binaryPath := filepath.Join(binDir, "maharajah-embed")
	if runtime.GOOS == "windows" {
		binaryPath += ".exe"
	}
	require.NoError(t, os.WriteFile(binaryPath, []byte("fake binary"), 0755))

	path, err := EnsureBinaryInstalled(nil)
	require.NoError(t, err)
	assert.Equal(t, binaryPath, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fake binary", string(data))
}

func TestEnsureBinaryInstalled_MissingBinary(t *testing.T) {
	// Not parallel: modifies HOME.
	tmpHome := t.TempDir()

	oldHome := os.Getenv("HOME")
	t.Cleanup(func() { _ = os.Setenv("HOME", oldHome) })
	require.NoError(t, os.Setenv("HOME", tmpHome))

	expectedBinDir := filepath.Join(tmpHome, ".maharajah", "bin")
	expectedBinary := filepath.Join(expectedBinDir, "maharajah-embed")
	if runtime.GOOS == "windows" {
		expectedBinary += ".exe"
	}

	mock := &mockDownloader{}
	path, err := EnsureBinaryInstalled(mock)

	require.NoError(t, err)
	assert.True(t, mock.called, "downloader should have been called")
	assert.Equal(t, expectedBinary, path)
	assert.FileExists(t, path)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.True(t, info.Mode()&0111 != 0, "binary should be executable")
	}
}

func TestEnsureBinaryInstalled_DownloadFailure(t *testing.T) {
	// Not parallel: modifies HOME.
	tmpHome := t.TempDir()

	oldHome := os.Getenv("HOME")
	t.Cleanup(func() { _ = os.Setenv("HOME", oldHome) })
	require.NoError(t, os.Setenv("HOME", tmpHome))

	mock := &mockDownloader{err: fmt.Errorf("network error")}
	_, err := EnsureBinaryInstalled(mock)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "download maharajah-embed")
	assert.Contains(t, err.Error(), "network error")
	assert.True(t, mock.called, "downloader should have been called despite error")
}

func TestDownloadURL_Construction(t *testing.T) {
	t.Parallel()

	platform := "darwin-arm64"
	url := downloadURL(platform)

	assert.Contains(t, url, ServerVersion)
	assert.Contains(t, url, platform)
	assert.Contains(t, url, "maharajah-embed-")
}

func TestArchiveExtension(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ".zip", archiveExtension("windows-amd64"))
	assert.Equal(t, ".tar.gz", archiveExtension("linux-amd64"))
	assert.Equal(t, ".tar.gz", archiveExtension("darwin-arm64"))
}
