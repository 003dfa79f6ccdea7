package embedder

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/schollz/progressbar/v3"
)

// ServerVersion is the release tag of the maharajah-embed sidecar binary,
// versioned independently of the main module.
const ServerVersion = "v0.1.0"

// Downloader fetches and unpacks an archive into targetDir.
type Downloader interface {
	DownloadAndExtract(url, targetDir, ext string) error
}

// HTTPDownloader implements Downloader over plain HTTP GET.
type HTTPDownloader struct{}

func NewHTTPDownloader() Downloader { return &HTTPDownloader{} }

// EnsureBinaryInstalled returns the path to the maharajah-embed binary,
// downloading a platform release into ~/.maharajah/bin if not already
// present. A nil downloader uses HTTPDownloader.
func EnsureBinaryInstalled(downloader Downloader) (string, error) {
	if downloader == nil {
		downloader = NewHTTPDownloader()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	binDir := filepath.Join(homeDir, ".maharajah", "bin")
	binaryPath := filepath.Join(binDir, "maharajah-embed")
	if runtime.GOOS == "windows" {
		binaryPath += ".exe"
	}

	if _, err := os.Stat(binaryPath); err == nil {
		return binaryPath, nil
	}

	platform, err := detectPlatform()
	if err != nil {
		return "", err
	}

	url := downloadURL(platform)
	ext := archiveExtension(platform)

	if err := downloader.DownloadAndExtract(url, binDir, ext); err != nil {
		return "", fmt.Errorf("download maharajah-embed %s for %s: %w", ServerVersion, platform, err)
	}

	extractedName := "maharajah-embed-" + platform
	if runtime.GOOS == "windows" {
		extractedName += ".exe"
	}
	extractedPath := filepath.Join(binDir, extractedName)

	if _, err := os.Stat(extractedPath); err != nil {
		return "", fmt.Errorf("extracted binary not found at %s: %w", extractedPath, err)
	}
	if err := os.Rename(extractedPath, binaryPath); err != nil {
		return "", fmt.Errorf("install binary: %w", err)
	}
	if runtime.GOOS != "windows" {
		if err := os.Chmod(binaryPath, 0o755); err != nil {
			return "", fmt.Errorf("make binary executable: %w", err)
		}
	}

	return binaryPath, nil
}

func detectPlatform() (string, error) {
	platform := fmt.Sprintf("%s-%s", runtime.GOOS, runtime.GOARCH)
	supported := []string{"darwin-arm64", "darwin-amd64", "linux-amd64", "linux-arm64", "windows-amd64"}
	for _, p := range supported {
		if platform == p {
			return platform, nil
		}
	}
	return "", fmt.Errorf("unsupported platform %s (supported: %s)", platform, strings.Join(supported, ", "))
}

func downloadURL(platform string) string {
	return fmt.Sprintf(
		"https://maharajah-releases.example.invalid/maharajah-embed-%s-%s%s",
		ServerVersion, platform, archiveExtension(platform),
	)
}

func archiveExtension(platform string) string {
	if strings.HasPrefix(platform, "windows") {
		return ".zip"
	}
	return ".tar.gz"
}

// DownloadAndExtract fetches url into a temp file and extracts it into
// targetDir, choosing tar.gz or zip handling based on ext.
func (d *HTTPDownloader) DownloadAndExtract(url, targetDir, ext string) error {
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return fmt.Errorf("create install directory: %w", err)
	}

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("download request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	tmpFile, err := os.CreateTemp("", "maharajah-embed-*"+ext)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	bar := progressbar.DefaultBytes(resp.ContentLength, "downloading embedding model")
	written, err := io.Copy(io.MultiWriter(tmpFile, bar), resp.Body)
	tmpFile.Close()
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	if resp.ContentLength > 0 && written != resp.ContentLength {
		return fmt.Errorf("incomplete download: got %d bytes, expected %d", written, resp.ContentLength)
	}

	if ext == ".zip" {
		return extractZip(tmpPath, targetDir)
	}
	return extractTarGz(tmpPath, targetDir)
}

func extractTarGz(archivePath, targetDir string) error {
	file, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer file.Close()

	gzr, err := gzip.NewReader(file)
	if err != nil {
		return fmt.Errorf("open gzip stream: %w", err)
	}
	defer gzr.Close()

	tr := tar.NewReader(gzr)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read tar entry: %w", err)
		}

		target := filepath.Join(targetDir, header.Name)
		if !strings.HasPrefix(target, filepath.Clean(targetDir)+string(os.PathSeparator)) {
			return fmt.Errorf("illegal path in archive: %s", header.Name)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(header.Mode)); err != nil {
				return fmt.Errorf("create directory %s: %w", target, err)
			}
		case tar.TypeReg:
			f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode))
			if err != nil {
				return fmt.Errorf("create file %s: %w", target, err)
			}
			if _, err := io.Copy(f, tr); err != nil {
				f.Close()
				return fmt.Errorf("write file %s: %w", target, err)
			}
			f.Close()
		}
	}
	return nil
}

func extractZip(archivePath, targetDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		target := filepath.Join(targetDir, f.Name)
		if !strings.HasPrefix(target, filepath.Clean(targetDir)+string(os.PathSeparator)) {
			return fmt.Errorf("illegal path in archive: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, f.Mode()); err != nil {
				return fmt.Errorf("create directory %s: %w", target, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("create parent directory: %w", err)
		}
		out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, f.Mode())
		if err != nil {
			return fmt.Errorf("create file %s: %w", target, err)
		}
		rc, err := f.Open()
		if err != nil {
			out.Close()
			return fmt.Errorf("open archived file: %w", err)
		}
		if _, err := io.Copy(out, rc); err != nil {
			rc.Close()
			out.Close()
			return fmt.Errorf("write file %s: %w", target, err)
		}
		rc.Close()
		out.Close()
	}
	return nil
}
