// Command maharajah-embed is the embedding sidecar internal/embedder's
// localProvider shells out to: an embedded Python runtime running
// sentence-transformers behind a loopback HTTP server, grounded on the
// teacher's cmd/cortex-embed.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/kluctl/go-embed-python/embed_util"
	"github.com/kluctl/go-embed-python/python"

	"github.com/maharajah/maharajah/internal/embedder"
	"github.com/maharajah/maharajah/internal/embedder/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("failed to get user home directory: %v", err)
	}
	maharajahDir := filepath.Join(homeDir, ".maharajah")

	pythonRuntimeDir := filepath.Join(maharajahDir, "embed", "runtime")
	ep, err := python.NewEmbeddedPythonWithTmpDir(pythonRuntimeDir, true)
	if err != nil {
		log.Fatalf("failed to create embedded Python: %v", err)
	}

	pipCacheDir := filepath.Join(maharajahDir, "embed", "packages")
	embeddedFiles, err := embed_util.NewEmbeddedFilesWithTmpDir(server.Data, pipCacheDir, true)
	if err != nil {
		log.Fatalf("failed to load embedded files: %v", err)
	}
	ep.AddPythonPath(embeddedFiles.GetExtractedPath())

	tmpDir, err := os.MkdirTemp("", "maharajah-embed-*")
	if err != nil {
		log.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	scriptPath := filepath.Join(tmpDir, "embedding_service.py")
	if err := os.WriteFile(scriptPath, []byte(server.EmbeddingScript), 0o644); err != nil {
		log.Fatalf("failed to write script: %v", err)
	}

	cmd, err := ep.PythonCmd(scriptPath)
	if err != nil {
		log.Fatalf("failed to create Python command: %v", err)
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		log.Fatalf("failed to start Python server: %v", err)
	}

	log.Printf("starting embedding service on http://127.0.0.1:%d", embedder.DefaultServerPort)

	if err := waitForReady(ctx); err != nil {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		log.Fatalf("service failed to start: %v", err)
	}

	log.Println("embedding service ready")

	<-ctx.Done()
	log.Println("shutting down...")
	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}

func waitForReady(ctx context.Context) error {
	client := &http.Client{Timeout: 2 * time.Second}
	timeout := 2 * time.Minute // allow time for model download on first run

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	url := fmt.Sprintf("http://127.0.0.1:%d/", embedder.DefaultServerPort)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if time.Now().After(deadline) {
				return fmt.Errorf("timeout after %v waiting for service", timeout)
			}

			resp, err := client.Get(url)
			if err == nil && resp.StatusCode == http.StatusOK {
				resp.Body.Close()
				return nil
			}
			if resp != nil {
				resp.Body.Close()
			}
		}
	}
}
