package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const schemaVersion = "1"

// ErrModelMismatch is returned by Open when an existing store's recorded
// model id or dimension disagrees with the current configuration (spec §7).
// The remedy is db clear or index --reindex.
var ErrModelMismatch = errors.New("embedding model mismatch: run db clear or index --reindex")

// manifest is the small JSON file persisted alongside the sqlite database
// recording the embedding identity the store was built with.
type manifest struct {
	ModelID       string `json:"model_id"`
	Dimension     int    `json:"dimension"`
	SchemaVersion string `json:"schema_version"`
}

func manifestPath(storeDir string) string {
	return filepath.Join(storeDir, "manifest.json")
}

// loadOrCreateManifest reads the manifest at storeDir, creating it with the
// given identity if absent. If present, it is compared against modelID and
// dimension; a mismatch returns ErrModelMismatch and leaves the existing
// manifest and database untouched.
func loadOrCreateManifest(storeDir, modelID string, dimension int) (*manifest, error) {
	path := manifestPath(storeDir)

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		m := &manifest{ModelID: modelID, Dimension: dimension, SchemaVersion: schemaVersion}
		if err := writeManifest(storeDir, m); err != nil {
			return nil, err
		}
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	if m.ModelID != modelID || m.Dimension != dimension {
		return nil, fmt.Errorf("%w: store has model_id=%q dimension=%d, configured model_id=%q dimension=%d",
			ErrModelMismatch, m.ModelID, m.Dimension, modelID, dimension)
	}

	return &m, nil
}

func writeManifest(storeDir string, m *manifest) error {
	if err := os.MkdirAll(storeDir, 0o755); err != nil {
		return fmt.Errorf("create store directory %s: %w", storeDir, err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	path := manifestPath(storeDir)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest %s: %w", path, err)
	}
	return nil
}
