package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is the sentinel wrapped by every configuration validation
// failure, so callers can test with errors.Is(err, config.ErrInvalid)
// regardless of which field failed.
var ErrInvalid = errors.New("invalid configuration")

// Validate checks that cfg is internally consistent. It does not check
// against a store's recorded model identity; that comparison is the vector
// store's ErrModelMismatch, raised on open.
func Validate(cfg *Config) error {
	var errs []error

	if strings.TrimSpace(cfg.Embed.ModelID) == "" {
		errs = append(errs, fmt.Errorf("embed.model_id is required"))
	}
	provider := strings.ToLower(cfg.Embed.Provider)
	if provider != "local" && provider != "mock" {
		errs = append(errs, fmt.Errorf("embed.provider must be 'local' or 'mock', got %q", cfg.Embed.Provider))
	}

	if strings.TrimSpace(cfg.DB.TableName) == "" {
		errs = append(errs, fmt.Errorf("db.table_name is required"))
	}
	if cfg.DB.EmbeddingDim <= 0 {
		errs = append(errs, fmt.Errorf("db.embedding_dim must be positive, got %d", cfg.DB.EmbeddingDim))
	}

	if cfg.Index.MaxChunkLines <= 0 {
		errs = append(errs, fmt.Errorf("index.max_chunk_lines must be positive, got %d", cfg.Index.MaxChunkLines))
	}
	if len(cfg.Index.DefaultExtensions) == 0 {
		errs = append(errs, fmt.Errorf("index.default_extensions must not be empty"))
	}
	if cfg.Index.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("index.batch_size must be positive, got %d", cfg.Index.BatchSize))
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
