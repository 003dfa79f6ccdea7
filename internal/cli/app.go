package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/maharajah/maharajah/internal/chunk"
	"github.com/maharajah/maharajah/internal/config"
	"github.com/maharajah/maharajah/internal/embedder"
	"github.com/maharajah/maharajah/internal/indexer"
	"github.com/maharajah/maharajah/internal/retriever"
	"github.com/maharajah/maharajah/internal/store"
)

// app bundles the collaborators every data-touching command needs, built
// once from the resolved configuration. Callers must call Close when done.
type app struct {
	cfg      *config.Config
	rootDir  string
	store    *store.Store
	provider embedder.Provider
	indexer  *indexer.Indexer
}

// dirFlag is the project root every command resolves against; "-D/--dir"
// defaults to the current working directory.
var dirFlag string

// resolveRootDir returns dirFlag if set, otherwise the working directory.
func resolveRootDir() (string, error) {
	if dirFlag != "" {
		abs, err := filepath.Abs(dirFlag)
		if err != nil {
			return "", fmt.Errorf("resolve -D %s: %w", dirFlag, err)
		}
		return abs, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return wd, nil
}

// newApp loads configuration for rootDir and constructs the store,
// embedding provider, and Indexer every command shares. Callers own the
// returned app and must call Close exactly once.
func newApp(rootDir string) (*app, error) {
	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return nil, &cliError{code: ExitUserError, err: fmt.Errorf("load configuration: %w", err)}
	}

	storeDir := cfg.DB.Path
	if !filepath.IsAbs(storeDir) {
		storeDir = filepath.Join(rootDir, storeDir)
	}
	if err := os.MkdirAll(storeDir, 0o755); err != nil {
		return nil, &cliError{code: ExitIOError, err: fmt.Errorf("create store directory: %w", err)}
	}

	s, err := store.Open(store.Config{
		Dir:       storeDir,
		ModelID:   cfg.Embed.ModelID,
		Dimension: cfg.DB.EmbeddingDim,
	})
	if err != nil {
		if storeErrIsModelMismatch(err) {
			return nil, &cliError{code: ExitModelMismatch, err: err}
		}
		return nil, &cliError{code: ExitIOError, err: fmt.Errorf("open store: %w", err)}
	}

	provider, err := embedder.New(embedder.Config{Provider: cfg.Embed.Provider})
	if err != nil {
		s.Close()
		return nil, &cliError{code: ExitEmbedError, err: fmt.Errorf("create embedding provider: %w", err)}
	}

	ix := indexer.New(indexer.Config{
		RootDir:       rootDir,
		Store:         s,
		Registry:      chunk.NewRegistry(),
		Provider:      provider,
		Extensions:    cfg.Index.DefaultExtensions,
		MaxChunkLines: cfg.Index.MaxChunkLines,
		BatchSize:     cfg.Index.BatchSize,
	})

	return &app{cfg: cfg, rootDir: rootDir, store: s, provider: provider, indexer: ix}, nil
}

func (a *app) retriever() *retriever.Retriever {
	return retriever.New(a.store, a.provider)
}

func (a *app) Close() {
	a.indexer.Close()
	_ = a.provider.Close()
	_ = a.store.Close()
}
