package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/maharajah/maharajah/internal/indexer"
)

var (
	indexReindex  bool
	indexIncludes []string
	indexExcludes []string
	indexQuiet    bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the project for semantic search",
	Long: `Index walks the project, chunks changed files, embeds the chunks, and
writes them to the local vector store. Unchanged files are skipped by
content hash; files removed since the last run are reconciled away.`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().BoolVar(&indexReindex, "reindex", false, "clear the store first, re-indexing every file")
	indexCmd.Flags().StringSliceVarP(&indexIncludes, "include", "i", nil, "glob(s) narrowing the walk beyond the configured extensions")
	indexCmd.Flags().StringSliceVarP(&indexExcludes, "exclude", "x", nil, "glob(s) excluded from the walk")
	indexCmd.Flags().BoolVarP(&indexQuiet, "quiet", "q", false, "suppress progress bar and per-file logging")
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	rootDir, err := resolveRootDir()
	if err != nil {
		return &cliError{code: ExitUserError, err: err}
	}

	a, err := newApp(rootDir)
	if err != nil {
		return err
	}
	defer a.Close()

	reporter := newProgressReporter(indexQuiet)
	opts := indexer.Options{
		Reindex:      indexReindex,
		IncludeGlobs: indexIncludes,
		ExcludeGlobs: indexExcludes,
		Quiet:        indexQuiet,
	}
	reporter.apply(&opts)

	report, err := a.indexer.Index(ctx, opts)
	if err != nil {
		if ctx.Err() != nil {
			return &cliError{code: ExitOK, err: fmt.Errorf("index cancelled")}
		}
		return &cliError{code: ExitIOError, err: fmt.Errorf("index: %w", err)}
	}

	if !indexQuiet {
		fmt.Printf("files_scanned=%d files_changed=%d chunks_written=%d files_deleted=%d (%s)\n",
			report.FilesScanned, report.FilesChanged, report.ChunksWritten, report.FilesDeleted, report.Elapsed.Total)
	}
	return nil
}
