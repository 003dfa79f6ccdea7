package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/maharajah/maharajah/internal/indexer"
	"github.com/maharajah/maharajah/internal/server"
	"github.com/maharajah/maharajah/internal/watcher"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (index/find/query over a background watcher)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8765", "address to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootDir, err := resolveRootDir()
	if err != nil {
		return &cliError{code: ExitUserError, err: err}
	}

	a, err := newApp(rootDir)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.indexer.Index(ctx, indexer.Options{Quiet: true}); err != nil {
		return &cliError{code: ExitIOError, err: fmt.Errorf("initial index: %w", err)}
	}

	w, err := watcher.New(rootDir, a.cfg.Index.DefaultExtensions, a.indexer)
	if err != nil {
		return &cliError{code: ExitIOError, err: fmt.Errorf("create watcher: %w", err)}
	}

	srv := server.New(server.Config{
		Addr:      serveAddr,
		RootDir:   rootDir,
		Indexer:   a.indexer,
		Retriever: a.retriever(),
		Watcher:   w,
	})

	if err := srv.Serve(ctx); err != nil && ctx.Err() == nil {
		return &cliError{code: ExitIOError, err: err}
	}
	return nil
}
