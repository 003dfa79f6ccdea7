package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/maharajah/maharajah/internal/indexer"
	"github.com/maharajah/maharajah/internal/retriever"
)

var (
	retrieveK         int
	retrieveFormat    string
	retrieveMinScore  float64
	retrieveNoRefresh bool
)

func addRetrieveFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&retrieveK, "k", "k", 10, "number of results to return")
	cmd.Flags().StringVar(&retrieveFormat, "format", "text", "output format: text or json")
	cmd.Flags().Float64Var(&retrieveMinScore, "min-score", 0, "exclude results whose score is below this threshold")
	cmd.Flags().BoolVar(&retrieveNoRefresh, "no-refresh", false, "skip the automatic index refresh before retrieval")
}

var findCmd = &cobra.Command{
	Use:   "find <prompt>",
	Short: "Single-vector content search",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRetrieve(cmd, args[0], (*retriever.Retriever).Find)
	},
}

func init() {
	rootCmd.AddCommand(findCmd)
	addRetrieveFlags(findCmd)
}

// retrieveFunc matches Retriever.Find and Retriever.Query's shared shape.
type retrieveFunc func(r *retriever.Retriever, ctx context.Context, queryText string, k int, minScore *float64) ([]retriever.Result, error)

func runRetrieve(cmd *cobra.Command, prompt string, fn retrieveFunc) error {
	ctx := context.Background()

	rootDir, err := resolveRootDir()
	if err != nil {
		return &cliError{code: ExitUserError, err: err}
	}
	if retrieveK <= 0 {
		return &cliError{code: ExitUserError, err: fmt.Errorf("-k must be positive, got %d", retrieveK)}
	}

	a, err := newApp(rootDir)
	if err != nil {
		return err
	}
	defer a.Close()

	if !retrieveNoRefresh {
		if _, err := a.indexer.Index(ctx, indexer.Options{Quiet: true}); err != nil {
			return &cliError{code: ExitIOError, err: fmt.Errorf("auto-refresh: %w", err)}
		}
	}

	var minScore *float64
	if cmd.Flags().Changed("min-score") {
		minScore = &retrieveMinScore
	}

	results, err := fn(a.retriever(), ctx, prompt, retrieveK, minScore)
	if err != nil {
		return &cliError{code: ExitIOError, err: fmt.Errorf("retrieval: %w", err)}
	}

	return writeResults(os.Stdout, results, retrieveFormat)
}
