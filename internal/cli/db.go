package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Inspect or reset the local vector store",
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print file/chunk counts and the store's embedding dimension",
	Args:  cobra.NoArgs,
	RunE:  runDBStats,
}

var (
	dbClearYes bool
)

var dbClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every row in the store",
	Args:  cobra.NoArgs,
	RunE:  runDBClear,
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbStatsCmd)
	dbCmd.AddCommand(dbClearCmd)
	dbClearCmd.Flags().BoolVar(&dbClearYes, "yes", false, "confirm the destructive clear")
}

func runDBStats(cmd *cobra.Command, args []string) error {
	rootDir, err := resolveRootDir()
	if err != nil {
		return &cliError{code: ExitUserError, err: err}
	}

	a, err := newApp(rootDir)
	if err != nil {
		return err
	}
	defer a.Close()

	fileCount, chunkCount, dimension, err := a.store.Stats()
	if err != nil {
		return &cliError{code: ExitIOError, err: fmt.Errorf("stats: %w", err)}
	}

	fmt.Printf("files=%d chunks=%d dimension=%d model_id=%s\n", fileCount, chunkCount, dimension, a.cfg.Embed.ModelID)
	return nil
}

func runDBClear(cmd *cobra.Command, args []string) error {
	if !dbClearYes {
		return &cliError{code: ExitUserError, err: fmt.Errorf("db clear is destructive; pass --yes to confirm")}
	}

	rootDir, err := resolveRootDir()
	if err != nil {
		return &cliError{code: ExitUserError, err: err}
	}

	a, err := newApp(rootDir)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.store.Clear(); err != nil {
		return &cliError{code: ExitIOError, err: fmt.Errorf("clear: %w", err)}
	}

	fmt.Println("store cleared")
	return nil
}
