// Package cli implements the maharajah command tree: index, find, query,
// serve, db stats, db clear, and config, per spec §6's CLI surface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "maharajah",
	Short: "Local semantic code search",
	Long: `Maharajah indexes a codebase into a local vector store and answers
semantic search queries against it, with no network calls beyond the
embedding model running on this machine.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dirFlag, "dir", "D", "", "project root (default: current directory)")
}

// Execute runs the command tree and exits the process with the exit code
// spec §6/§7 assigns to whatever error (if any) the command returned.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}
