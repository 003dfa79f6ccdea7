package cli

import (
	"github.com/spf13/cobra"

	"github.com/maharajah/maharajah/internal/retriever"
)

var queryCmd = &cobra.Command{
	Use:   "query <prompt>",
	Short: "Dual-vector search with Reciprocal Rank Fusion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRetrieve(cmd, args[0], (*retriever.Retriever).Query)
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	addRetrieveFlags(queryCmd)
}
