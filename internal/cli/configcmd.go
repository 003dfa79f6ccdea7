package cli

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/maharajah/maharajah/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the fully resolved configuration",
	Long: `Config prints the configuration maharajah would use for this project:
built-in defaults layered with ~/.maharajah/maharajah.toml, the project's
maharajah.toml, and any MAHARAJAH_-prefixed environment variables.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	rootDir, err := resolveRootDir()
	if err != nil {
		return &cliError{code: ExitUserError, err: err}
	}

	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return &cliError{code: ExitUserError, err: fmt.Errorf("load configuration: %w", err)}
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return &cliError{code: ExitIOError, err: fmt.Errorf("marshal configuration: %w", err)}
	}

	_, err = os.Stdout.Write(data)
	return err
}
