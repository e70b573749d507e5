package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shelf/internal/paths"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

func newInitCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration and data directories",
		Long:  "Create the configuration directory with a config.yaml and the data directory.",
		Args:  cobra.NoArgs,
		// Skip the root's config loading, which would write the default
		// config.yaml before init gets to.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := paths.ResolveConfigDir(flags.configDir)
			if err != nil {
				return sysError(fmt.Errorf("resolve config dir: %w", err))
			}
			dataDir, err := paths.ResolveDataDir(flags.dataDir)
			if err != nil {
				return sysError(fmt.Errorf("resolve data dir: %w", err))
			}

			if err := ensureConfigDir(configDir); err != nil {
				return sysError(fmt.Errorf("create config directory: %w", err))
			}
			if err := os.MkdirAll(dataDir, 0o755); err != nil {
				return sysError(fmt.Errorf("create data directory: %w", err))
			}

			cfg := types.Config{
				LogLevel: defaultLogLevel,
				DataDir:  dataDir,
				Snapshot: flags.snapshot,
			}
			written, err := writeConfig(configDir, cfg)
			if err != nil {
				return sysError(err)
			}

			out := cmd.OutOrStdout()
			path := filepath.Join(configDir, configFileExt)
			if written {
				fmt.Fprintf(out, "Wrote %s\n", path)
			} else {
				fmt.Fprintf(out, "Kept %s\n", path)
			}
			fmt.Fprintf(out, "Data directory %s\n", dataDir)
			return nil
		},
	}
}
