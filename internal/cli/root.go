// Package cli implements the shelf command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shelf/internal/logging"
	"github.com/mesh-intelligence/shelf/internal/paths"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	snapshot  string
	jsonMode  bool
}

// env is what PersistentPreRunE resolves for the subcommands.
type env struct {
	configDir string
	dataDir   string
	snapshot  string
	cfg       types.Config
	log       zerolog.Logger
}

// exitError carries the exit code a failure maps to.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error {
	return &exitError{code: exitUserError, err: err}
}

func sysError(err error) error {
	return &exitError{code: exitSysError, err: err}
}

// exitCode maps err to a process exit code. Errors that do not say
// otherwise are user errors, which covers cobra's own flag and argument
// errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// NewRootCmd creates the top-level "shelf" command. Run without a
// subcommand it starts the interactive shell.
func NewRootCmd() *cobra.Command {
	var flags rootFlags
	var e env

	root := &cobra.Command{
		Use:   "shelf",
		Short: "An in-memory catalog of records and collections",
		Long: "shelf keeps a catalog of uniquely titled records grouped into named\n" +
			"collections, with snapshots saved to files or S3.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := resolveEnv(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			e = resolved
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, &e)
		},
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/shelf)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory for the default snapshot (default: $XDG_DATA_HOME/shelf)")
	root.PersistentFlags().StringVar(&flags.snapshot, "snapshot", "", "default snapshot location, a path or s3://bucket/key")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newShellCmd(&e))
	root.AddCommand(newCheckCmd(&e, &flags))
	root.AddCommand(newShowCmd(&e, &flags))
	root.AddCommand(newInitCmd(&flags))
	root.AddCommand(newVersionCmd())

	return root
}

// resolveEnv loads configuration and sets up logging.
func resolveEnv(flags rootFlags, stderr io.Writer) (env, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return env{}, sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return env{}, sysError(err)
	}
	cfg, err := decodeConfig(v)
	if err != nil {
		return env{}, userError(err)
	}

	dataFlag := flags.dataDir
	if dataFlag == "" {
		dataFlag = cfg.DataDir
	}
	dataDir, err := paths.ResolveDataDir(dataFlag)
	if err != nil {
		return env{}, sysError(fmt.Errorf("resolve data dir: %w", err))
	}

	logCfg := logging.ConfigFromEnv()
	if logCfg.Level == "" {
		logCfg.Level = cfg.LogLevel
	}
	logCfg.Output = stderr
	log := logging.NewFromConfig(logCfg)
	logging.SetDefault(log)

	return env{
		configDir: configDir,
		dataDir:   dataDir,
		snapshot:  paths.ResolveSnapshot(flags.snapshot, cfg.Snapshot, dataDir),
		cfg:       cfg,
		log:       log,
	}, nil
}

// Execute runs the root command and returns the process exit code.
func Execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if args == nil {
		// cobra reads os.Args when given nil.
		args = []string{}
	}
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return exitCode(err)
}
