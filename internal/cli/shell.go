package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shelf/internal/logging"
	"github.com/mesh-intelligence/shelf/internal/metrics"
	"github.com/mesh-intelligence/shelf/internal/shell"
	"github.com/mesh-intelligence/shelf/internal/snapshot"
	"github.com/mesh-intelligence/shelf/internal/store"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

func newShellCmd(e *env) *cobra.Command {
	var noPrompt bool
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Run the interactive command loop",
		Long: "Read two-letter commands from standard input until qq or end of input.\n" +
			"The default snapshot is loaded first when it exists.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, e, shell.WithPrompt(!noPrompt))
		},
	}
	cmd.Flags().BoolVar(&noPrompt, "no-prompt", false, "do not print the command prompt")
	return cmd
}

func runShell(cmd *cobra.Command, e *env, opts ...shell.Option) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithComponent(logging.WithLogger(ctx, &e.log), "shell")

	if err := os.MkdirAll(e.dataDir, 0o755); err != nil {
		return sysError(fmt.Errorf("create data directory: %w", err))
	}

	st := store.New(store.WithLogger(e.log.With().Str("component", "store").Logger()))
	locator := snapshot.NewLocator(e.cfg.S3)

	var recorder metrics.Recorder = metrics.Nop{}
	var prom *metrics.Prometheus
	if e.cfg.MetricsFile != "" {
		prom = metrics.NewPrometheus()
		recorder = prom
	}

	preload(ctx, e, locator, st, recorder)

	opts = append([]shell.Option{
		shell.WithLocator(locator),
		shell.WithRecorder(recorder),
		shell.WithLogger(*logging.FromContext(ctx)),
		shell.WithDefaultLocation(e.snapshot),
	}, opts...)
	sh := shell.New(st, cmd.InOrStdin(), cmd.OutOrStdout(), opts...)
	runErr := sh.Run(ctx)

	if prom != nil {
		if err := prom.WriteTextfile(e.cfg.MetricsFile); err != nil {
			e.log.Warn().Err(err).Str("path", e.cfg.MetricsFile).Msg("write metrics")
		}
	}
	if runErr != nil {
		return sysError(fmt.Errorf("shell: %w", runErr))
	}
	return nil
}

// preload restores the default snapshot. A missing snapshot starts an
// empty library; a malformed one is logged and also leaves it empty.
func preload(ctx context.Context, e *env, locator *snapshot.Locator, st *store.Store, recorder metrics.Recorder) {
	if e.snapshot == "" {
		return
	}
	err := locator.Load(ctx, e.snapshot, st)
	switch {
	case err == nil:
		recorder.ObserveRestore(true)
		counts := st.Counts()
		recorder.SetLibrarySize(counts.Records, counts.Collections)
		e.log.Info().Str("location", e.snapshot).Int("records", counts.Records).Msg("snapshot loaded")
	case errors.Is(err, types.ErrSourceUnavailable):
		e.log.Debug().Err(err).Str("location", e.snapshot).Msg("no snapshot to load")
	default:
		recorder.ObserveRestore(false)
		e.log.Warn().Err(err).Str("location", e.snapshot).Msg("snapshot not loaded")
	}
}
