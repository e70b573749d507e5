package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shelf/internal/snapshot"
	"github.com/mesh-intelligence/shelf/internal/store"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

// checkResult is what check reports about a snapshot.
type checkResult struct {
	Location    string `json:"location"`
	Records     int    `json:"records"`
	Collections int    `json:"collections"`
	Fingerprint string `json:"fingerprint"`
	NextID      int    `json:"next_id"`
}

func newCheckCmd(e *env, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check [location]",
		Short: "Validate a snapshot",
		Long: "Restore a snapshot into a scratch library and report its size and\n" +
			"fingerprint. Without a location the default snapshot is checked.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, loc, err := loadScratch(cmd, e, args)
			if err != nil {
				return err
			}
			counts := st.Counts()
			res := checkResult{
				Location:    loc,
				Records:     counts.Records,
				Collections: counts.Collections,
				Fingerprint: fmt.Sprintf("%016x", st.Fingerprint()),
				NextID:      st.NextID(),
			}
			if flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "location:    %s\n", res.Location)
			fmt.Fprintf(out, "records:     %d\n", res.Records)
			fmt.Fprintf(out, "collections: %d\n", res.Collections)
			fmt.Fprintf(out, "fingerprint: %s\n", res.Fingerprint)
			return nil
		},
	}
}

// loadScratch restores the snapshot named by args, or the default one, into
// a fresh store. An unreadable source is a system error; malformed data is
// a user error.
func loadScratch(cmd *cobra.Command, e *env, args []string) (*store.Store, string, error) {
	loc := e.snapshot
	if len(args) == 1 {
		loc = args[0]
	}
	st := store.New(store.WithLogger(e.log))
	locator := snapshot.NewLocator(e.cfg.S3)
	err := locator.Load(cmd.Context(), loc, st)
	switch {
	case err == nil:
		return st, loc, nil
	case errors.Is(err, types.ErrSourceUnavailable):
		return nil, loc, sysError(err)
	default:
		return nil, loc, userError(err)
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("encode json: %w", err))
	}
	fmt.Fprintln(w, string(data))
	return nil
}
