package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

// library is the JSON form of a snapshot.
type library struct {
	Records     []types.Record         `json:"records"`
	Collections []types.CollectionView `json:"collections"`
}

// Record orderings accepted by show --order.
const (
	orderTitle  = "title"
	orderID     = "id"
	orderRating = "rating"
)

func newShowCmd(e *env, flags *rootFlags) *cobra.Command {
	var order string
	cmd := &cobra.Command{
		Use:   "show [location]",
		Short: "Print the records and collections in a snapshot",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := loadScratch(cmd, e, args)
			if err != nil {
				return err
			}
			lib := library{Collections: st.Collections()}
			switch order {
			case orderTitle:
				lib.Records = st.Records()
			case orderID:
				lib.Records = st.RecordsByID()
			case orderRating:
				lib.Records = st.RecordsByRating()
			default:
				return userError(fmt.Errorf("unknown order %q: want title, id or rating", order))
			}
			if flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), lib)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Records (%d):\n", len(lib.Records))
			for _, r := range lib.Records {
				fmt.Fprintln(out, r)
			}
			fmt.Fprintf(out, "Collections (%d):\n", len(lib.Collections))
			for _, c := range lib.Collections {
				fmt.Fprintf(out, "%s (%d):\n", c.Name, len(c.Members))
				for _, r := range c.Members {
					fmt.Fprintf(out, "  %s\n", r)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&order, "order", orderTitle, "record order: title, id or rating")
	return cmd
}
