package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sells-group/geocode-cli/internal/config"
	"github.com/sells-group/geocode-cli/internal/resolve"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show resolution progress of the record store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := storeStatus(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		printStatus(cmd.OutOrStdout(), s)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func storeStatus(ctx context.Context, c *config.Config) (resolve.Summary, error) {
	if err := c.Validate("status"); err != nil {
		return resolve.Summary{}, err
	}

	env, err := openRecords(ctx, c)
	if err != nil {
		return resolve.Summary{}, err
	}
	defer env.Close()

	return resolve.Summarize(env.Records(), env.Normalizer), nil
}

func printStatus(w io.Writer, s resolve.Summary) {
	fmt.Fprintln(w, "=== Geocoding Status ===")
	fmt.Fprintf(w, "Records:            %d\n", s.Records)
	fmt.Fprintf(w, "Resolved:           %d\n", s.Resolved)
	fmt.Fprintf(w, "Unresolved (NA):    %d\n", s.Unresolved)
	fmt.Fprintf(w, "  retryable:        %d\n", s.UnresolvedUseful)
	fmt.Fprintf(w, "Pending:            %d\n", s.Pending)
	fmt.Fprintf(w, "  addresses:        %d\n", s.PendingKeys)
	fmt.Fprintf(w, "  useful addresses: %d\n", s.UsefulKeys)
	if s.Malformed > 0 {
		fmt.Fprintf(w, "Malformed:          %d\n", s.Malformed)
	}
}
