package main

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/geocode-cli/internal/config"
	"github.com/sells-group/geocode-cli/internal/resolve"
)

var (
	resetUsefulOnly bool
	resetDryRun     bool
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: `Clear "NA" coordinates so the next run retries them`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		n, err := resetUnresolved(cmd.Context(), cfg, resetUsefulOnly, resetDryRun)
		if err != nil {
			return err
		}
		if resetDryRun {
			fmt.Fprintf(cmd.OutOrStdout(), "Would clear %d records\n", n)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d records\n", n)
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetUsefulOnly, "useful-only", false, "only clear records whose address passes the usefulness filter")
	resetCmd.Flags().BoolVar(&resetDryRun, "dry-run", false, "count the records without saving")
	rootCmd.AddCommand(resetCmd)
}

func resetUnresolved(ctx context.Context, c *config.Config, usefulOnly, dryRun bool) (int, error) {
	if err := c.Validate("reset"); err != nil {
		return 0, err
	}

	env, err := openRecords(ctx, c)
	if err != nil {
		return 0, err
	}
	defer env.Close()

	records := env.Records()
	n := resolve.Reset(records, env.Normalizer, usefulOnly)
	if dryRun || n == 0 {
		return n, nil
	}

	if err := env.Persister.Save(ctx, records); err != nil {
		return 0, eris.Wrap(err, "reset: save")
	}
	zap.L().Info("unresolved records cleared", zap.Int("records", n), zap.Bool("useful_only", usefulOnly))
	return n, nil
}
