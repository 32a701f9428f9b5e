package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rotisserie/eris"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/sells-group/geocode-cli/internal/config"
	"github.com/sells-group/geocode-cli/internal/resolve"
)

var (
	runOutput          string
	runLimit           int
	runCheckpointEvery int
	runSeedCache       bool
	runProgress        bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Geocode every record with an empty coordinate",
	Long:  "Resolves pending records until none remain, --limit iterations have run or the process is interrupted. Progress is saved on interrupt, so a later run picks up where this one stopped.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		// After the first signal the default handlers are back, so a second
		// Ctrl-C kills a run stuck on an in-flight request.
		stopOnDone(ctx, stop)

		flags := cmd.Flags()
		if flags.Changed("output") {
			cfg.Store.Output = runOutput
		}
		if flags.Changed("limit") {
			cfg.Pipeline.MaxIterations = runLimit
		}
		if flags.Changed("checkpoint-every") {
			cfg.Pipeline.CheckpointEvery = runCheckpointEvery
		}
		if flags.Changed("seed-cache") {
			cfg.Pipeline.SeedCache = runSeedCache
		}

		stats, err := runGeocode(ctx, cfg, runProgress && isatty.IsTerminal(os.Stderr.Fd()))
		if err != nil {
			return err
		}
		printRunStats(cmd.OutOrStdout(), stats)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "write results here instead of the input (file stores only)")
	runCmd.Flags().IntVar(&runLimit, "limit", 0, "stop after this many iterations (0 = no limit)")
	runCmd.Flags().IntVar(&runCheckpointEvery, "checkpoint-every", 0, "save after every N iterations (0 = only at the end)")
	runCmd.Flags().BoolVar(&runSeedCache, "seed-cache", false, "prefill the address cache from rows that already have a coordinate")
	runCmd.Flags().BoolVar(&runProgress, "progress", false, "show a progress bar on stderr when it is a terminal")
	rootCmd.AddCommand(runCmd)
}

// runGeocode runs the resolution loop over the configured store.
// Interruption through ctx is reported in the stats, not as an error.
func runGeocode(ctx context.Context, c *config.Config, progress bool) (*resolve.Stats, error) {
	if err := c.Validate("run"); err != nil {
		return nil, err
	}

	env, err := openRecords(ctx, c)
	if err != nil {
		return nil, err
	}
	defer env.Close()

	var onIteration func(resolve.Stats)
	if progress {
		bar := newProgressBar(pendingIterations(env, c.Pipeline.MaxIterations))
		defer bar.Finish() //nolint:errcheck
		onIteration = func(resolve.Stats) { _ = bar.Add(1) }
	}

	stats, err := newEngine(c, env, onIteration).Run(ctx, env.Records())
	if err != nil {
		return stats, eris.Wrap(err, "run")
	}
	return stats, nil
}

// stopOnDone calls stop once ctx is done.
func stopOnDone(ctx context.Context, stop context.CancelFunc) {
	go func() {
		<-ctx.Done()
		stop()
	}()
}

// pendingIterations is the number of iterations a run will take: one per
// distinct pending address, capped by the iteration limit.
func pendingIterations(env *recordEnv, limit int) int {
	n := resolve.Summarize(env.Records(), env.Normalizer).PendingKeys
	if limit > 0 && limit < n {
		return limit
	}
	return n
}

func newProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Geocoding"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func printRunStats(w io.Writer, s *resolve.Stats) {
	fmt.Fprintln(w, "=== Geocoding Run ===")
	fmt.Fprintf(w, "Run ID:             %s\n", s.RunID)
	fmt.Fprintf(w, "Stopped:            %s\n", s.StopReason)
	fmt.Fprintf(w, "Iterations:         %d\n", s.Iterations)
	fmt.Fprintf(w, "API calls:          %d\n", s.APICalls)
	fmt.Fprintf(w, "  resolved:         %d\n", s.Resolved)
	fmt.Fprintf(w, "  no result:        %d\n", s.NoResult)
	fmt.Fprintf(w, "Cache hits:         %d\n", s.CacheHits)
	fmt.Fprintf(w, "Discarded:          %d\n", s.Discarded)
	fmt.Fprintf(w, "Rows updated:       %d\n", s.RowsUpdated)
	if s.Checkpoints > 0 {
		fmt.Fprintf(w, "Checkpoints:        %d\n", s.Checkpoints)
	}
}

func secondsToDuration(secs int) time.Duration {
	return time.Duration(secs) * time.Second
}
