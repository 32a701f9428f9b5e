package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/geocode-cli/internal/config"
)

var (
	cfg       *config.Config
	inputPath string
)

var rootCmd = &cobra.Command{
	Use:   "geocode-cli",
	Short: "Resolve business addresses to coordinates",
	Long:  "Builds canonical addresses from tabular business records, geocodes each distinct address once through the Google Geocoding API and writes coordinates back to the record store.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if inputPath != "" {
			c.Store.Source = inputPath
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&inputPath, "input", "i", "", "record store: .xlsx, .csv, .db/.sqlite or postgres:// URL (overrides store.source)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
