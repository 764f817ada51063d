package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/greenloop/locator/internal/config"
	"github.com/greenloop/locator/internal/directory"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "locator",
	Short: "Electronics-recycling center locator backend",
	Long:  "Serves the recycling-center directory API: ZIP and coordinate resolution, center listings, and directory maintenance commands.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
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

// openStore connects the configured directory store.
func openStore(ctx context.Context) (directory.Store, error) {
	return directory.Open(ctx, cfg.Store)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
