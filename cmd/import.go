package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/greenloop/locator/internal/directory"
)

var importCmd = &cobra.Command{
	Use:   "import <centers.csv>",
	Short: "Bulk-load center records from a CSV file",
	Long:  "Loads rows of city,state,postal_code,latitude,longitude into the directory. Postgres uses the COPY protocol; other drivers insert row by row.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		f, err := os.Open(args[0])
		if err != nil {
			return eris.Wrapf(err, "open %s", args[0])
		}
		defer f.Close()

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := directory.ImportCSV(ctx, store, f)
		if err != nil {
			return err
		}
		zap.L().Info("import complete", zap.Int64("centers", n))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
