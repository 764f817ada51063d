package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/greenloop/locator/internal/resolve"
	"github.com/greenloop/locator/pkg/nominatim"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <zip>",
	Short: "Resolve a ZIP code against the directory and print the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		geocoder := nominatim.New(
			nominatim.WithBaseURL(cfg.Nominatim.BaseURL),
			nominatim.WithUserAgent(cfg.Nominatim.UserAgent),
			nominatim.WithRateLimit(cfg.Nominatim.RateLimit),
		)

		tables, err := resolve.LoadTables()
		if err != nil {
			return err
		}
		resolver := resolve.New(store, geocoder, tables, *cfg)

		result := resolver.Resolve(ctx, args[0])

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
