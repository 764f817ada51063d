package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/greenloop/locator/internal/directory"
	"github.com/greenloop/locator/pkg/nominatim"
)

var backfillConcurrency int

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Geocode directory centers that are missing coordinates",
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

		centers, err := store.ListCenters(ctx, cfg.Store.ScanLimit)
		if err != nil {
			return err
		}

		var missing []directory.Center
		for _, c := range centers {
			if !c.HasCoordinates() {
				missing = append(missing, c)
			}
		}
		zap.L().Info("backfill starting",
			zap.Int("centers", len(centers)),
			zap.Int("missing_coordinates", len(missing)),
		)

		var updated int64
		eg, gCtx := errgroup.WithContext(ctx)
		eg.SetLimit(backfillConcurrency)
		results := make([]bool, len(missing))

		for i, c := range missing {
			i, c := i, c
			eg.Go(func() error {
				place, err := geocoder.SearchPostalCode(gCtx, c.PostalCode)
				if err != nil || place == nil {
					zap.L().Debug("backfill: no geocode",
						zap.String("zip", c.PostalCode),
						zap.Error(err),
					)
					return nil // individual misses don't fail the run
				}
				if err := store.UpdateCoordinates(gCtx, c.ID, place.Latitude, place.Longitude); err != nil {
					zap.L().Warn("backfill: update failed",
						zap.Int64("id", c.ID),
						zap.Error(err),
					)
					return nil
				}
				results[i] = true
				return nil
			})
		}

		if err := eg.Wait(); err != nil {
			return err
		}
		for _, ok := range results {
			if ok {
				updated++
			}
		}
		zap.L().Info("backfill complete", zap.Int64("updated", updated))
		return nil
	},
}

func init() {
	backfillCmd.Flags().IntVar(&backfillConcurrency, "concurrency", 2, "parallel geocode requests")
	rootCmd.AddCommand(backfillCmd)
}
