package resolve

import (
	"context"
	"strconv"

	"github.com/greenloop/locator/internal/directory"
)

// ProximityStrategy compares the query ZIP against every directory postal
// code by digit-prefix proximity and returns the best-scoring center. Used
// when nothing produced coordinates for the query ZIP itself; ties break on
// directory iteration order, which the store keeps stable.
type ProximityStrategy struct {
	store     directory.Store
	scanLimit int
}

// NewProximityStrategy creates the proximity-scoring strategy.
func NewProximityStrategy(store directory.Store, scanLimit int) *ProximityStrategy {
	if scanLimit <= 0 {
		scanLimit = 5000
	}
	return &ProximityStrategy{store: store, scanLimit: scanLimit}
}

// Name implements Strategy.
func (s *ProximityStrategy) Name() string { return "zip-proximity" }

// Resolve implements Strategy.
func (s *ProximityStrategy) Resolve(ctx context.Context, q Query) (*Result, error) {
	centers, err := s.store.ListCenters(ctx, s.scanLimit)
	if err != nil {
		return nil, err
	}

	var best *directory.Center
	bestScore := -1
	for i, c := range centers {
		zip := normalizeZIP(c.PostalCode)
		if zip == "" {
			continue
		}
		score := ProximityScore(q.ZIP, zip)
		if score > bestScore {
			best = &centers[i]
			bestScore = score
		}
	}
	if best == nil {
		return nil, nil
	}

	r := &Result{
		City:   best.City,
		State:  best.State,
		URL:    directory.PageURL(best.City, best.State),
		Source: SourceProximity,
	}
	if best.HasCoordinates() {
		r.Coordinates = &Coordinates{Lat: *best.Latitude, Lng: *best.Longitude}
	}
	return r, nil
}

// normalizeZIP left-pads bare-integer postal codes back to five digits.
// Returns "" for values that cannot be a US ZIP.
func normalizeZIP(s string) string {
	if len(s) > 5 {
		s = s[:5]
	}
	if _, err := strconv.Atoi(s); err != nil {
		return ""
	}
	for len(s) < 5 {
		s = "0" + s
	}
	return s
}
