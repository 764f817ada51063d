package resolve

import (
	"context"

	"go.uber.org/zap"
)

// WarningNotInDirectory marks a geocoded city the directory does not cover.
const WarningNotInDirectory = "location is not covered by the directory and may lack a dedicated page"

// GeocodeStrategy forward-geocodes the ZIP via the external collaborator and
// grounds the answer against the directory cross-check. A geocoded city the
// directory knows nothing about is still returned, flagged with a warning,
// rather than deferred: it is more precise than any later heuristic.
type GeocodeStrategy struct {
	geocoder Geocoder
	check    *CrossChecker
}

// NewGeocodeStrategy creates the external-geocoding strategy.
func NewGeocodeStrategy(geocoder Geocoder, check *CrossChecker) *GeocodeStrategy {
	return &GeocodeStrategy{geocoder: geocoder, check: check}
}

// Name implements Strategy.
func (s *GeocodeStrategy) Name() string { return "external-geocoding" }

// Resolve implements Strategy.
func (s *GeocodeStrategy) Resolve(ctx context.Context, q Query) (*Result, error) {
	place, err := s.geocoder.SearchPostalCode(ctx, q.ZIP)
	if err != nil {
		return nil, err
	}
	if place == nil {
		return nil, nil
	}

	coords := &Coordinates{Lat: place.Latitude, Lng: place.Longitude}
	match, err := s.check.Match(ctx, place.City, place.State, coords)
	if err != nil {
		// Cross-check failures degrade to the ungrounded geocoded pair.
		zap.L().Warn("resolve: cross-check failed", zap.String("zip", q.ZIP), zap.Error(err))
		match = nil
	}

	if match == nil {
		return &Result{
			City:        place.City,
			State:       place.State,
			Coordinates: coords,
			Source:      SourceGeocodedUnknown,
			Warning:     WarningNotInDirectory,
		}, nil
	}

	return &Result{
		City:        match.Pair.City,
		State:       match.Pair.State,
		Coordinates: coords,
		URL:         match.Pair.URL,
		Source:      match.Source,
	}, nil
}
