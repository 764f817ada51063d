package resolve

import (
	"context"
	"strings"

	"github.com/greenloop/locator/internal/directory"
)

// CrossMatch is the outcome of grounding a city/state pair against the
// directory.
type CrossMatch struct {
	Pair   directory.CityState
	Source string // which tier matched
}

// CrossChecker validates city/state pairs against the directory before they
// are trusted as final answers.
type CrossChecker struct {
	pairs *directory.PairCache
}

// NewCrossChecker creates a CrossChecker over the memoized pair cache.
func NewCrossChecker(pairs *directory.PairCache) *CrossChecker {
	return &CrossChecker{pairs: pairs}
}

// Match grounds a city/state pair in the directory. Three tiers, most
// precise first:
//
//  1. exact case-insensitive city+state match
//  2. city-name match in any state
//  3. nearest directory city by haversine distance, when coordinates are
//     available, preferring same-state candidates if any exist
//
// Returns nil when no tier matches; the caller's ungrounded pair is then
// used as-is with a warning.
func (c *CrossChecker) Match(ctx context.Context, city, state string, coords *Coordinates) (*CrossMatch, error) {
	pairs, err := c.pairs.Pairs(ctx)
	if err != nil {
		return nil, err
	}

	key := directory.Key(city, state)
	for _, p := range pairs {
		if directory.Key(p.City, p.State) == key {
			return &CrossMatch{Pair: p, Source: SourceDatabaseExact}, nil
		}
	}

	// A same-state nearest-city match outranks a same-name city in the wrong
	// state: geocoded "Springfield, Illinois" should land on an Illinois city
	// before a Springfield elsewhere.
	if coords != nil {
		if m := c.nearest(pairs, state, true, *coords); m != nil {
			return &CrossMatch{Pair: *m, Source: SourceClosestByDistance}, nil
		}
	}

	cityLower := strings.ToLower(city)
	for i, p := range pairs {
		if strings.ToLower(p.City) == cityLower {
			return &CrossMatch{Pair: pairs[i], Source: SourceDatabaseCity}, nil
		}
	}

	if coords != nil {
		if m := c.nearest(pairs, state, false, *coords); m != nil {
			return &CrossMatch{Pair: *m, Source: SourceClosestByDistance}, nil
		}
	}
	return nil, nil
}

// nearest picks the closest directory city with known coordinates,
// optionally restricted to candidates in the given state.
func (c *CrossChecker) nearest(pairs []directory.CityState, state string, sameStateOnly bool, coords Coordinates) *directory.CityState {
	stateLower := strings.ToLower(state)

	var found *directory.CityState
	bestDist := 0.0
	for i, p := range pairs {
		if !p.HasCoordinates() {
			continue
		}
		if sameStateOnly && strings.ToLower(p.State) != stateLower {
			continue
		}
		d := HaversineKM(coords.Lat, coords.Lng, *p.Latitude, *p.Longitude)
		if found == nil || d < bestDist {
			found = &pairs[i]
			bestDist = d
		}
	}
	return found
}
