package resolve

import (
	"context"
	"strings"

	"github.com/greenloop/locator/internal/directory"
)

// FallbackStrategy maps the ZIP's leading digits to a broad US region and
// returns any directory city in that region's state. The 2-digit prefix map
// is checked before the coarser 1-digit USPS region map. When even the
// region's state has no directory coverage, the first directory city overall
// is returned tagged general-fallback.
type FallbackStrategy struct {
	tables *Tables
	pairs  *directory.PairCache
}

// NewFallbackStrategy creates the regional fallback strategy.
func NewFallbackStrategy(tables *Tables, pairs *directory.PairCache) *FallbackStrategy {
	return &FallbackStrategy{tables: tables, pairs: pairs}
}

// Name implements Strategy.
func (s *FallbackStrategy) Name() string { return "regional-fallback" }

// Resolve implements Strategy.
func (s *FallbackStrategy) Resolve(ctx context.Context, q Query) (*Result, error) {
	pairs, err := s.pairs.Pairs(ctx)
	if err != nil {
		return nil, err
	}

	state, ok := s.tables.Regions2[q.ZIP[:2]]
	if !ok {
		state, ok = s.tables.Regions1[q.ZIP[:1]]
	}
	if ok {
		stateLower := strings.ToLower(state)
		for _, p := range pairs {
			if strings.ToLower(p.State) == stateLower {
				return pairResult(p, SourceRegionalFallback), nil
			}
		}
	}

	if len(pairs) > 0 {
		return pairResult(pairs[0], SourceGeneralFallback), nil
	}
	return nil, nil
}

func pairResult(p directory.CityState, source string) *Result {
	r := &Result{
		City:   p.City,
		State:  p.State,
		URL:    p.URL,
		Source: source,
	}
	if p.HasCoordinates() {
		r.Coordinates = &Coordinates{Lat: *p.Latitude, Lng: *p.Longitude}
	}
	return r
}
