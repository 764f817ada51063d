package resolve

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/greenloop/locator/internal/config"
	"github.com/greenloop/locator/internal/directory"
)

var zipPattern = regexp.MustCompile(`^\d{5}$`)

// ErrInvalidZIP is the error text attached to validation failures. The
// response still carries a fallback city and a 200 status: the consuming UI
// cannot render a dead end.
const ErrInvalidZIP = "zip must be a 5-digit US postal code"

// Resolver runs the strategy cascade with per-strategy timeouts and an
// overall deadline, guaranteeing a non-empty result for every input.
type Resolver struct {
	strategies []Strategy
	formatter  *Formatter
	store      directory.Store
	pairs      *directory.PairCache
	check      *CrossChecker
	geocoder   Geocoder
	cfg        config.ResolverConfig
}

// New wires the full cascade in priority order: each strategy is
// progressively less precise, so the first hit is the best available answer.
func New(store directory.Store, geocoder Geocoder, tables *Tables, cfg config.Config) *Resolver {
	pairs := directory.NewPairCache(store)
	check := NewCrossChecker(pairs)

	return &Resolver{
		strategies: []Strategy{
			NewOverrideStrategy(tables),
			NewExactStrategy(store),
			NewGeocodeStrategy(geocoder, check),
			NewPatternStrategy(tables, check),
			NewProximityStrategy(store, cfg.Store.ScanLimit),
			NewFallbackStrategy(tables, pairs),
		},
		formatter: NewFormatter(tables),
		store:     store,
		pairs:     pairs,
		check:     check,
		geocoder:  geocoder,
		cfg:       cfg.Resolver,
	}
}

// PairCache exposes the resolver's memoized city/state projection so callers
// serving the same process share one snapshot instead of building their own.
func (r *Resolver) PairCache() *directory.PairCache {
	return r.pairs
}

// Strategies exposes the cascade order for introspection and tests.
func (r *Resolver) Strategies() []string {
	names := make([]string, len(r.strategies))
	for i, s := range r.strategies {
		names[i] = s.Name()
	}
	return names
}

// NormalizeZIP reduces raw input to a candidate 5-digit ZIP: surrounding
// whitespace is dropped and ZIP+4 forms are truncated to their first five
// characters. The second return reports whether the result is well-formed.
func NormalizeZIP(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) > 5 {
		trimmed = trimmed[:5]
	}
	return trimmed, zipPattern.MatchString(trimmed)
}

// Resolve is the single public operation: raw ZIP in, best-effort location
// out. It never fails; malformed input yields a validation error with a
// fallback city attached.
func (r *Resolver) Resolve(ctx context.Context, rawZIP string) *Result {
	zip, ok := NormalizeZIP(rawZIP)
	if !ok {
		fb := r.formatter.Format(r.ultimateFallback(ctx))
		return &Result{
			City:     fb.City,
			State:    fb.State,
			URL:      fb.URL,
			Source:   fb.Source,
			Error:    ErrInvalidZIP,
			Fallback: fb,
		}
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.OverallTimeout())
	defer cancel()

	q := Query{ZIP: zip}
	for _, s := range r.strategies {
		if ctx.Err() != nil {
			// Overall deadline elapsed: return what we have immediately.
			break
		}
		res := r.runStrategy(ctx, s, q)
		if res == nil {
			continue
		}
		r.maybeWriteBack(q, res)
		return r.formatter.Format(res)
	}

	return r.formatter.Format(r.ultimateFallback(ctx))
}

// ResolveCoordinates is the coordinate variant used by the geolocation
// endpoint: reverse geocode, then ground against the directory. Like
// Resolve, it always produces a result.
func (r *Resolver) ResolveCoordinates(ctx context.Context, lat, lng float64) *Result {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		fb := r.formatter.Format(r.ultimateFallback(ctx))
		return &Result{
			City:     fb.City,
			State:    fb.State,
			URL:      fb.URL,
			Source:   fb.Source,
			Error:    "coordinates out of range",
			Fallback: fb,
		}
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.OverallTimeout())
	defer cancel()

	coords := &Coordinates{Lat: lat, Lng: lng}

	place, err := r.geocoder.Reverse(ctx, lat, lng)
	if err != nil {
		zap.L().Warn("resolve: reverse geocode failed", zap.Error(err))
	}

	if place != nil {
		match, err := r.check.Match(ctx, place.City, place.State, coords)
		if err == nil && match != nil {
			res := &Result{
				City:        match.Pair.City,
				State:       match.Pair.State,
				Coordinates: coords,
				URL:         match.Pair.URL,
				Source:      match.Source,
			}
			return r.formatter.Format(res)
		}
		return r.formatter.Format(&Result{
			City:        place.City,
			State:       place.State,
			Coordinates: coords,
			Source:      SourceGeocodedUnknown,
			Warning:     WarningNotInDirectory,
		})
	}

	// No reverse geocode: fall straight back to the nearest directory city.
	if pairs, perr := r.pairs.Pairs(ctx); perr == nil {
		if m := r.check.nearest(pairs, "", false, *coords); m != nil {
			res := pairResult(*m, SourceClosestByDistance)
			res.Coordinates = coords
			return r.formatter.Format(res)
		}
	}
	return r.formatter.Format(r.ultimateFallback(ctx))
}

// runStrategy races one strategy against the per-strategy bound. Timeouts
// and errors defer to the next strategy; a losing in-flight call is
// abandoned rather than awaited, which is safe because collaborator reads
// are idempotent.
func (r *Resolver) runStrategy(ctx context.Context, s Strategy, q Query) *Result {
	sctx, cancel := context.WithTimeout(ctx, r.cfg.StrategyTimeout())
	defer cancel()

	type outcome struct {
		res *Result
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		res, err := s.Resolve(sctx, q)
		ch <- outcome{res: res, err: err}
	}()

	select {
	case o := <-ch:
		if o.err != nil {
			zap.L().Warn("resolve: strategy failed",
				zap.String("strategy", s.Name()),
				zap.String("zip", q.ZIP),
				zap.Error(o.err),
			)
			return nil
		}
		if o.res != nil {
			zap.L().Debug("resolve: strategy hit",
				zap.String("strategy", s.Name()),
				zap.String("zip", q.ZIP),
				zap.String("source", o.res.Source),
			)
		}
		return o.res
	case <-sctx.Done():
		zap.L().Debug("resolve: strategy timed out",
			zap.String("strategy", s.Name()),
			zap.String("zip", q.ZIP),
		)
		return nil
	}
}

// maybeWriteBack records a newly geocoded ZIP in the directory so future
// lookups hit the exact-match strategy. Best effort only: it runs detached
// and must never block or fail the response.
func (r *Resolver) maybeWriteBack(q Query, res *Result) {
	if !r.cfg.WriteBack {
		return
	}
	switch res.Source {
	case SourceDatabaseExact, SourceDatabaseCity, SourceClosestByDistance, SourceGeocodedUnknown:
	default:
		return
	}

	c := directory.Center{
		City:       res.City,
		State:      res.State,
		PostalCode: q.ZIP,
	}
	if res.Coordinates != nil {
		c.Latitude = &res.Coordinates.Lat
		c.Longitude = &res.Coordinates.Lng
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := r.store.InsertCenter(ctx, c); err != nil {
			zap.L().Warn("resolve: write-back failed",
				zap.String("zip", q.ZIP),
				zap.Error(err),
			)
		}
	}()
}

// ultimateFallback returns the first directory city, or nil when the
// directory is empty so the formatter supplies the hardcoded default.
func (r *Resolver) ultimateFallback(ctx context.Context) *Result {
	pairs, err := r.pairs.Pairs(ctx)
	if err != nil || len(pairs) == 0 {
		return nil
	}
	return pairResult(pairs[0], SourceGeneralFallback)
}
