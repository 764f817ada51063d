package resolve

import "context"

// PatternStrategy maps the ZIP's 3-digit prefix to a state and walks that
// prefix's preferred-city list, returning the first city the directory
// covers. The lists encode editorial judgment: a well-known directory city
// beats the geographic centroid of the prefix.
type PatternStrategy struct {
	tables *Tables
	check  *CrossChecker
}

// NewPatternStrategy creates the regional-pattern strategy.
func NewPatternStrategy(tables *Tables, check *CrossChecker) *PatternStrategy {
	return &PatternStrategy{tables: tables, check: check}
}

// Name implements Strategy.
func (s *PatternStrategy) Name() string { return "regional-pattern" }

// Resolve implements Strategy.
func (s *PatternStrategy) Resolve(ctx context.Context, q Query) (*Result, error) {
	p, ok := s.tables.Patterns[q.ZIP[:3]]
	if !ok {
		return nil, nil
	}

	for _, city := range p.Cities {
		match, err := s.check.Match(ctx, city, p.State, nil)
		if err != nil {
			return nil, err
		}
		// Only a same-state grounding counts here; a same-name city in
		// another state would contradict the prefix table.
		if match == nil || match.Source != SourceDatabaseExact {
			continue
		}
		r := &Result{
			City:   match.Pair.City,
			State:  match.Pair.State,
			URL:    match.Pair.URL,
			Source: SourceRegionalPattern,
		}
		if match.Pair.HasCoordinates() {
			r.Coordinates = &Coordinates{Lat: *match.Pair.Latitude, Lng: *match.Pair.Longitude}
		}
		return r, nil
	}
	return nil, nil
}
