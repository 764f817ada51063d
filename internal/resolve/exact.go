package resolve

import (
	"context"

	"github.com/greenloop/locator/internal/directory"
)

// ExactStrategy answers from a directory record whose postal code matches
// the query exactly. The store checks both the text and bare-integer
// spellings because legacy imports were inconsistently typed.
type ExactStrategy struct {
	store directory.Store
}

// NewExactStrategy creates the exact-match strategy.
func NewExactStrategy(store directory.Store) *ExactStrategy {
	return &ExactStrategy{store: store}
}

// Name implements Strategy.
func (s *ExactStrategy) Name() string { return "database-direct-match" }

// Resolve implements Strategy.
func (s *ExactStrategy) Resolve(ctx context.Context, q Query) (*Result, error) {
	c, err := s.store.FindByPostalCode(ctx, q.ZIP)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}

	r := &Result{
		City:   c.City,
		State:  c.State,
		URL:    directory.PageURL(c.City, c.State),
		Source: SourceDatabaseDirect,
	}
	if c.HasCoordinates() {
		r.Coordinates = &Coordinates{Lat: *c.Latitude, Lng: *c.Longitude}
	}
	return r, nil
}
