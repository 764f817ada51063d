// Package resolve implements the ZIP-code-to-location resolution cascade: an
// ordered chain of strategies that turns a postal code into the best
// available directory city, degrading gracefully instead of failing.
package resolve

import (
	"context"

	"github.com/greenloop/locator/pkg/nominatim"
)

// Source values identify which strategy produced a result.
const (
	SourceDirectOverride    = "direct-override"
	SourceDatabaseDirect    = "database-direct-match"
	SourceDatabaseExact     = "database-exact-match"
	SourceDatabaseCity      = "database-city-match"
	SourceClosestByDistance = "closest-by-distance"
	SourceGeocodedUnknown   = "geocoded-unverified"
	SourceRegionalPattern   = "regional-pattern"
	SourceProximity         = "zip-proximity"
	SourceRegionalFallback  = "regional-fallback"
	SourceGeneralFallback   = "general-fallback"
	SourceDefaultFallback   = "default-fallback"
)

// Query is a validated 5-digit postal code.
type Query struct {
	ZIP string
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Result is the outcome of a resolution. City and State hold display names
// until the formatter emits the response, where State becomes its slug form.
// Error and Fallback are set only on validation failures.
type Result struct {
	City        string       `json:"city"`
	State       string       `json:"state"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	URL         string       `json:"url,omitempty"`
	Source      string       `json:"source"`
	Warning     string       `json:"warning,omitempty"`
	Error       string       `json:"error,omitempty"`
	Fallback    *Result      `json:"fallback,omitempty"`
}

// Strategy is one resolution heuristic. Resolve returns (nil, nil) to defer
// to the next strategy in the cascade; errors are logged by the orchestrator
// and treated the same as a defer.
type Strategy interface {
	Name() string
	Resolve(ctx context.Context, q Query) (*Result, error)
}

// Geocoder is the external geocoding collaborator.
type Geocoder interface {
	SearchPostalCode(ctx context.Context, zip string) (*nominatim.Place, error)
	Reverse(ctx context.Context, lat, lng float64) (*nominatim.Place, error)
}
