package directory

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/greenloop/locator/internal/config"
)

// Store defines read and write access to the center directory.
type Store interface {
	// FindByPostalCode returns the first center whose postal code matches the
	// given 5-digit ZIP in either its text or bare-integer representation.
	// Returns (nil, nil) when no center matches.
	FindByPostalCode(ctx context.Context, zip string) (*Center, error)

	// ListCenters returns a bounded scan of the directory, used by the
	// proximity-scoring strategy. Iteration order is stable (ordered by id).
	ListCenters(ctx context.Context, limit int) ([]Center, error)

	// ListByCity returns all centers in a city. State narrows the match when
	// non-empty.
	ListByCity(ctx context.Context, city, state string) ([]Center, error)

	// CityStates returns the unique (city, state) pairs in the directory with
	// representative coordinates.
	CityStates(ctx context.Context) ([]CityState, error)

	// InsertCenter adds a center record, used by the best-effort write-back of
	// newly geocoded ZIPs.
	InsertCenter(ctx context.Context, c Center) error

	// UpdateCoordinates backfills coordinates on an existing center.
	UpdateCoordinates(ctx context.Context, id int64, lat, lng float64) error

	// Migrate creates the centers table if missing.
	Migrate(ctx context.Context) error

	// Close releases the underlying connections.
	Close() error
}

// Open creates a Store for the configured driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "postgres":
		return OpenPostgres(ctx, cfg)
	case "sqlite":
		return NewSQLite(cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("directory: unknown store driver %q", cfg.Driver)
	}
}
