package resolve

import (
	"context"
	"strings"
	"sync"

	"github.com/greenloop/locator/internal/config"
	"github.com/greenloop/locator/internal/directory"
	"github.com/greenloop/locator/pkg/nominatim"
)

// fakeStore is an in-memory directory.Store for cascade tests. The mutex
// guards inserted, which the write-back goroutine appends to.
type fakeStore struct {
	mu       sync.Mutex
	centers  []directory.Center
	inserted []directory.Center
	findErr  error
	listErr  error
	block    chan struct{} // non-nil makes FindByPostalCode hang until closed
}

func (f *fakeStore) FindByPostalCode(ctx context.Context, zip string) (*directory.Center, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.findErr != nil {
		return nil, f.findErr
	}
	for i, c := range f.centers {
		if c.PostalCode == zip {
			return &f.centers[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListCenters(ctx context.Context, limit int) ([]directory.Center, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.centers) > limit {
		return f.centers[:limit], nil
	}
	return f.centers, nil
}

func (f *fakeStore) ListByCity(ctx context.Context, city, state string) ([]directory.Center, error) {
	var out []directory.Center
	for _, c := range f.centers {
		if !strings.EqualFold(c.City, city) {
			continue
		}
		if state != "" && !strings.EqualFold(c.State, state) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeStore) CityStates(ctx context.Context) ([]directory.CityState, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	seen := map[string]bool{}
	var pairs []directory.CityState
	for _, c := range f.centers {
		key := directory.Key(c.City, c.State)
		if seen[key] {
			continue
		}
		seen[key] = true
		pairs = append(pairs, directory.NewCityState(c.City, c.State, c.Latitude, c.Longitude))
	}
	return pairs, nil
}

func (f *fakeStore) InsertCenter(ctx context.Context, c directory.Center) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserted = append(f.inserted, c)
	return nil
}

func (f *fakeStore) insertedCenters() []directory.Center {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]directory.Center(nil), f.inserted...)
}

func (f *fakeStore) UpdateCoordinates(ctx context.Context, id int64, lat, lng float64) error {
	return nil
}

func (f *fakeStore) Migrate(ctx context.Context) error { return nil }
func (f *fakeStore) Close() error                      { return nil }

// fakeGeocoder returns canned places.
type fakeGeocoder struct {
	place      *nominatim.Place
	reverse    *nominatim.Place
	err        error
	searchSeen []string
}

func (f *fakeGeocoder) SearchPostalCode(ctx context.Context, zip string) (*nominatim.Place, error) {
	f.searchSeen = append(f.searchSeen, zip)
	return f.place, f.err
}

func (f *fakeGeocoder) Reverse(ctx context.Context, lat, lng float64) (*nominatim.Place, error) {
	return f.reverse, f.err
}

func ptr(v float64) *float64 { return &v }

func center(id int64, city, state, zip string, lat, lng float64) directory.Center {
	return directory.Center{
		ID: id, City: city, State: state, PostalCode: zip,
		Latitude: ptr(lat), Longitude: ptr(lng),
	}
}

func testConfig() config.Config {
	return config.Config{
		Store: config.StoreConfig{ScanLimit: 5000},
		Resolver: config.ResolverConfig{
			StrategyTimeoutSecs: 1,
			OverallTimeoutSecs:  5,
			WriteBack:           false,
		},
	}
}

// testDirectory is a small but geographically plausible directory.
func testDirectory() *fakeStore {
	return &fakeStore{centers: []directory.Center{
		center(1, "Portland", "Oregon", "97201", 45.5152, -122.6784),
		center(2, "Seattle", "Washington", "98101", 47.6062, -122.3321),
		center(3, "Los Angeles", "California", "90012", 34.0522, -118.2437),
		center(4, "San Francisco", "California", "94103", 37.7749, -122.4194),
		center(5, "Omaha", "Nebraska", "68102", 41.2565, -95.9345),
		center(6, "North Platte", "Nebraska", "69101", 41.1239, -100.7654),
		center(7, "Chicago", "Illinois", "60601", 41.8781, -87.6298),
		center(8, "Springfield", "Missouri", "65801", 37.2090, -93.2923),
		center(9, "New York", "New York", "10001", 40.7128, -74.0060),
	}}
}
