package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenloop/locator/internal/api"
	"github.com/greenloop/locator/internal/config"
	"github.com/greenloop/locator/internal/directory"
	"github.com/greenloop/locator/internal/resolve"
	"github.com/greenloop/locator/pkg/nominatim"
)

// TestServeWiring assembles the serve command's dependency graph against a
// scratch SQLite directory and exercises it over HTTP.
func TestServeWiring(t *testing.T) {
	ctx := context.Background()

	store, err := directory.NewSQLite(filepath.Join(t.TempDir(), "locator.db"))
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Migrate(ctx))

	lat, lng := 45.5152, -122.6784
	require.NoError(t, store.InsertCenter(ctx, directory.Center{
		City: "Portland", State: "Oregon", PostalCode: "97201",
		Latitude: &lat, Longitude: &lng,
	}))

	tables, err := resolve.LoadTables()
	require.NoError(t, err)

	c := config.Config{
		Store:    config.StoreConfig{ScanLimit: 100},
		Resolver: config.ResolverConfig{StrategyTimeoutSecs: 1, OverallTimeoutSecs: 5},
	}
	resolver := resolve.New(store, nominatim.New(), tables, c)
	server := api.NewServer(resolver, store)
	server.Warm(ctx)

	srv := httptest.NewServer(server.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/zipcode?zip=97201")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result resolve.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "Portland", result.City)
	assert.Equal(t, resolve.SourceDatabaseDirect, result.Source)
}
