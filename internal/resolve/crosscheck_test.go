package resolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenloop/locator/internal/directory"
)

func newChecker(store *fakeStore) *CrossChecker {
	return NewCrossChecker(directory.NewPairCache(store))
}

func TestCrossCheck_ExactMatch(t *testing.T) {
	check := newChecker(testDirectory())

	m, err := check.Match(context.Background(), "portland", "OREGON", nil)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, SourceDatabaseExact, m.Source)
	assert.Equal(t, "Portland", m.Pair.City)
	assert.Equal(t, "/oregon/portland", m.Pair.URL)
}

func TestCrossCheck_CityOnlyWithoutCoordinates(t *testing.T) {
	check := newChecker(testDirectory())

	// Springfield, Illinois isn't in the directory; without coordinates the
	// Missouri Springfield is the best available grounding.
	m, err := check.Match(context.Background(), "Springfield", "Illinois", nil)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, SourceDatabaseCity, m.Source)
	assert.Equal(t, "Missouri", m.Pair.State)
}

func TestCrossCheck_SameStateDistanceBeatsCityElsewhere(t *testing.T) {
	check := newChecker(testDirectory())

	// With coordinates near Springfield, IL, the Illinois directory city
	// (Chicago) outranks the same-name Springfield in Missouri.
	coords := &Coordinates{Lat: 39.7817, Lng: -89.6501}
	m, err := check.Match(context.Background(), "Springfield", "Illinois", coords)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, SourceClosestByDistance, m.Source)
	assert.Equal(t, "Chicago", m.Pair.City)
	assert.Equal(t, "Illinois", m.Pair.State)
}

func TestCrossCheck_NearestAnyStateWhenStateUncovered(t *testing.T) {
	check := newChecker(testDirectory())

	// Boise, Idaho: no Idaho coverage and no same-name city, so the nearest
	// directory city anywhere wins. An unknown city name keeps tier 2 out.
	coords := &Coordinates{Lat: 43.6150, Lng: -116.2023}
	m, err := check.Match(context.Background(), "Boise", "Idaho", coords)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, SourceClosestByDistance, m.Source)
	assert.Contains(t, []string{"Portland", "Seattle"}, m.Pair.City)
}

func TestCrossCheck_NoMatch(t *testing.T) {
	check := newChecker(&fakeStore{})

	m, err := check.Match(context.Background(), "Nowhere", "Nostate", nil)
	require.NoError(t, err)
	assert.Nil(t, m)
}
