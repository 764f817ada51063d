package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_NilBecomesDefault(t *testing.T) {
	f := NewFormatter(MustLoadTables())

	out := f.Format(nil)
	assert.Equal(t, "New York", out.City)
	assert.Equal(t, "new-york", out.State)
	assert.Equal(t, SourceDefaultFallback, out.Source)
	assert.Equal(t, "/new-york/new-york", out.URL)
	require.NotNil(t, out.Coordinates)
}

func TestFormat_SlugsStateAndFillsURL(t *testing.T) {
	f := NewFormatter(MustLoadTables())

	out := f.Format(&Result{City: "Saint Louis", State: "Missouri", Source: SourceProximity})
	assert.Equal(t, "Saint Louis", out.City)
	assert.Equal(t, "missouri", out.State)
	assert.Equal(t, "/missouri/saint-louis", out.URL)
}

func TestFormat_FillsCoordinatesFromTable(t *testing.T) {
	f := NewFormatter(MustLoadTables())

	out := f.Format(&Result{City: "Portland", State: "Oregon", Source: SourceRegionalPattern})
	require.NotNil(t, out.Coordinates)
	assert.InDelta(t, 45.5152, out.Coordinates.Lat, 0.001)
}

func TestFormat_KeepsExistingCoordinatesAndURL(t *testing.T) {
	f := NewFormatter(MustLoadTables())

	in := &Result{
		City: "Portland", State: "Oregon",
		Coordinates: &Coordinates{Lat: 1, Lng: 2},
		URL:         "/custom/url",
		Source:      SourceDatabaseDirect,
	}
	out := f.Format(in)
	assert.Equal(t, "/custom/url", out.URL)
	assert.Equal(t, 1.0, out.Coordinates.Lat)
}

func TestFormat_EmptyCityFallsToDefault(t *testing.T) {
	f := NewFormatter(MustLoadTables())

	out := f.Format(&Result{State: "Oregon", Source: SourceProximity})
	assert.Equal(t, "New York", out.City)
	assert.Equal(t, SourceDefaultFallback, out.Source)
}
