package directory

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const importFixture = `city,state,postal_code,latitude,longitude
Portland,Oregon,97201,45.5152,-122.6784
Seattle,Washington,98101,,
,Nebraska,68102,41.25,-95.93
Omaha,Nebraska,68102,41.2587,-95.9378
`

func TestImportCSV_InsertPath(t *testing.T) {
	store := &stubStore{}

	n, err := ImportCSV(context.Background(), store, strings.NewReader(importFixture))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	require.Len(t, store.inserted, 3)

	assert.Equal(t, "Portland", store.inserted[0].City)
	require.NotNil(t, store.inserted[0].Latitude)
	assert.InDelta(t, 45.5152, *store.inserted[0].Latitude, 1e-9)

	// Blank coordinate fields stay nil.
	assert.Nil(t, store.inserted[1].Latitude)
	assert.Nil(t, store.inserted[1].Longitude)

	// The row missing a city was skipped.
	assert.Equal(t, "Omaha", store.inserted[2].City)
}

func TestImportCSV_NoHeader(t *testing.T) {
	store := &stubStore{}

	n, err := ImportCSV(context.Background(), store, strings.NewReader("Boise,Idaho,83702,43.61,-116.20\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.Len(t, store.inserted, 1)
	assert.Equal(t, "Boise", store.inserted[0].City)
}

func TestImportCSV_Empty(t *testing.T) {
	store := &stubStore{}

	n, err := ImportCSV(context.Background(), store, strings.NewReader("city,state,postal_code,latitude,longitude\n"))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, store.inserted)
}

func TestImportCSV_CopyPath(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgres(mock, nil)

	mock.ExpectCopyFrom(pgx.Identifier{"centers"}, importColumns).WillReturnResult(2)

	n, err := ImportCSV(context.Background(), store, strings.NewReader(
		"Portland,Oregon,97201,45.5152,-122.6784\nSeattle,Washington,98101,,\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
