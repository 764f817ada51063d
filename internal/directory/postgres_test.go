package directory

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func centerColumns() []string {
	return []string{"id", "city", "state", "postal_code", "latitude", "longitude"}
}

func f64(v float64) *float64 { return &v }

func TestPostgresFindByPostalCode(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgres(mock, nil)

	mock.ExpectQuery("SELECT id, city, state, postal_code, latitude, longitude").
		WithArgs("97201", "97201").
		WillReturnRows(pgxmock.NewRows(centerColumns()).
			AddRow(int64(1), "Portland", "Oregon", "97201", f64(45.5152), f64(-122.6784)))

	c, err := store.FindByPostalCode(context.Background(), "97201")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Portland", c.City)
	assert.True(t, c.HasCoordinates())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByPostalCode_BareIntegerForm(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgres(mock, nil)

	// Leading-zero ZIPs also query the legacy integer spelling.
	mock.ExpectQuery("SELECT id, city, state, postal_code, latitude, longitude").
		WithArgs("00501", "501").
		WillReturnRows(pgxmock.NewRows(centerColumns()).
			AddRow(int64(2), "Holtsville", "New York", "501", nil, nil))

	c, err := store.FindByPostalCode(context.Background(), "00501")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Holtsville", c.City)
	assert.False(t, c.HasCoordinates())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByPostalCode_NoRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgres(mock, nil)

	mock.ExpectQuery("SELECT id, city, state, postal_code, latitude, longitude").
		WithArgs("99999", "99999").
		WillReturnRows(pgxmock.NewRows(centerColumns()))

	c, err := store.FindByPostalCode(context.Background(), "99999")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestPostgresListCenters(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgres(mock, nil)

	mock.ExpectQuery("SELECT id, city, state, postal_code, latitude, longitude").
		WithArgs(100).
		WillReturnRows(pgxmock.NewRows(centerColumns()).
			AddRow(int64(1), "Portland", "Oregon", "97201", f64(45.5), f64(-122.7)).
			AddRow(int64(2), "Seattle", "Washington", "98101", nil, nil))

	centers, err := store.ListCenters(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, centers, 2)
	assert.Equal(t, "Seattle", centers[1].City)
}

func TestPostgresListByCity_StateNarrows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgres(mock, nil)

	mock.ExpectQuery("SELECT id, city, state, postal_code, latitude, longitude").
		WithArgs("Springfield", "Missouri").
		WillReturnRows(pgxmock.NewRows(centerColumns()).
			AddRow(int64(8), "Springfield", "Missouri", "65801", nil, nil))

	centers, err := store.ListByCity(context.Background(), "Springfield", "Missouri")
	require.NoError(t, err)
	require.Len(t, centers, 1)
	assert.Equal(t, "Missouri", centers[0].State)
}

func TestPostgresCityStates(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgres(mock, nil)

	mock.ExpectQuery("SELECT DISTINCT ON").
		WillReturnRows(pgxmock.NewRows([]string{"city", "state", "latitude", "longitude"}).
			AddRow("Portland", "Oregon", f64(45.5), f64(-122.7)).
			AddRow("Seattle", "Washington", nil, nil))

	pairs, err := store.CityStates(context.Background())
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, "portland", pairs[0].Slug)
	assert.Equal(t, "/oregon/portland", pairs[0].URL)
	assert.False(t, pairs[1].HasCoordinates())
}

func TestPostgresInsertCenter(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgres(mock, nil)

	mock.ExpectExec("INSERT INTO centers").
		WithArgs("Portland", "Oregon", "97210", f64(45.52), f64(-122.68)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = store.InsertCenter(context.Background(), Center{
		City: "Portland", State: "Oregon", PostalCode: "97210",
		Latitude: f64(45.52), Longitude: f64(-122.68),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateCoordinates(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgres(mock, nil)

	mock.ExpectExec("UPDATE centers SET latitude").
		WithArgs(45.52, -122.68, int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, store.UpdateCoordinates(context.Background(), 7, 45.52, -122.68))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMigrate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgres(mock, nil)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS centers").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, store.Migrate(context.Background()))
}
