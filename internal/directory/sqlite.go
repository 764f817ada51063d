package directory

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite. It exists for local
// development and tests; production runs on Postgres.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "directory: sqlite open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := sqlDB.Exec(pragma); err != nil {
			sqlDB.Close()
			return nil, eris.Wrapf(err, "directory: sqlite exec %s", pragma)
		}
	}
	return &SQLiteStore{db: sqlDB}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS centers (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	city        TEXT NOT NULL,
	state       TEXT NOT NULL,
	postal_code TEXT NOT NULL,
	latitude    REAL,
	longitude   REAL,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_centers_postal_code ON centers(postal_code);
CREATE INDEX IF NOT EXISTS idx_centers_city_state ON centers(lower(city), lower(state));
`

// Migrate implements Store.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteMigration); err != nil {
		return eris.Wrap(err, "directory: sqlite migrate")
	}
	return nil
}

// FindByPostalCode implements Store.
func (s *SQLiteStore) FindByPostalCode(ctx context.Context, zip string) (*Center, error) {
	bare := zip
	if n, err := strconv.Atoi(zip); err == nil {
		bare = strconv.Itoa(n)
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, city, state, postal_code, latitude, longitude
		FROM centers
		WHERE postal_code = ? OR postal_code = ?
		ORDER BY id
		LIMIT 1`,
		zip, bare,
	)

	var c Center
	err := row.Scan(&c.ID, &c.City, &c.State, &c.PostalCode, &c.Latitude, &c.Longitude)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "directory: sqlite find by postal code")
	}
	return &c, nil
}

// ListCenters implements Store.
func (s *SQLiteStore) ListCenters(ctx context.Context, limit int) ([]Center, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, city, state, postal_code, latitude, longitude
		FROM centers
		ORDER BY id
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "directory: sqlite list centers")
	}
	defer rows.Close()

	return scanSQLCenters(rows)
}

// ListByCity implements Store.
func (s *SQLiteStore) ListByCity(ctx context.Context, city, state string) ([]Center, error) {
	query := `
		SELECT id, city, state, postal_code, latitude, longitude
		FROM centers
		WHERE lower(city) = lower(?)`
	args := []any{city}
	if state != "" {
		query += ` AND lower(state) = lower(?)`
		args = append(args, state)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "directory: sqlite list by city")
	}
	defer rows.Close()

	return scanSQLCenters(rows)
}

// CityStates implements Store.
func (s *SQLiteStore) CityStates(ctx context.Context) ([]CityState, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT city, state, latitude, longitude
		FROM centers
		GROUP BY lower(city), lower(state)
		ORDER BY lower(city), lower(state)`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "directory: sqlite city states")
	}
	defer rows.Close()

	var pairs []CityState
	for rows.Next() {
		var city, state string
		var lat, lng *float64
		if err := rows.Scan(&city, &state, &lat, &lng); err != nil {
			return nil, eris.Wrap(err, "directory: sqlite scan city state")
		}
		pairs = append(pairs, NewCityState(city, state, lat, lng))
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "directory: sqlite city states rows")
	}
	return pairs, nil
}

// InsertCenter implements Store.
func (s *SQLiteStore) InsertCenter(ctx context.Context, c Center) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO centers (city, state, postal_code, latitude, longitude)
		VALUES (?, ?, ?, ?, ?)`,
		c.City, c.State, c.PostalCode, c.Latitude, c.Longitude,
	)
	if err != nil {
		return eris.Wrap(err, "directory: sqlite insert center")
	}
	return nil
}

// UpdateCoordinates implements Store.
func (s *SQLiteStore) UpdateCoordinates(ctx context.Context, id int64, lat, lng float64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE centers SET latitude = ?, longitude = ? WHERE id = ?`,
		lat, lng, id,
	)
	if err != nil {
		return eris.Wrap(err, "directory: sqlite update coordinates")
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanSQLCenters(rows *sql.Rows) ([]Center, error) {
	var centers []Center
	for rows.Next() {
		var c Center
		if err := rows.Scan(&c.ID, &c.City, &c.State, &c.PostalCode, &c.Latitude, &c.Longitude); err != nil {
			return nil, eris.Wrap(err, "directory: sqlite scan center")
		}
		centers = append(centers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "directory: sqlite centers rows")
	}
	return centers, nil
}
