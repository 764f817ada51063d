package directory

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/greenloop/locator/internal/config"
	"github.com/greenloop/locator/internal/db"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore over an existing pool. closeFn may be
// nil when the caller owns the pool lifecycle.
func NewPostgres(pool db.Pool, closeFn func()) *PostgresStore {
	return &PostgresStore{pool: pool, closeFn: closeFn}
}

// OpenPostgres connects a new pool using the store configuration.
func OpenPostgres(ctx context.Context, cfg config.StoreConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "directory: parse database url")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if cfg.MaxConns > 0 {
		maxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		minConns = cfg.MinConns
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "directory: connect pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "directory: ping")
	}

	return NewPostgres(pool, pool.Close), nil
}

const pgMigration = `
CREATE TABLE IF NOT EXISTS centers (
	id          BIGSERIAL PRIMARY KEY,
	city        TEXT NOT NULL,
	state       TEXT NOT NULL,
	postal_code TEXT NOT NULL,
	latitude    DOUBLE PRECISION,
	longitude   DOUBLE PRECISION,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_centers_postal_code ON centers(postal_code);
CREATE INDEX IF NOT EXISTS idx_centers_city_state ON centers(lower(city), lower(state));
`

// Migrate implements Store.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, pgMigration); err != nil {
		return eris.Wrap(err, "directory: migrate")
	}
	return nil
}

// FindByPostalCode implements Store. Legacy rows store postal codes as bare
// integers ("501" for 00501), so both spellings are checked.
func (s *PostgresStore) FindByPostalCode(ctx context.Context, zip string) (*Center, error) {
	bare := zip
	if n, err := strconv.Atoi(zip); err == nil {
		bare = strconv.Itoa(n)
	}

	row := s.pool.QueryRow(ctx, `
		SELECT id, city, state, postal_code, latitude, longitude
		FROM centers
		WHERE postal_code = $1 OR postal_code = $2
		ORDER BY id
		LIMIT 1`,
		zip, bare,
	)

	var c Center
	err := row.Scan(&c.ID, &c.City, &c.State, &c.PostalCode, &c.Latitude, &c.Longitude)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "directory: find by postal code")
	}
	return &c, nil
}

// ListCenters implements Store.
func (s *PostgresStore) ListCenters(ctx context.Context, limit int) ([]Center, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, city, state, postal_code, latitude, longitude
		FROM centers
		ORDER BY id
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "directory: list centers")
	}
	defer rows.Close()

	return scanCenters(rows)
}

// ListByCity implements Store.
func (s *PostgresStore) ListByCity(ctx context.Context, city, state string) ([]Center, error) {
	query := `
		SELECT id, city, state, postal_code, latitude, longitude
		FROM centers
		WHERE lower(city) = lower($1)`
	args := []any{city}
	if state != "" {
		query += ` AND lower(state) = lower($2)`
		args = append(args, state)
	}
	query += ` ORDER BY id`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "directory: list by city")
	}
	defer rows.Close()

	return scanCenters(rows)
}

// CityStates implements Store.
func (s *PostgresStore) CityStates(ctx context.Context) ([]CityState, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT ON (lower(city), lower(state))
			city, state, latitude, longitude
		FROM centers
		ORDER BY lower(city), lower(state), latitude NULLS LAST`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "directory: city states")
	}
	defer rows.Close()

	var pairs []CityState
	for rows.Next() {
		var city, state string
		var lat, lng *float64
		if err := rows.Scan(&city, &state, &lat, &lng); err != nil {
			return nil, eris.Wrap(err, "directory: scan city state")
		}
		pairs = append(pairs, NewCityState(city, state, lat, lng))
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "directory: city states rows")
	}
	return pairs, nil
}

// InsertCenter implements Store.
func (s *PostgresStore) InsertCenter(ctx context.Context, c Center) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO centers (city, state, postal_code, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5)`,
		c.City, c.State, c.PostalCode, c.Latitude, c.Longitude,
	)
	if err != nil {
		return eris.Wrap(err, "directory: insert center")
	}
	return nil
}

// UpdateCoordinates implements Store.
func (s *PostgresStore) UpdateCoordinates(ctx context.Context, id int64, lat, lng float64) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE centers SET latitude = $1, longitude = $2 WHERE id = $3`,
		lat, lng, id,
	)
	if err != nil {
		return eris.Wrap(err, "directory: update coordinates")
	}
	return nil
}

// Close implements Store.
func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// Pool exposes the underlying pool for bulk import.
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

func scanCenters(rows pgx.Rows) ([]Center, error) {
	var centers []Center
	for rows.Next() {
		var c Center
		if err := rows.Scan(&c.ID, &c.City, &c.State, &c.PostalCode, &c.Latitude, &c.Longitude); err != nil {
			return nil, eris.Wrap(err, "directory: scan center")
		}
		centers = append(centers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "directory: centers rows")
	}
	return centers, nil
}
