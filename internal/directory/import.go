package directory

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/greenloop/locator/internal/db"
)

var importColumns = []string{"city", "state", "postal_code", "latitude", "longitude"}

// ImportCSV loads center records from a CSV stream with columns
// city,state,postal_code,latitude,longitude (header row optional, coordinate
// fields may be empty). Postgres stores take the COPY fast path; other
// drivers fall back to row-at-a-time inserts.
func ImportCSV(ctx context.Context, store Store, r io.Reader) (int64, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 5
	reader.TrimLeadingSpace = true

	var centers []Center
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, eris.Wrap(err, "directory: import read csv")
		}
		if first {
			first = false
			if strings.EqualFold(record[0], "city") {
				continue
			}
		}

		c := Center{
			City:       strings.TrimSpace(record[0]),
			State:      strings.TrimSpace(record[1]),
			PostalCode: strings.TrimSpace(record[2]),
		}
		if c.City == "" || c.State == "" || c.PostalCode == "" {
			zap.L().Warn("directory: skipping incomplete import row", zap.Strings("record", record))
			continue
		}
		if lat, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64); err == nil {
			c.Latitude = &lat
		}
		if lng, err := strconv.ParseFloat(strings.TrimSpace(record[4]), 64); err == nil {
			c.Longitude = &lng
		}
		centers = append(centers, c)
	}

	if len(centers) == 0 {
		return 0, nil
	}

	if pg, ok := store.(*PostgresStore); ok {
		rows := make([][]any, len(centers))
		for i, c := range centers {
			rows[i] = []any{c.City, c.State, c.PostalCode, c.Latitude, c.Longitude}
		}
		return db.CopyFrom(ctx, pg.Pool(), "centers", importColumns, rows)
	}

	var n int64
	for _, c := range centers {
		if err := store.InsertCenter(ctx, c); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
