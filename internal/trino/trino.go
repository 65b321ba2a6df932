// Package trino queries the OpenSky historical warehouse.
//
// The warehouse exposes the state_vectors_data4 table over Trino,
// partitioned by an `hour` column; OpenSky's performance guidelines
// ask clients to query one hour bucket at a time, which is what
// QueryHour does.
package trino

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/gladeswatch/backend/internal/config"
	"github.com/gladeswatch/backend/internal/geo"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	// Registers the "trino" database/sql driver.
	_ "github.com/trinodb/trino-go-client/trino"
)

// maxContactLag filters out stale vectors: rows where the snapshot
// time ran more than this many seconds ahead of the last transponder
// contact are dropped, matching the warehouse query the project has
// always used.
const maxContactLag = 15

// ArchiveRow is one historical state vector from the warehouse.
type ArchiveRow struct {
	Time         int64
	ICAO24       string
	Latitude     float64
	Longitude    float64
	Velocity     sql.NullFloat64
	Heading      sql.NullFloat64
	VertRate     sql.NullFloat64
	Callsign     sql.NullString
	OnGround     bool
	BaroAltitude sql.NullFloat64
	GeoAltitude  sql.NullFloat64
}

// Client wraps the warehouse connection.
type Client struct {
	db     *sql.DB
	logger *zerolog.Logger
}

// New opens a warehouse connection. The connection is lazy; the first
// query dials.
func New(cfg *config.OpenSkyConfig, logger *zerolog.Logger) (*Client, error) {
	if cfg.TrinoUser == "" {
		return nil, errors.New("trino_user is required for historical backfill")
	}

	dsn := fmt.Sprintf("https://%s@%s?catalog=%s&schema=%s",
		url.User(cfg.TrinoUser).String(),
		fmt.Sprintf("%s:%d", cfg.TrinoHost, cfg.TrinoPort),
		cfg.TrinoCatalog,
		cfg.TrinoSchema,
	)

	db, err := sql.Open("trino", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening trino connection")
	}

	return &Client{db: db, logger: logger}, nil
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	return c.db.Close()
}

// QueryHour fetches all low-altitude state vectors inside box for one
// hour bucket. maxAltitudeM filters on barometric altitude, so only
// aircraft plausibly landing or departing are returned.
//
// The hour/bbox/altitude values are numeric and interpolated directly;
// the Trino driver's placeholder support across partitioned-table
// predicates is not worth fighting for server-controlled numbers.
func (c *Client) QueryHour(ctx context.Context, hour int64, box geo.BoundingBox, maxAltitudeM float64) ([]ArchiveRow, error) {
	query := fmt.Sprintf(`
		SELECT
			time,
			icao24,
			lat,
			lon,
			velocity,
			heading,
			vertrate,
			callsign,
			onground,
			baroaltitude,
			geoaltitude
		FROM state_vectors_data4
		WHERE hour = %d
			AND lat BETWEEN %f AND %f
			AND lon BETWEEN %f AND %f
			AND baroaltitude < %f
			AND time - lastcontact <= %d`,
		hour,
		box.MinLat, box.MaxLat,
		box.MinLon, box.MaxLon,
		maxAltitudeM,
		maxContactLag,
	)

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrapf(err, "querying hour %d", hour)
	}
	defer rows.Close()

	var results []ArchiveRow
	for rows.Next() {
		var r ArchiveRow
		if err := rows.Scan(
			&r.Time,
			&r.ICAO24,
			&r.Latitude,
			&r.Longitude,
			&r.Velocity,
			&r.Heading,
			&r.VertRate,
			&r.Callsign,
			&r.OnGround,
			&r.BaroAltitude,
			&r.GeoAltitude,
		); err != nil {
			return nil, errors.Wrap(err, "scanning archive row")
		}
		results = append(results, r)
	}

	return results, rows.Err()
}

// HourRange returns the Unix timestamps of every whole hour bucket
// between from and to, inclusive.
func HourRange(from, to time.Time) []int64 {
	var hours []int64
	current := from.UTC().Truncate(time.Hour)
	end := to.UTC().Truncate(time.Hour)
	for !current.After(end) {
		hours = append(hours, current.Unix())
		current = current.Add(time.Hour)
	}
	return hours
}
