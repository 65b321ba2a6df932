package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gladeswatch/backend/internal/geo"
	"github.com/gladeswatch/backend/internal/model"
	"github.com/gladeswatch/backend/internal/server"
	"github.com/gladeswatch/backend/internal/trino"
	"github.com/pkg/errors"
)

// BackfillService pulls historical state vectors from the OpenSky
// warehouse and stores them as archive sightings.
//
// The warehouse only serves the low-altitude slice (below the landing
// threshold), so backfilled data covers approaches and departures, not
// overflight traffic.
type BackfillService struct {
	server    *server.Server
	sightings SightingWriter

	warehouse *trino.Client
}

// NewBackfillService creates a BackfillService. The warehouse client
// is only constructed when a Trino user is configured; without one,
// Backfill returns an error and the rest of the app runs normally.
func NewBackfillService(s *server.Server, sightings SightingWriter) (*BackfillService, error) {
	svc := &BackfillService{
		server:    s,
		sightings: sightings,
	}

	if s.Config.OpenSky.TrinoUser != "" {
		warehouse, err := trino.New(&s.Config.OpenSky, s.Logger)
		if err != nil {
			return nil, fmt.Errorf("initializing warehouse client: %w", err)
		}
		svc.warehouse = warehouse
	}

	return svc, nil
}

// Backfill fetches the window [from, to] hour bucket by hour bucket
// and stores the results. It returns the total number of sightings
// persisted.
//
// A failed hour is logged and skipped rather than aborting the run;
// warehouse queries over month-long windows fail transiently often
// enough that all-or-nothing would rarely finish. The run only errors
// when every hour failed.
func (b *BackfillService) Backfill(ctx context.Context, from, to time.Time) (int, error) {
	if b.warehouse == nil {
		return 0, errors.New("historical backfill requires trino_user to be configured")
	}
	if !from.Before(to) {
		return 0, errors.New("backfill window start must be before its end")
	}

	cfg := b.server.Config.Monitor
	center := geo.Point{Lat: cfg.Latitude, Lon: cfg.Longitude}
	box := geo.BoxAround(center, cfg.RadiusKM)

	hours := trino.HourRange(from, to)

	b.server.Logger.Info().
		Time("from", from).
		Time("to", to).
		Int("hours", len(hours)).
		Msg("starting backfill")

	var (
		stored int
		failed int
	)

	for _, hour := range hours {
		if ctx.Err() != nil {
			return stored, ctx.Err()
		}

		rows, err := b.warehouse.QueryHour(ctx, hour, box, cfg.LandingAltitudeM)
		if err != nil {
			failed++
			b.server.Logger.Warn().
				Err(err).
				Time("hour", time.Unix(hour, 0).UTC()).
				Msg("backfill hour failed, skipping")
			continue
		}

		sightings := make([]model.Sighting, 0, len(rows))
		for _, row := range rows {
			sightings = append(sightings, b.toSighting(row, center))
		}

		n, err := b.sightings.InsertBatch(ctx, sightings)
		if err != nil {
			return stored, fmt.Errorf("storing hour %d: %w", hour, err)
		}
		stored += n
	}

	if failed == len(hours) && len(hours) > 0 {
		return 0, errors.New("backfill failed for every hour in the window")
	}

	b.server.Logger.Info().
		Int("stored", stored).
		Int("failed_hours", failed).
		Msg("backfill complete")

	return stored, nil
}

// toSighting converts a warehouse row into an archive sighting,
// applying the same classification as the live poll.
func (b *BackfillService) toSighting(row trino.ArchiveRow, center geo.Point) model.Sighting {
	cfg := b.server.Config.Monitor

	var baroAlt *float64
	if row.BaroAltitude.Valid {
		baroAlt = &row.BaroAltitude.Float64
	}

	s := model.Sighting{
		SeenAt:    time.Unix(row.Time, 0).UTC(),
		ICAO24:    strings.ToLower(row.ICAO24),
		Callsign:  strings.TrimSpace(row.Callsign.String),
		Latitude:  row.Latitude,
		Longitude: row.Longitude,

		OnGround: row.OnGround,
		Status:   model.Classify(baroAlt, row.OnGround, cfg.GroundAltitudeM, cfg.LandingAltitudeM),
		Source:   model.SourceArchive,
	}
	s.SetAltitude(baroAlt)

	if row.Velocity.Valid {
		s.VelocityMS = &row.Velocity.Float64
	}
	if row.Heading.Valid {
		s.HeadingDeg = &row.Heading.Float64
	}
	if row.VertRate.Valid {
		s.VerticalRateMS = &row.VertRate.Float64
	}

	s.DistanceKM = geo.HaversineKM(center, geo.Point{Lat: s.Latitude, Lon: s.Longitude})

	return s
}

// Close releases the warehouse connection, if one was opened.
func (b *BackfillService) Close() error {
	if b.warehouse == nil {
		return nil
	}
	return b.warehouse.Close()
}
