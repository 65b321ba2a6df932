package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gladeswatch/backend/internal/model"
	"github.com/gladeswatch/backend/internal/server"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// sightingColumns is the scan order shared by every sighting query.
const sightingColumns = `id, seen_at, icao24, callsign, latitude, longitude,
	baro_altitude_m, altitude_ft, velocity_ms, heading, vertical_rate_ms,
	on_ground, status, source`

// SightingRepository persists and queries aircraft sightings.
type SightingRepository struct {
	server *server.Server
}

// NewSightingRepository creates a SightingRepository.
func NewSightingRepository(s *server.Server) *SightingRepository {
	return &SightingRepository{server: s}
}

// InsertBatch stores sightings in one round trip and returns the
// number actually inserted.
//
// The table carries a uniqueness constraint on (icao24, seen_at,
// source); duplicates from overlapping polls or re-run backfills are
// dropped with ON CONFLICT DO NOTHING, so the table stays append-only
// without the caller tracking what it already stored.
func (r *SightingRepository) InsertBatch(ctx context.Context, sightings []model.Sighting) (int, error) {
	if len(sightings) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, s := range sightings {
		batch.Queue(`
			INSERT INTO sightings (
				seen_at, icao24, callsign, latitude, longitude,
				baro_altitude_m, altitude_ft, velocity_ms, heading,
				vertical_rate_ms, on_ground, status, source
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			ON CONFLICT ON CONSTRAINT unique_sightings_observation DO NOTHING`,
			s.SeenAt, s.ICAO24, s.Callsign, s.Latitude, s.Longitude,
			s.BaroAltitudeM, s.AltitudeFt, s.VelocityMS, s.HeadingDeg,
			s.VerticalRateMS, s.OnGround, s.Status, s.Source,
		)
	}

	results := r.server.DB.Pool.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range sightings {
		tag, err := results.Exec()
		if err != nil {
			return inserted, errors.Wrap(err, "failed to insert sighting batch")
		}
		inserted += int(tag.RowsAffected())
	}

	return inserted, nil
}

// List returns sightings matching the filter, newest first.
func (r *SightingRepository) List(ctx context.Context, filter model.SightingFilter) ([]model.Sighting, error) {
	var (
		conds []string
		args  []any
	)

	addCond := func(expr string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(expr, len(args)))
	}

	if filter.From != nil {
		addCond("seen_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		addCond("seen_at < $%d", *filter.To)
	}
	if filter.ICAO24 != "" {
		addCond("icao24 = $%d", strings.ToLower(filter.ICAO24))
	}
	if filter.Status != "" {
		addCond("status = $%d", filter.Status)
	}
	if filter.Source != "" {
		addCond("source = $%d", filter.Source)
	}

	query := fmt.Sprintf("SELECT %s FROM sightings", sightingColumns)
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY seen_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.server.DB.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query sightings")
	}
	defer rows.Close()

	return scanSightings(rows)
}

// ListForAnalysis returns every sighting in [from, to) ordered by
// aircraft and time, so the service can split the result into
// per-aircraft tracks with a single pass.
func (r *SightingRepository) ListForAnalysis(ctx context.Context, from, to time.Time) ([]model.Sighting, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM sightings
		WHERE seen_at >= $1 AND seen_at < $2
		ORDER BY icao24, seen_at`, sightingColumns)

	rows, err := r.server.DB.Pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query sightings for analysis")
	}
	defer rows.Close()

	return scanSightings(rows)
}

// CountByStatus returns the sighting count per activity status inside
// the optional time window.
func (r *SightingRepository) CountByStatus(ctx context.Context, from, to *time.Time) ([]model.StatusCount, error) {
	var (
		conds []string
		args  []any
	)

	if from != nil {
		args = append(args, *from)
		conds = append(conds, fmt.Sprintf("seen_at >= $%d", len(args)))
	}
	if to != nil {
		args = append(args, *to)
		conds = append(conds, fmt.Sprintf("seen_at < $%d", len(args)))
	}

	query := "SELECT status, COUNT(*) FROM sightings"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " GROUP BY status ORDER BY COUNT(*) DESC"

	rows, err := r.server.DB.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count sightings by status")
	}
	defer rows.Close()

	var counts []model.StatusCount
	for rows.Next() {
		var c model.StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, errors.Wrap(err, "failed to scan status count")
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

func scanSightings(rows pgx.Rows) ([]model.Sighting, error) {
	var sightings []model.Sighting
	for rows.Next() {
		var s model.Sighting
		err := rows.Scan(
			&s.ID, &s.SeenAt, &s.ICAO24, &s.Callsign, &s.Latitude, &s.Longitude,
			&s.BaroAltitudeM, &s.AltitudeFt, &s.VelocityMS, &s.HeadingDeg,
			&s.VerticalRateMS, &s.OnGround, &s.Status, &s.Source,
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan sighting")
		}
		sightings = append(sightings, s)
	}

	return sightings, rows.Err()
}
