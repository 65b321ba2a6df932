package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/gladeswatch/backend/internal/model"
	"github.com/gladeswatch/backend/internal/server"
	"github.com/pkg/errors"
)

// OperationRepository persists and queries inferred flight operations.
type OperationRepository struct {
	server *server.Server
}

// NewOperationRepository creates an OperationRepository.
func NewOperationRepository(s *server.Server) *OperationRepository {
	return &OperationRepository{server: s}
}

// InsertBatch upserts operations and returns how many rows were
// written.
//
// Operations are derived from sightings, so re-running the analysis
// over a window must be idempotent: each (icao24, day, type) event is
// unique and a rerun overwrites the previous inference rather than
// duplicating it.
func (r *OperationRepository) InsertBatch(ctx context.Context, operations []model.FlightOperation) (int, error) {
	written := 0
	for _, op := range operations {
		tag, err := r.server.DB.Pool.Exec(ctx, `
			INSERT INTO flight_operations (
				type, icao24, callsign, day, occurred_at,
				altitude_m, distance_km, altitude_delta_m, detections, confidence
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT ON CONSTRAINT unique_flight_operations_event DO UPDATE SET
				callsign = EXCLUDED.callsign,
				occurred_at = EXCLUDED.occurred_at,
				altitude_m = EXCLUDED.altitude_m,
				distance_km = EXCLUDED.distance_km,
				altitude_delta_m = EXCLUDED.altitude_delta_m,
				detections = EXCLUDED.detections,
				confidence = EXCLUDED.confidence`,
			op.Type, op.ICAO24, op.Callsign, op.Day, op.OccurredAt,
			op.AltitudeM, op.DistanceKM, op.AltitudeDeltaM, op.Detections, op.Confidence,
		)
		if err != nil {
			return written, errors.Wrap(err, "failed to upsert flight operation")
		}
		written += int(tag.RowsAffected())
	}

	return written, nil
}

// List returns operations matching the filter, most recent first.
func (r *OperationRepository) List(ctx context.Context, filter model.OperationFilter) ([]model.FlightOperation, error) {
	var (
		conds []string
		args  []any
	)

	if filter.From != nil {
		args = append(args, *filter.From)
		conds = append(conds, fmt.Sprintf("occurred_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conds = append(conds, fmt.Sprintf("occurred_at < $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.ICAO24 != "" {
		args = append(args, strings.ToLower(filter.ICAO24))
		conds = append(conds, fmt.Sprintf("icao24 = $%d", len(args)))
	}

	query := `
		SELECT id, type, icao24, callsign, day, occurred_at,
			altitude_m, distance_km, altitude_delta_m, detections, confidence
		FROM flight_operations`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY occurred_at DESC"

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
		return nil, errors.Wrap(err, "failed to query flight operations")
	}
	defer rows.Close()

	var operations []model.FlightOperation
	for rows.Next() {
		var op model.FlightOperation
		err := rows.Scan(
			&op.ID, &op.Type, &op.ICAO24, &op.Callsign, &op.Day, &op.OccurredAt,
			&op.AltitudeM, &op.DistanceKM, &op.AltitudeDeltaM, &op.Detections, &op.Confidence,
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan flight operation")
		}
		operations = append(operations, op)
	}

	return operations, rows.Err()
}
