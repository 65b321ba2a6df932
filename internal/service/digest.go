package service

import (
	"context"
	"time"

	"github.com/gladeswatch/backend/internal/lib/job"
	"github.com/gladeswatch/backend/internal/model"
	"github.com/gladeswatch/backend/internal/repository"
	"github.com/gladeswatch/backend/internal/server"
)

// DigestService assembles the daily activity summary for the digest
// email.
type DigestService struct {
	server     *server.Server
	sightings  *repository.SightingRepository
	operations *repository.OperationRepository
}

// NewDigestService creates a DigestService.
func NewDigestService(s *server.Server, sightings *repository.SightingRepository, operations *repository.OperationRepository) *DigestService {
	return &DigestService{
		server:     s,
		sightings:  sightings,
		operations: operations,
	}
}

// DailyCounts returns the sighting and operation totals for one UTC
// day.
func (d *DigestService) DailyCounts(ctx context.Context, day time.Time) (job.DigestCounts, error) {
	from := day.UTC().Truncate(24 * time.Hour)
	to := from.Add(24 * time.Hour)

	var counts job.DigestCounts

	statusCounts, err := d.sightings.CountByStatus(ctx, &from, &to)
	if err != nil {
		return counts, err
	}
	for _, sc := range statusCounts {
		counts.Sightings += int(sc.Count)
	}

	operations, err := d.operations.List(ctx, model.OperationFilter{
		From:  &from,
		To:    &to,
		Limit: 1000,
	})
	if err != nil {
		return counts, err
	}
	for _, op := range operations {
		switch op.Type {
		case model.OperationLanding:
			counts.Landings++
		case model.OperationTakeoff:
			counts.Takeoffs++
		}
	}

	return counts, nil
}
