package service

import (
	"github.com/gladeswatch/backend/internal/lib/job"
	"github.com/gladeswatch/backend/internal/repository"
	"github.com/gladeswatch/backend/internal/server"
)

// Services is the container for all service instances.
type Services struct {
	Auth       *AuthService
	Job        *job.JobService
	Monitor    *MonitorService
	Backfill   *BackfillService
	Analysis   *AnalysisService
	Digest     *DigestService
	Sightings  *SightingService
	Operations *OperationService
}

// NewService constructs every service with its repository
// dependencies.
func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	backfill, err := NewBackfillService(s, repos.Sightings)
	if err != nil {
		return nil, err
	}

	return &Services{
		Auth:       NewAuthService(s),
		Job:        s.Job,
		Monitor:    NewMonitorService(s, repos.Sightings),
		Backfill:   backfill,
		Analysis:   NewAnalysisService(s, repos.Sightings, repos.Operations),
		Digest:     NewDigestService(s, repos.Sightings, repos.Operations),
		Sightings:  NewSightingService(s, repos.Sightings),
		Operations: NewOperationService(s, repos.Operations),
	}, nil
}
