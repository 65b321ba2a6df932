package service

import (
	"context"
	"time"

	"github.com/gladeswatch/backend/internal/geo"
	"github.com/gladeswatch/backend/internal/model"
	"github.com/gladeswatch/backend/internal/repository"
	"github.com/gladeswatch/backend/internal/server"
)

// SightingService serves the read side of the sightings API.
type SightingService struct {
	server *server.Server
	repo   *repository.SightingRepository
}

// NewSightingService creates a SightingService.
func NewSightingService(s *server.Server, repo *repository.SightingRepository) *SightingService {
	return &SightingService{server: s, repo: repo}
}

// List returns sightings matching the filter, with the distance to
// the airport filled in.
func (s *SightingService) List(ctx context.Context, filter model.SightingFilter) ([]model.Sighting, error) {
	sightings, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	center := geo.Point{
		Lat: s.server.Config.Monitor.Latitude,
		Lon: s.server.Config.Monitor.Longitude,
	}
	for i := range sightings {
		sightings[i].DistanceKM = geo.HaversineKM(center, geo.Point{
			Lat: sightings[i].Latitude,
			Lon: sightings[i].Longitude,
		})
	}

	return sightings, nil
}

// Stats returns the per-status sighting breakdown for the optional
// time window.
func (s *SightingService) Stats(ctx context.Context, from, to *time.Time) ([]model.StatusCount, error) {
	return s.repo.CountByStatus(ctx, from, to)
}
