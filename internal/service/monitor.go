package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gladeswatch/backend/internal/geo"
	"github.com/gladeswatch/backend/internal/lib/job"
	"github.com/gladeswatch/backend/internal/model"
	"github.com/gladeswatch/backend/internal/opensky"
	"github.com/gladeswatch/backend/internal/server"
)

// dedupeTTLFactor sizes the Redis dedupe window relative to the poll
// interval: a key only needs to outlive the overlap between adjacent
// polls.
const dedupeTTLFactor = 4

// MonitorService runs the live poll loop: fetch current state vectors
// inside the watched box, classify them, persist new sightings, and
// raise alerts for low traffic.
type MonitorService struct {
	server    *server.Server
	opensky   *opensky.Client
	sightings SightingWriter
}

// NewMonitorService creates a MonitorService with its own OpenSky
// client, writing through the given sighting repository.
func NewMonitorService(s *server.Server, sightings SightingWriter) *MonitorService {
	return &MonitorService{
		server:    s,
		opensky:   opensky.NewClient(&s.Config.OpenSky, s.Logger),
		sightings: sightings,
	}
}

// Center returns the watched airport's coordinates.
func (m *MonitorService) Center() geo.Point {
	return geo.Point{
		Lat: m.server.Config.Monitor.Latitude,
		Lon: m.server.Config.Monitor.Longitude,
	}
}

// Box returns the query bounding box around the watched airport.
func (m *MonitorService) Box() geo.BoundingBox {
	return geo.BoxAround(m.Center(), m.server.Config.Monitor.RadiusKM)
}

// Poll fetches one snapshot of the monitored area and stores the new
// sightings. It returns the number of sightings persisted.
//
// When alerts are enabled and the snapshot contains on-ground or
// low-altitude traffic, an alert task is enqueued; alert delivery
// failures never fail the poll itself.
func (m *MonitorService) Poll(ctx context.Context) (int, error) {
	cfg := m.server.Config.Monitor

	result, err := m.opensky.StatesIn(ctx, m.Box())
	if err != nil {
		return 0, fmt.Errorf("fetching states: %w", err)
	}

	center := m.Center()
	sightings := make([]model.Sighting, 0, len(result.States))

	for _, sv := range result.States {
		if !sv.HasPosition() {
			continue
		}

		s := model.Sighting{
			SeenAt:    sv.SeenAt(),
			ICAO24:    strings.ToLower(sv.ICAO24),
			Callsign:  sv.Callsign,
			Latitude:  *sv.Latitude,
			Longitude: *sv.Longitude,

			VelocityMS:     sv.Velocity,
			HeadingDeg:     sv.TrueTrack,
			VerticalRateMS: sv.VerticalRate,

			OnGround: sv.OnGround,
			Status:   model.Classify(sv.BaroAltitude, sv.OnGround, cfg.GroundAltitudeM, cfg.LandingAltitudeM),
			Source:   model.SourceLive,
		}
		s.SetAltitude(sv.BaroAltitude)
		s.DistanceKM = geo.HaversineKM(center, geo.Point{Lat: s.Latitude, Lon: s.Longitude})

		if m.alreadySeen(ctx, &s) {
			continue
		}

		sightings = append(sightings, s)
	}

	stored, err := m.sightings.InsertBatch(ctx, sightings)
	if err != nil {
		return stored, err
	}

	m.server.Logger.Info().
		Time("snapshot", result.FetchedAt).
		Int("in_box", len(result.States)).
		Int("stored", stored).
		Msg("poll complete")

	if cfg.AlertsEnabled && stored > 0 {
		m.enqueueAlert(result.FetchedAt, sightings)
	}

	return stored, nil
}

// alreadySeen marks the observation in Redis and reports whether it
// was marked before. Redis being down degrades to "not seen"; the
// unique constraint on the sightings table still prevents duplicates.
func (m *MonitorService) alreadySeen(ctx context.Context, s *model.Sighting) bool {
	key := fmt.Sprintf("sighting:%s:%d", s.ICAO24, s.SeenAt.Unix())
	ttl := m.server.Config.Monitor.PollInterval * dedupeTTLFactor

	isNew, err := m.server.Redis.SetNX(ctx, key, 1, ttl).Result()
	if err != nil {
		m.server.Logger.Warn().Err(err).Msg("sighting dedupe unavailable")
		return false
	}
	return !isNew
}

// enqueueAlert queues an activity alert for the low/ground sightings
// in the snapshot. No low traffic means no alert.
func (m *MonitorService) enqueueAlert(detectedAt time.Time, sightings []model.Sighting) {
	var alerts []job.AlertSighting
	for _, s := range sightings {
		if s.Status == model.StatusCruising {
			continue
		}
		alerts = append(alerts, job.AlertSighting{
			ICAO24:     s.ICAO24,
			Callsign:   s.Callsign,
			AltitudeFt: s.AltitudeFt,
			Status:     string(s.Status),
		})
	}
	if len(alerts) == 0 {
		return
	}

	task, err := job.NewActivityAlertTask(detectedAt, alerts)
	if err != nil {
		m.server.Logger.Error().Err(err).Msg("building activity alert task")
		return
	}

	if _, err := m.server.Job.Client.Enqueue(task); err != nil {
		m.server.Logger.Error().Err(err).Msg("enqueueing activity alert")
	}
}

// SightingWriter is the slice of the sighting repository the monitor
// needs. Both live polls and backfill write through it.
type SightingWriter interface {
	InsertBatch(ctx context.Context, sightings []model.Sighting) (int, error)
}
