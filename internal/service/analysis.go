package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gladeswatch/backend/internal/geo"
	"github.com/gladeswatch/backend/internal/model"
	"github.com/gladeswatch/backend/internal/server"
)

// Track-termination thresholds, in flat decimal degrees around the
// airport (0.01 deg is roughly 1 km at this latitude).
const (
	// nearTrackDeg bounds where a track may start (takeoff) or end
	// (landing) to count as an operation.
	nearTrackDeg = 0.02
	// highConfidenceDeg upgrades the operation to HIGH confidence.
	highConfidenceDeg = 0.01
	// minTrackPoints is the fewest positioned points that can show a
	// pattern.
	minTrackPoints = 3

	degreesToKM = 111.0
)

// AnalysisService infers landings and takeoffs from stored sightings.
//
// The airport has no tower feed and no ground truth, so operations are
// read off track shape: an aircraft that approaches, descends, and
// whose track terminates low near the field very likely landed there.
type AnalysisService struct {
	server     *server.Server
	sightings  SightingAnalysisReader
	operations OperationWriter
}

// SightingAnalysisReader is the repository slice the analysis reads.
type SightingAnalysisReader interface {
	ListForAnalysis(ctx context.Context, from, to time.Time) ([]model.Sighting, error)
}

// OperationWriter is the repository slice the analysis writes.
type OperationWriter interface {
	InsertBatch(ctx context.Context, operations []model.FlightOperation) (int, error)
}

// NewAnalysisService creates an AnalysisService.
func NewAnalysisService(s *server.Server, sightings SightingAnalysisReader, operations OperationWriter) *AnalysisService {
	return &AnalysisService{
		server:     s,
		sightings:  sightings,
		operations: operations,
	}
}

// Analyze runs track-termination analysis over [from, to) and upserts
// the inferred operations. Re-running over the same window replaces
// earlier inferences instead of duplicating them.
func (a *AnalysisService) Analyze(ctx context.Context, from, to time.Time) (*model.AnalysisReport, error) {
	sightings, err := a.sightings.ListForAnalysis(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("loading sightings: %w", err)
	}

	center := geo.Point{
		Lat: a.server.Config.Monitor.Latitude,
		Lon: a.server.Config.Monitor.Longitude,
	}

	tracks := splitTracks(sightings, center)

	report := &model.AnalysisReport{
		From:          from,
		To:            to,
		SightingsSeen: len(sightings),
	}

	landingAltM := a.server.Config.Monitor.LandingAltitudeM

	var operations []model.FlightOperation
	seen := map[string]bool{}

	for _, t := range tracks {
		if !seen[t.icao24] {
			seen[t.icao24] = true
			report.UniqueAircraft++
		}

		if len(t.points) < minTrackPoints {
			continue
		}

		if op, ok := detectLanding(t, landingAltM); ok {
			operations = append(operations, op)
			report.Landings++
			if op.Confidence == model.ConfidenceHigh {
				report.HighConfidence++
			}
		}
		if op, ok := detectTakeoff(t, landingAltM); ok {
			operations = append(operations, op)
			report.Takeoffs++
			if op.Confidence == model.ConfidenceHigh {
				report.HighConfidence++
			}
		}
	}

	saved, err := a.operations.InsertBatch(ctx, operations)
	if err != nil {
		return nil, fmt.Errorf("storing operations: %w", err)
	}
	report.OperationsSaved = saved

	a.server.Logger.Info().
		Int("sightings", report.SightingsSeen).
		Int("aircraft", report.UniqueAircraft).
		Int("landings", report.Landings).
		Int("takeoffs", report.Takeoffs).
		Msg("analysis complete")

	return report, nil
}

// track is one aircraft's positioned sightings for one UTC day,
// ordered by time.
type track struct {
	icao24   string
	callsign string
	day      time.Time
	points   []trackPoint
}

// trackPoint reduces a sighting to what the analysis looks at.
type trackPoint struct {
	at time.Time
	// distanceDeg is the flat-plane distance to the airport in
	// degrees.
	distanceDeg float64
	altitudeM   float64
}

// splitTracks groups sightings into per-aircraft per-day tracks,
// dropping points without a barometric altitude. Input is expected
// ordered by (icao24, seen_at), which is how the repository returns
// it.
func splitTracks(sightings []model.Sighting, center geo.Point) []track {
	var tracks []track

	for _, s := range sightings {
		if s.BaroAltitudeM == nil {
			continue
		}

		day := s.SeenAt.UTC().Truncate(24 * time.Hour)
		p := trackPoint{
			at:          s.SeenAt,
			distanceDeg: flatDistanceDeg(geo.Point{Lat: s.Latitude, Lon: s.Longitude}, center),
			altitudeM:   *s.BaroAltitudeM,
		}

		n := len(tracks)
		if n > 0 && tracks[n-1].icao24 == s.ICAO24 && tracks[n-1].day.Equal(day) {
			tracks[n-1].points = append(tracks[n-1].points, p)
			if tracks[n-1].callsign == "" {
				tracks[n-1].callsign = s.Callsign
			}
			continue
		}

		tracks = append(tracks, track{
			icao24:   s.ICAO24,
			callsign: s.Callsign,
			day:      day,
			points:   []trackPoint{p},
		})
	}

	return tracks
}

// flatDistanceDeg is the Euclidean lat/lon distance in degrees. Crude,
// but the thresholds were tuned against it and the box is only 10 km
// wide.
func flatDistanceDeg(p, center geo.Point) float64 {
	dLat := p.Lat - center.Lat
	dLon := p.Lon - center.Lon
	return math.Sqrt(dLat*dLat + dLon*dLon)
}

// detectLanding reports whether the track matches the landing pattern:
// approaching, descending, terminating low within nearTrackDeg of the
// field, and not continuing past it.
func detectLanding(t track, landingAltM float64) (model.FlightOperation, bool) {
	first := t.points[0]
	last := t.points[len(t.points)-1]

	approaching := first.distanceDeg > last.distanceDeg
	descending := first.altitudeM > last.altitudeM
	endsNear := last.distanceDeg < nearTrackDeg
	lowAtEnd := last.altitudeM < landingAltM

	if !(approaching && descending && endsNear && lowAtEnd) {
		return model.FlightOperation{}, false
	}

	// An aircraft that got close and then moved away again flew
	// through the box; its track did not terminate here.
	for i := 1; i < len(t.points); i++ {
		prev, cur := t.points[i-1], t.points[i]
		if prev.distanceDeg < nearTrackDeg && cur.distanceDeg > prev.distanceDeg {
			return model.FlightOperation{}, false
		}
	}

	confidence := model.ConfidenceMedium
	if last.distanceDeg < highConfidenceDeg {
		confidence = model.ConfidenceHigh
	}

	return model.FlightOperation{
		Type:           model.OperationLanding,
		ICAO24:         t.icao24,
		Callsign:       t.callsign,
		Day:            t.day,
		OccurredAt:     last.at,
		AltitudeM:      last.altitudeM,
		DistanceKM:     last.distanceDeg * degreesToKM,
		AltitudeDeltaM: first.altitudeM - last.altitudeM,
		Detections:     len(t.points),
		Confidence:     confidence,
	}, true
}

// detectTakeoff reports whether the track matches the takeoff pattern:
// starting low within nearTrackDeg of the field, climbing, and moving
// away.
func detectTakeoff(t track, landingAltM float64) (model.FlightOperation, bool) {
	first := t.points[0]
	last := t.points[len(t.points)-1]

	leaving := last.distanceDeg > first.distanceDeg
	climbing := last.altitudeM > first.altitudeM
	startsNear := first.distanceDeg < nearTrackDeg
	lowAtStart := first.altitudeM < landingAltM

	if !(leaving && climbing && startsNear && lowAtStart) {
		return model.FlightOperation{}, false
	}

	confidence := model.ConfidenceMedium
	if first.distanceDeg < highConfidenceDeg {
		confidence = model.ConfidenceHigh
	}

	return model.FlightOperation{
		Type:           model.OperationTakeoff,
		ICAO24:         t.icao24,
		Callsign:       t.callsign,
		Day:            t.day,
		OccurredAt:     first.at,
		AltitudeM:      first.altitudeM,
		DistanceKM:     first.distanceDeg * degreesToKM,
		AltitudeDeltaM: last.altitudeM - first.altitudeM,
		Detections:     len(t.points),
		Confidence:     confidence,
	}, true
}
