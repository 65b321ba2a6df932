package service

import (
	"testing"
	"time"

	"github.com/gladeswatch/backend/internal/geo"
	"github.com/gladeswatch/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCenter = geo.Point{Lat: 25.8575, Lon: -80.8969}

// makeTrack builds a track from (latOffsetDeg, altitudeM) pairs spaced
// a minute apart. Offsets are applied to latitude only, so the flat
// distance equals the offset.
func makeTrack(t *testing.T, points [][2]float64) track {
	t.Helper()

	day := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)
	tr := track{icao24: "a8f2c1", callsign: "N521TX", day: day}
	for i, p := range points {
		tr.points = append(tr.points, trackPoint{
			at:          day.Add(time.Duration(14*60+i) * time.Minute),
			distanceDeg: p[0],
			altitudeM:   p[1],
		})
	}
	return tr
}

func TestDetectLanding(t *testing.T) {
	t.Run("descending approach that terminates at the field", func(t *testing.T) {
		tr := makeTrack(t, [][2]float64{
			{0.08, 900},
			{0.04, 450},
			{0.015, 200},
			{0.005, 60},
		})

		op, ok := detectLanding(tr, 500)
		require.True(t, ok)
		assert.Equal(t, model.OperationLanding, op.Type)
		assert.Equal(t, model.ConfidenceHigh, op.Confidence)
		assert.Equal(t, tr.points[3].at, op.OccurredAt)
		assert.InDelta(t, 60.0, op.AltitudeM, 0.001)
		assert.InDelta(t, 840.0, op.AltitudeDeltaM, 0.001)
		assert.InDelta(t, 0.005*degreesToKM, op.DistanceKM, 0.001)
		assert.Equal(t, 4, op.Detections)
	})

	t.Run("medium confidence when the track ends farther out", func(t *testing.T) {
		tr := makeTrack(t, [][2]float64{
			{0.08, 900},
			{0.04, 450},
			{0.015, 200},
		})

		op, ok := detectLanding(tr, 500)
		require.True(t, ok)
		assert.Equal(t, model.ConfidenceMedium, op.Confidence)
	})

	t.Run("overflight that continues past is rejected", func(t *testing.T) {
		// Gets within the near threshold, then the distance grows
		// again before shrinking: it flew through the box.
		tr := makeTrack(t, [][2]float64{
			{0.08, 600},
			{0.01, 450},
			{0.05, 420},
			{0.008, 400},
		})

		_, ok := detectLanding(tr, 500)
		assert.False(t, ok)
	})

	t.Run("high final altitude is rejected", func(t *testing.T) {
		tr := makeTrack(t, [][2]float64{
			{0.08, 2000},
			{0.04, 1500},
			{0.01, 900},
		})

		_, ok := detectLanding(tr, 500)
		assert.False(t, ok)
	})

	t.Run("climbing track is rejected", func(t *testing.T) {
		tr := makeTrack(t, [][2]float64{
			{0.08, 100},
			{0.04, 200},
			{0.01, 300},
		})

		_, ok := detectLanding(tr, 500)
		assert.False(t, ok)
	})
}

func TestDetectTakeoff(t *testing.T) {
	t.Run("climb out from the field", func(t *testing.T) {
		tr := makeTrack(t, [][2]float64{
			{0.004, 50},
			{0.02, 300},
			{0.06, 800},
		})

		op, ok := detectTakeoff(tr, 500)
		require.True(t, ok)
		assert.Equal(t, model.OperationTakeoff, op.Type)
		assert.Equal(t, model.ConfidenceHigh, op.Confidence)
		assert.Equal(t, tr.points[0].at, op.OccurredAt)
		assert.InDelta(t, 50.0, op.AltitudeM, 0.001)
		assert.InDelta(t, 750.0, op.AltitudeDeltaM, 0.001)
	})

	t.Run("start outside the near threshold is rejected", func(t *testing.T) {
		tr := makeTrack(t, [][2]float64{
			{0.05, 300},
			{0.07, 600},
			{0.09, 1200},
		})

		_, ok := detectTakeoff(tr, 500)
		assert.False(t, ok)
	})

	t.Run("high initial altitude is rejected", func(t *testing.T) {
		tr := makeTrack(t, [][2]float64{
			{0.01, 700},
			{0.04, 1200},
			{0.08, 2000},
		})

		_, ok := detectTakeoff(tr, 500)
		assert.False(t, ok)
	})
}

func TestSplitTracks(t *testing.T) {
	alt := func(v float64) *float64 { return &v }
	at := func(h int) time.Time { return time.Date(2025, 7, 14, h, 0, 0, 0, time.UTC) }

	sightings := []model.Sighting{
		{ICAO24: "a8f2c1", SeenAt: at(13), Latitude: 25.90, Longitude: -80.90, BaroAltitudeM: alt(800)},
		{ICAO24: "a8f2c1", SeenAt: at(14), Latitude: 25.87, Longitude: -80.90, BaroAltitudeM: alt(300)},
		// No altitude: dropped before grouping.
		{ICAO24: "a8f2c1", SeenAt: at(15), Latitude: 25.86, Longitude: -80.90},
		// Next day: separate track for the same aircraft.
		{ICAO24: "a8f2c1", SeenAt: at(13).Add(24 * time.Hour), Latitude: 25.90, Longitude: -80.90, BaroAltitudeM: alt(900)},
		{ICAO24: "ab11ee", SeenAt: at(14), Latitude: 25.80, Longitude: -80.85, BaroAltitudeM: alt(1200), Callsign: "MEDIC1"},
	}

	tracks := splitTracks(sightings, testCenter)
	require.Len(t, tracks, 3)

	assert.Equal(t, "a8f2c1", tracks[0].icao24)
	assert.Len(t, tracks[0].points, 2)
	assert.Equal(t, "a8f2c1", tracks[1].icao24)
	assert.Len(t, tracks[1].points, 1)
	assert.Equal(t, "ab11ee", tracks[2].icao24)
	assert.Equal(t, "MEDIC1", tracks[2].callsign)

	// Distances are flat degrees relative to the airport.
	assert.InDelta(t, 0.0425, tracks[0].points[0].distanceDeg, 0.001)
}

func TestTracksBelowMinimumPointsProduceNoOperations(t *testing.T) {
	tr := makeTrack(t, [][2]float64{
		{0.04, 450},
		{0.005, 60},
	})

	// detectLanding itself would match this shape; the Analyze loop
	// rejects it on length first. Mirror that check here.
	assert.Less(t, len(tr.points), minTrackPoints)
}
