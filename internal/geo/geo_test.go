package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Dade-Collier (TNT) coordinates used across the monitor.
var tnt = Point{Lat: 25.8575, Lon: -80.8969}

func TestBoxAround(t *testing.T) {
	t.Run("box is centered on the airport", func(t *testing.T) {
		box := BoxAround(tnt, 10)

		assert.InDelta(t, tnt.Lat, (box.MinLat+box.MaxLat)/2, 1e-9)
		assert.InDelta(t, tnt.Lon, (box.MinLon+box.MaxLon)/2, 1e-9)
	})

	t.Run("latitude span matches the radius", func(t *testing.T) {
		box := BoxAround(tnt, 10)

		// 10 km at ~111 km/degree is ~0.09 degrees each way.
		assert.InDelta(t, 2*10.0/111.0, box.MaxLat-box.MinLat, 1e-9)
	})

	t.Run("longitude span widens with latitude", func(t *testing.T) {
		low := BoxAround(Point{Lat: 10, Lon: 0}, 10)
		high := BoxAround(Point{Lat: 60, Lon: 0}, 10)

		assert.Greater(t, high.MaxLon-high.MinLon, low.MaxLon-low.MinLon)
	})

	t.Run("contains the center and excludes far points", func(t *testing.T) {
		box := BoxAround(tnt, 10)

		assert.True(t, box.Contains(tnt))
		assert.False(t, box.Contains(Point{Lat: 26.5, Lon: -80.0})) // Miami area
	})
}

func TestHaversineKM(t *testing.T) {
	t.Run("zero distance to itself", func(t *testing.T) {
		assert.InDelta(t, 0, HaversineKM(tnt, tnt), 1e-9)
	})

	t.Run("one degree of latitude is about 111 km", func(t *testing.T) {
		a := Point{Lat: 25, Lon: -80}
		b := Point{Lat: 26, Lon: -80}

		d := HaversineKM(a, b)
		require.InDelta(t, 111.2, d, 0.5)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := Point{Lat: 25.8575, Lon: -80.8969}
		b := Point{Lat: 25.79, Lon: -80.29}

		assert.InDelta(t, HaversineKM(a, b), HaversineKM(b, a), 1e-9)
	})
}
