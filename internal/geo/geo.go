// Package geo holds the small amount of spherical geometry the
// monitor needs: bounding boxes for the OpenSky area query and
// great-circle distances for track analysis.
package geo

import "math"

// kmPerDegree is the rough length of one degree of latitude. Good
// enough for a 10 km query box; exact distances use HaversineKM.
const kmPerDegree = 111.0

// earthRadiusKM is the mean Earth radius used by the haversine formula.
const earthRadiusKM = 6371.0

// Point is a WGS84 coordinate pair in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// BoundingBox is an axis-aligned lat/lon box, the shape OpenSky's
// /states/all endpoint filters on (lamin/lomin/lamax/lomax).
type BoundingBox struct {
	MinLat float64
	MinLon float64
	MaxLat float64
	MaxLon float64
}

// BoxAround returns the bounding box extending radiusKM from center
// in each direction.
//
// Longitude degrees shrink with latitude, so the east-west offset is
// scaled by cos(lat). Not valid at the poles or across the
// antimeridian, which is fine for a fixed airport in Florida.
func BoxAround(center Point, radiusKM float64) BoundingBox {
	latOffset := radiusKM / kmPerDegree

	lonScale := math.Cos(center.Lat * math.Pi / 180)
	if lonScale < 0.01 {
		lonScale = 0.01
	}
	lonOffset := radiusKM / (kmPerDegree * lonScale)

	return BoundingBox{
		MinLat: center.Lat - latOffset,
		MaxLat: center.Lat + latOffset,
		MinLon: center.Lon - lonOffset,
		MaxLon: center.Lon + lonOffset,
	}
}

// Contains reports whether p falls inside the box.
func (b BoundingBox) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}

// HaversineKM returns the great-circle distance between two points in
// kilometers.
func HaversineKM(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusKM * math.Asin(math.Sqrt(h))
}
