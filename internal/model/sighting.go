// Package model defines the domain types shared by the repository,
// service, and handler layers: aircraft sightings around the watched
// airport and the flight operations inferred from them.
package model

import "time"

// metersToFeet is the conversion factor applied for the human-facing
// altitude field.
const metersToFeet = 3.28084

// SightingSource records where a sighting came from.
type SightingSource string

const (
	// SourceLive marks sightings captured by the periodic REST poll.
	SourceLive SightingSource = "live"
	// SourceArchive marks sightings backfilled from the OpenSky
	// historical warehouse.
	SourceArchive SightingSource = "archive"
)

// ActivityStatus classifies what an aircraft appears to be doing based
// on its barometric altitude and on-ground flag.
type ActivityStatus string

const (
	// StatusOnGround: the transponder reports surface position.
	StatusOnGround ActivityStatus = "ON_GROUND"
	// StatusVeryLow: airborne below the ground threshold (default
	// 100 m), definitely on final or just off the runway.
	StatusVeryLow ActivityStatus = "VERY_LOW"
	// StatusLowAltitude: airborne below the landing threshold
	// (default 500 m), likely landing or departing.
	StatusLowAltitude ActivityStatus = "LOW_ALTITUDE"
	// StatusCruising: everything else, including overflights with no
	// reported altitude.
	StatusCruising ActivityStatus = "CRUISING"
)

// Classify maps a barometric altitude (meters, nil when unreported)
// and the on-ground flag onto an ActivityStatus.
//
// A nil altitude on an airborne aircraft falls through to CRUISING;
// there is no basis to call it low.
func Classify(baroAltitudeM *float64, onGround bool, groundAltM, landingAltM float64) ActivityStatus {
	switch {
	case onGround:
		return StatusOnGround
	case baroAltitudeM != nil && *baroAltitudeM < groundAltM:
		return StatusVeryLow
	case baroAltitudeM != nil && *baroAltitudeM < landingAltM:
		return StatusLowAltitude
	default:
		return StatusCruising
	}
}

// Sighting is one observed aircraft state inside the monitored area.
// Sightings are append-only; analysis never mutates them.
type Sighting struct {
	ID       int64          `json:"id"`
	SeenAt   time.Time      `json:"seen_at"`
	ICAO24   string         `json:"icao24"`
	Callsign string         `json:"callsign"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// BaroAltitudeM is barometric altitude in meters; nil when the
	// transponder reported none.
	BaroAltitudeM *float64 `json:"baro_altitude_m"`
	// AltitudeFt is BaroAltitudeM converted for readability.
	AltitudeFt *int `json:"altitude_ft"`

	VelocityMS     *float64 `json:"velocity_ms"`
	HeadingDeg     *float64 `json:"heading"`
	VerticalRateMS *float64 `json:"vertical_rate_ms"`

	OnGround bool           `json:"on_ground"`
	Status   ActivityStatus `json:"status"`
	Source   SightingSource `json:"source"`

	// DistanceKM is the great-circle distance to the airport,
	// computed at query time for API responses.
	DistanceKM float64 `json:"distance_km"`
}

// SetAltitude stores the barometric altitude and derives the feet
// field, mirroring how the raw feed is normalized.
func (s *Sighting) SetAltitude(baroAltitudeM *float64) {
	s.BaroAltitudeM = baroAltitudeM
	if baroAltitudeM != nil {
		ft := int(*baroAltitudeM * metersToFeet)
		s.AltitudeFt = &ft
	} else {
		s.AltitudeFt = nil
	}
}

// SightingFilter narrows sighting queries.
type SightingFilter struct {
	From   *time.Time
	To     *time.Time
	ICAO24 string
	Status ActivityStatus
	Source SightingSource
	Limit  int
	Offset int
}

// StatusCount is one row of the sighting stats breakdown.
type StatusCount struct {
	Status ActivityStatus `json:"status"`
	Count  int64          `json:"count"`
}
