package model

import "time"

// OperationType distinguishes the two inferred flight operations.
type OperationType string

const (
	OperationLanding OperationType = "LANDING"
	OperationTakeoff OperationType = "TAKEOFF"
)

// Confidence grades how strongly a track matches the operation
// criteria. HIGH means the track ends (or starts) under the landing
// threshold within roughly one kilometer of the field.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
)

// FlightOperation is a landing or takeoff inferred from a day's track
// of one aircraft. Operations are derived data: re-running the
// analysis over the same sightings reproduces them.
type FlightOperation struct {
	ID       int64         `json:"id"`
	Type     OperationType `json:"type"`
	ICAO24   string        `json:"icao24"`
	Callsign string        `json:"callsign"`

	// Day is the UTC calendar day the track belongs to.
	Day time.Time `json:"day"`
	// OccurredAt is the track end for landings, the track start for
	// takeoffs.
	OccurredAt time.Time `json:"occurred_at"`

	// AltitudeM is the final altitude for landings, the initial
	// altitude for takeoffs.
	AltitudeM float64 `json:"altitude_m"`
	// DistanceKM is the matching distance from the airport.
	DistanceKM float64 `json:"distance_km"`
	// AltitudeDeltaM is the total descent (landings) or climb
	// (takeoffs) across the track.
	AltitudeDeltaM float64 `json:"altitude_delta_m"`

	// Detections is the number of positioned points in the track.
	Detections int        `json:"detections"`
	Confidence Confidence `json:"confidence"`
}

// OperationFilter narrows operation queries.
type OperationFilter struct {
	From   *time.Time
	To     *time.Time
	Type   OperationType
	ICAO24 string
	Limit  int
	Offset int
}

// AnalysisReport summarizes one analysis run.
type AnalysisReport struct {
	From            time.Time `json:"from"`
	To              time.Time `json:"to"`
	SightingsSeen   int       `json:"sightings_seen"`
	UniqueAircraft  int       `json:"unique_aircraft"`
	Landings        int       `json:"landings"`
	Takeoffs        int       `json:"takeoffs"`
	HighConfidence  int       `json:"high_confidence"`
	OperationsSaved int       `json:"operations_saved"`
}
