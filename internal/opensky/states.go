package opensky

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// statesResponse is the envelope returned by /states/all.
type statesResponse struct {
	Time   int64             `json:"time"`
	States []json.RawMessage `json:"states"`
}

// StateVector is one aircraft state from the OpenSky live feed.
//
// The API returns each state as a positional JSON array with mixed
// types and nulls, not an object; UnmarshalJSON does the index
// mapping. Pointer fields are nil when the feed reported null.
type StateVector struct {
	ICAO24        string
	Callsign      string
	OriginCountry string
	TimePosition  *int64
	LastContact   int64
	Longitude     *float64
	Latitude      *float64
	BaroAltitude  *float64
	OnGround      bool
	Velocity      *float64
	TrueTrack     *float64
	VerticalRate  *float64
	GeoAltitude   *float64
	Squawk        string
	SPI           bool
}

// Positions of the fields within the state vector array, per the
// OpenSky API documentation.
const (
	idxICAO24 = iota
	idxCallsign
	idxOriginCountry
	idxTimePosition
	idxLastContact
	idxLongitude
	idxLatitude
	idxBaroAltitude
	idxOnGround
	idxVelocity
	idxTrueTrack
	idxVerticalRate
	idxSensors
	idxGeoAltitude
	idxSquawk
	idxSPI
	idxPositionSource

	stateVectorMinLen = idxVerticalRate + 1
)

// UnmarshalJSON decodes the positional array form.
func (v *StateVector) UnmarshalJSON(data []byte) error {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("state vector is not an array: %w", err)
	}
	if len(raw) < stateVectorMinLen {
		return fmt.Errorf("state vector has %d fields, want at least %d", len(raw), stateVectorMinLen)
	}

	v.ICAO24 = asString(raw[idxICAO24])
	v.Callsign = strings.TrimSpace(asString(raw[idxCallsign]))
	v.OriginCountry = asString(raw[idxOriginCountry])
	v.TimePosition = asInt64Ptr(raw[idxTimePosition])
	if lc := asInt64Ptr(raw[idxLastContact]); lc != nil {
		v.LastContact = *lc
	}
	v.Longitude = asFloatPtr(raw[idxLongitude])
	v.Latitude = asFloatPtr(raw[idxLatitude])
	v.BaroAltitude = asFloatPtr(raw[idxBaroAltitude])
	v.OnGround = asBool(raw[idxOnGround])
	v.Velocity = asFloatPtr(raw[idxVelocity])
	v.TrueTrack = asFloatPtr(raw[idxTrueTrack])
	v.VerticalRate = asFloatPtr(raw[idxVerticalRate])

	if len(raw) > idxGeoAltitude {
		v.GeoAltitude = asFloatPtr(raw[idxGeoAltitude])
	}
	if len(raw) > idxSquawk {
		v.Squawk = asString(raw[idxSquawk])
	}
	if len(raw) > idxSPI {
		v.SPI = asBool(raw[idxSPI])
	}

	return nil
}

// HasPosition reports whether the vector carries usable coordinates.
func (v *StateVector) HasPosition() bool {
	return v.Latitude != nil && v.Longitude != nil
}

// SeenAt returns the best-effort observation time: the position
// timestamp when present, otherwise the last contact time.
func (v *StateVector) SeenAt() time.Time {
	if v.TimePosition != nil {
		return time.Unix(*v.TimePosition, 0).UTC()
	}
	return time.Unix(v.LastContact, 0).UTC()
}

func asString(raw any) string {
	s, _ := raw.(string)
	return s
}

func asBool(raw any) bool {
	b, _ := raw.(bool)
	return b
}

func asFloatPtr(raw any) *float64 {
	// encoding/json decodes every JSON number into float64.
	if f, ok := raw.(float64); ok {
		return &f
	}
	return nil
}

func asInt64Ptr(raw any) *int64 {
	if f, ok := raw.(float64); ok {
		i := int64(f)
		return &i
	}
	return nil
}
