package opensky

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateVectorUnmarshal(t *testing.T) {
	t.Run("full vector", func(t *testing.T) {
		raw := `["a1b2c3","N123AB  ","United States",1722520000,1722520005,-80.90,25.86,457.2,false,61.2,184.5,-3.2,null,480.1,"1200",false,0]`

		var sv StateVector
		require.NoError(t, json.Unmarshal([]byte(raw), &sv))

		assert.Equal(t, "a1b2c3", sv.ICAO24)
		assert.Equal(t, "N123AB", sv.Callsign, "callsign should be trimmed")
		assert.Equal(t, "United States", sv.OriginCountry)
		require.NotNil(t, sv.Latitude)
		assert.InDelta(t, 25.86, *sv.Latitude, 1e-9)
		require.NotNil(t, sv.BaroAltitude)
		assert.InDelta(t, 457.2, *sv.BaroAltitude, 1e-9)
		assert.False(t, sv.OnGround)
		require.NotNil(t, sv.VerticalRate)
		assert.InDelta(t, -3.2, *sv.VerticalRate, 1e-9)
		assert.Equal(t, "1200", sv.Squawk)
	})

	t.Run("nulls become nil pointers", func(t *testing.T) {
		raw := `["a1b2c3",null,"United States",null,1722520005,null,null,null,true,null,null,null,null,null,null,false,0]`

		var sv StateVector
		require.NoError(t, json.Unmarshal([]byte(raw), &sv))

		assert.Empty(t, sv.Callsign)
		assert.Nil(t, sv.Latitude)
		assert.Nil(t, sv.Longitude)
		assert.Nil(t, sv.BaroAltitude)
		assert.True(t, sv.OnGround)
		assert.False(t, sv.HasPosition())
	})

	t.Run("too short is an error", func(t *testing.T) {
		var sv StateVector
		err := json.Unmarshal([]byte(`["a1b2c3","X"]`), &sv)
		assert.Error(t, err)
	})

	t.Run("not an array is an error", func(t *testing.T) {
		var sv StateVector
		err := json.Unmarshal([]byte(`{"icao24":"a1b2c3"}`), &sv)
		assert.Error(t, err)
	})
}

func TestStateVectorSeenAt(t *testing.T) {
	t.Run("prefers position time", func(t *testing.T) {
		pos := int64(1722520000)
		sv := StateVector{TimePosition: &pos, LastContact: 1722520100}

		assert.Equal(t, time.Unix(pos, 0).UTC(), sv.SeenAt())
	})

	t.Run("falls back to last contact", func(t *testing.T) {
		sv := StateVector{LastContact: 1722520100}

		assert.Equal(t, time.Unix(1722520100, 0).UTC(), sv.SeenAt())
	})
}
