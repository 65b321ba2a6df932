package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fptr(v float64) *float64 { return &v }

func TestClassify(t *testing.T) {
	const groundAlt, landingAlt = 100.0, 500.0

	tests := []struct {
		name     string
		altitude *float64
		onGround bool
		want     ActivityStatus
	}{
		{"on ground wins regardless of altitude", fptr(2000), true, StatusOnGround},
		{"below ground threshold", fptr(50), false, StatusVeryLow},
		{"between thresholds", fptr(350), false, StatusLowAltitude},
		{"at landing threshold is cruising", fptr(500), false, StatusCruising},
		{"well above", fptr(9000), false, StatusCruising},
		{"no altitude airborne falls through to cruising", nil, false, StatusCruising},
		{"no altitude on ground", nil, true, StatusOnGround},
		{"exactly at ground threshold is low not very low", fptr(100), false, StatusLowAltitude},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.altitude, tt.onGround, groundAlt, landingAlt)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSightingSetAltitude(t *testing.T) {
	t.Run("derives feet from meters", func(t *testing.T) {
		var s Sighting
		s.SetAltitude(fptr(500))

		assert.NotNil(t, s.AltitudeFt)
		assert.Equal(t, 1640, *s.AltitudeFt)
	})

	t.Run("nil altitude clears both fields", func(t *testing.T) {
		var s Sighting
		s.SetAltitude(fptr(500))
		s.SetAltitude(nil)

		assert.Nil(t, s.BaroAltitudeM)
		assert.Nil(t, s.AltitudeFt)
	})
}
