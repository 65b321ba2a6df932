package job

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBackfillTask(t *testing.T) {
	from := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(6 * time.Hour)

	task, err := NewBackfillTask(from, to)
	require.NoError(t, err)
	assert.Equal(t, TaskBackfill, task.Type())

	var payload BackfillPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.True(t, payload.From.Equal(from))
	assert.True(t, payload.To.Equal(to))
}

func TestNewActivityAlertTask(t *testing.T) {
	alt := 320
	detected := time.Date(2025, 7, 1, 14, 30, 0, 0, time.UTC)

	task, err := NewActivityAlertTask(detected, []AlertSighting{
		{ICAO24: "a8f2c1", Callsign: "N521TX", AltitudeFt: &alt, Status: "VERY_LOW"},
		{ICAO24: "ab11ee", Callsign: "", AltitudeFt: nil, Status: "ON_GROUND"},
	})
	require.NoError(t, err)
	assert.Equal(t, TaskActivityAlert, task.Type())

	var payload ActivityAlertPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	require.Len(t, payload.Sightings, 2)
	assert.Equal(t, "a8f2c1", payload.Sightings[0].ICAO24)
	require.NotNil(t, payload.Sightings[0].AltitudeFt)
	assert.Equal(t, 320, *payload.Sightings[0].AltitudeFt)
	assert.Nil(t, payload.Sightings[1].AltitudeFt)
}

func TestNewPollTaskHasNoPayload(t *testing.T) {
	task, err := NewPollTask()
	require.NoError(t, err)
	assert.Equal(t, TaskPoll, task.Type())
	assert.Empty(t, task.Payload())
}
