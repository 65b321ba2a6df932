package trino

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHourRange(t *testing.T) {
	t.Run("one week of hourly buckets", func(t *testing.T) {
		from := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 7, 7, 23, 0, 0, 0, time.UTC)

		hours := HourRange(from, to)
		require.Len(t, hours, 7*24)
		assert.Equal(t, from.Unix(), hours[0])
		assert.Equal(t, to.Unix(), hours[len(hours)-1])
	})

	t.Run("sub-hour timestamps truncate to the bucket", func(t *testing.T) {
		from := time.Date(2025, 7, 1, 10, 45, 0, 0, time.UTC)
		to := time.Date(2025, 7, 1, 11, 5, 0, 0, time.UTC)

		hours := HourRange(from, to)
		require.Len(t, hours, 2)
		assert.Equal(t, time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC).Unix(), hours[0])
	})

	t.Run("reversed range is empty", func(t *testing.T) {
		from := time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

		assert.Empty(t, HourRange(from, to))
	})
}
