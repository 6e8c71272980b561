package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleWindows(t *testing.T) {
	// Business hours 9-17, 30 minute calls, 60 minutes notice
	service := NewScheduleService(9, 17, 30, 60)

	t.Run("Windows stay inside business hours", func(t *testing.T) {
		// Monday 2025-06-02 08:00 UTC
		now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

		windows, err := service.Windows(now, "UTC", 1)
		require.NoError(t, err)
		require.NotEmpty(t, windows)

		for _, w := range windows {
			assert.GreaterOrEqual(t, w.Start.Hour(), 9)
			assert.False(t, w.End.After(time.Date(w.Start.Year(), w.Start.Month(), w.Start.Day(), 17, 0, 0, 0, w.Start.Location())))
			assert.Equal(t, 30*time.Minute, w.End.Sub(w.Start))
		}
	})

	t.Run("Minimum notice excludes the next hour", func(t *testing.T) {
		now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

		windows, err := service.Windows(now, "UTC", 0)
		require.NoError(t, err)
		require.NotEmpty(t, windows)

		assert.False(t, windows[0].Start.Before(now.Add(60*time.Minute)))
	})

	t.Run("Weekends are skipped", func(t *testing.T) {
		// Saturday 2025-06-07
		now := time.Date(2025, 6, 7, 8, 0, 0, 0, time.UTC)

		windows, err := service.Windows(now, "UTC", 1)
		require.NoError(t, err)

		for _, w := range windows {
			assert.NotEqual(t, time.Saturday, w.Start.Weekday())
			assert.NotEqual(t, time.Sunday, w.Start.Weekday())
		}
	})

	t.Run("Invalid timezone is rejected", func(t *testing.T) {
		now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

		_, err := service.Windows(now, "Not/AZone", 1)

		assert.Error(t, err)
	})

	t.Run("Timezone shifts the windows", func(t *testing.T) {
		now := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

		windows, err := service.Windows(now, "America/New_York", 0)
		require.NoError(t, err)
		require.NotEmpty(t, windows)

		assert.Equal(t, "America/New_York", windows[0].Start.Location().String())
	})
}
