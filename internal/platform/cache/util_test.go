package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeUntilNextRefresh(t *testing.T) {
	t.Parallel()

	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name     string
		now      time.Time
		loc      *time.Location
		hour     int
		expected time.Duration
	}{
		{
			name:     "before refresh hour same day",
			now:      time.Date(2025, 1, 15, 6, 30, 0, 0, time.UTC),
			loc:      time.UTC,
			hour:     8,
			expected: 90 * time.Minute,
		},
		{
			name:     "after refresh hour rolls to next day",
			now:      time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC),
			loc:      time.UTC,
			hour:     8,
			expected: 23 * time.Hour,
		},
		{
			name:     "exactly at refresh hour waits a full day",
			now:      time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC),
			loc:      time.UTC,
			hour:     8,
			expected: 24 * time.Hour,
		},
		{
			name:     "nil location defaults to UTC",
			now:      time.Date(2025, 1, 15, 7, 0, 0, 0, time.UTC),
			loc:      nil,
			hour:     8,
			expected: time.Hour,
		},
		{
			name:     "location is honoured",
			now:      time.Date(2025, 1, 15, 20, 0, 0, 0, time.UTC), // 15:00 in New York
			loc:      ny,
			hour:     18,
			expected: 3 * time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, TimeUntilNextRefresh(tt.now, tt.loc, tt.hour))
		})
	}
}

func TestTimeUntilNextRefresh_AlwaysPositive(t *testing.T) {
	t.Parallel()

	for h := 0; h < 24; h++ {
		d := TimeUntilNextRefresh(time.Now(), time.UTC, h)
		assert.Greater(t, d, time.Duration(0))
		assert.LessOrEqual(t, d, 24*time.Hour)
	}
}
