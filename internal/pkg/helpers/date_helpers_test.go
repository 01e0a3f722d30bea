package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayISORoundTrip(t *testing.T) {
	iso, err := DisplayToISO("01/06/2025")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", iso)

	iso, err = DisplayToISO("15/05/2025 18:30")
	require.NoError(t, err)
	assert.Equal(t, "2025-05-15 18:30:00", iso)

	display, err := ISOToDisplay("2025-05-15 18:30:00")
	require.NoError(t, err)
	assert.Equal(t, "15/05/2025 18:30", display)

	display, err = ISOToDisplay("2025-05-15T08:05:00")
	require.NoError(t, err)
	assert.Equal(t, "15/05/2025 08:05", display)

	display, err = ISOToDisplay("2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, "01/06/2025", display)
}

func TestDisplayToISO_Invalid(t *testing.T) {
	_, err := DisplayToISO("2025-06-01")
	assert.Error(t, err)
	_, err = DisplayToISO("31/02/2025")
	assert.Error(t, err)
}

func TestParseClock(t *testing.T) {
	d, err := ParseClock("14:30")
	require.NoError(t, err)
	assert.Equal(t, 14*time.Hour+30*time.Minute, d)
	assert.Equal(t, "14:30", FormatClock(d))

	_, err = ParseClock("25:00")
	assert.Error(t, err)
}

func TestWallClock(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	instant := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	wall := WallClock(instant, paris)

	assert.Equal(t, time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC), wall)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), StartOfDay(wall))
}
