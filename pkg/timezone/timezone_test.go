package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/types"
)

func TestLoad(t *testing.T) {
	zone, err := Load("America/New_York")
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", zone.Name())

	_, err = Load("")
	assert.ErrorIs(t, err, ErrUnknownZone)

	_, err = Load("Mars/Olympus_Mons")
	assert.ErrorIs(t, err, ErrUnknownZone)
}

func TestZone_ParseDate(t *testing.T) {
	zone, err := Load("America/New_York")
	require.NoError(t, err)

	date, err := zone.ParseDate("2026-09-10")
	require.NoError(t, err)

	// Полночь в бизнесовом поясе, EDT = UTC-4
	assert.Equal(t, "2026-09-10T04:00:00Z", date.UTC().Format(time.RFC3339))

	_, err = zone.ParseDate("10.09.2026")
	assert.ErrorIs(t, err, ErrInvalidTimeInput)

	_, err = zone.ParseDate("2026-13-40")
	assert.ErrorIs(t, err, ErrInvalidTimeInput)
}

func TestZone_ToInstant(t *testing.T) {
	zone, err := Load("America/New_York")
	require.NoError(t, err)

	date, err := zone.ParseDate("2026-09-10")
	require.NoError(t, err)

	instant, err := zone.ToInstant(date, types.TimeString("09:30"))
	require.NoError(t, err)
	assert.Equal(t, "2026-09-10T13:30:00Z", instant.Format(time.RFC3339))

	_, err = zone.ToInstant(date, types.TimeString("25:99"))
	assert.ErrorIs(t, err, ErrInvalidTimeInput)
}

func TestZone_ToInstant_AcrossDSTTransition(t *testing.T) {
	zone, err := Load("America/New_York")
	require.NoError(t, err)

	// 1 ноября 2026 - переход на зимнее время, сутки длятся 25 часов
	date, err := zone.ParseDate("2026-11-01")
	require.NoError(t, err)

	before, err := zone.ToInstant(date, types.TimeString("00:30"))
	require.NoError(t, err)
	after, err := zone.ToInstant(date, types.TimeString("09:00"))
	require.NoError(t, err)

	// 00:30 EDT (UTC-4), 09:00 уже EST (UTC-5)
	assert.Equal(t, "2026-11-01T04:30:00Z", before.Format(time.RFC3339))
	assert.Equal(t, "2026-11-01T14:00:00Z", after.Format(time.RFC3339))

	// Локальная дистанция 8.5 часов, абсолютная - 9.5 из-за повторённого часа
	assert.Equal(t, 9*time.Hour+30*time.Minute, after.Sub(before))
}

func TestZone_DayWindow(t *testing.T) {
	zone, err := Load("America/New_York")
	require.NoError(t, err)

	date, err := zone.ParseDate("2026-09-10")
	require.NoError(t, err)

	start, end := zone.DayWindow(date)
	assert.Equal(t, "2026-09-10T04:00:00Z", start.Format(time.RFC3339))
	assert.Equal(t, "2026-09-11T04:00:00Z", end.Format(time.RFC3339))
	assert.Equal(t, 24*time.Hour, end.Sub(start))

	// Сутки перехода на зимнее время длятся 25 часов
	dstDate, err := zone.ParseDate("2026-11-01")
	require.NoError(t, err)

	start, end = zone.DayWindow(dstDate)
	assert.Equal(t, 25*time.Hour, end.Sub(start))
}

func TestZone_Weekday(t *testing.T) {
	zone, err := Load("Pacific/Auckland")
	require.NoError(t, err)

	// 2026-09-10T23:00:00Z это уже пятница 11 сентября в Окленде
	instant := time.Date(2026, 9, 10, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Friday, zone.Weekday(instant))

	utcZone, err := Load("UTC")
	require.NoError(t, err)
	assert.Equal(t, time.Thursday, utcZone.Weekday(instant))
}

func TestZone_FromInstant(t *testing.T) {
	zone, err := Load("America/New_York")
	require.NoError(t, err)

	instant := time.Date(2026, 9, 10, 13, 30, 0, 0, time.UTC)
	date, timeOfDay := zone.FromInstant(instant)

	assert.Equal(t, "2026-09-10", date.Format("2006-01-02"))
	assert.Equal(t, "09:30", timeOfDay.String())
}

func TestZone_SameDay(t *testing.T) {
	zone, err := Load("America/New_York")
	require.NoError(t, err)

	// 03:00 UTC и 13:00 UTC десятого сентября: первая точка локально ещё девятое
	a := time.Date(2026, 9, 10, 3, 0, 0, 0, time.UTC)
	b := time.Date(2026, 9, 10, 13, 0, 0, 0, time.UTC)
	assert.False(t, zone.SameDay(a, b))

	c := time.Date(2026, 9, 10, 20, 0, 0, 0, time.UTC)
	assert.True(t, zone.SameDay(b, c))
}
