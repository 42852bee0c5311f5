package engine_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-panchanga/internal/engine"
)

func TestNormalizeInstant_Reference(t *testing.T) {
	tests := []struct {
		name   string
		civil  engine.CivilDateTime
		offset float64
		want   float64
	}{
		{"J2000", engine.CivilDateTime{Year: 2000, Month: 1, Day: 1, Hour: 12}, 0, 2451545.0},
		{"J2000 in IST", engine.CivilDateTime{Year: 2000, Month: 1, Day: 1, Hour: 17, Minute: 30}, 5.5, 2451545.0},
		{"J2000 in New York", engine.CivilDateTime{Year: 2000, Month: 1, Day: 1, Hour: 7}, -5, 2451545.0},
		{"Previous local day", engine.CivilDateTime{Year: 2000, Month: 1, Day: 2, Hour: 1}, 13, 2451545.0},
		{"Unix epoch", engine.CivilDateTime{Year: 1970, Month: 1, Day: 1}, 0, 2440587.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.NormalizeInstant(tt.civil, tt.offset)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got.JD(), 1e-8)
		})
	}
}

func TestNormalizeInstant_RejectsImpossibleDates(t *testing.T) {
	tests := []struct {
		name  string
		civil engine.CivilDateTime
	}{
		{"Month 0", engine.CivilDateTime{Year: 2024, Month: 0, Day: 1}},
		{"Month 13", engine.CivilDateTime{Year: 2024, Month: 13, Day: 1}},
		{"31 April", engine.CivilDateTime{Year: 2024, Month: 4, Day: 31}},
		{"29 February non-leap", engine.CivilDateTime{Year: 2023, Month: 2, Day: 29}},
		{"30 February", engine.CivilDateTime{Year: 2024, Month: 2, Day: 30}},
		{"Day 0", engine.CivilDateTime{Year: 2024, Month: 1, Day: 0}},
		{"Hour 24", engine.CivilDateTime{Year: 2024, Month: 1, Day: 1, Hour: 24}},
		{"Minute 60", engine.CivilDateTime{Year: 2024, Month: 1, Day: 1, Minute: 60}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.NormalizeInstant(tt.civil, 0)
			assert.ErrorIs(t, err, engine.ErrInvalidCalendarDate)
		})
	}

	_, err := engine.NormalizeInstant(engine.CivilDateTime{Year: 2024, Month: 2, Day: 29}, 0)
	assert.NoError(t, err, "29 February of a leap year is valid")

	_, err = engine.NormalizeInstant(engine.CivilDateTime{Year: 2024, Month: 1, Day: 1}, 15)
	assert.ErrorIs(t, err, engine.ErrInvalidLocation)
	_, err = engine.NormalizeInstant(engine.CivilDateTime{Year: 2024, Month: 1, Day: 1}, math.NaN())
	assert.ErrorIs(t, err, engine.ErrInvalidLocation)
}

func TestNormalizeInstant_Monotonic(t *testing.T) {
	start := engine.CivilDateTime{Year: 2023, Month: 12, Day: 31, Hour: 22}
	prev := engine.Instant(0)
	for i := range 48 {
		c := engine.CivilFromTime(time.Date(start.Year, time.Month(start.Month), start.Day, start.Hour+i, 0, 0, 0, time.UTC))
		got, err := engine.NormalizeInstant(c, 5.5)
		require.NoError(t, err)
		assert.Greater(t, got, prev)
		prev = got
	}
}

func TestInstant_TimeRoundTrip(t *testing.T) {
	at := engine.Instant(2451545.0)
	assert.Equal(t, time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC), at.Time())
	assert.Equal(t, "17:30", at.Local(5.5).Format("15:04"))
	assert.Equal(t, "UTC+05:30", at.Local(5.5).Location().String())
	assert.Equal(t, "UTC-03:30", engine.FixedZone(-3.5).String())

	now := time.Date(2024, 5, 17, 8, 45, 12, 0, time.UTC)
	assert.Equal(t, now, engine.InstantFromTime(now).Time())
}

func TestParseCivilDateTime(t *testing.T) {
	c, err := engine.ParseCivilDateTime("1990-01-01", "12:30")
	require.NoError(t, err)
	assert.Equal(t, engine.CivilDateTime{Year: 1990, Month: 1, Day: 1, Hour: 12, Minute: 30}, c)

	c, err = engine.ParseCivilDateTime("1990-01-01", "06:05:09")
	require.NoError(t, err)
	assert.Equal(t, 9, c.Second)

	c, err = engine.ParseCivilDateTime(" 2024-02-29 ", "")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29T00:00:00", c.String())

	_, err = engine.ParseCivilDateTime("2023-02-29", "")
	assert.ErrorIs(t, err, engine.ErrInvalidCalendarDate)
	_, err = engine.ParseCivilDateTime("2024-01-01", "25:00")
	assert.ErrorIs(t, err, engine.ErrInvalidCalendarDate)
}

func TestCivilDateTime_Helpers(t *testing.T) {
	c := engine.CivilDateTime{Year: 2024, Month: 2, Day: 28, Hour: 9}
	assert.Equal(t, 2, c.Weekday(), "28 February 2024 is a Wednesday")
	assert.Equal(t, engine.CivilDateTime{Year: 2024, Month: 2, Day: 29, Hour: 9}, c.AddDays(1))
	assert.Equal(t, engine.CivilDateTime{Year: 2024, Month: 3, Day: 1, Hour: 9}, c.AddDays(2))
	assert.Equal(t, engine.CivilDateTime{Year: 2024, Month: 2, Day: 28}, c.Midnight())
	assert.Equal(t, 6, engine.CivilDateTime{Year: 2024, Month: 3, Day: 3}.Weekday(), "Sunday")
}

func TestBirthData_Instant(t *testing.T) {
	b := engine.BirthData{
		Civil:    engine.CivilDateTime{Year: 2000, Month: 1, Day: 1, Hour: 12},
		Location: engine.Location{Latitude: 51.5, Longitude: -0.1},
	}
	at, err := b.Instant()
	require.NoError(t, err)
	assert.InDelta(t, 2451545.0, at.JD(), 1e-8)

	b.Location.Longitude = 181
	_, err = b.Instant()
	assert.ErrorIs(t, err, engine.ErrInvalidLocation)
}
