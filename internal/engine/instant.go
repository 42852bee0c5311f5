package engine

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/tartampluch/go-panchanga/internal/config"
)

// unixEpochJD is the Julian Day of 1970-01-01T00:00:00Z.
const unixEpochJD = 2440587.5

const secondsPerDay = 86400.0

// Instant is an astronomical time scalar: a Julian Day number on the UT scale.
type Instant float64

// CivilDateTime is a wall-clock date and time, without zone information.
type CivilDateTime struct {
	Year   int `json:"year" validate:"gte=-4712,lte=9999"`
	Month  int `json:"month" validate:"gte=1,lte=12"`
	Day    int `json:"day" validate:"gte=1,lte=31"`
	Hour   int `json:"hour" validate:"gte=0,lte=23"`
	Minute int `json:"minute" validate:"gte=0,lte=59"`
	Second int `json:"second" validate:"gte=0,lte=59"`
}

// Location is an already geocoded observer position with its UTC offset in hours.
type Location struct {
	Latitude  float64 `json:"lat" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"lon" validate:"gte=-180,lte=180"`
	UTCOffset float64 `json:"utc_offset" validate:"gte=-14,lte=14"`
}

// Validate reports ErrInvalidCalendarDate for impossible calendar values.
func (c CivilDateTime) Validate() error {
	return check(c, ErrInvalidCalendarDate)
}

// Validate reports ErrInvalidLocation for out of range coordinates or offsets.
func (l Location) Validate() error {
	return check(l, ErrInvalidLocation)
}

// Weekday returns the civil weekday with Monday=0 ... Sunday=6.
func (c CivilDateTime) Weekday() int {
	wd := time.Date(c.Year, time.Month(c.Month), c.Day, 0, 0, 0, 0, time.UTC).Weekday()
	return (int(wd) + 6) % 7
}

// Midnight returns the same civil date at 00:00:00.
func (c CivilDateTime) Midnight() CivilDateTime {
	return CivilDateTime{Year: c.Year, Month: c.Month, Day: c.Day}
}

// AddDays shifts the civil date by n days, keeping the time of day.
func (c CivilDateTime) AddDays(n int) CivilDateTime {
	t := time.Date(c.Year, time.Month(c.Month), c.Day+n, c.Hour, c.Minute, c.Second, 0, time.UTC)
	return CivilFromTime(t)
}

// String renders the civil value as YYYY-MM-DDTHH:MM:SS.
func (c CivilDateTime) String() string {
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d", c.Year, c.Month, c.Day, c.Hour, c.Minute, c.Second)
}

// CivilFromTime reads the wall clock of t in its own location.
func CivilFromTime(t time.Time) CivilDateTime {
	return CivilDateTime{
		Year: t.Year(), Month: int(t.Month()), Day: t.Day(),
		Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(),
	}
}

// ParseCivilDateTime parses a YYYY-MM-DD date and an optional HH:MM[:SS] clock.
func ParseCivilDateTime(date, clock string) (CivilDateTime, error) {
	d, err := time.Parse(config.DateFormatFullDash, strings.TrimSpace(date))
	if err != nil {
		return CivilDateTime{}, fmt.Errorf("%w: %s: %q", ErrInvalidCalendarDate, config.ErrDateParse, date)
	}
	c := CivilFromTime(d)

	clock = strings.TrimSpace(clock)
	if clock == "" {
		return c, nil
	}
	layout := config.TimeFormatClock
	if strings.Count(clock, ":") == 2 {
		layout = config.TimeFormatSeconds
	}
	t, err := time.Parse(layout, clock)
	if err != nil {
		return CivilDateTime{}, fmt.Errorf("%w: %s: %q", ErrInvalidCalendarDate, config.ErrTimeParse, clock)
	}
	c.Hour, c.Minute, c.Second = t.Hour(), t.Minute(), t.Second()
	return c, nil
}

// NormalizeInstant converts a civil date/time observed at utcOffsetHours into an Instant.
// The offset is subtracted from the hour before the day count is formed.
func NormalizeInstant(c CivilDateTime, utcOffsetHours float64) (Instant, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	if math.IsNaN(utcOffsetHours) || math.Abs(utcOffsetHours) > config.MaxUTCOffset {
		return 0, fmt.Errorf("%w: utc offset %v out of range", ErrInvalidLocation, utcOffsetHours)
	}

	hours := float64(c.Hour) - utcOffsetHours + float64(c.Minute)/60 + float64(c.Second)/3600
	jd := julian.CalendarGregorianToJD(c.Year, c.Month, float64(c.Day)+hours/24)
	return Instant(jd), nil
}

// InstantFromTime converts an absolute time into an Instant.
func InstantFromTime(t time.Time) Instant {
	return Instant(unixEpochJD + float64(t.UnixNano())/1e9/secondsPerDay)
}

// JD returns the raw Julian Day number.
func (i Instant) JD() float64 { return float64(i) }

// AddDays returns the instant shifted by d days.
func (i Instant) AddDays(d float64) Instant { return i + Instant(d) }

// Time converts the instant to a UTC time, rounded to the millisecond.
func (i Instant) Time() time.Time {
	ms := math.Round((float64(i) - unixEpochJD) * secondsPerDay * 1000)
	return time.UnixMilli(int64(ms)).UTC()
}

// Local converts the instant to wall-clock time at utcOffsetHours.
func (i Instant) Local(utcOffsetHours float64) time.Time {
	return i.Time().In(FixedZone(utcOffsetHours))
}

// FixedZone returns a location with a constant offset of utcOffsetHours.
func FixedZone(utcOffsetHours float64) *time.Location {
	secs := int(math.Round(utcOffsetHours * 3600))
	sign := '+'
	if secs < 0 {
		sign = '-'
	}
	abs := secs
	if abs < 0 {
		abs = -abs
	}
	name := fmt.Sprintf("UTC%c%02d:%02d", sign, abs/3600, (abs%3600)/60)
	return time.FixedZone(name, secs)
}
