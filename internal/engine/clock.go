package engine

import "time"

// Clock supplies the current time. The Engine asks it for "today" when no date is given.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant.
type FixedClock time.Time

// Now returns the fixed time.
func (c FixedClock) Now() time.Time { return time.Time(c) }

// civilNow reads the wall clock of c at a fixed UTC offset.
func civilNow(c Clock, utcOffsetHours float64) CivilDateTime {
	if c == nil {
		c = RealClock{}
	}
	return CivilFromTime(c.Now().In(FixedZone(utcOffsetHours)))
}
