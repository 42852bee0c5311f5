package engine

import (
	"context"
	"fmt"

	"github.com/tartampluch/go-panchanga/internal/config"
)

// HouseSystem selects how house cusps are laid out.
type HouseSystem int

const (
	// WholeSign makes every house exactly one sign, starting at the ascendant's sign.
	WholeSign HouseSystem = iota
	// Equal starts house N at ascendant + 30*(N-1) degrees.
	Equal
)

func (h HouseSystem) String() string {
	if h == Equal {
		return config.HouseSystemEqual
	}
	return config.HouseSystemWholeSign
}

// ParseHouseSystem maps a settings value onto a HouseSystem.
func ParseHouseSystem(v string) (HouseSystem, error) {
	switch v {
	case "", config.HouseSystemWholeSign:
		return WholeSign, nil
	case config.HouseSystemEqual:
		return Equal, nil
	}
	return 0, fmt.Errorf("%s: %s=%q", config.ErrSettingsInvalid, config.KeyHouseSystem, v)
}

// Ephemeris is the astronomical provider consumed by the engine.
// Implementations carry their reference frame (sidereal or tropical, ayanamsa model)
// as immutable construction-time configuration; they are safe for concurrent use.
type Ephemeris interface {
	// Longitude returns the raw ecliptic longitude of body in degrees. Ketu is never queried.
	Longitude(ctx context.Context, body Body, at Instant) (float64, error)

	// Speed returns the instantaneous ecliptic speed of body in degrees per day.
	Speed(ctx context.Context, body Body, at Instant) (float64, error)

	// Ayanamsa returns the precession correction to subtract from raw longitudes.
	// It is zero for providers configured in the tropical frame.
	Ayanamsa(ctx context.Context, at Instant) (float64, error)

	// RiseSet returns the first rise and the first set of body after at, for an observer
	// at (lat, lon). ok is false when the body neither rises nor sets within a day.
	RiseSet(ctx context.Context, body Body, at Instant, lat, lon float64) (rise, set Instant, ok bool, err error)

	// HouseCusps returns the raw ascendant longitude and the twelve raw cusps.
	HouseCusps(ctx context.Context, at Instant, lat, lon float64, system HouseSystem) (asc float64, cusps [12]float64, err error)
}
