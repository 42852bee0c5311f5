package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tartampluch/go-panchanga/internal/config"
)

// CelestialPosition is the reference-frame corrected placement of one body.
type CelestialPosition struct {
	Body         Body    `json:"body"`
	Longitude    float64 `json:"longitude"`
	Sign         int     `json:"sign"`
	Nakshatra    int     `json:"nakshatra"`
	Pada         int     `json:"pada"`
	DegreeInSign float64 `json:"degree_in_sign"`
	Retrograde   bool    `json:"retrograde"`
	Combust      bool    `json:"combust"`
}

// SignName returns the name of the occupied sign.
func (p CelestialPosition) SignName() string { return SignNames[p.Sign] }

// NakshatraName returns the name of the occupied nakshatra.
func (p CelestialPosition) NakshatraName() string { return NakshatraNames[p.Nakshatra] }

// Positions maps every body to its position for one instant.
type Positions map[Body]CelestialPosition

// PositionAt builds the zodiacal attributes of a corrected longitude.
// Retrograde and combustion flags are left unset.
func PositionAt(body Body, lon float64) CelestialPosition {
	lon = Normalize(lon)
	return CelestialPosition{
		Body:         body,
		Longitude:    lon,
		Sign:         SignIndex(lon),
		Nakshatra:    NakshatraIndex(lon),
		Pada:         Pada(lon),
		DegreeInSign: DegreeInSign(lon),
	}
}

// Resolver turns raw provider longitudes into corrected celestial positions.
type Resolver struct {
	Ephemeris Ephemeris
	// CombustionOrb is the angular distance from the Sun under which a body is combust.
	CombustionOrb float64
}

// NewResolver creates a Resolver with the default 8 degree combustion orb.
func NewResolver(eph Ephemeris) *Resolver {
	return &Resolver{Ephemeris: eph, CombustionOrb: config.DefaultCombustionOrb}
}

// ResolvePositions returns the nine bodies at the given instant.
// Any provider failure aborts the whole resolution with ErrEphemerisUnavailable.
func (r *Resolver) ResolvePositions(ctx context.Context, at Instant) (Positions, error) {
	start := time.Now()

	ayanamsa, err := r.Ephemeris.Ayanamsa(ctx, at)
	if err != nil {
		return nil, fmt.Errorf("%w: ayanamsa: %w", ErrEphemerisUnavailable, err)
	}

	out := make(Positions, len(AllBodies))
	for _, body := range AllBodies[:Ketu] {
		raw, err := r.Ephemeris.Longitude(ctx, body, at)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrEphemerisUnavailable, body, err)
		}
		pos := PositionAt(body, raw-ayanamsa)

		retro, err := r.retrograde(ctx, body, at)
		if err != nil {
			return nil, err
		}
		pos.Retrograde = retro
		out[body] = pos
	}

	ketu := PositionAt(Ketu, out[Rahu].Longitude+180)
	ketu.Retrograde = true
	out[Ketu] = ketu

	sun := out[Sun].Longitude
	for body, pos := range out {
		pos.Combust = r.isCombust(body, pos.Longitude, sun)
		out[body] = pos
	}

	slog.Debug(config.MsgPositions,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyInstant, at.JD(),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return out, nil
}

// retrograde consults the provider speed for every body but the Sun and the nodes.
func (r *Resolver) retrograde(ctx context.Context, body Body, at Instant) (bool, error) {
	switch body {
	case Sun:
		return false, nil
	case Rahu, Ketu:
		return true, nil
	}
	speed, err := r.Ephemeris.Speed(ctx, body, at)
	if err != nil {
		return false, fmt.Errorf("%w: %s speed: %w", ErrEphemerisUnavailable, body, err)
	}
	return speed < 0, nil
}

func (r *Resolver) isCombust(body Body, lon, sun float64) bool {
	if body == Sun {
		return false
	}
	orb := r.CombustionOrb
	if orb <= 0 {
		orb = config.DefaultCombustionOrb
	}
	return Separation(lon, sun) < orb
}

// -----------------------------------------------------------------------------
// Planetary relationships
// -----------------------------------------------------------------------------

// Relationship is the natural friendship between two bodies.
type Relationship string

const (
	RelSelf    Relationship = "Self"
	RelFriend  Relationship = "Friend"
	RelNeutral Relationship = "Neutral"
	RelEnemy   Relationship = "Enemy"
)

// RelationshipBetween looks up the symmetric friendship table of the default tables.
func RelationshipBetween(a, b Body) Relationship {
	return DefaultTables().Relationship(a, b)
}

// -----------------------------------------------------------------------------
// Avastha
// -----------------------------------------------------------------------------

// AvasthaNames are the five life stages over 6 degree buckets of the sign.
var AvasthaNames = [5]string{"Bala", "Kumara", "Yuva", "Vriddha", "Mrita"}

// Avastha returns the life stage of a body at degreeInSign. Buckets are closed-open.
func Avastha(degreeInSign float64) string {
	switch {
	case degreeInSign < 6:
		return AvasthaNames[0]
	case degreeInSign < 12:
		return AvasthaNames[1]
	case degreeInSign < 18:
		return AvasthaNames[2]
	case degreeInSign < 24:
		return AvasthaNames[3]
	default:
		return AvasthaNames[4]
	}
}
