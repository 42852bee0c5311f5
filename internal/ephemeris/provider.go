package ephemeris

import (
	"context"
	"fmt"
	"math"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/tartampluch/go-panchanga/internal/config"
	"github.com/tartampluch/go-panchanga/internal/engine"
)

// deltaT is a fixed TT-UT estimate in days (about 69 seconds), adequate for this precision.
const deltaT = 69.2 / 86400

// Provider implements engine.Ephemeris. It is immutable and safe for concurrent use.
type Provider struct {
	frame Frame
}

// New creates a Provider bound to frame.
func New(frame Frame) *Provider {
	return &Provider{frame: frame}
}

// Frame returns the reference frame the provider was built with.
func (p *Provider) Frame() Frame { return p.frame }

// Longitude returns the tropical ecliptic longitude of date.
func (p *Provider) Longitude(ctx context.Context, body engine.Body, at engine.Instant) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return longitude(body, at.JD())
}

func longitude(body engine.Body, jd float64) (float64, error) {
	jde := jd + deltaT
	switch body {
	case engine.Sun:
		return engine.Normalize(solar.ApparentLongitude(base.J2000Century(jde)).Deg()), nil
	case engine.Moon:
		lon, _, _ := moonposition.Position(jde)
		return engine.Normalize(lon.Deg()), nil
	case engine.Rahu:
		return engine.Normalize(moonposition.Node(jde).Deg()), nil
	case engine.Ketu:
		return engine.Normalize(moonposition.Node(jde).Deg() + 180), nil
	case engine.Mercury, engine.Venus, engine.Mars, engine.Jupiter, engine.Saturn:
		return geocentricLongitude(body, jd), nil
	}
	return 0, fmt.Errorf("unsupported body %d", int(body))
}

// Speed returns the ecliptic speed in degrees per day by central difference.
func (p *Provider) Speed(ctx context.Context, body engine.Body, at engine.Instant) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	h := config.SpeedStepDays
	before, err := longitude(body, at.JD()-h)
	if err != nil {
		return 0, err
	}
	after, err := longitude(body, at.JD()+h)
	if err != nil {
		return 0, err
	}
	delta := after - before
	switch {
	case delta > 180:
		delta -= 360
	case delta < -180:
		delta += 360
	}
	return delta / (2 * h), nil
}

// Ayanamsa returns the linear-model precession correction, or zero in the tropical frame.
func (p *Provider) Ayanamsa(ctx context.Context, at engine.Instant) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if p.frame.Mode == Tropical {
		return 0, nil
	}
	model := ayanamsaModels[p.frame.Ayanamsa]
	years := (at.JD() - base.J2000) / base.JulianYear
	return model.epoch + model.rate*years/3600, nil
}

// HouseCusps returns the tropical ascendant and twelve cusps.
// Whole-sign cusps start at the ascendant's sign; equal cusps at the ascendant degree.
func (p *Provider) HouseCusps(ctx context.Context, at engine.Instant, lat, lon float64, system engine.HouseSystem) (float64, [12]float64, error) {
	var cusps [12]float64
	if err := ctx.Err(); err != nil {
		return 0, cusps, err
	}
	if math.Abs(lat) >= 90 {
		return 0, cusps, fmt.Errorf("ascendant undefined at latitude %v", lat)
	}
	asc := ascendant(at.JD(), lat, lon)

	first := asc
	if system == engine.WholeSign {
		first = math.Floor(asc/30) * 30
	}
	for i := range cusps {
		cusps[i] = engine.Normalize(first + 30*float64(i))
	}
	return asc, cusps, nil
}

// ascendant is the ecliptic degree rising in the east, from local sidereal time and obliquity.
func ascendant(jd, lat, lon float64) float64 {
	ramc := localSiderealAngle(jd, lon)
	eps := nutation.MeanObliquity(jd + deltaT).Rad()
	phi := lat * deg
	y := math.Cos(ramc)
	x := -(math.Sin(ramc)*math.Cos(eps) + math.Tan(phi)*math.Sin(eps))
	return engine.Normalize(math.Atan2(y, x) / deg)
}

// localSiderealAngle returns the local mean sidereal time as an angle in radians.
func localSiderealAngle(jd, lon float64) float64 {
	gmst := sidereal.Mean(jd).Rad()
	return math.Mod(gmst+lon*deg+4*math.Pi, 2*math.Pi)
}
