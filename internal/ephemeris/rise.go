package ephemeris

import (
	"context"
	"math"
	"time"

	"github.com/nathan-osman/go-sunrise"
	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/tartampluch/go-panchanga/internal/engine"
)

const (
	// moonScanStep is the altitude sampling step of the Moon event search, in days.
	moonScanStep = 10.0 / 1440
	// moonScanSpan bounds the search; one lunar day is about 24h50m.
	moonScanSpan = 2.0
	earthRadiusKm = 6378.14
)

// RiseSet returns the first rise and the first set of body at or after at.
func (p *Provider) RiseSet(ctx context.Context, body engine.Body, at engine.Instant, lat, lon float64) (engine.Instant, engine.Instant, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, false, err
	}
	switch body {
	case engine.Sun:
		rise, set, ok := sunEvents(at, lat, lon)
		return rise, set, ok, nil
	case engine.Moon:
		rise, set, ok := moonEvents(ctx, at, lat, lon)
		return rise, set, ok, ctx.Err()
	}
	return 0, 0, false, nil
}

// sunEvents walks forward day by day until both events after at are found.
// go-sunrise returns zero times for polar days and nights.
func sunEvents(at engine.Instant, lat, lon float64) (rise, set engine.Instant, ok bool) {
	day := at.Time().AddDate(0, 0, -1)
	var haveRise, haveSet bool
	for range 4 {
		r, s := sunrise.SunriseSunset(lat, lon, day.Year(), day.Month(), day.Day())
		if !haveRise && !r.IsZero() {
			if ri := engine.InstantFromTime(r); ri >= at {
				rise, haveRise = ri, true
			}
		}
		if !haveSet && !s.IsZero() {
			if si := engine.InstantFromTime(s); si >= at {
				set, haveSet = si, true
			}
		}
		if haveRise && haveSet {
			return rise, set, true
		}
		day = day.Add(24 * time.Hour)
	}
	return 0, 0, false
}

// moonEvents scans the Moon's altitude above the standard rise altitude and refines each
// horizon crossing by bisection.
func moonEvents(ctx context.Context, at engine.Instant, lat, lon float64) (rise, set engine.Instant, ok bool) {
	alt := func(jd float64) float64 { return moonAltitude(jd, lat, lon) }

	var haveRise, haveSet bool
	prevJD := at.JD()
	prev := alt(prevJD)
	for t := moonScanStep; t <= moonScanSpan && !(haveRise && haveSet); t += moonScanStep {
		if ctx.Err() != nil {
			return 0, 0, false
		}
		jd := at.JD() + t
		cur := alt(jd)
		switch {
		case !haveRise && prev < 0 && cur >= 0:
			rise, haveRise = engine.Instant(bisect(alt, prevJD, jd)), true
		case !haveSet && prev >= 0 && cur < 0:
			set, haveSet = engine.Instant(bisect(alt, prevJD, jd)), true
		}
		prevJD, prev = jd, cur
	}
	return rise, set, haveRise && haveSet
}

// moonAltitude returns the Moon's altitude above its standard rise altitude, in degrees.
func moonAltitude(jd, lat, lon float64) float64 {
	jde := jd + deltaT
	lambda, beta, dist := moonposition.Position(jde)
	eps := nutation.MeanObliquity(jde)
	ra, dec := coord.EclToEq(lambda, beta, math.Sin(eps.Rad()), math.Cos(eps.Rad()))

	ha := localSiderealAngle(jd, lon) - ra.Rad()
	phi := lat * deg
	sinH := math.Sin(phi)*math.Sin(dec.Rad()) + math.Cos(phi)*math.Cos(dec.Rad())*math.Cos(ha)
	h := math.Asin(sinH) / deg

	// Standard altitude: 0.7275 of the horizontal parallax less refraction.
	parallax := math.Asin(earthRadiusKm/dist) / deg
	return h - (0.7275*parallax - 0.5667)
}

func bisect(f func(float64) float64, lo, hi float64) float64 {
	flo := f(lo)
	for range 30 {
		mid := (lo + hi) / 2
		fm := f(mid)
		if (fm >= 0) == (flo >= 0) {
			lo, flo = mid, fm
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}
