package ephemeris

import (
	"math"

	"github.com/tartampluch/go-panchanga/internal/engine"
)

const (
	deg = math.Pi / 180
	// schlyterEpoch is the Julian Day of 1999-12-31T00:00 UT, day 0 of the element series.
	schlyterEpoch = 2451543.5
)

// orbit holds linear orbital elements: value at day 0 plus a daily rate.
type orbit struct {
	n, i, w, a, e, m [2]float64
}

func (o orbit) at(d float64) (n, i, w, a, e, m float64) {
	lin := func(el [2]float64) float64 { return el[0] + el[1]*d }
	return lin(o.n), lin(o.i), lin(o.w), lin(o.a), lin(o.e), lin(o.m)
}

var orbits = map[engine.Body]orbit{
	engine.Mercury: {
		n: [2]float64{48.3313, 3.24587e-5}, i: [2]float64{7.0047, 5.00e-8},
		w: [2]float64{29.1241, 1.01444e-5}, a: [2]float64{0.387098, 0},
		e: [2]float64{0.205635, 5.59e-10}, m: [2]float64{168.6562, 4.0923344368},
	},
	engine.Venus: {
		n: [2]float64{76.6799, 2.46590e-5}, i: [2]float64{3.3946, 2.75e-8},
		w: [2]float64{54.8910, 1.38374e-5}, a: [2]float64{0.723330, 0},
		e: [2]float64{0.006773, -1.302e-9}, m: [2]float64{48.0052, 1.6021302244},
	},
	engine.Mars: {
		n: [2]float64{49.5574, 2.11081e-5}, i: [2]float64{1.8497, -1.78e-8},
		w: [2]float64{286.5016, 2.92961e-5}, a: [2]float64{1.523688, 0},
		e: [2]float64{0.093405, 2.516e-9}, m: [2]float64{18.6021, 0.5240207766},
	},
	engine.Jupiter: {
		n: [2]float64{100.4542, 2.76854e-5}, i: [2]float64{1.3030, -1.557e-7},
		w: [2]float64{273.8777, 1.64505e-5}, a: [2]float64{5.20256, 0},
		e: [2]float64{0.048498, 4.469e-9}, m: [2]float64{19.8950, 0.0830853001},
	},
	engine.Saturn: {
		n: [2]float64{113.6634, 2.38980e-5}, i: [2]float64{2.4886, -1.081e-7},
		w: [2]float64{339.3939, 2.97661e-5}, a: [2]float64{9.55475, 0},
		e: [2]float64{0.055546, -9.499e-9}, m: [2]float64{316.9670, 0.0334442282},
	},
}

// earthSun is the Sun's apparent orbit around the Earth.
var earthSun = orbit{
	w: [2]float64{282.9404, 4.70935e-5}, a: [2]float64{1, 0},
	e: [2]float64{0.016709, -1.151e-9}, m: [2]float64{356.0470, 0.9856002585},
}

// kepler solves M = E - e sin E for the eccentric anomaly, in radians.
func kepler(mRad, e float64) float64 {
	ecc := mRad + e*math.Sin(mRad)*(1+e*math.Cos(mRad))
	for range 20 {
		delta := (ecc - e*math.Sin(ecc) - mRad) / (1 - e*math.Cos(ecc))
		ecc -= delta
		if math.Abs(delta) < 1e-12 {
			break
		}
	}
	return ecc
}

// inPlane returns the true anomaly (radians) and distance of an orbit.
func inPlane(a, e, m float64) (v, r float64) {
	ecc := kepler(m*deg, e)
	xv := a * (math.Cos(ecc) - e)
	yv := a * math.Sqrt(1-e*e) * math.Sin(ecc)
	return math.Atan2(yv, xv), math.Hypot(xv, yv)
}

// heliocentric returns ecliptic longitude, latitude (degrees) and distance (AU) of a planet.
func heliocentric(body engine.Body, d float64) (lon, lat, r float64) {
	n, i, w, a, e, m := orbits[body].at(d)
	v, r := inPlane(a, e, m)
	u := v + w*deg
	nr, ir := n*deg, i*deg

	x := r * (math.Cos(nr)*math.Cos(u) - math.Sin(nr)*math.Sin(u)*math.Cos(ir))
	y := r * (math.Sin(nr)*math.Cos(u) + math.Cos(nr)*math.Sin(u)*math.Cos(ir))
	z := r * math.Sin(u) * math.Sin(ir)

	lon = math.Atan2(y, x) / deg
	lat = math.Atan2(z, math.Hypot(x, y)) / deg
	lon += perturbation(body, d)
	return lon, lat, r
}

// perturbation adds the largest Jupiter-Saturn mutual terms to the heliocentric longitude.
func perturbation(body engine.Body, d float64) float64 {
	mj := (orbits[engine.Jupiter].m[0] + orbits[engine.Jupiter].m[1]*d) * deg
	ms := (orbits[engine.Saturn].m[0] + orbits[engine.Saturn].m[1]*d) * deg
	switch body {
	case engine.Jupiter:
		return -0.332*math.Sin(2*mj-5*ms-67.6*deg) -
			0.056*math.Sin(2*mj-2*ms+21*deg) +
			0.042*math.Sin(3*mj-5*ms+21*deg) -
			0.036*math.Sin(mj-2*ms) +
			0.022*math.Cos(mj-ms) +
			0.023*math.Sin(2*mj-3*ms+52*deg) -
			0.016*math.Sin(mj-5*ms-69*deg)
	case engine.Saturn:
		return 0.812*math.Sin(2*mj-5*ms-67.6*deg) -
			0.229*math.Cos(2*mj-4*ms-2*deg) +
			0.119*math.Sin(mj-2*ms-3*deg) +
			0.046*math.Sin(2*mj-6*ms-69*deg) +
			0.014*math.Sin(mj-3*ms+32*deg)
	}
	return 0
}

// geocentricLongitude converts a planet's heliocentric position to the Earth's point of view.
func geocentricLongitude(body engine.Body, jd float64) float64 {
	d := jd - schlyterEpoch
	lon, lat, r := heliocentric(body, d)
	lr, br := lon*deg, lat*deg
	xh := r * math.Cos(lr) * math.Cos(br)
	yh := r * math.Sin(lr) * math.Cos(br)

	_, _, w, a, e, m := earthSun.at(d)
	v, rs := inPlane(a, e, m)
	sunLon := v + w*deg
	xs := rs * math.Cos(sunLon)
	ys := rs * math.Sin(sunLon)

	return engine.Normalize(math.Atan2(yh+ys, xh+xs) / deg)
}
