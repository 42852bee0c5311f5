package engine

import (
	"fmt"
	"math"
)

// Body identifies a celestial body or lunar node.
type Body int

// The nine bodies of the chart, in their fixed enumeration order.
const (
	Sun Body = iota
	Moon
	Mars
	Mercury
	Jupiter
	Venus
	Saturn
	Rahu
	Ketu
)

// AllBodies lists every body in enumeration order.
var AllBodies = []Body{Sun, Moon, Mars, Mercury, Jupiter, Venus, Saturn, Rahu, Ketu}

// ClassicalPlanets are the seven visible bodies (nodes excluded).
var ClassicalPlanets = []Body{Sun, Moon, Mars, Mercury, Jupiter, Venus, Saturn}

var bodyNames = [...]string{"Sun", "Moon", "Mars", "Mercury", "Jupiter", "Venus", "Saturn", "Rahu", "Ketu"}

func (b Body) String() string {
	if b < 0 || int(b) >= len(bodyNames) {
		return "Body(?)"
	}
	return bodyNames[b]
}

// MarshalText renders the body by name (JSON map keys and values).
func (b Body) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText parses a body name written by MarshalText.
func (b *Body) UnmarshalText(text []byte) error {
	v, ok := BodyByName(string(text))
	if !ok {
		return fmt.Errorf("unknown body %q", text)
	}
	*b = v
	return nil
}

// BodyByName looks a body up by its English name.
func BodyByName(name string) (Body, bool) {
	for i, n := range bodyNames {
		if n == name {
			return Body(i), true
		}
	}
	return 0, false
}

// SignNames are the twelve rashis starting at Aries.
var SignNames = [12]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// NakshatraNames are the 27 lunar mansions starting at Ashwini.
var NakshatraNames = [27]string{
	"Ashwini", "Bharani", "Krittika", "Rohini", "Mrigashira", "Ardra", "Punarvasu",
	"Pushya", "Ashlesha", "Magha", "Purva Phalguni", "Uttara Phalguni", "Hasta",
	"Chitra", "Swati", "Vishakha", "Anuradha", "Jyeshta", "Mula", "Purva Ashadha",
	"Uttara Ashadha", "Shravana", "Dhanishta", "Shatabhisha", "Purva Bhadrapada",
	"Uttara Bhadrapada", "Revati",
}

const (
	signSpan      = 30.0
	nakshatraSpan = 360.0 / 27.0
	padaSpan      = nakshatraSpan / 4
	navamsaSpan   = signSpan / 9
)

// Normalize folds an angle in degrees into [0, 360).
func Normalize(deg float64) float64 {
	r := math.Mod(deg, 360)
	if r < 0 {
		r += 360
	}
	// Mod of a tiny negative value can round up to exactly 360.
	if r >= 360 {
		r = 0
	}
	return r
}

// Separation is the shortest distance between two longitudes, in [0, 180].
func Separation(a, b float64) float64 {
	d := math.Abs(Normalize(a) - Normalize(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}

// SignIndex returns floor(lon/30) in [0, 12).
func SignIndex(lon float64) int {
	return clampIndex(int(Normalize(lon)/signSpan), 12)
}

// DegreeInSign returns lon mod 30.
func DegreeInSign(lon float64) float64 {
	return math.Mod(Normalize(lon), signSpan)
}

// NakshatraIndex returns floor(lon / 13°20') in [0, 27).
func NakshatraIndex(lon float64) int {
	return clampIndex(int(Normalize(lon)/nakshatraSpan), 27)
}

// Pada returns the quarter of the nakshatra holding lon, in [1, 4].
func Pada(lon float64) int {
	within := math.Mod(Normalize(lon), nakshatraSpan)
	return clampIndex(int(within/padaSpan), 4) + 1
}

// clampIndex guards integer buckets against floating point drift at the upper edge.
func clampIndex(i, n int) int {
	if i >= n {
		return n - 1
	}
	if i < 0 {
		return 0
	}
	return i
}

// floorMod is the always non-negative remainder of a / n.
func floorMod(a, n int) int {
	return ((a % n) + n) % n
}
