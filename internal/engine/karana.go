package engine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/tartampluch/go-panchanga/internal/config"
)

// KaranaCount is the number of half-tithis in a synodic month.
const KaranaCount = 60

const karanaSpan = 6.0

// MovableKaranas is the repeating seven-name cycle.
var MovableKaranas = [7]string{"Bava", "Balava", "Kaulava", "Taitila", "Garaja", "Vanija", "Vishti (Bhadra)"}

// FixedKaranas are the four terminal names of the month.
var FixedKaranas = [4]string{"Shakuni", "Chatushpada", "Nagava", "Kimstughna"}

// KaranaScheme selects how a karana index maps onto names.
type KaranaScheme int

const (
	// KaranaSchemeSource reads movable[(k-1) mod 7] for k in [0,55] and fixed[k-56] for k in [56,59].
	KaranaSchemeSource KaranaScheme = iota
	// KaranaSchemeTraditional starts the month with Kimstughna, then movable[(k-1) mod 7]
	// for k in [1,56] and Shakuni, Chatushpada, Nagava for k in [57,59].
	KaranaSchemeTraditional
)

func (s KaranaScheme) String() string {
	if s == KaranaSchemeTraditional {
		return config.KaranaSchemeTraditional
	}
	return config.KaranaSchemeSource
}

// ParseKaranaScheme maps a settings value onto a scheme.
func ParseKaranaScheme(v string) (KaranaScheme, error) {
	switch v {
	case "", config.KaranaSchemeSource:
		return KaranaSchemeSource, nil
	case config.KaranaSchemeTraditional:
		return KaranaSchemeTraditional, nil
	}
	return 0, fmt.Errorf("%s: %s=%q", config.ErrSettingsInvalid, config.KeyKaranaScheme, v)
}

// KaranaIndex returns floor(diff/6) in [0, 60) for a Moon-Sun difference in degrees.
func KaranaIndex(diff float64) int {
	return clampIndex(int(Normalize(diff)/karanaSpan), KaranaCount)
}

// Name returns the karana name of index k. k is reduced mod 60.
func (s KaranaScheme) Name(k int) string {
	k = floorMod(k, KaranaCount)
	if s == KaranaSchemeTraditional {
		switch {
		case k == 0:
			return FixedKaranas[3]
		case k <= 56:
			return MovableKaranas[(k-1)%7]
		default:
			return FixedKaranas[k-57]
		}
	}
	if k < 56 {
		return MovableKaranas[floorMod(k-1, 7)]
	}
	return FixedKaranas[k-56]
}

// KaranaSpan is one karana with its local start and end times.
type KaranaSpan struct {
	Index int       `json:"index"`
	Name  string    `json:"name"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// karanaTimes locates the current and next karana around at.
// The relative Moon-Sun speed is estimated over a half day; ayanamsa cancels in the difference.
func (d *Deriver) karanaTimes(ctx context.Context, at Instant, diff float64, offset float64) (cur, next KaranaSpan, err error) {
	later := at.AddDays(config.KaranaSpeedBaseline)
	moon2, err := d.Ephemeris.Longitude(ctx, Moon, later)
	if err != nil {
		return cur, next, fmt.Errorf("%w: %s: %w", ErrEphemerisUnavailable, Moon, err)
	}
	sun2, err := d.Ephemeris.Longitude(ctx, Sun, later)
	if err != nil {
		return cur, next, fmt.Errorf("%w: %s: %w", ErrEphemerisUnavailable, Sun, err)
	}

	delta := Normalize(moon2-sun2) - diff
	switch {
	case delta > 180:
		delta -= 360
	case delta < -180:
		delta += 360
	}
	rate := delta / config.KaranaSpeedBaseline
	if math.Abs(rate) < 1e-6 {
		rate = config.MeanLunarElongationRate
	}

	k := KaranaIndex(diff)
	kNext := (k + 1) % KaranaCount
	kAfter := (k + 2) % KaranaCount

	at2 := func(target int) Instant {
		return at.AddDays(Normalize(float64(target)*karanaSpan-diff) / rate)
	}
	start := at.AddDays(-Normalize(diff-float64(k)*karanaSpan) / rate)
	end := at2(kNext)

	cur = KaranaSpan{Index: k, Name: d.Scheme.Name(k), Start: start.Local(offset), End: end.Local(offset)}
	next = KaranaSpan{Index: kNext, Name: d.Scheme.Name(kNext), Start: end.Local(offset), End: at2(kAfter).Local(offset)}
	return cur, next, nil
}
