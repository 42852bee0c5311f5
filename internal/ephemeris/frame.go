// Package ephemeris is the built-in analytic astronomical provider.
//
// Sun and Moon come from Meeus' algorithms, the five visible planets from low-precision
// Keplerian elements, sunrise and sunset from the NOAA-derived go-sunrise package.
// Accuracy is in the order of arc-minutes for the luminaries and under a degree for planets,
// which keeps sign, nakshatra and tithi boundaries reliable except right at a cusp.
package ephemeris

import (
	"fmt"

	"github.com/tartampluch/go-panchanga/internal/config"
)

// Mode is the zodiac reference frame.
type Mode int

const (
	Sidereal Mode = iota
	Tropical
)

func (m Mode) String() string {
	if m == Tropical {
		return config.FrameTropical
	}
	return config.FrameSidereal
}

// AyanamsaModel selects the precession correction of the sidereal frame.
type AyanamsaModel int

const (
	Lahiri AyanamsaModel = iota
	Raman
	Krishnamurti
)

func (a AyanamsaModel) String() string {
	switch a {
	case Raman:
		return config.AyanamsaRaman
	case Krishnamurti:
		return config.AyanamsaKrishnamurti
	default:
		return config.AyanamsaLahiri
	}
}

// ayanamsa models: value at J2000.0 in degrees and the precession rate in arcseconds per year.
var ayanamsaModels = map[AyanamsaModel]struct{ epoch, rate float64 }{
	Lahiri:       {23.85306, 50.2788},
	Raman:        {22.41089, 50.2788},
	Krishnamurti: {23.75972, 50.2388},
}

// Frame is the immutable reference-frame configuration of a Provider.
// It is chosen once at start-up; there is no process-wide mode to mutate.
type Frame struct {
	Mode     Mode
	Ayanamsa AyanamsaModel
}

// DefaultFrame is sidereal Lahiri.
var DefaultFrame = Frame{Mode: Sidereal, Ayanamsa: Lahiri}

func (f Frame) String() string {
	if f.Mode == Tropical {
		return f.Mode.String()
	}
	return f.Mode.String() + "/" + f.Ayanamsa.String()
}

// ParseFrame maps settings values onto a Frame. Empty values take the defaults.
func ParseFrame(mode, ayanamsa string) (Frame, error) {
	f := DefaultFrame
	switch mode {
	case "", config.FrameSidereal:
	case config.FrameTropical:
		f.Mode = Tropical
	default:
		return Frame{}, fmt.Errorf("%s: %s=%q", config.ErrSettingsInvalid, config.KeyFrame, mode)
	}
	switch ayanamsa {
	case "", config.AyanamsaLahiri:
	case config.AyanamsaRaman:
		f.Ayanamsa = Raman
	case config.AyanamsaKrishnamurti:
		f.Ayanamsa = Krishnamurti
	default:
		return Frame{}, fmt.Errorf("%s: %s=%q", config.ErrSettingsInvalid, config.KeyAyanamsa, ayanamsa)
	}
	return f, nil
}
