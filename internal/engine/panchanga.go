package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tartampluch/go-panchanga/internal/config"
)

// TithiNames are indexed by tithi mod 15; the last entry covers both full and new moon.
var TithiNames = [15]string{
	"Pratipada", "Dvitiya", "Tritiya", "Chaturthi", "Panchami", "Shashthi",
	"Saptami", "Ashtami", "Navami", "Dashami", "Ekadashi", "Dvadashi",
	"Trayodashi", "Chaturdashi", "Purnima/Amavasya",
}

// YogaNames are the 27 Sun+Moon yogas.
var YogaNames = [27]string{
	"Vishkumbha", "Preeti", "Ayushman", "Saubhagya", "Shobhana", "Atiganda", "Sukarma",
	"Dhriti", "Shoola", "Ganda", "Vriddhi", "Dhruva", "Vyaghata", "Harshana", "Vajra",
	"Siddhi", "Vyatipata", "Variyan", "Parigha", "Shiva", "Siddha", "Sadhya", "Shubha",
	"Shukla", "Brahma", "Indra", "Vaidhriti",
}

// WeekdayNames start on Monday.
var WeekdayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Paksha labels.
const (
	PakshaShukla  = "Shukla"
	PakshaKrishna = "Krishna"
)

const tithiSpan = 12.0

// Tithi is the lunar day derived from the Moon-Sun difference.
type Tithi struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Paksha string `json:"paksha"`
}

// TithiOf returns the tithi for sidereal (or tropical) Sun and Moon longitudes.
func TithiOf(sunLon, moonLon float64) Tithi {
	idx := clampIndex(int(Normalize(moonLon-sunLon)/tithiSpan), 30)
	paksha := PakshaShukla
	if idx >= 15 {
		paksha = PakshaKrishna
	}
	return Tithi{Index: idx, Name: TithiNames[idx%15], Paksha: paksha}
}

// YogaOf returns the yoga index of the Sun+Moon sum, in [0, 27).
func YogaOf(sunLon, moonLon float64) int {
	return clampIndex(int(Normalize(sunLon+moonLon)/nakshatraSpan), 27)
}

// PanchangaDay is the calendar description of one instant at one place.
type PanchangaDay struct {
	Date     string   `json:"date"`
	Instant  Instant  `json:"instant_jd"`
	Location Location `json:"location"`

	Tithi         Tithi      `json:"tithi"`
	Nakshatra     int        `json:"nakshatra"`
	NakshatraName string     `json:"nakshatra_name"`
	Pada          int        `json:"pada"`
	Yoga          int        `json:"yoga"`
	YogaName      string     `json:"yoga_name"`
	Karana        KaranaSpan `json:"karana"`
	NextKarana    KaranaSpan `json:"next_karana"`
	Weekday       int        `json:"weekday"`
	Vara          string     `json:"vara"`
	SunRashi      string     `json:"sun_rashi"`
	MoonRashi     string     `json:"moon_rashi"`

	Sunrise       time.Time `json:"sunrise"`
	Sunset        time.Time `json:"sunset"`
	NextSunrise   time.Time `json:"next_sunrise"`
	SunFallback   bool      `json:"sun_fallback"`
	Moonrise      time.Time `json:"moonrise"`
	Moonset       time.Time `json:"moonset"`
	MoonriseKnown bool      `json:"moonrise_known"`

	DayWindows
}

// Deriver computes panchanga days. It holds no mutable state.
type Deriver struct {
	Ephemeris Ephemeris
	Scheme    KaranaScheme
}

// NewDeriver creates a Deriver with the default karana scheme.
func NewDeriver(eph Ephemeris) *Deriver {
	return &Deriver{Ephemeris: eph, Scheme: KaranaSchemeSource}
}

// DerivePanchanga computes the panchanga of the civil day containing at, observed at loc.
// sunLon and moonLon are the corrected longitudes at the instant.
func (d *Deriver) DerivePanchanga(ctx context.Context, at Instant, sunLon, moonLon float64, loc Location) (*PanchangaDay, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	local := at.Local(loc.UTCOffset)
	civil := CivilFromTime(local)
	sunLon, moonLon = Normalize(sunLon), Normalize(moonLon)
	moon := PositionAt(Moon, moonLon)
	yoga := YogaOf(sunLon, moonLon)

	day := &PanchangaDay{
		Date:          local.Format(config.DateFormatFullDash),
		Instant:       at,
		Location:      loc,
		Tithi:         TithiOf(sunLon, moonLon),
		Nakshatra:     moon.Nakshatra,
		NakshatraName: moon.NakshatraName(),
		Pada:          moon.Pada,
		Yoga:          yoga,
		YogaName:      YogaNames[yoga],
		Weekday:       civil.Weekday(),
		SunRashi:      SignNames[SignIndex(sunLon)],
		MoonRashi:     SignNames[moon.Sign],
	}
	day.Vara = WeekdayNames[day.Weekday]

	cur, next, err := d.karanaTimes(ctx, at, Normalize(moonLon-sunLon), loc.UTCOffset)
	if err != nil {
		return nil, err
	}
	day.Karana, day.NextKarana = cur, next

	if err := d.riseSet(ctx, civil, loc, day); err != nil {
		return nil, err
	}
	day.DayWindows = SliceEvents(day.Sunrise, day.Sunset, day.NextSunrise, day.Weekday)

	slog.Debug(config.MsgPanchanga,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyInstant, at.JD(),
		config.LogKeyTithi, day.Tithi.Name,
		config.LogKeyKarana, day.Karana.Name,
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return day, nil
}

// riseSet fills the Sun and Moon events of the civil day, queried from local midnight.
func (d *Deriver) riseSet(ctx context.Context, civil CivilDateTime, loc Location, day *PanchangaDay) error {
	midnight, err := NormalizeInstant(civil.Midnight(), loc.UTCOffset)
	if err != nil {
		return err
	}
	off := loc.UTCOffset

	rise, set, ok, err := d.Ephemeris.RiseSet(ctx, Sun, midnight, loc.Latitude, loc.Longitude)
	if err != nil {
		return fmt.Errorf("%w: %s rise/set: %w", ErrEphemerisUnavailable, Sun, err)
	}
	if !ok || rise >= set {
		slog.Warn(config.MsgSunDegenerate,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyLat, loc.Latitude,
			config.LogKeyLon, loc.Longitude,
		)
		zone := FixedZone(off)
		day.Sunrise = time.Date(civil.Year, time.Month(civil.Month), civil.Day, config.FallbackSunriseHour, 0, 0, 0, zone)
		day.Sunset = time.Date(civil.Year, time.Month(civil.Month), civil.Day, config.FallbackSunsetHour, 0, 0, 0, zone)
		day.NextSunrise = day.Sunrise.AddDate(0, 0, 1)
		day.SunFallback = true
	} else {
		day.Sunrise, day.Sunset = rise.Local(off), set.Local(off)
		day.NextSunrise = day.Sunrise.AddDate(0, 0, 1)
		nextRise, _, nextOK, err := d.Ephemeris.RiseSet(ctx, Sun, midnight.AddDays(1), loc.Latitude, loc.Longitude)
		if err != nil {
			return fmt.Errorf("%w: %s rise/set: %w", ErrEphemerisUnavailable, Sun, err)
		}
		if nextOK && nextRise > set {
			day.NextSunrise = nextRise.Local(off)
		}
	}

	mRise, mSet, ok, err := d.Ephemeris.RiseSet(ctx, Moon, midnight, loc.Latitude, loc.Longitude)
	if err != nil {
		return fmt.Errorf("%w: %s rise/set: %w", ErrEphemerisUnavailable, Moon, err)
	}
	if !ok {
		slog.Debug(config.MsgMoonNoRiseSet, config.LogKeyComponent, config.CompEngine)
		return nil
	}
	day.Moonrise, day.Moonset, day.MoonriseKnown = mRise.Local(off), mSet.Local(off), true
	return nil
}
