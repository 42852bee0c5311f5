package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/spf13/viper"
)

// PlaceEntry is a gazetteer row supplied through the config file.
type PlaceEntry struct {
	Name      string  `mapstructure:"name"`
	Latitude  float64 `mapstructure:"lat"`
	Longitude float64 `mapstructure:"lon"`
	Zone      string  `mapstructure:"tz"` // IANA identifier, e.g. "Asia/Kolkata"
}

// GeocoderSettings configures the remote (Nominatim compatible) geocoder.
type GeocoderSettings struct {
	Endpoint  string        `mapstructure:"endpoint"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// Settings holds all runtime configuration.
// Values are populated from .go-panchanga.toml, GO_PANCHANGA_* env vars, and CLI flags.
type Settings struct {
	Frame         string           `mapstructure:"frame"`
	Ayanamsa      string           `mapstructure:"ayanamsa"`
	HouseSystem   string           `mapstructure:"house_system"`
	KaranaScheme  string           `mapstructure:"karana_scheme"`
	CombustionOrb float64          `mapstructure:"combustion_orb"`
	TablesFile    string           `mapstructure:"tables_file"`
	Language      string           `mapstructure:"language"`
	Debug         bool             `mapstructure:"debug"`
	Geocoder      GeocoderSettings `mapstructure:"geocoder"`
	Places        []PlaceEntry     `mapstructure:"places"`
}

// SetDefaults registers built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyFrame, DefaultFrame)
	v.SetDefault(KeyAyanamsa, DefaultAyanamsa)
	v.SetDefault(KeyHouseSystem, DefaultHouseSystem)
	v.SetDefault(KeyKaranaScheme, DefaultKaranaScheme)
	v.SetDefault(KeyCombustionOrb, DefaultCombustionOrb)
	v.SetDefault(KeyTablesFile, "")
	v.SetDefault(KeyLanguage, DefaultLanguage)
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyGeocoderEndpoint, DefaultGeocoderURL)
	v.SetDefault(KeyGeocoderUserAgent, UserAgent)
	v.SetDefault(KeyGeocoderTimeout, HTTPTimeout)
}

// Load reads configuration from v, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load(v *viper.Viper) (Settings, error) {
	SetDefaults(v)

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", ErrSettingsInvalid, err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate rejects enumerated values the engine does not know.
func (s Settings) Validate() error {
	checks := []struct {
		key     string
		value   string
		allowed []string
	}{
		{KeyFrame, s.Frame, []string{FrameSidereal, FrameTropical}},
		{KeyAyanamsa, s.Ayanamsa, []string{AyanamsaLahiri, AyanamsaRaman, AyanamsaKrishnamurti}},
		{KeyHouseSystem, s.HouseSystem, []string{HouseSystemWholeSign, HouseSystemEqual}},
		{KeyKaranaScheme, s.KaranaScheme, []string{KaranaSchemeSource, KaranaSchemeTraditional}},
	}
	for _, c := range checks {
		if !slices.Contains(c.allowed, c.value) {
			return fmt.Errorf("%s: %s=%q (allowed: %v)", ErrSettingsInvalid, c.key, c.value, c.allowed)
		}
	}
	if s.CombustionOrb <= 0 || s.CombustionOrb >= 180 {
		return fmt.Errorf("%s: %s=%v", ErrSettingsInvalid, KeyCombustionOrb, s.CombustionOrb)
	}
	return nil
}
