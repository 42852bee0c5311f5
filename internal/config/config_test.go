package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-panchanga/internal/config"
)

// TestConstants_Integrity ensures critical constants are not empty or malformed.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"Version", config.Version},
		{"UserAgent", config.UserAgent},
		{"ICalVersion", config.ICalVersion},
		{"ICalProdid", config.ICalProdid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

// TestUserAgent_Format ensures the UA string follows the standard format.
func TestUserAgent_Format(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.UserAgent, "Go-Panchanga/"), "UserAgent must start with AppName/")
}

func TestDefaults_Sanity(t *testing.T) {
	assert.Equal(t, 8.0, config.DefaultCombustionOrb)
	assert.Equal(t, 24*time.Minute, config.AbhijitHalfWidth)
	assert.Less(t, config.FallbackSunriseHour, config.FallbackSunsetHour)
	assert.Greater(t, config.MaxHTTPResponseSize, 0)
	assert.LessOrEqual(t, config.HTTPTimeout, 2*time.Minute)
}

func TestLoad_Defaults(t *testing.T) {
	s, err := config.Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, config.FrameSidereal, s.Frame)
	assert.Equal(t, config.AyanamsaLahiri, s.Ayanamsa)
	assert.Equal(t, config.HouseSystemWholeSign, s.HouseSystem)
	assert.Equal(t, config.KaranaSchemeSource, s.KaranaScheme)
	assert.Equal(t, config.DefaultCombustionOrb, s.CombustionOrb)
	assert.Equal(t, config.DefaultLanguage, s.Language)
	assert.Equal(t, config.DefaultGeocoderURL, s.Geocoder.Endpoint)
	assert.Equal(t, config.HTTPTimeout, s.Geocoder.Timeout)
	assert.Empty(t, s.Places)
}

func TestLoad_FromTOML(t *testing.T) {
	v := viper.New()
	v.SetConfigType(config.ConfigType)
	require.NoError(t, v.ReadConfig(strings.NewReader(`
frame = "tropical"
karana_scheme = "traditional"
combustion_orb = 6.5

[geocoder]
timeout = "5s"

[[places]]
name = "Delhi"
lat = 28.6139
lon = 77.2090
tz = "Asia/Kolkata"
`)))

	s, err := config.Load(v)
	require.NoError(t, err)

	assert.Equal(t, config.FrameTropical, s.Frame)
	assert.Equal(t, config.KaranaSchemeTraditional, s.KaranaScheme)
	assert.Equal(t, 6.5, s.CombustionOrb)
	assert.Equal(t, 5*time.Second, s.Geocoder.Timeout)
	require.Len(t, s.Places, 1)
	assert.Equal(t, "Delhi", s.Places[0].Name)
	assert.Equal(t, "Asia/Kolkata", s.Places[0].Zone)
}

func TestLoad_RejectsUnknownValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{"frame", config.KeyFrame, "heliocentric"},
		{"ayanamsa", config.KeyAyanamsa, "fagan"},
		{"house system", config.KeyHouseSystem, "placidus"},
		{"karana scheme", config.KeyKaranaScheme, "other"},
		{"orb", config.KeyCombustionOrb, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.val)
			_, err := config.Load(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), config.ErrSettingsInvalid)
		})
	}
}
