package geo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/tartampluch/go-panchanga/internal/config"
	"github.com/tartampluch/go-panchanga/internal/engine"
	"github.com/tartampluch/go-panchanga/internal/geo"
)

type staticKeys map[string]string

func (s staticKeys) Get(_, user string) (string, error) {
	if v, ok := s[user]; ok {
		return v, nil
	}
	return "", keyring.ErrNotFound
}

func newClient(endpoint string) *geo.Nominatim {
	n := geo.NewNominatim(config.GeocoderSettings{Endpoint: endpoint})
	n.Keys = staticKeys{}
	return n
}

// TestNominatim_Success verifies the request shape and the decoded place.
func TestNominatim_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, config.GeocoderSearchPath, r.URL.Path)
		assert.Equal(t, "Varanasi", r.URL.Query().Get("q"))
		assert.Equal(t, config.GeocoderFormat, r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Empty(t, r.URL.Query().Get("key"))
		assert.Equal(t, config.UserAgent, r.Header.Get("User-Agent"))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[{"lat":"25.3176","lon":"82.9739","display_name":"Varanasi, Uttar Pradesh, India"}]`))
	}))
	defer ts.Close()

	p, err := newClient(ts.URL).Geocode(context.Background(), "Varanasi")
	require.NoError(t, err)
	assert.Equal(t, "Varanasi", p.Name)
	assert.InDelta(t, 25.3176, p.Latitude, 1e-9)
	assert.InDelta(t, 82.9739, p.Longitude, 1e-9)
	require.NotNil(t, p.Zone)
	assert.InDelta(t, 5.5, p.OffsetAt(engine.CivilDateTime{Year: 2024, Month: 1, Day: 1}), 1e-9, "India Standard Time, not the longitude estimate")
}

// TestNominatim_APIKey checks that a keyring secret is forwarded as a query parameter.
func TestNominatim_APIKey(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "s3cret", r.URL.Query().Get("key"))
		_, _ = w.Write([]byte(`[{"lat":"51.5","lon":"-0.12","display_name":"London"}]`))
	}))
	defer ts.Close()

	n := newClient(ts.URL)
	n.Keys = staticKeys{config.KeyringAccountGeocoder: "s3cret"}
	p, err := n.Geocode(context.Background(), "London")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, p.OffsetAt(engine.CivilDateTime{Year: 2024, Month: 7, Day: 1}), 1e-9, "British Summer Time")
}

func TestSystemKeyStore(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, keyring.Set(config.KeyringService, config.KeyringAccountGeocoder, "from-keyring"))

	got, err := geo.SystemKeyStore{}.Get(config.KeyringService, config.KeyringAccountGeocoder)
	require.NoError(t, err)
	assert.Equal(t, "from-keyring", got)
}

func TestNominatim_NoResult(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	_, err := newClient(ts.URL).Geocode(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, engine.ErrUnresolvedPlace)
}

// TestNominatim_Errors verifies proper error handling for non-200 statuses and bad payloads.
func TestNominatim_Errors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantErr    string
	}{
		{"NotFound", http.StatusNotFound, "", "404"},
		{"ServerError", http.StatusInternalServerError, "", "500"},
		{"RateLimited", http.StatusTooManyRequests, "", "429"},
		{"NotJSON", http.StatusOK, "<html>", config.ErrGeocoderDecode},
		{"BadNumber", http.StatusOK, `[{"lat":"north","lon":"0"}]`, config.ErrGeocoderDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			_, err := newClient(ts.URL).Geocode(context.Background(), "Delhi")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.NotErrorIs(t, err, engine.ErrUnresolvedPlace)
		})
	}
}

// TestNominatim_Timeout ensures the client respects context deadlines.
func TestNominatim_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := newClient(ts.URL).Geocode(ctx, "Delhi")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNominatim_InvalidURL(t *testing.T) {
	_, err := newClient(string([]byte{0x7f})).Geocode(context.Background(), "Delhi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrInvalidURL)
}

func TestNominatim_ProtocolSecurity(t *testing.T) {
	_, err := newClient("ftp://example.com").Geocode(context.Background(), "Delhi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrProtocol)
}

func TestNewNominatim_Defaults(t *testing.T) {
	n := geo.NewNominatim(config.GeocoderSettings{Endpoint: config.DefaultGeocoderURL})
	assert.Equal(t, config.HTTPTimeout, n.Client.Timeout)
	assert.Equal(t, config.UserAgent, n.UserAgent)
}
