package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/tartampluch/go-panchanga/internal/config"
	"github.com/tartampluch/go-panchanga/internal/engine"
)

// KeyStore reads secrets. It allows for mocking the OS keyring in tests.
type KeyStore interface {
	Get(service, user string) (string, error)
}

// SystemKeyStore reads the OS keyring.
type SystemKeyStore struct{}

func (SystemKeyStore) Get(service, user string) (string, error) {
	return keyring.Get(service, user)
}

// Nominatim resolves places through a Nominatim compatible search API.
// The UTC offset of a result is estimated from its longitude.
type Nominatim struct {
	Client    *http.Client
	Endpoint  string
	UserAgent string
	Keys      KeyStore // Optional, for hosted services that require an API key.
}

// NewNominatim creates a client with the configured endpoint and timeouts.
func NewNominatim(s config.GeocoderSettings) *Nominatim {
	n := &Nominatim{
		Client:    &http.Client{Timeout: s.Timeout},
		Endpoint:  s.Endpoint,
		UserAgent: s.UserAgent,
		Keys:      SystemKeyStore{},
	}
	if n.Client.Timeout <= 0 {
		n.Client.Timeout = config.HTTPTimeout
	}
	if n.UserAgent == "" {
		n.UserAgent = config.UserAgent
	}
	return n
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode queries the search endpoint and returns the best match.
// Query parameters are stripped from logged URLs so API keys never reach the logs.
func (n *Nominatim) Geocode(ctx context.Context, name string) (Place, error) {
	u, err := url.Parse(n.Endpoint)
	if err != nil {
		return Place{}, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return Place{}, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + config.GeocoderSearchPath

	q := url.Values{}
	q.Set(config.GeocoderParamQuery, name)
	q.Set(config.GeocoderParamFormat, config.GeocoderFormat)
	q.Set(config.GeocoderParamLimit, "1")
	if key := n.apiKey(); key != "" {
		q.Set(config.GeocoderParamKey, key)
	}
	u.RawQuery = q.Encode()

	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompGeocoder),
		slog.String(config.LogKeyURL, u.Scheme+"://"+u.Host+u.Path),
		slog.String(config.LogKeyPlace, name),
	)
	log.Debug(config.MsgGeocodeStart)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Place{}, fmt.Errorf("%s: %w", config.ErrGeocoderRequest, err)
	}
	req.Header.Set(config.HeaderUserAgent, n.UserAgent)
	req.Header.Set(config.HeaderAccept, config.MimeJSON)

	resp, err := n.Client.Do(req)
	if err != nil {
		return Place{}, fmt.Errorf("%s: %w", config.ErrGeocoderNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		log.Warn(config.ErrGeocoderStatus, slog.Int(config.LogKeyStatus, resp.StatusCode))
		return Place{}, fmt.Errorf("%s: %d %s", config.ErrGeocoderStatus, resp.StatusCode, resp.Status)
	}

	var results []searchResult
	if err := json.NewDecoder(io.LimitReader(resp.Body, config.MaxHTTPResponseSize)).Decode(&results); err != nil {
		return Place{}, fmt.Errorf("%s: %w", config.ErrGeocoderDecode, err)
	}
	if len(results) == 0 {
		log.Debug(config.MsgGeocodeMiss)
		return Place{}, fmt.Errorf("%w: %q", engine.ErrUnresolvedPlace, name)
	}

	p, err := results[0].place()
	if err != nil {
		return Place{}, fmt.Errorf("%s: %w", config.ErrGeocoderDecode, err)
	}
	log.Info(config.MsgGeocodeHit,
		slog.Float64(config.LogKeyLat, p.Latitude),
		slog.Float64(config.LogKeyLon, p.Longitude),
		slog.String(config.LogKeyZone, p.zoneName()),
		slog.Float64(config.LogKeyOffset, p.Offset),
	)
	return p, nil
}

func (r searchResult) place() (Place, error) {
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return Place{}, err
	}
	lon, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return Place{}, err
	}
	name := r.DisplayName
	if i := strings.IndexByte(name, ','); i > 0 {
		name = name[:i]
	}
	return PlaceAt(name, lat, lon), nil
}

func (n *Nominatim) apiKey() string {
	if n.Keys == nil {
		return ""
	}
	key, err := n.Keys.Get(config.KeyringService, config.KeyringAccountGeocoder)
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			slog.Debug(config.MsgKeyringMiss,
				slog.String(config.LogKeyComponent, config.CompGeocoder),
				slog.Any(config.LogKeyError, err),
			)
		}
		return ""
	}
	return key
}
