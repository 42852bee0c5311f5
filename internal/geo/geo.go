// Package geo turns place names into coordinates and UTC offsets for the engine.
package geo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"
	_ "time/tzdata" // zones returned by latlong must load on hosts without zoneinfo

	"github.com/bradfitz/latlong"

	"github.com/tartampluch/go-panchanga/internal/config"
	"github.com/tartampluch/go-panchanga/internal/engine"
)

// Place is a geocoded location.
// Zone is set when the IANA zone is known; otherwise Offset is the fixed UTC offset in hours.
type Place struct {
	Name      string         `json:"name"`
	Latitude  float64        `json:"lat"`
	Longitude float64        `json:"lon"`
	Zone      *time.Location `json:"-"`
	Offset    float64        `json:"utc_offset"`
}

// OffsetAt returns the UTC offset in hours in force at the given local wall clock.
// Zoned places follow daylight saving rules.
func (p Place) OffsetAt(c engine.CivilDateTime) float64 {
	if p.Zone == nil {
		return p.Offset
	}
	t := time.Date(c.Year, time.Month(c.Month), c.Day, c.Hour, c.Minute, c.Second, 0, p.Zone)
	_, secs := t.Zone()
	return float64(secs) / 3600
}

func (p Place) zoneName() string {
	if p.Zone == nil {
		return ""
	}
	return p.Zone.String()
}

// Location returns the engine observer for the given local wall clock.
func (p Place) Location(c engine.CivilDateTime) engine.Location {
	return engine.Location{Latitude: p.Latitude, Longitude: p.Longitude, UTCOffset: p.OffsetAt(c)}
}

// Geocoder resolves a free-text place name.
// Implementations return an error wrapping engine.ErrUnresolvedPlace when nothing matches.
type Geocoder interface {
	Geocode(ctx context.Context, name string) (Place, error)
}

// Chain tries each geocoder in order; the first success wins.
type Chain []Geocoder

// Geocode returns the first resolved place. Errors other than an unresolved place stop the chain.
func (c Chain) Geocode(ctx context.Context, name string) (Place, error) {
	for _, g := range c {
		p, err := g.Geocode(ctx, name)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, engine.ErrUnresolvedPlace) {
			return Place{}, err
		}
	}
	slog.Debug(config.MsgGeocodeMiss,
		slog.String(config.LogKeyComponent, config.CompGeocoder),
		slog.String(config.LogKeyPlace, name),
	)
	return Place{}, fmt.Errorf("%w: %q", engine.ErrUnresolvedPlace, name)
}

// PlaceAt builds a place for raw coordinates with the IANA zone covering them.
// Points outside every mapped zone (open sea) fall back to EstimateOffset.
func PlaceAt(name string, lat, lon float64) Place {
	p := Place{Name: name, Latitude: lat, Longitude: lon}
	if zone := ZoneAt(lat, lon); zone != nil {
		p.Zone = zone
		return p
	}
	p.Offset = EstimateOffset(lon)
	return p
}

// ZoneAt looks up the IANA zone of a point, or returns nil when none is mapped.
func ZoneAt(lat, lon float64) *time.Location {
	if !(lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180) {
		return nil
	}
	name := latlong.LookupZoneName(lat, lon)
	if name == "" {
		return nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		slog.Debug(config.ErrUnknownZone,
			slog.String(config.LogKeyComponent, config.CompGeocoder),
			slog.String(config.LogKeyZone, name),
			slog.Any(config.LogKeyError, err),
		)
		return nil
	}
	return loc
}

// EstimateOffset estimates a UTC offset from longitude alone (15 degrees per hour).
// It ignores political zones and is only a last resort.
func EstimateOffset(lon float64) float64 {
	h := math.Round(lon / 15)
	if h == 0 {
		return 0
	}
	return h
}
