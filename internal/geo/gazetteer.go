package geo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/tartampluch/go-panchanga/internal/config"
	"github.com/tartampluch/go-panchanga/internal/engine"
)

// Gazetteer is an in-memory place list, typically from the [[places]] section of the config file.
// Lookups are case-insensitive and Unicode-normalized ("Zürich" matches "ZÜRICH").
type Gazetteer struct {
	places map[string]Place
}

// NewGazetteer builds a gazetteer from config entries. An unknown IANA zone is an error.
// An entry without zone gets the zone covering its coordinates.
func NewGazetteer(entries []config.PlaceEntry) (*Gazetteer, error) {
	g := &Gazetteer{places: make(map[string]Place, len(entries))}
	for _, e := range entries {
		var p Place
		if e.Zone != "" {
			loc, err := time.LoadLocation(e.Zone)
			if err != nil {
				return nil, fmt.Errorf("%s %q for %q: %w", config.ErrUnknownZone, e.Zone, e.Name, err)
			}
			p = Place{Name: e.Name, Latitude: e.Latitude, Longitude: e.Longitude, Zone: loc}
		} else {
			p = PlaceAt(e.Name, e.Latitude, e.Longitude)
		}
		if err := p.Location(engine.CivilDateTime{Year: 2000, Month: 1, Day: 1}).Validate(); err != nil {
			return nil, fmt.Errorf("%w: place %q", err, e.Name)
		}
		g.places[foldName(e.Name)] = p
	}
	return g, nil
}

// Len returns the number of known places.
func (g *Gazetteer) Len() int { return len(g.places) }

func (g *Gazetteer) Geocode(_ context.Context, name string) (Place, error) {
	p, ok := g.places[foldName(name)]
	if !ok {
		return Place{}, fmt.Errorf("%w: %q not in gazetteer", engine.ErrUnresolvedPlace, name)
	}
	slog.Debug(config.MsgGeocodeHit,
		slog.String(config.LogKeyComponent, config.CompGeocoder),
		slog.String(config.LogKeyPlace, p.Name),
	)
	return p, nil
}

func foldName(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}
