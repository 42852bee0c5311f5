package engine

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/tartampluch/go-panchanga/internal/config"
)

// KarakaLabels are the seven chara karakas, from the highest degree down.
var KarakaLabels = [7]string{
	"Atmakaraka", "Amatyakaraka", "Bhratrikaraka", "Matrikaraka",
	"Putrakaraka", "Gnatikaraka", "Darakaraka",
}

// House is one of the twelve houses of a chart.
type House struct {
	Number   int     `json:"number"`
	Sign     int     `json:"sign"`
	SignName string  `json:"sign_name"`
	Cusp     float64 `json:"cusp"`
	Bodies   []Body  `json:"bodies"`
}

// ChartPlanet is a body placed in a chart with its derived tags.
type ChartPlanet struct {
	CelestialPosition
	SignName      string       `json:"sign_name"`
	NakshatraName string       `json:"nakshatra_name"`
	House         int          `json:"house"`
	Relationship  Relationship `json:"relationship"`
	Avastha       string       `json:"avastha"`
	Karaka        string       `json:"karaka,omitempty"`
	NavamsaSign   int          `json:"navamsa_sign"`
}

// Karaka assigns a rank label to a planet.
type Karaka struct {
	Label string `json:"label"`
	Body  Body   `json:"body"`
}

// Navamsa is the ninth-harmonic chart.
type Navamsa struct {
	Ascendant     int          `json:"ascendant"`
	AscendantName string       `json:"ascendant_name"`
	Signs         map[Body]int `json:"signs"`
	Houses        []House      `json:"houses"`
}

// Ascendant is the corrected rising degree.
type Ascendant struct {
	Longitude     float64 `json:"longitude"`
	Sign          int     `json:"sign"`
	SignName      string  `json:"sign_name"`
	Nakshatra     int     `json:"nakshatra"`
	NakshatraName string  `json:"nakshatra_name"`
	Pada          int     `json:"pada"`
	DegreeInSign  float64 `json:"degree_in_sign"`
}

func ascendantAt(lon float64) Ascendant {
	p := PositionAt(Sun, lon)
	return Ascendant{
		Longitude: p.Longitude, Sign: p.Sign, SignName: p.SignName(),
		Nakshatra: p.Nakshatra, NakshatraName: p.NakshatraName(),
		Pada: p.Pada, DegreeInSign: p.DegreeInSign,
	}
}

// Chart is a natal chart for one instant and place.
type Chart struct {
	Instant     Instant       `json:"instant_jd"`
	Location    Location      `json:"location"`
	HouseSystem string        `json:"house_system"`
	Ascendant   Ascendant     `json:"ascendant"`
	Houses      []House       `json:"houses"`
	Planets     []ChartPlanet `json:"planets"`
	Karakas     []Karaka      `json:"karakas"`
	Navamsa     Navamsa       `json:"navamsa"`
}

// Planet returns the placement of body.
func (c *Chart) Planet(body Body) (ChartPlanet, bool) {
	for _, p := range c.Planets {
		if p.Body == body {
			return p, true
		}
	}
	return ChartPlanet{}, false
}

// HouseOf returns the whole-sign house (1..12) of a sign relative to the ascendant sign.
func HouseOf(sign, ascSign int) int {
	return floorMod(sign-ascSign, 12) + 1
}

// HouseSign returns the sign of house n (1..12) for the ascendant sign.
func HouseSign(ascSign, n int) int {
	return floorMod(ascSign+n-1, 12)
}

// NavamsaSign returns the D9 sign of a longitude.
// Movable signs count from themselves, fixed signs from the ninth, dual signs from the fifth.
func NavamsaSign(lon float64) int {
	sign := SignIndex(lon)
	part := clampIndex(int(DegreeInSign(lon)/navamsaSpan), 9)
	var start int
	switch sign % 3 {
	case 0:
		start = sign
	case 1:
		start = sign + 8
	default:
		start = sign + 4
	}
	return (start + part) % 12
}

// RankKarakas orders the seven classical planets by descending degree in sign.
// Equal degrees keep the body enumeration order.
func RankKarakas(pos Positions) []Karaka {
	bodies := slices.Clone(ClassicalPlanets)
	slices.SortStableFunc(bodies, func(a, b Body) int {
		return cmp.Compare(pos[b].DegreeInSign, pos[a].DegreeInSign)
	})
	out := make([]Karaka, len(bodies))
	for i, b := range bodies {
		out[i] = Karaka{Label: KarakaLabels[i], Body: b}
	}
	return out
}

// ChartBuilder assembles natal charts.
type ChartBuilder struct {
	Resolver    *Resolver
	Tables      *Tables
	HouseSystem HouseSystem
}

// NewChartBuilder creates a whole-sign builder over the default tables.
func NewChartBuilder(r *Resolver) *ChartBuilder {
	return &ChartBuilder{Resolver: r, Tables: DefaultTables(), HouseSystem: WholeSign}
}

// BuildChart computes the chart of at, observed at loc.
func (b *ChartBuilder) BuildChart(ctx context.Context, at Instant, loc Location) (*Chart, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	eph := b.Resolver.Ephemeris

	pos, err := b.Resolver.ResolvePositions(ctx, at)
	if err != nil {
		return nil, err
	}
	ayanamsa, err := eph.Ayanamsa(ctx, at)
	if err != nil {
		return nil, fmt.Errorf("%w: ayanamsa: %w", ErrEphemerisUnavailable, err)
	}
	rawAsc, rawCusps, err := eph.HouseCusps(ctx, at, loc.Latitude, loc.Longitude, b.HouseSystem)
	if err != nil {
		return nil, fmt.Errorf("%w: house cusps: %w", ErrEphemerisUnavailable, err)
	}

	asc := ascendantAt(rawAsc - ayanamsa)
	chart := &Chart{
		Instant:     at,
		Location:    loc,
		HouseSystem: b.HouseSystem.String(),
		Ascendant:   asc,
	}

	chart.Houses = make([]House, 12)
	for i := range chart.Houses {
		sign := HouseSign(asc.Sign, i+1)
		cusp := float64(sign) * signSpan
		if b.HouseSystem != WholeSign {
			cusp = Normalize(rawCusps[i] - ayanamsa)
		}
		chart.Houses[i] = House{Number: i + 1, Sign: sign, SignName: SignNames[sign], Cusp: cusp, Bodies: []Body{}}
	}

	karakas := RankKarakas(pos)
	karakaOf := make(map[Body]string, len(karakas))
	for _, k := range karakas {
		karakaOf[k.Body] = k.Label
	}
	chart.Karakas = karakas

	tables := b.Tables
	if tables == nil {
		tables = DefaultTables()
	}
	for _, body := range AllBodies {
		p := pos[body]
		house := HouseOf(p.Sign, asc.Sign)
		chart.Houses[house-1].Bodies = append(chart.Houses[house-1].Bodies, body)
		chart.Planets = append(chart.Planets, ChartPlanet{
			CelestialPosition: p,
			SignName:          p.SignName(),
			NakshatraName:     p.NakshatraName(),
			House:             house,
			Relationship:      tables.Relationship(body, Sun),
			Avastha:           Avastha(p.DegreeInSign),
			Karaka:            karakaOf[body],
			NavamsaSign:       NavamsaSign(p.Longitude),
		})
	}
	chart.Navamsa = buildNavamsa(asc.Longitude, chart.Planets)

	slog.Debug(config.MsgChartBuilt,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyInstant, at.JD(),
		config.LogKeyAscendant, asc.Longitude,
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return chart, nil
}

func buildNavamsa(ascLon float64, planets []ChartPlanet) Navamsa {
	ascSign := NavamsaSign(ascLon)
	n := Navamsa{
		Ascendant:     ascSign,
		AscendantName: SignNames[ascSign],
		Signs:         make(map[Body]int, len(planets)),
		Houses:        make([]House, 12),
	}
	for i := range n.Houses {
		sign := HouseSign(ascSign, i+1)
		n.Houses[i] = House{Number: i + 1, Sign: sign, SignName: SignNames[sign], Cusp: float64(sign) * signSpan, Bodies: []Body{}}
	}
	for _, p := range planets {
		n.Signs[p.Body] = p.NavamsaSign
		h := HouseOf(p.NavamsaSign, ascSign)
		n.Houses[h-1].Bodies = append(n.Houses[h-1].Bodies, p.Body)
	}
	return n
}
