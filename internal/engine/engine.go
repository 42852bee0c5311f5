package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tartampluch/go-panchanga/internal/config"
)

// Engine composes the computation components into the public pipelines.
// All fields are read-only after construction; one Engine may serve concurrent callers.
type Engine struct {
	Clock     Clock     // Interface for time mocking.
	Ephemeris Ephemeris // Astronomical provider, frame fixed at construction.
	Tables    *Tables   // Compatibility classification tables.

	HouseSystem   HouseSystem
	KaranaScheme  KaranaScheme
	CombustionOrb float64
}

// New creates an Engine with the default tables, whole-sign houses and the source karana scheme.
func New(eph Ephemeris) *Engine {
	return &Engine{
		Clock:         RealClock{},
		Ephemeris:     eph,
		Tables:        DefaultTables(),
		HouseSystem:   WholeSign,
		KaranaScheme:  KaranaSchemeSource,
		CombustionOrb: config.DefaultCombustionOrb,
	}
}

func (e *Engine) resolver() *Resolver {
	return &Resolver{Ephemeris: e.Ephemeris, CombustionOrb: e.CombustionOrb}
}

func (e *Engine) tables() *Tables {
	if e.Tables == nil {
		return DefaultTables()
	}
	return e.Tables
}

// Positions resolves the nine bodies at a civil moment observed at utcOffsetHours.
func (e *Engine) Positions(ctx context.Context, civil CivilDateTime, utcOffsetHours float64) (Positions, error) {
	at, err := NormalizeInstant(civil, utcOffsetHours)
	if err != nil {
		return nil, err
	}
	return e.resolver().ResolvePositions(ctx, at)
}

// Panchanga derives the panchanga at a civil moment and place.
func (e *Engine) Panchanga(ctx context.Context, civil CivilDateTime, loc Location) (*PanchangaDay, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	at, err := NormalizeInstant(civil, loc.UTCOffset)
	if err != nil {
		return nil, err
	}
	pos, err := e.resolver().ResolvePositions(ctx, at)
	if err != nil {
		return nil, err
	}
	d := &Deriver{Ephemeris: e.Ephemeris, Scheme: e.KaranaScheme}
	return d.DerivePanchanga(ctx, at, pos[Sun].Longitude, pos[Moon].Longitude, loc)
}

// Today derives the panchanga for the current wall clock at loc.
func (e *Engine) Today(ctx context.Context, loc Location) (*PanchangaDay, error) {
	return e.Panchanga(ctx, civilNow(e.Clock, loc.UTCOffset), loc)
}

// PanchangaRange derives one panchanga per civil day, starting at from, keeping its time of day.
// Cancellation is checked between days.
func (e *Engine) PanchangaRange(ctx context.Context, from CivilDateTime, days int, loc Location) ([]*PanchangaDay, error) {
	out := make([]*PanchangaDay, 0, max(days, 0))
	for i := range days {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		day, err := e.Panchanga(ctx, from.AddDays(i), loc)
		if err != nil {
			return nil, err
		}
		out = append(out, day)
	}
	return out, nil
}

// Chart builds the natal chart of a birth record.
func (e *Engine) Chart(ctx context.Context, b BirthData) (*Chart, error) {
	at, err := b.Instant()
	if err != nil {
		return nil, err
	}
	builder := &ChartBuilder{Resolver: e.resolver(), Tables: e.tables(), HouseSystem: e.HouseSystem}
	return builder.BuildChart(ctx, at, b.Location)
}

// Person extracts the matching inputs (Moon, Mars, ascendant) of a birth record.
func (e *Engine) Person(ctx context.Context, b BirthData) (Person, error) {
	chart, err := e.Chart(ctx, b)
	if err != nil {
		return Person{}, err
	}
	moon, _ := chart.Planet(Moon)
	mars, _ := chart.Planet(Mars)
	return Person{MoonLon: moon.Longitude, MarsLon: mars.Longitude, AscLon: chart.Ascendant.Longitude}, nil
}

// Match scores the compatibility of two birth records.
func (e *Engine) Match(ctx context.Context, a, b BirthData) (*CompatibilityReport, error) {
	start := time.Now()
	pa, err := e.Person(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.label(config.LabelPersonA), err)
	}
	pb, err := e.Person(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.label(config.LabelPersonB), err)
	}
	report := NewMatcher(e.tables()).MatchCompatibility(pa, pb)

	slog.Debug(config.MsgMatchScored,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyScore, report.Total,
		config.LogKeyTier, report.Tier,
		config.LogKeyFindings, len(report.Findings),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return report, nil
}
