package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tartampluch/go-panchanga/internal/config"
	"github.com/tartampluch/go-panchanga/internal/engine"
)

func newChartCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "chart",
		Short:   "Build a sidereal birth chart",
		Example: "  go-panchanga chart --name Asha --date 1990-12-25 --time 14:30 --lat 28.61 --lon 77.21 --offset 5.5",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			birth, err := c.birthData(cmd.Context(), cmd.Flags(), "")
			if err != nil {
				return err
			}
			birth.Name, _ = cmd.Flags().GetString(config.FlagName)

			chart, err := c.engine.Chart(cmd.Context(), birth)
			if err != nil {
				return err
			}
			return c.render(cmd, chart, func(p *printer) { p.chart(birth, chart) })
		},
	}
	addMomentFlags(cmd.Flags(), "")
	cmd.Flags().String(config.FlagName, "", config.FlagDescName)
	return cmd
}

// birthData resolves the moment flags under prefix into a birth record. Unlike a
// panchanga query, a birth record needs an explicit date.
func (c *cli) birthData(ctx context.Context, fs *pflag.FlagSet, prefix string) (engine.BirthData, error) {
	if date, _ := fs.GetString(prefix + config.FlagDate); date == "" {
		return engine.BirthData{}, fmt.Errorf("%w: %s", engine.ErrInvalidCalendarDate, config.ErrDateRequired)
	}
	m, err := c.resolveMoment(ctx, fs, prefix)
	if err != nil {
		return engine.BirthData{}, err
	}
	return engine.BirthData{
		Civil:     m.Civil,
		TimeKnown: m.TimeKnown,
		Location:  m.Location,
		Place:     m.Place,
	}, nil
}

func (p *printer) chart(birth engine.BirthData, chart *engine.Chart) {
	if birth.Name != "" {
		p.row(config.TKeyLblName, birth.Name)
	}
	p.row(config.TKeyLblDate, birth.Civil.String())
	if birth.Place != "" {
		p.row(config.TKeyLblPlace, birth.Place)
	}
	asc := chart.Ascendant
	p.row(config.TKeyLblAscendant, fmt.Sprintf("%s %s (%s %d)",
		asc.SignName, degrees(asc.DegreeInSign), asc.NakshatraName, asc.Pada))
	p.blank()

	p.header(config.TKeyColBody, config.TKeyColSign, config.TKeyColDegree, config.TKeyColNakshatra,
		config.TKeyColHouse, config.TKeyColFlags, config.TKeyColKaraka, config.TKeyColNavamsa)
	for _, pl := range chart.Planets {
		var flags []string
		if pl.Retrograde {
			flags = append(flags, p.msg(config.TKeyFlagRetro))
		}
		if pl.Combust {
			flags = append(flags, p.msg(config.TKeyFlagCombust))
		}
		p.cols(
			pl.Body.String(),
			pl.SignName,
			degrees(pl.DegreeInSign),
			fmt.Sprintf("%s %d", pl.NakshatraName, pl.Pada),
			fmt.Sprint(pl.House),
			strings.Join(flags, ","),
			pl.Karaka,
			engine.SignNames[pl.NavamsaSign],
		)
	}
	p.flush()
}

// degrees formats an angle within a sign as degrees and arc minutes.
func degrees(v float64) string {
	d := int(v)
	m := int((v - float64(d)) * 60)
	return fmt.Sprintf("%02d°%02d'", d, m)
}
