package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tartampluch/go-panchanga/internal/config"
	"github.com/tartampluch/go-panchanga/internal/engine"
)

func newPanchangaCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "panchanga",
		Short: "Show the panchanga (tithi, nakshatra, yoga, karana, day windows) for a date and place",
		Example: "  go-panchanga panchanga --date 2024-01-01 --time 06:00 --lat 28.61 --lon 77.21 --offset 5.5\n" +
			"  go-panchanga panchanga --place Varanasi --days 7 --format text",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := c.resolveMoment(cmd.Context(), cmd.Flags(), "")
			if err != nil {
				return err
			}
			days, _ := cmd.Flags().GetInt(config.FlagDays)
			if days < 1 {
				return fmt.Errorf("%s: --%s=%d", config.ErrSettingsInvalid, config.FlagDays, days)
			}

			list, err := c.engine.PanchangaRange(cmd.Context(), m.Civil, days, m.Location)
			if err != nil {
				return err
			}
			var payload any = list
			if days == 1 {
				payload = list[0]
			}
			return c.render(cmd, payload, func(p *printer) {
				for i, day := range list {
					if i > 0 {
						p.blank()
					}
					p.panchanga(day, m.Place)
				}
			})
		},
	}
	addMomentFlags(cmd.Flags(), "")
	cmd.Flags().Int(config.FlagDays, 1, config.FlagDescDays)
	return cmd
}

// panchanga prints one day as aligned label/value rows followed by the choghadiya tables.
func (p *printer) panchanga(day *engine.PanchangaDay, place string) {
	clock := func(t time.Time) string { return t.Format(config.TimeFormatClock) }

	p.row(config.TKeyLblDate, day.Date)
	if place != "" {
		p.row(config.TKeyLblPlace, place)
	}
	p.row(config.TKeyLblVara, day.Vara)
	p.row(config.TKeyLblTithi, fmt.Sprintf("%s (%s)", day.Tithi.Name, day.Tithi.Paksha))
	p.row(config.TKeyLblNakshatra, fmt.Sprintf("%s %d", day.NakshatraName, day.Pada))
	p.row(config.TKeyLblYoga, day.YogaName)
	p.row(config.TKeyLblKarana, fmt.Sprintf("%s %s, %s %s (%s)",
		day.Karana.Name, clock(day.Karana.End), p.msg(config.TKeyLblNext), day.NextKarana.Name, clock(day.NextKarana.End)))
	p.row(config.TKeyLblSunRashi, day.SunRashi)
	p.row(config.TKeyLblMoonRashi, day.MoonRashi)

	rise, set := clock(day.Sunrise), clock(day.Sunset)
	if day.SunFallback {
		approx := " (" + p.msg(config.TKeyLblApprox) + ")"
		rise, set = rise+approx, set+approx
	}
	p.row(config.TKeyLblSunrise, rise)
	p.row(config.TKeyLblSunset, set)
	if day.MoonriseKnown {
		p.row(config.TKeyLblMoonrise, clock(day.Moonrise))
		p.row(config.TKeyLblMoonset, clock(day.Moonset))
	} else {
		p.row(config.TKeyLblMoonrise, p.msg(config.TKeyLblNotSeen))
	}

	p.row(config.TKeyEvtRahuKaal, day.RahuKaal.String())
	p.row(config.TKeyEvtGulikaKaal, day.GulikaKaal.String())
	p.row(config.TKeyEvtYamaganda, day.Yamaganda.String())
	p.row(config.TKeyEvtAbhijit, day.Abhijit.String())

	p.slots(config.TKeyLblDayChog, day.ChoghadiyaDay)
	p.slots(config.TKeyLblNightChog, day.ChoghadiyaNight)
	p.flush()
}
