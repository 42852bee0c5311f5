package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tartampluch/go-panchanga/internal/config"
	"github.com/tartampluch/go-panchanga/internal/contacts"
	"github.com/tartampluch/go-panchanga/internal/engine"
)

func newMatchCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Score the Ashtakoota compatibility of two persons",
		Example: "  go-panchanga match --a-date 1990-12-25 --a-time 14:30 --a-place Delhi \\\n" +
			"                     --b-date 1992-03-08 --b-time 06:10 --b-place Mumbai\n" +
			"  go-panchanga match --vcard family.vcf --a Asha --b Ravi --format text",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, b, err := c.matchPair(cmd.Context(), cmd.Flags())
			if err != nil {
				return err
			}
			report, err := c.engine.Match(cmd.Context(), a, b)
			if err != nil {
				return err
			}
			return c.render(cmd, report, func(p *printer) { p.report(a.Name, b.Name, report) })
		},
	}
	fs := cmd.Flags()
	addMomentFlags(fs, config.FlagPrefixA)
	addMomentFlags(fs, config.FlagPrefixB)
	fs.String(config.FlagVCard, "", config.FlagDescVCard)
	fs.String(config.FlagA, "", config.FlagDescA)
	fs.String(config.FlagB, "", config.FlagDescB)
	return cmd
}

// matchPair resolves both persons, from the vCard file when --vcard is set and
// from the prefixed moment flags otherwise.
func (c *cli) matchPair(ctx context.Context, fs *pflag.FlagSet) (engine.BirthData, engine.BirthData, error) {
	nameA, _ := fs.GetString(config.FlagA)
	nameB, _ := fs.GetString(config.FlagB)

	if path, _ := fs.GetString(config.FlagVCard); path != "" {
		reader := contacts.Reader{Geocoder: c.Geocoder}
		records, err := reader.ReadFile(ctx, path)
		if err != nil {
			return engine.BirthData{}, engine.BirthData{}, err
		}
		a, err := contacts.Find(records, nameA)
		if err != nil {
			return engine.BirthData{}, engine.BirthData{}, fmt.Errorf("--%s %q: %w", config.FlagA, nameA, err)
		}
		b, err := contacts.Find(records, nameB)
		if err != nil {
			return engine.BirthData{}, engine.BirthData{}, fmt.Errorf("--%s %q: %w", config.FlagB, nameB, err)
		}
		return a, b, nil
	}

	a, err := c.birthData(ctx, fs, config.FlagPrefixA)
	if err != nil {
		return engine.BirthData{}, engine.BirthData{}, fmt.Errorf("%s: %w", config.FlagA, err)
	}
	b, err := c.birthData(ctx, fs, config.FlagPrefixB)
	if err != nil {
		return engine.BirthData{}, engine.BirthData{}, fmt.Errorf("%s: %w", config.FlagB, err)
	}
	a.Name, b.Name = nameA, nameB
	return a, b, nil
}

func (p *printer) report(nameA, nameB string, r *engine.CompatibilityReport) {
	if nameA != "" || nameB != "" {
		p.row(config.TKeyLblName, nameA+" / "+nameB)
	}
	p.row(config.TKeyLblMoonRashi, r.A.SignName+" / "+r.B.SignName)
	p.row(config.TKeyLblNakshatra, fmt.Sprintf("%s %d / %s %d", r.A.NakName, r.A.Pada, r.B.NakName, r.B.Pada))
	p.blank()

	p.header(config.TKeyColKoota, config.TKeyColScore)
	for _, k := range r.Kootas {
		p.cols(k.Name, fmt.Sprintf("%g/%g", k.Score, k.Max))
	}
	p.cols(p.msg(config.TKeyLblTotal), fmt.Sprintf("%g/%g", r.Total, r.TotalPossible))
	p.cols(p.msg(config.TKeyLblTier), r.Tier)

	if len(r.Findings) == 0 {
		p.flush()
		return
	}
	p.blank()
	p.header(config.TKeyLblFindings)
	for _, f := range r.Findings {
		p.cols(f.Name, string(f.Nature), f.Description)
	}
	p.flush()
}
