package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tartampluch/go-panchanga/internal/config"
	"github.com/tartampluch/go-panchanga/internal/export"
)

func newCalendarCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Export Rahu Kaal, Gulika Kaal, Yamaganda and Abhijit windows as iCalendar",
		Example: "  go-panchanga calendar --place Varanasi --days 30 --remind -PT15M --out rahu.ics\n" +
			"  go-panchanga calendar --lat 51.5 --lon -0.13 --offset 0 --lang hi > windows.ics",
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
			remind, _ := cmd.Flags().GetString(config.FlagRemind)
			out, _ := cmd.Flags().GetString(config.FlagOut)

			list, err := c.engine.PanchangaRange(cmd.Context(), m.Civil.Midnight(), days, m.Location)
			if err != nil {
				return err
			}
			exporter := export.Exporter{Clock: c.engine.Clock, Label: c.tr.Label}
			data, err := exporter.Calendar(list, remind)
			if err != nil {
				return err
			}

			if out == "" {
				_, err = c.out.Write(data)
				return err
			}
			if err := os.WriteFile(out, data, config.FilePermPublic); err != nil {
				return fmt.Errorf("%s: %w", config.ErrWriteOutput, err)
			}
			slog.Info(config.MsgOutputWritten,
				config.LogKeyComponent, config.CompCLI,
				config.LogKeyFile, out,
				config.LogKeyDays, days,
			)
			return nil
		},
	}
	addMomentFlags(cmd.Flags(), "")
	cmd.Flags().Int(config.FlagDays, config.DefaultExportDays, config.FlagDescDays)
	cmd.Flags().String(config.FlagOut, "", config.FlagDescOut)
	cmd.Flags().String(config.FlagRemind, "", config.FlagDescRemind)
	return cmd
}
