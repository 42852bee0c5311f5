package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/tartampluch/go-panchanga/internal/config"
	"github.com/tartampluch/go-panchanga/internal/export"
	"github.com/tartampluch/go-panchanga/internal/geo"
	"github.com/tartampluch/go-panchanga/internal/server"
)

func newServeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a self-refreshing iCalendar feed and today's panchanga over local HTTP",
		Long: "serve keeps " + config.RouteCalendar + " (day windows for the next --days days) and " +
			config.RouteToday + " (the panchanga at the current time) up to date for one place.\n" +
			"Subscribe a calendar client to http://<addr>" + config.RouteCalendar + ".",
		Example: "  go-panchanga serve --place Varanasi --days 14 --remind -PT10M",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fs := cmd.Flags()
			place, err := c.resolvePlace(cmd.Context(), fs, "")
			if err != nil {
				return err
			}
			days, _ := fs.GetInt(config.FlagDays)
			refresh, _ := fs.GetDuration(config.FlagRefresh)
			if days < 1 || refresh <= 0 {
				return fmt.Errorf("%s: --%s=%d --%s=%s", config.ErrSettingsInvalid, config.FlagDays, days, config.FlagRefresh, refresh)
			}
			addr, _ := fs.GetString(config.FlagAddr)
			remind, _ := fs.GetString(config.FlagRemind)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			srv := server.NewFeedServer(addr, config.RouteCalendar, config.RouteToday)
			srv.Clock = c.engine.Clock
			f := &feed{cli: c, server: srv, place: place, days: days, remind: remind}
			go f.worker(ctx, refresh)
			return srv.Start(ctx)
		},
	}
	fs := cmd.Flags()
	fs.Float64(config.FlagLat, 0, config.FlagDescLat)
	fs.Float64(config.FlagLon, 0, config.FlagDescLon)
	fs.Float64(config.FlagOffset, 0, config.FlagDescOffset)
	fs.String(config.FlagPlace, "", config.FlagDescPlace)
	fs.Int(config.FlagDays, config.DefaultExportDays, config.FlagDescDays)
	fs.String(config.FlagRemind, "", config.FlagDescRemind)
	fs.String(config.FlagAddr, config.DefaultServerAddr, config.FlagDescAddr)
	fs.Duration(config.FlagRefresh, config.DefaultRefresh, config.FlagDescRefresh)
	return cmd
}

// feed regenerates the published documents of one place.
type feed struct {
	cli    *cli
	server *server.FeedServer
	place  geo.Place
	days   int
	remind string
}

// worker refreshes once, then on every tick until ctx is done. Failures are
// logged and retried on the next tick; the last good documents stay published.
func (f *feed) worker(ctx context.Context, interval time.Duration) {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	f.refreshLogged(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	log.Info(config.MsgWorkerStart, config.LogKeyInterval, interval)

	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgWorkerStop)
			return
		case <-ticker.C:
			f.refreshLogged(ctx)
		}
	}
}

func (f *feed) refreshLogged(ctx context.Context) {
	if err := f.refresh(ctx); err != nil && ctx.Err() == nil {
		slog.Error(config.ErrRefreshFailed,
			config.LogKeyComponent, config.CompWorker,
			config.LogKeyError, err,
		)
	}
}

// refresh recomputes the window calendar from today's local midnight and the
// panchanga of the current moment, then publishes both.
func (f *feed) refresh(ctx context.Context) error {
	c := f.cli
	now := c.today(f.place)
	loc := f.place.Location(now)

	list, err := c.engine.PanchangaRange(ctx, now.Midnight(), f.days, loc)
	if err != nil {
		return err
	}
	exporter := export.Exporter{Clock: c.engine.Clock, Label: c.tr.Label}
	ics, err := exporter.Calendar(list, f.remind)
	if err != nil {
		return err
	}

	day, err := c.engine.Panchanga(ctx, now, loc)
	if err != nil {
		return err
	}
	today, err := json.Marshal(day)
	if err != nil {
		return err
	}

	f.server.Publish(config.RouteCalendar, config.MimeTextCalendar, ics)
	f.server.Publish(config.RouteToday, config.MimeJSONUTF8, today)
	return nil
}
