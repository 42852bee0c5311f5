package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tartampluch/go-panchanga/internal/config"
	"github.com/tartampluch/go-panchanga/internal/engine"
	"github.com/tartampluch/go-panchanga/internal/ephemeris"
	"github.com/tartampluch/go-panchanga/internal/geo"
	"github.com/tartampluch/go-panchanga/internal/i18n"
)

// cli carries the per-invocation state shared by the commands.
type cli struct {
	out, errOut io.Writer
	viper       *viper.Viper
	logCloser   io.Closer

	// Clock and Geocoder are replaced in tests; setup fills them when nil.
	Clock    engine.Clock
	Geocoder geo.Geocoder

	settings config.Settings
	engine   *engine.Engine
	tr       *i18n.Translator
}

func newCLI(stdout, stderr io.Writer) *cli {
	return &cli{out: stdout, errOut: stderr, viper: viper.New()}
}

func (c *cli) close() {
	if c.logCloser != nil {
		_ = c.logCloser.Close() // Best effort close
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "go-panchanga",
		Short:         "Vedic calendar, birth chart and compatibility calculator",
		Long:          "go-panchanga derives the daily panchanga, builds sidereal birth charts and scores Ashtakoota compatibility.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if v, _ := cmd.Flags().GetBool(config.FlagVersion); v {
				return nil
			}
			return c.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if v, _ := cmd.Flags().GetBool(config.FlagVersion); v {
				printVersion(c.out)
				return nil
			}
			return cmd.Help()
		},
	}

	pf := root.PersistentFlags()
	pf.String(config.FlagConfig, "", config.FlagDescConfig)
	pf.Bool(config.FlagDebug, false, config.FlagDescDebug)
	pf.String(config.FlagFormat, config.FormatJSON, config.FlagDescFormat)
	pf.String(config.FlagLang, "", config.FlagDescLang)
	root.Flags().Bool(config.FlagVersion, false, config.FlagDescVersion)

	root.AddCommand(
		newPanchangaCmd(c),
		newChartCmd(c),
		newMatchCmd(c),
		newCalendarCmd(c),
		newServeCmd(c),
		newAPIKeyCmd(c),
	)
	return root
}

// initConfig reads the config file and environment into the cli's viper instance.
// A missing default config file is fine; an explicit --config must exist.
func (c *cli) initConfig(cmd *cobra.Command) error {
	v := c.viper
	if cfgFile, _ := cmd.Flags().GetString(config.FlagConfig); cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(config.ConfigName)
		v.SetConfigType(config.ConfigType)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlag(config.KeyDebug, cmd.Flags().Lookup(config.FlagDebug)); err != nil {
		return err
	}
	if err := v.BindPFlag(config.KeyLanguage, cmd.Flags().Lookup(config.FlagLang)); err != nil {
		return err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("%s: %w", config.ErrSettingsInvalid, err)
		}
	}
	return nil
}

// setup loads settings, installs logging and wires the engine and its collaborators.
func (c *cli) setup(cmd *cobra.Command) error {
	if err := c.initConfig(cmd); err != nil {
		return err
	}
	s, err := config.Load(c.viper)
	if err != nil {
		return err
	}
	c.settings = s

	c.logCloser = setupLogging(c.errOut, s.Debug)
	logStartupInfo()
	slog.Debug(config.MsgSettingsLoaded,
		config.LogKeyComponent, config.CompSettings,
		config.LogKeyFile, c.viper.ConfigFileUsed(),
	)

	frame, err := ephemeris.ParseFrame(s.Frame, s.Ayanamsa)
	if err != nil {
		return err
	}
	houses, err := engine.ParseHouseSystem(s.HouseSystem)
	if err != nil {
		return err
	}
	scheme, err := engine.ParseKaranaScheme(s.KaranaScheme)
	if err != nil {
		return err
	}
	tables := engine.DefaultTables()
	if s.TablesFile != "" {
		if tables, err = engine.LoadTables(s.TablesFile); err != nil {
			return err
		}
	}

	eng := engine.New(ephemeris.New(frame))
	eng.Tables = tables
	eng.HouseSystem = houses
	eng.KaranaScheme = scheme
	eng.CombustionOrb = s.CombustionOrb
	if c.Clock != nil {
		eng.Clock = c.Clock
	}
	c.engine = eng

	if c.Geocoder == nil {
		gazetteer, err := geo.NewGazetteer(s.Places)
		if err != nil {
			return err
		}
		c.Geocoder = geo.Chain{gazetteer, geo.NewNominatim(s.Geocoder)}
	}

	c.tr = i18n.New(s.Language)
	slog.Debug(config.MsgSettingsLoaded,
		config.LogKeyComponent, config.CompCLI,
		config.LogKeyFrame, frame.String(),
		config.LogKeyTables, tables.ID(),
		config.LogKeyLang, c.tr.Language(),
	)
	return nil
}

// -----------------------------------------------------------------------------
// Moment flags (date, time and place of one observation)
// -----------------------------------------------------------------------------

// addMomentFlags registers --date --time --lat --lon --offset --place under prefix.
func addMomentFlags(fs *pflag.FlagSet, prefix string) {
	fs.String(prefix+config.FlagDate, "", config.FlagDescDate)
	fs.String(prefix+config.FlagTime, "", config.FlagDescTime)
	fs.Float64(prefix+config.FlagLat, 0, config.FlagDescLat)
	fs.Float64(prefix+config.FlagLon, 0, config.FlagDescLon)
	fs.Float64(prefix+config.FlagOffset, 0, config.FlagDescOffset)
	fs.String(prefix+config.FlagPlace, "", config.FlagDescPlace)
}

// moment is a resolved observation.
type moment struct {
	Civil     engine.CivilDateTime
	TimeKnown bool
	Location  engine.Location
	Place     string
}

// resolveMoment reads the moment flags under prefix. Without --date the current wall clock
// at the place is used; a --date without --time means local noon, as for date-only
// vCard birthdays.
func (c *cli) resolveMoment(ctx context.Context, fs *pflag.FlagSet, prefix string) (moment, error) {
	date, _ := fs.GetString(prefix + config.FlagDate)
	clock, _ := fs.GetString(prefix + config.FlagTime)

	var (
		m   moment
		err error
	)
	if date != "" {
		if m.Civil, err = engine.ParseCivilDateTime(date, clock); err != nil {
			return moment{}, err
		}
		m.TimeKnown = clock != ""
		if !m.TimeKnown {
			m.Civil.Hour = config.DateOnlyHour
		}
	}

	place, err := c.resolvePlace(ctx, fs, prefix)
	if err != nil {
		return moment{}, err
	}
	m.Place = place.Name

	if date == "" {
		m.Civil = c.today(place)
		m.TimeKnown = true
	}
	m.Location = place.Location(m.Civil)
	return m, m.Location.Validate()
}

// resolvePlace geocodes --place, or builds a place from --lat/--lon. A missing
// --offset comes from the time zone covering the coordinates.
func (c *cli) resolvePlace(ctx context.Context, fs *pflag.FlagSet, prefix string) (geo.Place, error) {
	if name, _ := fs.GetString(prefix + config.FlagPlace); name != "" {
		return c.Geocoder.Geocode(ctx, name)
	}
	if !fs.Changed(prefix+config.FlagLat) || !fs.Changed(prefix+config.FlagLon) {
		return geo.Place{}, fmt.Errorf("%w: %s", engine.ErrInvalidLocation, config.ErrLocationRequired)
	}

	lat, _ := fs.GetFloat64(prefix + config.FlagLat)
	lon, _ := fs.GetFloat64(prefix + config.FlagLon)
	if fs.Changed(prefix + config.FlagOffset) {
		offset, _ := fs.GetFloat64(prefix + config.FlagOffset)
		return geo.Place{Latitude: lat, Longitude: lon, Offset: offset}, nil
	}
	return geo.PlaceAt("", lat, lon), nil
}

// today returns the current wall clock at place.
func (c *cli) today(place geo.Place) engine.CivilDateTime {
	zone := place.Zone
	if zone == nil {
		zone = engine.FixedZone(place.Offset)
	}
	return engine.CivilFromTime(c.now().In(zone))
}

func (c *cli) now() time.Time {
	if c.engine != nil && c.engine.Clock != nil {
		return c.engine.Clock.Now()
	}
	return time.Now()
}
