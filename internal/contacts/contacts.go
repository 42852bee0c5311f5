// Package contacts reads birth records from vCard streams.
package contacts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"golang.org/x/text/cases"

	"github.com/tartampluch/go-panchanga/internal/config"
	"github.com/tartampluch/go-panchanga/internal/engine"
	"github.com/tartampluch/go-panchanga/internal/geo"
)

// Reader turns vCards into birth records.
type Reader struct {
	// Geocoder resolves BIRTHPLACE when the card has no GEO property. Optional.
	Geocoder geo.Geocoder
}

// ReadFile opens path and reads every usable record.
func (r *Reader) ReadFile(ctx context.Context, path string) ([]engine.BirthData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
	}
	defer func() { _ = f.Close() }()
	return r.Read(ctx, f)
}

// Read decodes the stream. Malformed cards and cards without birth date or location are
// skipped with a log line so one bad entry never hides the others.
func (r *Reader) Read(ctx context.Context, src io.Reader) ([]engine.BirthData, error) {
	log := slog.With(slog.String(config.LogKeyComponent, config.CompContacts))
	in := &contentReader{r: src}
	decoder := vcard.NewDecoder(in)

	var (
		records []engine.BirthData
		decoded int
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			// The decoder skips lines it cannot parse, so text without any
			// vCard reaches EOF without an error.
			if decoded == 0 && in.content {
				return nil, fmt.Errorf("%s: no BEGIN:VCARD found", config.ErrVCardParse)
			}
			break
		}
		if err != nil {
			log.Warn(config.MsgSkippedCard, slog.Any(config.LogKeyError, err))
			// The decoder cannot resynchronize after a syntax error.
			if decoded == 0 {
				return nil, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
			}
			break
		}
		decoded++

		bday := card.Value(vcard.FieldBirthday)
		if bday == "" {
			continue
		}
		civil, timeKnown, zone, err := parseBirthday(bday)
		if err != nil {
			log.Debug(config.MsgSkippedDate, slog.String(config.LogKeyValue, bday))
			continue
		}

		rec := engine.BirthData{
			Name:      cardName(card),
			Civil:     civil,
			TimeKnown: timeKnown,
			Place:     card.Value(config.VCardBirthPlace),
		}
		loc, err := r.location(ctx, card, rec, zone)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn(config.MsgSkippedPlace,
				slog.String(config.LogKeyName, rec.Name),
				slog.Any(config.LogKeyError, err),
			)
			continue
		}
		rec.Location = loc
		records = append(records, rec)
	}

	log.Info(config.MsgRecordsLoaded, slog.Int(config.LogKeyCount, len(records)))
	return records, nil
}

// contentReader records whether the stream held anything besides whitespace.
type contentReader struct {
	r       io.Reader
	content bool
}

func (c *contentReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if !c.content && len(bytes.TrimSpace(p[:n])) > 0 {
		c.content = true
	}
	return n, err
}

// location combines GEO, TZ and BIRTHPLACE. Precedence for the offset: TZ property,
// then the BDAY offset, then the zone of the GEO point or geocoded place.
func (r *Reader) location(ctx context.Context, card vcard.Card, rec engine.BirthData, bdayZone *time.Location) (engine.Location, error) {
	var (
		place  geo.Place
		hasGeo bool
	)
	if raw := card.Value(vcard.FieldGeolocation); raw != "" {
		lat, lon, err := parseGeo(raw)
		if err == nil {
			place = geo.PlaceAt(rec.Place, lat, lon)
			hasGeo = true
		} else {
			slog.Debug(config.MsgSkippedGeo,
				slog.String(config.LogKeyComponent, config.CompContacts),
				slog.String(config.LogKeyValue, raw),
			)
		}
	}
	if !hasGeo {
		if rec.Place == "" || r.Geocoder == nil {
			return engine.Location{}, fmt.Errorf("%w: no GEO and no resolvable BIRTHPLACE", engine.ErrInvalidLocation)
		}
		p, err := r.Geocoder.Geocode(ctx, rec.Place)
		if err != nil {
			return engine.Location{}, err
		}
		place = p
	}

	if raw := card.Value(vcard.FieldTimezone); raw != "" {
		zone, err := parseZone(raw)
		if err == nil {
			place.Zone = zone
		} else {
			slog.Debug(config.MsgSkippedZone,
				slog.String(config.LogKeyComponent, config.CompContacts),
				slog.String(config.LogKeyValue, raw),
			)
		}
	} else if bdayZone != nil {
		place.Zone = bdayZone
	}

	loc := place.Location(rec.Civil)
	return loc, loc.Validate()
}

// Find returns the record whose name matches, ignoring case.
func Find(records []engine.BirthData, name string) (engine.BirthData, error) {
	fold := cases.Fold()
	want := fold.String(strings.TrimSpace(name))
	for _, r := range records {
		if fold.String(r.Name) == want {
			return r, nil
		}
	}
	return engine.BirthData{}, fmt.Errorf("%s: %q", config.ErrPersonNotFound, name)
}

// cardName applies FN (Formatted) > N (Structured) > Fallback.
func cardName(card vcard.Card) string {
	if fn := strings.TrimSpace(card.Value(vcard.FieldFormattedName)); fn != "" {
		return fn
	}
	if n := card.Name(); n != nil {
		full := strings.TrimSpace(strings.Join([]string{n.GivenName, n.FamilyName}, " "))
		if full != "" {
			return full
		}
	}
	return config.FallbackName
}

// parseBirthday handles date-only and date-time BDAY values. A trailing UTC designator or
// numeric offset is returned as a fixed zone.
func parseBirthday(value string) (engine.CivilDateTime, bool, *time.Location, error) {
	value = strings.TrimSpace(value)

	dateOnly := []string{config.DateFormatFullDash, config.DateFormatFullBasic}
	for _, f := range dateOnly {
		if t, err := time.Parse(f, value); err == nil {
			c := engine.CivilFromTime(t)
			c.Hour = config.DateOnlyHour
			return c, false, nil, nil
		}
	}

	zoned := []string{time.RFC3339, config.DateTimeFormatBasic + "Z0700", config.DateTimeFormatBasic + "Z07:00"}
	for _, f := range zoned {
		if t, err := time.Parse(f, value); err == nil {
			return engine.CivilFromTime(t), true, t.Location(), nil
		}
	}

	floating := []string{config.DateTimeFormatDash, config.DateTimeFormatBasic, config.DateTimeFormatShort}
	for _, f := range floating {
		if t, err := time.Parse(f, value); err == nil {
			return engine.CivilFromTime(t), true, nil, nil
		}
	}
	return engine.CivilDateTime{}, false, nil, errors.New(config.ErrDateParse)
}

// parseGeo accepts the vCard 4 "geo:lat,lon" URI and the vCard 3 "lat;lon" pair.
func parseGeo(value string) (float64, float64, error) {
	v := strings.TrimPrefix(strings.TrimSpace(value), config.GeoURIPrefix)
	if i := strings.IndexByte(v, ';'); i >= 0 && strings.Contains(value, config.GeoURIPrefix) {
		v = v[:i] // URI parameters such as ";u=35"
	}
	sep := ","
	if !strings.Contains(v, sep) {
		sep = ";"
	}
	parts := strings.Split(v, sep)
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("%s: %q", config.MsgSkippedGeo, value)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, err
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}

// parseZone accepts "+05:30", "-0800", "Z" or an IANA identifier.
func parseZone(value string) (*time.Location, error) {
	v := strings.TrimSpace(value)
	if v == "Z" || strings.EqualFold(v, "UTC") {
		return time.UTC, nil
	}
	if strings.HasPrefix(v, "+") || strings.HasPrefix(v, "-") {
		sign := 1
		if v[0] == '-' {
			sign = -1
		}
		digits := strings.ReplaceAll(v[1:], ":", "")
		if len(digits) != 2 && len(digits) != 4 {
			return nil, fmt.Errorf("%s: %q", config.ErrUnknownZone, value)
		}
		h, err := strconv.Atoi(digits[:2])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrUnknownZone, err)
		}
		m := 0
		if len(digits) == 4 {
			if m, err = strconv.Atoi(digits[2:]); err != nil {
				return nil, fmt.Errorf("%s: %w", config.ErrUnknownZone, err)
			}
		}
		return time.FixedZone(v, sign*(h*3600+m*60)), nil
	}
	loc, err := time.LoadLocation(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrUnknownZone, err)
	}
	return loc, nil
}
