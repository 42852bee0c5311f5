// Package export renders panchanga days as an iCalendar feed.
package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/tartampluch/go-panchanga/internal/config"
	"github.com/tartampluch/go-panchanga/internal/engine"
)

// Event keys double as translation message IDs.
const (
	EventRahuKaal   = config.TKeyEvtRahuKaal
	EventGulikaKaal = config.TKeyEvtGulikaKaal
	EventYamaganda  = config.TKeyEvtYamaganda
	EventAbhijit    = config.TKeyEvtAbhijit
)

var defaultLabels = map[string]string{
	EventRahuKaal:   "Rahu Kaal",
	EventGulikaKaal: "Gulika Kaal",
	EventYamaganda:  "Yamaganda",
	EventAbhijit:    "Abhijit Muhurta",
}

// windows lists the exported periods in calendar order.
var windows = []struct {
	key  string
	pick func(*engine.PanchangaDay) engine.TimeWindow
}{
	{EventRahuKaal, func(d *engine.PanchangaDay) engine.TimeWindow { return d.RahuKaal }},
	{EventGulikaKaal, func(d *engine.PanchangaDay) engine.TimeWindow { return d.GulikaKaal }},
	{EventYamaganda, func(d *engine.PanchangaDay) engine.TimeWindow { return d.Yamaganda }},
	{EventAbhijit, func(d *engine.PanchangaDay) engine.TimeWindow { return d.Abhijit }},
}

// Exporter builds calendars of day windows.
type Exporter struct {
	Clock engine.Clock // Interface for time mocking.

	// Label allows the CLI to inject localized summaries. Nil uses English.
	Label func(key string) string
}

// Calendar encodes one event per window per day. reminder is an ISO8601 trigger
// (e.g. "-PT15M") attached to Rahu Kaal events only; empty disables alarms.
// An empty day list yields the minimal stub calendar.
func (e *Exporter) Calendar(days []*engine.PanchangaDay, reminder string) ([]byte, error) {
	if len(days) == 0 {
		var buf bytes.Buffer
		buf.WriteString(config.StubVCalendar)
		return buf.Bytes(), nil
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	dtStamp := ical.NewProp(config.PropDTStamp)
	dtStamp.SetDateTime(e.now().UTC())

	for _, day := range days {
		for _, w := range windows {
			win := w.pick(day)
			if win.Start.IsZero() || !win.End.After(win.Start) {
				continue
			}
			event := e.event(day, w.key, win)
			event.Props.Set(dtStamp)
			if reminder != "" && w.key == EventRahuKaal {
				addAlarm(event, reminder, e.label(w.key))
			}
			cal.Children = append(cal.Children, event.Component)
		}
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Info(config.MsgCalendarBuilt,
		config.LogKeyComponent, config.CompExport,
		config.LogKeyDays, len(days),
		config.LogKeyCount, len(cal.Children),
	)
	return buf.Bytes(), nil
}

func (e *Exporter) event(day *engine.PanchangaDay, key string, win engine.TimeWindow) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, UID(key, day))
	event.Props.SetText(config.PropSummary, e.label(key))
	event.Props.SetText(config.PropCategories, config.CategoryPanchanga)
	event.Props.SetText(config.PropDescription, fmt.Sprintf("%s, %s (%s), %s, %s",
		day.Vara, day.Tithi.Name, day.Tithi.Paksha, day.NakshatraName, day.YogaName))

	// Floating local times would need a VTIMEZONE for fixed offsets; UTC is unambiguous.
	start := ical.NewProp(config.PropDTStart)
	start.SetDateTime(win.Start.UTC())
	event.Props.Set(start)
	end := ical.NewProp(config.PropDTEnd)
	end.SetDateTime(win.End.UTC())
	event.Props.Set(end)
	return event
}

// UID is stable across exports of the same window, day and place.
func UID(key string, day *engine.PanchangaDay) string {
	name := fmt.Sprintf(config.FormatUIDName, key, day.Date, day.Location.Latitude, day.Location.Longitude)
	return fmt.Sprintf(config.FormatUID, uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)), config.ICalDomain)
}

func (e *Exporter) label(key string) string {
	if e.Label != nil {
		if s := e.Label(key); s != "" {
			return s
		}
	}
	return defaultLabels[key]
}

func (e *Exporter) now() time.Time {
	if e.Clock == nil {
		return time.Now()
	}
	return e.Clock.Now()
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}
