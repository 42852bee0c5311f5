package engine

import (
	"time"

	"github.com/tartampluch/go-panchanga/internal/config"
)

// SlotsPerHalf is the number of equal slots in daytime and in nighttime.
const SlotsPerHalf = 8

// TimeWindow is a closed-open local time range.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns End - Start.
func (w TimeWindow) Duration() time.Duration { return w.End.Sub(w.Start) }

// Contains reports whether t falls inside [Start, End).
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// String renders the window as HH:MM - HH:MM.
func (w TimeWindow) String() string {
	return w.Start.Format(config.TimeFormatClock) + " - " + w.End.Format(config.TimeFormatClock)
}

// Slot is a labeled time window.
type Slot struct {
	Name string `json:"name"`
	TimeWindow
}

// Slot tables, one 1-based slot number per weekday (Monday first).
var (
	RahuKaalSlots   = [7]int{2, 7, 5, 6, 4, 3, 8}
	GulikaKaalSlots = [7]int{6, 5, 4, 3, 2, 1, 7}
	YamagandaSlots  = [7]int{4, 3, 2, 1, 7, 6, 5}
)

// ChoghadiyaDay holds the daytime label sequence per weekday (Monday first).
var ChoghadiyaDay = [7][SlotsPerHalf]string{
	{"Amrit", "Kaal", "Shubh", "Rog", "Udveg", "Chal", "Labh", "Amrit"},
	{"Rog", "Udveg", "Chal", "Labh", "Amrit", "Kaal", "Shubh", "Rog"},
	{"Labh", "Amrit", "Kaal", "Shubh", "Rog", "Udveg", "Chal", "Labh"},
	{"Shubh", "Rog", "Udveg", "Chal", "Labh", "Amrit", "Kaal", "Shubh"},
	{"Chal", "Labh", "Amrit", "Kaal", "Shubh", "Rog", "Udveg", "Chal"},
	{"Kaal", "Shubh", "Rog", "Udveg", "Chal", "Labh", "Amrit", "Kaal"},
	{"Udveg", "Chal", "Labh", "Amrit", "Kaal", "Shubh", "Rog", "Udveg"},
}

// ChoghadiyaNight holds the nighttime label sequence per weekday (Monday first).
var ChoghadiyaNight = [7][SlotsPerHalf]string{
	{"Chal", "Rog", "Kaal", "Labh", "Udveg", "Shubh", "Amrit", "Chal"},
	{"Kaal", "Labh", "Udveg", "Shubh", "Amrit", "Chal", "Rog", "Kaal"},
	{"Udveg", "Shubh", "Amrit", "Chal", "Rog", "Kaal", "Labh", "Udveg"},
	{"Amrit", "Chal", "Rog", "Kaal", "Labh", "Udveg", "Shubh", "Amrit"},
	{"Rog", "Kaal", "Labh", "Udveg", "Shubh", "Amrit", "Chal", "Rog"},
	{"Labh", "Udveg", "Shubh", "Amrit", "Chal", "Rog", "Kaal", "Labh"},
	{"Shubh", "Amrit", "Chal", "Rog", "Kaal", "Labh", "Udveg", "Shubh"},
}

// DayWindows is the full set of rise/set based windows of one civil day.
type DayWindows struct {
	RahuKaal        TimeWindow `json:"rahu_kaal"`
	GulikaKaal      TimeWindow `json:"gulika_kaal"`
	Yamaganda       TimeWindow `json:"yamaganda"`
	Abhijit         TimeWindow `json:"abhijit"`
	ChoghadiyaDay   []Slot     `json:"choghadiya_day"`
	ChoghadiyaNight []Slot     `json:"choghadiya_night"`
}

// SliceDay divides [start, end) into n contiguous windows of equal length.
// Boundaries are computed from the start so the slots never drift apart.
func SliceDay(start, end time.Time, n int) []TimeWindow {
	total := end.Sub(start)
	out := make([]TimeWindow, n)
	for i := range n {
		out[i] = TimeWindow{
			Start: start.Add(total * time.Duration(i) / time.Duration(n)),
			End:   start.Add(total * time.Duration(i+1) / time.Duration(n)),
		}
	}
	return out
}

// SliceEvents builds the day windows from local sunrise, sunset and the next sunrise.
// weekday is the civil weekday with Monday=0.
func SliceEvents(sunrise, sunset, nextSunrise time.Time, weekday int) DayWindows {
	weekday = floorMod(weekday, 7)
	day := SliceDay(sunrise, sunset, SlotsPerHalf)
	night := SliceDay(sunset, nextSunrise, SlotsPerHalf)

	mid := sunrise.Add(sunset.Sub(sunrise) / 2)
	w := DayWindows{
		RahuKaal:   day[RahuKaalSlots[weekday]-1],
		GulikaKaal: day[GulikaKaalSlots[weekday]-1],
		Yamaganda:  day[YamagandaSlots[weekday]-1],
		Abhijit: TimeWindow{
			Start: mid.Add(-config.AbhijitHalfWidth),
			End:   mid.Add(config.AbhijitHalfWidth),
		},
	}
	w.ChoghadiyaDay = label(day, ChoghadiyaDay[weekday])
	w.ChoghadiyaNight = label(night, ChoghadiyaNight[weekday])
	return w
}

func label(windows []TimeWindow, names [SlotsPerHalf]string) []Slot {
	out := make([]Slot, len(windows))
	for i, w := range windows {
		out[i] = Slot{Name: names[i], TimeWindow: w}
	}
	return out
}
