package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-panchanga/internal/engine"
)

func TestTithiOf(t *testing.T) {
	tests := []struct {
		name      string
		sun, moon float64
		index     int
		tithi     string
		paksha    string
	}{
		{"New moon", 100, 100, 0, "Pratipada", engine.PakshaShukla},
		{"Just before new moon", 0, 359.9999, 29, "Purnima/Amavasya", engine.PakshaKrishna},
		{"Wrap past Aries", 350, 5, 1, "Dvitiya", engine.PakshaShukla},
		{"Last bright tithi", 0, 179.9, 14, "Purnima/Amavasya", engine.PakshaShukla},
		{"Full moon", 0, 180, 15, "Pratipada", engine.PakshaKrishna},
		{"Ekadashi", 10, 10 + 125, 10, "Ekadashi", engine.PakshaShukla},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.TithiOf(tt.sun, tt.moon)
			assert.Equal(t, tt.index, got.Index)
			assert.Equal(t, tt.tithi, got.Name)
			assert.Equal(t, tt.paksha, got.Paksha)
		})
	}
}

func TestTithiOf_Monotonic(t *testing.T) {
	prev := 0
	for diff := 0.0; diff < 360; diff += 0.25 {
		idx := engine.TithiOf(40, 40+diff).Index
		assert.GreaterOrEqual(t, idx, prev, "diff %v", diff)
		assert.Less(t, idx, 30)
		prev = idx
	}
	assert.Equal(t, 29, prev)
}

func TestYogaOf(t *testing.T) {
	assert.Equal(t, 0, engine.YogaOf(0, 0))
	assert.Equal(t, 26, engine.YogaOf(200, 159.99))
	assert.Equal(t, 3, engine.YogaOf(200, 210), "410 wraps to 50 degrees")
	assert.Equal(t, "Vaidhriti", engine.YogaNames[26])
}

func TestKaranaIndex(t *testing.T) {
	assert.Equal(t, 0, engine.KaranaIndex(0))
	assert.Equal(t, 0, engine.KaranaIndex(5.999))
	assert.Equal(t, 1, engine.KaranaIndex(6))
	assert.Equal(t, 56, engine.KaranaIndex(336))
	assert.Equal(t, 59, engine.KaranaIndex(359.999))
	assert.Equal(t, 0, engine.KaranaIndex(360))
	assert.Equal(t, 59, engine.KaranaIndex(-0.5))
}

func TestSliceDay(t *testing.T) {
	start := time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC)

	slots := engine.SliceDay(start, end, 8)
	require.Len(t, slots, 8)
	assert.Equal(t, start, slots[0].Start)
	assert.Equal(t, end, slots[7].End)
	for i, s := range slots {
		assert.Equal(t, 90*time.Minute, s.Duration())
		if i > 0 {
			assert.Equal(t, slots[i-1].End, s.Start, "slots are contiguous")
		}
	}
	assert.True(t, slots[0].Contains(start))
	assert.False(t, slots[0].Contains(slots[1].Start), "windows are closed-open")
}

func TestSliceEvents_ByWeekday(t *testing.T) {
	rise := time.Date(2024, 1, 7, 6, 0, 0, 0, time.UTC)
	set := time.Date(2024, 1, 7, 18, 0, 0, 0, time.UTC)
	next := time.Date(2024, 1, 8, 6, 0, 0, 0, time.UTC)

	tests := []struct {
		name                    string
		weekday                 int
		rahu, gulika, yamaganda string
		firstDay, firstNight    string
	}{
		{"Monday", 0, "07:30 - 09:00", "13:30 - 15:00", "10:30 - 12:00", "Amrit", "Chal"},
		{"Tuesday", 1, "15:00 - 16:30", "12:00 - 13:30", "09:00 - 10:30", "Rog", "Kaal"},
		{"Saturday", 5, "09:00 - 10:30", "06:00 - 07:30", "13:30 - 15:00", "Kaal", "Labh"},
		{"Sunday", 6, "16:30 - 18:00", "15:00 - 16:30", "12:00 - 13:30", "Udveg", "Shubh"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := engine.SliceEvents(rise, set, next, tt.weekday)
			assert.Equal(t, tt.rahu, w.RahuKaal.String())
			assert.Equal(t, tt.gulika, w.GulikaKaal.String())
			assert.Equal(t, tt.yamaganda, w.Yamaganda.String())
			assert.Equal(t, "11:36 - 12:24", w.Abhijit.String())

			require.Len(t, w.ChoghadiyaDay, 8)
			require.Len(t, w.ChoghadiyaNight, 8)
			assert.Equal(t, tt.firstDay, w.ChoghadiyaDay[0].Name)
			assert.Equal(t, tt.firstNight, w.ChoghadiyaNight[0].Name)
			assert.Equal(t, set, w.ChoghadiyaNight[0].Start)
			assert.Equal(t, next, w.ChoghadiyaNight[7].End)
			assert.Equal(t, 90*time.Minute, w.ChoghadiyaNight[3].Duration())
		})
	}
}

func TestSliceEvents_UnequalNight(t *testing.T) {
	rise := time.Date(2024, 6, 21, 5, 0, 0, 0, time.UTC)
	set := time.Date(2024, 6, 21, 21, 0, 0, 0, time.UTC)
	next := time.Date(2024, 6, 22, 5, 0, 0, 0, time.UTC)

	w := engine.SliceEvents(rise, set, next, 4)
	assert.Equal(t, 2*time.Hour, w.RahuKaal.Duration())
	assert.Equal(t, time.Hour, w.ChoghadiyaNight[0].Duration())
}
