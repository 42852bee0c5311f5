package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloorModAndClamp(t *testing.T) {
	assert.Equal(t, 6, floorMod(-1, 7))
	assert.Equal(t, 0, floorMod(14, 7))
	assert.Equal(t, 11, floorMod(-13, 12))

	assert.Equal(t, 26, clampIndex(27, 27), "upper edge drift")
	assert.Equal(t, 0, clampIndex(-1, 27))
	assert.Equal(t, 5, clampIndex(5, 27))
}

// TestKaranaScheme_Names pins both schemes on the boundaries of the movable cycle and the fixed tail.
func TestKaranaScheme_Names(t *testing.T) {
	tests := []struct {
		k           int
		source      string
		traditional string
	}{
		{0, "Vishti (Bhadra)", "Kimstughna"},
		{1, "Bava", "Bava"},
		{7, "Vishti (Bhadra)", "Vishti (Bhadra)"},
		{8, "Bava", "Bava"},
		{55, "Vanija", "Vanija"},
		{56, "Shakuni", "Vishti (Bhadra)"},
		{57, "Chatushpada", "Shakuni"},
		{58, "Nagava", "Chatushpada"},
		{59, "Kimstughna", "Nagava"},
		{60, "Vishti (Bhadra)", "Kimstughna"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.source, KaranaSchemeSource.Name(tt.k), "source k=%d", tt.k)
		assert.Equal(t, tt.traditional, KaranaSchemeTraditional.Name(tt.k), "traditional k=%d", tt.k)
	}
}

func TestKaranaScheme_FixedTailNeverMovable(t *testing.T) {
	for k := 56; k < 60; k++ {
		name := KaranaSchemeSource.Name(k)
		assert.Equal(t, FixedKaranas[k-56], name)
		assert.NotContains(t, MovableKaranas[:], name)
	}
	for k := range 56 {
		assert.Contains(t, MovableKaranas[:], KaranaSchemeSource.Name(k))
	}
}

func TestParseKaranaScheme(t *testing.T) {
	s, err := ParseKaranaScheme("")
	require.NoError(t, err)
	assert.Equal(t, KaranaSchemeSource, s)

	s, err = ParseKaranaScheme("traditional")
	require.NoError(t, err)
	assert.Equal(t, KaranaSchemeTraditional, s)
	assert.Equal(t, "traditional", s.String())

	_, err = ParseKaranaScheme("lunar")
	assert.Error(t, err)
}

func TestParseHouseSystem(t *testing.T) {
	h, err := ParseHouseSystem("")
	require.NoError(t, err)
	assert.Equal(t, WholeSign, h)

	h, err = ParseHouseSystem("equal")
	require.NoError(t, err)
	assert.Equal(t, Equal, h)
	assert.Equal(t, "equal", h.String())
	assert.Equal(t, "whole-sign", WholeSign.String())

	_, err = ParseHouseSystem("placidus")
	assert.Error(t, err)
}

func TestMatcher_Tara(t *testing.T) {
	m := NewMatcher(nil)
	tests := []struct {
		name       string
		nakA, nakB int
		want       float64
	}{
		// Same nakshatra: count 1 both ways, remainder 1, inauspicious.
		{"Same", 0, 0, 0},
		// A->B count 2 (rem 2, good); B->A count 27 (rem 0, good).
		{"Adjacent", 0, 1, 3},
		// A->B count 3 (rem 3, bad); B->A count 26 (rem 8, good).
		{"OneWay", 0, 2, 1.5},
		// A->B count 4 (rem 4, good); B->A count 25 (rem 7, bad).
		{"OtherWay", 0, 3, 1.5},
		// A->B count 6 (rem 6, good); B->A count 23 (rem 5, bad).
		{"Wrap", 25, 3, 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.tara(tt.nakA, tt.nakB))
		})
	}
}

func TestMatcher_Yoni(t *testing.T) {
	m := NewMatcher(nil)
	assert.Equal(t, 4.0, m.yoni(0, 14), "Ashwini and Swati share Ashva")
	assert.Equal(t, 3.0, m.yoni(0, 1), "Ashva/Gaja is favourable")
	assert.Equal(t, 3.0, m.yoni(1, 0), "lookup is symmetric")
	assert.Equal(t, 0.0, m.yoni(0, 11), "Ashva/Vrisha2 is unfavourable")
	assert.Equal(t, 2.0, m.yoni(0, 5), "unlisted pairs are neutral")
}

func TestMatcher_GrahaMaitri(t *testing.T) {
	m := NewMatcher(nil)
	assert.Equal(t, 5.0, m.grahaMaitri(0, 7), "Aries and Scorpio share Mars")
	assert.Equal(t, 5.0, m.grahaMaitri(4, 3), "Sun and Moon are friends")
	assert.Equal(t, 0.0, m.grahaMaitri(4, 9), "Sun and Saturn are enemies")
	assert.Equal(t, 2.0, m.grahaMaitri(0, 1), "Mars and Venus are unlisted")
}

func TestGraded(t *testing.T) {
	k := KootaScore{Name: KootaYoni, Max: 4}

	k.Score = 1
	f := graded(k, 1, NatureWarning, "weak", "partial", "full")
	assert.Equal(t, NatureWarning, f.Nature)
	assert.Equal(t, "weak (score 1/4).", f.Description)

	k.Score = 2
	assert.Equal(t, NatureNeutral, graded(k, 1, NatureWarning, "w", "p", "f").Nature)

	k.Score = 4
	assert.Equal(t, NaturePositive, graded(k, 1, NatureWarning, "w", "p", "f").Nature)
}

func TestCivilNow(t *testing.T) {
	c := FixedClock(time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC))
	got := civilNow(c, 5.5)
	assert.Equal(t, CivilDateTime{Year: 2024, Month: 3, Day: 11, Hour: 1, Minute: 30}, got)
}

func TestBody_TextRoundTrip(t *testing.T) {
	for _, b := range AllBodies {
		text, err := b.MarshalText()
		require.NoError(t, err)
		var got Body
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, b, got)
	}
	var b Body
	assert.Error(t, b.UnmarshalText([]byte("Pluto")))
}
