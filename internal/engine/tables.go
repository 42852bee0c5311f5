package engine

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/tartampluch/go-panchanga/internal/config"
)

//go:embed tables/*.toml
var tablesFS embed.FS

const defaultTablesPath = "tables/traditional-v1.toml"

type varnaTable struct {
	Rank []int `toml:"rank"`
}

type categoryTable struct {
	Categories  []string    `toml:"categories"`
	ByNakshatra []string    `toml:"by_nakshatra"`
	Scores      [][]float64 `toml:"scores"`
}

type taraTable struct {
	AuspiciousRemainders []int `toml:"auspicious_remainders"`
}

type yoniTable struct {
	Categories        []string   `toml:"categories"`
	ByNakshatra       []string   `toml:"by_nakshatra"`
	Same              float64    `toml:"same"`
	Favourable        float64    `toml:"favourable"`
	Neutral           float64    `toml:"neutral"`
	Unfavourable      float64    `toml:"unfavourable"`
	FavourablePairs   [][]string `toml:"favourable_pairs"`
	UnfavourablePairs [][]string `toml:"unfavourable_pairs"`
}

type maitriTable struct {
	SignRulers []string   `toml:"sign_rulers"`
	Same       float64    `toml:"same"`
	Friend     float64    `toml:"friend"`
	Neutral    float64    `toml:"neutral"`
	Enemy      float64    `toml:"enemy"`
	Friends    [][]string `toml:"friends"`
	Enemies    [][]string `toml:"enemies"`
}

type bhakootTable struct {
	Full    []int   `toml:"full"`
	Zero    []int   `toml:"zero"`
	Partial float64 `toml:"partial"`
}

type nadiTable struct {
	Categories []string `toml:"categories"`
}

type mangalTable struct {
	Houses []int `toml:"houses"`
}

// Tier is a lower score bound and its label.
type Tier struct {
	Min   float64 `toml:"min"`
	Label string  `toml:"label"`
}

// Tables is one versioned set of compatibility classification tables.
// It is immutable after loading and safe for concurrent use.
type Tables struct {
	Name    string        `toml:"name"`
	Version int           `toml:"version"`
	Varna   varnaTable    `toml:"varna"`
	Vashya  categoryTable `toml:"vashya"`
	Tara    taraTable     `toml:"tara"`
	Yoni    yoniTable     `toml:"yoni"`
	Maitri  maitriTable   `toml:"maitri"`
	Gana    categoryTable `toml:"gana"`
	Bhakoot bhakootTable  `toml:"bhakoot"`
	Nadi    nadiTable     `toml:"nadi"`
	Mangal  mangalTable   `toml:"mangal"`
	Tiers   []Tier        `toml:"tiers"`

	vashyaIdx [27]int
	yoniIdx   [27]int
	ganaIdx   [27]int
	yoniPair  map[[2]int]float64
	rulers    [12]Body
	relations map[[2]Body]Relationship
}

// DefaultTables returns the embedded traditional tables.
// A malformed embedded asset is a build defect and panics.
var DefaultTables = sync.OnceValue(func() *Tables {
	data, err := tablesFS.ReadFile(defaultTablesPath)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", config.ErrTablesLoad, err))
	}
	t, err := ParseTables(data)
	if err != nil {
		panic(err.Error())
	}
	return t
})

// LoadTables reads a table set from a TOML file on disk.
func LoadTables(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrTablesLoad, err)
	}
	t, err := ParseTables(data)
	if err != nil {
		return nil, err
	}
	slog.Info(config.MsgTablesLoaded,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyFile, path,
		config.LogKeyTables, t.ID(),
	)
	return t, nil
}

// ParseTables decodes and cross-checks a TOML table set.
func ParseTables(data []byte) (*Tables, error) {
	var t Tables
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrTablesLoad, err)
	}
	if err := t.index(); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrTablesInvalid, err)
	}
	return &t, nil
}

// ID names the table set, e.g. "traditional-v1".
func (t *Tables) ID() string {
	return fmt.Sprintf("%s-v%d", t.Name, t.Version)
}

// index validates the decoded tables and builds the lookup structures.
func (t *Tables) index() error {
	if len(t.Varna.Rank) != 12 {
		return fmt.Errorf("varna.rank needs 12 entries, got %d", len(t.Varna.Rank))
	}
	if err := indexCategories("vashya", t.Vashya.Categories, t.Vashya.ByNakshatra, &t.vashyaIdx); err != nil {
		return err
	}
	if err := checkSymmetric("vashya", t.Vashya.Scores, len(t.Vashya.Categories)); err != nil {
		return err
	}
	if err := indexCategories("gana", t.Gana.Categories, t.Gana.ByNakshatra, &t.ganaIdx); err != nil {
		return err
	}
	if err := checkSymmetric("gana", t.Gana.Scores, len(t.Gana.Categories)); err != nil {
		return err
	}
	if err := indexCategories("yoni", t.Yoni.Categories, t.Yoni.ByNakshatra, &t.yoniIdx); err != nil {
		return err
	}
	t.yoniPair = make(map[[2]int]float64)
	for _, set := range []struct {
		pairs [][]string
		score float64
	}{
		{t.Yoni.FavourablePairs, t.Yoni.Favourable},
		{t.Yoni.UnfavourablePairs, t.Yoni.Unfavourable},
	} {
		for _, p := range set.pairs {
			if len(p) != 2 {
				return fmt.Errorf("yoni pair %v must have 2 entries", p)
			}
			a, b := slices.Index(t.Yoni.Categories, p[0]), slices.Index(t.Yoni.Categories, p[1])
			if a < 0 || b < 0 {
				return fmt.Errorf("yoni pair %v references an unknown category", p)
			}
			t.yoniPair[[2]int{a, b}] = set.score
			t.yoniPair[[2]int{b, a}] = set.score
		}
	}

	if len(t.Maitri.SignRulers) != 12 {
		return fmt.Errorf("maitri.sign_rulers needs 12 entries, got %d", len(t.Maitri.SignRulers))
	}
	for i, name := range t.Maitri.SignRulers {
		b, ok := BodyByName(name)
		if !ok {
			return fmt.Errorf("maitri.sign_rulers: unknown body %q", name)
		}
		t.rulers[i] = b
	}
	t.relations = make(map[[2]Body]Relationship)
	for _, set := range []struct {
		pairs [][]string
		rel   Relationship
	}{
		{t.Maitri.Friends, RelFriend},
		{t.Maitri.Enemies, RelEnemy},
	} {
		for _, p := range set.pairs {
			if len(p) != 2 {
				return fmt.Errorf("maitri pair %v must have 2 entries", p)
			}
			a, okA := BodyByName(p[0])
			b, okB := BodyByName(p[1])
			if !okA || !okB {
				return fmt.Errorf("maitri pair %v references an unknown body", p)
			}
			t.relations[[2]Body{a, b}] = set.rel
			t.relations[[2]Body{b, a}] = set.rel
		}
	}

	if len(t.Nadi.Categories) == 0 {
		return errors.New("nadi.categories is empty")
	}
	if len(t.Tiers) == 0 {
		return errors.New("tiers is empty")
	}
	slices.SortStableFunc(t.Tiers, func(a, b Tier) int {
		switch {
		case a.Min > b.Min:
			return -1
		case a.Min < b.Min:
			return 1
		}
		return 0
	})
	if t.Tiers[len(t.Tiers)-1].Min > 0 {
		return errors.New("lowest tier must start at 0")
	}
	return nil
}

func indexCategories(name string, categories, byNakshatra []string, dst *[27]int) error {
	if len(byNakshatra) != 27 {
		return fmt.Errorf("%s.by_nakshatra needs 27 entries, got %d", name, len(byNakshatra))
	}
	for i, c := range byNakshatra {
		idx := slices.Index(categories, c)
		if idx < 0 {
			return fmt.Errorf("%s.by_nakshatra[%d]: unknown category %q", name, i, c)
		}
		dst[i] = idx
	}
	return nil
}

func checkSymmetric(name string, m [][]float64, n int) error {
	if len(m) != n {
		return fmt.Errorf("%s.scores needs %d rows, got %d", name, n, len(m))
	}
	for i := range m {
		if len(m[i]) != n {
			return fmt.Errorf("%s.scores row %d needs %d columns", name, i, n)
		}
		for j := range i {
			if m[i][j] != m[j][i] {
				return fmt.Errorf("%s.scores is not symmetric at (%d,%d)", name, i, j)
			}
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Lookups (total over validated index ranges)
// -----------------------------------------------------------------------------

// VarnaRank returns the rank of a Moon sign.
func (t *Tables) VarnaRank(sign int) int { return t.Varna.Rank[sign] }

// VashyaOf returns the vashya category of a nakshatra.
func (t *Tables) VashyaOf(nak int) string { return t.Vashya.Categories[t.vashyaIdx[nak]] }

// YoniOf returns the yoni category of a nakshatra.
func (t *Tables) YoniOf(nak int) string { return t.Yoni.Categories[t.yoniIdx[nak]] }

// GanaOf returns the gana category of a nakshatra.
func (t *Tables) GanaOf(nak int) string { return t.Gana.Categories[t.ganaIdx[nak]] }

// NadiOf returns the nadi category, assigned cyclically.
func (t *Tables) NadiOf(nak int) string { return t.Nadi.Categories[nak%len(t.Nadi.Categories)] }

// SignRuler returns the lord of a sign.
func (t *Tables) SignRuler(sign int) Body { return t.rulers[sign] }

// Relationship returns the symmetric natural relationship between two bodies.
func (t *Tables) Relationship(a, b Body) Relationship {
	if a == b {
		return RelSelf
	}
	if r, ok := t.relations[[2]Body{a, b}]; ok {
		return r
	}
	return RelNeutral
}

// TierFor returns the label of the highest tier whose lower bound is reached.
func (t *Tables) TierFor(total float64) string {
	for _, tier := range t.Tiers {
		if total >= tier.Min {
			return tier.Label
		}
	}
	return t.Tiers[len(t.Tiers)-1].Label
}
