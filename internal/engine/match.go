package engine

import (
	"fmt"
	"slices"
)

// Koota names, in report order.
const (
	KootaVarna       = "Varna"
	KootaVashya      = "Vashya"
	KootaTara        = "Tara"
	KootaYoni        = "Yoni"
	KootaGrahaMaitri = "Graha Maitri"
	KootaGana        = "Gana"
	KootaBhakoot     = "Bhakoot"
	KootaNadi        = "Nadi"
)

// TotalPossible is the sum of the eight koota maxima.
const TotalPossible = 36.0

var kootaMax = map[string]float64{
	KootaVarna: 1, KootaVashya: 2, KootaTara: 3, KootaYoni: 4,
	KootaGrahaMaitri: 5, KootaGana: 6, KootaBhakoot: 7, KootaNadi: 8,
}

var kootaOrder = []string{
	KootaVarna, KootaVashya, KootaTara, KootaYoni,
	KootaGrahaMaitri, KootaGana, KootaBhakoot, KootaNadi,
}

// Nature tags an auxiliary finding.
type Nature string

const (
	NaturePositive Nature = "Positive"
	NatureNeutral  Nature = "Neutral"
	NatureCaution  Nature = "Caution"
	NatureWarning  Nature = "Warning"
	NatureAdvisory Nature = "Advisory"
)

// Person is the chart input of one side of a match: sidereal longitudes.
type Person struct {
	MoonLon float64 `json:"moon_lon"`
	MarsLon float64 `json:"mars_lon"`
	AscLon  float64 `json:"asc_lon"`
}

// MoonProfile is the derived Moon placement of one person.
type MoonProfile struct {
	Sign      int     `json:"sign"`
	SignName  string  `json:"sign_name"`
	Nakshatra int     `json:"nakshatra"`
	NakName   string  `json:"nakshatra_name"`
	Pada      int     `json:"pada"`
	MoonLon   float64 `json:"moon_lon"`
	AscLon    float64 `json:"asc_lon"`
	MarsLon   float64 `json:"mars_lon"`
	MarsHouse int     `json:"mars_house"`
}

// KootaScore is one factor of the report.
type KootaScore struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
	Max   float64 `json:"max"`
}

// Finding is an auxiliary dosha or note.
type Finding struct {
	Name        string `json:"name"`
	Nature      Nature `json:"nature"`
	Description string `json:"description"`
}

// CompatibilityReport is the immutable result of matching two persons.
type CompatibilityReport struct {
	A             MoonProfile  `json:"person_a"`
	B             MoonProfile  `json:"person_b"`
	Kootas        []KootaScore `json:"kootas"`
	Total         float64      `json:"total"`
	TotalPossible float64      `json:"total_possible"`
	Tier          string       `json:"tier"`
	Findings      []Finding    `json:"findings"`
	Tables        string       `json:"tables"`
}

// Koota returns the named factor and whether it exists.
func (r *CompatibilityReport) Koota(name string) (KootaScore, bool) {
	for _, k := range r.Kootas {
		if k.Name == name {
			return k, true
		}
	}
	return KootaScore{}, false
}

// Matcher scores the Ashtakoota compatibility of two persons.
type Matcher struct {
	Tables *Tables
}

// NewMatcher creates a Matcher over t, or over the default tables when t is nil.
func NewMatcher(t *Tables) *Matcher {
	if t == nil {
		t = DefaultTables()
	}
	return &Matcher{Tables: t}
}

// MatchCompatibility builds the report for a pair. It is a pure function of its inputs.
func (m *Matcher) MatchCompatibility(a, b Person) *CompatibilityReport {
	t := m.Tables
	pa, pb := profile(a), profile(b)

	raw := map[string]float64{
		KootaVarna:       m.varna(pa.Sign, pb.Sign),
		KootaVashya:      t.Vashya.Scores[t.vashyaIdx[pa.Nakshatra]][t.vashyaIdx[pb.Nakshatra]],
		KootaTara:        m.tara(pa.Nakshatra, pb.Nakshatra),
		KootaYoni:        m.yoni(pa.Nakshatra, pb.Nakshatra),
		KootaGrahaMaitri: m.grahaMaitri(pa.Sign, pb.Sign),
		KootaGana:        t.Gana.Scores[t.ganaIdx[pa.Nakshatra]][t.ganaIdx[pb.Nakshatra]],
		KootaBhakoot:     m.bhakoot(pa.Sign, pb.Sign),
		KootaNadi:        m.nadi(pa.Nakshatra, pb.Nakshatra),
	}

	report := &CompatibilityReport{
		A:             pa,
		B:             pb,
		TotalPossible: TotalPossible,
		Tables:        t.ID(),
	}
	for _, name := range kootaOrder {
		mx := kootaMax[name]
		score := min(max(raw[name], 0), mx)
		report.Kootas = append(report.Kootas, KootaScore{Name: name, Score: score, Max: mx})
		report.Total += score
	}
	report.Tier = t.TierFor(report.Total)
	report.Findings = m.findings(report)
	return report
}

func profile(p Person) MoonProfile {
	moon := PositionAt(Moon, p.MoonLon)
	return MoonProfile{
		Sign:      moon.Sign,
		SignName:  moon.SignName(),
		Nakshatra: moon.Nakshatra,
		NakName:   moon.NakshatraName(),
		Pada:      moon.Pada,
		MoonLon:   moon.Longitude,
		AscLon:    Normalize(p.AscLon),
		MarsLon:   Normalize(p.MarsLon),
		MarsHouse: HouseOf(SignIndex(p.MarsLon), SignIndex(p.AscLon)),
	}
}

func (m *Matcher) varna(signA, signB int) float64 {
	if m.Tables.VarnaRank(signA) >= m.Tables.VarnaRank(signB) {
		return 1
	}
	return 0
}

// tara counts the nakshatra distance in both directions, reduced mod 9.
func (m *Matcher) tara(nakA, nakB int) float64 {
	ausp := func(from, to int) bool {
		count := floorMod(to-from, 27) + 1
		return slices.Contains(m.Tables.Tara.AuspiciousRemainders, count%9)
	}
	ab, ba := ausp(nakA, nakB), ausp(nakB, nakA)
	switch {
	case ab && ba:
		return 3
	case ab || ba:
		return 1.5
	default:
		return 0
	}
}

func (m *Matcher) yoni(nakA, nakB int) float64 {
	t := m.Tables
	a, b := t.yoniIdx[nakA], t.yoniIdx[nakB]
	if a == b {
		return t.Yoni.Same
	}
	if s, ok := t.yoniPair[[2]int{a, b}]; ok {
		return s
	}
	return t.Yoni.Neutral
}

func (m *Matcher) grahaMaitri(signA, signB int) float64 {
	t := m.Tables
	switch t.Relationship(t.SignRuler(signA), t.SignRuler(signB)) {
	case RelSelf:
		return t.Maitri.Same
	case RelFriend:
		return t.Maitri.Friend
	case RelEnemy:
		return t.Maitri.Enemy
	default:
		return t.Maitri.Neutral
	}
}

// BhakootDistance is the inclusive sign count from A to B, in [1, 12].
func BhakootDistance(signA, signB int) int {
	return floorMod(signB-signA, 12) + 1
}

func (m *Matcher) bhakoot(signA, signB int) float64 {
	d := BhakootDistance(signA, signB)
	switch {
	case slices.Contains(m.Tables.Bhakoot.Full, d):
		return kootaMax[KootaBhakoot]
	case slices.Contains(m.Tables.Bhakoot.Zero, d):
		return 0
	default:
		return m.Tables.Bhakoot.Partial
	}
}

func (m *Matcher) nadi(nakA, nakB int) float64 {
	if m.Tables.NadiOf(nakA) == m.Tables.NadiOf(nakB) {
		return 0
	}
	return kootaMax[KootaNadi]
}

// findings lists the auxiliary notes, with the summary always first.
func (m *Matcher) findings(r *CompatibilityReport) []Finding {
	score := func(name string) KootaScore {
		k, _ := r.Koota(name)
		return k
	}
	var out []Finding

	for _, side := range []struct {
		tag, who string
		house    int
	}{
		{"A", "Person A", r.A.MarsHouse},
		{"B", "Person B", r.B.MarsHouse},
	} {
		name := fmt.Sprintf("Mangal Dosha (%s)", side.tag)
		if slices.Contains(m.Tables.Mangal.Houses, side.house) {
			out = append(out, Finding{name, NatureWarning, fmt.Sprintf(
				"%s is Manglik: Mars is in house %d. Friction is traditionally expected unless both partners are Manglik.",
				side.who, side.house)})
		} else {
			out = append(out, Finding{name, NatureNeutral, fmt.Sprintf(
				"%s is not Manglik (Mars in house %d).", side.who, side.house)})
		}
	}

	nadi := score(KootaNadi)
	if nadi.Score == 0 {
		out = append(out, Finding{"Nadi Dosha", NatureWarning,
			"Nadi Dosha present: both Moons share the same nadi. Usually considered serious."})
	} else {
		out = append(out, Finding{"Nadi Check", NaturePositive,
			fmt.Sprintf("Nadi different (score %s). No Nadi Dosha.", fraction(nadi))})
	}

	bhakoot := score(KootaBhakoot)
	if bhakoot.Score == 0 {
		out = append(out, Finding{"Bhakoot Dosha", NatureWarning,
			"Bhakoot Dosha present: the Moon signs sit in an inauspicious distance."})
	} else {
		out = append(out, Finding{"Bhakoot Check", NatureNeutral,
			fmt.Sprintf("Bhakoot score: %s.", fraction(bhakoot))})
	}

	varna := score(KootaVarna)
	if varna.Score < varna.Max {
		out = append(out, Finding{"Varna Compatibility", NatureCaution,
			fmt.Sprintf("Varna mismatch (score %s): differing temperament or life roles.", fraction(varna))})
	} else {
		out = append(out, Finding{"Varna Compatibility", NaturePositive, "Varna compatible."})
	}

	out = append(out, graded(score(KootaVashya), 0.5, NatureCaution,
		"Vashya compatibility is weak: mutual influence may be a challenge",
		"Vashya partially compatible",
		"Vashya compatibility strong"))
	out = append(out, graded(score(KootaYoni), 1, NatureWarning,
		"Yoni is incompatible: temperamental compatibility may be poor",
		"Yoni is partially compatible",
		"Yoni compatibility is good"))
	out = append(out, graded(score(KootaGrahaMaitri), 1, NatureCaution,
		"Graha Maitri is weak: the Moon sign lords are unfriendly",
		"Graha Maitri is moderate",
		"Graha Maitri strong: the Moon sign lords are friendly"))

	tara := score(KootaTara)
	if tara.Score == 0 {
		out = append(out, Finding{"Tara", NatureWarning,
			"Tara gives 0 points: the natal nakshatras count to inauspicious remainders both ways."})
	} else {
		out = append(out, Finding{"Tara", NatureNeutral, fmt.Sprintf("Tara score: %s.", fraction(tara))})
	}

	ga, gb := m.Tables.GanaOf(r.A.Nakshatra), m.Tables.GanaOf(r.B.Nakshatra)
	if ga == gb {
		out = append(out, Finding{"Gana", NaturePositive,
			fmt.Sprintf("Both belong to %s gana: temperamentally aligned.", ga)})
	} else {
		out = append(out, Finding{"Gana", NatureNeutral,
			fmt.Sprintf("Different ganas: %s vs %s (score %s).", ga, gb, fraction(score(KootaGana)))})
	}

	issues := 0
	for _, f := range out {
		if f.Nature == NatureWarning || f.Nature == NatureCaution {
			issues++
		}
	}
	summary := Finding{"Summary", NaturePositive,
		"No major doshas detected in the Ashtakoota comparison."}
	if issues > 0 {
		summary = Finding{"Summary", NatureAdvisory,
			fmt.Sprintf("%d potential issue(s) detected. A detailed chart-level analysis is recommended.", issues)}
	}
	return append([]Finding{summary}, out...)
}

// graded describes a koota with a weak/partial/full reading.
func graded(k KootaScore, weakAt float64, weakNature Nature, weak, partial, full string) Finding {
	nature, text := NaturePositive, full
	switch {
	case k.Score <= weakAt:
		nature, text = weakNature, weak
	case k.Score < k.Max:
		nature, text = NatureNeutral, partial
	}
	return Finding{Name: k.Name, Nature: nature, Description: fmt.Sprintf("%s (score %s).", text, fraction(k))}
}

func fraction(k KootaScore) string {
	return fmt.Sprintf("%g/%g", k.Score, k.Max)
}
