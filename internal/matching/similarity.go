package matching

import (
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultDateWindow is the number of days around the origin date that still
// earns a date boost.
const DefaultDateWindow = 3

// PartySimilarity scores every party against text on a 0..10 scale and keeps
// those scoring at least threshold.
func PartySimilarity(text string, parties []Party, threshold int) map[uuid.UUID]int {
	scores := make(map[uuid.UUID]int)

	hint := fold(text)
	if hint == "" {
		return scores
	}

	for _, p := range parties {
		ratio := nameRatio(hint, fold(p.Name))
		if p.TradeName != "" {
			ratio = math.Max(ratio, nameRatio(hint, fold(p.TradeName)))
		}

		score := int(math.Round(ratio * 10))
		if score >= threshold {
			scores[p.ID] = score
		}
	}

	return scores
}

// BoostByDate adds 2 when candidate falls on the reference day and 1 when it
// is within window days of it.
func BoostByDate(candidate, reference time.Time, base, window int) int {
	if candidate.IsZero() || reference.IsZero() {
		return base
	}

	days := daysBetween(candidate, reference)

	switch {
	case days == 0:
		return base + 2
	case days <= window:
		return base + 1
	}

	return base
}

// BoostByParty adds 2 when the party scored at least acceptable and 1 when it
// scored at all.
func BoostByParty(party *uuid.UUID, scores map[uuid.UUID]int, base, acceptable int) int {
	if party == nil {
		return base
	}

	score, ok := scores[*party]
	if !ok {
		return base
	}

	if score >= acceptable {
		return base + 2
	}

	return base + 1
}

func daysBetween(a, b time.Time) int {
	d := day(a).Sub(day(b))
	if d < 0 {
		d = -d
	}

	return int(d.Hours() / 24)
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	return day(a).Equal(day(b))
}

var folder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold lowercases s, strips accents and collapses whitespace.
func fold(s string) string {
	out, _, err := transform.String(folder, s)
	if err != nil {
		out = s
	}

	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// nameRatio compares name with the whole hint and with every run of hint
// words as long as name, returning the best 1 - distance/length ratio.
func nameRatio(hint, name string) float64 {
	if name == "" {
		return 0
	}

	best := ratio(hint, name)

	words := strings.Fields(hint)
	size := len(strings.Fields(name))

	for i := 0; i+size <= len(words); i++ {
		best = math.Max(best, ratio(strings.Join(words[i:i+size], " "), name))
	}

	return best
}

func ratio(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 0
	}

	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}
