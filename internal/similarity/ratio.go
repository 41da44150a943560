package similarity

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// Ratio returns the normalized Indel similarity of a and b:
// 100 * 2*LCS / (len(a)+len(b)), measured in runes. Identical strings score
// exactly 100. Comparison is case-sensitive; fold first if needed.
func Ratio(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la == 0 && lb == 0 {
		return 100
	}
	if la == 0 || lb == 0 {
		return 0
	}
	if a == b {
		return 100
	}
	lcs := edlib.LCS(a, b)
	return clamp(100 * float64(2*lcs) / float64(la+lb))
}

// PartialRatio returns the best Ratio between the shorter string and any
// window of the longer one. Windows include the partial ones hanging off
// either end of the longer string, so a fragment at the edge still scores.
func PartialRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return Ratio(a, b)
	}
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	best := partialWindows(ra, rb)
	if len(ra) == len(rb) && best < 100 {
		if other := partialWindows(rb, ra); other > best {
			best = other
		}
	}
	return best
}

// partialWindows slides needle across hay. len(needle) <= len(hay).
func partialWindows(needle, hay []rune) float64 {
	m, n := len(needle), len(hay)
	s := string(needle)
	best := 0.0

	consider := func(window []rune) bool {
		if r := Ratio(s, string(window)); r > best {
			best = r
		}
		return best >= 100
	}

	// Leading partial windows
	for i := 1; i < m; i++ {
		if consider(hay[:i]) {
			return best
		}
	}
	// Full windows
	for i := 0; i+m <= n; i++ {
		if consider(hay[i : i+m]) {
			return best
		}
	}
	// Trailing partial windows
	for i := n - m + 1; i < n; i++ {
		if consider(hay[i:]) {
			return best
		}
	}
	return best
}

// TokenSetRatio compares the whitespace-separated token sets of a and b.
// The shared tokens (sorted) are compared against shared+remaining tokens of
// each side, and the two combined forms against each other; the best ratio
// wins. A side with no tokens scores 0.
func TokenSetRatio(a, b string) float64 {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	var sect, onlyA, onlyB []string
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			sect = append(sect, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range tb {
		if _, ok := ta[tok]; !ok {
			onlyB = append(onlyB, tok)
		}
	}
	sort.Strings(sect)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	base := strings.Join(sect, " ")
	combinedA := joinNonEmpty(base, strings.Join(onlyA, " "))
	combinedB := joinNonEmpty(base, strings.Join(onlyB, " "))

	best := Ratio(combinedA, combinedB)
	if base != "" {
		best = max(best, Ratio(base, combinedA), Ratio(base, combinedB))
	}
	return clamp(best)
}

// tokenSet splits s on Unicode whitespace and drops duplicate tokens
func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
