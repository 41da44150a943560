package searcher

import (
	"fmt"
	"math"
	"sort"

	"github.com/dshills/athletematch-mcp/internal/similarity"
	"github.com/dshills/athletematch-mcp/pkg/types"
)

// scoredMatch pairs a match with the direct ratio used to break score ties
type scoredMatch struct {
	match  types.Match
	direct float64
}

// Search scores every candidate against query, drops those below threshold,
// keeps the best match per athlete ID and returns at most limit matches sorted
// by score descending. Unlinked candidates (nil ID) are never collapsed.
//
// limit must be >= 1 and threshold within [0, 100]; anything else returns an
// error wrapping types.ErrInvalidArgument.
func Search(query string, cands []types.Candidate, limit int, threshold float64) ([]types.Match, error) {
	if err := validateArgs(limit, threshold); err != nil {
		return nil, err
	}

	folded := similarity.Fold(query)
	linked := make([]scoredMatch, 0, len(cands))
	var unlinked []types.Match

	for i := range cands {
		c := &cands[i]
		scores := similarity.CompareFolded(folded, similarity.Fold(c.Name))

		best := scores.Best()
		if best < threshold {
			continue
		}

		m := types.Match{
			DisplayName:     c.DisplayName,
			SimilarityScore: roundScore(best),
			MatchedOn:       c.Name,
			Source:          c.Source,
			AppearanceCount: c.AppearanceCount,
		}
		if c.AthleteID == nil {
			unlinked = append(unlinked, m)
			continue
		}
		m.AthleteID = types.ID(*c.AthleteID)
		linked = append(linked, scoredMatch{match: m, direct: scores.Direct()})
	}

	results := reduceByAthlete(linked)
	results = append(results, unlinked...)

	// Stable so equal scores keep the per-athlete-then-unlinked order
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].SimilarityScore > results[j].SimilarityScore
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// reduceByAthlete folds matches into one per athlete ID. Winners are returned
// in the order their athlete was first seen.
func reduceByAthlete(scored []scoredMatch) []types.Match {
	index := make(map[int64]int, len(scored))
	winners := make([]scoredMatch, 0, len(scored))

	for _, sm := range scored {
		id := *sm.match.AthleteID
		i, seen := index[id]
		if !seen {
			index[id] = len(winners)
			winners = append(winners, sm)
			continue
		}
		if outranks(sm, winners[i]) {
			winners[i] = sm
		}
	}

	out := make([]types.Match, len(winners), len(winners)+len(scored)-len(winners))
	for i, w := range winners {
		out[i] = w.match
	}
	return out
}

// outranks reports whether a should replace b as an athlete's representative:
// higher score first, then higher direct ratio. Full ties keep b, the earlier one.
func outranks(a, b scoredMatch) bool {
	if a.match.SimilarityScore != b.match.SimilarityScore {
		return a.match.SimilarityScore > b.match.SimilarityScore
	}
	return a.direct > b.direct
}

// validateArgs rejects caller misuse instead of silently clamping
func validateArgs(limit int, threshold float64) error {
	if limit < 1 {
		return fmt.Errorf("%w: limit must be >= 1, got %d", types.ErrInvalidArgument, limit)
	}
	if math.IsNaN(threshold) || threshold < 0 || threshold > 100 {
		return fmt.Errorf("%w: threshold must be between 0 and 100, got %v", types.ErrInvalidArgument, threshold)
	}
	return nil
}

// roundScore rounds to one decimal place
func roundScore(v float64) float64 {
	return math.Round(v*10) / 10
}
