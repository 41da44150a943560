// Package similarity scores how closely a query resembles a candidate name.
//
// Three complementary strategies are computed on case-folded input, each on a
// 0-100 scale:
//
//   - Ratio: normalized Indel similarity over the whole strings. It is the
//     strictest strategy and doubles as the tie-break signal when two
//     candidates reach the same best score.
//   - PartialRatio: the shorter string aligned against the best matching
//     window of the longer one, so "Kate" fully matches "Kate Feicht".
//   - TokenSetRatio: whitespace tokens compared as sets, so word order and
//     extra middle names do not penalize a match.
//
// Compare returns all three; Scores.Best is what ranking uses.
//
//	s := similarity.Compare("Sloane", "Sloan")
//	s.Best()   // 100: "sloan" is a full window of "sloane"
//	s.Direct() // 90.9
//
// Every function is pure and safe for concurrent use.
package similarity
