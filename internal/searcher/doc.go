// Package searcher ranks athlete name candidates against a free-text query.
//
// Two layers are provided:
//   - Search: a pure function that scores, filters, deduplicates and ranks
//     a candidate list
//   - Searcher: a service that builds candidate lists from the athlete
//     database and the known-athletes registry and caches them per revision
//
// # Basic Usage
//
//	matches, err := searcher.Search("sloan", cands, 10, 45)
//	if errors.Is(err, types.ErrInvalidArgument) {
//	    // limit < 1 or threshold outside [0, 100]
//	}
//
//	for _, m := range matches {
//	    fmt.Printf("%s (%.1f, matched on %q)\n",
//	        m.DisplayName, m.SimilarityScore, m.MatchedOn)
//	}
//
// # Ranking
//
// Each candidate is scored with the best of the direct, partial and token-set
// ratios (see the similarity package). Candidates scoring below the threshold
// are dropped. The threshold is compared against the unrounded score while the
// reported score is rounded to one decimal.
//
// Candidates sharing an athlete ID collapse to one match. The representative
// is the candidate with the higher rounded score, then the higher direct
// ratio, then the one seen first. Its name is reported as MatchedOn so callers
// can tell an alias hit from a display-name hit.
//
// Candidates without an athlete ID (unlinked known athletes) are never
// collapsed, even when their names are identical.
//
// # Caching
//
// The Searcher keys candidate snapshots on the athlete revision, the registry
// revision and whether known athletes were requested:
//
//	s := searcher.NewSearcher(store, registry,
//	    searcher.WithCacheSize(16),
//	    searcher.WithLogger(logger),
//	)
//
//	resp, err := s.SearchAthletes(ctx, searcher.SearchRequest{
//	    Query:        "sloane",
//	    Limit:        10,
//	    Threshold:    45,
//	    IncludeKnown: true,
//	})
//
// Writes to either source bump a revision, so a rebuilt snapshot is picked up
// on the next search. Concurrent misses for the same key share one build.
//
// # Thread Safety
//
// Search is stateless. Searcher is safe for concurrent use.
package searcher
