package searcher

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/dshills/athletematch-mcp/internal/candidates"
	"github.com/dshills/athletematch-mcp/pkg/types"
)

// DefaultCacheSize is the number of candidate snapshots kept in memory
const DefaultCacheSize = 16

// AthleteSource supplies database athletes and a revision that changes
// whenever an athlete or alias is written.
type AthleteSource interface {
	ListAthletes(ctx context.Context) ([]types.Athlete, error)
	Revision(ctx context.Context) (int64, error)
}

// KnownSource supplies known-athlete records and their revision
type KnownSource interface {
	Records() []types.KnownAthlete
	Revision() int64
}

// SearchRequest contains parameters for a search operation
type SearchRequest struct {
	Query        string
	Limit        int
	Threshold    float64
	IncludeKnown bool
}

// SearchResponse contains search results and metadata
type SearchResponse struct {
	Matches        []types.Match
	TotalMatches   int
	CandidateCount int
	Duration       time.Duration
	CacheHit       bool
}

// snapshotKey identifies one candidate list. Any write to either source
// produces a new key, so stale entries simply age out of the LRU.
type snapshotKey struct {
	athletes     int64
	known        int64
	includeKnown bool
}

func (k snapshotKey) String() string {
	return fmt.Sprintf("%d:%d:%t", k.athletes, k.known, k.includeKnown)
}

// Searcher builds candidate snapshots from its sources and ranks queries against them
type Searcher struct {
	athletes  AthleteSource
	known     KnownSource
	logger    *log.Logger
	cacheSize int
	cache     *lru.Cache[snapshotKey, []types.Candidate]
	group     singleflight.Group
}

// Option configures a Searcher
type Option func(*Searcher)

// WithLogger sets the logger used for cache diagnostics
func WithLogger(logger *log.Logger) Option {
	return func(s *Searcher) {
		s.logger = logger
	}
}

// WithCacheSize sets the number of candidate snapshots kept. Values < 1 use DefaultCacheSize.
func WithCacheSize(n int) Option {
	return func(s *Searcher) {
		if n > 0 {
			s.cacheSize = n
		}
	}
}

// NewSearcher creates a new Searcher. known may be nil when no registry is configured.
func NewSearcher(athletes AthleteSource, known KnownSource, opts ...Option) *Searcher {
	s := &Searcher{
		athletes:  athletes,
		known:     known,
		logger:    log.Default(),
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(s)
	}

	cache, err := lru.New[snapshotKey, []types.Candidate](s.cacheSize)
	if err != nil {
		// This should never happen with valid size parameter
		panic(fmt.Sprintf("failed to create LRU cache: %v", err))
	}
	s.cache = cache

	return s
}

// SearchAthletes ranks the current candidates against req.Query
func (s *Searcher) SearchAthletes(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	startTime := time.Now()

	if req.Query == "" {
		return nil, fmt.Errorf("%w: query cannot be empty", types.ErrInvalidArgument)
	}
	if err := validateArgs(req.Limit, req.Threshold); err != nil {
		return nil, err
	}

	cands, hit, err := s.candidates(ctx, req.IncludeKnown)
	if err != nil {
		return nil, err
	}

	matches, err := Search(req.Query, cands, req.Limit, req.Threshold)
	if err != nil {
		return nil, err
	}
	matches = s.dropInvalid(matches)

	return &SearchResponse{
		Matches:        matches,
		TotalMatches:   len(matches),
		CandidateCount: len(cands),
		Duration:       time.Since(startTime),
		CacheHit:       hit,
	}, nil
}

// dropInvalid removes matches that cannot be reported, such as a nameless
// athlete surfacing at threshold 0
func (s *Searcher) dropInvalid(matches []types.Match) []types.Match {
	valid := matches[:0]
	for _, m := range matches {
		if err := m.Validate(); err != nil {
			s.logger.Warn("dropping invalid match", "athlete_id", m.AthleteID, "matched_on", m.MatchedOn, "error", err)
			continue
		}
		valid = append(valid, m)
	}
	return valid
}

// InvalidateCache drops every cached candidate snapshot
func (s *Searcher) InvalidateCache() {
	s.cache.Purge()
}

// candidates returns the snapshot for the sources' current revisions,
// building it at most once per key even under concurrent misses.
func (s *Searcher) candidates(ctx context.Context, includeKnown bool) ([]types.Candidate, bool, error) {
	rev, err := s.athletes.Revision(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read athlete revision: %w", err)
	}

	key := snapshotKey{athletes: rev, includeKnown: includeKnown && s.known != nil}
	if key.includeKnown {
		key.known = s.known.Revision()
	}

	if cands, ok := s.cache.Get(key); ok {
		return cands, true, nil
	}

	// Callers joined on the same key share this build, so one caller's
	// cancellation must not fail the others
	buildCtx := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(key.String(), func() (interface{}, error) {
		athletes, err := s.athletes.ListAthletes(buildCtx)
		if err != nil {
			return nil, fmt.Errorf("failed to list athletes: %w", err)
		}

		var known []types.KnownAthlete
		if key.includeKnown {
			known = s.known.Records()
		}

		cands := candidates.Build(athletes, known)
		s.cache.Add(key, cands)
		s.logger.Debug("built candidate snapshot",
			"athletes", len(athletes), "known", len(known),
			"candidates", len(cands), "revision", key.String())
		return cands, nil
	})
	if err != nil {
		return nil, false, err
	}

	return v.([]types.Candidate), false, nil
}
