package linker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/athletematch-mcp/internal/similarity"
	"github.com/dshills/athletematch-mcp/pkg/types"
)

// DefaultThreshold is the minimum score for proposing a link
const DefaultThreshold = 85.0

var (
	// ErrLinkInProgress is returned when another run holds the lock
	ErrLinkInProgress = errors.New("link run already in progress")
	// ErrNoAthletes is returned when the database has nothing to link against
	ErrNoAthletes = errors.New("no athletes in database")
)

// AthleteStore is the subset of storage the linker needs
type AthleteStore interface {
	ListAthletes(ctx context.Context) ([]types.Athlete, error)
	AddAlias(ctx context.Context, athleteID int64, alias string) (bool, error)
}

// Registry is the subset of the known-athletes registry the linker needs
type Registry interface {
	Records() []types.KnownAthlete
	Link(index int, fullName string, athleteID int64) error
	Save() error
}

// Proposal is a candidate link awaiting confirmation
type Proposal struct {
	Index   int
	Known   types.KnownAthlete
	Athlete types.Athlete
	Score   float64
}

// ConfirmFunc decides whether a proposal is applied
type ConfirmFunc func(ctx context.Context, p Proposal) (bool, error)

// Outcome describes what happened to a registry entry
type Outcome string

const (
	OutcomeLinked         Outcome = "linked"
	OutcomeAlreadyLinked  Outcome = "already_linked"
	OutcomeBelowThreshold Outcome = "no_match"
	OutcomeDeclined       Outcome = "declined"
)

// Result records the outcome for one registry entry
type Result struct {
	FullName    string
	Outcome     Outcome
	AthleteID   *int64 // Linked or best-scoring athlete, nil when none scored
	DisplayName string
	Score       float64
	AliasAdded  bool
}

// Config contains configuration for a link run
type Config struct {
	Threshold *float64    // Minimum score, nil means DefaultThreshold
	Workers   int         // Concurrent scorers (default: runtime.NumCPU())
	Confirm   ConfirmFunc // nil confirms every proposal
}

// Statistics contains statistics about a link run
type Statistics struct {
	Linked         int
	AlreadyLinked  int
	BelowThreshold int
	Declined       int
	AliasesAdded   int
	Duration       time.Duration
	Results        []Result
}

// Linker coordinates link runs. At most one run proceeds at a time.
type Linker struct {
	store    AthleteStore
	registry Registry
	logger   *log.Logger
	lock     RunLock
}

// New creates a new Linker. A nil logger discards output.
func New(store AthleteStore, registry Registry, logger *log.Logger) *Linker {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Linker{
		store:    store,
		registry: registry,
		logger:   logger.WithPrefix("linker"),
	}
}

// Running reports whether a link run is in progress
func (l *Linker) Running() bool {
	return l.lock.Held()
}

// Link runs one pass over the registry
func (l *Linker) Link(ctx context.Context, cfg *Config) (*Statistics, error) {
	if !l.lock.TryAcquire() {
		return nil, ErrLinkInProgress
	}
	defer l.lock.Release()

	cfg, err := normalizeConfig(cfg)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	stats := &Statistics{Results: make([]Result, 0)}

	known := l.registry.Records()
	if len(known) == 0 {
		stats.Duration = time.Since(startTime)
		return stats, nil
	}

	athletes, err := l.store.ListAthletes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list athletes: %w", err)
	}
	if len(athletes) == 0 {
		return nil, ErrNoAthletes
	}

	l.logger.Info("starting link run", "known", len(known), "athletes", len(athletes), "threshold", *cfg.Threshold)

	proposals, err := propose(ctx, known, athletes, cfg.Workers)
	if err != nil {
		return nil, err
	}

	runErr := l.apply(ctx, cfg, known, proposals, stats)

	// Persist whatever was linked, even when the run stopped early
	if stats.Linked > 0 {
		if err := l.registry.Save(); err != nil {
			runErr = errors.Join(runErr, fmt.Errorf("failed to save registry: %w", err))
		}
	}

	stats.Duration = time.Since(startTime)
	l.logger.Info("link run finished",
		"linked", stats.Linked, "already_linked", stats.AlreadyLinked,
		"no_match", stats.BelowThreshold, "declined", stats.Declined,
		"duration", stats.Duration)

	if runErr != nil {
		return stats, runErr
	}
	return stats, nil
}

// apply walks the registry in order, confirming and writing each proposal
func (l *Linker) apply(ctx context.Context, cfg *Config, known []types.KnownAthlete,
	proposals []*Proposal, stats *Statistics) error {

	for i, ka := range known {
		if err := ctx.Err(); err != nil {
			return err
		}

		if ka.Linked() {
			stats.AlreadyLinked++
			stats.Results = append(stats.Results, Result{
				FullName: ka.FullName, Outcome: OutcomeAlreadyLinked, AthleteID: types.ID(*ka.AthleteID),
			})
			continue
		}

		p := proposals[i]
		if p == nil || p.Score < *cfg.Threshold {
			stats.BelowThreshold++
			res := Result{FullName: ka.FullName, Outcome: OutcomeBelowThreshold}
			if p != nil {
				res.AthleteID = types.ID(p.Athlete.ID)
				res.DisplayName = p.Athlete.DisplayName
				res.Score = p.Score
			}
			stats.Results = append(stats.Results, res)
			l.logger.Debug("no match", "known", ka.FullName, "best", res.DisplayName, "score", res.Score)
			continue
		}

		res := Result{
			FullName:    ka.FullName,
			AthleteID:   types.ID(p.Athlete.ID),
			DisplayName: p.Athlete.DisplayName,
			Score:       p.Score,
		}

		ok := true
		if cfg.Confirm != nil {
			var err error
			if ok, err = cfg.Confirm(ctx, *p); err != nil {
				return fmt.Errorf("confirm %q: %w", ka.FullName, err)
			}
		}
		if !ok {
			res.Outcome = OutcomeDeclined
			stats.Declined++
			stats.Results = append(stats.Results, res)
			continue
		}

		added, err := l.store.AddAlias(ctx, p.Athlete.ID, ka.FullName)
		if err != nil {
			return fmt.Errorf("add alias %q to athlete %d: %w", ka.FullName, p.Athlete.ID, err)
		}
		if err := l.registry.Link(i, ka.FullName, p.Athlete.ID); err != nil {
			return fmt.Errorf("link %q: %w", ka.FullName, err)
		}

		res.Outcome = OutcomeLinked
		res.AliasAdded = added
		stats.Linked++
		if added {
			stats.AliasesAdded++
		}
		stats.Results = append(stats.Results, res)

		l.logger.Info("linked", "known", ka.FullName, "athlete", p.Athlete.DisplayName,
			"athlete_id", p.Athlete.ID, "score", p.Score, "alias_added", added)
	}
	return nil
}

// propose scores every unlinked entry concurrently. The slice is indexed like
// known; nil marks linked entries and entries nothing scored against.
func propose(ctx context.Context, known []types.KnownAthlete, athletes []types.Athlete, workers int) ([]*Proposal, error) {
	// Fold display names once
	folded := make([]string, len(athletes))
	for i := range athletes {
		folded[i] = similarity.Fold(athletes[i].DisplayName)
	}

	proposals := make([]*Proposal, len(known))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range known {
		if known[i].Linked() {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			proposals[i] = bestMatch(i, known[i], athletes, folded)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return proposals, nil
}

// bestMatch returns the first athlete with the strictly highest score, or nil
// when every athlete scores zero
func bestMatch(index int, ka types.KnownAthlete, athletes []types.Athlete, folded []string) *Proposal {
	name := ka.FirstName
	if strings.TrimSpace(name) == "" {
		name = ka.FullName
	}
	query := similarity.Fold(name)

	bestScore := 0.0
	best := -1
	for i := range athletes {
		score := math.Max(similarity.Ratio(query, folded[i]), similarity.PartialRatio(query, folded[i]))
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	return &Proposal{Index: index, Known: ka, Athlete: athletes[best], Score: bestScore}
}

// Threshold returns a Config threshold pointer for v
func Threshold(v float64) *float64 {
	return &v
}

func normalizeConfig(cfg *Config) (*Config, error) {
	var out Config
	if cfg != nil {
		out = *cfg
	}
	threshold := DefaultThreshold
	if out.Threshold != nil {
		threshold = *out.Threshold
	}
	if math.IsNaN(threshold) || threshold < 0 || threshold > 100 {
		return nil, fmt.Errorf("%w: threshold must be between 0 and 100, got %v", types.ErrInvalidArgument, threshold)
	}
	out.Threshold = &threshold
	if out.Workers <= 0 {
		out.Workers = runtime.NumCPU()
	}
	return &out, nil
}
