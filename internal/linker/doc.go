// Package linker links known-registry entries to database athletes.
//
// For every unlinked entry the first name is fuzzy matched against each
// athlete's display name using the better of the direct and partial ratios
// on case-folded text. The first athlete with the strictly highest score is
// proposed. Proposals at or above the threshold are confirmed (automatically
// or through a Confirm callback), the entry is linked and its full name is
// recorded as an alias on the athlete. The registry is saved once at the end.
//
// # Basic Usage
//
//	l := linker.New(store, registry, logger)
//
//	stats, err := l.Link(ctx, &linker.Config{Threshold: linker.Threshold(85)})
//	if errors.Is(err, linker.ErrLinkInProgress) {
//	    // another run holds the lock
//	}
//	fmt.Printf("%d linked, %d aliases added\n", stats.Linked, stats.AliasesAdded)
//
// # Interactive confirmation
//
//	cfg := &linker.Config{
//	    Threshold: linker.Threshold(85),
//	    Confirm: func(ctx context.Context, p linker.Proposal) (bool, error) {
//	        return askYesNo(p.Known.FullName, p.Athlete.DisplayName, p.Score)
//	    },
//	}
//
// Proposals are scored concurrently; confirmation and writes happen in
// registry order.
package linker
