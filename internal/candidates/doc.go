// Package candidates flattens canonical athletes and the known-athletes
// registry into the searchable candidate list consumed by the searcher.
//
// Each athlete contributes its display name plus one candidate per alias, all
// pointing back at the athlete's ID and display name. Known athletes only
// contribute when they are not already represented by a DB athlete:
//
//	cands := candidates.Build(athletes, known)
//
// Building is a pure function of its inputs; callers may cache the result as
// an immutable snapshot for as long as both registries are unchanged.
package candidates
