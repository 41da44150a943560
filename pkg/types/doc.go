// Package types provides shared type definitions for the athlete matching server.
//
// This package defines domain types used across multiple components: the
// canonical athletes held in storage, entries of the known-athletes registry,
// the flat search candidates derived from both, and the ranked matches
// returned to callers.
//
// # Core Types
//
// Athlete is the canonical record. Its display name is authoritative and its
// aliases are alternate spellings:
//
//	athlete := types.Athlete{
//	    ID:          1,
//	    DisplayName: "Kate",
//	    Aliases:     []string{"Kate Feicht"},
//	}
//
// KnownAthlete is a loosely linked entry from the auxiliary registry:
//
//	known := types.KnownAthlete{
//	    FullName:  "Brooklyn Schoon",
//	    FirstName: "Brooklyn",
//	    AthleteID: nil, // not linked yet
//	}
//
// # Candidates and Matches
//
// Candidate is an ephemeral searchable string built per search call. Match is
// what a search returns:
//
//	match.DisplayName     // "Kate" - always the canonical name
//	match.MatchedOn       // "Kate Feicht" - the alias that scored best
//	match.SimilarityScore // 0-100
//
// AppearanceCount travels through candidates into matches untouched; it is
// never folded into the similarity score.
package types
