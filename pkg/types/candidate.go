package types

// Source identifies which registry produced a candidate or match
type Source string

const (
	SourceDB    Source = "db"    // Canonical athlete store
	SourceKnown Source = "known" // Known-athletes registry
)

// Candidate is one searchable string paired with routing metadata back to the
// athlete it represents. Name is the text that gets scored; DisplayName is
// always the canonical name for DB-sourced candidates, even when Name is an alias.
type Candidate struct {
	Name            string
	AthleteID       *int64 // Nullable - unlinked known athletes have no ID
	DisplayName     string
	Source          Source
	AppearanceCount int
}
