package types

// Match represents a single ranked search result
type Match struct {
	// Identification
	AthleteID   *int64 // Nullable - unlinked known athletes have no ID
	DisplayName string

	// Scoring
	SimilarityScore float64 // Best of all strategies, 0-100, one decimal
	MatchedOn       string  // Candidate text that produced the score

	// Metadata
	Source          Source
	AppearanceCount int
}

// Validate checks if the match is well formed
func (m *Match) Validate() error {
	if m.SimilarityScore < 0 || m.SimilarityScore > 100 {
		return ErrInvalidSimilarityScore
	}

	if m.DisplayName == "" {
		return ErrEmptyDisplayName
	}

	if m.Source != SourceDB && m.Source != SourceKnown {
		return ErrUnknownSource
	}

	return nil
}
