package similarity

// Scores holds the result of every strategy for one query/candidate pair
type Scores struct {
	Ratio    float64
	Partial  float64
	TokenSet float64
}

// Best returns the highest strategy score. This is the value ranking uses.
func (s Scores) Best() float64 {
	return max(s.Ratio, s.Partial, s.TokenSet)
}

// Direct returns the whole-string ratio, the strictest of the strategies.
// Ranking uses it to prefer the more specific of two equally scored names.
func (s Scores) Direct() float64 {
	return s.Ratio
}

// Compare case-folds query and text and scores them with every strategy.
// An empty text is a valid but maximally dissimilar candidate and scores zero.
func Compare(query, text string) Scores {
	return CompareFolded(Fold(query), Fold(text))
}

// CompareFolded is Compare for input that has already been passed through Fold.
// Callers scoring one query against many candidates fold the query once.
func CompareFolded(query, text string) Scores {
	if text == "" {
		return Scores{}
	}
	return Scores{
		Ratio:    Ratio(query, text),
		Partial:  PartialRatio(query, text),
		TokenSet: TokenSetRatio(query, text),
	}
}
