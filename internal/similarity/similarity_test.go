package similarity

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"BothEmpty", "", "", 100},
		{"OneEmpty", "esme", "", 0},
		{"Identical", "esme", "esme", 100},
		{"OneInsertion", "sloane", "sloan", 100 * 10.0 / 11.0},
		{"Classic", "kitten", "sitting", 100 * 8.0 / 13.0},
		{"Disjoint", "zzzzz", "esme", 0},
		{"CaseSensitive", "Esme", "esme", 75},
		{"Multibyte", "zoë", "zoe", 100 * 4.0 / 6.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Ratio(tt.a, tt.b), 0.001)
			assert.InDelta(t, tt.want, Ratio(tt.b, tt.a), 0.001, "ratio should be symmetric")
		})
	}
}

func TestPartialRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"PrefixFragment", "kate", "kate feicht", 100},
		{"SuffixFragment", "feicht", "kate feicht", 100},
		{"LongerFirst", "kate feicht", "kate", 100},
		{"NoOverlap", "zzzzz", "esme", 0},
		{"LeadingPartialWindow", "abcd", "cdxxxxx", 100 * 4.0 / 6.0},
		{"EqualLength", "sloan", "sloan", 100},
		{"EmptyNeedle", "", "esme", 0},
		{"BothEmpty", "", "", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PartialRatio(tt.a, tt.b), 0.001)
		})
	}
}

func TestTokenSetRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"SubsetOfTokens", "esme newton-pawlus", "esme", 100},
		{"WordOrder", "john smith", "smith john", 100},
		{"ExtraMiddleName", "kate maley feicht", "feicht kate", 100},
		{"DuplicateTokens", "kate kate", "kate", 100},
		{"WhitespaceOnly", "   ", "esme", 0},
		{"BothEmpty", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TokenSetRatio(tt.a, tt.b), 0.001)
		})
	}

	t.Run("NoSharedTokens", func(t *testing.T) {
		got := TokenSetRatio("athlete", "athlete0")
		assert.InDelta(t, Ratio("athlete", "athlete0"), got, 0.001)
	})
}

func TestCompare(t *testing.T) {
	t.Run("ExactMatchIsCaseInsensitive", func(t *testing.T) {
		s := Compare("ESME", "esme")
		assert.Equal(t, 100.0, s.Direct())
		assert.Equal(t, 100.0, s.Best())
	})

	t.Run("UnicodeFolding", func(t *testing.T) {
		s := Compare("ÉSME", "ésme")
		assert.Equal(t, 100.0, s.Direct())
	})

	t.Run("CloseSpelling", func(t *testing.T) {
		s := Compare("Sloane", "Sloan")
		assert.Greater(t, s.Best(), 80.0)
		assert.InDelta(t, 100*10.0/11.0, s.Direct(), 0.001)
	})

	t.Run("BestIsMaxOfStrategies", func(t *testing.T) {
		s := Compare("Esme Newton-Pawlus", "Esme")
		assert.Equal(t, 100.0, s.TokenSet)
		assert.Less(t, s.Ratio, s.Best())
		assert.Equal(t, max(s.Ratio, s.Partial, s.TokenSet), s.Best())
	})

	t.Run("EmptyCandidateScoresZero", func(t *testing.T) {
		assert.Equal(t, Scores{}, Compare("esme", ""))
		assert.Equal(t, Scores{}, Compare("", ""))
	})

	t.Run("WhitespaceQueryIsDefined", func(t *testing.T) {
		s := Compare("   ", "Esme")
		assert.Equal(t, 0.0, s.Best())
	})

	t.Run("ScoresAreBounded", func(t *testing.T) {
		pairs := [][2]string{
			{"a", "aaaaaaaaaaaaaaaa"},
			{"kate feicht", "kate"},
			{"Ω", "ω"},
			{"  spaced  out ", "spaced out"},
			{"Newton-Pawlus", "newton pawlus"},
		}
		for _, p := range pairs {
			s := Compare(p[0], p[1])
			for _, v := range []float64{s.Ratio, s.Partial, s.TokenSet} {
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 100.0)
			}
		}
	})
}

func TestFold(t *testing.T) {
	assert.Equal(t, "", Fold(""))
	assert.Equal(t, "kate feicht", Fold("Kate FEICHT"))
	assert.Equal(t, Fold("ÉLODIE"), Fold("élodie"))
}

func TestCompareConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]Scores, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Compare("Esme Newton-Pawlus", "ESME")
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		require.Equal(t, results[0], r)
	}
}

func BenchmarkCompare(b *testing.B) {
	query := Fold("Kate Feicht")
	text := Fold("Katherine Maley-Feicht")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		CompareFolded(query, text)
	}
}
