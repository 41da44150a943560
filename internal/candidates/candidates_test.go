package candidates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/athletematch-mcp/pkg/types"
)

func athlete(id int64, name string, count int, aliases ...string) types.Athlete {
	return types.Athlete{ID: id, DisplayName: name, Aliases: aliases, AppearanceCount: count}
}

func names(cands []types.Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Name
	}
	return out
}

func TestBuild_DisplayName(t *testing.T) {
	cands := Build([]types.Athlete{athlete(1, "Esme", 3)}, nil)

	require.Len(t, cands, 1)
	assert.Equal(t, "Esme", cands[0].Name)
	assert.Equal(t, "Esme", cands[0].DisplayName)
	require.NotNil(t, cands[0].AthleteID)
	assert.Equal(t, int64(1), *cands[0].AthleteID)
	assert.Equal(t, types.SourceDB, cands[0].Source)
	assert.Equal(t, 3, cands[0].AppearanceCount)
}

func TestBuild_Aliases(t *testing.T) {
	cands := Build([]types.Athlete{athlete(1, "Kate", 2, "Kate Feicht", "Kate Maley")}, nil)

	assert.Equal(t, []string{"Kate", "Kate Feicht", "Kate Maley"}, names(cands))
	for _, c := range cands {
		assert.Equal(t, "Kate", c.DisplayName, "alias candidates carry the canonical name")
		assert.Equal(t, int64(1), *c.AthleteID)
		assert.Equal(t, 2, c.AppearanceCount)
		assert.Equal(t, types.SourceDB, c.Source)
	}
}

func TestBuild_DuplicateAliasesKept(t *testing.T) {
	cands := Build([]types.Athlete{athlete(1, "Kate", 0, "Kate F", "Kate F")}, nil)
	assert.Equal(t, []string{"Kate", "Kate F", "Kate F"}, names(cands))
}

func TestBuild_Empty(t *testing.T) {
	cands := Build(nil, nil)
	assert.NotNil(t, cands)
	assert.Empty(t, cands)

	assert.Empty(t, Build([]types.Athlete{}, []types.KnownAthlete{}))
}

func TestBuild_KnownUnlinked(t *testing.T) {
	known := []types.KnownAthlete{{FullName: "Esme Newton-Pawlus", FirstName: "Esme"}}
	cands := Build(nil, known)

	require.Len(t, cands, 1)
	assert.Equal(t, "Esme Newton-Pawlus", cands[0].Name)
	assert.Equal(t, "Esme Newton-Pawlus", cands[0].DisplayName)
	assert.Nil(t, cands[0].AthleteID)
	assert.Equal(t, types.SourceKnown, cands[0].Source)
	assert.Equal(t, 0, cands[0].AppearanceCount)
}

func TestBuild_KnownLinkedToPresentAthleteIsSkipped(t *testing.T) {
	athletes := []types.Athlete{athlete(1, "Esme", 4, "Esme Newton-Pawlus")}
	known := []types.KnownAthlete{{FullName: "Esme Newton-Pawlus", FirstName: "Esme", AthleteID: types.ID(1)}}

	cands := Build(athletes, known)

	assert.Equal(t, []string{"Esme", "Esme Newton-Pawlus"}, names(cands))
	for _, c := range cands {
		assert.Equal(t, types.SourceDB, c.Source, "no known candidate for an ID already covered")
	}
}

func TestBuild_KnownLinkedToMissingAthlete(t *testing.T) {
	athletes := []types.Athlete{athlete(1, "Esme", 4)}
	known := []types.KnownAthlete{
		{FullName: "Sloan Brook", FirstName: "Sloan", AthleteID: types.ID(7)},
		{FullName: "S. Brook", FirstName: "Sloan", AthleteID: types.ID(7)},
	}

	cands := Build(athletes, known)

	require.Len(t, cands, 3)
	for _, c := range cands[1:] {
		assert.Equal(t, types.SourceKnown, c.Source)
		assert.Equal(t, int64(7), *c.AthleteID)
		assert.Equal(t, c.Name, c.DisplayName)
		assert.Equal(t, 0, c.AppearanceCount)
	}
}

func TestBuild_KnownNilVersusEmpty(t *testing.T) {
	athletes := []types.Athlete{athlete(1, "Esme", 0)}
	assert.Equal(t, Build(athletes, nil), Build(athletes, []types.KnownAthlete{}))
}

func TestAppearanceCountFor(t *testing.T) {
	cands := []types.Candidate{
		{Name: "Unlinked"},
		{Name: "Kate", AthleteID: types.ID(2), AppearanceCount: 9},
		{Name: "Kate F", AthleteID: types.ID(2), AppearanceCount: 1},
	}
	assert.Equal(t, 9, appearanceCountFor(cands, 2))
	assert.Equal(t, 0, appearanceCountFor(cands, 3))
}
