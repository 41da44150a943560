package candidates

import "github.com/dshills/athletematch-mcp/pkg/types"

// Build returns the flat candidate list for athletes and, when known is
// non-nil, the known-athletes registry. Names are emitted verbatim; duplicate
// aliases produce duplicate candidates and are collapsed later by ranking.
func Build(athletes []types.Athlete, known []types.KnownAthlete) []types.Candidate {
	size := len(athletes) + len(known)
	for i := range athletes {
		size += len(athletes[i].Aliases)
	}
	cands := make([]types.Candidate, 0, size)

	for i := range athletes {
		cands = appendAthlete(cands, &athletes[i])
	}

	if known == nil {
		return cands
	}

	// IDs already searchable through a DB athlete. Fixed before any known
	// athlete is added.
	covered := make(map[int64]struct{}, len(athletes))
	for _, c := range cands {
		covered[*c.AthleteID] = struct{}{}
	}

	for _, ka := range known {
		if !ka.Linked() {
			cands = append(cands, types.Candidate{
				Name:        ka.FullName,
				DisplayName: ka.FullName,
				Source:      types.SourceKnown,
			})
			continue
		}

		id := *ka.AthleteID
		if _, ok := covered[id]; ok {
			continue
		}
		cands = append(cands, types.Candidate{
			Name:            ka.FullName,
			AthleteID:       types.ID(id),
			DisplayName:     ka.FullName,
			Source:          types.SourceKnown,
			AppearanceCount: appearanceCountFor(cands, id),
		})
	}

	return cands
}

// appendAthlete adds the display name candidate followed by one per alias
func appendAthlete(cands []types.Candidate, a *types.Athlete) []types.Candidate {
	cands = append(cands, types.Candidate{
		Name:            a.DisplayName,
		AthleteID:       types.ID(a.ID),
		DisplayName:     a.DisplayName,
		Source:          types.SourceDB,
		AppearanceCount: a.AppearanceCount,
	})
	for _, alias := range a.Aliases {
		cands = append(cands, types.Candidate{
			Name:            alias,
			AthleteID:       types.ID(a.ID),
			DisplayName:     a.DisplayName,
			Source:          types.SourceDB,
			AppearanceCount: a.AppearanceCount,
		})
	}
	return cands
}

// appearanceCountFor returns the count of the first candidate carrying id, or 0
func appearanceCountFor(cands []types.Candidate, id int64) int {
	for _, c := range cands {
		if c.AthleteID != nil && *c.AthleteID == id {
			return c.AppearanceCount
		}
	}
	return 0
}
