package types

import (
	"strings"
	"time"
)

// Athlete is the canonical record for a competitor. DisplayName is treated as
// ground truth; Aliases hold alternate spellings recorded against it.
type Athlete struct {
	ID          int64
	DisplayName string
	Aliases     []string // May be empty or contain duplicates

	// AppearanceCount is passthrough metadata. It never influences ranking.
	AppearanceCount int

	CreatedAt time.Time
}

// Validate checks that the athlete can be stored
func (a *Athlete) Validate() error {
	if strings.TrimSpace(a.DisplayName) == "" {
		return ErrEmptyDisplayName
	}
	return nil
}

// KnownAthlete is an entry of the auxiliary known-athletes registry. It may be
// linked to a DB athlete or not linked at all.
type KnownAthlete struct {
	FullName  string `json:"full_name"`
	FirstName string `json:"first_name"`
	AthleteID *int64 `json:"db_athlete_id"` // Nullable - nil means unlinked
}

// Linked reports whether the entry points at a DB athlete
func (k KnownAthlete) Linked() bool {
	return k.AthleteID != nil
}

// ID returns a pointer to a copy of id, for the nullable athlete ID fields.
func ID(id int64) *int64 {
	return &id
}
