package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dshills/athletematch-mcp/pkg/types"
)

// Storage defines the interface for persisting athletes and their appearances
type Storage interface {
	// Athlete operations
	CreateAthlete(ctx context.Context, athlete *types.Athlete) error
	GetAthlete(ctx context.Context, id int64) (*types.Athlete, error)
	FindAthleteByName(ctx context.Context, name string) (*types.Athlete, error)
	FindOrCreateAthlete(ctx context.Context, name string) (*types.Athlete, bool, error)
	AddAlias(ctx context.Context, athleteID int64, alias string) (bool, error)
	ListAthletes(ctx context.Context) ([]types.Athlete, error)

	// Appearance operations
	RecordAppearance(ctx context.Context, appearance *Appearance) error
	ListAppearances(ctx context.Context, athleteID int64) ([]*Appearance, error)

	// Status operations
	Revision(ctx context.Context) (int64, error)
	GetStatus(ctx context.Context) (*Status, error)

	// Database operations
	Close() error
}

// Appearance records an athlete showing up in a video at a timestamp
type Appearance struct {
	ID               int64
	AthleteID        int64
	YouTubeID        string
	VideoTitle       string
	TimestampSeconds int
	ConfidenceScore  float64
	RawName          string // Name as it appeared in the transcript
	Verified         bool
	CreatedAt        time.Time
}

// TimestampURL links to the moment of the appearance
func (a *Appearance) TimestampURL() string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s&t=%ds", a.YouTubeID, a.TimestampSeconds)
}

// Validate checks if the appearance is well formed
func (a *Appearance) Validate() error {
	if strings.TrimSpace(a.YouTubeID) == "" {
		return fmt.Errorf("%w: youtube id is required", types.ErrInvalidArgument)
	}
	if a.TimestampSeconds < 0 {
		return fmt.Errorf("%w: timestamp must be >= 0, got %d", types.ErrInvalidArgument, a.TimestampSeconds)
	}
	if a.ConfidenceScore < 0 || a.ConfidenceScore > 1 {
		return fmt.Errorf("%w: confidence must be between 0 and 1, got %v", types.ErrInvalidArgument, a.ConfidenceScore)
	}
	return nil
}

// Status contains statistics about the athlete database
type Status struct {
	AthletesCount       int
	AliasesCount        int
	AppearancesCount    int
	VerifiedAppearances int
	Revision            int64
	SchemaVersion       string
	DatabaseSizeMB      float64
	BuildMode           string
	Health              HealthStatus
}

// HealthStatus represents the health of the database
type HealthStatus struct {
	DatabaseAccessible bool
	HasAthletes        bool
}
