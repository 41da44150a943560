package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dshills/athletematch-mcp/pkg/types"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite benefits from single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Apply migrations
	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// withTx runs fn inside a transaction, committing only when fn succeeds
func (s *SQLiteStorage) withTx(ctx context.Context, fn func(q querier) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Athlete operations

const athleteColumns = `id, display_name, aliases, created_at`

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAthlete(row scanner, extra ...interface{}) (*types.Athlete, error) {
	var athlete types.Athlete
	var aliases string
	dest := append([]interface{}{&athlete.ID, &athlete.DisplayName, &aliases, &athlete.CreatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(aliases), &athlete.Aliases); err != nil {
		return nil, fmt.Errorf("athlete %d has malformed aliases: %w", athlete.ID, err)
	}
	return &athlete, nil
}

func encodeAliases(aliases []string) (string, error) {
	if aliases == nil {
		aliases = []string{}
	}
	b, err := json.Marshal(aliases)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func createAthleteWithQuerier(ctx context.Context, q querier, athlete *types.Athlete) error {
	athlete.DisplayName = strings.TrimSpace(athlete.DisplayName)
	if err := athlete.Validate(); err != nil {
		return fmt.Errorf("%w: %w", types.ErrInvalidArgument, err)
	}

	aliases, err := encodeAliases(athlete.Aliases)
	if err != nil {
		return fmt.Errorf("failed to encode aliases: %w", err)
	}

	now := time.Now()
	err = q.QueryRowContext(ctx, `
		INSERT INTO athletes (display_name, aliases, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`, athlete.DisplayName, aliases, now, now).Scan(&athlete.ID)
	if err != nil {
		return fmt.Errorf("failed to create athlete: %w", err)
	}
	athlete.CreatedAt = now
	return nil
}

// CreateAthlete inserts athlete and sets its ID. The display name is trimmed and must not be empty.
func (s *SQLiteStorage) CreateAthlete(ctx context.Context, athlete *types.Athlete) error {
	return createAthleteWithQuerier(ctx, s.db, athlete)
}

func getAthleteWithQuerier(ctx context.Context, q querier, id int64) (*types.Athlete, error) {
	var count int
	row := q.QueryRowContext(ctx, `
		SELECT a.id, a.display_name, a.aliases, a.created_at,
		       (SELECT COUNT(*) FROM appearances ap WHERE ap.athlete_id = a.id)
		FROM athletes a
		WHERE a.id = ?
	`, id)
	athlete, err := scanAthlete(row, &count)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	athlete.AppearanceCount = count
	return athlete, nil
}

func (s *SQLiteStorage) GetAthlete(ctx context.Context, id int64) (*types.Athlete, error) {
	return getAthleteWithQuerier(ctx, s.db, id)
}

// findAthleteByNameWithQuerier matches display names case-insensitively, then
// aliases. The lowest ID wins within each pass.
func findAthleteByNameWithQuerier(ctx context.Context, q querier, name string) (*types.Athlete, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNotFound
	}

	id, err := matchAthleteName(ctx, q, name)
	if err != nil {
		return nil, err
	}
	return getAthleteWithQuerier(ctx, q, id)
}

// matchAthleteName returns the ID to load. Rows are closed before the caller
// issues its next query since the pool holds a single connection.
func matchAthleteName(ctx context.Context, q querier, name string) (int64, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+athleteColumns+` FROM athletes ORDER BY id`)
	if err != nil {
		return 0, fmt.Errorf("failed to scan athletes: %w", err)
	}
	defer rows.Close()

	var aliasID int64
	for rows.Next() {
		athlete, err := scanAthlete(rows)
		if err != nil {
			return 0, err
		}
		if strings.EqualFold(athlete.DisplayName, name) {
			return athlete.ID, nil
		}
		if aliasID == 0 && containsFold(athlete.Aliases, name) {
			aliasID = athlete.ID
		}
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if aliasID == 0 {
		return 0, ErrNotFound
	}
	return aliasID, nil
}

func containsFold(values []string, s string) bool {
	for _, v := range values {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// FindAthleteByName returns the athlete whose display name or alias equals name, ignoring case
func (s *SQLiteStorage) FindAthleteByName(ctx context.Context, name string) (*types.Athlete, error) {
	return findAthleteByNameWithQuerier(ctx, s.db, name)
}

// FindOrCreateAthlete returns the athlete matching name, creating one when none exists.
// The bool reports whether a new athlete was created.
func (s *SQLiteStorage) FindOrCreateAthlete(ctx context.Context, name string) (*types.Athlete, bool, error) {
	var athlete *types.Athlete
	created := false

	err := s.withTx(ctx, func(q querier) error {
		found, err := findAthleteByNameWithQuerier(ctx, q, name)
		if err == nil {
			athlete = found
			return nil
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}

		athlete = &types.Athlete{DisplayName: name}
		if err := createAthleteWithQuerier(ctx, q, athlete); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return athlete, created, nil
}

// AddAlias appends alias to the athlete's aliases. It reports false when the
// exact alias is already present.
func (s *SQLiteStorage) AddAlias(ctx context.Context, athleteID int64, alias string) (bool, error) {
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return false, fmt.Errorf("%w: alias cannot be empty", types.ErrInvalidArgument)
	}

	added := false
	err := s.withTx(ctx, func(q querier) error {
		var raw string
		err := q.QueryRowContext(ctx, "SELECT aliases FROM athletes WHERE id = ?", athleteID).Scan(&raw)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var aliases []string
		if err := json.Unmarshal([]byte(raw), &aliases); err != nil {
			return fmt.Errorf("athlete %d has malformed aliases: %w", athleteID, err)
		}
		for _, a := range aliases {
			if a == alias {
				return nil
			}
		}

		encoded, err := encodeAliases(append(aliases, alias))
		if err != nil {
			return err
		}
		if _, err := q.ExecContext(ctx,
			"UPDATE athletes SET aliases = ?, updated_at = ? WHERE id = ?",
			encoded, time.Now(), athleteID); err != nil {
			return fmt.Errorf("failed to update aliases: %w", err)
		}
		added = true
		return nil
	})
	return added, err
}

// ListAthletes returns every athlete ordered by ID, with appearance counts
func (s *SQLiteStorage) ListAthletes(ctx context.Context) ([]types.Athlete, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.display_name, a.aliases, a.created_at, COUNT(ap.id)
		FROM athletes a
		LEFT JOIN appearances ap ON ap.athlete_id = a.id
		GROUP BY a.id
		ORDER BY a.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list athletes: %w", err)
	}
	defer rows.Close()

	athletes := make([]types.Athlete, 0)
	for rows.Next() {
		var count int
		athlete, err := scanAthlete(rows, &count)
		if err != nil {
			return nil, err
		}
		athlete.AppearanceCount = count
		athletes = append(athletes, *athlete)
	}
	return athletes, rows.Err()
}

// Appearance operations

// RecordAppearance inserts appearance and sets its ID
func (s *SQLiteStorage) RecordAppearance(ctx context.Context, appearance *Appearance) error {
	if err := appearance.Validate(); err != nil {
		return err
	}

	now := time.Now()
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO appearances (athlete_id, youtube_id, video_title, timestamp_seconds,
		                         confidence_score, raw_name, verified, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, appearance.AthleteID, appearance.YouTubeID, appearance.VideoTitle, appearance.TimestampSeconds,
		appearance.ConfidenceScore, appearance.RawName, appearance.Verified, now).Scan(&appearance.ID)
	if err != nil {
		return fmt.Errorf("failed to record appearance: %w", err)
	}
	appearance.CreatedAt = now
	return nil
}

// ListAppearances returns an athlete's appearances ordered by video then timestamp
func (s *SQLiteStorage) ListAppearances(ctx context.Context, athleteID int64) ([]*Appearance, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, athlete_id, youtube_id, video_title, timestamp_seconds,
		       confidence_score, raw_name, verified, created_at
		FROM appearances
		WHERE athlete_id = ?
		ORDER BY youtube_id, timestamp_seconds, id
	`, athleteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list appearances: %w", err)
	}
	defer rows.Close()

	appearances := make([]*Appearance, 0)
	for rows.Next() {
		var a Appearance
		var title, rawName sql.NullString
		if err := rows.Scan(&a.ID, &a.AthleteID, &a.YouTubeID, &title, &a.TimestampSeconds,
			&a.ConfidenceScore, &rawName, &a.Verified, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.VideoTitle = title.String
		a.RawName = rawName.String
		appearances = append(appearances, &a)
	}
	return appearances, rows.Err()
}

// Status operations

// Revision returns a counter that increases on every athlete or appearance write
func (s *SQLiteStorage) Revision(ctx context.Context) (int64, error) {
	var rev int64
	err := s.db.QueryRowContext(ctx, "SELECT revision FROM data_revision WHERE id = 1").Scan(&rev)
	if err != nil {
		return 0, fmt.Errorf("failed to read revision: %w", err)
	}
	return rev, nil
}

func (s *SQLiteStorage) GetStatus(ctx context.Context) (*Status, error) {
	status := &Status{BuildMode: BuildMode}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(json_array_length(aliases)), 0) FROM athletes
	`).Scan(&status.AthletesCount, &status.AliasesCount)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN verified THEN 1 ELSE 0 END), 0) FROM appearances
	`).Scan(&status.AppearancesCount, &status.VerifiedAppearances)
	if err != nil {
		return nil, err
	}

	if status.Revision, err = s.Revision(ctx); err != nil {
		return nil, err
	}

	version, err := currentSchemaVersion(ctx, s.db)
	if err != nil {
		return nil, err
	}
	status.SchemaVersion = version.String()

	// Calculate database size
	var pageCount, pageSize int
	err = s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount)
	if err == nil {
		_ = s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize)
		status.DatabaseSizeMB = float64(pageCount*pageSize) / (1024 * 1024)
	}

	status.Health = HealthStatus{
		DatabaseAccessible: true,
		HasAthletes:        status.AthletesCount > 0,
	}

	return status, nil
}
