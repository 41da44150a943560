// Package storage provides SQLite-based persistence for athletes and their
// video appearances.
//
// The storage layer manages:
//   - Canonical athletes with display names and aliases
//   - Appearances linking an athlete to a moment in a YouTube video
//   - A write revision used to invalidate cached search candidates
//
// # Database Schema
//
// Tables:
//   - athletes: display name plus a JSON array of aliases
//   - appearances: youtube id, timestamp, transcript name and confidence
//   - data_revision: single-row counter bumped by triggers on every write
//   - schema_version: applied migrations (semver)
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStorage("/var/lib/athletematch/athletes.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	athlete, created, err := db.FindOrCreateAthlete(ctx, "Kate")
//	if created {
//	    _, _ = db.AddAlias(ctx, athlete.ID, "Kate Feicht")
//	}
//
//	err = db.RecordAppearance(ctx, &storage.Appearance{
//	    AthleteID:        athlete.ID,
//	    YouTubeID:        "dQw4w9WgXcQ",
//	    TimestampSeconds: 754,
//	    ConfidenceScore:  0.9,
//	})
//
// # Name Lookup
//
// FindAthleteByName compares display names first and aliases second, both
// ignoring case. The lowest ID wins within each pass.
//
// # Revisions
//
// Revision returns a counter that increases whenever an athlete or an
// appearance is inserted, updated or deleted. Callers caching data derived
// from ListAthletes compare revisions instead of re-reading every row.
//
// # Build Tags
//
// The storage package supports two build configurations:
//
// CGO Build (sqlite_cgo tag):
//
//   - Uses github.com/mattn/go-sqlite3 driver
//
//   - Requires C compiler
//
//     CGO_ENABLED=1 go build -tags "sqlite_cgo"
//
// Pure Go Build (default, or purego tag):
//
//   - Uses modernc.org/sqlite driver
//
//   - No C compiler needed
//
//     CGO_ENABLED=0 go build -tags "purego"
package storage
