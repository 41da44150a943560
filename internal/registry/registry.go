package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dshills/athletematch-mcp/pkg/types"
)

var (
	// ErrNoPath is returned by Save and Reload on a registry created without a file
	ErrNoPath = errors.New("registry has no file path")
	// ErrIndexOutOfRange is returned by Link for an index outside Records
	ErrIndexOutOfRange = errors.New("registry index out of range")
	// ErrRecordChanged is returned by Link when the entry at index no longer
	// carries the expected full name, for example after a Reload
	ErrRecordChanged = errors.New("registry entry changed")
)

// document is the on-disk layout
type document struct {
	Meta     json.RawMessage      `json:"meta"`
	Athletes []types.KnownAthlete `json:"athletes"`
}

// Registry provides thread-safe access to the known-athletes list
type Registry struct {
	path     string
	mu       sync.RWMutex
	meta     json.RawMessage
	records  []types.KnownAthlete
	revision int64
}

// Open loads the registry at path. A missing file yields an empty registry
// that Save will create.
func Open(path string) (*Registry, error) {
	r := &Registry{path: path}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// New creates an in-memory registry holding a copy of records
func New(records []types.KnownAthlete) *Registry {
	return &Registry{records: cloneRecords(records), revision: 1}
}

// Path returns the backing file, empty for in-memory registries
func (r *Registry) Path() string {
	return r.path
}

// Records returns a copy of the current entries
func (r *Registry) Records() []types.KnownAthlete {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneRecords(r.records)
}

// Len returns the number of entries
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Revision increases whenever the entries change in memory
func (r *Registry) Revision() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.revision
}

// Summary counts entries by link state
type Summary struct {
	Total    int
	Linked   int
	Unlinked int
}

// Summary returns link counts for the current entries
func (r *Registry) Summary() Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Summary{Total: len(r.records)}
	for i := range r.records {
		if r.records[i].Linked() {
			s.Linked++
		}
	}
	s.Unlinked = s.Total - s.Linked
	return s
}

// Link points entry index at athleteID. The entry must still be named
// fullName. Linking to the current ID is a no-op.
func (r *Registry) Link(index int, fullName string, athleteID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if index < 0 || index >= len(r.records) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(r.records))
	}

	rec := &r.records[index]
	if rec.FullName != fullName {
		return fmt.Errorf("%w: index %d is %q, expected %q", ErrRecordChanged, index, rec.FullName, fullName)
	}
	if rec.AthleteID != nil && *rec.AthleteID == athleteID {
		return nil
	}
	rec.AthleteID = types.ID(athleteID)
	r.revision++
	return nil
}

// Reload replaces the in-memory entries with the file contents
func (r *Registry) Reload() error {
	if r.path == "" {
		return ErrNoPath
	}

	doc, err := readDocument(r.path)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.meta = doc.Meta
	r.records = doc.Athletes
	r.revision++
	return nil
}

func readDocument(path string) (*document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &document{Athletes: []types.KnownAthlete{}}, nil
		}
		return nil, fmt.Errorf("read registry file: %w", err)
	}

	var doc document
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse registry file %s: %w", path, err)
		}
	}
	if doc.Athletes == nil {
		doc.Athletes = []types.KnownAthlete{}
	}

	for i, rec := range doc.Athletes {
		if strings.TrimSpace(rec.FullName) == "" {
			return nil, fmt.Errorf("parse registry file %s: athlete %d has empty full_name", path, i)
		}
	}
	return &doc, nil
}

// Save writes the registry to disk atomically, keeping meta as loaded
func (r *Registry) Save() error {
	if r.path == "" {
		return ErrNoPath
	}

	r.mu.RLock()
	doc := document{Meta: r.meta, Athletes: r.records}
	if len(doc.Meta) == 0 || string(doc.Meta) == "null" {
		doc.Meta = json.RawMessage("{}")
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	r.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal registry: %w", err)
	}
	data = append(data, '\n')

	// Ensure parent directory exists
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create registry directory: %w", err)
	}

	// Write atomically via temp file in the same directory
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, r.path); err != nil {
		_ = os.Remove(tmpPath) // cleanup on failure
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

func cloneRecords(records []types.KnownAthlete) []types.KnownAthlete {
	out := make([]types.KnownAthlete, len(records))
	for i, rec := range records {
		out[i] = rec
		if rec.AthleteID != nil {
			out[i].AthleteID = types.ID(*rec.AthleteID)
		}
	}
	return out
}
