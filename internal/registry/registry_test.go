package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/athletematch-mcp/pkg/types"
)

const sampleFile = `{
  "meta": {"source": "roster", "season": 2024},
  "athletes": [
    {"full_name": "Brooklyn Schoon", "first_name": "Brooklyn", "db_athlete_id": null},
    {"full_name": "Esme Newton-Pawlus", "first_name": "Esme", "db_athlete_id": 1}
  ]
}
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "known_athletes.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestOpen(t *testing.T) {
	r, err := Open(writeFile(t, sampleFile))
	require.NoError(t, err)

	records := r.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "Brooklyn Schoon", records[0].FullName)
	assert.Equal(t, "Brooklyn", records[0].FirstName)
	assert.False(t, records[0].Linked())
	require.True(t, records[1].Linked())
	assert.Equal(t, int64(1), *records[1].AthleteID)
	assert.Equal(t, 2, r.Len())
}

func TestOpen_MissingFile(t *testing.T) {
	r, err := Open(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Zero(t, r.Len())
	assert.NotNil(t, r.Records())
}

func TestOpen_EmptyFile(t *testing.T) {
	r, err := Open(writeFile(t, ""))
	require.NoError(t, err)
	assert.Zero(t, r.Len())
}

func TestOpen_Malformed(t *testing.T) {
	_, err := Open(writeFile(t, `{"athletes": [`))
	assert.Error(t, err)

	_, err = Open(writeFile(t, `{"athletes": [{"full_name": "  ", "first_name": "x"}]}`))
	assert.ErrorContains(t, err, "empty full_name")
}

func TestRecordsIsACopy(t *testing.T) {
	r := New([]types.KnownAthlete{{FullName: "Esme", AthleteID: types.ID(1)}})

	records := r.Records()
	records[0].FullName = "changed"
	*records[0].AthleteID = 42

	again := r.Records()
	assert.Equal(t, "Esme", again[0].FullName)
	assert.Equal(t, int64(1), *again[0].AthleteID)
}

func TestLink(t *testing.T) {
	r := New([]types.KnownAthlete{{FullName: "Brooklyn Schoon", FirstName: "Brooklyn"}})
	rev := r.Revision()

	require.NoError(t, r.Link(0, "Brooklyn Schoon", 7))
	assert.Greater(t, r.Revision(), rev)
	assert.Equal(t, int64(7), *r.Records()[0].AthleteID)

	// Same ID leaves revision alone
	rev = r.Revision()
	require.NoError(t, r.Link(0, "Brooklyn Schoon", 7))
	assert.Equal(t, rev, r.Revision())

	assert.ErrorIs(t, r.Link(1, "Brooklyn Schoon", 7), ErrIndexOutOfRange)
	assert.ErrorIs(t, r.Link(-1, "Brooklyn Schoon", 7), ErrIndexOutOfRange)
}

func TestLink_EntryChangedAfterReload(t *testing.T) {
	path := writeFile(t, sampleFile)
	r, err := Open(path)
	require.NoError(t, err)
	snapshot := r.Records()

	// An entry inserted ahead shifts Brooklyn to index 1
	require.NoError(t, os.WriteFile(path, []byte(`{"athletes": [
		{"full_name": "Kate Courtney", "first_name": "Kate"},
		{"full_name": "Brooklyn Schoon", "first_name": "Brooklyn"}
	]}`), 0o644))
	require.NoError(t, r.Reload())
	rev := r.Revision()

	err = r.Link(0, snapshot[0].FullName, 7)
	assert.ErrorIs(t, err, ErrRecordChanged)
	assert.False(t, r.Records()[0].Linked())
	assert.Equal(t, rev, r.Revision())
}

func TestSummary(t *testing.T) {
	assert.Equal(t, Summary{}, New(nil).Summary())

	r, err := Open(writeFile(t, sampleFile))
	require.NoError(t, err)
	assert.Equal(t, Summary{Total: 2, Linked: 1, Unlinked: 1}, r.Summary())

	require.NoError(t, r.Link(0, "Brooklyn Schoon", 4))
	assert.Equal(t, Summary{Total: 2, Linked: 2, Unlinked: 0}, r.Summary())
}

func TestSave_PreservesMeta(t *testing.T) {
	path := writeFile(t, sampleFile)
	r, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, r.Link(0, "Brooklyn Schoon", 3))
	require.NoError(t, r.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), data[len(data)-1])

	var doc struct {
		Meta     map[string]interface{} `json:"meta"`
		Athletes []types.KnownAthlete   `json:"athletes"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "roster", doc.Meta["source"])
	assert.Equal(t, float64(2024), doc.Meta["season"])
	require.Len(t, doc.Athletes, 2)
	assert.Equal(t, int64(3), *doc.Athletes[0].AthleteID)

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, r.Records(), reopened.Records())
}

func TestSave_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "known.json")
	r, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, r.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"meta": {}, "athletes": []}`, string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should be renamed away")
}

func TestSave_NullLinkWritten(t *testing.T) {
	path := writeFile(t, `{"athletes": [{"full_name": "A B", "first_name": "A"}]}`)
	r, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, r.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"db_athlete_id": null`)
}

func TestInMemory_NoPath(t *testing.T) {
	r := New(nil)
	assert.Empty(t, r.Path())
	assert.ErrorIs(t, r.Save(), ErrNoPath)
	assert.ErrorIs(t, r.Reload(), ErrNoPath)
}

func TestReload(t *testing.T) {
	path := writeFile(t, sampleFile)
	r, err := Open(path)
	require.NoError(t, err)
	rev := r.Revision()

	require.NoError(t, os.WriteFile(path, []byte(`{"athletes": [{"full_name": "Only One", "first_name": "Only"}]}`), 0o644))
	require.NoError(t, r.Reload())

	assert.Equal(t, 1, r.Len())
	assert.Greater(t, r.Revision(), rev)
}

func TestConcurrentAccess(t *testing.T) {
	r := New([]types.KnownAthlete{{FullName: "A"}, {FullName: "B"}})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(id int64) {
			defer wg.Done()
			index := int(id % 2)
			_ = r.Link(index, []string{"A", "B"}[index], id)
		}(int64(i))
		go func() {
			defer wg.Done()
			_ = r.Records()
			_ = r.Revision()
		}()
	}
	wg.Wait()

	for _, rec := range r.Records() {
		assert.True(t, rec.Linked())
	}
}
