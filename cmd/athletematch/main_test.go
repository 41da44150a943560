package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/athletematch-mcp/internal/config"
	"github.com/dshills/athletematch-mcp/internal/linker"
	"github.com/dshills/athletematch-mcp/internal/registry"
	"github.com/dshills/athletematch-mcp/pkg/types"
)

const knownAthletesJSON = `{
  "meta": {"source": "test"},
  "athletes": [
    {"full_name": "Sloane Stephens", "first_name": "Sloane", "db_athlete_id": null},
    {"full_name": "Zed Qux", "first_name": "Zed", "db_athlete_id": null}
  ]
}`

type cliTestEnv struct {
	baseDir    string
	configPath string
	knownPath  string
}

func setupCLITestEnv(t *testing.T, withRegistry bool) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", base)
	t.Setenv(config.EnvConfigPath, "")
	t.Setenv(config.EnvDatabasePath, "")
	t.Setenv(config.EnvKnownAthletesPath, "")
	t.Setenv(config.EnvLogLevel, "")
	t.Chdir(base)

	dbPath := filepath.Join(base, "data", "athletes.db")
	knownPath := ""
	if withRegistry {
		knownPath = filepath.Join(base, "data", "known_athletes.json")
		require.NoError(t, os.MkdirAll(filepath.Dir(knownPath), 0o755))
		require.NoError(t, os.WriteFile(knownPath, []byte(knownAthletesJSON), 0o644))
	}

	configPath := filepath.Join(base, "config.toml")
	content := "[storage]\ndatabase_path = " + quote(dbPath) + "\n\n" +
		"[registry]\nknown_athletes_path = " + quote(knownPath) + "\n\n" +
		"[logging]\nlevel = \"error\"\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	return &cliTestEnv{baseDir: base, configPath: configPath, knownPath: knownPath}
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func (e *cliTestEnv) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	env := setupCLITestEnv(t, false)

	out, _, err := env.run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version: dev")
	assert.Contains(t, out, "SQLite Driver:")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t, false)

	out, _, err := env.run(t, "", "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")

	target := filepath.Join(env.baseDir, "generated", "config.toml")
	out, _, err = env.run(t, "", "config", "init", "--path", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote sample configuration")
	assert.FileExists(t, target)

	_, _, err = env.run(t, "", "config", "init", "--path", target)
	assert.Error(t, err, "existing config must not be overwritten")
}

func TestAddAthleteCommand(t *testing.T) {
	env := setupCLITestEnv(t, false)

	out, _, err := env.run(t, "", "add-athlete", "Sloane", "--alias", "Sloane S.")
	require.NoError(t, err)
	assert.Contains(t, out, "Created athlete 1: Sloane")
	assert.Contains(t, out, `Added alias "Sloane S."`)

	out, _, err = env.run(t, "", "add-athlete", "sloane", "--alias", "Sloane S.")
	require.NoError(t, err)
	assert.Contains(t, out, "Found athlete 1: Sloane")
	assert.Contains(t, out, `Alias "Sloane S." already present`)

	out, _, err = env.run(t, "", "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Athlete 1: Sloane")
	assert.Contains(t, out, "Aliases: Sloane S.")

	_, _, err = env.run(t, "", "show", "42")
	assert.Error(t, err)
	_, _, err = env.run(t, "", "show", "abc")
	assert.Error(t, err)
}

func TestRecordAppearanceCommand(t *testing.T) {
	env := setupCLITestEnv(t, false)

	out, _, err := env.run(t, "", "record-appearance", "Sloane", "abc123", "95",
		"--title", "Tour Highlights", "--raw-name", "sloan", "--confidence", "0.9", "--verified")
	require.NoError(t, err)
	assert.Contains(t, out, "Created athlete 1: Sloane")
	assert.Contains(t, out, "https://www.youtube.com/watch?v=abc123&t=95s")

	out, _, err = env.run(t, "", "record-appearance", "sloane", "xyz789", "0")
	require.NoError(t, err)
	assert.NotContains(t, out, "Created athlete")

	out, _, err = env.run(t, "", "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Appearances: 2")
	assert.Contains(t, out, "Tour Highlights")
	assert.Contains(t, out, "sloan")
	assert.Contains(t, out, "https://www.youtube.com/watch?v=xyz789&t=0s")

	t.Run("invalid input", func(t *testing.T) {
		_, _, err := env.run(t, "", "record-appearance", "Sloane", "abc123", "1:35")
		assert.Error(t, err)
		_, _, err = env.run(t, "", "record-appearance", "Sloane", "abc123", "-5")
		assert.ErrorIs(t, err, types.ErrInvalidArgument)
		_, _, err = env.run(t, "", "record-appearance", "Sloane", " ", "5")
		assert.ErrorIs(t, err, types.ErrInvalidArgument)
		_, _, err = env.run(t, "", "record-appearance", "Sloane", "abc123", "5", "--confidence", "2")
		assert.ErrorIs(t, err, types.ErrInvalidArgument)
	})
}

func TestSearchCommand(t *testing.T) {
	env := setupCLITestEnv(t, true)

	_, _, err := env.run(t, "", "add-athlete", "Sloane")
	require.NoError(t, err)
	_, _, err = env.run(t, "", "add-athlete", "Esme")
	require.NoError(t, err)

	t.Run("table output", func(t *testing.T) {
		out, _, err := env.run(t, "", "search", "sloane")
		require.NoError(t, err)
		assert.Contains(t, out, "Sloane")
		assert.Contains(t, out, "match(es) from")
	})

	t.Run("json output", func(t *testing.T) {
		out, _, err := env.run(t, "", "search", "sloane", "--json")
		require.NoError(t, err)

		var matches []searchMatchJSON
		require.NoError(t, json.Unmarshal([]byte(out), &matches))
		require.NotEmpty(t, matches)
		assert.Equal(t, "Sloane", matches[0].DisplayName)
		assert.Equal(t, 100.0, matches[0].SimilarityScore)
		assert.Equal(t, "db", matches[0].Source)
		require.NotNil(t, matches[0].AthleteID)
	})

	t.Run("known athletes and no-known", func(t *testing.T) {
		out, _, err := env.run(t, "", "search", "Zed", "Qux", "--threshold", "90", "--json")
		require.NoError(t, err)

		var matches []searchMatchJSON
		require.NoError(t, json.Unmarshal([]byte(out), &matches))
		require.Len(t, matches, 1)
		assert.Nil(t, matches[0].AthleteID)
		assert.Equal(t, "known", matches[0].Source)

		out, _, err = env.run(t, "", "search", "Zed Qux", "--threshold", "90", "--no-known", "--json")
		require.NoError(t, err)
		matches = nil
		require.NoError(t, json.Unmarshal([]byte(out), &matches))
		assert.Empty(t, matches)
	})

	t.Run("no matches", func(t *testing.T) {
		out, _, err := env.run(t, "", "search", "ZZZZZ")
		require.NoError(t, err)
		assert.Contains(t, out, "No athletes matched")
	})

	t.Run("invalid flags", func(t *testing.T) {
		_, _, err := env.run(t, "", "search", "sloane", "--limit", "0")
		assert.Error(t, err)
		_, _, err = env.run(t, "", "search", "sloane", "--threshold", "101")
		assert.Error(t, err)
		_, _, err = env.run(t, "", "search")
		assert.Error(t, err)
	})
}

func TestLinkCommand(t *testing.T) {
	t.Run("declined prompt leaves registry unchanged", func(t *testing.T) {
		env := setupCLITestEnv(t, true)
		_, _, err := env.run(t, "", "add-athlete", "Sloane")
		require.NoError(t, err)

		out, _, err := env.run(t, "n\n", "link")
		require.NoError(t, err)
		assert.Contains(t, out, `Link "Sloane Stephens" -> "Sloane"`)
		assert.Contains(t, out, "declined 1")

		reg, err := registry.Open(env.knownPath)
		require.NoError(t, err)
		assert.False(t, reg.Records()[0].Linked())
	})

	t.Run("accepted prompt links", func(t *testing.T) {
		env := setupCLITestEnv(t, true)
		_, _, err := env.run(t, "", "add-athlete", "Sloane")
		require.NoError(t, err)

		out, _, err := env.run(t, "\n", "link")
		require.NoError(t, err)
		assert.Contains(t, out, "Linked 1")

		reg, err := registry.Open(env.knownPath)
		require.NoError(t, err)
		records := reg.Records()
		require.True(t, records[0].Linked())
		assert.Equal(t, int64(1), *records[0].AthleteID)
		assert.False(t, records[1].Linked())

		out, _, err = env.run(t, "", "show", "1")
		require.NoError(t, err)
		assert.Contains(t, out, "Aliases: Sloane Stephens")
	})

	t.Run("auto mode", func(t *testing.T) {
		env := setupCLITestEnv(t, true)
		_, _, err := env.run(t, "", "add-athlete", "Sloane")
		require.NoError(t, err)

		out, _, err := env.run(t, "", "link", "--auto")
		require.NoError(t, err)
		assert.NotContains(t, out, "[Y/n]")
		assert.Contains(t, out, "Linked 1")

		out, _, err = env.run(t, "", "link", "--auto")
		require.NoError(t, err)
		assert.Contains(t, out, "already linked 1")
	})

	t.Run("requires registry", func(t *testing.T) {
		env := setupCLITestEnv(t, false)
		_, _, err := env.run(t, "", "add-athlete", "Sloane")
		require.NoError(t, err)

		_, _, err = env.run(t, "", "link", "--auto")
		assert.Error(t, err)
	})

	t.Run("empty database", func(t *testing.T) {
		env := setupCLITestEnv(t, true)

		_, _, err := env.run(t, "", "link", "--auto")
		assert.ErrorIs(t, err, linker.ErrNoAthletes)
	})
}

func TestStatusCommand(t *testing.T) {
	env := setupCLITestEnv(t, true)
	_, _, err := env.run(t, "", "add-athlete", "Sloane", "--alias", "Sloane Stephens")
	require.NoError(t, err)

	out, _, err := env.run(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Athletes")
	assert.Contains(t, out, "Known entries")
	assert.Contains(t, out, "2 (0 linked, 2 unlinked)")
	assert.Contains(t, out, "Health: database accessible yes, has athletes yes")
}

func TestPromptConfirm(t *testing.T) {
	proposal := linker.Proposal{
		Known:   types.KnownAthlete{FullName: "Sloane Stephens", FirstName: "Sloane"},
		Athlete: types.Athlete{ID: 1, DisplayName: "Sloane"},
		Score:   100,
	}

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"empty accepts", "\n", true},
		{"yes", "y\n", true},
		{"upper yes", "YES\n", true},
		{"no", "no\n", false},
		{"retry until valid", "maybe\ny\n", true},
		{"eof declines", "", false},
		{"answer without newline", "y", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			confirm := promptConfirm(strings.NewReader(tt.input), &out)

			got, err := confirm(context.Background(), proposal)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "[Y/n]")
		})
	}

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		confirm := promptConfirm(strings.NewReader("y\n"), &bytes.Buffer{})
		_, err := confirm(ctx, proposal)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
