package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPack = `{
  "name": "core",
  "version": "v1.0.0",
  "source": "oxford_3000",
  "words": [
    {"english": "cat", "part_of_speech": "n.", "translations": ["猫"], "definition": "A small furry animal", "level": "A1"},
    {"english": "serendipity", "part_of_speech": "n.", "translations": ["机缘巧合"], "definition": "A happy accident", "level": "C2"}
  ]
}`

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	require.NoError(t, rootCmd.ExecuteContext(context.Background()), out.String())
	return out.String()
}

func testDB(t *testing.T) string {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("WORDBRIDGE_LOG_LEVEL", "error")
	return filepath.Join(t.TempDir(), "wordbridge.db")
}

func TestScore(t *testing.T) {
	out := execute(t, "score", "cat", "猫")
	assert.Contains(t, out, "cat → 猫")
	assert.Contains(t, out, "Total")
}

func TestScoreGroup(t *testing.T) {
	out := execute(t, "score", "group", "fate=缘分", "destiny=命运")
	assert.Contains(t, out, "Adjusted")
	assert.Contains(t, out, "destiny")
}

func TestImportStatsAndPlan(t *testing.T) {
	db := testDB(t)
	pack := filepath.Join(t.TempDir(), "core.json")
	require.NoError(t, os.WriteFile(pack, []byte(testPack), 0o644))

	out := execute(t, "import", pack, "--db", db)
	assert.Contains(t, out, "Imported core v1.0.0: 2 clear, 0 fuzzy concepts")

	out = execute(t, "stats", "--db", db)
	assert.Contains(t, out, "oxford_3000")
	assert.Contains(t, out, "Sessions:          0")

	out = execute(t, "plan", "--db", db)
	assert.Contains(t, out, "cat")
	assert.Contains(t, out, "serendipity")
}

func TestSettingsSetAndShow(t *testing.T) {
	db := testDB(t)

	out := execute(t, "settings", "set", "--db", db, "--mode", "mixed", "--goal", "5")
	assert.Contains(t, out, "Mode:              mixed")

	out = execute(t, "settings", "show", "--db", db)
	assert.Contains(t, out, "Daily goal:        5")
}

func TestVersion(t *testing.T) {
	assert.Contains(t, execute(t, "version"), "wordbridge")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{42 * time.Second, "42s"},
		{3*time.Minute + 5*time.Second, "3m 5s"},
		{2*time.Hour + 7*time.Minute, "2h 7m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.d))
	}
}
