package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordViaDiff runs the reorder scenario into a fresh database and
// returns the database path.
func recordViaDiff(t *testing.T) string {
	t.Helper()
	path := writeScenario(t, reorderScenario)
	dbPath := filepath.Join(t.TempDir(), "loom.db")
	_, err := execute(t, "diff", "--scenario", path, "--db", dbPath)
	require.NoError(t, err)
	return dbPath
}

func TestTrace_ListsRecordedPasses(t *testing.T) {
	dbPath := recordViaDiff(t)

	out, err := execute(t, "trace", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "pass-1")
	assert.Contains(t, out, "root=root")
}

func TestTrace_EmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")

	out, err := execute(t, "trace", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "no passes recorded")
}

func TestTrace_ShowsSinglePass(t *testing.T) {
	dbPath := recordViaDiff(t)

	out, err := execute(t, "trace", "--db", dbPath, "--pass", "pass-1")
	require.NoError(t, err)
	assert.Contains(t, out, "pass pass-1")
	assert.Contains(t, out, "placement")
	assert.Contains(t, out, "key=a")
}

func TestTrace_UnknownPassToken(t *testing.T) {
	dbPath := recordViaDiff(t)

	_, err := execute(t, "trace", "--db", dbPath, "--pass", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "nope")
}

func TestTrace_JSONFormat(t *testing.T) {
	dbPath := recordViaDiff(t)

	out, err := execute(t, "trace", "--db", dbPath, "--pass", "pass-1", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"status":"ok"`)
	assert.Contains(t, out, `"token":"pass-1"`)
}
