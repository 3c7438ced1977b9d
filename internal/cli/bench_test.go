package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/rollstat/internal/bench"
)

const testBenchConfig = `
name: cli test run
writers: 2
duration: 200ms
window: 1s
chunks: 4
snapshotEvery: 100ms
`

func writeBenchConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testBenchConfig), 0644))
	return path
}

// executeBench runs the bench subcommand with args, resetting flag state
// between tests since cobra flag vars are package globals.
func executeBench(t *testing.T, args ...string) (string, error) {
	t.Helper()

	benchConfigPath = ""
	benchJSON = false
	benchQuery = ""
	benchNoColor = false
	benchQuiet = false

	var buf bytes.Buffer
	RootCmd.SetOut(&buf)
	RootCmd.SetErr(&buf)
	RootCmd.SetArgs(append([]string{"bench"}, args...))
	err := RootCmd.Execute()
	return buf.String(), err
}

func TestBench_TextReport(t *testing.T) {
	out, err := executeBench(t, "--config", writeBenchConfig(t), "--no-color")
	require.NoError(t, err)

	assert.Contains(t, out, "cli test run")
	assert.Contains(t, out, "2 writers")
	assert.Contains(t, out, "Completed")
	assert.Contains(t, out, "P99:")
}

func TestBench_JSONReport(t *testing.T) {
	out, err := executeBench(t, "--config", writeBenchConfig(t), "--json")
	require.NoError(t, err)

	var result bench.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "cli test run", result.Name)
	assert.Equal(t, 2, result.Writers)
	assert.Greater(t, result.TotalRecords, int64(0))
}

func TestBench_Query(t *testing.T) {
	out, err := executeBench(t, "--config", writeBenchConfig(t), "--query", "totalRecords")
	require.NoError(t, err)

	n, err := strconv.ParseInt(string(bytes.TrimSpace([]byte(out))), 10, 64)
	require.NoError(t, err)
	assert.Greater(t, n, int64(0))
}

func TestBench_QueryNoMatch(t *testing.T) {
	_, err := executeBench(t, "--config", writeBenchConfig(t), "--query", "no.such.field")
	assert.Error(t, err)
}

func TestBench_MissingConfigFile(t *testing.T) {
	_, err := executeBench(t, "--config", "/nonexistent/bench.yaml")
	assert.Error(t, err)
}

func TestBench_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte("writers: -1"), 0644))

	_, err := executeBench(t, "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writers")
}
