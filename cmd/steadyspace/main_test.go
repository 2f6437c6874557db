package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/steadyspace/internal/runner"
)

const toggleText = "A:1 <- B : 0=0; 1=1\nB:1 <- A : 0=0; 1=1\n"

func writeFile(t *testing.T, path, text string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))

	return path
}

func run(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = execute(context.Background(), args, &out, &errOut)

	return code, out.String(), errOut.String()
}

func TestSolve_WritesCSV(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "toggle.rn"), toggleText)

	code, stdout, stderr := run(t, "solve", path)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "toggle: 2 steady state(s)")

	data, err := os.ReadFile(filepath.Join(dir, "toggle_stable.csv"))
	require.NoError(t, err)
	assert.Equal(t, "A,B\n0,0\n1,1\n", string(data))
}

func TestSolve_FlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "toggle.rn"), toggleText)
	cfgPath := writeFile(t, filepath.Join(dir, "conf.yaml"), "solve:\n  limit: 1\noutput:\n  suffix: .csv\n")
	out := filepath.Join(dir, "out")

	code, _, stderr := run(t, "solve", "--config", cfgPath, "--out-dir", out, "--bound", "B=0", path)
	require.Equal(t, exitOK, code, stderr)
	data, err := os.ReadFile(filepath.Join(out, "toggle.csv"))
	require.NoError(t, err)
	assert.Equal(t, "A,B\n0,0\n", string(data))

	code, _, stderr = run(t, "solve", "--config", cfgPath, "--out-dir", out, "--limit", "0", path)
	require.Equal(t, exitOK, code, stderr)
	data, err = os.ReadFile(filepath.Join(out, "toggle.csv"))
	require.NoError(t, err)
	assert.Equal(t, "A,B\n0,0\n1,1\n", string(data), "--limit 0 lifts the configured limit")
}

func TestSolve_ExitCodes(t *testing.T) {
	dir := t.TempDir()
	toggle := writeFile(t, filepath.Join(dir, "toggle.rn"), toggleText)
	broken := writeFile(t, filepath.Join(dir, "broken.rn"), "A:1 <- Z : 0=0\n")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"unknown flag", []string{"solve", "--nope", toggle}, exitUsage},
		{"no models", []string{"solve"}, exitUsage},
		{"bad bound syntax", []string{"solve", "--bound", "A", toggle}, exitUsage},
		{"negative bound", []string{"solve", "--bound", "A=-1", toggle}, exitUsage},
		{"bad trace exporter", []string{"solve", "--trace", "jaeger", toggle}, exitUsage},
		{"missing model", []string{"solve", filepath.Join(dir, "missing.rn")}, exitModel},
		{"unmatched glob", []string{"solve", filepath.Join(dir, "*.none")}, exitModel},
		{"parse error", []string{"solve", broken}, exitModel},
		{"widening bound", []string{"solve", "--bound", "A=2", toggle}, exitBounds},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, _, stderr := run(t, tc.args...)
			assert.Equal(t, tc.want, code, stderr)
			assert.Contains(t, stderr, "Error:")
		})
	}
}

func TestSolve_ArchiveAndRuns(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "toggle.rn"), toggleText)
	db := filepath.Join(dir, "runs.db")
	metricsFile := filepath.Join(dir, "metrics.prom")

	code, _, stderr := run(t, "solve", "--db", db, "--metrics-file", metricsFile, path)
	require.Equal(t, exitOK, code, stderr)

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "steadyspace_steady_states_total")

	code, stdout, stderr := run(t, "runs", "--db", db)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "toggle")

	// The run id is the first column of the only data row.
	var id string
	for _, line := range strings.Split(stdout, "\n") {
		fields := strings.FieldsFunc(line, func(r rune) bool { return r == '│' || r == '|' || r == ' ' })
		if len(fields) > 1 && fields[1] == "toggle" {
			id = fields[0]
		}
	}
	require.NotEmpty(t, id)

	code, stdout, stderr = run(t, "runs", "--db", db, id)
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, "A,B\n0,0\n1,1\n", stdout)
}

func TestInspect(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "toggle.rn"), toggleText)

	code, stdout, stderr := run(t, "inspect", path)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "Model toggle")
	assert.Contains(t, stdout, "A -> B -> A")

	code, _, _ = run(t, "inspect", path+".missing")
	assert.Equal(t, exitModel, code)
}

func TestConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steadyspace.yaml")

	code, stdout, stderr := run(t, "config", "init", path)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, path)

	code, _, _ = run(t, "config", "init", path)
	assert.Equal(t, exitUsage, code, "existing file is kept")

	code, stdout, stderr = run(t, "config", "--config", path)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "suffix: _stable.csv")
}

func TestVersion(t *testing.T) {
	code, stdout, _ := run(t, "version")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, fmt.Sprintf("%s version %s (build: %s)\n", appName, Version, BuildTime), stdout)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, exitUsage, exitCode(errors.New("boom")))
	assert.Equal(t, exitModel, exitCode(&runner.Error{Kind: runner.KindModel, Err: errors.New("x")}))
	assert.Equal(t, exitBounds, exitCode(fmt.Errorf("wrapped: %w", &runner.Error{Kind: runner.KindBounds, Err: errors.New("x")})))
	assert.Equal(t, exitCompute, exitCode(&runner.Error{Kind: runner.KindCompute, Err: errors.New("x")}))
	assert.Equal(t, exitCompute, exitCode(&exitError{code: exitCompute, err: errors.New("x")}))
}

func TestParseBounds(t *testing.T) {
	got, err := parseBounds([]string{"A=1", " B = 0 ", "A=0"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"A": 0, "B": 0}, got)

	got, err = parseBounds(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	for _, bad := range []string{"A", "=1", "A=x", "A=-2", "1A=1"} {
		_, err = parseBounds([]string{bad})
		assert.Error(t, err, bad)
	}
}
