package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cliconfig "github.com/embersql/embersql/internal/cli/config"
	"github.com/embersql/embersql/internal/detect"
	"github.com/embersql/embersql/internal/testutil"
)

func writeScript(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestScanner(t *testing.T, output string) *scanner {
	t.Helper()
	logger := testutil.NewTestLogger(t)
	return &scanner{
		detector: detect.New(detect.DefaultConfig(), logger),
		output:   output,
		jobs:     defaultScanJobs,
		log:      logger,
	}
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "load.R", "")
	writeScript(t, dir, "sub/query.r", "")
	writeScript(t, dir, "notes.txt", "")
	writeScript(t, dir, ".git/hook.R", "")

	files, err := collectFiles([]string{dir})
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(dir, "load.R"), files[0])
	assert.Equal(t, filepath.Join(dir, "sub", "query.r"), files[1])
}

func TestCollectFiles_ExplicitFileKept(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "notes.txt", "")

	files, err := collectFiles([]string{path})
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestCollectFiles_MissingPath(t *testing.T) {
	_, err := collectFiles([]string{filepath.Join(t.TempDir(), "absent")})
	require.Error(t, err)
}

func TestScanPaths(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "load.R", "x <- 1\ndbGetQuery(con, \"SELECT id FROM users\")\n")
	writeScript(t, dir, "report.R", "glue_sql(\"SELECT * FROM {tbl}\", .con = con)\n")

	s := newTestScanner(t, "table")
	results, err := s.scanPaths(t.Context(), []string{dir})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, filepath.Join(dir, "load.R"), results[0].File)
	assert.Equal(t, uint32(2), results[0].Line)
	assert.Equal(t, "dbGetQuery", results[0].Function)
	assert.False(t, results[0].Interpolating)
	assert.Equal(t, "SELECT id FROM users", results[0].Query)

	assert.Equal(t, "glue_sql", results[1].Function)
	assert.True(t, results[1].Interpolating)
}

func TestScanPaths_NoMatches(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "plain.R", "x <- mean(1:10)\n")

	s := newTestScanner(t, "table")
	results, err := s.scanPaths(t.Context(), []string{dir})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestPreviewQuery(t *testing.T) {
	assert.Equal(t, "SELECT 1", previewQuery("  SELECT\n  1  "))

	long := strings.Repeat("SELECT a, ", 20)
	preview := previewQuery(long)
	assert.Len(t, preview, 60)
	assert.True(t, strings.HasSuffix(preview, "..."))
}

func TestRenderTable(t *testing.T) {
	s := newTestScanner(t, "table")
	out := &bytes.Buffer{}
	require.NoError(t, s.render(out, []scanResult{
		{File: "a.R", Line: 2, Function: "dbGetQuery", Query: "SELECT 1"},
	}))

	assert.Contains(t, out.String(), "FUNCTION")
	assert.Contains(t, out.String(), "dbGetQuery")
	assert.Contains(t, out.String(), "(1 regions)")
}

func TestRenderTable_Empty(t *testing.T) {
	s := newTestScanner(t, "table")
	out := &bytes.Buffer{}
	require.NoError(t, s.render(out, nil))
	assert.Equal(t, "(0 regions)\n", out.String())
}

func TestRenderJSON(t *testing.T) {
	s := newTestScanner(t, "json")
	out := &bytes.Buffer{}
	require.NoError(t, s.render(out, []scanResult{
		{File: "a.R", Line: 2, Function: "glue_sql", Interpolating: true, Query: "SELECT {x}"},
	}))

	var decoded []scanResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "glue_sql", decoded[0].Function)
	assert.True(t, decoded[0].Interpolating)
}

func TestRenderJSON_EmptyIsArray(t *testing.T) {
	s := newTestScanner(t, "json")
	out := &bytes.Buffer{}
	require.NoError(t, s.render(out, nil))
	assert.Equal(t, "[]", strings.TrimSpace(out.String()))
}

func TestRenderCSV(t *testing.T) {
	s := newTestScanner(t, "csv")
	out := &bytes.Buffer{}
	require.NoError(t, s.render(out, []scanResult{
		{File: "a.R", Line: 2, Function: "dbGetQuery", Query: `SELECT "x", y`},
	}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "file,line,function,interpolating,multiline,query", lines[0])
	assert.Contains(t, lines[1], `"SELECT ""x"", y"`)
}

func TestScanCommand_Execute(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "load.R", "dbExecute(con, \"DELETE FROM t\")\n")
	t.Chdir(dir)
	t.Setenv("EMBERSQL_OUTPUT", "json")

	cliconfig.ResetConfig()
	_, err := cliconfig.LoadConfig("", nil)
	require.NoError(t, err)

	cmd := NewScanCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"."})
	require.NoError(t, cmd.Execute())

	var decoded []scanResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "dbExecute", decoded[0].Function)
	assert.Equal(t, "DELETE FROM t", decoded[0].Query)
}
