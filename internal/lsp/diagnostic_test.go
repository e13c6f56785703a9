package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics_CleanFragment(t *testing.T) {
	s, _ := newTestServer(t, "")
	doc := openDoc(t, s, `dbGetQuery(con, "SELECT count(*) FROM t")`)

	assert.Empty(t, s.diagnosticsFor(doc))
}

func TestDiagnostics_UnclosedParen(t *testing.T) {
	s, _ := newTestServer(t, "")
	doc := openDoc(t, s, `dbGetQuery(con, "SELECT count( FROM t")`)

	diags := s.diagnosticsFor(doc)
	require.Len(t, diags, 1)
	assert.Equal(t, "unmatched-paren", diags[0].Code)
	assert.Contains(t, diags[0].Message, "unclosed (")
	assert.Equal(t, DiagnosticSeverityWarning, diags[0].Severity)
	assert.Equal(t, diagnosticSource, diags[0].Source)
}

func TestDiagnostics_UnmatchedCloseParen(t *testing.T) {
	s, _ := newTestServer(t, "")
	doc := openDoc(t, s, `dbGetQuery(con, "SELECT a) FROM t")`)

	diags := s.diagnosticsFor(doc)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "unmatched )")
}

func TestDiagnostics_ParenInsideSQLStringIgnored(t *testing.T) {
	s, _ := newTestServer(t, "")
	doc := openDoc(t, s, `dbGetQuery(con, "SELECT ':)' FROM t")`)

	assert.Empty(t, s.diagnosticsFor(doc))
}

func TestDiagnostics_ParenInsideSQLCommentIgnored(t *testing.T) {
	s, _ := newTestServer(t, "")
	doc := openDoc(t, s, "dbExecute(con,\n  \"SELECT 1 -- :)\n   FROM t\")")

	assert.Empty(t, s.diagnosticsFor(doc))
}

func TestDiagnostics_UnterminatedSQLString(t *testing.T) {
	s, _ := newTestServer(t, "")
	doc := openDoc(t, s, `dbGetQuery(con, "SELECT 'oops")`)

	diags := s.diagnosticsFor(doc)
	require.Len(t, diags, 1)
	assert.Equal(t, "unterminated-string", diags[0].Code)

	// The range points at the literal itself.
	assert.Equal(t, pos(0, 24), diags[0].Range.Start)
	assert.Equal(t, pos(0, 29), diags[0].Range.End)
}

func TestDiagnostics_UnterminatedInterpolation(t *testing.T) {
	s, _ := newTestServer(t, "")
	doc := openDoc(t, s, `glue_sql("SELECT {x FROM t", .con = con)`)

	diags := s.diagnosticsFor(doc)
	require.Len(t, diags, 1)
	assert.Equal(t, "unterminated-interpolation", diags[0].Code)
}

func TestDiagnostics_InterpolationContentsHidden(t *testing.T) {
	// Parens and quotes inside {expr} belong to R, not SQL.
	s, _ := newTestServer(t, "")
	doc := openDoc(t, s, `glue_sql("SELECT {f(x} FROM {paste0(')')} t", .con = con)`)

	// A '}' closes the span regardless of unbalanced R parens inside it, so
	// nothing in either span may leak into the SQL paren check.
	for _, d := range s.diagnosticsFor(doc) {
		assert.NotEqual(t, "unmatched-paren", d.Code)
	}
}

func TestDiagnostics_CompleteInterpolationsClean(t *testing.T) {
	s, _ := newTestServer(t, "")
	doc := openDoc(t, s, `glue_sql("SELECT {f(x)} FROM {tbl} WHERE id = {id}", .con = con)`)

	assert.Empty(t, s.diagnosticsFor(doc))
}

func TestDiagnostics_MultipleRegions(t *testing.T) {
	s, _ := newTestServer(t, "")
	doc := openDoc(t, s, "dbGetQuery(con, \"SELECT count( FROM t\")\ndbExecute(con, \"SELECT 'oops\")")

	diags := s.diagnosticsFor(doc)
	require.Len(t, diags, 2)
	assert.Equal(t, "unmatched-paren", diags[0].Code)
	assert.Equal(t, "unterminated-string", diags[1].Code)
}

func TestDiagnostics_NoRegions(t *testing.T) {
	s, _ := newTestServer(t, "")
	doc := openDoc(t, s, "x <- 1 + 2\n")

	assert.Empty(t, s.diagnosticsFor(doc))
}
