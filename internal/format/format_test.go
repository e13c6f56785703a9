package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustFormat(t *testing.T, sql string, opts Options) string {
	t.Helper()
	out, err := New().Format(sql, opts)
	require.NoError(t, err)
	return out
}

func TestFormat_UppercasesKeywords(t *testing.T) {
	got := mustFormat(t, "select id from t where x = 1", DefaultOptions())
	assert.Equal(t, "SELECT id\nFROM t\nWHERE x = 1", got)
}

func TestFormat_ClauseBreaks(t *testing.T) {
	got := mustFormat(t, "SELECT a FROM t WHERE x = 1 ORDER BY a LIMIT 10", DefaultOptions())
	assert.Equal(t, "SELECT a\nFROM t\nWHERE x = 1\nORDER BY a\nLIMIT 10", got)
}

func TestFormat_JoinStaysTogether(t *testing.T) {
	got := mustFormat(t, "SELECT a FROM t LEFT OUTER JOIN u ON t.id = u.id", DefaultOptions())
	assert.Equal(t, "SELECT a\nFROM t\nLEFT OUTER JOIN u ON t.id = u.id", got)
}

func TestFormat_ExistingNewlinesKept(t *testing.T) {
	sql := "SELECT a\nFROM t"
	assert.Equal(t, sql, mustFormat(t, sql, DefaultOptions()))
}

func TestFormat_StringsAndCommentsUntouched(t *testing.T) {
	sql := "select 'select from where' -- from here\nfrom t"
	got := mustFormat(t, sql, DefaultOptions())
	assert.Equal(t, "SELECT 'select from where' -- from here\nFROM t", got)
}

func TestFormat_PunctuationPreserved(t *testing.T) {
	sql := "select count(*), max(x) from t"
	got := mustFormat(t, sql, DefaultOptions())
	assert.Equal(t, "SELECT count(*), max(x)\nFROM t", got)
}

func TestFormat_PlaceholderIdentifiersVerbatim(t *testing.T) {
	sql := "select ph_0a1b2c from ph_d3e4f5 where x = 1"
	got := mustFormat(t, sql, DefaultOptions())
	assert.Contains(t, got, "ph_0a1b2c")
	assert.Contains(t, got, "ph_d3e4f5")
	assert.Equal(t, 2, strings.Count(got, "\n"))
}

func TestFormat_DeleteFromStaysTogether(t *testing.T) {
	got := mustFormat(t, "delete from t where id = 2", DefaultOptions())
	assert.Equal(t, "DELETE FROM t\nWHERE id = 2", got)
}

func TestFormat_OptionsOff(t *testing.T) {
	sql := "select a from t where x = 1"
	assert.Equal(t, sql, mustFormat(t, sql, Options{}))

	got := mustFormat(t, sql, Options{UppercaseKeywords: true})
	assert.Equal(t, "SELECT a FROM t WHERE x = 1", got)

	got = mustFormat(t, sql, Options{BreakClauses: true})
	assert.Equal(t, "select a\nfrom t\nwhere x = 1", got)
}

func TestFormat_EmptyAndWhitespace(t *testing.T) {
	assert.Equal(t, "", mustFormat(t, "", DefaultOptions()))
	assert.Equal(t, "   ", mustFormat(t, "   ", DefaultOptions()))
}
