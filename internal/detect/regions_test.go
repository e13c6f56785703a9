package detect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embersql/embersql/internal/testutil"
)

func TestFindAllRegions_SingleCall(t *testing.T) {
	d := newTestDetector(t)
	dd := doc(`dbGetQuery(con, "SELECT * FROM t")`)

	regions := d.FindAllRegions(context.Background(), dd)
	require.Len(t, regions, 1)
	assert.Equal(t, "SELECT * FROM t", regions[0].Text)
	assert.Equal(t, "dbGetQuery", regions[0].FunctionName)
	assert.False(t, regions[0].Interpolating)
}

func TestFindAllRegions_MultipleCalls(t *testing.T) {
	d := newTestDetector(t)
	content := "dbGetQuery(con, \"SELECT 1\")\n" +
		"x <- 2\n" +
		"glue_sql(\"SELECT {x}\", .con = con)\n" +
		"dbExecute(con, \"DROP TABLE t\")"
	dd := doc(content)

	regions := d.FindAllRegions(context.Background(), dd)
	require.Len(t, regions, 3)

	assert.Equal(t, "SELECT 1", regions[0].Text)
	assert.Equal(t, "dbGetQuery", regions[0].FunctionName)
	assert.Equal(t, "SELECT {x}", regions[1].Text)
	assert.True(t, regions[1].Interpolating)
	assert.Equal(t, "DROP TABLE t", regions[2].Text)
	assert.Equal(t, "dbExecute", regions[2].FunctionName)
}

func TestFindAllRegions_CommentedCallSkipped(t *testing.T) {
	d := newTestDetector(t)
	content := "# dbGetQuery(con, \"SELECT 1\")\ndbGetQuery(con, \"SELECT 2\")"
	dd := doc(content)

	regions := d.FindAllRegions(context.Background(), dd)
	require.Len(t, regions, 1)
	assert.Equal(t, "SELECT 2", regions[0].Text)
}

func TestFindAllRegions_NamedArgFiltered(t *testing.T) {
	cfg := namedArgConfig()
	d := New(cfg, testutil.NewTestLogger(t))
	dd := doc(`foo(con, query = "SELECT 1", statement = "SELECT 2", "SELECT 3")`)

	regions := d.FindAllRegions(context.Background(), dd)
	require.Len(t, regions, 2)
	assert.Equal(t, "SELECT 2", regions[0].Text)
	assert.Equal(t, "SELECT 3", regions[1].Text)
}

func TestFindAllRegions_NestedParenInString(t *testing.T) {
	d := newTestDetector(t)
	dd := doc(`dbGetQuery(con, "SELECT ')' FROM t")` + "\n" + `f("unrelated")`)

	regions := d.FindAllRegions(context.Background(), dd)
	require.Len(t, regions, 1)
	assert.Equal(t, "SELECT ')' FROM t", regions[0].Text)
}

func TestFindAllRegions_MultilineRegion(t *testing.T) {
	d := newTestDetector(t)
	dd := doc("dbExecute(con,\n  \"UPDATE t SET x = 1\n   WHERE id = 2\")")

	regions := d.FindAllRegions(context.Background(), dd)
	require.Len(t, regions, 1)
	assert.True(t, regions[0].Multiline)
	assert.Equal(t, "UPDATE t SET x = 1\n   WHERE id = 2", regions[0].Text)
}

func TestFindAllRegions_DedupeOverlappingMatches(t *testing.T) {
	// The inner call's string is reachable from both calls; it must appear once.
	d := newTestDetector(t)
	dd := doc(`dbExecute(con, dbGetQuery(con, "SELECT 1"))`)

	regions := d.FindAllRegions(context.Background(), dd)
	require.Len(t, regions, 1)
	assert.Equal(t, "SELECT 1", regions[0].Text)
}

func TestFindAllRegions_OversizedDocumentSkipped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDocumentBytes = 10
	d := New(cfg, testutil.NewTestLogger(t))
	dd := doc(`dbGetQuery(con, "SELECT 1")`)

	assert.Empty(t, d.FindAllRegions(context.Background(), dd))
}

func TestFindAllRegions_Cancelled(t *testing.T) {
	d := newTestDetector(t)
	dd := doc(`dbGetQuery(con, "SELECT 1")`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Nil(t, d.FindAllRegions(ctx, dd))
}

func TestFindAllRegions_UnterminatedCall(t *testing.T) {
	d := newTestDetector(t)
	dd := doc(`dbGetQuery(con, "SELECT 1"`)

	regions := d.FindAllRegions(context.Background(), dd)
	require.Len(t, regions, 1)
	assert.Equal(t, "SELECT 1", regions[0].Text)
}
