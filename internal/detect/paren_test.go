package detect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchingClose_Simple(t *testing.T) {
	text := "f(a, b)"
	assert.Equal(t, 6, MatchingClose(text, 1, 0))
}

func TestMatchingClose_Nested(t *testing.T) {
	text := "f(g(h(x)), y)"
	assert.Equal(t, 12, MatchingClose(text, 1, 0))
	assert.Equal(t, 8, MatchingClose(text, 3, 0))
	assert.Equal(t, 7, MatchingClose(text, 5, 0))
}

func TestMatchingClose_ParenInsideString(t *testing.T) {
	// The ')' embedded in the quoted literal must not close the call.
	text := `dbGetQuery(con, "SELECT ')' FROM t")`
	got := MatchingClose(text, 10, 0)
	assert.Equal(t, len(text)-1, got)
}

func TestMatchingClose_EscapedQuoteInString(t *testing.T) {
	text := `f("a \" ) b", c)`
	assert.Equal(t, len(text)-1, MatchingClose(text, 1, 0))
}

func TestMatchingClose_Unterminated(t *testing.T) {
	assert.Equal(t, NotFound, MatchingClose("f(a, b", 1, 0))
}

func TestMatchingClose_NotAnOpenParen(t *testing.T) {
	assert.Equal(t, NotFound, MatchingClose("abc", 1, 0))
	assert.Equal(t, NotFound, MatchingClose("abc", -1, 0))
	assert.Equal(t, NotFound, MatchingClose("abc", 10, 0))
}

func TestMatchingClose_ScanLimit(t *testing.T) {
	text := "f(" + strings.Repeat("x", 100) + ")"
	assert.Equal(t, NotFound, MatchingClose(text, 1, 50))
	assert.Equal(t, len(text)-1, MatchingClose(text, 1, 200))
}
