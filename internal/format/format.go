// Package format pretty-prints SQL fragments. The formatter works on token
// spans over the original text, so every byte it does not explicitly touch
// passes through unchanged.
package format

import (
	"strings"

	"github.com/embersql/embersql/pkg/sqltok"
)

// Options controls which rewrites the formatter applies.
type Options struct {
	UppercaseKeywords bool
	BreakClauses      bool
}

// DefaultOptions returns the formatter defaults.
func DefaultOptions() Options {
	return Options{
		UppercaseKeywords: true,
		BreakClauses:      true,
	}
}

// Formatter rewrites a SQL fragment. Implementations must preserve every
// identifier verbatim; query placeholders travel through as identifiers.
type Formatter interface {
	Format(sql string, opts Options) (string, error)
}

// Basic is the built-in formatter: uppercases keywords and starts major
// clauses on their own line.
type Basic struct{}

// New creates a Basic formatter.
func New() *Basic {
	return &Basic{}
}

// clauseStart holds keywords that begin a new clause line.
var clauseStart = map[string]bool{
	"FROM": true, "WHERE": true, "GROUP": true, "ORDER": true,
	"HAVING": true, "LIMIT": true, "OFFSET": true,
	"UNION": true, "INTERSECT": true, "EXCEPT": true,
	"JOIN": true, "INNER": true, "LEFT": true, "RIGHT": true,
	"FULL": true, "CROSS": true,
	"VALUES": true, "SET": true, "RETURNING": true,
}

// joinQualifier holds keywords that precede JOIN or OUTER within one clause.
var joinQualifier = map[string]bool{
	"INNER": true, "LEFT": true, "RIGHT": true, "FULL": true,
	"CROSS": true, "OUTER": true,
}

// Format applies the enabled rewrites to sql. Text inside string literals
// and comments is never modified.
func (f *Basic) Format(sql string, opts Options) (string, error) {
	tokens := sqltok.Tokenize(sql)

	var b strings.Builder
	b.Grow(len(sql))
	last := 0
	for i, tok := range tokens {
		gap := sql[last:tok.Offset]
		if opts.BreakClauses && f.breakBefore(tokens, i) {
			gap = breakGap(gap)
		}
		b.WriteString(gap)

		text := tok.Text
		if opts.UppercaseKeywords && tok.Kind == sqltok.KindKeyword {
			text = strings.ToUpper(text)
		}
		b.WriteString(text)
		last = tok.Offset + len(tok.Text)
	}
	b.WriteString(sql[last:])
	return b.String(), nil
}

// breakBefore reports whether token i should start a new line. OUTER and
// JOIN stay on the line their qualifier opened.
func (f *Basic) breakBefore(tokens []sqltok.Token, i int) bool {
	tok := tokens[i]
	if tok.Kind != sqltok.KindKeyword {
		return false
	}
	word := strings.ToUpper(tok.Text)
	if !clauseStart[word] {
		return false
	}
	if (word == "JOIN" || word == "OUTER") && i > 0 {
		prev := tokens[i-1]
		if prev.Kind == sqltok.KindKeyword && joinQualifier[strings.ToUpper(prev.Text)] {
			return false
		}
	}
	if word == "FROM" && i > 0 {
		prev := tokens[i-1]
		if prev.Kind == sqltok.KindKeyword && strings.EqualFold(prev.Text, "DELETE") {
			return false
		}
	}
	return true
}

// breakGap turns the trailing run of spaces before a clause keyword into a
// newline. Gaps with no trailing space, or already ending in a newline, pass
// through so existing layout survives.
func breakGap(gap string) string {
	trimmed := strings.TrimRight(gap, " \t")
	if trimmed == gap {
		return gap
	}
	if strings.HasSuffix(trimmed, "\n") {
		return trimmed
	}
	return trimmed + "\n"
}
