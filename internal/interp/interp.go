// Package interp handles {expr} interpolation spans in SQL carried by
// interpolating functions such as glue_sql. All operations share one
// brace-depth state machine so the edge cases around nested strings and
// comments behave identically everywhere.
package interp

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// StripPlaceholder replaces interpolation spans in StripInterpolations output.
const StripPlaceholder = "PLACEHOLDER_VALUE"

// Replacement maps a generated placeholder back to the verbatim {expr} text
// it stands in for.
type Replacement struct {
	Placeholder string
	Original    string
}

type braceEvent int

const (
	evNone braceEvent = iota
	evOpen            // depth went 0 -> 1, at a top-level '{'
	evClose           // depth went 1 -> 0, at a top-level '}'
)

// scanState tracks brace depth across a forward scan. At depth 0 the text is
// SQL: '--' comments run to end of line and single or double quotes open SQL
// string literals. At depth > 0 the text is a host-language expression with
// its own quote characters. Both levels use doubled-quote escaping, so a
// repeated quote char is a literal quote, not a terminator.
type scanState struct {
	depth   int
	quote   byte // active quote char at the current level, 0 when none
	comment bool
}

// step consumes the byte at i, returning the next index and any depth
// transition. A doubled quote consumes two bytes.
func (s *scanState) step(text string, i int) (int, braceEvent) {
	c := text[i]

	if s.comment {
		if c == '\n' {
			s.comment = false
		}
		return i + 1, evNone
	}

	if s.quote != 0 {
		if c == s.quote {
			if i+1 < len(text) && text[i+1] == s.quote {
				return i + 2, evNone
			}
			s.quote = 0
		}
		return i + 1, evNone
	}

	switch {
	case c == '\'' || c == '"' || (s.depth > 0 && c == '`'):
		s.quote = c
	case s.depth == 0 && c == '-' && i+1 < len(text) && text[i+1] == '-':
		s.comment = true
		return i + 2, evNone
	case c == '{':
		s.depth++
		if s.depth == 1 {
			return i + 1, evOpen
		}
	case c == '}':
		if s.depth > 0 {
			s.depth--
			if s.depth == 0 {
				return i + 1, evClose
			}
		}
	}
	return i + 1, evNone
}

// IsInsideInterpolation reports whether offset falls inside an {expr} span.
func IsInsideInterpolation(text string, offset int) bool {
	if offset < 0 {
		return false
	}
	if offset > len(text) {
		offset = len(text)
	}
	var s scanState
	for i := 0; i < offset; {
		i, _ = s.step(text, i)
	}
	return s.depth > 0
}

// Span is a half-open byte range [Start, End) of a complete top-level
// {expr} span, braces included.
type Span struct {
	Start int
	End   int
}

// Spans returns the complete top-level interpolation spans in text, in order.
func Spans(text string) []Span {
	var spans []Span
	var s scanState
	start := 0
	for i := 0; i < len(text); {
		next, ev := s.step(text, i)
		switch ev {
		case evOpen:
			start = i
		case evClose:
			spans = append(spans, Span{Start: start, End: next})
		}
		i = next
	}
	return spans
}

// StripInterpolations replaces every complete top-level {expr} span with
// StripPlaceholder. Incomplete spans and everything outside them pass through
// verbatim, so diagnostic checks on the result see plain SQL.
func StripInterpolations(text string) string {
	var b strings.Builder
	var s scanState
	segStart := 0
	for i := 0; i < len(text); {
		next, ev := s.step(text, i)
		switch ev {
		case evOpen:
			b.WriteString(text[segStart:i])
			segStart = i
		case evClose:
			b.WriteString(StripPlaceholder)
			segStart = next
		}
		i = next
	}
	b.WriteString(text[segStart:])
	return b.String()
}

// ExtractInterpolations replaces each complete top-level {expr} span with a
// freshly generated placeholder identifier and records the mapping. The
// result is safe to hand to a SQL formatter that does not understand braces;
// RestoreInterpolations undoes the substitution byte for byte.
func ExtractInterpolations(text string) (string, []Replacement) {
	var b strings.Builder
	var reps []Replacement
	var s scanState
	segStart := 0
	spanStart := 0
	for i := 0; i < len(text); {
		next, ev := s.step(text, i)
		switch ev {
		case evOpen:
			b.WriteString(text[segStart:i])
			spanStart = i
			segStart = i
		case evClose:
			ph := newPlaceholder(text)
			reps = append(reps, Replacement{Placeholder: ph, Original: text[spanStart:next]})
			b.WriteString(ph)
			segStart = next
		}
		i = next
	}
	b.WriteString(text[segStart:])
	return b.String(), reps
}

// RestoreInterpolations substitutes each placeholder back to its original
// {expr} text. A missing placeholder means the formatter dropped or mangled
// it; the caller must treat that as fatal and discard the result.
func RestoreInterpolations(cleaned string, reps []Replacement) (string, error) {
	out := cleaned
	for _, rep := range reps {
		if !strings.Contains(out, rep.Placeholder) {
			return "", fmt.Errorf("restore interpolations: placeholder %s missing from text", rep.Placeholder)
		}
		out = strings.Replace(out, rep.Placeholder, rep.Original, 1)
	}
	return out, nil
}

// newPlaceholder generates an identifier guaranteed not to occur in text.
func newPlaceholder(text string) string {
	for {
		ph := "ph_" + strings.ReplaceAll(uuid.NewString(), "-", "")
		if !strings.Contains(text, ph) {
			return ph
		}
	}
}
