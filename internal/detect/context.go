package detect

import (
	"regexp"
	"strings"
	"sync"

	"github.com/embersql/embersql/internal/document"
)

// callPattern matches `<name>(` where the name is not the tail of a longer
// identifier. R identifiers may contain letters, digits, '.' and '_'.
var (
	callPatternMu    sync.Mutex
	callPatternCache = make(map[string]*regexp.Regexp)
)

func callPattern(name string) *regexp.Regexp {
	callPatternMu.Lock()
	defer callPatternMu.Unlock()
	if re, ok := callPatternCache[name]; ok {
		return re
	}
	re := regexp.MustCompile(`(^|[^A-Za-z0-9._])` + regexp.QuoteMeta(name) + `\s*\(`)
	callPatternCache[name] = re
	return re
}

// namedArgPattern matches an argument name followed by `=` at the end of the
// text preceding an opening quote. `==`, `<=`, `>=` and `!=` do not match
// because the trailing anchor forbids a second operator character.
var namedArgPattern = regexp.MustCompile(`(?:^|[(,\s])([A-Za-z.][A-Za-z0-9._]*)\s*=\s*$`)

// FunctionContextOf determines whether the string starting at stringStart sits
// inside the argument list of a configured SQL-bearing function call, and
// applies the named-argument filter. stringStart is the content start of the
// string (one past the opening quote).
func (d *Detector) FunctionContextOf(doc *document.Document, stringStart document.Position) (string, bool) {
	if doc == nil {
		return "", false
	}

	// Window of lines ending at the string's line, so the function name may
	// sit several lines above the string, as auto-formatters produce.
	lowLine := int(stringStart.Line) - d.cfg.LookbackLines
	if lowLine < 0 {
		lowLine = 0
	}
	windowStart := doc.PositionToOffset(document.Position{Line: uint32(lowLine), Character: 0})
	windowEnd := len(doc.Content)
	if next := int(stringStart.Line) + 1; next < doc.LineCount() {
		windowEnd = doc.PositionToOffset(document.Position{Line: uint32(next), Character: 0}) - 1
	}
	window := doc.Content[windowStart:windowEnd]
	target := doc.PositionToOffset(stringStart) - windowStart
	if target < 0 || target > len(window) {
		return "", false
	}

	for _, name := range d.allFunctions() {
		for _, m := range callPattern(name).FindAllStringIndex(window, d.cfg.MaxFunctionMatches) {
			open := m[1] - 1 // the '(' ends the match
			if open >= target {
				break // matches are ordered; later calls cannot contain the string
			}
			closeOff := MatchingClose(window, open, d.cfg.MaxParenScan)
			// NotFound means the call extends past the window or buffer end;
			// treat the span as open-ended.
			if closeOff != NotFound && target >= closeOff {
				continue
			}
			if !d.allowNamedArg(window, target, name) {
				return "", false
			}
			return name, true
		}
	}

	return "", false
}

// allowNamedArg applies the named-argument filter: a string preceded by
// `name =` is only a query when the function is non-interpolating and the
// parameter name is a configured carrier (e.g. "statement"). Interpolating
// functions treat every keyword argument as non-query.
func (d *Detector) allowNamedArg(window string, target int, fn string) bool {
	quoteOff := target - 1 // the opening quote
	if quoteOff < 0 {
		return true
	}
	lo := quoteOff - d.cfg.NamedArgLookback
	if lo < 0 {
		lo = 0
	}
	m := namedArgPattern.FindStringSubmatch(window[lo:quoteOff])
	if m == nil {
		return true // positional argument
	}
	if d.interp[fn] {
		return false
	}
	arg := m[1]
	for _, carrier := range d.cfg.CarrierParams {
		if strings.EqualFold(arg, carrier) {
			return true
		}
	}
	return false
}
