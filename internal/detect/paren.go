package detect

// NotFound is returned by MatchingClose when no balancing paren exists within
// the scanned window. Callers treat it as "call extends to end of buffer",
// a deliberate leniency for code still being typed.
const NotFound = -1

// quoteChars are the R string delimiters recognized by the scanners.
const quoteChars = "\"'`"

func isQuoteChar(ch byte) bool {
	return ch == '"' || ch == '\'' || ch == '`'
}

// escaped reports whether text[i] is preceded by an odd number of backslashes.
func escaped(text string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && text[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

// MatchingClose returns the offset of the ')' balancing the '(' at open,
// skipping parens that occur inside quoted strings. maxScan bounds the scan
// distance so a pathological buffer stays linear-bounded; 0 means no limit.
func MatchingClose(text string, open int, maxScan int) int {
	if open < 0 || open >= len(text) || text[open] != '(' {
		return NotFound
	}

	end := len(text)
	if maxScan > 0 && open+maxScan < end {
		end = open + maxScan
	}

	depth := 1
	var quote byte
	for i := open + 1; i < end; i++ {
		ch := text[i]

		if quote != 0 {
			if ch == quote && !escaped(text, i) {
				quote = 0
			}
			continue
		}

		switch {
		case isQuoteChar(ch) && !escaped(text, i):
			quote = ch
		case ch == '(':
			depth++
		case ch == ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return NotFound
}
