package sqltok

// Tokenize scans sql left to right and returns its tokens. Characters that
// fit no token class are skipped, so the result is always well formed even
// when the input is not.
func Tokenize(sql string) []Token {
	l := &lexer{input: sql}
	var tokens []Token
	for {
		tok, ok := l.next()
		if !ok {
			break
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

type lexer struct {
	input string
	pos   int
}

func (l *lexer) peek() byte {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

func (l *lexer) next() (Token, bool) {
	for l.pos < len(l.input) {
		if isSpace(l.input[l.pos]) {
			l.pos++
			continue
		}

		start := l.pos
		ch := l.input[l.pos]

		switch {
		case ch == '-' && l.peek() == '-':
			return l.readComment(start), true
		case ch == '\'' || ch == '"':
			return l.readString(start, ch), true
		case isDigit(ch):
			return l.readNumber(start), true
		case isIdentStart(ch):
			return l.readWord(start), true
		}

		if op, width := l.matchOperator(); width > 0 {
			l.pos += width
			return Token{Kind: KindOperator, Text: op, Offset: start}, true
		}

		// Not part of any token class. Skip it and keep going.
		l.pos++
	}
	return Token{}, false
}

// readComment consumes -- to end of line, newline excluded.
func (l *lexer) readComment(start int) Token {
	for l.pos < len(l.input) && l.input[l.pos] != '\n' {
		l.pos++
	}
	return Token{Kind: KindComment, Text: l.input[start:l.pos], Offset: start}
}

// readString consumes a quoted literal, quotes included. Both backslash
// escapes and doubled quotes are escapes. An unterminated literal runs to
// the end of the input.
func (l *lexer) readString(start int, quote byte) Token {
	l.pos++
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '\\' {
			l.pos += 2
			continue
		}
		if ch == quote {
			if l.peek() == quote {
				l.pos += 2
				continue
			}
			l.pos++
			break
		}
		l.pos++
	}
	if l.pos > len(l.input) {
		l.pos = len(l.input)
	}
	return Token{Kind: KindString, Text: l.input[start:l.pos], Offset: start}
}

// readNumber consumes digits with at most one embedded decimal point.
func (l *lexer) readNumber(start int) Token {
	seenDot := false
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '.' && !seenDot && isDigit(l.peek()) {
			seenDot = true
			l.pos++
			continue
		}
		if !isDigit(ch) {
			break
		}
		l.pos++
	}
	return Token{Kind: KindNumber, Text: l.input[start:l.pos], Offset: start}
}

// readWord consumes an identifier and classifies it as a keyword, a function
// when a '(' follows, or a plain identifier.
func (l *lexer) readWord(start int) Token {
	for l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
		l.pos++
	}
	text := l.input[start:l.pos]

	if IsKeyword(text) {
		return Token{Kind: KindKeyword, Text: text, Offset: start}
	}

	j := l.pos
	for j < len(l.input) && isSpace(l.input[j]) {
		j++
	}
	if j < len(l.input) && l.input[j] == '(' {
		return Token{Kind: KindFunction, Text: text, Offset: start}
	}
	return Token{Kind: KindIdentifier, Text: text, Offset: start}
}

// matchOperator tries the two-byte operators before the one-byte ones.
func (l *lexer) matchOperator() (string, int) {
	if l.pos+1 < len(l.input) {
		two := l.input[l.pos : l.pos+2]
		switch two {
		case "<=", ">=", "<>", "!=", "||":
			return two, 2
		}
	}
	switch l.input[l.pos] {
	case '=', '<', '>', '+', '-', '*', '/', '%':
		return string(l.input[l.pos]), 1
	}
	return "", 0
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
