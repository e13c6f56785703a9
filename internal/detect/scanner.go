package detect

import (
	"github.com/embersql/embersql/internal/document"
)

// lineCommentStart returns the column at which an unquoted '#' starts a
// comment on the line, or -1. A single forward pass tracks string state so a
// '#' inside a quoted literal does not count. Lines that are the interior of
// a multi-line string are outside this function's knowledge; the scanner's
// range checks absorb the resulting artifacts.
func lineCommentStart(line string) int {
	var quote byte
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if quote != 0 {
			if ch == quote && !escaped(line, i) {
				quote = 0
			}
			continue
		}
		switch {
		case isQuoteChar(ch) && !escaped(line, i):
			quote = ch
		case ch == '#':
			return i
		}
	}
	return -1
}

// StringRangeAt finds the quoted-string range enclosing pos, quote characters
// excluded. It searches backward within cfg.LookbackLines for an unescaped,
// uncommented quote, then forward for the matching close of the same kind,
// across line boundaries. Returns false when the position is not inside a
// string; that is the routine outcome during normal typing.
func (d *Detector) StringRangeAt(doc *document.Document, pos document.Position) (document.Range, bool) {
	if doc == nil || len(doc.Content) == 0 {
		return document.Range{}, false
	}

	content := doc.Content
	posOff := doc.PositionToOffset(pos)

	lowLine := int(pos.Line) - d.cfg.LookbackLines
	if lowLine < 0 {
		lowLine = 0
	}
	lowOff := doc.PositionToOffset(document.Position{Line: uint32(lowLine), Character: 0})

	// Backward scan for an unescaped quote, skipping commented occurrences.
	openQuote := -1
	var quote byte
	curLine := int(pos.Line)
	commentCol := lineCommentStart(doc.GetLine(curLine))
	lineStart := doc.PositionToOffset(document.Position{Line: uint32(curLine), Character: 0})

	for i := posOff - 1; i >= lowOff; i-- {
		if i < lineStart {
			curLine--
			lineStart = doc.PositionToOffset(document.Position{Line: uint32(curLine), Character: 0})
			commentCol = lineCommentStart(doc.GetLine(curLine))
		}
		ch := content[i]
		if !isQuoteChar(ch) || escaped(content, i) {
			continue
		}
		if commentCol >= 0 && i-lineStart >= commentCol {
			continue // quote inside a line comment is not a boundary
		}
		openQuote = i
		quote = ch
		break
	}

	if openQuote == -1 {
		return document.Range{}, false
	}

	// Forward scan for the matching close of the same kind. The scan distance
	// shares the paren matcher's bound as a general safeguard.
	closeQuote := -1
	scanEnd := len(content)
	if d.cfg.MaxParenScan > 0 && openQuote+d.cfg.MaxParenScan < scanEnd {
		scanEnd = openQuote + d.cfg.MaxParenScan
	}
	for j := openQuote + 1; j < scanEnd; j++ {
		if content[j] == quote && !escaped(content, j) {
			closeQuote = j
			break
		}
	}

	if closeQuote == -1 {
		return document.Range{}, false
	}

	start := openQuote + 1
	// Reject backward-scan artifacts. A position after the range end is still
	// accepted, to support "about to close" cursors.
	if closeQuote < start || posOff < start {
		return document.Range{}, false
	}

	return document.Range{
		Start: doc.OffsetToPosition(start),
		End:   doc.OffsetToPosition(closeQuote),
	}, true
}
