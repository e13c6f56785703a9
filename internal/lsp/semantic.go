package lsp

import (
	"sort"
	"strings"

	"github.com/embersql/embersql/internal/detect"
	"github.com/embersql/embersql/internal/document"
	"github.com/embersql/embersql/internal/interp"
	"github.com/embersql/embersql/pkg/sqltok"
)

// semanticTokenTypes is the legend advertised at initialize time. Indices
// into this slice go onto the wire.
var semanticTokenTypes = []string{
	"keyword",  // 0
	"function", // 1
	"variable", // 2 column-like identifiers
	"type",     // 3 table-like identifiers
	"string",   // 4
	"number",   // 5
	"operator", // 6
	"comment",  // 7
	"macro",    // 8 {expr} interpolations
}

const (
	tokKeyword uint32 = iota
	tokFunction
	tokVariable
	tokType
	tokString
	tokNumber
	tokOperator
	tokComment
	tokMacro
)

// semEntry is one token in absolute document coordinates.
type semEntry struct {
	line   uint32
	char   uint32
	length uint32
	typ    uint32
}

// semanticTokensFor highlights every SQL fragment in the document and
// delta-encodes the result per the LSP semantic token format.
func (s *Server) semanticTokensFor(doc *document.Document) []uint32 {
	var entries []semEntry
	for _, region := range s.regionsFor(doc) {
		entries = append(entries, regionEntries(doc, region)...)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].line != entries[j].line {
			return entries[i].line < entries[j].line
		}
		return entries[i].char < entries[j].char
	})

	data := make([]uint32, 0, len(entries)*5)
	var prevLine, prevChar uint32
	for _, e := range entries {
		deltaLine := e.line - prevLine
		deltaChar := e.char
		if deltaLine == 0 {
			deltaChar = e.char - prevChar
		}
		data = append(data, deltaLine, deltaChar, e.length, e.typ, 0)
		prevLine = e.line
		prevChar = e.char
	}
	return data
}

// regionEntries produces the token entries of one SQL fragment. In
// interpolating fragments the {expr} spans win over whatever the SQL
// tokenizer saw in the same bytes.
func regionEntries(doc *document.Document, region detect.Region) []semEntry {
	var entries []semEntry

	var spans []interp.Span
	if region.Interpolating {
		spans = interp.Spans(region.Text)
	}
	for _, span := range spans {
		entries = append(entries, sliceEntries(doc, region.Range.Start, region.Text, span.Start, span.End, tokMacro)...)
	}

	tokens := sqltok.Tokenize(region.Text)
	for i, tok := range tokens {
		if overlapsSpan(spans, tok.Offset, tok.Offset+len(tok.Text)) {
			continue
		}
		entries = append(entries, sliceEntries(doc, region.Range.Start, region.Text,
			tok.Offset, tok.Offset+len(tok.Text), tokenType(tokens, i))...)
	}
	return entries
}

func tokenType(tokens []sqltok.Token, i int) uint32 {
	switch tokens[i].Kind {
	case sqltok.KindKeyword:
		return tokKeyword
	case sqltok.KindFunction:
		return tokFunction
	case sqltok.KindString:
		return tokString
	case sqltok.KindNumber:
		return tokNumber
	case sqltok.KindOperator:
		return tokOperator
	case sqltok.KindComment:
		return tokComment
	default:
		if sqltok.IsTableRef(tokens, i) {
			return tokType
		}
		return tokVariable
	}
}

// sliceEntries converts a byte span of the fragment into entries, splitting
// at newlines because semantic tokens cannot cross lines.
func sliceEntries(doc *document.Document, refStart Position, text string, start, end int, typ uint32) []semEntry {
	var entries []semEntry
	for start < end {
		segEnd := end
		if nl := strings.IndexByte(text[start:end], '\n'); nl >= 0 {
			segEnd = start + nl
		}
		if segEnd > start {
			pos := doc.FragmentPosition(refStart, start)
			entries = append(entries, semEntry{
				line:   pos.Line,
				char:   pos.Character,
				length: uint32(segEnd - start),
				typ:    typ,
			})
		}
		start = segEnd + 1
	}
	return entries
}

func overlapsSpan(spans []interp.Span, start, end int) bool {
	for _, span := range spans {
		if start < span.End && end > span.Start {
			return true
		}
	}
	return false
}
