package lsp

import (
	"fmt"
	"strings"

	"github.com/embersql/embersql/internal/interp"
	"github.com/embersql/embersql/pkg/sqltok"
)

// getHover describes the SQL token or interpolation under the cursor.
// Returns nil outside detected SQL fragments.
func (s *Server) getHover(params HoverParams) *Hover {
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil {
		return nil
	}

	sqlCtx := s.detector.DetectSQLContext(doc, params.Position)
	if sqlCtx == nil {
		return nil
	}

	off := doc.FragmentOffset(sqlCtx.Range.Start, params.Position)

	if sqlCtx.Interpolating {
		for _, span := range interp.Spans(sqlCtx.Query) {
			if off < span.Start || off >= span.End {
				continue
			}
			r := Range{
				Start: doc.FragmentPosition(sqlCtx.Range.Start, span.Start),
				End:   doc.FragmentPosition(sqlCtx.Range.Start, span.End),
			}
			return &Hover{
				Contents: MarkupContent{
					Kind: MarkupKindMarkdown,
					Value: fmt.Sprintf("R interpolation `%s`\n\nEvaluated and substituted by `%s` at call time.",
						sqlCtx.Query[span.Start:span.End], sqlCtx.FunctionName),
				},
				Range: &r,
			}
		}
	}

	text := sqlCtx.Query
	if sqlCtx.Interpolating {
		text = interp.StripInterpolations(text)
	}
	tokens := sqltok.Tokenize(text)
	for i, tok := range tokens {
		if off < tok.Offset || off >= tok.Offset+len(tok.Text) {
			continue
		}
		value := describeToken(tokens, i, sqlCtx.FunctionName)
		if value == "" {
			return nil
		}
		// Token offsets shift once interpolations are stripped, so only
		// plain fragments get a precise highlight range.
		var r *Range
		if !sqlCtx.Interpolating {
			hr := Range{
				Start: doc.FragmentPosition(sqlCtx.Range.Start, tok.Offset),
				End:   doc.FragmentPosition(sqlCtx.Range.Start, tok.Offset+len(tok.Text)),
			}
			r = &hr
		}
		return &Hover{
			Contents: MarkupContent{Kind: MarkupKindMarkdown, Value: value},
			Range:    r,
		}
	}
	return nil
}

func describeToken(tokens []sqltok.Token, i int, fnName string) string {
	tok := tokens[i]
	switch tok.Kind {
	case sqltok.KindKeyword:
		return fmt.Sprintf("SQL keyword `%s`\n\nInside a `%s` call.", strings.ToUpper(tok.Text), fnName)
	case sqltok.KindFunction:
		return fmt.Sprintf("SQL function `%s`", tok.Text)
	case sqltok.KindIdentifier:
		if tok.Text == interp.StripPlaceholder {
			return ""
		}
		if sqltok.IsTableRef(tokens, i) {
			return fmt.Sprintf("Table `%s`", tok.Text)
		}
		return fmt.Sprintf("Column `%s`", tok.Text)
	case sqltok.KindString:
		return "SQL string literal"
	case sqltok.KindNumber:
		return "Numeric literal"
	default:
		return ""
	}
}
