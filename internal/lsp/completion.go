package lsp

import (
	"sort"
	"strings"

	"github.com/embersql/embersql/internal/document"
	"github.com/embersql/embersql/internal/interp"
	"github.com/embersql/embersql/pkg/sqltok"
)

// completionKeywords are offered inside every SQL fragment. Clause openers
// first so they sort above the long tail.
var completionKeywords = []string{
	"SELECT", "FROM", "WHERE", "GROUP BY", "ORDER BY", "HAVING",
	"LIMIT", "OFFSET", "JOIN", "LEFT JOIN", "INNER JOIN", "ON",
	"AND", "OR", "NOT", "IN", "IS NULL", "IS NOT NULL", "LIKE",
	"BETWEEN", "AS", "DISTINCT", "UNION", "CASE", "WHEN", "THEN",
	"ELSE", "END", "INSERT INTO", "VALUES", "UPDATE", "SET",
	"DELETE FROM", "CREATE TABLE", "DROP TABLE",
}

// getCompletions returns completion items for a position, or nil when the
// position is not inside a detected SQL fragment.
func (s *Server) getCompletions(params CompletionParams) []CompletionItem {
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil {
		return nil
	}

	sqlCtx := s.detector.DetectSQLContext(doc, params.Position)
	if sqlCtx == nil {
		return nil
	}

	// Inside {expr} the text is an R expression, not SQL.
	if sqlCtx.Interpolating {
		off := doc.FragmentOffset(sqlCtx.Range.Start, params.Position)
		if interp.IsInsideInterpolation(sqlCtx.Query, off) {
			return nil
		}
	}

	prefix := completionPrefix(sqlCtx.Query, doc.FragmentOffset(sqlCtx.Range.Start, params.Position))

	var items []CompletionItem
	for _, kw := range completionKeywords {
		if !matchesPrefix(kw, prefix) {
			continue
		}
		items = append(items, CompletionItem{
			Label:    kw,
			Kind:     CompletionItemKindKeyword,
			Detail:   "SQL keyword",
			SortText: "1_" + kw,
		})
	}

	items = append(items, s.identifierCompletions(doc, prefix)...)
	return items
}

// identifierCompletions harvests table and column names from every SQL
// fragment in the document. With no schema source available, names the user
// already typed elsewhere are the best signal.
func (s *Server) identifierCompletions(doc *document.Document, prefix string) []CompletionItem {
	type candidate struct {
		table bool
	}
	seen := map[string]candidate{}

	for _, region := range s.regionsFor(doc) {
		text := region.Text
		if region.Interpolating {
			text = interp.StripInterpolations(text)
		}
		tokens := sqltok.Tokenize(text)
		for i, tok := range tokens {
			if tok.Kind != sqltok.KindIdentifier || tok.Text == interp.StripPlaceholder {
				continue
			}
			c := seen[tok.Text]
			c.table = c.table || sqltok.IsTableRef(tokens, i)
			seen[tok.Text] = c
		}
	}

	var names []string
	for name := range seen {
		if matchesPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	items := make([]CompletionItem, 0, len(names))
	for _, name := range names {
		item := CompletionItem{
			Label:    name,
			Kind:     CompletionItemKindField,
			Detail:   "column",
			SortText: "2_" + name,
		}
		if seen[name].table {
			item.Kind = CompletionItemKindClass
			item.Detail = "table"
		}
		items = append(items, item)
	}
	return items
}

// completionPrefix returns the partial word immediately before the cursor
// offset within the fragment.
func completionPrefix(query string, off int) string {
	if off > len(query) {
		off = len(query)
	}
	start := off
	for start > 0 && isWordByte(query[start-1]) {
		start--
	}
	return query[start:off]
}

func matchesPrefix(label, prefix string) bool {
	if prefix == "" {
		return true
	}
	return strings.HasPrefix(strings.ToUpper(label), strings.ToUpper(prefix))
}

func isWordByte(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}
