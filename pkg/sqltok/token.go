// Package sqltok is a lossy, error-free SQL tokenizer for editor features.
// It never fails on malformed input; partially typed SQL produces a partial
// token stream.
package sqltok

import "strings"

// Kind identifies the type of token.
type Kind int

// Kind constants for SQL token types.
const (
	KindKeyword Kind = iota
	KindFunction
	KindIdentifier
	KindString
	KindNumber
	KindOperator
	KindComment
)

func (k Kind) String() string {
	switch k {
	case KindKeyword:
		return "KEYWORD"
	case KindFunction:
		return "FUNCTION"
	case KindIdentifier:
		return "IDENTIFIER"
	case KindString:
		return "STRING"
	case KindNumber:
		return "NUMBER"
	case KindOperator:
		return "OPERATOR"
	case KindComment:
		return "COMMENT"
	default:
		return "UNKNOWN"
	}
}

// Token is a lexical token with its byte offset in the input.
type Token struct {
	Kind   Kind
	Text   string
	Offset int
}

var keywords = map[string]bool{
	"SELECT": true, "FROM": true, "WHERE": true, "GROUP": true, "BY": true,
	"HAVING": true, "ORDER": true, "LIMIT": true, "OFFSET": true,
	"JOIN": true, "INNER": true, "LEFT": true, "RIGHT": true, "FULL": true,
	"OUTER": true, "CROSS": true, "ON": true, "USING": true, "AS": true,
	"AND": true, "OR": true, "NOT": true, "IN": true, "IS": true,
	"NULL": true, "LIKE": true, "ILIKE": true, "BETWEEN": true,
	"UNION": true, "INTERSECT": true, "EXCEPT": true, "ALL": true,
	"DISTINCT": true, "CASE": true, "WHEN": true, "THEN": true,
	"ELSE": true, "END": true, "CAST": true, "EXISTS": true, "WITH": true,
	"ASC": true, "DESC": true, "NULLS": true, "FIRST": true, "LAST": true,
	"INSERT": true, "INTO": true, "VALUES": true, "UPDATE": true,
	"SET": true, "DELETE": true, "CREATE": true, "TABLE": true,
	"VIEW": true, "DROP": true, "ALTER": true, "IF": true, "REPLACE": true,
	"DEFAULT": true, "PRIMARY": true, "KEY": true, "FOREIGN": true,
	"REFERENCES": true, "INDEX": true, "TRUE": true, "FALSE": true,
	"OVER": true, "PARTITION": true, "RETURNING": true,
}

// tableContext holds the keywords after which an identifier names a table
// or view rather than a column.
var tableContext = map[string]bool{
	"FROM": true, "JOIN": true, "INTO": true, "TABLE": true, "VIEW": true,
	"INNER": true, "LEFT": true, "RIGHT": true, "FULL": true,
	"OUTER": true, "CROSS": true,
}

// IsKeyword reports whether word is a SQL keyword, case-insensitively.
func IsKeyword(word string) bool {
	return keywords[strings.ToUpper(word)]
}

// IsTableRef reports whether the identifier token at index i names a table.
// The nearest preceding keyword decides: FROM, JOIN and friends introduce
// table names, everything else column names. Presentation heuristic only.
func IsTableRef(tokens []Token, i int) bool {
	if i < 0 || i >= len(tokens) || tokens[i].Kind != KindIdentifier {
		return false
	}
	for j := i - 1; j >= 0; j-- {
		if tokens[j].Kind == KindKeyword {
			return tableContext[strings.ToUpper(tokens[j].Text)]
		}
	}
	return false
}
