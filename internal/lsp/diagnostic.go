package lsp

import (
	"github.com/embersql/embersql/internal/detect"
	"github.com/embersql/embersql/internal/document"
	"github.com/embersql/embersql/internal/interp"
	"github.com/embersql/embersql/pkg/sqltok"
)

const diagnosticSource = "embersql"

// publishDiagnostics runs the checks for a document and pushes the result.
func (s *Server) publishDiagnostics(uri string) {
	doc := s.documents.Get(uri)

	diagnostics := []Diagnostic{}
	if doc != nil {
		diagnostics = s.diagnosticsFor(doc)
	}

	s.sendNotification("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// diagnosticsFor checks every SQL region of the document. All findings are
// advisory; the user is usually mid-keystroke.
func (s *Server) diagnosticsFor(doc *document.Document) []Diagnostic {
	diagnostics := []Diagnostic{}
	for _, region := range s.regionsFor(doc) {
		diagnostics = append(diagnostics, checkRegion(doc, region)...)
	}
	return diagnostics
}

// checkRegion inspects one SQL fragment. Interpolations are stripped first so
// an {expr} span never trips the SQL checks or hides its own braces.
func checkRegion(doc *document.Document, region detect.Region) []Diagnostic {
	var diagnostics []Diagnostic

	text := region.Text
	if region.Interpolating {
		if interp.IsInsideInterpolation(text, len(text)) {
			diagnostics = append(diagnostics, Diagnostic{
				Range:    region.Range,
				Severity: DiagnosticSeverityWarning,
				Code:     "unterminated-interpolation",
				Source:   diagnosticSource,
				Message:  "unterminated {expr} interpolation",
			})
		}
		text = interp.StripInterpolations(text)
	}

	tokens := sqltok.Tokenize(text)

	if d, ok := checkParenBalance(text, tokens, region.Range); ok {
		diagnostics = append(diagnostics, d)
	}
	diagnostics = append(diagnostics, checkStrings(doc, region, tokens)...)
	return diagnostics
}

// checkParenBalance counts parentheses outside string literals and comments.
func checkParenBalance(text string, tokens []sqltok.Token, r Range) (Diagnostic, bool) {
	masked := maskLiterals(text, tokens)

	depth := 0
	unmatched := false
	for i := 0; i < len(masked); i++ {
		switch masked[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				unmatched = true
				depth = 0
			}
		}
	}

	switch {
	case unmatched:
		return Diagnostic{
			Range:    r,
			Severity: DiagnosticSeverityWarning,
			Code:     "unmatched-paren",
			Source:   diagnosticSource,
			Message:  "unmatched ) in SQL fragment",
		}, true
	case depth > 0:
		return Diagnostic{
			Range:    r,
			Severity: DiagnosticSeverityWarning,
			Code:     "unmatched-paren",
			Source:   diagnosticSource,
			Message:  "unclosed ( in SQL fragment",
		}, true
	}
	return Diagnostic{}, false
}

// checkStrings flags unterminated SQL string literals. Note the token offsets
// here are valid in the stripped text only when the region interpolates, so
// the region range is used for interpolating fragments.
func checkStrings(doc *document.Document, region detect.Region, tokens []sqltok.Token) []Diagnostic {
	var diagnostics []Diagnostic
	for _, tok := range tokens {
		if tok.Kind != sqltok.KindString || terminated(tok.Text) {
			continue
		}

		r := region.Range
		if !region.Interpolating {
			r = Range{
				Start: doc.FragmentPosition(region.Range.Start, tok.Offset),
				End:   doc.FragmentPosition(region.Range.Start, tok.Offset+len(tok.Text)),
			}
		}
		diagnostics = append(diagnostics, Diagnostic{
			Range:    r,
			Severity: DiagnosticSeverityWarning,
			Code:     "unterminated-string",
			Source:   diagnosticSource,
			Message:  "unterminated string literal in SQL fragment",
		})
	}
	return diagnostics
}

// terminated reports whether a string token closes with its opening quote.
func terminated(text string) bool {
	return len(text) >= 2 && text[len(text)-1] == text[0]
}

// maskLiterals blanks out string and comment token spans so punctuation
// inside them is not counted.
func maskLiterals(text string, tokens []sqltok.Token) []byte {
	masked := []byte(text)
	for _, tok := range tokens {
		if tok.Kind != sqltok.KindString && tok.Kind != sqltok.KindComment {
			continue
		}
		for i := tok.Offset; i < tok.Offset+len(tok.Text) && i < len(masked); i++ {
			masked[i] = ' '
		}
	}
	return masked
}
