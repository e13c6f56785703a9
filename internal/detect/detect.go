// Package detect implements the embedded-SQL detection engine: locating
// quoted string literals in R source, validating that they are arguments to a
// SQL-bearing function call, and enumerating all such regions in a document.
package detect

import (
	"log/slog"

	"github.com/embersql/embersql/internal/document"
)

// Config holds the detection settings. All lists and caps are constructor-time
// configuration so tests and hosts can supply smaller sets.
type Config struct {
	// Functions are the non-interpolating SQL-bearing function names.
	Functions []string

	// InterpFunctions are the glue-style functions whose string arguments may
	// contain {expr} interpolations.
	InterpFunctions []string

	// CarrierParams are the named-argument parameter names accepted as query
	// carriers for non-interpolating functions (e.g. "statement"). All other
	// named string arguments are rejected as false positives.
	CarrierParams []string

	// LookbackLines bounds the backward search for an enclosing quote and for
	// the function name above a string. Calls formatted with more separation
	// silently fail to detect; this is a documented limit, not a bug.
	LookbackLines int

	// NamedArgLookback bounds, in bytes, the backward search for a `name =`
	// prefix before an opening quote.
	NamedArgLookback int

	// MaxParenScan bounds the forward scan distance of the paren matcher.
	MaxParenScan int

	// MaxDocumentBytes bounds the document size processed by FindAllRegions.
	MaxDocumentBytes int

	// MaxFunctionMatches bounds the number of function-name matches considered
	// per name in a document-wide scan.
	MaxFunctionMatches int

	// MaxCallSpanBytes bounds the scanned length of a single unterminated call.
	MaxCallSpanBytes int
}

// DefaultConfig returns the detection defaults for R with DBI and glue.
func DefaultConfig() Config {
	return Config{
		Functions:          []string{"dbGetQuery", "dbExecute", "dbSendQuery", "dbSendStatement", "dbExecuteQuery"},
		InterpFunctions:    []string{"glue_sql", "glue_data_sql"},
		CarrierParams:      []string{"statement"},
		LookbackLines:      20,
		NamedArgLookback:   40,
		MaxParenScan:       20000,
		MaxDocumentBytes:   1 << 20,
		MaxFunctionMatches: 200,
		MaxCallSpanBytes:   20000,
	}
}

// SQLContext describes a validated SQL fragment. Immutable value object,
// constructed on demand per detection call.
type SQLContext struct {
	Query         string         // content of the string literal, quotes excluded
	Range         document.Range // content-only range
	FunctionName  string         // the SQL-bearing function containing the string
	Multiline     bool
	Interpolating bool
}

// Region is one located SQL fragment from a document-wide scan.
type Region struct {
	Range         document.Range
	FunctionName  string
	Multiline     bool
	Interpolating bool
	Text          string // raw fragment text, quotes excluded
}

// Detector runs the detection passes. Pure functions of document text; the
// only shared state is held by the separate RegionCache.
type Detector struct {
	cfg    Config
	interp map[string]bool
	log    *slog.Logger
}

// New creates a Detector. A nil logger falls back to slog.Default.
func New(cfg Config, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	interp := make(map[string]bool, len(cfg.InterpFunctions))
	for _, name := range cfg.InterpFunctions {
		interp[name] = true
	}
	return &Detector{cfg: cfg, interp: interp, log: logger}
}

// Config returns the detector's configuration.
func (d *Detector) Config() Config {
	return d.cfg
}

// IsInterpolating reports whether the function name is an interpolating kind.
func (d *Detector) IsInterpolating(name string) bool {
	return d.interp[name]
}

// allFunctions returns interpolating then non-interpolating names; the order
// decides which call wins when spans overlap.
func (d *Detector) allFunctions() []string {
	names := make([]string, 0, len(d.cfg.InterpFunctions)+len(d.cfg.Functions))
	names = append(names, d.cfg.InterpFunctions...)
	names = append(names, d.cfg.Functions...)
	return names
}

// DetectSQLContext composes the string literal scanner and the function-call
// context resolver. Returns nil when the position is not inside a validated
// SQL string; this is a routine outcome, not an error.
func (d *Detector) DetectSQLContext(doc *document.Document, pos document.Position) *SQLContext {
	r, ok := d.StringRangeAt(doc, pos)
	if !ok {
		return nil
	}

	fn, ok := d.FunctionContextOf(doc, r.Start)
	if !ok {
		return nil
	}

	return &SQLContext{
		Query:         doc.GetTextInRange(r),
		Range:         r,
		FunctionName:  fn,
		Multiline:     r.Start.Line != r.End.Line,
		Interpolating: d.interp[fn],
	}
}
