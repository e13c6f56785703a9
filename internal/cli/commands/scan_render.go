package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// render writes results in the configured output format.
func (s *scanner) render(w io.Writer, results []scanResult) error {
	switch s.output {
	case "json":
		return renderJSON(w, results)
	case "csv":
		return renderCSV(w, results)
	default:
		return renderTable(w, results)
	}
}

func renderTable(w io.Writer, results []scanResult) error {
	if len(results) == 0 {
		_, _ = fmt.Fprintln(w, "(0 regions)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"FILE", "LINE", "FUNCTION", "INTERP", "QUERY"})
	for _, r := range results {
		t.AppendRow(table.Row{r.File, r.Line, r.Function, yesNo(r.Interpolating), r.Query})
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d regions)\n", len(results))
	return nil
}

func renderJSON(w io.Writer, results []scanResult) error {
	if results == nil {
		results = []scanResult{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func renderCSV(w io.Writer, results []scanResult) error {
	_, _ = fmt.Fprintln(w, "file,line,function,interpolating,multiline,query")
	for _, r := range results {
		fields := []string{
			escapeCSV(r.File),
			strconv.FormatUint(uint64(r.Line), 10),
			escapeCSV(r.Function),
			strconv.FormatBool(r.Interpolating),
			strconv.FormatBool(r.Multiline),
			escapeCSV(r.Query),
		}
		_, _ = fmt.Fprintln(w, strings.Join(fields, ","))
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// escapeCSV quotes a value when it contains a delimiter, quote, or newline.
func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
