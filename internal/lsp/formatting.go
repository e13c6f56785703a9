package lsp

import (
	"fmt"
	"strings"

	"github.com/embersql/embersql/internal/detect"
	"github.com/embersql/embersql/internal/interp"
)

// formatEdits formats every SQL fragment in the document. Any round-trip
// violation aborts the whole request: a silently corrupted interpolation is
// far worse than an unformatted buffer.
func (s *Server) formatEdits(uri string) ([]TextEdit, error) {
	doc := s.documents.Get(uri)
	if doc == nil {
		return []TextEdit{}, nil
	}

	edits := []TextEdit{}
	for _, region := range s.regionsFor(doc) {
		formatted, err := s.formatRegion(region)
		if err != nil {
			return nil, err
		}
		if formatted == region.Text {
			continue
		}
		edits = append(edits, TextEdit{
			Range:   region.Range,
			NewText: formatted,
		})
	}
	return edits, nil
}

// formatRegion formats one fragment. Interpolations are hidden from the
// formatter behind placeholder identifiers and restored afterwards, with the
// round-trip verified by brace count.
func (s *Server) formatRegion(region detect.Region) (string, error) {
	text := region.Text

	var reps []interp.Replacement
	if region.Interpolating {
		text, reps = interp.ExtractInterpolations(text)
	}

	formatted, err := s.formatter.Format(text, s.cfg.FormatOptions())
	if err != nil {
		return "", fmt.Errorf("format %s fragment: %w", region.FunctionName, err)
	}

	if len(reps) == 0 {
		return formatted, nil
	}

	restored, err := interp.RestoreInterpolations(formatted, reps)
	if err != nil {
		return "", err
	}
	if strings.Count(restored, "{") != strings.Count(region.Text, "{") ||
		strings.Count(restored, "}") != strings.Count(region.Text, "}") {
		return "", fmt.Errorf("interpolation brace count changed during formatting")
	}
	return restored, nil
}
