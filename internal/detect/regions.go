package detect

import (
	"context"
	"sort"

	"github.com/embersql/embersql/internal/document"
)

// FindAllRegions enumerates every string literal nested in the argument list
// of a configured SQL-bearing call, for batch consumers such as highlighting.
// Inputs exceeding the configured caps are skipped and yield a partial
// (possibly empty) result rather than an error. Cancellation is
// polled between function names; a cancelled call returns nil.
func (d *Detector) FindAllRegions(ctx context.Context, doc *document.Document) []Region {
	if doc == nil {
		return nil
	}
	content := doc.Content
	if d.cfg.MaxDocumentBytes > 0 && len(content) > d.cfg.MaxDocumentBytes {
		d.log.Debug("document exceeds scan cap, skipping",
			"uri", doc.URI, "bytes", len(content), "cap", d.cfg.MaxDocumentBytes)
		return nil
	}

	seen := make(map[[2]int]bool)
	var found []regionSpan

	for _, name := range d.allFunctions() {
		if ctx != nil && ctx.Err() != nil {
			return nil
		}
		for _, m := range callPattern(name).FindAllStringIndex(content, d.cfg.MaxFunctionMatches) {
			open := m[1] - 1
			if d.commentedMatch(doc, open) {
				continue
			}

			spanEnd := MatchingClose(content, open, d.cfg.MaxParenScan)
			if spanEnd == NotFound {
				spanEnd = open + d.cfg.MaxCallSpanBytes
				if spanEnd > len(content) {
					spanEnd = len(content)
				}
			}

			for _, s := range stringSpans(content, open+1, spanEnd) {
				key := [2]int{s[0], s[1]}
				if seen[key] {
					continue
				}
				seen[key] = true
				if !d.allowNamedArg(content, s[0], name) {
					continue
				}
				found = append(found, regionSpan{start: s[0], end: s[1], fn: name})
			}
		}
	}

	sort.Slice(found, func(i, j int) bool { return found[i].start < found[j].start })

	regions := make([]Region, 0, len(found))
	for _, f := range found {
		start := doc.OffsetToPosition(f.start)
		end := doc.OffsetToPosition(f.end)
		regions = append(regions, Region{
			Range:         document.Range{Start: start, End: end},
			FunctionName:  f.fn,
			Multiline:     start.Line != end.Line,
			Interpolating: d.interp[f.fn],
			Text:          content[f.start:f.end],
		})
	}
	return regions
}

type regionSpan struct {
	start, end int
	fn         string
}

// commentedMatch reports whether the call match at offset sits at or after a
// '#' comment on its line, covering comment-only lines and trailing comments.
func (d *Detector) commentedMatch(doc *document.Document, off int) bool {
	pos := doc.OffsetToPosition(off)
	cs := lineCommentStart(doc.GetLine(int(pos.Line)))
	return cs >= 0 && int(pos.Character) >= cs
}

// stringSpans enumerates content-only [start, end) spans of quoted string
// literals between from and to, by the same quote/escape/comment rules as the
// position scanner. Unterminated trailing strings are dropped.
func stringSpans(text string, from, to int) [][2]int {
	if from < 0 {
		from = 0
	}
	if to > len(text) {
		to = len(text)
	}

	var spans [][2]int
	inComment := false
	for i := from; i < to; i++ {
		ch := text[i]
		if inComment {
			if ch == '\n' {
				inComment = false
			}
			continue
		}
		if ch == '#' {
			inComment = true
			continue
		}
		if !isQuoteChar(ch) || escaped(text, i) {
			continue
		}
		// Opening quote: find the matching close of the same kind.
		closeOff := -1
		for j := i + 1; j < to; j++ {
			if text[j] == ch && !escaped(text, j) {
				closeOff = j
				break
			}
		}
		if closeOff == -1 {
			break
		}
		spans = append(spans, [2]int{i + 1, closeOff})
		i = closeOff
	}
	return spans
}
