package chunk

import (
	"fmt"
	"sort"
	"strings"

	"github.com/maharajah/maharajah/internal/chunk/extraction"
	"github.com/maharajah/maharajah/internal/chunk/parsers"
)

// BuildChunks turns a language walker's chunkable-node spans into the final
// ordered chunk list: nodes within maxChunkLines become a single chunk,
// oversized nodes are split into line windows that prefer blank-line
// boundaries, and the code between spans and after the last span is grouped
// into orphan chunks. The gap before the first span (package clause,
// license banner, leading imports) is file header material and is never
// orphaned. Shared by every language chunker so the splitting/orphan policy
// is implemented exactly once.
func BuildChunks(lines []string, spans []parsers.Span, maxChunkLines int) []extraction.Chunk {
	sorted := append([]parsers.Span(nil), spans...)
	sort.Sort(sortableSpans(sorted))

	var chunks []extraction.Chunk
	cursor := 1 // next unclaimed 1-based line

	flushOrphans := func(from, to int) {
		if to < from {
			return
		}
		chunks = append(chunks, orphanChunks(lines, from, to, maxChunkLines)...)
	}

	for i, span := range sorted {
		// The gap before the first chunkable node (package clause, license
		// banner, imports) is file header material, not an orphan chunk:
		// only gaps between spans and after the last span are chunked.
		if span.StartLine > cursor && i > 0 {
			flushOrphans(cursor, span.StartLine-1)
		}
		if span.EndLine < span.StartLine {
			cursor = span.StartLine
			continue
		}
		chunks = append(chunks, splitSpan(lines, span, maxChunkLines)...)
		if span.EndLine+1 > cursor {
			cursor = span.EndLine + 1
		}
	}

	flushOrphans(cursor, len(lines))

	return chunks
}

type sortableSpans []parsers.Span

func (s sortableSpans) Len() int      { return len(s) }
func (s sortableSpans) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s sortableSpans) Less(i, j int) bool {
	if s[i].StartLine != s[j].StartLine {
		return s[i].StartLine < s[j].StartLine
	}
	return s[i].EndLine < s[j].EndLine
}

// splitSpan emits one chunk for a span that fits, or several "name#k" parts
// for one that doesn't.
func splitSpan(lines []string, span parsers.Span, maxChunkLines int) []extraction.Chunk {
	lineCount := span.EndLine - span.StartLine + 1
	if lineCount <= maxChunkLines || maxChunkLines <= 0 {
		return []extraction.Chunk{{
			Symbol:    span.Symbol,
			StartLine: span.StartLine,
			EndLine:   span.EndLine,
			Content:   joinLines(lines, span.StartLine, span.EndLine),
			Summary:   span.Summary,
		}}
	}

	windows := windowLines(span.StartLine, span.EndLine, maxChunkLines, lines)

	out := make([]extraction.Chunk, 0, len(windows))
	for i, w := range windows {
		var summary *string
		if i == 0 {
			summary = span.Summary
		}
		symbol := span.Symbol
		if symbol != "" {
			symbol = fmt.Sprintf("%s#%d", symbol, i+1)
		}
		out = append(out, extraction.Chunk{
			Symbol:    symbol,
			StartLine: w.start,
			EndLine:   w.end,
			Content:   joinLines(lines, w.start, w.end),
			Summary:   summary,
		})
	}
	return out
}

type window struct{ start, end int }

// windowLines splits [start, end] into contiguous chunks cut at the exact
// maxChunkLines limit unless a blank line lies within ±5 lines of it, in
// which case the nearest such blank line ends the chunk; a chunk can
// therefore run up to 5 lines past maxChunkLines.
func windowLines(start, end, maxChunkLines int, lines []string) []window {
	var windows []window
	cur := start
	for cur <= end {
		limit := cur + maxChunkLines - 1
		if limit >= end {
			windows = append(windows, window{cur, end})
			break
		}

		split := limit
		for delta := 0; delta <= 5; delta++ {
			if isBlank(lines, limit-delta) && limit-delta > cur {
				split = limit - delta
				break
			}
			if isBlank(lines, limit+delta) && limit+delta < end {
				split = limit + delta
				break
			}
		}

		windows = append(windows, window{cur, split})
		cur = split + 1
	}
	return windows
}

func isBlank(lines []string, lineNo int) bool {
	if lineNo < 1 || lineNo > len(lines) {
		return false
	}
	return strings.TrimSpace(lines[lineNo-1]) == ""
}

// orphanChunks groups the contiguous non-empty line runs in [from, to] into
// chunks of at most maxChunkLines lines each, with an empty symbol.
func orphanChunks(lines []string, from, to, maxChunkLines int) []extraction.Chunk {
	var chunks []extraction.Chunk
	runStart := 0

	flush := func(runEnd int) {
		if runStart == 0 {
			return
		}
		for s := runStart; s <= runEnd; {
			e := s + maxChunkLines - 1
			if maxChunkLines <= 0 || e > runEnd {
				e = runEnd
			}
			chunks = append(chunks, extraction.Chunk{
				StartLine: s,
				EndLine:   e,
				Content:   joinLines(lines, s, e),
			})
			s = e + 1
		}
		runStart = 0
	}

	for i := from; i <= to; i++ {
		if isBlank(lines, i) {
			flush(i - 1)
			continue
		}
		if runStart == 0 {
			runStart = i
		}
	}
	flush(to)

	return chunks
}

func joinLines(lines []string, start, end int) string {
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start > end {
		return ""
	}
	return strings.Join(lines[start-1:end], "\n")
}
