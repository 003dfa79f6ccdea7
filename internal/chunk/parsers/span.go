package parsers

// Span is a single chunkable unit collected by a language walker: a named
// declaration's line range plus whatever doc-comment text was recognized
// immediately around it. The shared splitter in internal/chunk turns spans
// into final extraction.Chunk values, handling the >max_chunk_lines split
// and the gaps between spans (orphan chunks) identically for every
// language.
type Span struct {
	Symbol    string
	StartLine int // 1-based, inclusive; the declaration's own first line (not doc comments)
	EndLine   int // 1-based, inclusive
	Summary   *string
}

// byStartLine sorts spans in document order, required for deterministic
// chunk ordinals (spec: chunk_id is the 1-based ordinal in document order).
type byStartLine []Span

func (s byStartLine) Len() int      { return len(s) }
func (s byStartLine) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s byStartLine) Less(i, j int) bool {
	if s[i].StartLine != s[j].StartLine {
		return s[i].StartLine < s[j].StartLine
	}
	return s[i].EndLine < s[j].EndLine
}
