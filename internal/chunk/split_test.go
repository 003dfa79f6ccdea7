package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maharajah/maharajah/internal/chunk/parsers"
)

func strPtr(s string) *string { return &s }

func makeLines(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = "x"
	}
	return lines
}

func TestBuildChunks_SingleSpanFitsWhole(t *testing.T) {
	t.Parallel()

	lines := []string{"func A() {", "  return", "}"}
	spans := []parsers.Span{{Symbol: "A", StartLine: 1, EndLine: 3, Summary: strPtr("does a thing")}}

	chunks := BuildChunks(lines, spans, 50)
	require.Len(t, chunks, 1)
	assert.Equal(t, "A", chunks[0].Symbol)
	assert.Equal(t, 1, chunks[0].StartLine)
	assert.Equal(t, 3, chunks[0].EndLine)
	assert.Equal(t, strings.Join(lines, "\n"), chunks[0].Content)
	require.NotNil(t, chunks[0].Summary)
	assert.Equal(t, "does a thing", *chunks[0].Summary)
}

func TestBuildChunks_HeaderBeforeFirstSpanIsNotOrphaned(t *testing.T) {
	t.Parallel()

	lines := []string{
		"import \"fmt\"", // 1 header, dropped
		"",               // 2 blank
		"func A() {",     // 3
		"  return",       // 4
		"}",              // 5
		"",               // 6 blank
		"var x = 1",      // 7 orphan (after last span)
	}
	spans := []parsers.Span{{Symbol: "A", StartLine: 3, EndLine: 5}}

	chunks := BuildChunks(lines, spans, 50)
	require.Len(t, chunks, 2)

	assert.Equal(t, "A", chunks[0].Symbol)

	assert.Equal(t, "", chunks[1].Symbol)
	assert.Equal(t, 7, chunks[1].StartLine)
	assert.Equal(t, 7, chunks[1].EndLine)
}

func TestBuildChunks_OrphanBetweenTwoSpans(t *testing.T) {
	t.Parallel()

	lines := []string{
		"func A() {}", // 1
		"",            // 2 blank
		"var x = 1",   // 3 orphan
		"",            // 4 blank
		"func B() {}", // 5
	}
	spans := []parsers.Span{
		{Symbol: "A", StartLine: 1, EndLine: 1},
		{Symbol: "B", StartLine: 5, EndLine: 5},
	}

	chunks := BuildChunks(lines, spans, 50)
	require.Len(t, chunks, 3)
	assert.Equal(t, "A", chunks[0].Symbol)
	assert.Equal(t, "", chunks[1].Symbol)
	assert.Equal(t, 3, chunks[1].StartLine)
	assert.Equal(t, "B", chunks[2].Symbol)
}

func TestBuildChunks_SplitsOversizedSpanOnBlankLine(t *testing.T) {
	t.Parallel()

	// 12 lines: a blank line at 6 should be preferred over an exact cut at 5.
	lines := makeLines(12)
	lines[5] = "" // line 6 (0-based index 5) is blank
	spans := []parsers.Span{{Symbol: "Big", StartLine: 1, EndLine: 12, Summary: strPtr("big thing")}}

	chunks := BuildChunks(lines, spans, 5)
	require.True(t, len(chunks) >= 2)

	assert.Equal(t, "Big#1", chunks[0].Symbol)
	assert.Equal(t, 1, chunks[0].StartLine)
	assert.Equal(t, 6, chunks[0].EndLine)
	require.NotNil(t, chunks[0].Summary)

	assert.Equal(t, "Big#2", chunks[1].Symbol)
	assert.Equal(t, 7, chunks[1].StartLine)
	assert.Nil(t, chunks[1].Summary)
}

func TestBuildChunks_DeterministicOrderAcrossUnsortedInput(t *testing.T) {
	t.Parallel()

	lines := makeLines(20)
	spans := []parsers.Span{
		{Symbol: "Second", StartLine: 11, EndLine: 20},
		{Symbol: "First", StartLine: 1, EndLine: 10},
	}

	chunks := BuildChunks(lines, spans, 50)
	require.Len(t, chunks, 2)
	assert.Equal(t, "First", chunks[0].Symbol)
	assert.Equal(t, "Second", chunks[1].Symbol)
}

func TestBuildChunks_EmptyFileYieldsNoChunks(t *testing.T) {
	t.Parallel()

	chunks := BuildChunks(nil, nil, 50)
	assert.Empty(t, chunks)
}
