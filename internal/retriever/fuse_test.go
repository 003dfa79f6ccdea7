package retriever

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maharajah/maharajah/internal/store"
)

func match(filePath string, chunkID int) store.Match {
	return store.Match{Row: store.Row{FilePath: filePath, ChunkID: chunkID}}
}

func TestFuse_RowInBothListsOutscoresRowInOneList(t *testing.T) {
	t.Parallel()

	content := []store.Match{match("a.go", 1), match("b.go", 1)}
	summary := []store.Match{match("a.go", 1), match("c.go", 1)}

	fused := fuse(content, summary)
	require.Len(t, fused, 3)
	assert.Equal(t, "a.go", fused[0].row.FilePath, "a row ranked in both lists must score highest")
}

func TestFuse_BetterRankScoresHigher(t *testing.T) {
	t.Parallel()

	content := []store.Match{match("a.go", 1), match("b.go", 1)}
	fused := fuse(content, nil)
	require.Len(t, fused, 2)
	assert.Equal(t, "a.go", fused[0].row.FilePath)
	assert.Greater(t, fused[0].score, fused[1].score)
}

func TestFuse_TiesBreakByFilePathThenChunkID(t *testing.T) {
	t.Parallel()

	content := []store.Match{match("z.go", 1), match("a.go", 2)}
	summary := []store.Match{match("a.go", 2), match("z.go", 1)}

	fused := fuse(content, summary)
	require.Len(t, fused, 2)
	assert.Equal(t, fused[0].score, fused[1].score, "both rows appear once in each list at the same rank")
	assert.Equal(t, "a.go", fused[0].row.FilePath, "equal scores break lexicographically on file_path")
}

func TestFuse_ExactRRFFormula(t *testing.T) {
	t.Parallel()

	content := []store.Match{match("a.go", 1)}
	summary := []store.Match{match("b.go", 1), match("a.go", 1)}

	fused := fuse(content, summary)
	require.Len(t, fused, 2)

	var aScore, bScore float64
	for _, f := range fused {
		switch f.row.FilePath {
		case "a.go":
			aScore = f.score
		case "b.go":
			bScore = f.score
		}
	}

	assert.InDelta(t, 1.0/61.0+1.0/62.0, aScore, 1e-9, "a.go is rank 1 in content and rank 2 in summary")
	assert.InDelta(t, 1.0/61.0, bScore, 1e-9, "b.go only appears at rank 1 in summary")
}
