package retriever

import (
	"sort"

	"github.com/maharajah/maharajah/internal/store"
)

// rrfConstant is the fixed offset in the Reciprocal Rank Fusion formula
// (spec §4.7 query, step 3). The same constant and accumulation shape
// appears in the corpus's own hybrid-search fusion (BM25 + vector RRF merge
// using 1.0/(60+rank)); here it fuses two vector lists instead of a
// keyword list and a vector list.
const rrfConstant = 60.0

type rowKey struct {
	filePath string
	chunkID  int
}

type fusedResult struct {
	row   store.Row
	score float64
}

// fuse combines ranked content and summary k-NN hits into RRF scores:
// s(r) = Σ_{L ∈ {content, summary}} 1/(60 + rank_L(r)), treating a list r
// doesn't appear in as contributing 0. Results are sorted descending by
// score, ties broken by (file_path, chunk_id) ascending.
func fuse(content, summary []store.Match) []fusedResult {
	scores := make(map[rowKey]float64)
	rows := make(map[rowKey]store.Row)

	accumulate := func(matches []store.Match) {
		for rank, m := range matches {
			key := rowKey{filePath: m.FilePath, chunkID: m.ChunkID}
			scores[key] += 1.0 / (rrfConstant + float64(rank+1))
			rows[key] = m.Row
		}
	}
	accumulate(content)
	accumulate(summary)

	fused := make([]fusedResult, 0, len(scores))
	for key, score := range scores {
		fused = append(fused, fusedResult{row: rows[key], score: score})
	}

	sort.Slice(fused, func(i, j int) bool {
		if fused[i].score != fused[j].score {
			return fused[i].score > fused[j].score
		}
		if fused[i].row.FilePath != fused[j].row.FilePath {
			return fused[i].row.FilePath < fused[j].row.FilePath
		}
		return fused[i].row.ChunkID < fused[j].row.ChunkID
	})

	return fused
}
