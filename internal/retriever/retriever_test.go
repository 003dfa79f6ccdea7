package retriever

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maharajah/maharajah/internal/embedder"
	"github.com/maharajah/maharajah/internal/store"
)

const testDim = 16

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(store.Config{Dir: t.TempDir(), ModelID: "test-model", Dimension: testDim})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func summaryOf(s string) *string { return &s }

func TestFind_RanksByDistanceAscending(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	provider := embedder.NewWordVectorProvider(testDim)

	require.NoError(t, s.Upsert("near.go", []store.Row{
		{FilePath: "near.go", ChunkID: 1, ContentHash: "h", Symbol: "Parse", Content: "parse the config file",
			ContentVector: mustEmbed(t, provider, "parse the config file"), SummaryVector: mustEmbed(t, provider, "parse the config file")},
	}))
	require.NoError(t, s.Upsert("far.go", []store.Row{
		{FilePath: "far.go", ChunkID: 1, ContentHash: "h", Symbol: "Render", Content: "render an html template",
			ContentVector: mustEmbed(t, provider, "render an html template"), SummaryVector: mustEmbed(t, provider, "render an html template")},
	}))

	r := New(s, provider)
	results, err := r.Find(context.Background(), "parse the config file", 5, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "near.go", results[0].FilePath)
	assert.Equal(t, 1, results[0].Rank)
	assert.LessOrEqual(t, results[0].Score, results[1].Score)
}

func TestFind_MinScoreFiltersOutCloseMatches(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	provider := embedder.NewWordVectorProvider(testDim)

	require.NoError(t, s.Upsert("a.go", []store.Row{
		{FilePath: "a.go", ChunkID: 1, ContentHash: "h", Content: "parse the config file",
			ContentVector: mustEmbed(t, provider, "parse the config file"), SummaryVector: mustEmbed(t, provider, "parse the config file")},
	}))

	r := New(s, provider)

	min := 1000.0
	results, err := r.Find(context.Background(), "parse the config file", 5, &min)
	require.NoError(t, err)
	assert.Empty(t, results, "min_score excludes every hit whose distance is below the threshold")
}

func TestQuery_FusesContentAndSummaryRanks(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	provider := embedder.NewWordVectorProvider(testDim)

	// a.go is the best content match but a weak summary match; b.go is the
	// reverse. Both should outrank a file matching neither list.
	require.NoError(t, s.Upsert("a.go", []store.Row{
		{FilePath: "a.go", ChunkID: 1, ContentHash: "h", Content: "parse json payloads",
			Summary:       summaryOf("unrelated summary text"),
			ContentVector: mustEmbed(t, provider, "parse json payloads"),
			SummaryVector: mustEmbed(t, provider, "unrelated summary text")},
	}))
	require.NoError(t, s.Upsert("b.go", []store.Row{
		{FilePath: "b.go", ChunkID: 1, ContentHash: "h", Content: "totally different code",
			Summary:       summaryOf("parse json payloads well"),
			ContentVector: mustEmbed(t, provider, "totally different code"),
			SummaryVector: mustEmbed(t, provider, "parse json payloads well")},
	}))
	require.NoError(t, s.Upsert("c.go", []store.Row{
		{FilePath: "c.go", ChunkID: 1, ContentHash: "h", Content: "render html templates",
			Summary:       summaryOf("template rendering helpers"),
			ContentVector: mustEmbed(t, provider, "render html templates"),
			SummaryVector: mustEmbed(t, provider, "template rendering helpers")},
	}))

	r := New(s, provider)
	results, err := r.Query(context.Background(), "parse json payloads", 3, nil)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	filePaths := make(map[string]bool)
	for _, res := range results {
		filePaths[res.FilePath] = true
	}
	assert.True(t, filePaths["a.go"] || filePaths["b.go"], "at least one of the two json-related files should surface")

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score, "query results must be sorted descending by fused score")
		assert.Equal(t, i+1, results[i].Rank)
	}
}

func TestQuery_TruncatesToK(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	provider := embedder.NewWordVectorProvider(testDim)

	for i, text := range []string{"alpha function body", "beta function body", "gamma function body", "delta function body"} {
		path := string(rune('a'+i)) + ".go"
		require.NoError(t, s.Upsert(path, []store.Row{
			{FilePath: path, ChunkID: 1, ContentHash: "h", Content: text,
				ContentVector: mustEmbed(t, provider, text), SummaryVector: mustEmbed(t, provider, text)},
		}))
	}

	r := New(s, provider)
	results, err := r.Query(context.Background(), "function body", 2, nil)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func mustEmbed(t *testing.T, provider embedder.Provider, text string) []float32 {
	t.Helper()
	vecs, err := provider.Embed(context.Background(), []string{text}, embedder.RoleDocument)
	require.NoError(t, err)
	return vecs[0]
}
