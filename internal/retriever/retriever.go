// Package retriever implements the find and query read operations from
// spec §4.7 against a store.Store, embedding queries through an
// embedder.Provider.
package retriever

import (
	"context"
	"fmt"

	"github.com/maharajah/maharajah/internal/embedder"
	"github.com/maharajah/maharajah/internal/store"
)

// Result is one self-contained hit, carrying everything a caller needs to
// show or act on it without a further store lookup.
type Result struct {
	FilePath  string
	StartLine int
	EndLine   int
	Symbol    string
	Summary   *string
	Content   string
	Score     float64
	Rank      int
}

// Retriever answers find/query against a store.Store using queries embedded
// through an embedder.Provider. It holds no exclusive lock on the provider:
// query embedding is a single call per request, not a sustained stream, so
// it does not need the Indexer's dedicated embedding actor.
type Retriever struct {
	store    *store.Store
	provider embedder.Provider
}

func New(s *store.Store, provider embedder.Provider) *Retriever {
	return &Retriever{store: s, provider: provider}
}

// Find performs single-vector content search (spec §4.7 find): embed the
// query, k-NN against content_vector, optionally filter by min_score, rank
// in returned order. Score is raw L2 distance — lower is better.
func (r *Retriever) Find(ctx context.Context, queryText string, k int, minScore *float64) ([]Result, error) {
	qv, err := r.embedQuery(ctx, queryText)
	if err != nil {
		return nil, err
	}

	matches, err := r.store.KNN(store.ColumnContent, qv, k, nil)
	if err != nil {
		return nil, fmt.Errorf("find: knn: %w", err)
	}

	results := make([]Result, 0, len(matches))
	for _, m := range matches {
		score := m.Distance
		if minScore != nil && score < *minScore {
			continue
		}
		results = append(results, Result{
			FilePath:  m.FilePath,
			StartLine: m.StartLine,
			EndLine:   m.EndLine,
			Symbol:    m.Symbol,
			Summary:   m.Summary,
			Content:   m.Content,
			Score:     score,
		})
	}
	for i := range results {
		results[i].Rank = i + 1
	}
	return results, nil
}

// Query performs dual-vector retrieval with Reciprocal Rank Fusion (spec
// §4.7 query): embed the query once, retrieve top-K from both content_vector
// and summary_vector in parallel, fuse by RRF score, sort descending by
// score with (file_path, chunk_id) tie-break, truncate to k. Score is the
// fused RRF value — higher is better, the opposite sense from Find.
func (r *Retriever) Query(ctx context.Context, queryText string, k int, minScore *float64) ([]Result, error) {
	qv, err := r.embedQuery(ctx, queryText)
	if err != nil {
		return nil, err
	}

	K := k * 4
	if K < 20 {
		K = 20
	}

	contentMatches, summaryMatches, err := r.knnBothColumns(ctx, qv, K)
	if err != nil {
		return nil, err
	}

	fused := fuse(contentMatches, summaryMatches)

	results := make([]Result, 0, len(fused))
	for _, f := range fused {
		if minScore != nil && f.score < *minScore {
			continue
		}
		results = append(results, Result{
			FilePath:  f.row.FilePath,
			StartLine: f.row.StartLine,
			EndLine:   f.row.EndLine,
			Symbol:    f.row.Symbol,
			Summary:   f.row.Summary,
			Content:   f.row.Content,
			Score:     f.score,
		})
		if len(results) == k {
			break
		}
	}
	for i := range results {
		results[i].Rank = i + 1
	}
	return results, nil
}

func (r *Retriever) embedQuery(ctx context.Context, queryText string) ([]float32, error) {
	vecs, err := r.provider.Embed(ctx, []string{queryText}, embedder.RoleQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("embed query: provider returned no vector")
	}
	return vecs[0], nil
}

// knnBothColumns issues the two k-NN lookups §5 allows to run in parallel
// (they share nothing but the query vector) and joins them.
func (r *Retriever) knnBothColumns(ctx context.Context, qv []float32, k int) (content, summary []store.Match, err error) {
	type result struct {
		matches []store.Match
		err     error
	}
	contentCh := make(chan result, 1)
	summaryCh := make(chan result, 1)

	go func() {
		m, e := r.store.KNN(store.ColumnContent, qv, k, nil)
		contentCh <- result{matches: m, err: e}
	}()
	go func() {
		m, e := r.store.KNN(store.ColumnSummary, qv, k, nil)
		summaryCh <- result{matches: m, err: e}
	}()

	cr := <-contentCh
	sr := <-summaryCh
	if cr.err != nil {
		return nil, nil, fmt.Errorf("query: content knn: %w", cr.err)
	}
	if sr.err != nil {
		return nil, nil, fmt.Errorf("query: summary knn: %w", sr.err)
	}
	return cr.matches, sr.matches, nil
}
