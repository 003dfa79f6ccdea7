package store

// Row is one persisted chunk: the scalar fields from the chunks table plus
// its two embeddings. ContentVector and SummaryVector must both have the
// store's configured dimension; for chunks with no doc-comment, the
// Indexer fills SummaryVector with the content embedding (spec §3) so
// every row is searchable on both columns without null handling in k-NN.
type Row struct {
	FilePath      string
	ChunkID       int
	ContentHash   string
	Language      string
	Symbol        string
	StartLine     int
	EndLine       int
	Content       string
	Summary       *string
	ContentVector []float32
	SummaryVector []float32
}
