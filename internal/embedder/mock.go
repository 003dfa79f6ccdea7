package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"strings"
	"sync"
)

// MockProvider generates deterministic embeddings from a text hash. Useful
// for exercising the indexer/store pipeline without a real model; it
// carries no notion of semantic similarity (see WordVectorProvider for
// that).
type MockProvider struct {
	mu          sync.Mutex
	dimensions  int
	closeCalled bool
	closeErr    error
	embedErr    error
}

// NewMockProvider returns a MockProvider with a 384-dimension output, the
// common width for small sentence-transformer models.
func NewMockProvider() *MockProvider {
	return &MockProvider{dimensions: 384}
}

func (p *MockProvider) SetCloseError(err error) { p.mu.Lock(); defer p.mu.Unlock(); p.closeErr = err }
func (p *MockProvider) SetEmbedError(err error) { p.mu.Lock(); defer p.mu.Unlock(); p.embedErr = err }

func (p *MockProvider) Embed(_ context.Context, texts []string, _ Role) ([][]float32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.embedErr != nil {
		return nil, p.embedErr
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = hashVector(text, p.dimensions)
	}
	return out, nil
}

func (p *MockProvider) Dimensions() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dimensions
}

func (p *MockProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeCalled = true
	return p.closeErr
}

func (p *MockProvider) IsClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closeCalled
}

func hashVector(text string, dimensions int) []float32 {
	hash := sha256.Sum256([]byte(text))
	v := make([]float32, dimensions)
	for j := range v {
		offset := (j * 4) % len(hash)
		bits := binary.BigEndian.Uint32(hash[offset : offset+4])
		v[j] = (float32(bits)/float32(1<<32))*2.0 - 1.0
	}
	return v
}

// WordVectorProvider is a deterministic bag-of-words embedder for tests
// that need vectors where similarity tracks shared vocabulary (hash-only
// embeddings place every text at an unrelated random point, which makes
// k-NN/RRF-fusion tests meaningless). Each dimension is a hashed vocabulary
// bucket; a text's vector counts word occurrences per bucket, then
// normalizes, so texts sharing words end up close under Euclidean distance.
// CodeRankEmbed's query prefix is stripped before counting so prefixed and
// unprefixed occurrences of the same word land in the same bucket.
type WordVectorProvider struct {
	dimensions int
}

func NewWordVectorProvider(dimensions int) *WordVectorProvider {
	return &WordVectorProvider{dimensions: dimensions}
}

func (p *WordVectorProvider) Embed(_ context.Context, texts []string, role Role) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if role == RoleQuery {
			text = strings.TrimPrefix(text, queryPrefix)
		}
		out[i] = bagOfWordsVector(text, p.dimensions)
	}
	return out, nil
}

func (p *WordVectorProvider) Dimensions() int { return p.dimensions }
func (p *WordVectorProvider) Close() error    { return nil }

func bagOfWordsVector(text string, dimensions int) []float32 {
	v := make([]float32, dimensions)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	for _, w := range words {
		h := sha256.Sum256([]byte(w))
		bucket := binary.BigEndian.Uint32(h[:4]) % uint32(dimensions)
		v[bucket]++
	}

	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		return v
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range v {
		v[i] *= scale
	}
	return v
}
