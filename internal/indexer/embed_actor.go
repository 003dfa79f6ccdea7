package indexer

import (
	"context"

	"github.com/maharajah/maharajah/internal/embedder"
)

// embedRequest is one unit of work submitted to the embedding actor: a batch
// of texts sharing a role, plus a reply channel for the resulting vectors.
type embedRequest struct {
	ctx   context.Context
	texts []string
	role  embedder.Role
	reply chan embedResult
}

type embedResult struct {
	vectors [][]float32
	err     error
}

// embedActor is the single goroutine through which an Indexer calls
// embedder.Provider.Embed, per spec §5's "Embedder actor" invariant:
// callers submit requests to a bounded channel, the actor drains it in FIFO
// order and batches internally, replying on a per-request channel. Index
// finishes hashing and chunking every candidate before it embeds anything,
// then embeds changed files one at a time, so hashing/chunking and
// embedding do not overlap within a run; the actor serializes requests
// from concurrent Index calls that share one Indexer.
type embedActor struct {
	provider  embedder.Provider
	batchSize int
	requests  chan embedRequest
	done      chan struct{}
}

func newEmbedActor(provider embedder.Provider, batchSize int) *embedActor {
	a := &embedActor{
		provider:  provider,
		batchSize: batchSize,
		requests:  make(chan embedRequest, 8),
		done:      make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *embedActor) run() {
	defer close(a.done)
	for req := range a.requests {
		vectors, err := embedder.EmbedWithProgress(req.ctx, a.provider, req.texts, req.role, a.batchSize, nil)
		req.reply <- embedResult{vectors: vectors, err: err}
	}
}

// embed submits texts for embedding and blocks for the reply. Safe to call
// from multiple goroutines; requests are served in the order they arrive at
// the channel.
func (a *embedActor) embed(ctx context.Context, texts []string, role embedder.Role) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	reply := make(chan embedResult, 1)
	req := embedRequest{ctx: ctx, texts: texts, role: role, reply: reply}

	select {
	case a.requests <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-reply:
		return res.vectors, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// close stops the actor once all in-flight requests have been served. The
// caller must not call embed again after close.
func (a *embedActor) close() {
	close(a.requests)
	<-a.done
}
