// Package indexer orchestrates the walk → hash → chunk → embed → store
// pipeline described in spec §4.6, collapsing the teacher's
// discovery/change_detector/processor/storage split into a single
// Walker → hashutil → chunk.Registry → embedder.Provider → store.Store
// pipeline.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/maharajah/maharajah/internal/chunk"
	"github.com/maharajah/maharajah/internal/chunk/extraction"
	"github.com/maharajah/maharajah/internal/embedder"
	"github.com/maharajah/maharajah/internal/hashutil"
	"github.com/maharajah/maharajah/internal/store"
	"github.com/maharajah/maharajah/internal/walk"
)

// Config wires an Indexer to its collaborators.
type Config struct {
	RootDir       string
	Store         *store.Store
	Registry      *chunk.Registry
	Provider      embedder.Provider
	Extensions    []string
	MaxChunkLines int
	BatchSize     int // embedding batch size, spec §4.6's "Batching" note; 0 -> 32
	Workers       int // hash/chunk worker pool size; 0 -> runtime.NumCPU()
}

// Indexer runs the Index operation from spec §4.6 against one project root.
// It owns a dedicated embedding actor for its lifetime; callers share one
// Indexer across repeated runs (manual, auto-refresh, watcher-triggered)
// rather than constructing a new one per call.
type Indexer struct {
	rootDir       string
	store         *store.Store
	registry      *chunk.Registry
	actor         *embedActor
	extensions    []string
	maxChunkLines int
	workers       int
}

// New constructs an Indexer. The returned Indexer must be closed with Close
// once no further Index calls will be made, to stop its embedding actor.
func New(cfg Config) *Indexer {
	workers := cfg.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	batchSize := cfg.BatchSize
	if batchSize < 1 {
		batchSize = 32
	}

	return &Indexer{
		rootDir:       cfg.RootDir,
		store:         cfg.Store,
		registry:      cfg.Registry,
		actor:         newEmbedActor(cfg.Provider, batchSize),
		extensions:    cfg.Extensions,
		maxChunkLines: cfg.MaxChunkLines,
		workers:       workers,
	}
}

// Close stops the Indexer's embedding actor. It does not close the
// underlying embedder.Provider or store.Store, which the caller owns.
func (ix *Indexer) Close() {
	ix.actor.close()
}

// fileOutcome is the hash/chunk worker pool's unit of output for one
// candidate path.
type fileOutcome struct {
	path      string
	hash      string
	unchanged bool
	language  string
	chunks    []extraction.Chunk
}

// Index runs one pass of spec §4.6's algorithm: optional clear, snapshot the
// prior file hashes, walk (or use opts.Hint), hash and chunk changed files,
// embed and upsert their rows, then reconcile deletions against the prior
// snapshot. Deletion reconciliation only runs on a full walk — a hinted run
// only knows about the files it was told to check, so it cannot tell
// whether anything outside that set was removed.
func (ix *Indexer) Index(ctx context.Context, opts Options) (Report, error) {
	start := time.Now()
	var report Report

	if opts.Reindex {
		if err := ix.store.Clear(); err != nil {
			return report, fmt.Errorf("clear store: %w", err)
		}
	}

	prior, err := ix.store.ListFileHashes()
	if err != nil {
		return report, fmt.Errorf("list file hashes: %w", err)
	}

	walkStart := time.Now()
	candidates, err := ix.candidates(opts)
	if err != nil {
		return report, fmt.Errorf("walk project: %w", err)
	}
	report.Elapsed.Walk = time.Since(walkStart)
	report.FilesScanned = len(candidates)
	if opts.OnScanned != nil {
		opts.OnScanned(len(candidates))
	}

	hashStart := time.Now()
	outcomes, err := ix.hashAndChunk(ctx, candidates, prior, opts.Quiet)
	report.Elapsed.Hash = time.Since(hashStart)
	if err != nil {
		return report, err
	}

	seen := make(map[string]string, len(outcomes))
	for _, o := range outcomes {
		seen[o.path] = o.hash
	}

	for _, o := range outcomes {
		if o.unchanged {
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}

		report.FilesChanged++

		if len(o.chunks) == 0 {
			if err := ix.store.DeleteWhere(store.Predicate{FilePath: o.path}); err != nil {
				return report, fmt.Errorf("delete residual rows for %s: %w", o.path, err)
			}
			if opts.OnFileIndexed != nil {
				opts.OnFileIndexed(o.path)
			}
			continue
		}

		embedStart := time.Now()
		rows, err := ix.embedRows(ctx, o)
		report.Elapsed.Embed += time.Since(embedStart)
		if err != nil {
			return report, fmt.Errorf("embed %s: %w", o.path, err)
		}

		storeStart := time.Now()
		if err := ix.store.Upsert(o.path, rows); err != nil {
			return report, fmt.Errorf("upsert %s: %w", o.path, err)
		}
		report.Elapsed.Store += time.Since(storeStart)
		report.ChunksWritten += len(rows)

		if !opts.Quiet {
			log.Printf("indexed %s (%d chunks)", o.path, len(rows))
		}
		if opts.OnFileIndexed != nil {
			opts.OnFileIndexed(o.path)
		}
	}

	if len(opts.Hint) == 0 {
		deleted := make([]string, 0)
		for p := range prior {
			if _, ok := seen[p]; !ok {
				deleted = append(deleted, p)
			}
		}
		sort.Strings(deleted)
		for _, p := range deleted {
			if err := ix.store.DeleteWhere(store.Predicate{FilePath: p}); err != nil {
				return report, fmt.Errorf("delete removed file %s: %w", p, err)
			}
			report.FilesDeleted++
			if !opts.Quiet {
				log.Printf("removed %s (file no longer present)", p)
			}
		}
	}

	report.Elapsed.Total = time.Since(start)
	return report, nil
}

func (ix *Indexer) candidates(opts Options) ([]string, error) {
	if len(opts.Hint) > 0 {
		out := make([]string, 0, len(opts.Hint))
		for _, p := range opts.Hint {
			out = append(out, filepath.ToSlash(p))
		}
		sort.Strings(out)
		return out, nil
	}

	w, err := walk.New(ix.rootDir, ix.extensions, opts.IncludeGlobs, opts.ExcludeGlobs)
	if err != nil {
		return nil, err
	}
	return w.Files()
}

// hashAndChunk fans candidate paths out to a worker pool sized to the
// available cores, each worker hashing and (for changed files) chunking one
// file at a time. Grounded on the corpus's own indexer worker-pool shape
// (path channel -> N workers -> result channel, joined by a WaitGroup);
// chunking itself is additionally serialized per language inside
// chunk.Registry since tree-sitter parsers aren't safe for concurrent use.
func (ix *Indexer) hashAndChunk(ctx context.Context, candidates []string, prior map[string]string, quiet bool) ([]fileOutcome, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	pathChan := make(chan string, len(candidates))
	for _, p := range candidates {
		pathChan <- p
	}
	close(pathChan)

	type workerResult struct {
		outcome fileOutcome
		err     error
	}
	resultChan := make(chan workerResult, len(candidates))

	workers := ix.workers
	if workers > len(candidates) {
		workers = len(candidates)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range pathChan {
				if err := ctx.Err(); err != nil {
					resultChan <- workerResult{outcome: fileOutcome{path: p}, err: err}
					continue
				}
				outcome, err := ix.processFile(p, prior)
				resultChan <- workerResult{outcome: outcome, err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	outcomes := make([]fileOutcome, 0, len(candidates))
	for res := range resultChan {
		if res.err != nil {
			if errors.Is(res.err, context.Canceled) || errors.Is(res.err, context.DeadlineExceeded) {
				return nil, res.err
			}
			if !quiet {
				log.Printf("skipping %s: %v", res.outcome.path, res.err)
			}
			continue
		}
		outcomes = append(outcomes, res.outcome)
	}

	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].path < outcomes[j].path })
	return outcomes, nil
}

func (ix *Indexer) processFile(p string, prior map[string]string) (fileOutcome, error) {
	outcome := fileOutcome{path: p}

	full := filepath.Join(ix.rootDir, filepath.FromSlash(p))
	data, err := os.ReadFile(full)
	if err != nil {
		return outcome, fmt.Errorf("read %s: %w", p, err)
	}

	hash := hashutil.ContentHex(data)
	outcome.hash = hash

	if prior[p] == hash {
		outcome.unchanged = true
		return outcome, nil
	}

	ext := strings.ToLower(filepath.Ext(p))
	outcome.language = ix.registry.Language(ext)

	chunks, err := ix.registry.ChunkFile(p, data, ix.maxChunkLines)
	if err != nil {
		return outcome, fmt.Errorf("chunk %s: %w", p, err)
	}
	outcome.chunks = chunks

	return outcome, nil
}

// embedRows embeds a changed file's chunks on both the content and summary
// vector columns (substituting content for a nil summary per spec §3/§4.6,
// while still persisting the real, possibly-nil Summary text) and assembles
// store rows with document-order chunk_id values starting at 1.
func (ix *Indexer) embedRows(ctx context.Context, o fileOutcome) ([]store.Row, error) {
	contentTexts := make([]string, len(o.chunks))
	summaryTexts := make([]string, len(o.chunks))
	for i, c := range o.chunks {
		contentTexts[i] = c.Content
		if c.Summary != nil {
			summaryTexts[i] = *c.Summary
		} else {
			summaryTexts[i] = c.Content
		}
	}

	contentVecs, err := ix.actor.embed(ctx, contentTexts, embedder.RoleDocument)
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}
	summaryVecs, err := ix.actor.embed(ctx, summaryTexts, embedder.RoleDocument)
	if err != nil {
		return nil, fmt.Errorf("embed summary: %w", err)
	}

	rows := make([]store.Row, len(o.chunks))
	for i, c := range o.chunks {
		rows[i] = store.Row{
			FilePath:      o.path,
			ChunkID:       i + 1,
			ContentHash:   o.hash,
			Language:      o.language,
			Symbol:        c.Symbol,
			StartLine:     c.StartLine,
			EndLine:       c.EndLine,
			Content:       c.Content,
			Summary:       c.Summary,
			ContentVector: contentVecs[i],
			SummaryVector: summaryVecs[i],
		}
	}
	return rows, nil
}
