package indexer

import "time"

// Options configures one call to Index.
type Options struct {
	// Reindex clears the store before walking, forcing every file to be
	// treated as changed.
	Reindex bool

	// IncludeGlobs and ExcludeGlobs narrow the walk beyond the configured
	// extension whitelist. Either may be nil.
	IncludeGlobs []string
	ExcludeGlobs []string

	// Hint restricts the run to these project-relative paths instead of
	// walking the whole tree. The watcher (internal/watcher) uses this to
	// re-index only the files it saw change, without a full directory scan.
	// A nil Hint walks the project.
	Hint []string

	// Quiet suppresses progress logging.
	Quiet bool

	// OnScanned, if set, is called once with the number of candidate files
	// after the walk (or hint) phase completes, before any are processed.
	OnScanned func(total int)

	// OnFileIndexed, if set, is called after each changed file finishes
	// embedding and storage (or deletion, for files that chunked to
	// nothing). Unchanged files do not trigger a call.
	OnFileIndexed func(path string)
}

// PhaseTimes breaks the elapsed time of a run down by pipeline stage.
type PhaseTimes struct {
	Walk  time.Duration
	Hash  time.Duration
	Chunk time.Duration
	Embed time.Duration
	Store time.Duration
	Total time.Duration
}

// Report summarizes one Index run, per spec §4.6 step 6.
type Report struct {
	FilesScanned  int
	FilesChanged  int
	FilesDeleted  int
	ChunksWritten int
	Elapsed       PhaseTimes
}
