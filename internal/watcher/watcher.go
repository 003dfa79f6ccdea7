// Package watcher watches a project tree for source file changes and
// triggers a debounced, hinted re-index, realizing spec §1's "filesystem
// watcher... calls the same core operations" line without duplicating the
// indexing algorithm. Grounded on the teacher's internal/watcher's
// accumulated-map + debounce-timer shape, generalized from a
// caller-supplied callback to a direct call into indexer.Indexer.Index.
package watcher

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/maharajah/maharajah/internal/indexer"
)

const (
	defaultDebounce = 500 * time.Millisecond
	maxWatchedDirs  = 1000
)

var skippedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	".maharajah":   true,
}

// Watcher watches rootDir for changes to files with a registered extension
// and, after a quiet period, re-indexes the accumulated set of changed
// paths.
type Watcher struct {
	fsw        *fsnotify.Watcher
	rootDir    string
	extensions map[string]bool
	debounce   time.Duration
	indexer    *indexer.Indexer

	ctx    context.Context
	cancel context.CancelFunc
	doneCh chan struct{}

	mu          sync.Mutex
	accumulated map[string]bool
	timer       *time.Timer
	watchedDirs int
}

// New creates a Watcher over rootDir for the given file extensions. It does
// not begin watching until Start is called.
func New(rootDir string, extensions []string, ix *indexer.Indexer) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	extMap := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		extMap[ext] = true
	}

	w := &Watcher{
		fsw:         fsw,
		rootDir:     rootDir,
		extensions:  extMap,
		debounce:    defaultDebounce,
		indexer:     ix,
		accumulated: make(map[string]bool),
		doneCh:      make(chan struct{}),
	}

	if err := w.addDirs(rootDir); err != nil {
		fsw.Close()
		return nil, err
	}

	return w, nil
}

// Start begins watching in the background.
func (w *Watcher) Start(ctx context.Context) {
	w.ctx, w.cancel = context.WithCancel(ctx)
	go w.run()
}

// Stop stops the watcher and waits for its goroutine to exit before
// releasing the underlying fsnotify handle.
func (w *Watcher) Stop() error {
	if w.cancel != nil {
		w.cancel()
		<-w.doneCh
	}
	return w.fsw.Close()
}

func (w *Watcher) run() {
	defer close(w.doneCh)

	settleCh := make(chan struct{}, 1)

	for {
		select {
		case <-w.ctx.Done():
			w.stopTimer()
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event, settleCh)

		case <-settleCh:
			w.reindex()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event, settleCh chan struct{}) {
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addDirs(event.Name); err != nil {
				log.Printf("watcher: failed to watch new directory %s: %v", event.Name, err)
			}
		}
	}

	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	if !w.extensions[filepath.Ext(event.Name)] {
		return
	}

	rel, err := filepath.Rel(w.rootDir, event.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)

	w.mu.Lock()
	w.accumulated[rel] = true
	w.mu.Unlock()

	w.resetTimer(settleCh)
}

func (w *Watcher) resetTimer(settleCh chan struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case settleCh <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

// reindex drains the accumulated change set and runs a hinted Index call.
// An empty accumulation (possible if the settle signal and a Stop race)
// is a no-op.
func (w *Watcher) reindex() {
	w.mu.Lock()
	if len(w.accumulated) == 0 {
		w.mu.Unlock()
		return
	}
	hint := make([]string, 0, len(w.accumulated))
	for p := range w.accumulated {
		hint = append(hint, p)
	}
	w.accumulated = make(map[string]bool)
	w.mu.Unlock()

	report, err := w.indexer.Index(w.ctx, indexer.Options{Hint: hint, Quiet: true})
	if err != nil {
		log.Printf("watcher: re-index failed: %v", err)
		return
	}
	log.Printf("watcher: re-indexed %d changed file(s), %d chunks written", report.FilesChanged, report.ChunksWritten)
}

// addDirs registers root and every subdirectory under it with fsnotify,
// skipping the directories the indexer never walks anyway and stopping
// once maxWatchedDirs is reached so a pathological tree can't exhaust file
// descriptors.
func (w *Watcher) addDirs(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if skippedDirs[d.Name()] {
			return filepath.SkipDir
		}

		w.mu.Lock()
		count := w.watchedDirs
		w.mu.Unlock()
		if count >= maxWatchedDirs {
			return filepath.SkipDir
		}

		if err := w.fsw.Add(path); err != nil {
			return nil
		}
		w.mu.Lock()
		w.watchedDirs++
		w.mu.Unlock()
		return nil
	})
}
