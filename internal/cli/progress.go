package cli

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/maharajah/maharajah/internal/indexer"
)

// progressReporter drives a single progress bar across one Index call,
// following the teacher's quiet-flag-gated progressbar/v3 reporter shape.
type progressReporter struct {
	quiet bool
	bar   *progressbar.ProgressBar
}

func newProgressReporter(quiet bool) *progressReporter {
	return &progressReporter{quiet: quiet}
}

func (r *progressReporter) onScanned(total int) {
	if r.quiet || total == 0 {
		return
	}
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Indexing"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() { fmt.Println() }),
	)
}

func (r *progressReporter) onFileIndexed(path string) {
	if r.quiet || r.bar == nil {
		return
	}
	_ = r.bar.Add(1)
}

// apply sets opts' progress hooks to this reporter's callbacks.
func (r *progressReporter) apply(opts *indexer.Options) {
	opts.OnScanned = r.onScanned
	opts.OnFileIndexed = r.onFileIndexed
}
