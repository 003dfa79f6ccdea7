// Package walk provides deterministic, glob-pruned directory traversal for
// the indexer's file discovery phase.
package walk

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// Walker discovers candidate source files under a root directory, applying
// an extension whitelist plus include/exclude glob filtering. Grounded on
// the teacher's internal/indexer/discovery.go FileDiscovery, generalized to
// prune excluded directories instead of merely filtering their files after
// the fact.
type Walker struct {
	rootDir    string
	extensions map[string]bool
	includes   []glob.Glob
	excludes   []glob.Glob

	// DirsOpened, when non-nil, is incremented once per directory actually
	// read from disk. Tests use it to assert that excluded directories are
	// pruned rather than merely filtered after descending into them.
	DirsOpened *int
}

// New compiles the walker's glob sets. extensions should include the
// leading dot (".go", ".rs", ...). include may be empty, meaning "any path
// not excluded matches".
func New(rootDir string, extensions, include, exclude []string) (*Walker, error) {
	w := &Walker{
		rootDir:    filepath.Clean(rootDir),
		extensions: make(map[string]bool, len(extensions)),
	}

	for _, ext := range extensions {
		w.extensions[strings.ToLower(ext)] = true
	}

	for _, pattern := range include {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		w.includes = append(w.includes, g)
	}

	for _, pattern := range exclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		w.excludes = append(w.excludes, g)
	}

	return w, nil
}

// Files returns the deterministic, lexicographically sorted list of
// project-relative (forward-slash) paths accepted by the walker's filters.
// Directories matching an exclude glob are not descended into.
func (w *Walker) Files() ([]string, error) {
	var results []string
	visited := map[uint64]bool{}
	visitedPaths := map[string]bool{}

	var walkDir func(absDir, relDir string) error
	walkDir = func(absDir, relDir string) error {
		entries, err := os.ReadDir(absDir)
		if err != nil {
			return err
		}
		if w.DirsOpened != nil {
			*w.DirsOpened++
		}

		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

		for _, entry := range entries {
			name := entry.Name()
			relPath := name
			if relDir != "" {
				relPath = relDir + "/" + name
			}
			absPath := filepath.Join(absDir, name)

			info, err := entry.Info()
			if err != nil {
				continue
			}

			isDir := entry.IsDir()
			if info.Mode()&os.ModeSymlink != 0 {
				target, err := os.Stat(absPath)
				if err != nil {
					continue
				}
				isDir = target.IsDir()
				if ino, ok := inode(target); ok {
					if visited[ino] {
						continue
					}
					visited[ino] = true
				} else if resolved, err := filepath.EvalSymlinks(absPath); err == nil {
					if visitedPaths[resolved] {
						continue
					}
					visitedPaths[resolved] = true
				}
			}

			if isDir {
				if w.shouldPruneDir(relPath) {
					continue
				}
				if err := walkDir(absPath, relPath); err != nil {
					return err
				}
				continue
			}

			if w.accepts(relPath) {
				results = append(results, relPath)
			}
		}
		return nil
	}

	if err := walkDir(w.rootDir, ""); err != nil {
		return nil, err
	}

	sort.Strings(results)
	return results, nil
}

// shouldPruneDir reports whether a directory (and everything under it)
// should be skipped without being descended into. This is the pruning
// optimization spec §4.1 calls for: excluded directories are never opened.
func (w *Walker) shouldPruneDir(relDir string) bool {
	return w.matchesAny(w.excludes, relDir) || w.matchesAny(w.excludes, relDir+"/**")
}

func (w *Walker) accepts(relPath string) bool {
	ext := strings.ToLower(filepath.Ext(relPath))
	if !w.extensions[ext] {
		return false
	}
	if w.matchesAny(w.excludes, relPath) {
		return false
	}
	if len(w.includes) > 0 && !w.matchesAny(w.includes, relPath) {
		return false
	}
	return true
}

func (w *Walker) matchesAny(patterns []glob.Glob, path string) bool {
	for _, p := range patterns {
		if p.Match(path) {
			return true
		}
	}
	return false
}

// inode extracts a platform inode number for symlink cycle detection,
// falling back to "unsupported" on platforms without syscall.Stat_t.
func inode(info fs.FileInfo) (uint64, bool) {
	return platformInode(info)
}
