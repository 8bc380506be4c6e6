// Package scanner aggregates the disk usage of a directory tree by top-level
// child and memoizes completed scans.
package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"devsweep/internal/progress"
	"devsweep/internal/scancache"
	"devsweep/internal/walker"
)

// progressCap keeps per-key ticks below the terminal sentinel so a completed
// scan is always distinguishable from one that merely found every key.
const progressCap = 0.95

// Entry attributes aggregated disk usage to one top-level child of the
// scanned root. Key is the child's full path.
type Entry struct {
	Key       string
	SizeBytes int64
}

// Name returns the display name of the entry's top-level child.
func (e Entry) Name() string {
	return filepath.Base(e.Key)
}

// Result is the immutable outcome of one scan, sorted by size descending.
// Equal sizes order by key, so re-scanning an unmodified tree reproduces the
// result byte for byte.
type Result struct {
	Entries []Entry
}

// TotalBytes sums all entries.
func (r *Result) TotalBytes() int64 {
	var total int64
	for _, e := range r.Entries {
		total += e.SizeBytes
	}
	return total
}

// Scanner runs top-level-child aggregation scans with a shared result cache.
// Scans for different roots may run concurrently; starting a scan for a root
// that already has one in flight cancels the earlier scan first.
type Scanner struct {
	cache         *scancache.Cache[*Result]
	excludeHidden bool

	mu       sync.Mutex
	inflight map[string]*scanHandle
}

type scanHandle struct {
	cancel context.CancelFunc
}

func New(excludeHidden bool) *Scanner {
	return &Scanner{
		cache:         scancache.New[*Result](),
		excludeHidden: excludeHidden,
		inflight:      make(map[string]*scanHandle),
	}
}

// Scan walks root and attributes every file's allocated size to the
// top-level child directory it lives under. Files directly at root belong to
// no child and are excluded.
//
// A cache hit returns immediately without touching the filesystem and
// without firing onProgress. Otherwise onProgress ticks once per newly
// discovered top-level child, capped at 0.95, and once more at exactly 1.0
// when the walk ends.
//
// Cancelling ctx shortens the scan rather than failing it: whatever was
// aggregated so far is sorted and returned. A result produced by a cancelled
// walk is never cached, so a later scan re-measures the tree in full.
func (s *Scanner) Scan(ctx context.Context, root string, onProgress progress.Func) *Result {
	root = cleanPath(root)
	if cached, ok := s.cache.Get(root); ok {
		return cached
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	handle := &scanHandle{cancel: cancel}
	s.begin(root, handle)
	defer s.end(root, handle)

	// The immediate child directories define both the universe of
	// aggregation keys and the progress denominator.
	universe := countChildDirs(root, s.excludeHidden)

	totals := make(map[string]int64)
	discovered := 0
	visited := walker.Walk(ctx, root, s.excludeHidden, func(path string, isDir bool, size int64) {
		key, direct := ownerKey(root, path)
		if key == "" {
			return
		}
		if direct && !isDir {
			// A file directly at root has no owning top-level child.
			return
		}
		if _, known := totals[key]; !known {
			totals[key] = 0
			discovered++
			if onProgress != nil {
				fraction := progressCap
				if universe > 0 {
					fraction = min(float64(discovered)/float64(universe), progressCap)
				}
				onProgress(fraction, filepath.Base(key))
			}
		}
		if !isDir {
			totals[key] += size
		}
	})

	if onProgress != nil {
		onProgress(1.0, fmt.Sprintf("scanned %d entries", visited))
	}

	result := buildResult(totals)
	if ctx.Err() == nil {
		s.cache.Put(root, result)
	}
	return result
}

// Cached returns the memoized result for root, if any. Read-only.
func (s *Scanner) Cached(root string) (*Result, bool) {
	return s.cache.Get(cleanPath(root))
}

// Invalidate evicts root and every cached descendant of root.
func (s *Scanner) Invalidate(root string) {
	s.cache.RemovePrefix(cleanPath(root))
}

// ClearCache empties the cache.
func (s *Scanner) ClearCache() {
	s.cache.Clear()
}

// Cancel stops an in-flight scan for root, if one is running.
func (s *Scanner) Cancel(root string) {
	root = cleanPath(root)
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.inflight[root]; ok {
		h.cancel()
	}
}

func (s *Scanner) begin(root string, h *scanHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.inflight[root]; ok {
		// Last writer wins for a contested root.
		prev.cancel()
	}
	s.inflight[root] = h
}

func (s *Scanner) end(root string, h *scanHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[root] == h {
		delete(s.inflight, root)
	}
}

// ownerKey maps a visited path to the top-level child it belongs to. Returns
// "" for root itself or paths outside root; direct reports whether path is
// itself an immediate child of root.
func ownerKey(root, path string) (key string, direct bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	first, rest, _ := strings.Cut(rel, string(filepath.Separator))
	return filepath.Join(root, first), rest == ""
}

func countChildDirs(root string, excludeHidden bool) int {
	children, err := os.ReadDir(root)
	if err != nil {
		return 0
	}
	count := 0
	for _, child := range children {
		if excludeHidden && strings.HasPrefix(child.Name(), ".") {
			continue
		}
		if child.IsDir() {
			count++
		}
	}
	return count
}

func buildResult(totals map[string]int64) *Result {
	entries := make([]Entry, 0, len(totals))
	for key, size := range totals {
		entries = append(entries, Entry{Key: key, SizeBytes: size})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].SizeBytes != entries[j].SizeBytes {
			return entries[i].SizeBytes > entries[j].SizeBytes
		}
		return entries[i].Key < entries[j].Key
	})
	return &Result{Entries: entries}
}

func cleanPath(path string) string {
	clean := filepath.Clean(path)
	if abs, err := filepath.Abs(clean); err == nil {
		return abs
	}
	return clean
}
