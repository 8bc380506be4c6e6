// Package walker implements the cancellable depth-first traversal every scan
// in devsweep is built on.
package walker

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"

	"devsweep/internal/fsprobe"
)

// yieldBatch is the number of visited entries between cooperative yields.
// Smaller values make cancellation snappier at the cost of scheduler churn.
const yieldBatch = 512

// EntryFunc receives every visited filesystem object together with its own
// allocated size. A directory reports the size of the directory entry itself,
// not a recursive total; accumulation is the caller's concern.
type EntryFunc func(path string, isDir bool, sizeBytes int64)

// Walk traverses root depth-first in pre-order and invokes onEntry for every
// visited file and directory, root included. Entries whose name starts with a
// dot are pruned when excludeHidden is set. Unreadable entries count as
// zero-size and never abort the walk. Cancellation is polled once per entry
// and honored at the next opportunity. A missing root visits nothing.
//
// Returns the number of entries visited, which callers use for terminal
// progress reports.
func Walk(ctx context.Context, root string, excludeHidden bool, onEntry EntryFunc) int {
	visited := 0
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return filepath.SkipAll
		}
		if err != nil {
			// Permission denied or an entry that vanished mid-walk: skip it
			// and keep going.
			return nil
		}
		if path != root && excludeHidden && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		var size int64
		if fi, ierr := d.Info(); ierr == nil {
			size = fsprobe.FromFileInfo(fi).AllocatedBytes
		}
		onEntry(path, d.IsDir(), size)

		visited++
		if visited%yieldBatch == 0 {
			runtime.Gosched()
		}
		return nil
	})
	return visited
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
