//go:build !unix

package fsprobe

import "os"

// allocatedSize falls back to the logical size where the platform does not
// expose a block count.
func allocatedSize(fi os.FileInfo) int64 {
	return fi.Size()
}
