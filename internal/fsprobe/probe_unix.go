//go:build unix

package fsprobe

import (
	"os"
	"syscall"
)

// allocatedSize derives disk usage from the stat block count. st_blocks is
// counted in 512-byte units regardless of the filesystem block size.
func allocatedSize(fi os.FileInfo) int64 {
	stat, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return fi.Size()
	}
	return stat.Blocks * 512
}
