// Package fsprobe reports on-disk allocated sizes of filesystem entries.
//
// Allocated size is the block-rounded storage a file actually occupies, not
// its logical byte length. Sparse files and cloud-offloaded files therefore
// report what they really cost on disk.
package fsprobe

import "os"

// Info describes a single filesystem entry.
type Info struct {
	IsDir          bool
	AllocatedBytes int64
}

// Probe stats path without following symlinks and returns its allocated size
// and whether it is a directory.
func Probe(path string) (Info, error) {
	fi, err := os.Lstat(path)
	if err != nil {
		return Info{}, err
	}
	return FromFileInfo(fi), nil
}

// FromFileInfo converts an already-obtained FileInfo, avoiding a second stat.
func FromFileInfo(fi os.FileInfo) Info {
	return Info{
		IsDir:          fi.IsDir(),
		AllocatedBytes: allocatedSize(fi),
	}
}
