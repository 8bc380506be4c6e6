// Package cleaner removes artifact paths with guardrails: protected system
// locations are refused, symlinks are never followed, and an already-missing
// path counts as success.
package cleaner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"devsweep/internal/platform"
)

// Cleaner deletes paths on behalf of the scan coordinator.
type Cleaner struct {
	protected []string
	dryRun    bool
}

// New builds a Cleaner. protected extends the built-in platform list with
// absolute paths from configuration.
func New(protected []string, dryRun bool) *Cleaner {
	return &Cleaner{protected: protected, dryRun: dryRun}
}

// DryRun reports whether removals are simulated.
func (c *Cleaner) DryRun() bool {
	return c.dryRun
}

// Remove deletes one path, recursively for directories. Returns nil when the
// path is gone afterward, including when it was already missing.
func (c *Cleaner) Remove(path string) *DeletionError {
	if c.isProtected(path) {
		return &DeletionError{
			Path:     path,
			Reason:   ErrorProtectedPath,
			Original: fmt.Errorf("refusing to delete protected path"),
		}
	}

	// Lstat so a path that turned into a symlink since detection is removed
	// as a link, never followed into its target.
	fi, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return CategorizeError(path, err)
	}

	if c.dryRun {
		return nil
	}

	var removeErr error
	if fi.IsDir() {
		removeErr = os.RemoveAll(path)
	} else {
		removeErr = os.Remove(path)
	}
	if removeErr != nil {
		return CategorizeError(path, removeErr)
	}
	return nil
}

func (c *Cleaner) isProtected(path string) bool {
	if platform.IsProtectedPath(path) {
		return true
	}
	clean := filepath.Clean(path)
	for _, p := range c.protected {
		if clean == p || strings.HasPrefix(clean, p+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
