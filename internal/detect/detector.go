package detect

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/djherbis/times"

	"devsweep/internal/progress"
	"devsweep/internal/walker"
)

// Detector locates and describes all disk artifacts of one developer tool.
// Implementations carry only their fixed path set and share no mutable
// state, which is what makes running them concurrently safe.
type Detector interface {
	Name() string
	// IsInstalled reports whether the tool has left any trace worth scanning.
	IsInstalled() bool
	// Detect measures the tool's artifacts. A tool with nothing on disk
	// returns an empty slice; an error is reserved for unexpected I/O
	// failure, never for a well-known path that simply does not exist.
	Detect(ctx context.Context, onProgress progress.Func) ([]Artifact, error)
}

// DetectionError reports an unexpected I/O failure inside one detector.
type DetectionError struct {
	Tool string
	Path string
	Err  error
}

func (e *DetectionError) Error() string {
	return fmt.Sprintf("%s: detecting %s: %v", e.Tool, e.Path, e.Err)
}

func (e *DetectionError) Unwrap() error {
	return e.Err
}

// pathSpec is one well-known artifact location of a tool, with its risk
// metadata fixed a priori.
type pathSpec struct {
	Kind        string
	Path        string
	Safe        bool
	Risk        Risk
	RebuildCost string
	Explanation string
}

// pathDetector is the shared detector template: probe a small fixed set of
// paths, measure the ones that exist, silently skip the ones that don't.
type pathDetector struct {
	name  string
	specs []pathSpec
}

func (d *pathDetector) Name() string { return d.name }

func (d *pathDetector) IsInstalled() bool {
	for _, spec := range d.specs {
		if _, err := os.Lstat(spec.Path); err == nil {
			return true
		}
	}
	return false
}

func (d *pathDetector) Detect(ctx context.Context, onProgress progress.Func) ([]Artifact, error) {
	artifacts := []Artifact{}
	total := len(d.specs)
	for i, spec := range d.specs {
		if ctx.Err() != nil {
			return artifacts, nil
		}

		if _, err := os.Lstat(spec.Path); err != nil {
			if os.IsNotExist(err) {
				tick(onProgress, i+1, total, spec.Kind)
				continue
			}
			return artifacts, &DetectionError{Tool: d.name, Path: spec.Path, Err: err}
		}

		size := measurePath(ctx, spec.Path)
		artifacts = append(artifacts, Artifact{
			ID:           d.name + ":" + spec.Kind,
			Tool:         d.name,
			Kind:         spec.Kind,
			SizeBytes:    size,
			SafeToDelete: spec.Safe && spec.Risk != RiskUnsafe,
			Risk:         spec.Risk,
			RebuildCost:  spec.RebuildCost,
			LastUsed:     lastUsed(spec.Path),
			Explanation:  spec.Explanation,
			Paths:        []string{spec.Path},
		})
		tick(onProgress, i+1, total, spec.Kind)
	}
	return artifacts, nil
}

func tick(onProgress progress.Func, done, total int, label string) {
	if onProgress == nil || total == 0 {
		return
	}
	onProgress(float64(done)/float64(total), label)
}

// measurePath sums the allocated size of every file under path. Sizes come
// from the walker's probe, so sparse files count their true disk footprint.
// A plain file measures itself.
func measurePath(ctx context.Context, path string) int64 {
	var total int64
	walker.Walk(ctx, path, false, func(_ string, isDir bool, size int64) {
		if !isDir {
			total += size
		}
	})
	return total
}

// lastUsed returns the access time of path where the platform records one.
func lastUsed(path string) *time.Time {
	ts, err := times.Stat(path)
	if err != nil {
		return nil
	}
	at := ts.AccessTime()
	if at.IsZero() {
		return nil
	}
	return &at
}
