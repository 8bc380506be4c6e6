package detect

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"devsweep/internal/cleaner"
	"devsweep/internal/progress"
)

// Coordinator runs the detector set in a stable order, merges their findings
// into one cached report, and performs filtered deletion afterward. The
// report cache is the only shared mutable state and every mutation of it is
// serialized behind the mutex.
type Coordinator struct {
	detectors []Detector
	cleaner   *cleaner.Cleaner
	logger    *log.Logger

	mu     sync.Mutex
	report *Report
}

func NewCoordinator(detectors []Detector, cl *cleaner.Cleaner, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = log.Default()
	}
	return &Coordinator{detectors: detectors, cleaner: cl, logger: logger}
}

// ScanAll runs every detector in order and returns the merged report,
// replacing any previously cached report wholesale.
//
// Each detector owns the [i/N, (i+1)/N] slice of the overall progress range,
// so the fraction stays monotone no matter how much work an individual tool
// does. A detector that is absent or fails contributes no artifacts but
// still advances progress through its slice; summaries already collected
// from other detectors are preserved.
//
// Cancelling ctx stops the iteration and returns whatever was collected so
// far; a report produced by a cancelled pass is never cached.
func (c *Coordinator) ScanAll(ctx context.Context, onProgress progress.Func) *Report {
	n := len(c.detectors)
	summaries := make([]ToolSummary, 0, n)

	for i, d := range c.detectors {
		if ctx.Err() != nil {
			break
		}
		base := float64(i) / float64(n)
		slice := 1.0 / float64(n)

		if !d.IsInstalled() {
			c.emit(onProgress, base+slice, d.Name()+" skipped (not installed)")
			continue
		}

		sub := func(fraction float64, label string) {
			c.emit(onProgress, base+clamp01(fraction)*slice, d.Name()+": "+label)
		}
		artifacts, err := d.Detect(ctx, sub)
		if err != nil {
			c.logger.Warn("detector failed", "tool", d.Name(), "err", err)
			c.emit(onProgress, base+slice, d.Name()+" skipped (error)")
			continue
		}

		summaries = append(summaries, summarize(d.Name(), artifacts))
		c.emit(onProgress, base+slice, d.Name()+" done")
	}

	rep := buildReport(summaries)
	if ctx.Err() != nil {
		c.emit(onProgress, 1.0, "scan interrupted")
		return rep
	}
	c.emit(onProgress, 1.0, "scan complete")

	c.mu.Lock()
	c.report = rep
	c.mu.Unlock()
	return rep
}

// ScanTool runs exactly one detector. With a cached report present, the
// tool's summary is patched in place and the grand totals recomputed from
// the full summary list; without one, only the single summary is returned
// and no report is established.
func (c *Coordinator) ScanTool(ctx context.Context, tool string, onProgress progress.Func) (ToolSummary, error) {
	d := c.detector(tool)
	if d == nil {
		return ToolSummary{}, fmt.Errorf("unknown tool %q", tool)
	}

	var artifacts []Artifact
	if d.IsInstalled() {
		var err error
		artifacts, err = d.Detect(ctx, onProgress)
		if err != nil {
			return ToolSummary{}, err
		}
	}
	c.emit(onProgress, 1.0, tool+" done")

	summary := summarize(tool, artifacts)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.report != nil {
		patched := make([]ToolSummary, 0, len(c.report.Summaries)+1)
		replaced := false
		for _, s := range c.report.Summaries {
			if s.Tool == tool {
				patched = append(patched, summary)
				replaced = true
			} else {
				patched = append(patched, s)
			}
		}
		if !replaced {
			patched = append(patched, summary)
		}
		c.report = buildReport(patched)
	}
	return summary, nil
}

// Report returns the cached report from the last full scan, if any.
func (c *Coordinator) Report() (*Report, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.report, c.report != nil
}

// InvalidateReport drops the cached report; the next ScanAll rebuilds it.
func (c *Coordinator) InvalidateReport() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.report = nil
}

// DeleteArtifact removes every path the artifact covers and invalidates the
// cached report. Artifacts not flagged safe are refused outright with
// cleaner.ErrNotSafe and nothing is touched.
//
// Deletion is best-effort, not transactional: a failure partway leaves the
// paths already removed gone. The returned error wraps every per-path
// failure.
func (c *Coordinator) DeleteArtifact(a Artifact) error {
	if !a.SafeToDelete {
		return fmt.Errorf("%s: %w", a.ID, cleaner.ErrNotSafe)
	}

	var errs []error
	for _, path := range a.Paths {
		if delErr := c.cleaner.Remove(path); delErr != nil {
			c.logger.Warn("failed to delete", "path", path, "reason", delErr.Reason)
			errs = append(errs, delErr)
		}
	}
	c.InvalidateReport()
	return joinErrors(errs)
}

// BatchResult reports one best-effort bulk deletion. ReclaimedBytes is the
// estimate summed over the safe artifact set before deletion, not a
// re-measurement of disk afterward.
type BatchResult struct {
	Deleted        int
	ReclaimedBytes int64
	Errors         []error
}

// DeleteSafeArtifacts removes every artifact of tool flagged safe in the
// cached report. Per-artifact failures are accumulated without aborting the
// batch.
func (c *Coordinator) DeleteSafeArtifacts(tool string) BatchResult {
	var result BatchResult

	c.mu.Lock()
	rep := c.report
	c.mu.Unlock()
	if rep == nil {
		return result
	}
	summary, ok := rep.Summary(tool)
	if !ok {
		return result
	}

	safe := make([]Artifact, 0, len(summary.Artifacts))
	for _, a := range summary.Artifacts {
		if a.SafeToDelete {
			safe = append(safe, a)
			result.ReclaimedBytes += a.SizeBytes
		}
	}

	for _, a := range safe {
		failed := false
		for _, path := range a.Paths {
			if delErr := c.cleaner.Remove(path); delErr != nil {
				result.Errors = append(result.Errors, delErr)
				failed = true
			}
		}
		if !failed {
			result.Deleted++
		}
	}

	if len(safe) > 0 {
		c.InvalidateReport()
	}
	return result
}

func (c *Coordinator) detector(tool string) Detector {
	for _, d := range c.detectors {
		if d.Name() == tool {
			return d
		}
	}
	return nil
}

func (c *Coordinator) emit(onProgress progress.Func, fraction float64, label string) {
	if onProgress != nil {
		onProgress(clamp01(fraction), label)
	}
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func joinErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return fmt.Errorf("%d paths failed, first: %w", len(errs), errs[0])
	}
}
