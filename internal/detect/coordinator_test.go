package detect

import (
	"context"
	"errors"
	"testing"

	"devsweep/internal/cleaner"
	"devsweep/internal/progress"
	"devsweep/internal/testutil"
)

// fakeDetector serves canned answers so coordinator behavior can be tested
// without touching well-known tool paths.
type fakeDetector struct {
	name       string
	installed  bool
	artifacts  []Artifact
	err        error
	ticks      []float64
	detectHook func()
}

func (d *fakeDetector) Name() string      { return d.name }
func (d *fakeDetector) IsInstalled() bool { return d.installed }

func (d *fakeDetector) Detect(_ context.Context, onProgress progress.Func) ([]Artifact, error) {
	if d.detectHook != nil {
		d.detectHook()
	}
	for _, f := range d.ticks {
		if onProgress != nil {
			onProgress(f, "working")
		}
	}
	if d.err != nil {
		return nil, d.err
	}
	return d.artifacts, nil
}

func fakeArtifact(tool, kind string, size int64, safe bool, paths ...string) Artifact {
	risk := RiskSafe
	if !safe {
		risk = RiskUnsafe
	}
	return Artifact{
		ID:           tool + ":" + kind,
		Tool:         tool,
		Kind:         kind,
		SizeBytes:    size,
		SafeToDelete: safe,
		Risk:         risk,
		Paths:        paths,
	}
}

func TestScanAllMergesAndSortsByTotal(t *testing.T) {
	detectors := []Detector{
		&fakeDetector{name: "small", installed: true, artifacts: []Artifact{
			fakeArtifact("small", "cache", 100, true),
		}},
		&fakeDetector{name: "big", installed: true, artifacts: []Artifact{
			fakeArtifact("big", "cache", 9000, true),
			fakeArtifact("big", "logs", 1000, false),
		}},
	}
	c := NewCoordinator(detectors, cleaner.New(nil, false), nil)

	rep := c.ScanAll(context.Background(), nil)

	if len(rep.Summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(rep.Summaries))
	}
	if rep.Summaries[0].Tool != "big" {
		t.Errorf("largest tool first, got %q", rep.Summaries[0].Tool)
	}
	if rep.TotalBytes != 10100 {
		t.Errorf("TotalBytes = %d, want 10100", rep.TotalBytes)
	}
	if rep.SafeBytes != 9100 {
		t.Errorf("SafeBytes = %d, want 9100", rep.SafeBytes)
	}

	cached, ok := c.Report()
	if !ok || cached != rep {
		t.Error("report not cached after ScanAll")
	}
}

func TestScanAllProgressMonotoneEndsAtOne(t *testing.T) {
	detectors := []Detector{
		&fakeDetector{name: "a", installed: true, ticks: []float64{0.5, 1.0}},
		&fakeDetector{name: "b", installed: false},
		&fakeDetector{name: "c", installed: true, err: errors.New("boom")},
		&fakeDetector{name: "d", installed: true, ticks: []float64{0.25, 0.75}},
	}
	c := NewCoordinator(detectors, cleaner.New(nil, false), nil)

	var fractions []float64
	c.ScanAll(context.Background(), func(fraction float64, _ string) {
		fractions = append(fractions, fraction)
	})

	if len(fractions) == 0 {
		t.Fatal("no progress reported")
	}
	for i := 1; i < len(fractions); i++ {
		if fractions[i] < fractions[i-1] {
			t.Fatalf("progress regressed at %d: %v", i, fractions)
		}
	}
	if last := fractions[len(fractions)-1]; last != 1.0 {
		t.Errorf("terminal fraction = %v, want 1.0", last)
	}
}

func TestScanAllCancelledNeverCaches(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	detectors := []Detector{
		&fakeDetector{name: "first", installed: true, detectHook: cancel, artifacts: []Artifact{
			fakeArtifact("first", "cache", 100, true),
		}},
		&fakeDetector{name: "second", installed: true, artifacts: []Artifact{
			fakeArtifact("second", "cache", 200, true),
		}},
	}
	c := NewCoordinator(detectors, cleaner.New(nil, false), nil)

	var lastLabel string
	rep := c.ScanAll(ctx, func(_ float64, label string) {
		lastLabel = label
	})

	if len(rep.Summaries) != 1 {
		t.Fatalf("got %d summaries, want 1 (iteration stops after the cancelling detector)", len(rep.Summaries))
	}
	if rep.Summaries[0].Tool != "first" {
		t.Errorf("partial report holds %q, want first", rep.Summaries[0].Tool)
	}
	if lastLabel != "scan interrupted" {
		t.Errorf("terminal label = %q, want scan interrupted", lastLabel)
	}
	if _, ok := c.Report(); ok {
		t.Error("cancelled pass cached a report")
	}

	// A fresh pass caches normally.
	full := c.ScanAll(context.Background(), nil)
	if len(full.Summaries) != 2 {
		t.Errorf("re-scan got %d summaries, want 2", len(full.Summaries))
	}
	if _, ok := c.Report(); !ok {
		t.Error("completed pass did not cache its report")
	}
}

func TestScanAllIsolatesFailures(t *testing.T) {
	detectors := []Detector{
		&fakeDetector{name: "ok", installed: true, artifacts: []Artifact{
			fakeArtifact("ok", "cache", 500, true),
		}},
		&fakeDetector{name: "broken", installed: true, err: errors.New("io failure")},
		&fakeDetector{name: "absent", installed: false},
	}
	c := NewCoordinator(detectors, cleaner.New(nil, false), nil)

	rep := c.ScanAll(context.Background(), nil)

	if len(rep.Summaries) != 1 {
		t.Fatalf("got %d summaries, want 1 (failed and absent tools excluded)", len(rep.Summaries))
	}
	if rep.Summaries[0].Tool != "ok" {
		t.Errorf("surviving tool = %q, want ok", rep.Summaries[0].Tool)
	}
}

func TestScanToolPatchesCachedReport(t *testing.T) {
	target := &fakeDetector{name: "npm", installed: true, artifacts: []Artifact{
		fakeArtifact("npm", "cache", 1000, true),
	}}
	other := &fakeDetector{name: "pip", installed: true, artifacts: []Artifact{
		fakeArtifact("pip", "cache", 300, true),
	}}
	c := NewCoordinator([]Detector{target, other}, cleaner.New(nil, false), nil)
	c.ScanAll(context.Background(), nil)

	// Tool shrinks between scans; the single-tool rescan must patch it in
	// place and recompute the totals.
	target.artifacts = []Artifact{fakeArtifact("npm", "cache", 200, true)}
	summary, err := c.ScanTool(context.Background(), "npm", nil)
	if err != nil {
		t.Fatalf("ScanTool: %v", err)
	}
	if summary.TotalBytes != 200 {
		t.Errorf("summary total = %d, want 200", summary.TotalBytes)
	}

	rep, ok := c.Report()
	if !ok {
		t.Fatal("report dropped by ScanTool")
	}
	if rep.TotalBytes != 500 {
		t.Errorf("patched report total = %d, want 500", rep.TotalBytes)
	}
	if len(rep.Summaries) != 2 {
		t.Errorf("patched report has %d summaries, want 2", len(rep.Summaries))
	}
}

func TestScanToolUnknown(t *testing.T) {
	c := NewCoordinator(nil, cleaner.New(nil, false), nil)
	if _, err := c.ScanTool(context.Background(), "nosuch", nil); err == nil {
		t.Error("expected error for unknown tool")
	}
}

func TestScanToolWithoutCachedReport(t *testing.T) {
	d := &fakeDetector{name: "go", installed: true, artifacts: []Artifact{
		fakeArtifact("go", "build-cache", 50, true),
	}}
	c := NewCoordinator([]Detector{d}, cleaner.New(nil, false), nil)

	summary, err := c.ScanTool(context.Background(), "go", nil)
	if err != nil {
		t.Fatalf("ScanTool: %v", err)
	}
	if summary.TotalBytes != 50 {
		t.Errorf("summary total = %d, want 50", summary.TotalBytes)
	}
	if _, ok := c.Report(); ok {
		t.Error("single-tool scan must not establish a full report")
	}
}

func TestDeleteArtifactRefusesUnsafe(t *testing.T) {
	f := testutil.NewFixture(t)
	path := f.CreateFile("venv/lib", []byte("data"))

	c := NewCoordinator(nil, cleaner.New(nil, false), nil)
	err := c.DeleteArtifact(fakeArtifact("pip", "venv", 4, false, path))

	if !errors.Is(err, cleaner.ErrNotSafe) {
		t.Fatalf("err = %v, want ErrNotSafe", err)
	}
	f.AssertFileExists(path)
}

func TestDeleteArtifactBestEffort(t *testing.T) {
	f := testutil.NewFixture(t)
	blocked := f.CreateFile("blocked/cache", []byte("data"))
	removable := f.CreateFile("ok/cache", []byte("data"))

	cl := cleaner.New([]string{f.Path("blocked")}, false)
	c := NewCoordinator(nil, cl, nil)
	c.ScanAll(context.Background(), nil)

	err := c.DeleteArtifact(fakeArtifact("npm", "cache", 8, true, blocked, removable))

	if err == nil {
		t.Error("expected an error for the protected path")
	}
	f.AssertFileExists(blocked)
	f.AssertFileNotExists(removable)
	if _, ok := c.Report(); ok {
		t.Error("report survived a deletion")
	}
}

func TestDeleteSafeArtifactsCountsAndEstimates(t *testing.T) {
	f := testutil.NewFixture(t)
	safe1 := f.CreateFile("cache/a", []byte("aaaa"))
	safe2 := f.CreateFile("cache/b", []byte("bb"))
	unsafe := f.CreateFile("src/keep", []byte("cc"))

	d := &fakeDetector{name: "yarn", installed: true, artifacts: []Artifact{
		fakeArtifact("yarn", "cache-a", 4, true, safe1),
		fakeArtifact("yarn", "cache-b", 2, true, safe2),
		fakeArtifact("yarn", "source", 2, false, unsafe),
	}}
	c := NewCoordinator([]Detector{d}, cleaner.New(nil, false), nil)
	c.ScanAll(context.Background(), nil)

	res := c.DeleteSafeArtifacts("yarn")

	if res.Deleted != 2 {
		t.Errorf("Deleted = %d, want 2", res.Deleted)
	}
	if res.ReclaimedBytes != 6 {
		t.Errorf("ReclaimedBytes = %d, want 6", res.ReclaimedBytes)
	}
	if len(res.Errors) != 0 {
		t.Errorf("unexpected errors: %v", res.Errors)
	}
	f.AssertFileNotExists(safe1)
	f.AssertFileNotExists(safe2)
	f.AssertFileExists(unsafe)
	if _, ok := c.Report(); ok {
		t.Error("report survived the batch deletion")
	}
}

func TestDeleteSafeArtifactsWithoutReport(t *testing.T) {
	c := NewCoordinator(nil, cleaner.New(nil, false), nil)
	res := c.DeleteSafeArtifacts("npm")
	if res.Deleted != 0 || res.ReclaimedBytes != 0 || len(res.Errors) != 0 {
		t.Errorf("expected empty result without a cached report, got %+v", res)
	}
}
