package cleaner

import (
	"os"
	"testing"

	"devsweep/internal/testutil"
)

func TestRemoveFile(t *testing.T) {
	f := testutil.NewFixture(t)
	path := f.CreateFile("cache.bin", []byte("data"))

	c := New(nil, false)
	if err := c.Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	f.AssertFileNotExists(path)
}

func TestRemoveDirectoryRecursively(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("cache/a/b/deep", []byte("data"))
	dir := f.Path("cache")

	c := New(nil, false)
	if err := c.Remove(dir); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	f.AssertFileNotExists(dir)
}

func TestRemoveMissingPathSucceeds(t *testing.T) {
	f := testutil.NewFixture(t)

	c := New(nil, false)
	if err := c.Remove(f.Path("never-existed")); err != nil {
		t.Errorf("missing path should count as success, got %v", err)
	}
}

func TestRemoveRefusesProtectedPath(t *testing.T) {
	f := testutil.NewFixture(t)
	path := f.CreateFile("precious/data", []byte("keep"))

	c := New([]string{f.Path("precious")}, false)
	err := c.Remove(path)
	if err == nil {
		t.Fatal("expected refusal for protected path")
	}
	if err.Reason != ErrorProtectedPath {
		t.Errorf("Reason = %v, want ErrorProtectedPath", err.Reason)
	}
	f.AssertFileExists(path)
}

func TestRemoveRefusesSystemPath(t *testing.T) {
	c := New(nil, false)
	err := c.Remove("/usr/lib")
	if err == nil {
		t.Fatal("expected refusal for system path")
	}
	if err.Reason != ErrorProtectedPath {
		t.Errorf("Reason = %v, want ErrorProtectedPath", err.Reason)
	}
}

func TestProtectedPrefixIsSeparatorAware(t *testing.T) {
	f := testutil.NewFixture(t)
	sibling := f.CreateFile("precious-sibling", []byte("deletable"))

	c := New([]string{f.Path("precious")}, false)
	if err := c.Remove(sibling); err != nil {
		t.Fatalf("sibling of protected path refused: %v", err)
	}
	f.AssertFileNotExists(sibling)
}

func TestRemoveSymlinkNotFollowed(t *testing.T) {
	f := testutil.NewFixture(t)
	target := f.CreateFile("real/data", []byte("keep"))
	link := f.CreateSymlink(f.Path("real"), "link-to-real")

	c := New(nil, false)
	if err := c.Remove(link); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	f.AssertFileNotExists(link)
	f.AssertFileExists(target)
}

func TestDryRunTouchesNothing(t *testing.T) {
	f := testutil.NewFixture(t)
	path := f.CreateFile("cache.bin", []byte("data"))

	c := New(nil, true)
	if !c.DryRun() {
		t.Error("DryRun() = false")
	}
	if err := c.Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	f.AssertFileExists(path)
}

func TestDryRunStillRefusesProtected(t *testing.T) {
	f := testutil.NewFixture(t)
	path := f.CreateFile("precious/data", []byte("keep"))

	c := New([]string{f.Path("precious")}, true)
	if err := c.Remove(path); err == nil {
		t.Error("dry run must still report protected-path refusals")
	}
}

func TestRemovePermissionDenied(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission bits do not bind root")
	}
	f := testutil.NewFixture(t)
	path := f.CreateFile("locked/data", []byte("x"))
	dir := f.Path("locked")
	if err := os.Chmod(dir, 0555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(dir, 0755) })

	c := New(nil, false)
	err := c.Remove(path)
	if err == nil {
		t.Fatal("expected permission error")
	}
	if err.Reason != ErrorPermissionDenied {
		t.Errorf("Reason = %v, want ErrorPermissionDenied", err.Reason)
	}
}
