package sysfs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeSyntheticFile creates a file at path within root, creating parent
// directories as needed.
func writeSyntheticFile(t *testing.T, root, path, content string) {
	t.Helper()
	fullPath := filepath.Join(root, path)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(fullPath), err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", fullPath, err)
	}
}

func TestGovernorFromSyntheticTree(t *testing.T) {
	root := t.TempDir()
	writeSyntheticFile(t, root, "sys/devices/system/cpu/cpu0/cpufreq/scaling_governor", "interactive\n")

	fs := New(root)
	got, err := fs.Governor(0)
	if err != nil {
		t.Fatalf("Governor(0): %v", err)
	}
	if got != "interactive" {
		t.Errorf("Governor(0) = %q, want %q", got, "interactive")
	}

	if _, err := fs.Governor(1); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Governor(1) error = %v, want ErrNotExist", err)
	}
}

func TestWriteExistingNode(t *testing.T) {
	root := t.TempDir()
	const node = "sys/class/kgsl/kgsl-3d0/devfreq/max_freq"
	writeSyntheticFile(t, root, node, "600000000\n")

	fs := New(root)
	if err := fs.Write("/"+node, "432000000"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := fs.Read("/" + node)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != "432000000" {
		t.Errorf("Read after Write = %q, want %q", got, "432000000")
	}
}

func TestWriteMissingNodeFails(t *testing.T) {
	fs := New(t.TempDir())
	if err := fs.Write("/sys/android_touch/doubletap2wake", "1"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Write to missing node error = %v, want ErrNotExist", err)
	}
}

func TestPathsStayUnderRoot(t *testing.T) {
	root := t.TempDir()
	writeSyntheticFile(t, root, "etc/passwd", "inside")

	got, err := New(root).Read("../../etc/passwd")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != "inside" {
		t.Errorf("Read escaped the root: got %q", got)
	}
}

func TestMemoryRecordsWrites(t *testing.T) {
	m := NewMemory(map[string]string{GovernorPath(0): "interactive"})
	if got, _ := m.Governor(0); got != "interactive" {
		t.Fatalf("Governor(0) = %q", got)
	}
	if _, err := m.Governor(2); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Governor(2) error = %v, want ErrNotExist", err)
	}

	m.Write("/sys/class/devfreq/gpubw/min_freq", "2929")
	writes := m.Writes()
	if len(writes) != 1 || writes[0].Value != "2929" {
		t.Fatalf("Writes() = %+v", writes)
	}
	if len(m.Writes()) != 0 {
		t.Error("Writes() should reset after being read")
	}
	if got := len(m.Paths()); got != 2 {
		t.Errorf("Paths() has %d entries, want 2", got)
	}
}

func TestCoreCountFallback(t *testing.T) {
	if got := CoreCount(4); got <= 0 {
		t.Errorf("CoreCount = %d, want a positive count", got)
	}
}
