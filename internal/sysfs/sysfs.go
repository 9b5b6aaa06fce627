// Package sysfs reads and writes kernel tunables under a configurable
// root, so the daemon can be pointed at a synthetic tree in tests and
// dry runs.
package sysfs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
)

// CPURoot is the sysfs directory holding per-core cpufreq nodes.
const CPURoot = "/sys/devices/system/cpu"

// FS accesses sysfs files relative to a root directory.
type FS struct {
	root string
}

// New returns an FS rooted at root. An empty root means "/".
func New(root string) *FS {
	if root == "" {
		root = "/"
	}
	return &FS{root: root}
}

// Root returns the directory all paths are resolved against.
func (f *FS) Root() string {
	return f.root
}

// Read returns the trimmed contents of a sysfs node.
func (f *FS) Read(path string) (string, error) {
	data, err := os.ReadFile(f.resolvePath(path))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Write stores value in an existing sysfs node. Nodes are never created:
// a missing node means the kernel does not expose the tunable.
func (f *FS) Write(path, value string) error {
	file, err := os.OpenFile(f.resolvePath(path), os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := file.WriteString(value); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Close()
}

// Governor returns the scaling governor of the given core.
func (f *FS) Governor(core int) (string, error) {
	return f.Read(GovernorPath(core))
}

// GovernorPath is the scaling_governor node for core.
func GovernorPath(core int) string {
	return fmt.Sprintf("%s/cpu%d/cpufreq/scaling_governor", CPURoot, core)
}

// resolvePath joins path onto the root. Cleaning it as an absolute path
// first drops any leading "..", so the result never leaves the root.
func (f *FS) resolvePath(path string) string {
	return filepath.Join(f.root, filepath.Clean("/"+path))
}

// CoreCount returns the number of logical CPUs, or fallback if the count
// cannot be determined.
func CoreCount(fallback int) int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
