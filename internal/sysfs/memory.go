package sysfs

import (
	"fmt"
	"os"
	"sort"
	"sync"
)

// Memory is an in-memory stand-in for sysfs. Writes to nodes that were
// never seeded succeed, so a dry run can observe every tunable touched.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
	writes []Write
}

// Write is one recorded write to a Memory tree.
type Write struct {
	Path  string
	Value string
}

// NewMemory returns a Memory seeded with the given node values.
func NewMemory(seed map[string]string) *Memory {
	values := make(map[string]string, len(seed))
	for path, value := range seed {
		values[path] = value
	}
	return &Memory{values: values}
}

// Read returns the value stored at path.
func (m *Memory) Read(path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[path]
	if !ok {
		return "", fmt.Errorf("read %s: %w", path, os.ErrNotExist)
	}
	return value, nil
}

// Write stores value at path and records the write.
func (m *Memory) Write(path, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[path] = value
	m.writes = append(m.writes, Write{Path: path, Value: value})
	return nil
}

// Governor returns the scaling governor stored for core.
func (m *Memory) Governor(core int) (string, error) {
	return m.Read(GovernorPath(core))
}

// Writes returns the recorded writes and forgets them.
func (m *Memory) Writes() []Write {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.writes
	m.writes = nil
	return out
}

// Paths lists every node currently held, sorted.
func (m *Memory) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.values))
	for path := range m.values {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
