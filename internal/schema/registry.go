package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/JonMunkholm/sheetmap/internal/core"
)

// Table is a registered definition together with its compiled schema.
type Table struct {
	Definition
	Schema *core.Schema[Record]
}

var (
	registry   = make(map[string]*Table)
	registryMu sync.RWMutex
)

// Add compiles def and adds it to the registry.
func Add(def Definition) (*Table, error) {
	s, err := def.Compile()
	if err != nil {
		return nil, err
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Key]; exists {
		return nil, fmt.Errorf("schema already registered: %s", def.Key)
	}
	t := &Table{Definition: def, Schema: s}
	registry[def.Key] = t
	return t, nil
}

// Register is Add for init-time registration.
// Panics if the definition is invalid or its key is already registered.
func Register(def Definition) *Table {
	t, err := Add(def)
	if err != nil {
		panic(err)
	}
	return t
}

// Get returns a registered table by key.
// Returns false if not found.
func Get(key string) (*Table, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	t, ok := registry[key]
	return t, ok
}

// All returns all registered tables.
// Sorted by group then by key for consistent ordering.
func All() []*Table {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]*Table, 0, len(registry))
	for _, t := range registry {
		result = append(result, t)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Group != result[j].Group {
			return result[i].Group < result[j].Group
		}
		return result[i].Key < result[j].Key
	})

	return result
}

// ByGroup returns the tables of one group, sorted by key.
func ByGroup(group string) []*Table {
	registryMu.RLock()
	defer registryMu.RUnlock()

	var result []*Table
	for _, t := range registry {
		if t.Group == group {
			result = append(result, t)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})

	return result
}

// Groups returns all unique group names.
// Sorted alphabetically.
func Groups() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	seen := make(map[string]bool)
	for _, t := range registry {
		seen[t.Group] = true
	}

	groups := make([]string, 0, len(seen))
	for g := range seen {
		groups = append(groups, g)
	}

	sort.Strings(groups)
	return groups
}

// Count returns the number of registered tables.
func Count() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered tables.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]*Table)
}

// LoadFile parses a YAML definition file.
func LoadFile(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, err
	}
	def, err := Parse(data)
	if err != nil {
		return Definition{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return def, nil
}

// LoadDir registers every *.yaml and *.yml definition in dir, in file name
// order, and returns the registered keys. Loading stops at the first
// invalid file; definitions registered before it stay registered.
func LoadDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read schema dir: %w", err)
	}

	var keys []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		def, err := LoadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return keys, err
		}
		if _, err := Add(def); err != nil {
			return keys, fmt.Errorf("%s: %w", e.Name(), err)
		}
		keys = append(keys, def.Key)
	}
	return keys, nil
}
