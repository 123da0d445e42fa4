package storage

import (
	"fmt"
	"sort"
	"sync"
)

var (
	mu       sync.RWMutex
	backends = map[string]Backend{}
)

// Register registers (or replaces) the backend for kind. Backend packages
// call it from init.
func Register(kind string, b Backend) {
	mu.Lock()
	defer mu.Unlock()
	backends[kind] = b
}

// Lookup returns the backend registered for kind.
func Lookup(kind string) (Backend, error) {
	mu.RLock()
	b, ok := backends[kind]
	mu.RUnlock()
	if !ok {
		return Backend{}, fmt.Errorf("unsupported storage.kind=%s", kind)
	}
	return b, nil
}

// ListKinds returns the registered kinds, sorted.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(backends))
	for k := range backends {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
