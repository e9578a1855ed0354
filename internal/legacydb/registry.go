package legacydb

import (
	"fmt"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Registry shares one Reader per database path. It is owned by the
// application; nothing in this package keeps readers alive implicitly.
type Registry struct {
	mu      sync.RWMutex
	readers map[string]*Reader
	group   singleflight.Group
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{readers: make(map[string]*Reader)}
}

func registryKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return filepath.Clean(abs)
	}
	return filepath.Clean(path)
}

// Open returns the shared reader for path, opening it on first use.
// Concurrent first calls for the same path open the file once. A path that
// is already open is returned as is even if mode differs; compare the
// reader's Mode with the requested one to detect that.
func (g *Registry) Open(path string, mode AccessMode) (*Reader, error) {
	key := registryKey(path)

	g.mu.RLock()
	r, ok := g.readers[key]
	g.mu.RUnlock()
	if ok {
		return r, nil
	}

	v, err, _ := g.group.Do(key, func() (interface{}, error) {
		g.mu.RLock()
		existing, ok := g.readers[key]
		g.mu.RUnlock()
		if ok {
			return existing, nil
		}

		r, err := Open(path, mode)
		if err != nil {
			return nil, err
		}
		g.mu.Lock()
		g.readers[key] = r
		g.mu.Unlock()
		return r, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Reader), nil
}

// Get returns the reader for path if it is open.
func (g *Registry) Get(path string) (*Reader, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.readers[registryKey(path)]
	return r, ok
}

// Replace installs r as the reader for path and returns the reader it
// displaced, or nil. The old reader is not closed; the caller closes it once
// nothing can reach it any more.
func (g *Registry) Replace(path string, r *Reader) *Reader {
	key := registryKey(path)
	g.mu.Lock()
	defer g.mu.Unlock()
	old := g.readers[key]
	g.readers[key] = r
	if old == r {
		return nil
	}
	return old
}

// Forget removes path from the registry and closes its reader. Callers must
// not use a reader after forgetting it.
func (g *Registry) Forget(path string) error {
	key := registryKey(path)
	g.mu.Lock()
	r, ok := g.readers[key]
	delete(g.readers, key)
	g.mu.Unlock()
	if !ok {
		return nil
	}
	return r.Close()
}

// Len returns the number of open readers.
func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.readers)
}

// Close closes every reader and empties the registry.
func (g *Registry) Close() error {
	g.mu.Lock()
	readers := g.readers
	g.readers = make(map[string]*Reader)
	g.mu.Unlock()

	var errs []error
	for path, r := range readers {
		if err := r.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to close databases: %v", errs)
	}
	return nil
}
