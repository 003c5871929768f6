// Package dedupe drops input paths that were already listed.
package dedupe

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
)

// Deduper records seen keys so each input file is processed at most once.
type Deduper interface {
	// SeenAndRecord atomically checks if key was seen and records it if not.
	// Returns true if key was already seen.
	SeenAndRecord(ctx context.Context, key string) bool

	Size() int64
}

type inMemoryDeduper struct {
	mu        sync.Mutex
	seen      map[string]struct{}
	size      atomic.Int64
	normalize func(string) string
}

// NewInMemoryDeduper creates a deduper that compares cleaned paths.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		seen:      make(map[string]struct{}),
		normalize: filepath.Clean,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	key = d.normalize(key)

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.seen[key]; ok {
		return true
	}
	d.seen[key] = struct{}{}
	d.size.Add(1)
	return false
}

func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}

// Paths splits paths into first occurrences and repeats, both in input
// order.
func Paths(ctx context.Context, d Deduper, paths []string) (unique, duplicates []string) {
	unique = make([]string, 0, len(paths))
	for _, p := range paths {
		if d.SeenAndRecord(ctx, p) {
			duplicates = append(duplicates, p)
			continue
		}
		unique = append(unique, p)
	}
	return unique, duplicates
}
