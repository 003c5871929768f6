// Package repository keeps per-file outcomes of a run.
package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/okian/pionscan/internal/domain/model"
)

// Store records the outcome of each input file. Index is the position of the
// file in the deduplicated input list; each index is recorded at most once.
type Store interface {
	PutResult(ctx context.Context, index int, r model.FileResult) error
	PutFailure(ctx context.Context, index int, f model.FileFailure) error

	// Snapshot returns results and failures each ordered by index.
	Snapshot(ctx context.Context) ([]model.FileResult, []model.FileFailure)

	// Count returns the number of recorded files.
	Count(ctx context.Context) int
}

type entry struct {
	index   int
	result  *model.FileResult
	failure *model.FileFailure
}

// MemoryStore is a mutex-guarded in-memory Store.
type MemoryStore struct {
	mu       sync.RWMutex
	entries  map[int]entry
	expected int
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{}
	for _, opt := range opts {
		opt(s)
	}
	s.entries = make(map[int]entry, s.expected)
	return s
}

// PutResult records a processed file.
func (s *MemoryStore) PutResult(_ context.Context, index int, r model.FileResult) error { //nolint:gocritic // hugeParam: stored by value
	return s.put(index, r.Path, entry{index: index, result: &r})
}

// PutFailure records a file that could not be processed.
func (s *MemoryStore) PutFailure(_ context.Context, index int, f model.FileFailure) error {
	return s.put(index, f.Path, entry{index: index, failure: &f})
}

func (s *MemoryStore) put(index int, path string, e entry) error {
	if index < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[index]; ok {
		return fmt.Errorf("%w: %d (%s)", ErrDuplicateIndex, index, path)
	}
	s.entries[index] = e
	return nil
}

// Snapshot returns copies of the recorded outcomes in input order.
func (s *MemoryStore) Snapshot(_ context.Context) ([]model.FileResult, []model.FileFailure) {
	s.mu.RLock()
	ordered := make([]entry, 0, len(s.entries))
	for _, e := range s.entries {
		ordered = append(ordered, e)
	}
	s.mu.RUnlock()

	sort.Slice(ordered, func(i, j int) bool { return ordered[i].index < ordered[j].index })

	var (
		results  []model.FileResult
		failures []model.FileFailure
	)
	for _, e := range ordered {
		if e.result != nil {
			results = append(results, *e.result)
		} else {
			failures = append(failures, *e.failure)
		}
	}
	return results, failures
}

// Count returns the number of recorded files.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
