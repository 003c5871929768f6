package repository

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithExpectedFiles preallocates room for n entries.
func WithExpectedFiles(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.expected = n
		}
	}
}
