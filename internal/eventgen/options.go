package eventgen

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithEvents sets the number of events to write.
func WithEvents(n int) Option {
	return func(g *Generator) {
		if n >= 0 {
			g.events = n
		}
	}
}

// WithParticleRange bounds the particle count of each event, inclusive.
func WithParticleRange(lo, hi int) Option {
	return func(g *Generator) {
		if lo >= 0 && hi >= lo {
			g.minParticles = lo
			g.maxParticles = hi
		}
	}
}

// WithSeed makes the output reproducible for a given seed.
func WithSeed(seed uint64) Option {
	return func(g *Generator) { g.seed = seed }
}

// WithFlat writes one header followed by every particle line.
func WithFlat(flat bool) Option {
	return func(g *Generator) { g.flat = flat }
}

// WithMaxMomentum bounds |px|, |py| and |pz| in GeV.
func WithMaxMomentum(m float64) Option {
	return func(g *Generator) {
		if m > 0 {
			g.maxMomentum = m
		}
	}
}
