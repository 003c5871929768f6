// Package eventgen writes synthetic collision-event files for fixtures and
// load runs.
package eventgen

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"

	"github.com/okian/pionscan/internal/domain/classify"
)

// PDG codes drawn for generated particles. Pions are listed twice so they
// make up roughly half of each event.
var codes = []int{ //nolint:gochecknoglobals // immutable lookup table
	classify.PiPlus, classify.PiMinus, classify.PiPlus, classify.PiMinus,
	classify.PiZero, 22, 2212, 2112, 321, -321, 11, -11,
}

// Stats describes what a Generator wrote.
type Stats struct {
	Events    int
	Particles int
	Positive  int
	Negative  int
}

// Generator produces event streams in the nested or flat layout.
type Generator struct {
	events       int
	minParticles int
	maxParticles int
	seed         uint64
	flat         bool
	maxMomentum  float64
}

// New creates a generator for 100 events of 1 to 20 particles.
func New(opts ...Option) *Generator {
	g := &Generator{
		events:       100,
		minParticles: 1,
		maxParticles: 20,
		seed:         1,
		maxMomentum:  10,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Write emits the stream to w. The same options always produce the same
// bytes.
func (g *Generator) Write(w io.Writer) (Stats, error) {
	rng := rand.New(rand.NewPCG(g.seed, g.seed^0x9e3779b97f4a7c15)) //nolint:gosec // reproducible fixtures, not security

	counts := make([]int, g.events)
	total := 0
	for i := range counts {
		counts[i] = g.minParticles + rng.IntN(g.maxParticles-g.minParticles+1)
		total += counts[i]
	}

	bw := bufio.NewWriter(w)
	var st Stats
	if g.flat {
		if _, err := fmt.Fprintf(bw, "0 %d\n", total); err != nil {
			return st, fmt.Errorf("write header: %w", err)
		}
		st.Events = 1
	}

	buf := make([]byte, 0, 96)
	for id, n := range counts {
		if !g.flat {
			if _, err := fmt.Fprintf(bw, "%d %d\n", id, n); err != nil {
				return st, fmt.Errorf("write header: %w", err)
			}
			st.Events++
		}
		for j := 0; j < n; j++ {
			code := codes[rng.IntN(len(codes))]
			buf = buf[:0]
			for k := 0; k < 3; k++ {
				buf = strconv.AppendFloat(buf, (rng.Float64()*2-1)*g.maxMomentum, 'f', 4, 64)
				buf = append(buf, ' ')
			}
			buf = strconv.AppendInt(buf, int64(code), 10)
			buf = append(buf, '\n')
			if _, err := bw.Write(buf); err != nil {
				return st, fmt.Errorf("write particle: %w", err)
			}
			st.Particles++
			switch classify.Classify(code) {
			case classify.Positive:
				st.Positive++
			case classify.Negative:
				st.Negative++
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return st, fmt.Errorf("flush: %w", err)
	}
	return st, nil
}
