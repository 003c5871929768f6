// Package aggregate streams an event file into a RunSummary.
//
// Processing is strictly sequential: batch windows and event boundaries
// depend on line order.
package aggregate

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/okian/pionscan/internal/domain/classify"
	"github.com/okian/pionscan/internal/domain/kinematics"
	"github.com/okian/pionscan/internal/domain/model"
	"github.com/okian/pionscan/internal/domain/record"
	"github.com/okian/pionscan/pkg/logger"
	"github.com/okian/pionscan/pkg/metrics"
)

const (
	initialLineBuffer = 64 * 1024
	maxLineBytes      = 1024 * 1024
	// flat streams have no event boundary to check the context at
	ctxCheckEvery = 256
)

// Aggregator classifies particles and tallies them into batch windows.
// An Aggregator holds configuration only and is safe for concurrent use;
// each Run keeps its own state.
type Aggregator struct {
	batchSize    int
	unit         BatchUnit
	layout       Layout
	maxParticles int
	maxEvents    int
	headerPolicy HeaderPolicy
	kinematics   bool
	samples      bool
	now          func() time.Time
	logger       logger.Logger
}

// New creates an Aggregator with a 1000-particle batch window over nested
// streams and no caps.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		batchSize:    DefaultBatchSize,
		unit:         Particles,
		layout:       Nested,
		headerPolicy: Trust,
		now:          time.Now,
		logger:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run reads the whole stream, or up to the configured cap, and returns its
// summary. Malformed particle lines are skipped and counted. Errors are
// returned for read failures, context cancellation and, under the strict
// header policy, structural problems.
func (a *Aggregator) Run(ctx context.Context, r io.Reader) (model.RunSummary, error) {
	start := a.now()

	st := &run{a: a}
	if a.kinematics {
		st.sum.Kinematics = &model.KinematicSummary{}
	}
	if a.samples {
		st.sum.Samples = &model.Samples{}
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, initialLineBuffer), maxLineBytes)
	lr := &lineReader{sc: sc}

	var err error
	switch a.layout {
	case Flat:
		err = st.flat(ctx, lr)
	default:
		err = st.nested(ctx, lr)
	}
	if scErr := sc.Err(); scErr != nil {
		return model.RunSummary{}, fmt.Errorf("%w: line %d: %w", ErrRead, lr.line+1, scErr)
	}
	if err != nil {
		return model.RunSummary{}, err
	}

	st.finish()
	st.sum.Elapsed = a.now().Sub(start)
	st.flushMetrics()
	return st.sum, nil
}

// run is the mutable state of one Run.
type run struct {
	a       *Aggregator
	sum     model.RunSummary
	batch   model.BatchCounts
	filled  int // units in the current window
	neutral int
}

func (s *run) nested(ctx context.Context, lr *lineReader) error {
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("aggregate: %w", err)
		}
		if s.eventCapReached() || s.particleCapReached() {
			s.sum.Truncated = lr.hasMore()
			return nil
		}

		line, ok := lr.next()
		if !ok {
			return nil
		}
		if isBlank(line) {
			continue
		}
		h, ok := s.header(line)
		if !ok {
			if s.a.headerPolicy == Strict {
				return &ParseError{Line: lr.line, Err: ErrMalformedHeader}
			}
			s.a.logger.Debug(ctx, "stopping at malformed event header", logger.Int("line", lr.line))
			return nil
		}
		s.sum.Events++

		for i := 0; i < h.Count; i++ {
			if s.particleCapReached() {
				s.sum.Truncated = lr.hasMore()
				return nil
			}
			pl, ok := lr.next()
			if !ok {
				if s.a.headerPolicy == Strict && lr.sc.Err() == nil {
					return &ParseError{
						Line: lr.line + 1,
						Err:  fmt.Errorf("%w: event %d declared %d, found %d", ErrHeaderMismatch, h.ID, h.Count, i),
					}
				}
				return nil
			}
			if s.a.headerPolicy == Strict {
				if _, isHeader := record.ParseStrictHeader(pl); isHeader {
					return &ParseError{
						Line: lr.line,
						Err:  fmt.Errorf("%w: event %d declared %d, next header after %d", ErrHeaderMismatch, h.ID, h.Count, i),
					}
				}
			}
			s.particle(ctx, pl, lr.line)
		}

		if s.a.unit == Events {
			s.advance()
		}
	}
}

func (s *run) flat(ctx context.Context, lr *lineReader) error {
	first := true
	for n := 0; ; n++ {
		if n%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("aggregate: %w", err)
			}
		}
		if s.particleCapReached() {
			s.sum.Truncated = lr.hasMore()
			return nil
		}

		line, ok := lr.next()
		if !ok {
			return nil
		}
		if isBlank(line) {
			continue
		}
		if first {
			first = false
			if _, ok := s.header(line); ok {
				s.sum.Events = 1
				continue
			}
			if s.a.headerPolicy == Strict {
				return &ParseError{Line: lr.line, Err: ErrMalformedHeader}
			}
		}
		s.particle(ctx, line, lr.line)
	}
}

// header parses an event header; the strict policy rejects extra tokens.
func (s *run) header(line string) (model.EventHeader, bool) {
	if s.a.headerPolicy == Strict {
		return record.ParseStrictHeader(line)
	}
	return record.ParseHeader(line)
}

func (s *run) particle(ctx context.Context, line string, lineNo int) {
	p, ok := record.ParseParticle(line)
	if !ok {
		s.sum.Skipped++
		s.a.logger.Debug(ctx, "skipping malformed particle line", logger.Int("line", lineNo))
		return
	}
	s.sum.Processed++

	switch classify.Classify(p.Code) {
	case classify.Positive:
		s.sum.TotalPositive++
		s.batch.Positive++
	case classify.Negative:
		s.sum.TotalNegative++
		s.batch.Negative++
	default:
		s.neutral++
	}

	if s.sum.Kinematics != nil || s.sum.Samples != nil {
		s.measure(ctx, p, lineNo)
	}

	if s.a.unit == Particles {
		s.advance()
	}
}

func (s *run) measure(ctx context.Context, p model.ParticleRecord, lineNo int) {
	pm := kinematics.Momentum(p.Px, p.Py, p.Pz)
	pt := kinematics.TransverseMomentum(p.Px, p.Py)

	if k := s.sum.Kinematics; k != nil {
		k.Particles++
		k.SumP += pm
		k.SumPT += pt
		eta, err := kinematics.Pseudorapidity(p.Pz, pm)
		if err != nil {
			k.DomainErrors++
			s.a.logger.Debug(ctx, "pseudorapidity undefined", logger.Int("line", lineNo), logger.Error(err))
		} else {
			k.SumEta += eta
			k.EtaCount++
		}
	}
	if sm := s.sum.Samples; sm != nil {
		sm.PT = append(sm.PT, pt)
		sm.P = append(sm.P, pm)
	}
}

// advance counts one unit into the current window and seals it when full.
func (s *run) advance() {
	s.filled++
	if s.filled == s.a.batchSize {
		s.seal()
	}
}

func (s *run) seal() {
	s.sum.Batches = append(s.sum.Batches, s.batch)
	s.batch = model.BatchCounts{}
	s.filled = 0
}

// finish seals a trailing partial window that saw at least one pion.
func (s *run) finish() {
	if !s.batch.Empty() {
		s.seal()
	}
}

func (s *run) eventCapReached() bool {
	return s.a.maxEvents > 0 && s.sum.Events >= s.a.maxEvents
}

func (s *run) particleCapReached() bool {
	return s.a.maxParticles > 0 && s.sum.Processed >= s.a.maxParticles
}

func (s *run) flushMetrics() {
	metrics.RecordEvents(s.sum.Events)
	metrics.RecordParticles(classify.Positive.String(), s.sum.TotalPositive)
	metrics.RecordParticles(classify.Negative.String(), s.sum.TotalNegative)
	metrics.RecordParticles(classify.Neutral.String(), s.neutral)
	metrics.RecordLinesSkipped(s.sum.Skipped)
	metrics.RecordBatchesSealed(len(s.sum.Batches))
	if k := s.sum.Kinematics; k != nil {
		metrics.RecordDomainErrors(k.DomainErrors)
	}
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// lineReader wraps a Scanner with line numbers and one line of lookahead.
type lineReader struct {
	sc     *bufio.Scanner
	line   int
	peeked bool
	buf    string
}

func (r *lineReader) next() (string, bool) {
	if r.peeked {
		r.peeked = false
		return r.buf, true
	}
	if !r.sc.Scan() {
		return "", false
	}
	r.line++
	return r.sc.Text(), true
}

// hasMore reports whether a non-blank line remains, keeping it for next.
func (r *lineReader) hasMore() bool {
	if r.peeked {
		return true
	}
	for r.sc.Scan() {
		r.line++
		if text := r.sc.Text(); !isBlank(text) {
			r.buf = text
			r.peeked = true
			return true
		}
	}
	return false
}
