// Package worker drains file jobs with a bounded set of goroutines.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/okian/pionscan/internal/adapters/mq/queue"
	"github.com/okian/pionscan/pkg/logger"
	"github.com/okian/pionscan/pkg/metrics"
)

// Source is where workers read jobs from. The channel must be closed once
// every job was enqueued.
type Source interface {
	Jobs() <-chan queue.Job
}

// Processor handles one job. A returned error is logged and counted; it
// never stops the other workers.
type Processor interface {
	Process(ctx context.Context, j queue.Job) error
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx context.Context, j queue.Job) error

// Process calls f.
func (f ProcessorFunc) Process(ctx context.Context, j queue.Job) error { return f(ctx, j) }

type dequeueNotifier interface {
	Dequeued()
}

// Pool runs a fixed number of workers over a Source.
type Pool struct {
	src     Source
	proc    Processor
	workers int
	name    string
	logger  logger.Logger
}

// NewPool creates a pool with runtime.NumCPU() workers by default.
func NewPool(src Source, proc Processor, opts ...Option) *Pool {
	p := &Pool{
		src:     src,
		proc:    proc,
		workers: runtime.NumCPU(),
		name:    "worker-pool",
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.Named(p.name)
	return p
}

// Workers returns the configured worker count.
func (p *Pool) Workers() int { return p.workers }

// Run blocks until the source is drained or ctx is done. It returns the
// context error when cancelled; job errors are not returned.
func (p *Pool) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < p.workers; i++ {
		name := "worker-" + strconv.Itoa(i)
		g.Go(func() error {
			return p.loop(gctx, name)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("%s: %w", p.name, err)
	}
	return nil
}

func (p *Pool) loop(ctx context.Context, name string) error {
	jobs := p.src.Jobs()
	notifier, _ := p.src.(dequeueNotifier)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case j, ok := <-jobs:
			if !ok {
				return nil
			}
			if notifier != nil {
				notifier.Dequeued()
			}
			p.handle(ctx, name, j)
		}
	}
}

func (p *Pool) handle(ctx context.Context, name string, j queue.Job) {
	metrics.WorkerStarted()
	defer metrics.WorkerFinished()

	if err := p.proc.Process(ctx, j); err != nil {
		metrics.RecordErrorByComponent("worker", "process")
		p.logger.Error(ctx, "job failed",
			logger.String("worker", name),
			logger.String("path", j.Path),
			logger.Error(err),
		)
		return
	}
	p.logger.Debug(ctx, "job done", logger.String("worker", name), logger.String("path", j.Path))
}
