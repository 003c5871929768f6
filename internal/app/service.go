// Package service drives a multi-file run: it deduplicates inputs, fans the
// files out to a worker pool and assembles the report.
package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/okian/pionscan/internal/adapters/mq/queue"
	"github.com/okian/pionscan/internal/adapters/mq/worker"
	"github.com/okian/pionscan/internal/adapters/repository"
	"github.com/okian/pionscan/internal/domain/aggregate"
	"github.com/okian/pionscan/internal/domain/dedupe"
	"github.com/okian/pionscan/internal/domain/model"
	"github.com/okian/pionscan/internal/domain/stats"
	"github.com/okian/pionscan/pkg/logger"
	"github.com/okian/pionscan/pkg/metrics"
)

// ANOVA metric names.
const (
	MetricPT = "pt"
	MetricP  = "p"
)

// Service processes input files into a Report.
type Service struct {
	workerCount int
	aggregator  *aggregate.Aggregator
	evaluator   *stats.Evaluator
	anova       bool
	runID       string
	now         func() time.Time
	logger      logger.Logger
}

// New constructs a Service with runtime.NumCPU() workers, a default
// aggregator and a default evaluator.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		aggregator:  aggregate.New(),
		evaluator:   stats.NewEvaluator(),
		now:         time.Now,
		logger:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run processes every distinct path. A file that fails is recorded in
// Report.Failures and never stops the others. Only context cancellation
// or an internal queue failure make Run return an error.
func (s *Service) Run(ctx context.Context, paths []string) (*model.Report, error) {
	start := s.now()
	runID := s.runID
	if runID == "" {
		runID = uuid.NewString()
	}
	log := s.logger.Named("run")

	unique, dups := dedupe.Paths(ctx, dedupe.NewInMemoryDeduper(), paths)
	for _, d := range dups {
		metrics.RecordDuplicateInput()
		log.Warn(ctx, "dropping duplicate input", logger.String("path", d))
	}

	report := &model.Report{RunID: runID, Duplicates: dups}
	if len(unique) == 0 {
		report.Elapsed = s.now().Sub(start)
		return report, nil
	}

	store := repository.NewMemoryStore(repository.WithExpectedFiles(len(unique)))
	q := queue.NewInMemoryQueue(queue.WithCapacity(len(unique)))
	for i, p := range unique {
		if err := q.Enqueue(ctx, queue.Job{Index: i, Path: p}); err != nil {
			_ = q.Close()
			return nil, fmt.Errorf("dispatch: %w", err)
		}
	}
	if err := q.Close(); err != nil {
		return nil, fmt.Errorf("dispatch: %w", err)
	}

	workers := min(len(unique), s.workerCount)
	log.Info(ctx, "starting run",
		logger.String("run_id", runID),
		logger.Int("files", len(unique)),
		logger.Int("workers", workers),
	)

	proc := worker.ProcessorFunc(func(ctx context.Context, j queue.Job) error {
		return s.process(ctx, store, j)
	})
	pool := worker.NewPool(q, proc, worker.WithWorkers(workers), worker.WithLogger(s.logger))
	if err := pool.Run(ctx); err != nil {
		return nil, err
	}

	report.Results, report.Failures = store.Snapshot(ctx)
	if s.anova {
		report.ANOVA = s.crossFile(ctx, report.Results)
	}
	for i := range report.Results {
		report.Results[i].Summary.Samples = nil
	}
	report.Elapsed = s.now().Sub(start)

	log.Info(ctx, "run finished",
		logger.String("run_id", runID),
		logger.Int("recorded", store.Count(ctx)),
		logger.Int("processed", len(report.Results)),
		logger.Int("failed", len(report.Failures)),
		logger.Duration("elapsed", report.Elapsed),
	)
	return report, nil
}

// process aggregates one file. The returned error is only used for logging
// by the pool; the outcome is always recorded in store.
func (s *Service) process(ctx context.Context, store repository.Store, j queue.Job) error {
	start := time.Now()

	sum, err := s.aggregateFile(ctx, j.Path)
	if err != nil {
		metrics.RecordFileFailure(failureReason(err))
		if putErr := store.PutFailure(ctx, j.Index, model.FileFailure{Path: j.Path, Err: err}); putErr != nil {
			return errors.Join(err, putErr)
		}
		return err
	}

	res := model.FileResult{
		Path:       j.Path,
		Summary:    sum,
		Result:     s.evaluator.Evaluate(sum),
		Kinematics: stats.MomentumAverages(sum.Kinematics),
	}
	if err := store.PutResult(ctx, j.Index, res); err != nil {
		return err
	}

	metrics.RecordFileProcessed(float64(time.Since(start).Microseconds()) / 1000)
	s.logger.Info(ctx, "file processed",
		logger.String("path", j.Path),
		logger.Int("positive", sum.TotalPositive),
		logger.Int("negative", sum.TotalNegative),
		logger.Int("skipped", sum.Skipped),
		logger.Bool("significant", res.Result.Significant),
	)
	return nil
}

func (s *Service) aggregateFile(ctx context.Context, path string) (sum model.RunSummary, err error) {
	f, err := os.Open(path)
	if err != nil {
		return model.RunSummary{}, fmt.Errorf("open: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close: %w", cerr)
		}
	}()

	sum, err = s.aggregator.Run(ctx, f)
	if err != nil {
		return model.RunSummary{}, fmt.Errorf("aggregate %s: %w", path, err)
	}
	return sum, nil
}

// crossFile runs ANOVA on pT and p across files that kept samples.
func (s *Service) crossFile(ctx context.Context, results []model.FileResult) []model.ANOVAResult {
	var pt, p [][]float64
	for _, r := range results {
		sm := r.Summary.Samples
		if sm == nil || len(sm.PT) == 0 {
			continue
		}
		pt = append(pt, sm.PT)
		p = append(p, sm.P)
	}
	if len(pt) < 2 {
		s.logger.Info(ctx, "skipping anova", logger.Int("groups", len(pt)))
		return nil
	}

	var out []model.ANOVAResult
	for _, m := range []struct {
		name   string
		groups [][]float64
	}{{MetricPT, pt}, {MetricP, p}} {
		a, err := stats.OneWayANOVA(m.groups)
		if err != nil {
			s.logger.Warn(ctx, "anova failed", logger.String("metric", m.name), logger.Error(err))
			continue
		}
		out = append(out, model.ANOVAResult{
			Metric:    m.name,
			Groups:    len(m.groups),
			DFBetween: a.DFBetween,
			DFWithin:  a.DFWithin,
			F:         a.F,
			PValue:    a.PValue,
		})
	}
	return out
}

func failureReason(err error) string {
	var pe *aggregate.ParseError
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "not_found"
	case errors.Is(err, fs.ErrPermission):
		return "permission"
	case errors.As(err, &pe):
		return "parse"
	case errors.Is(err, aggregate.ErrRead):
		return "read"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "other"
	}
}
