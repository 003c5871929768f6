package service_test

import (
	"context"
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	service "github.com/okian/pionscan/internal/app"
	"github.com/okian/pionscan/internal/config"
	"github.com/okian/pionscan/internal/domain/aggregate"
	"github.com/okian/pionscan/internal/eventgen"
	"github.com/okian/pionscan/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const sample = "1 3\n1.0 0.0 3.0 211\n0.0 2.0 4.0 -211\n0.5 0.5 0.5 22\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func generated(t *testing.T, dir, name string, seed uint64) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := eventgen.New(eventgen.WithEvents(30), eventgen.WithSeed(seed)).Write(f); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestService_Run(t *testing.T) {
	Convey("Given a set of input files", t, func() {
		dir := t.TempDir()
		a := writeFile(t, dir, "a.txt", sample)
		b := generated(t, dir, "b.txt", 7)
		missing := filepath.Join(dir, "missing.txt")

		Convey("When run with a duplicate and a missing path", func() {
			svc := service.New(service.WithRunID("run-1"), service.WithWorkerCount(4))
			report, err := svc.Run(context.Background(), []string{b, a, missing, a})

			Convey("Then results keep input order and failures are recorded", func() {
				So(err, ShouldBeNil)
				So(report.RunID, ShouldEqual, "run-1")
				So(len(report.Results), ShouldEqual, 2)
				So(report.Results[0].Path, ShouldEqual, b)
				So(report.Results[1].Path, ShouldEqual, a)
				So(report.Results[1].Summary.TotalPositive, ShouldEqual, 1)
				So(report.Results[1].Summary.TotalNegative, ShouldEqual, 1)
				So(report.Results[1].Result.Difference, ShouldEqual, 0.0)

				So(len(report.Failures), ShouldEqual, 1)
				So(report.Failures[0].Path, ShouldEqual, missing)
				So(errors.Is(report.Failures[0].Err, fs.ErrNotExist), ShouldBeTrue)
				So(report.Duplicates, ShouldResemble, []string{a})
			})
		})

		Convey("When run twice over the same files", func() {
			svc := service.New(service.WithRunID("same"))
			first, err1 := svc.Run(context.Background(), []string{a, b})
			second, err2 := svc.Run(context.Background(), []string{a, b})

			Convey("Then the per-file results match", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				for i := range first.Results {
					So(second.Results[i].Summary.Batches, ShouldResemble, first.Results[i].Summary.Batches)
					So(second.Results[i].Summary.TotalPositive, ShouldEqual, first.Results[i].Summary.TotalPositive)
				}
			})
		})

		Convey("When no run id is set", func() {
			report, err := service.New().Run(context.Background(), []string{a})

			Convey("Then a uuid is generated", func() {
				So(err, ShouldBeNil)
				So(len(report.RunID), ShouldEqual, 36)
			})
		})
	})

	Convey("Given a file that breaks the strict header policy", t, func() {
		dir := t.TempDir()
		bad := writeFile(t, dir, "bad.txt", "1 5\n1 0 0 211\n")
		good := writeFile(t, dir, "good.txt", sample)

		svc := service.New(service.WithAggregator(aggregate.New(aggregate.WithHeaderPolicy(aggregate.Strict))))
		report, err := svc.Run(context.Background(), []string{bad, good})

		Convey("Then only that file fails", func() {
			So(err, ShouldBeNil)
			So(len(report.Results), ShouldEqual, 1)
			So(len(report.Failures), ShouldEqual, 1)
			var pe *aggregate.ParseError
			So(errors.As(report.Failures[0].Err, &pe), ShouldBeTrue)
		})
	})

	Convey("Given files with separated transverse momenta", t, func() {
		dir := t.TempDir()
		low := writeFile(t, dir, "low.txt", "1 3\n1 0 0 211\n2 0 0 211\n3 0 0 -211\n")
		high := writeFile(t, dir, "high.txt", "1 3\n4 0 0 211\n5 0 0 211\n6 0 0 -211\n")

		Convey("When ANOVA is enabled", func() {
			svc := service.New(
				service.WithAggregator(aggregate.New(aggregate.WithKinematics(true), aggregate.WithSamples(true))),
				service.WithANOVA(true),
			)
			report, err := svc.Run(context.Background(), []string{low, high})

			Convey("Then both metrics are tested and samples are released", func() {
				So(err, ShouldBeNil)
				So(len(report.ANOVA), ShouldEqual, 2)
				So(report.ANOVA[0].Metric, ShouldEqual, service.MetricPT)
				So(report.ANOVA[0].F, ShouldAlmostEqual, 13.5, 1e-9)
				So(report.ANOVA[0].DFBetween, ShouldEqual, 1)
				So(report.ANOVA[0].DFWithin, ShouldEqual, 4)
				So(report.ANOVA[1].Metric, ShouldEqual, service.MetricP)
				So(report.Results[0].Summary.Samples, ShouldBeNil)
				So(report.Results[0].Kinematics.MeanPT, ShouldAlmostEqual, 2.0, 1e-12)
			})
		})

		Convey("When only one file has samples", func() {
			svc := service.New(
				service.WithAggregator(aggregate.New(aggregate.WithSamples(true))),
				service.WithANOVA(true),
			)
			report, err := svc.Run(context.Background(), []string{low})

			Convey("Then ANOVA is skipped", func() {
				So(err, ShouldBeNil)
				So(report.ANOVA, ShouldBeEmpty)
			})
		})
	})

	Convey("Given no input paths", t, func() {
		fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		report, err := service.New(service.WithClock(func() time.Time { return fixed })).Run(context.Background(), nil)

		Convey("Then the report is empty", func() {
			So(err, ShouldBeNil)
			So(report.Results, ShouldBeEmpty)
			So(report.Failures, ShouldBeEmpty)
			So(report.Elapsed, ShouldEqual, time.Duration(0))
		})
	})

	Convey("Given a cancelled context", t, func() {
		dir := t.TempDir()
		a := writeFile(t, dir, "a.txt", sample)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := service.New().Run(ctx, []string{a})

		Convey("Then Run reports the cancellation", func() {
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestOptionsFromConfig(t *testing.T) {
	Convey("Given the default config", t, func() {
		cfg := config.New()
		cfg.ANOVA = true
		cfg.Workers = 2

		Convey("When translated into service options", func() {
			opts, err := service.OptionsFromConfig(cfg, logger.Nop())

			Convey("Then a service can run with them", func() {
				So(err, ShouldBeNil)
				dir := t.TempDir()
				a := writeFile(t, dir, "a.txt", sample)
				report, err := service.New(opts...).Run(context.Background(), []string{a})
				So(err, ShouldBeNil)
				So(report.Results[0].Kinematics, ShouldNotBeNil)
			})
		})
	})

	Convey("Given a config selecting the mean difference numerator", t, func() {
		cfg := config.New()
		cfg.Numerator = "mean"
		opts, err := service.OptionsFromConfig(cfg, logger.Nop())
		So(err, ShouldBeNil)

		dir := t.TempDir()
		a := writeFile(t, dir, "a.txt", "1 3\n1 0 0 211\n1 0 0 211\n1 0 0 -211\n")
		report, err := service.New(opts...).Run(context.Background(), []string{a})

		Convey("Then the evaluator divides the signed mean difference", func() {
			So(err, ShouldBeNil)
			r := report.Results[0].Result
			So(r.MeanDifference, ShouldAlmostEqual, 1.0/3, 1e-12)
			So(r.Significance, ShouldAlmostEqual, 1/math.Sqrt(3), 1e-12)
		})
	})

	Convey("Given a config with an unknown numerator", t, func() {
		cfg := config.New()
		cfg.Numerator = "median"
		_, err := service.OptionsFromConfig(cfg, logger.Nop())
		So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
	})

	Convey("Given a config with an unknown layout", t, func() {
		cfg := config.New()
		cfg.Layout = "tree"
		_, err := service.OptionsFromConfig(cfg, logger.Nop())
		So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
	})
}
