// Command pionscan aggregates pion counts over collision-event files and
// reports their statistical significance.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	app "github.com/okian/pionscan/internal/app"
	"github.com/okian/pionscan/internal/config"
	"github.com/okian/pionscan/internal/domain/model"
	"github.com/okian/pionscan/internal/report"
	"github.com/okian/pionscan/pkg/logger"
	"github.com/okian/pionscan/pkg/metrics"
)

// Exit codes.
const (
	exitOK          = 0
	exitFailure     = 1 // setup error, run error or at least one failed file
	exitUsage       = 2
	reportFilePerms = 0o644
)

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// cliFlags holds command-line values; zero values mean "not given".
type cliFlags struct {
	configPath   string
	batchSize    int
	layout       string
	maxParticles int
	maxEvents    int
	convention   string
	jsonPath     string
	xlsxPath     string
	metricsFile  string
	workers      int
	anova        bool
	kinematics   bool
	set          map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*cliFlags, []string, error) {
	f := &cliFlags{set: map[string]bool{}}
	fs := flag.NewFlagSet("pionscan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: pionscan [flags] FILE...\n\n")
		fs.PrintDefaults()
	}

	fs.StringVar(&f.configPath, "config", "", "YAML config file (overrides "+config.EnvConfigPath+")")
	fs.IntVar(&f.batchSize, "batch-size", 0, "Batch window length")
	fs.StringVar(&f.layout, "layout", "", "Input layout: nested or flat")
	fs.IntVar(&f.maxParticles, "max-particles", 0, "Stop each file after this many particles (0 = no cap)")
	fs.IntVar(&f.maxEvents, "max-events", 0, "Stop each file after this many events (0 = no cap)")
	fs.StringVar(&f.convention, "convention", "", "Significance convention: count or sigma")
	fs.StringVar(&f.jsonPath, "json", "", "Write a JSON report to this path")
	fs.StringVar(&f.xlsxPath, "xlsx", "", "Write an XLSX workbook to this path")
	fs.StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus metrics in text format to this path")
	fs.IntVar(&f.workers, "workers", 0, "Maximum files processed concurrently")
	fs.BoolVar(&f.anova, "anova", false, "Run ANOVA on pT and p across files")
	fs.BoolVar(&f.kinematics, "kinematics", false, "Report per-file momentum averages")

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", errUsage, err)
	}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return f, fs.Args(), nil
}

// apply overrides cfg with every flag given on the command line.
func (f *cliFlags) apply(cfg *config.Config) {
	if f.set["batch-size"] {
		cfg.BatchSize = f.batchSize
	}
	if f.set["layout"] {
		cfg.Layout = f.layout
	}
	if f.set["max-particles"] {
		cfg.MaxParticles = f.maxParticles
	}
	if f.set["max-events"] {
		cfg.MaxEvents = f.maxEvents
	}
	if f.set["convention"] {
		cfg.Convention = f.convention
	}
	if f.set["json"] {
		cfg.ReportJSON = f.jsonPath
	}
	if f.set["xlsx"] {
		cfg.ReportXLSX = f.xlsxPath
	}
	if f.set["metrics-file"] {
		cfg.MetricsFile = f.metricsFile
	}
	if f.set["workers"] {
		cfg.Workers = f.workers
	}
	if f.set["anova"] {
		cfg.ANOVA = f.anova
	}
	if f.set["kinematics"] {
		cfg.Kinematics = f.kinematics
	}
	if cfg.ANOVA {
		cfg.Kinematics = true
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags, files, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if err := logger.Init(logger.WithWriter(stderr)); err != nil {
		fmt.Fprintf(stderr, "failed to initialize logging: %v\n", err)
		return exitFailure
	}

	cfg, err := config.Load(ctx, flags.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return exitFailure
	}
	flags.apply(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "invalid configuration: %v\n", err)
		return exitUsage
	}

	if err := logger.Init(logger.WithWriter(stderr), logger.WithFormat(cfg.LogFormat)); err != nil {
		fmt.Fprintf(stderr, "failed to initialize logging: %v\n", err)
		return exitFailure
	}
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if len(files) == 0 {
		files = cfg.Files
	}
	if len(files) == 0 {
		fmt.Fprintf(stderr, "usage: pionscan [flags] FILE...\n")
		return exitUsage
	}

	opts, err := app.OptionsFromConfig(cfg, log)
	if err != nil {
		fmt.Fprintf(stderr, "invalid configuration: %v\n", err)
		return exitUsage
	}
	runID := uuid.NewString()
	metrics.Init(metrics.WithConstLabels(map[string]string{"run_id": runID}))
	opts = append(opts, app.WithRunID(runID))

	rep, err := app.New(opts...).Run(ctx, files)
	if err != nil {
		log.Error(ctx, "run failed", logger.Error(err))
		return exitFailure
	}

	code := exitOK
	if len(rep.Failures) > 0 {
		code = exitFailure
	}
	if err := report.WriteText(stdout, rep); err != nil {
		log.Error(ctx, "failed to write summary", logger.Error(err))
		code = exitFailure
	}
	if err := writeOutputs(ctx, cfg, rep, log); err != nil {
		code = exitFailure
	}
	return code
}

// writeOutputs writes the optional report files; it keeps going after a
// failure and returns the joined errors.
func writeOutputs(ctx context.Context, cfg *config.Config, rep *model.Report, log logger.Logger) error {
	var errs []error
	if cfg.ReportJSON != "" {
		if err := writeJSONFile(cfg.ReportJSON, rep); err != nil {
			log.Error(ctx, "failed to write json report", logger.String("path", cfg.ReportJSON), logger.Error(err))
			errs = append(errs, err)
		}
	}
	if cfg.ReportXLSX != "" {
		if err := report.WriteXLSX(cfg.ReportXLSX, rep); err != nil {
			log.Error(ctx, "failed to write xlsx report", logger.String("path", cfg.ReportXLSX), logger.Error(err))
			errs = append(errs, err)
		}
	}
	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Error(ctx, "failed to write metrics", logger.String("path", cfg.MetricsFile), logger.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func writeJSONFile(path string, rep *model.Report) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, reportFilePerms)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return report.WriteJSON(f, rep)
}
