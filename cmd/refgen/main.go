package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/refgen/internal/config"
	"git.home.luguber.info/inful/refgen/internal/coverage"
	"git.home.luguber.info/inful/refgen/internal/gen"
	"git.home.luguber.info/inful/refgen/internal/history"
	"git.home.luguber.info/inful/refgen/internal/logfields"
	"git.home.luguber.info/inful/refgen/internal/metrics"
	"git.home.luguber.info/inful/refgen/internal/spec"
	"git.home.luguber.info/inful/refgen/internal/watch"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"refgen.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Generate struct{} `cmd:"" help:"Generate the documentation corpus from spec documents"`

	Check struct{} `cmd:"" help:"Report documentation-coverage gaps without generating anything"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	Watch struct{} `cmd:"" help:"Regenerate continuously on spec changes"`

	History struct {
		Limit int `short:"n" help:"Number of runs to show" default:"20"`
	} `cmd:"" help:"Show recent generation runs"`
}

func main() {
	// .env is optional; real environment always wins.
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	var err error
	switch ctx.Command() {
	case "generate":
		err = withConfig(runGenerate)
	case "check":
		err = withConfig(runCheck)
	case "init":
		err = config.Init(CLI.Config, CLI.Init.Force)
	case "watch":
		err = withConfig(runWatch)
	case "history":
		err = withConfig(runHistory)
	}
	if err != nil {
		slog.Error("command failed", logfields.Error(err))
		os.Exit(1)
	}
}

func withConfig(run func(cfg *config.Config) error) error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}
	return run(cfg)
}

func newRunner(cfg *config.Config, rec metrics.Recorder) (*gen.Runner, error) {
	generatorMTime, err := cfg.GeneratorMTime()
	if err != nil {
		return nil, err
	}
	return &gen.Runner{
		SpecDir:   cfg.SpecDir,
		OutputDir: cfg.OutputDir,
		Emitter: &gen.Emitter{
			Project: cfg.Project,
			Header:  gen.HeaderComment(cfg.Copyright),
		},
		Checker:        coverage.NewChecker(cfg.SymbolDBDir),
		GeneratorMTime: generatorMTime,
		Metrics:        rec,
	}, nil
}

// executeRun performs one generation run, records it to history when
// configured, and maps spec failures to a non-zero exit.
func executeRun(ctx context.Context, cfg *config.Config, runner *gen.Runner) error {
	runID := history.NewRunID()
	slog.Info("starting generation run",
		logfields.RunID(runID),
		slog.String("spec_dir", cfg.SpecDir),
		slog.String("output", cfg.OutputDir))

	sum, runErr := runner.Run(ctx)

	slog.Info("generation run finished",
		logfields.RunID(runID),
		slog.String("outcome", sum.Outcome()),
		slog.Int("types", sum.Types),
		slog.Int("written", sum.Written),
		slog.Int("up_to_date", sum.UpToDate),
		slog.Int("swept", sum.Swept),
		slog.Int("coverage_gaps", sum.CoverageGaps),
		slog.Int("spec_failures", sum.SpecFailures))

	if cfg.HistoryDB != "" {
		if err := appendHistory(ctx, cfg.HistoryDB, runID, sum); err != nil {
			slog.Warn("failed to record run history", logfields.Error(err))
		}
	}

	if runErr != nil {
		return runErr
	}
	if sum.SpecFailures > 0 {
		return fmt.Errorf("%d spec document(s) failed", sum.SpecFailures)
	}
	return nil
}

func appendHistory(ctx context.Context, dbPath, runID string, sum *gen.Summary) error {
	store, err := history.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Append(ctx, history.Run{
		ID:           runID,
		Started:      sum.Started,
		Finished:     sum.Finished,
		Types:        sum.Types,
		Written:      sum.Written,
		UpToDate:     sum.UpToDate,
		Swept:        sum.Swept,
		CoverageGaps: sum.CoverageGaps,
		SpecFailures: sum.SpecFailures,
		Outcome:      sum.Outcome(),
	})
}

func runGenerate(cfg *config.Config) error {
	runner, err := newRunner(cfg, metrics.NoopRecorder{})
	if err != nil {
		return err
	}
	return executeRun(context.Background(), cfg, runner)
}

// runCheck cross-references every spec document against the symbol database
// without touching the output directory. Gaps are warnings; the command only
// fails on unreadable configuration or spec directory.
func runCheck(cfg *config.Config) error {
	paths, err := spec.ListDir(cfg.SpecDir)
	if err != nil {
		return err
	}
	checker := coverage.NewChecker(cfg.SymbolDBDir)

	var gaps, failures int
	for _, path := range paths {
		ts, err := spec.LoadFile(path)
		if err != nil {
			slog.Error("spec document aborted", logfields.SpecFile(path), logfields.Error(err))
			failures++
			continue
		}
		report, err := checker.Check(ts)
		if err != nil {
			slog.Warn("coverage check skipped", logfields.Type(ts.Name), logfields.Error(err))
			continue
		}
		for _, name := range report.Missing {
			slog.Warn("undocumented public symbol", logfields.Type(ts.Name), logfields.Symbol(name))
		}
		gaps += len(report.Missing)
	}

	slog.Info("coverage check finished",
		slog.Int("types", len(paths)), slog.Int("gaps", gaps))
	if failures > 0 {
		return fmt.Errorf("%d spec document(s) failed", failures)
	}
	return nil
}

func runWatch(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	registry := prom.NewRegistry()
	runner, err := newRunner(cfg, metrics.NewPrometheusRecorder(registry))
	if err != nil {
		return err
	}

	if cfg.Watch.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.HTTPHandler(registry))
		server := &http.Server{Addr: cfg.Watch.MetricsAddr, Handler: mux}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("metrics server failed", logfields.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = server.Shutdown(shutdownCtx)
		}()
		slog.Info("serving metrics", slog.String("addr", cfg.Watch.MetricsAddr))
	}

	w, err := watch.New(cfg.SpecDir, cfg.Watch.Debounce, cfg.Watch.RescanInterval,
		func(ctx context.Context) error {
			// Spec failures keep the watcher alive; they are logged per run.
			err := executeRun(ctx, cfg, runner)
			if err != nil && ctx.Err() == nil {
				slog.Error("run completed with failures", logfields.Error(err))
			}
			return nil
		})
	if err != nil {
		return err
	}
	return w.Start(ctx)
}

func runHistory(cfg *config.Config) error {
	if cfg.HistoryDB == "" {
		return fmt.Errorf("history_db is not configured")
	}
	store, err := history.Open(cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Recent(context.Background(), CLI.History.Limit)
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Printf("%s  %s  outcome=%-8s types=%-3d written=%-4d up_to_date=%-4d swept=%-3d gaps=%-3d failures=%d\n",
			r.Started.Format(time.RFC3339), r.ID, r.Outcome,
			r.Types, r.Written, r.UpToDate, r.Swept, r.CoverageGaps, r.SpecFailures)
	}
	return nil
}
