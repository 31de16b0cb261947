package gen

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/refgen/internal/coverage"
	"git.home.luguber.info/inful/refgen/internal/errors"
	"git.home.luguber.info/inful/refgen/internal/logfields"
	"git.home.luguber.info/inful/refgen/internal/metrics"
	"git.home.luguber.info/inful/refgen/internal/spec"
)

// Runner executes one full generation run: load every spec document, emit
// stale artifacts, report coverage, then sweep orphans. Spec documents are
// independent: a malformed one is logged and skipped, the rest proceed.
// Filesystem errors on write or sweep abort the run.
type Runner struct {
	SpecDir   string
	OutputDir string
	Emitter   *Emitter
	Checker   *coverage.Checker

	// GeneratorMTime stands in for the generator binary's own modification
	// time in staleness decisions.
	GeneratorMTime time.Time

	Metrics metrics.Recorder
	Logger  *slog.Logger
}

// Summary is the outcome of one run.
type Summary struct {
	Types        int
	Written      int
	UpToDate     int
	Swept        int
	CoverageGaps int
	SpecFailures int
	Collisions   int
	Started      time.Time
	Finished     time.Time
}

// Outcome classifies the run for metrics and history.
func (s *Summary) Outcome() string {
	switch {
	case s.SpecFailures > 0:
		return "failed"
	case s.CoverageGaps > 0 || s.Collisions > 0:
		return "warning"
	default:
		return "success"
	}
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func (r *Runner) metrics() metrics.Recorder {
	if r.Metrics != nil {
		return r.Metrics
	}
	return metrics.NoopRecorder{}
}

// Run processes every spec document in SpecDir and sweeps the output
// directory afterwards. The sweep is deferred until all documents are done
// so one document's artifacts are never treated as another's orphans, and
// skipped entirely when any document failed, since a failed document's
// artifacts cannot be told apart from orphans.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	sum := &Summary{Started: time.Now()}

	if err := os.MkdirAll(r.OutputDir, 0o755); err != nil {
		return sum, errors.SweepError(r.OutputDir, err)
	}

	paths, err := spec.ListDir(r.SpecDir)
	if err != nil {
		return sum, errors.InternalError("cannot list spec directory", err)
	}

	registry := NewRegistry()
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		ts, err := spec.LoadFile(path)
		if err != nil {
			r.logger().Error("spec document aborted",
				logfields.SpecFile(path), logfields.Error(err))
			sum.SpecFailures++
			r.metrics().IncSpecFailure()
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			r.logger().Error("spec document aborted",
				logfields.SpecFile(path), logfields.Error(err))
			sum.SpecFailures++
			r.metrics().IncSpecFailure()
			continue
		}

		sum.Types++
		if err := r.processType(ts, info.ModTime(), registry, sum); err != nil {
			return sum, err
		}
		r.checkCoverage(ts, sum)
	}

	// A failed document is still part of the spec set, but none of its
	// artifacts were recorded; sweeping now would delete them.
	if sum.SpecFailures > 0 {
		r.logger().Warn("orphan sweep skipped, artifact set is incomplete",
			slog.Int("spec_failures", sum.SpecFailures))
	} else {
		swept, err := registry.Sweep(r.OutputDir)
		for _, orphan := range swept {
			r.logger().Info("deleted orphan artifact", logfields.Artifact(orphan))
		}
		sum.Swept = len(swept)
		r.metrics().AddOrphansSwept(len(swept))
		if err != nil {
			return sum, err
		}
	}

	sum.Finished = time.Now()
	r.metrics().ObserveRunDuration(sum.Finished.Sub(sum.Started))
	r.metrics().IncRunOutcome(sum.Outcome())
	return sum, nil
}

// processType emits the overview artifact plus one artifact per entry,
// hidden sections included. Identifiers that collide after mangling are
// reported loudly; the later entry wins the write.
func (r *Runner) processType(ts *spec.TypeSpec, specMTime time.Time, registry *Registry, sum *Summary) error {
	overview := OverviewArtifactName(ts)
	err := r.emitArtifact(
		filepath.Join(r.OutputDir, overview),
		func() string { return r.Emitter.OverviewPage(ts) },
		specMTime, false, registry, sum)
	if err != nil {
		return err
	}

	seen := map[string]string{overview: ts.Name}
	for _, sec := range ts.Sections {
		for _, e := range sec.Entries {
			entry := e
			name := SymbolArtifactName(ts, entry)
			prev, collided := seen[name]
			if collided {
				r.logger().Warn("mangling collision, later entry overwrites earlier artifact",
					logfields.Type(ts.Name),
					slog.String("first", prev),
					slog.String("second", entry.Name),
					logfields.Artifact(name))
				sum.Collisions++
			}
			seen[name] = entry.Name

			// The colliding path was just written, so the staleness gate
			// would keep the earlier entry's content; force the overwrite.
			err := r.emitArtifact(
				filepath.Join(r.OutputDir, name),
				func() string { return r.Emitter.SymbolPage(ts, entry) },
				specMTime, collided, registry, sum)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// emitArtifact records the path, then writes only if the staleness oracle
// says so (or force is set). render is deferred so up-to-date artifacts
// cost no assembly.
func (r *Runner) emitArtifact(path string, render func() string, specMTime time.Time, force bool, registry *Registry, sum *Summary) error {
	registry.Record(path)

	info, err := os.Stat(path)
	exists := err == nil
	var outputMTime time.Time
	if exists {
		outputMTime = info.ModTime()
	}

	if !force && !ShouldRegenerate(exists, outputMTime, specMTime, r.GeneratorMTime) {
		sum.UpToDate++
		r.metrics().IncArtifactUpToDate()
		return nil
	}

	r.logger().Info("rebuilding artifact", logfields.Artifact(path))
	if err := os.WriteFile(path, []byte(render()), 0o644); err != nil {
		return errors.ArtifactWriteError(path, err)
	}
	sum.Written++
	r.metrics().IncArtifactWritten()
	return nil
}

// checkCoverage diffs the spec against the symbol database. Every condition
// here is a warning: a missing or unreadable database skips the type, and
// gaps never fail the run.
func (r *Runner) checkCoverage(ts *spec.TypeSpec, sum *Summary) {
	if r.Checker == nil {
		return
	}

	report, err := r.Checker.Check(ts)
	if err != nil {
		r.logger().Warn("coverage check skipped",
			logfields.Type(ts.Name), logfields.Error(err))
		return
	}

	for _, name := range report.Unknown {
		r.logger().Warn("documented symbol not found in symbol database",
			logfields.Type(ts.Name), logfields.Symbol(name),
			logfields.DBFile(report.DBFile))
	}
	for _, name := range report.Missing {
		r.logger().Warn("undocumented public symbol",
			logfields.Type(ts.Name), logfields.Symbol(name))
	}
	sum.CoverageGaps += len(report.Missing)
	r.metrics().AddCoverageGaps(ts.Name, len(report.Missing))
}
