// Package watch reruns generation when spec documents change. Filesystem
// events cover the spec directory; a periodic full rescan catches
// symbol-database changes, which no watcher sees.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/refgen/internal/logfields"
)

// RunFunc executes one full generation run.
type RunFunc func(ctx context.Context) error

// Watcher monitors the spec directory and triggers debounced runs.
type Watcher struct {
	specDir   string
	debounce  time.Duration
	rescan    time.Duration
	run       RunFunc
	watcher   *fsnotify.Watcher
	scheduler gocron.Scheduler
	trigger   chan struct{}
	logger    *slog.Logger
}

// New creates a watcher over specDir. debounce collapses event bursts into
// one run; rescan forces a periodic full run regardless of events.
func New(specDir string, debounce, rescan time.Duration, run RunFunc) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	absDir, err := filepath.Abs(specDir)
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to resolve spec directory: %w", err)
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Watcher{
		specDir:   absDir,
		debounce:  debounce,
		rescan:    rescan,
		run:       run,
		watcher:   fsw,
		scheduler: scheduler,
		trigger:   make(chan struct{}, 1),
		logger:    slog.Default(),
	}, nil
}

// Start begins watching and blocks until ctx is done. An initial run fires
// immediately so the corpus is reconciled before any event arrives.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.specDir); err != nil {
		return fmt.Errorf("failed to watch spec directory %s: %w", w.specDir, err)
	}

	_, err := w.scheduler.NewJob(
		gocron.DurationJob(w.rescan),
		gocron.NewTask(w.requestRun),
		gocron.WithName("rescan"),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule rescan job: %w", err)
	}
	w.scheduler.Start()

	w.logger.Info("watching spec directory",
		slog.String("dir", w.specDir),
		slog.Duration("debounce", w.debounce),
		slog.Duration("rescan", w.rescan))

	go w.eventLoop(ctx)

	w.requestRun()
	w.runLoop(ctx)
	return w.Stop()
}

// Stop shuts down the filesystem watcher and the scheduler.
func (w *Watcher) Stop() error {
	if err := w.watcher.Close(); err != nil {
		w.logger.Error("error closing file watcher", logfields.Error(err))
	}
	return w.scheduler.Shutdown()
}

// requestRun schedules a run if one is not already pending.
func (w *Watcher) requestRun() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

func isSpecEvent(event fsnotify.Event) bool {
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return false
	}
	switch filepath.Ext(name) {
	case ".yml", ".yaml":
	default:
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}

// eventLoop folds bursts of spec events into a single debounced trigger.
func (w *Watcher) eventLoop(ctx context.Context) {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isSpecEvent(event) {
				continue
			}
			w.logger.Debug("spec change detected",
				logfields.SpecFile(event.Name), slog.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
		case <-timerC:
			timer, timerC = nil, nil
			w.requestRun()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", logfields.Error(err))
		}
	}
}

// runLoop executes requested runs sequentially until ctx is done.
func (w *Watcher) runLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.trigger:
			if err := w.run(ctx); err != nil {
				w.logger.Error("generation run failed", logfields.Error(err))
			}
		}
	}
}
