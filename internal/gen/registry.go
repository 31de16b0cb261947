package gen

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"git.home.luguber.info/inful/refgen/internal/errors"
)

// Registry tracks every artifact path produced or confirmed up-to-date
// during one run. It is created empty per run and consumed once by Sweep;
// recording is mutex-guarded so spec documents may be processed in parallel.
type Registry struct {
	mu       sync.Mutex
	recorded map[string]struct{}
}

// NewRegistry returns an empty per-run registry.
func NewRegistry() *Registry {
	return &Registry{recorded: make(map[string]struct{})}
}

// Record marks path as produced by the current run.
func (r *Registry) Record(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recorded[path] = struct{}{}
}

// Recorded reports whether path was recorded this run.
func (r *Registry) Recorded(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.recorded[path]
	return ok
}

// Len returns the number of recorded paths.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.recorded)
}

// Sweep deletes every regular file in outputDir whose path was never
// recorded and returns the deleted paths, sorted. It must only run after
// every spec document has been processed: a path written by one document
// must not look orphaned while another is still pending.
func (r *Registry) Sweep(outputDir string) ([]string, error) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return nil, errors.SweepError(outputDir, err)
	}

	var deleted []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(outputDir, e.Name())
		if r.Recorded(path) {
			continue
		}
		if err := os.Remove(path); err != nil {
			return deleted, errors.SweepError(outputDir, err)
		}
		deleted = append(deleted, path)
	}
	sort.Strings(deleted)
	return deleted, nil
}
