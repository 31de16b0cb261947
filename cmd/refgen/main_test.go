package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/refgen/internal/config"
	"git.home.luguber.info/inful/refgen/internal/history"
	"git.home.luguber.info/inful/refgen/internal/metrics"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	specDir := filepath.Join(root, "yml")
	require.NoError(t, os.Mkdir(specDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(specDir, "bmat8.yml"),
		[]byte("libsemigroups::BMat8:\n  - Members:\n      - to_int\n"), 0o644))

	stamp := filepath.Join(root, "stamp")
	require.NoError(t, os.WriteFile(stamp, nil, 0o644))
	old := time.Now().Add(-24 * time.Hour)
	require.NoError(t, os.Chtimes(stamp, old, old))

	return &config.Config{
		Project:        "libsemigroups",
		SpecDir:        specDir,
		SymbolDBDir:    filepath.Join(root, "xml"),
		OutputDir:      filepath.Join(root, "out"),
		GeneratorStamp: stamp,
		HistoryDB:      filepath.Join(root, "history.db"),
	}
}

func TestExecuteRunEndToEnd(t *testing.T) {
	cfg := testConfig(t)

	runner, err := newRunner(cfg, metrics.NoopRecorder{})
	require.NoError(t, err)
	require.NoError(t, executeRun(context.Background(), cfg, runner))

	assert.FileExists(t, filepath.Join(cfg.OutputDir, "libsemigroups__bmat8.rst"))
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "libsemigroups__bmat8__to_int.rst"))

	// The run landed in history.
	store, err := history.Open(cfg.HistoryDB)
	require.NoError(t, err)
	defer store.Close()
	runs, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 2, runs[0].Written)
}

func TestExecuteRunReportsSpecFailures(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.SpecDir, "bad.yml"),
		[]byte("A:\n  - S:\n      - [a, b, c]\n"), 0o644))

	runner, err := newRunner(cfg, metrics.NoopRecorder{})
	require.NoError(t, err)
	err = executeRun(context.Background(), cfg, runner)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spec document(s) failed")
}
