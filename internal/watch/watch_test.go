package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSpecEvent(t *testing.T) {
	cases := []struct {
		name string
		op   fsnotify.Op
		want bool
	}{
		{"a.yml", fsnotify.Write, true},
		{"a.yaml", fsnotify.Create, true},
		{"a.yml", fsnotify.Remove, true},
		{"a.yml", fsnotify.Chmod, false},
		{".hidden.yml", fsnotify.Write, false},
		{"notes.txt", fsnotify.Write, false},
	}
	for _, c := range cases {
		got := isSpecEvent(fsnotify.Event{Name: filepath.Join("specs", c.name), Op: c.op})
		assert.Equal(t, c.want, got, "%s %s", c.name, c.op)
	}
}

func TestWatcherRunsOnSpecChange(t *testing.T) {
	dir := t.TempDir()

	var runs atomic.Int32
	w, err := New(dir, 50*time.Millisecond, time.Hour, func(context.Context) error {
		runs.Add(1)
		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	// Initial reconcile run.
	require.Eventually(t, func() bool { return runs.Load() >= 1 },
		2*time.Second, 10*time.Millisecond)

	// A burst of writes debounces into one additional run.
	path := filepath.Join(dir, "bmat8.yml")
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("BMat8:\n"), 0o644))
		time.Sleep(5 * time.Millisecond)
	}
	require.Eventually(t, func() bool { return runs.Load() >= 2 },
		2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()

	var runs atomic.Int32
	w, err := New(dir, 20*time.Millisecond, time.Hour, func(context.Context) error {
		runs.Add(1)
		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	require.Eventually(t, func() bool { return runs.Load() == 1 },
		2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())

	cancel()
	require.NoError(t, <-done)
}
