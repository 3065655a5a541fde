package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatchTriggersDebouncedCallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "part.stl")
	other := filepath.Join(dir, "other.stl")
	require.NoError(t, os.WriteFile(path, []byte("solid a\n"), 0o644))

	fw, err := NewFileWatcher(300 * time.Millisecond)
	require.NoError(t, err)
	defer fw.Close()

	changed := make(chan string, 10)
	require.NoError(t, fw.Watch([]string{path}, func(p string) { changed <- p }))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- fw.Run(ctx) }()

	// unwatched files in the same directory are ignored
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("solid b\n"), 0o644))
	}

	select {
	case p := <-changed:
		abs, err := filepath.Abs(path)
		require.NoError(t, err)
		require.Equal(t, abs, p)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	// the burst of writes collapses into one callback
	select {
	case p := <-changed:
		t.Fatalf("unexpected second callback for %s", p)
	case <-time.After(600 * time.Millisecond):
	}

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestRemoveAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "part.scad")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	fw, err := NewFileWatcher(time.Millisecond)
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, fw.Watch([]string{path, path}, func(string) {}))
	require.NoError(t, fw.RemoveAll())
	require.Empty(t, fw.callbacks)
}
