package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startWatcher runs a Watcher over dir and returns the channel its batches
// are delivered on.
func startWatcher(t *testing.T, dir string, opts Options) <-chan []string {
	t.Helper()
	w, err := New([]string{dir}, opts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	batches := make(chan []string, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx, func(_ context.Context, paths []string) {
			batches <- paths
		})
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		_ = w.Close()
	})
	return batches
}

func nextBatch(t *testing.T, batches <-chan []string) []string {
	t.Helper()
	select {
	case b := <-batches:
		return b
	case <-time.After(5 * time.Second):
		t.Fatal("no batch delivered")
		return nil
	}
}

// ---------------------------------------------------------------------------
// Run
// ---------------------------------------------------------------------------

func TestWatch_ReportsChangedSources(t *testing.T) {
	dir := t.TempDir()
	batches := startWatcher(t, dir, Options{Debounce: 300 * time.Millisecond})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.c"), []byte("int b;\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.hh"), []byte("#pragma once\n"), 0o644))

	got := nextBatch(t, batches)
	assert.Equal(t, []string{filepath.Join(dir, "a.hh"), filepath.Join(dir, "b.c")}, got)
}

func TestWatch_Exclude(t *testing.T) {
	dir := t.TempDir()
	batches := startWatcher(t, dir, Options{
		Debounce: 300 * time.Millisecond,
		Exclude:  []string{filepath.ToSlash(filepath.Join(dir, "gen_*.c"))},
	})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "gen_table.c"), []byte("int t;\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.c"), []byte("int m;\n"), 0o644))

	assert.Equal(t, []string{filepath.Join(dir, "main.c")}, nextBatch(t, batches))
}

func TestWatch_NewSubdirectory(t *testing.T) {
	dir := t.TempDir()
	batches := startWatcher(t, dir, Options{Debounce: 50 * time.Millisecond})

	sub := filepath.Join(dir, "src")
	require.NoError(t, os.Mkdir(sub, 0o755))
	// Give the watcher a moment to register the new directory.
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(sub, "x.c"), []byte("int x;\n"), 0o644))

	assert.Equal(t, []string{filepath.Join(sub, "x.c")}, nextBatch(t, batches))
}

func TestWatch_FileRootIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "main.c")
	require.NoError(t, os.WriteFile(target, []byte("int m;\n"), 0o644))
	batches := startWatcher(t, target, Options{Debounce: 300 * time.Millisecond})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "sibling.c"), []byte("int s;\n"), 0o644))
	require.NoError(t, os.WriteFile(target, []byte("int m2;\n"), 0o644))

	assert.Equal(t, []string{target}, nextBatch(t, batches))
}

// ---------------------------------------------------------------------------
// Setup
// ---------------------------------------------------------------------------

func TestNew_MissingRoot(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "nope")}, Options{})
	assert.Error(t, err)
}

func TestNew_DefaultDebounce(t *testing.T) {
	w, err := New([]string{t.TempDir()}, Options{})
	require.NoError(t, err)
	defer w.Close()
	assert.Equal(t, DefaultDebounce, w.debounce)
}

func TestRelevant(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "vendor"), 0o755))
	w, err := New([]string{dir}, Options{Exclude: []string{filepath.ToSlash(filepath.Join(dir, "vendor", "**"))}})
	require.NoError(t, err)
	defer w.Close()

	in := func(name string) string { return filepath.Join(dir, name) }
	assert.True(t, w.relevant(fsnotify.Event{Name: in("main.c"), Op: fsnotify.Write}))
	assert.True(t, w.relevant(fsnotify.Event{Name: in("x.cc"), Op: fsnotify.Create}))
	assert.False(t, w.relevant(fsnotify.Event{Name: in("main.c"), Op: fsnotify.Remove}))
	assert.False(t, w.relevant(fsnotify.Event{Name: in("main.go"), Op: fsnotify.Write}))
	assert.False(t, w.relevant(fsnotify.Event{Name: in("vendor/lib.c"), Op: fsnotify.Write}))
	assert.False(t, w.relevant(fsnotify.Event{Name: filepath.Join(t.TempDir(), "elsewhere.c"), Op: fsnotify.Write}))
}

func TestRelevant_FileRoot(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "main.c")
	require.NoError(t, os.WriteFile(target, []byte("int m;\n"), 0o644))
	w, err := New([]string{target}, Options{})
	require.NoError(t, err)
	defer w.Close()

	assert.True(t, w.relevant(fsnotify.Event{Name: target, Op: fsnotify.Write}))
	assert.False(t, w.relevant(fsnotify.Event{Name: filepath.Join(dir, "other.c"), Op: fsnotify.Write}))
}
