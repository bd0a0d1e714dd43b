package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_RebuildsOnSourceChange(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src", "app")
	require.NoError(t, os.MkdirAll(src, 0o750))
	configPath := filepath.Join(root, "skyuxconfig.json")
	require.NoError(t, os.WriteFile(configPath, []byte("{}"), 0o600))

	var builds atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := New([]string{filepath.Join(root, "src")}, configPath, func(context.Context) error {
		builds.Add(1)
		return nil
	}, WithDebounce(20*time.Millisecond))

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return builds.Load() == 1 }, 2*time.Second, 10*time.Millisecond, "initial build")

	require.NoError(t, os.WriteFile(filepath.Join(src, "index.html"), []byte("<p>hi</p>"), 0o600))
	require.Eventually(t, func() bool { return builds.Load() >= 2 }, 2*time.Second, 10*time.Millisecond, "rebuild after source change")

	settled := builds.Load()
	require.NoError(t, os.WriteFile(configPath, []byte(`{"a": 1}`), 0o600))
	require.Eventually(t, func() bool { return builds.Load() > settled }, 2*time.Second, 10*time.Millisecond, "rebuild after config change")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_BuildErrorsDoNotStopWatching(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	require.NoError(t, os.MkdirAll(src, 0o750))

	var builds atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := New([]string{src}, "", func(context.Context) error {
		builds.Add(1)
		return errors.New("bundler reported errors")
	}, WithDebounce(10*time.Millisecond))
	go func() { _ = w.Run(ctx) }()

	require.Eventually(t, func() bool { return builds.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(src, "main.ts"), []byte("x"), 0o600))
	require.Eventually(t, func() bool { return builds.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_MissingSourceDir(t *testing.T) {
	w := New([]string{filepath.Join(t.TempDir(), "nope")}, "", func(context.Context) error { return nil })
	require.Error(t, w.Run(context.Background()))
}

func TestWatcher_Relevant(t *testing.T) {
	root := "/proj"
	w := New([]string{filepath.Join(root, "src")}, filepath.Join(root, "skyuxconfig.json"), nil)

	assert.True(t, w.relevant(fsnotify.Event{Name: "/proj/src/app/index.html", Op: fsnotify.Write}))
	assert.True(t, w.relevant(fsnotify.Event{Name: "/proj/skyuxconfig.json", Op: fsnotify.Create}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "/proj/package.json", Op: fsnotify.Write}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "/proj/src/app/.index.html.swp", Op: fsnotify.Write}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "/proj/src/app/index.html", Op: fsnotify.Chmod}))
}

func TestDebouncer_CoalescesBursts(t *testing.T) {
	req, trigger, stop := newDebouncer(30 * time.Millisecond)
	defer stop()

	for range 5 {
		trigger()
	}
	select {
	case <-req:
	case <-time.After(time.Second):
		t.Fatal("debouncer never fired")
	}
	select {
	case <-req:
		t.Fatal("burst produced more than one request")
	case <-time.After(100 * time.Millisecond):
	}
}
