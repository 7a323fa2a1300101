package catalog

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReloadsStoreOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.toml")
	writeCatalog(t, path, sampleCatalog, time.Now().Add(-time.Hour))

	store, err := Open(path)
	require.NoError(t, err)

	w, err := NewWatcher(store, 20*time.Millisecond, zerolog.Nop())
	require.NoError(t, err)
	defer w.Close()

	var notified atomic.Int32
	unsubscribe := store.Subscribe(func() { notified.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	updated := sampleCatalog + "\n[[item]]\nid = \"d\"\ntitle = \"Green Widget\"\n"
	writeCatalog(t, path, updated, time.Now())

	require.Eventually(t, func() bool { return notified.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 4, store.Count())

	unsubscribe()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.toml")
	writeCatalog(t, path, sampleCatalog, time.Now())

	store, err := Open(path)
	require.NoError(t, err)

	w, err := NewWatcher(store, 0, zerolog.Nop())
	require.NoError(t, err)

	var notified atomic.Int32
	store.Subscribe(func() { notified.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	writeCatalog(t, filepath.Join(dir, "other.toml"), "x = 1", time.Now())
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), notified.Load())

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
