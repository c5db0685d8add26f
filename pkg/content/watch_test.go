package content

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchDebouncesContentChanges(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, root, 100*time.Millisecond, func(context.Context) { calls.Add(1) })
	}()

	// Give the watcher a moment to register the root.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignored"), 0o644))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(root, "intro.mdx"), []byte("# Intro"), 0o644))
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watch did not stop after cancel")
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestIsContentFile(t *testing.T) {
	assert.True(t, isContentFile("docs/module-1-ros2/01-nodes.mdx"))
	assert.True(t, isContentFile("intro.md"))
	assert.False(t, isContentFile("sidebar.js"))
}
