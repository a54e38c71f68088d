package watch

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/specialistvlad/buildcheck/internal/ctxlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHCLFilter(t *testing.T) {
	assert.True(t, HCLFilter("build.hcl"))
	assert.True(t, HCLFilter("/a/b/BUILD.HCL"))
	assert.False(t, HCLFilter("build.gradle.kts"))
	assert.False(t, HCLFilter("build.hcl.swp"))
}

func TestAddRecursive(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "app", "src"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git", "objects"), 0o755))
	file := filepath.Join(dir, "build.hcl")
	require.NoError(t, os.WriteFile(file, []byte("project {}\n"), 0o600))

	w, err := New(0, HCLFilter)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.AddRecursive(dir))
	assert.Equal(t, []string{dir, filepath.Join(dir, "app"), filepath.Join(dir, "app", "src")}, w.WatchList())

	require.Error(t, w.AddRecursive(filepath.Join(dir, "missing")))
}

func TestRun_DebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := New(100*time.Millisecond, HCLFilter)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.AddRecursive(dir))

	ctx, cancel := context.WithTimeout(ctxlog.Discard(context.Background()), 10*time.Second)
	defer cancel()

	batches := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(_ context.Context, paths []string) {
			batches <- paths
		})
	}()

	file := filepath.Join(dir, "build.hcl")
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(file, []byte("project {}\n"), 0o600))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))

	select {
	case paths := <-batches:
		assert.Equal(t, []string{file}, paths)
	case <-ctx.Done():
		t.Fatal("timed out waiting for a change batch")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestRun_WatchesNewDirectories(t *testing.T) {
	dir := t.TempDir()
	w, err := New(50*time.Millisecond, HCLFilter)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.AddRecursive(dir))

	ctx, cancel := context.WithTimeout(ctxlog.Discard(context.Background()), 10*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(context.Context, []string) {})
	}()

	hidden := filepath.Join(dir, ".gradle")
	lib := filepath.Join(dir, "lib")
	require.NoError(t, os.Mkdir(hidden, 0o755))
	require.NoError(t, os.Mkdir(lib, 0o755))

	assert.Eventually(t, func() bool {
		return slices.Contains(w.WatchList(), lib)
	}, 5*time.Second, 10*time.Millisecond)
	assert.NotContains(t, w.WatchList(), hidden)

	cancel()
	require.NoError(t, <-done)
}

func TestIsHidden(t *testing.T) {
	assert.True(t, isHidden("/repo/.git"))
	assert.True(t, isHidden(".gradle"))
	assert.False(t, isHidden("/repo/.config/app"))
	assert.False(t, isHidden("app"))
}
