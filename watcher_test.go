package fanlog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

// TestWatcherReloadsVerbosity verifies that rewriting the file changes the
// threshold and that the change is announced.
func TestWatcherReloadsVerbosity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfig(t, path, "[logging]\nverbosity = 0\n")

	l, rec := newTestLogger()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewWatcher(l, path, 20*time.Millisecond)
	require.NoError(t, w.Start(ctx))

	writeConfig(t, path, "[logging]\nverbosity = 3\n")
	require.Eventually(t, func() bool { return l.V() == 3 }, 5*time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return rec.contains("Verbosity set to V(3)") }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

// TestWatcherKeepsVerbosityOnBadFile verifies that an unparsable file is
// reported and leaves the threshold alone.
func TestWatcherKeepsVerbosityOnBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfig(t, path, "[logging]\nverbosity = 1\n")

	l, rec := newTestLogger(WithVerbosity(1))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewWatcher(l, path, 50*time.Millisecond)
	require.NoError(t, w.Start(ctx))

	writeConfig(t, path, "[logging]\nverbosity = \"loud\"\n")
	require.Eventually(t, func() bool { return rec.contains("Cannot reload ") }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, Severity(1), l.V())
}

// TestWatcherIgnoresOtherFiles verifies that siblings in the watched directory
// do not trigger a reload.
func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	writeConfig(t, path, "[logging]\nverbosity = 0\n")

	l, rec := newTestLogger(WithVerbosity(2))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewWatcher(l, path, 10*time.Millisecond)
	require.NoError(t, w.Start(ctx))

	writeConfig(t, filepath.Join(dir, "other.toml"), "[logging]\nverbosity = 0\n")
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, Severity(2), l.V())
	assert.False(t, rec.contains("Config change detected"))
}

func TestWatcherStartFailsForMissingDirectory(t *testing.T) {
	w := NewWatcher(New(), filepath.Join(t.TempDir(), "gone", "config.toml"), 0)
	assert.Equal(t, DefaultDebounce, w.debounce)
	assert.Error(t, w.Start(context.Background()))

	select {
	case <-w.Done():
	case <-time.After(time.Second):
		t.Fatal("Done not closed after a failed Start")
	}
}
