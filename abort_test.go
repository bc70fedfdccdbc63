package fanlog

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFailedCheckTerminatesProcess re-runs the test binary with the real abort
// function and verifies that the process dies abnormally only after the fatal
// line has been flushed to the file sink.
func TestFailedCheckTerminatesProcess(t *testing.T) {
	if path := os.Getenv("FANLOG_ABORT_LOG"); path != "" {
		l := New()
		require.NoError(t, l.LogToFile(path))
		n := 1
		l.Check(n == 2, "n == 2", "boom")
		t.Fatal("process survived a failed check")
	}

	path := filepath.Join(t.TempDir(), "abort.log")
	cmd := exec.Command(os.Args[0], "-test.run=^TestFailedCheckTerminatesProcess$")
	cmd.Env = append(os.Environ(), "FANLOG_ABORT_LOG="+path)
	out, err := cmd.CombinedOutput()

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr, string(out))
	assert.False(t, exitErr.Success())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Regexp(t, `^\d{8} \d\d:\d\d:\d\d F abort_test\.go:\d+ Check failed: n == 2 boom\n$`, string(data))
}
