package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/atomicstack/xdialog/internal/logging"
)

// QuietLogs points the shared log file into a per-test directory and restores
// the previous destination and trace setting afterwards.
func QuietLogs(t *testing.T) string {
	t.Helper()
	prevPath := logging.Path()
	prevTrace := logging.TraceEnabled()
	path := filepath.Join(t.TempDir(), "xdialog.log")
	logging.Configure(path)
	t.Cleanup(func() {
		logging.Configure(prevPath)
		logging.SetTraceEnabled(prevTrace)
	})
	return path
}

// WaitFor polls cond every few milliseconds and fails the test if it does not
// hold within timeout.
func WaitFor(t *testing.T, timeout time.Duration, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		if cond() {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("timeout after %s waiting for %s", timeout, what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
