package logging

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func readEntries(t *testing.T, path string) []map[string]interface{} {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()
	var out []map[string]interface{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var entry map[string]interface{}
		if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
			t.Fatalf("decode %q: %v", sc.Text(), err)
		}
		out = append(out, entry)
	}
	return out
}

func TestTraceWritesOnlyWhenEnabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "trace.log")
	Configure(path)
	defer Configure("")
	defer SetTraceEnabled(false)

	SetTraceEnabled(false)
	Trace("ignored", nil)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no log file while tracing is disabled, stat err=%v", err)
	}

	SetTraceEnabled(true)
	Trace("bus.send", map[string]interface{}{"id": 1})
	entries := readEntries(t, path)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0]["event"] != "bus.send" {
		t.Fatalf("expected event bus.send, got %v", entries[0]["event"])
	}
}

func TestErrorAlwaysWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "error.log")
	Configure(path)
	defer Configure("")

	Error(nil)
	Error(errors.New("boom"))
	entries := readEntries(t, path)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0]["error"] != "boom" {
		t.Fatalf("expected error boom, got %v", entries[0]["error"])
	}
}

func TestConfigureEmptyFallsBackToDefault(t *testing.T) {
	Configure("")
	if Path() != defaultLogFile {
		t.Fatalf("expected %q, got %q", defaultLogFile, Path())
	}
}
