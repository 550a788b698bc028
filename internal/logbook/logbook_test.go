package logbook

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAppendWritesFileAndMemory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "marginalia.log")
	book, err := New(path)
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	book.Info("render #%s ok", "count")
	book.Error("render #%s failed", "chart")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(content), "render #chart failed") {
		t.Fatalf("log file missing entry: %q", content)
	}
	lines := book.Tail(10)
	if len(lines) != 2 {
		t.Fatalf("tail = %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "INFO") || !strings.Contains(lines[1], "ERROR") {
		t.Fatalf("unexpected tail: %v", lines)
	}
}

func TestTailLimitsLines(t *testing.T) {
	book, err := New(filepath.Join(t.TempDir(), "m.log"))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	for i := 0; i < 5; i++ {
		book.Info("entry-%d", i)
	}
	lines := book.Tail(2)
	if len(lines) != 2 {
		t.Fatalf("tail = %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[1], "entry-4") {
		t.Fatalf("tail should end with the newest entry: %v", lines)
	}
}

func TestNilLogbookIsSafe(t *testing.T) {
	var book *Logbook
	book.Info("ignored")
	if lines := book.Tail(3); lines != nil {
		t.Fatalf("nil logbook tail = %v", lines)
	}
}
