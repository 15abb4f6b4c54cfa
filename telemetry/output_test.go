package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("disabled output errored: %v", err)
	}
	if om != nil {
		t.Fatal("expected nil manager for empty dir")
	}

	// A nil manager must be safe to use.
	if err := om.WriteWindow(WindowStats{}); err != nil {
		t.Errorf("nil manager WriteWindow errored: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("nil manager Close errored: %v", err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run1")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("creating output manager: %v", err)
	}

	if err := om.WriteWindow(WindowStats{WindowEndTick: 300, FramesSubmitted: 300}); err != nil {
		t.Fatalf("writing first window: %v", err)
	}
	if err := om.WriteWindow(WindowStats{WindowEndTick: 600, FramesSubmitted: 299}); err != nil {
		t.Fatalf("writing second window: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("closing output: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "export_stats.csv"))
	if err != nil {
		t.Fatalf("reading stats file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 records, got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "window_end") || !strings.Contains(lines[0], "submit_wait_mean_ms") {
		t.Errorf("header missing expected columns: %q", lines[0])
	}
	if strings.Contains(lines[1], "window_end") {
		t.Error("header repeated in record line")
	}
	if !strings.HasPrefix(lines[1], "300,") {
		t.Errorf("first record %q does not start with its window tick", lines[1])
	}
}
