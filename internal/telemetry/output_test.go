package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("Failed to create disabled manager: %v", err)
	}
	if om != nil {
		t.Fatal("Expected nil manager for empty output dir")
	}

	// All methods are no-ops on a nil manager.
	if err := om.WritePerf(PerfStats{}, 0); err != nil {
		t.Errorf("Expected nil WritePerf error, got %v", err)
	}
	if err := om.WriteDiscovery(DiscoveryRecord{}); err != nil {
		t.Errorf("Expected nil WriteDiscovery error, got %v", err)
	}
	if om.Dir() != "" {
		t.Errorf("Expected empty dir, got %q", om.Dir())
	}
	if err := om.Close(); err != nil {
		t.Errorf("Expected nil Close error, got %v", err)
	}
}

func TestOutputManagerWritesPerfCSV(t *testing.T) {
	dir := t.TempDir()

	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("Failed to create output manager: %v", err)
	}

	stats := PerfStats{
		AvgUpdateDuration: time.Millisecond,
		UpdatesPerSecond:  1000,
		FPS:               60,
		PhasePct:          map[string]float64{PhaseDiscovery: 30},
	}
	if err := om.WritePerf(stats, 100); err != nil {
		t.Fatalf("Failed to write perf record: %v", err)
	}
	if err := om.WritePerf(stats, 200); err != nil {
		t.Fatalf("Failed to write second perf record: %v", err)
	}

	if err := om.Close(); err != nil {
		t.Fatalf("Failed to close output manager: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatalf("Failed to read perf.csv: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header plus two rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "avg_update_us") {
		t.Errorf("Expected header row with column names, got %q", lines[0])
	}
	if strings.Contains(lines[1], "avg_update_us") || strings.Contains(lines[2], "avg_update_us") {
		t.Error("Expected headers only on the first row")
	}
}

func TestOutputManagerWritesDiscoveryCSV(t *testing.T) {
	dir := t.TempDir()

	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("Failed to create output manager: %v", err)
	}

	rec := DiscoveryRecord{
		WindowEnd:       120,
		VisibleCells:    12,
		DiscoveredCells: 48,
		DiscoveredPct:   5.2,
		Responses:       3,
	}
	if err := om.WriteDiscovery(rec); err != nil {
		t.Fatalf("Failed to write discovery record: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Failed to close output manager: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "discovery.csv"))
	if err != nil {
		t.Fatalf("Failed to read discovery.csv: %v", err)
	}

	content := string(data)
	if !strings.Contains(content, "discovered_cells") {
		t.Error("Expected discovered_cells column header")
	}
	if !strings.Contains(content, "48") {
		t.Error("Expected discovered cell count in the row data")
	}
}
