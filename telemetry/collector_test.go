package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	whatif "github.com/tBuLi12/what-if-engine"
)

func TestCollectorWritesRows(t *testing.T) {
	dir := t.TempDir()
	collector, err := NewCollector(dir)
	if err != nil {
		t.Fatal(err)
	}

	collector.Record(whatif.Stats{Tick: 1, Entities: 3, KineticEnergy: 0.5})
	collector.Record(whatif.Stats{Tick: 2, Entities: 3, Contacts: 1, KineticEnergy: 0.25})
	if err := collector.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "stats.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "tick,") {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "1,3,0,") {
		t.Errorf("unexpected first row: %q", lines[1])
	}
}

func TestNilCollectorIsNoop(t *testing.T) {
	var collector *Collector
	collector.Record(whatif.Stats{Tick: 1})
	if err := collector.Flush(); err != nil {
		t.Fatal(err)
	}
	if err := collector.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestCollectorDisabled(t *testing.T) {
	collector, err := NewCollector("")
	if err != nil {
		t.Fatal(err)
	}
	if collector != nil {
		t.Fatal("expected nil collector for empty dir")
	}
}
