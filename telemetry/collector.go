// Package telemetry captures per-tick simulation statistics and writes them
// to CSV for offline analysis.
package telemetry

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	whatif "github.com/tBuLi12/what-if-engine"
)

// TickStats is one CSV row of world state after a step.
type TickStats struct {
	Tick          int     `csv:"tick"`
	Entities      int     `csv:"entities"`
	Contacts      int     `csv:"contacts"`
	Bindings      int     `csv:"bindings"`
	Unbound       int     `csv:"unbound"`
	Flags         int     `csv:"flags"`
	KineticEnergy float64 `csv:"kinetic_energy"`
}

// Collector buffers tick stats and flushes them to stats.csv in the output
// directory. A nil Collector is valid and drops everything, mirroring a
// disabled output directory.
type Collector struct {
	file          *os.File
	rows          []TickStats
	headerWritten bool
	flushEvery    int
}

// NewCollector creates a collector writing into dir. Returns nil if dir is
// empty (telemetry disabled).
func NewCollector(dir string) (*Collector, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, "stats.csv")
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating stats.csv: %w", err)
	}

	slog.Info("telemetry enabled", "path", path)
	return &Collector{file: f, flushEvery: 256}, nil
}

// Record captures the engine's stats for the current tick.
func (c *Collector) Record(stats whatif.Stats) {
	if c == nil {
		return
	}
	c.rows = append(c.rows, TickStats{
		Tick:          stats.Tick,
		Entities:      stats.Entities,
		Contacts:      stats.Contacts,
		Bindings:      stats.Bindings,
		Unbound:       stats.Unbound,
		Flags:         stats.Flags,
		KineticEnergy: stats.KineticEnergy,
	})
	if len(c.rows) >= c.flushEvery {
		if err := c.Flush(); err != nil {
			slog.Error("telemetry flush failed", "error", err)
		}
	}
}

// Flush writes buffered rows out. The CSV header is written once, on the
// first flush.
func (c *Collector) Flush() error {
	if c == nil || len(c.rows) == 0 {
		return nil
	}

	var err error
	if c.headerWritten {
		err = gocsv.MarshalWithoutHeaders(&c.rows, c.file)
	} else {
		err = gocsv.MarshalFile(&c.rows, c.file)
		c.headerWritten = true
	}
	if err != nil {
		return fmt.Errorf("writing stats rows: %w", err)
	}
	c.rows = c.rows[:0]
	return nil
}

// Close flushes buffered rows and closes the underlying file.
func (c *Collector) Close() error {
	if c == nil {
		return nil
	}
	if err := c.Flush(); err != nil {
		c.file.Close()
		return err
	}
	return c.file.Close()
}
