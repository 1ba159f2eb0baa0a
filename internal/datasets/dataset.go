// Package datasets defines the generated datasets and their registry.
package datasets

import (
	"context"
	"time"

	"github.com/pgEdge/pgedge-retailgen/internal/config"
	"github.com/pgEdge/pgedge-retailgen/internal/output"
)

// GeneratorConfig holds configuration for a generation run.
type GeneratorConfig struct {
	// Seed initializes the single random source shared by every
	// generator of the run.
	Seed uint64

	// Layout is where CSV and event files are written.
	Layout output.Layout

	// Sink additionally receives every generated table, for example a
	// database loader. CSV files are always written.
	Sink output.Sink

	// Clock and NewID override event timestamps and identifiers.
	Clock func() time.Time
	NewID func() string

	History     config.HistoryConfig
	Incremental config.IncrementalConfig
}

// TableResult describes one written table.
type TableResult struct {
	Name   string
	Target string
	Rows   int
}

// Result summarizes a generation run.
type Result struct {
	Dataset string
	Tables  []TableResult

	// Files lists every written file relative to the layout root.
	Files []string

	Events int
}

// Rows returns the total number of table rows written.
func (r Result) Rows() int64 {
	var n int64
	for _, t := range r.Tables {
		n += int64(t.Rows)
	}
	return n
}

// Dataset defines the interface that all datasets must implement.
type Dataset interface {
	// Name returns the dataset name.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// Files returns the files a run writes with default settings,
	// relative to the output root.
	Files() []string

	// Generate produces the dataset.
	Generate(ctx context.Context, cfg GeneratorConfig) (Result, error)
}
