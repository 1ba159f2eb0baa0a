//-------------------------------------------------------------------------
//
// pgEdge Retail Data Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datasets

import (
	"context"
	"errors"
	"path"

	"github.com/pgEdge/pgedge-retailgen/internal/datagen"
	"github.com/pgEdge/pgedge-retailgen/internal/events"
	"github.com/pgEdge/pgedge-retailgen/internal/logging"
	"github.com/pgEdge/pgedge-retailgen/internal/output"
	"github.com/pgEdge/pgedge-retailgen/internal/warehouse"
)

// Run carries the state shared by the steps of one dataset generation:
// the seeded random source, the sinks and the accumulated result.
type Run struct {
	cfg       GeneratorConfig
	faker     *datagen.Faker
	sink      output.Sink
	projector *events.Projector
	result    Result
}

// ErrZeroSeed is returned for a zero seed, which gofakeit replaces with a
// random one.
var ErrZeroSeed = errors.New("seed must be non-zero")

// NewRun prepares the output layout and random source for dataset.
func NewRun(dataset string, cfg GeneratorConfig) (*Run, error) {
	if cfg.Seed == 0 {
		return nil, ErrZeroSeed
	}
	if err := cfg.Layout.Ensure(); err != nil {
		return nil, err
	}

	faker := datagen.NewFakerWithSeed(cfg.Seed)

	projector := events.NewProjector(faker)
	if cfg.Clock != nil {
		projector.Clock = cfg.Clock
	}
	if cfg.NewID != nil {
		projector.NewID = cfg.NewID
	}

	sink := output.MultiSink{output.NewCSVSink(cfg.Layout)}
	if cfg.Sink != nil {
		sink = append(sink, cfg.Sink)
	}

	logging.Info().
		Str("dataset", dataset).
		Uint64("seed", cfg.Seed).
		Str("output", cfg.Layout.Root).
		Msg("Starting generation")

	return &Run{
		cfg:       cfg,
		faker:     faker,
		sink:      sink,
		projector: projector,
		result:    Result{Dataset: dataset},
	}, nil
}

// Faker returns the random source of the run.
func (r *Run) Faker() *datagen.Faker {
	return r.faker
}

// WriteTable sends table to every sink of the run.
func (r *Run) WriteTable(ctx context.Context, table output.Table) error {
	if err := r.sink.WriteTable(ctx, table); err != nil {
		return err
	}
	r.result.Tables = append(r.result.Tables, TableResult{
		Name:   table.Name,
		Target: table.Target,
		Rows:   len(table.Rows),
	})
	r.result.Files = append(r.result.Files, path.Join("batch", table.Name+".csv"))
	return nil
}

// WriteEvents projects facts into order events and writes them to the
// named streaming file.
func (r *Run) WriteEvents(ctx context.Context, name string, facts []warehouse.SaleFact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	evts := r.projector.Project(facts)
	if err := events.WriteFile(r.cfg.Layout.StreamingFile(name), evts); err != nil {
		return err
	}
	r.result.Events += len(evts)
	r.result.Files = append(r.result.Files, path.Join("streaming", name))
	return nil
}

// Result returns the summary of everything written so far.
func (r *Run) Result() Result {
	logging.Info().
		Str("dataset", r.result.Dataset).
		Int("files", len(r.result.Files)).
		Int64("rows", r.result.Rows()).
		Int("events", r.result.Events).
		Msg("Generation complete")
	return r.result
}
