//-------------------------------------------------------------------------
//
// pgEdge Retail Data Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-retailgen/internal/logging"
	"github.com/pgEdge/pgedge-retailgen/internal/output"
)

// Loader copies generated tables into their warehouse tables. It
// implements output.Sink.
type Loader struct {
	pool   *pgxpool.Pool
	loaded map[string]int64
}

// NewLoader creates a loader writing through pool.
func NewLoader(pool *pgxpool.Pool) *Loader {
	return &Loader{pool: pool, loaded: make(map[string]int64)}
}

// WriteTable copies every row of table into table.Target with COPY.
func (l *Loader) WriteTable(ctx context.Context, table output.Table) error {
	if table.Target == "" {
		return fmt.Errorf("table %s has no load target", table.Name)
	}
	if len(table.Rows) == 0 {
		return nil
	}

	n, err := l.pool.CopyFrom(ctx,
		pgx.Identifier{table.Target},
		table.Columns,
		pgx.CopyFromRows(table.Rows))
	if err != nil {
		return fmt.Errorf("failed to copy %s into %s: %w", table.Name, table.Target, err)
	}
	if n != int64(len(table.Rows)) {
		return fmt.Errorf("copied %d of %d rows from %s into %s", n, len(table.Rows), table.Name, table.Target)
	}

	l.loaded[table.Target] += n
	logging.Info().
		Str("table", table.Name).
		Str("target", table.Target).
		Int64("rows", n).
		Msg("Loaded table")
	return nil
}

// Rows returns the total number of rows loaded so far.
func (l *Loader) Rows() int64 {
	var total int64
	for _, n := range l.loaded {
		total += n
	}
	return total
}

// Loaded returns the number of rows loaded per target table.
func (l *Loader) Loaded() map[string]int64 {
	out := make(map[string]int64, len(l.loaded))
	for k, v := range l.loaded {
		out[k] = v
	}
	return out
}
