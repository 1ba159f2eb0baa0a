//-------------------------------------------------------------------------
//
// pgEdge Retail Data Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package output writes generated tables to their destinations.
package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

const (
	batchDirName     = "batch"
	streamingDirName = "streaming"
)

// Layout describes the on-disk directory convention for a generation run:
// a root directory with batch/ and streaming/ subdirectories.
type Layout struct {
	Root string
}

// BatchDir returns the directory for tabular CSV output.
func (l Layout) BatchDir() string {
	return filepath.Join(l.Root, batchDirName)
}

// StreamingDir returns the directory for newline-delimited event output.
func (l Layout) StreamingDir() string {
	return filepath.Join(l.Root, streamingDirName)
}

// StreamingFile returns the path of a streaming output file.
func (l Layout) StreamingFile(name string) string {
	return filepath.Join(l.StreamingDir(), name)
}

// Ensure creates the batch and streaming directories if absent.
func (l Layout) Ensure() error {
	for _, dir := range []string{l.BatchDir(), l.StreamingDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	return nil
}

// Table is a generated table ready to be written.
type Table struct {
	// Name is the output name (the CSV file name without extension).
	Name string

	// Target is the warehouse table the rows belong to. Incremental
	// files share the target of their full-history counterpart.
	Target string

	// Columns is the header, in row value order.
	Columns []string

	// Rows holds one value slice per record.
	Rows [][]any
}

// Sink receives generated tables.
type Sink interface {
	WriteTable(ctx context.Context, table Table) error
}

// MultiSink writes each table to every sink in order, stopping at the
// first failure.
type MultiSink []Sink

// WriteTable implements Sink.
func (m MultiSink) WriteTable(ctx context.Context, table Table) error {
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.WriteTable(ctx, table); err != nil {
			return err
		}
	}
	return nil
}
