//-------------------------------------------------------------------------
//
// pgEdge Retail Data Generator
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-retailgen/internal/logging"
	"github.com/pgEdge/pgedge-retailgen/pkg/version"
)

const metadataTable = "retailgen_metadata"

// createMetadataTableSQL creates the metadata table if it doesn't exist.
const createMetadataTableSQL = `
CREATE TABLE IF NOT EXISTS retailgen_metadata (
    run_id       TEXT PRIMARY KEY,
    dataset      TEXT NOT NULL,
    seed         NUMERIC(20,0) NOT NULL,
    version      TEXT NOT NULL,
    generated_at TIMESTAMPTZ NOT NULL,
    row_count    BIGINT NOT NULL
)`

// Run describes one generation run loaded into the database.
type Run struct {
	ID          string
	Dataset     string
	Seed        uint64
	Version     string
	GeneratedAt time.Time
	Rows        int64
}

// SaveRun records a loaded generation run. An empty Version is filled in
// with the running binary's version.
func SaveRun(ctx context.Context, pool *pgxpool.Pool, run Run) error {
	if _, err := pool.Exec(ctx, createMetadataTableSQL); err != nil {
		return fmt.Errorf("failed to create metadata table: %w", err)
	}

	if run.Version == "" {
		run.Version = version.Short()
	}
	if run.GeneratedAt.IsZero() {
		run.GeneratedAt = time.Now().UTC()
	}

	_, err := pool.Exec(ctx, `
        INSERT INTO retailgen_metadata (run_id, dataset, seed, version, generated_at, row_count)
        VALUES ($1, $2, $3::numeric, $4, $5, $6)
        ON CONFLICT (run_id) DO UPDATE SET
            dataset = EXCLUDED.dataset,
            seed = EXCLUDED.seed,
            version = EXCLUDED.version,
            generated_at = EXCLUDED.generated_at,
            row_count = EXCLUDED.row_count
    `, run.ID, run.Dataset, strconv.FormatUint(run.Seed, 10), run.Version, run.GeneratedAt, run.Rows)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}

	logging.Debug().
		Str("run_id", run.ID).
		Str("dataset", run.Dataset).
		Uint64("seed", run.Seed).
		Int64("rows", run.Rows).
		Msg("Saved run metadata")

	return nil
}

// LatestRun returns the most recent run recorded for dataset.
func LatestRun(ctx context.Context, pool *pgxpool.Pool, dataset string) (Run, error) {
	var (
		run  Run
		seed string
	)
	err := pool.QueryRow(ctx, `
        SELECT run_id, dataset, seed::text, version, generated_at, row_count
        FROM retailgen_metadata
        WHERE dataset = $1
        ORDER BY generated_at DESC
        LIMIT 1
    `, dataset).Scan(&run.ID, &run.Dataset, &seed, &run.Version, &run.GeneratedAt, &run.Rows)
	if err != nil {
		return Run{}, err
	}
	run.Seed, err = strconv.ParseUint(seed, 10, 64)
	if err != nil {
		return Run{}, fmt.Errorf("invalid seed %q for run %s: %w", seed, run.ID, err)
	}
	return run, nil
}

// DropMetadata drops the metadata table.
func DropMetadata(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", metadataTable))
	return err
}

// MetadataExists checks if the metadata table exists.
func MetadataExists(ctx context.Context, pool *pgxpool.Pool) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT FROM information_schema.tables
            WHERE table_name = $1
        )
    `, metadataTable).Scan(&exists)
	return exists, err
}
