//-------------------------------------------------------------------------
//
// pgEdge Retail Data Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package testutil provides throwaway PostgreSQL databases for integration
// tests. Tests skip when no server is reachable.
package testutil

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// ConnEnv overrides DefaultTestConnString.
	ConnEnv = "RETAILGEN_TEST_CONN"

	// DefaultTestConnString points at the maintenance database of a local
	// server.
	DefaultTestConnString = "postgres://postgres@localhost:5432/postgres"

	// TestDBPrefix is the prefix of every database created here.
	TestDBPrefix = "retailgen_test_"
)

// TestDB is a freshly created database dropped when the test ends.
type TestDB struct {
	// Name is the database name.
	Name string

	// ConnString connects to the database.
	ConnString string

	// Pool is a verification pool independent of the code under test.
	Pool *pgxpool.Pool
}

// NewTestDB skips t when PostgreSQL is unavailable, otherwise creates a
// database named after suffix. The database is kept when the test fails.
func NewTestDB(t *testing.T, suffix string) *TestDB {
	t.Helper()

	base := SkipIfNoPostgres(t)
	tdb := &TestDB{Name: randomName(t, suffix)}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	admin, err := pgxpool.New(ctx, base)
	if err != nil {
		t.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer admin.Close()

	ident := pgx.Identifier{tdb.Name}.Sanitize()
	if _, err := admin.Exec(ctx, "DROP DATABASE IF EXISTS "+ident); err != nil {
		t.Fatalf("Failed to drop existing test database: %v", err)
	}
	if _, err := admin.Exec(ctx, "CREATE DATABASE "+ident); err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	tdb.ConnString, err = withDatabase(base, tdb.Name)
	if err != nil {
		t.Fatalf("Failed to build test connection string: %v", err)
	}
	tdb.Pool = ConnectTestDB(t, tdb.ConnString)

	t.Cleanup(func() {
		tdb.Pool.Close()
		if t.Failed() {
			t.Logf("Test failed - keeping database %s for diagnostics", tdb.Name)
			return
		}
		dropDB(t, base, tdb.Name)
	})
	return tdb
}

// SkipIfNoPostgres skips the test if PostgreSQL is not available and
// returns the base connection string otherwise.
func SkipIfNoPostgres(t *testing.T) string {
	t.Helper()
	connStr := postgresAvailable()
	if connStr == "" {
		t.Skip("PostgreSQL not available, skipping integration test")
	}
	return connStr
}

// ConnectTestDB connects to a test database.
func ConnectTestDB(t *testing.T, connStr string) *pgxpool.Pool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Fatalf("Failed to ping test database: %v", err)
	}
	return pool
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, pool *pgxpool.Pool, table string) int64 {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var n int64
	query := "SELECT count(*) FROM " + pgx.Identifier{table}.Sanitize()
	if err := pool.QueryRow(ctx, query).Scan(&n); err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}
	return n
}

func postgresAvailable() string {
	connStr := os.Getenv(ConnEnv)
	if connStr == "" {
		connStr = DefaultTestConnString
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return ""
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return ""
	}
	return connStr
}

func randomName(t *testing.T, suffix string) string {
	t.Helper()
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		t.Fatalf("Failed to generate random database name: %v", err)
	}
	return TestDBPrefix + suffix + "_" + hex.EncodeToString(b)
}

// withDatabase rebuilds connStr against another database. ConnString()
// does not reflect changes made to ConnConfig.Database.
func withDatabase(connStr, dbName string) (string, error) {
	cfg, err := pgx.ParseConfig(connStr)
	if err != nil {
		return "", err
	}
	userInfo := cfg.User
	if cfg.Password != "" {
		userInfo += ":" + cfg.Password
	}
	return fmt.Sprintf("postgres://%s@%s:%d/%s", userInfo, cfg.Host, cfg.Port, dbName), nil
}

func dropDB(t *testing.T, baseConnStr, dbName string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, baseConnStr)
	if err != nil {
		t.Logf("Warning: Failed to connect to drop test database: %v", err)
		return
	}
	defer pool.Close()

	_, _ = pool.Exec(ctx, `
        SELECT pg_terminate_backend(pid)
        FROM pg_stat_activity
        WHERE datname = $1 AND pid <> pg_backend_pid()
    `, dbName)

	if _, err := pool.Exec(ctx, "DROP DATABASE IF EXISTS "+pgx.Identifier{dbName}.Sanitize()); err != nil {
		t.Logf("Warning: Failed to drop test database: %v", err)
	}
}
