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

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-retailgen/internal/logging"
)

// Star schema for the retail warehouse. Fact rows reference dimensions by
// surrogate key only; incremental batches are appended to the same tables.
const createSchemaSQL = `
-- Customer Dimension
CREATE TABLE IF NOT EXISTS dim_customer (
    customer_key INTEGER PRIMARY KEY,
    customer_id  VARCHAR(16) NOT NULL,
    gender       CHAR(1) NOT NULL,
    age_group    VARCHAR(8) NOT NULL,
    country      VARCHAR(32) NOT NULL
);

-- Product Dimension
CREATE TABLE IF NOT EXISTS dim_product (
    product_key INTEGER PRIMARY KEY,
    product_id  VARCHAR(16) NOT NULL,
    category    VARCHAR(32) NOT NULL,
    brand       VARCHAR(32) NOT NULL
);

-- Store Dimension
CREATE TABLE IF NOT EXISTS dim_store (
    store_key  INTEGER PRIMARY KEY,
    store_id   VARCHAR(16) NOT NULL,
    store_type VARCHAR(16) NOT NULL,
    country    VARCHAR(32) NOT NULL
);

-- Payment Dimension
CREATE TABLE IF NOT EXISTS dim_payment (
    payment_key  INTEGER PRIMARY KEY,
    payment_type VARCHAR(32) NOT NULL
);

-- Date Dimension
CREATE TABLE IF NOT EXISTS dim_date (
    date_key  INTEGER PRIMARY KEY,
    full_date DATE NOT NULL,
    year      INTEGER NOT NULL,
    month     INTEGER NOT NULL,
    day       INTEGER NOT NULL,
    weekday   VARCHAR(9) NOT NULL
);

-- Sales Fact
CREATE TABLE IF NOT EXISTS fact_sales (
    order_id     VARCHAR(16) NOT NULL,
    order_date   DATE NOT NULL,
    customer_key INTEGER NOT NULL,
    product_key  INTEGER NOT NULL,
    store_key    INTEGER NOT NULL,
    payment_key  INTEGER NOT NULL,
    quantity     INTEGER NOT NULL,
    unit_price   BIGINT NOT NULL,
    sales_amount BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_fact_sales_date ON fact_sales(order_date);
CREATE INDEX IF NOT EXISTS idx_fact_sales_customer ON fact_sales(customer_key);
CREATE INDEX IF NOT EXISTS idx_fact_sales_product ON fact_sales(product_key);
CREATE INDEX IF NOT EXISTS idx_fact_sales_store ON fact_sales(store_key);
`

const dropSchemaSQL = `
DROP TABLE IF EXISTS fact_sales CASCADE;
DROP TABLE IF EXISTS dim_date CASCADE;
DROP TABLE IF EXISTS dim_payment CASCADE;
DROP TABLE IF EXISTS dim_store CASCADE;
DROP TABLE IF EXISTS dim_product CASCADE;
DROP TABLE IF EXISTS dim_customer CASCADE;
`

// CreateSchema creates the star schema tables and indexes.
func CreateSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, createSchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	logging.Info().Msg("Star schema ready")
	return nil
}

// DropSchema drops the star schema tables and the run metadata.
func DropSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, dropSchemaSQL); err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}
	if err := DropMetadata(ctx, pool); err != nil {
		return fmt.Errorf("failed to drop metadata: %w", err)
	}
	logging.Info().Msg("Dropped existing star schema")
	return nil
}
