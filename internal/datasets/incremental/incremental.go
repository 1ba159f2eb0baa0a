//-------------------------------------------------------------------------
//
// pgEdge Retail Data Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package incremental implements the incremental dataset: new customers,
// products and stores keyed past the history ranges, and a short window
// of sales facts referencing both old and new keys.
package incremental

import (
	"context"

	"github.com/pgEdge/pgedge-retailgen/internal/config"
	"github.com/pgEdge/pgedge-retailgen/internal/datasets"
	"github.com/pgEdge/pgedge-retailgen/internal/output"
	"github.com/pgEdge/pgedge-retailgen/internal/warehouse"
)

// Output names.
const (
	CustomerTable = "dim_customer_incremental"
	ProductTable  = "dim_product_incremental"
	StoreTable    = "dim_store_incremental"
	SalesTable    = "fact_sales_incremental"
	EventsFile    = "sales_events_incremental.json"
)

func init() {
	datasets.Register(New())
}

// Dataset implements the incremental dataset.
type Dataset struct{}

// New creates a new incremental dataset.
func New() *Dataset {
	return &Dataset{}
}

// Name returns the dataset name.
func (d *Dataset) Name() string {
	return "incremental"
}

// Description returns a human-readable description.
func (d *Dataset) Description() string {
	return "Incremental load - new customers, products and stores with one " +
		"week of sales facts and order events"
}

// Files returns the files written with default settings.
func (d *Dataset) Files() []string {
	return []string{
		"batch/" + CustomerTable + ".csv",
		"batch/" + ProductTable + ".csv",
		"batch/" + StoreTable + ".csv",
		"batch/" + SalesTable + ".csv",
		"streaming/" + EventsFile,
	}
}

// Generate writes the incremental dataset.
func (d *Dataset) Generate(ctx context.Context, cfg datasets.GeneratorConfig) (datasets.Result, error) {
	inc := cfg.Incremental
	if err := inc.Validate(); err != nil {
		return datasets.Result{}, err
	}
	factStart, _ := config.ParseDate(inc.FactStart)

	run, err := datasets.NewRun(d.Name(), cfg)
	if err != nil {
		return datasets.Result{}, err
	}
	f := run.Faker()

	customers := warehouse.GenerateCustomers(f, inc.CustomerStart, inc.Customers)
	products := warehouse.GenerateProducts(f, inc.ProductStart, inc.Products)
	stores := warehouse.GenerateStores(f, inc.StoreStart, inc.Stores)

	for _, table := range []output.Table{
		warehouse.CustomerTable(CustomerTable, customers),
		warehouse.ProductTable(ProductTable, products),
		warehouse.StoreTable(StoreTable, stores),
	} {
		if err := run.WriteTable(ctx, table); err != nil {
			return datasets.Result{}, err
		}
	}

	// Facts reference the full key space, history keys included, so the
	// bounds are the highest incremental keys.
	bounds := warehouse.BoundsFrom(customers, products, stores, warehouse.PaymentMethods())

	facts, err := warehouse.GenerateSales(f, warehouse.FactParams{
		Table:      SalesTable,
		Count:      inc.Facts,
		Start:      factStart,
		WindowDays: inc.WindowDays,
		Bounds:     bounds,
	})
	if err != nil {
		return datasets.Result{}, err
	}
	if err := run.WriteTable(ctx, warehouse.SalesTable(SalesTable, facts)); err != nil {
		return datasets.Result{}, err
	}
	if err := run.WriteEvents(ctx, EventsFile, facts); err != nil {
		return datasets.Result{}, err
	}

	return run.Result(), nil
}
