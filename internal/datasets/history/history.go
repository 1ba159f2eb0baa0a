//-------------------------------------------------------------------------
//
// pgEdge Retail Data Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package history implements the full history dataset: every dimension at
// full cardinality, the calendar, the history sales facts and a trailing
// batch of recent facts, each with its order event stream.
package history

import (
	"context"

	"github.com/pgEdge/pgedge-retailgen/internal/config"
	"github.com/pgEdge/pgedge-retailgen/internal/datasets"
	"github.com/pgEdge/pgedge-retailgen/internal/output"
	"github.com/pgEdge/pgedge-retailgen/internal/warehouse"
)

// Output names.
const (
	TrailingSalesTable = "fact_sales_incremental"
	HistoryEventsFile  = "sales_events_history.json"
	TrailingEventsFile = "sales_events_incremental.json"
)

func init() {
	datasets.Register(New())
}

// Dataset implements the history dataset.
type Dataset struct{}

// New creates a new history dataset.
func New() *Dataset {
	return &Dataset{}
}

// Name returns the dataset name.
func (d *Dataset) Name() string {
	return "history"
}

// Description returns a human-readable description.
func (d *Dataset) Description() string {
	return "Full history load - customer, product, store, payment and date " +
		"dimensions with three years of sales facts and order events"
}

// Files returns the files written with default settings.
func (d *Dataset) Files() []string {
	return []string{
		"batch/dim_customer.csv",
		"batch/dim_product.csv",
		"batch/dim_store.csv",
		"batch/dim_payment.csv",
		"batch/dim_date.csv",
		"batch/fact_sales.csv",
		"streaming/" + HistoryEventsFile,
		"batch/" + TrailingSalesTable + ".csv",
		"streaming/" + TrailingEventsFile,
	}
}

// Generate writes the history dataset.
func (d *Dataset) Generate(ctx context.Context, cfg datasets.GeneratorConfig) (datasets.Result, error) {
	h := cfg.History
	if err := h.Validate(); err != nil {
		return datasets.Result{}, err
	}
	dateStart, _ := config.ParseDate(h.DateStart)
	factStart, _ := config.ParseDate(h.FactStart)
	trailingStart, _ := config.ParseDate(h.TrailingStart)

	run, err := datasets.NewRun(d.Name(), cfg)
	if err != nil {
		return datasets.Result{}, err
	}
	f := run.Faker()

	customers := warehouse.GenerateCustomers(f, 1, h.Customers)
	products := warehouse.GenerateProducts(f, 1, h.Products)
	stores := warehouse.GenerateStores(f, 1, h.Stores)
	payments := warehouse.PaymentMethods()
	dates := warehouse.GenerateDates(dateStart, h.DateDays)

	for _, table := range []output.Table{
		warehouse.CustomerTable(warehouse.TableCustomer, customers),
		warehouse.ProductTable(warehouse.TableProduct, products),
		warehouse.StoreTable(warehouse.TableStore, stores),
		warehouse.PaymentTable(warehouse.TablePayment, payments),
		warehouse.DateTable(warehouse.TableDate, dates),
	} {
		if err := run.WriteTable(ctx, table); err != nil {
			return datasets.Result{}, err
		}
	}

	bounds := warehouse.BoundsFrom(customers, products, stores, payments)

	facts, err := warehouse.GenerateSales(f, warehouse.FactParams{
		Table:      warehouse.TableSales,
		Count:      h.Facts,
		Start:      factStart,
		WindowDays: h.WindowDays,
		Bounds:     bounds,
	})
	if err != nil {
		return datasets.Result{}, err
	}
	if err := run.WriteTable(ctx, warehouse.SalesTable(warehouse.TableSales, facts)); err != nil {
		return datasets.Result{}, err
	}
	if err := run.WriteEvents(ctx, HistoryEventsFile, facts); err != nil {
		return datasets.Result{}, err
	}

	if h.TrailingFacts > 0 {
		trailing, err := warehouse.GenerateSales(f, warehouse.FactParams{
			Table:      TrailingSalesTable,
			Count:      h.TrailingFacts,
			Start:      trailingStart,
			WindowDays: h.TrailingWindowDays,
			Bounds:     bounds,
		})
		if err != nil {
			return datasets.Result{}, err
		}
		if err := run.WriteTable(ctx, warehouse.SalesTable(TrailingSalesTable, trailing)); err != nil {
			return datasets.Result{}, err
		}
		if err := run.WriteEvents(ctx, TrailingEventsFile, trailing); err != nil {
			return datasets.Result{}, err
		}
	}

	return run.Result(), nil
}
