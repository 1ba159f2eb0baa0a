//-------------------------------------------------------------------------
//
// pgEdge Retail Data Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package events projects sale facts into streaming order events and writes
// them as newline-delimited JSON.
package events

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/pgEdge/pgedge-retailgen/internal/datagen"
	"github.com/pgEdge/pgedge-retailgen/internal/logging"
	"github.com/pgEdge/pgedge-retailgen/internal/warehouse"
)

// EventTypeOrderPlaced is the type of every projected sale event.
const EventTypeOrderPlaced = "ORDER_PLACED"

// Channels an event can be attributed to. The channel is drawn per event
// and is not correlated with the store's own store_type.
var Channels = []string{"ONLINE", "STORE"}

// SaleEvent is the streaming representation of a sale fact.
type SaleEvent struct {
	EventID    string `json:"event_id"`
	EventType  string `json:"event_type"`
	EventTime  string `json:"event_time"`
	OrderID    string `json:"order_id"`
	CustomerID string `json:"customer_id"`
	ProductID  string `json:"product_id"`
	StoreID    string `json:"store_id"`
	Quantity   int    `json:"quantity"`
	UnitPrice  int64  `json:"unit_price"`
	Channel    string `json:"channel"`
}

// Projector maps sale facts to sale events.
type Projector struct {
	// Faker draws the channel.
	Faker *datagen.Faker

	// Clock supplies event_time. Defaults to time.Now.
	Clock func() time.Time

	// NewID supplies event_id. Defaults to a random UUID.
	NewID func() string
}

// NewProjector creates a projector using the wall clock and random UUIDs.
func NewProjector(f *datagen.Faker) *Projector {
	return &Projector{Faker: f}
}

// Project returns one event per fact, in input order. event_time is the
// projection instant, not the fact's order date.
func (p *Projector) Project(facts []warehouse.SaleFact) []SaleEvent {
	clock := p.Clock
	if clock == nil {
		clock = time.Now
	}
	newID := p.NewID
	if newID == nil {
		newID = func() string { return uuid.NewString() }
	}

	out := make([]SaleEvent, 0, len(facts))
	for _, f := range facts {
		out = append(out, SaleEvent{
			EventID:    newID(),
			EventType:  EventTypeOrderPlaced,
			EventTime:  clock().UTC().Format(time.RFC3339Nano),
			OrderID:    f.OrderID,
			CustomerID: warehouse.CustomerID(f.CustomerKey),
			ProductID:  warehouse.ProductID(f.ProductKey),
			StoreID:    warehouse.StoreID(f.StoreKey),
			Quantity:   f.Quantity,
			UnitPrice:  f.UnitPrice,
			Channel:    datagen.Choose(p.Faker, Channels),
		})
	}
	return out
}

// WriteFile writes events to path as one JSON object per line, replacing
// any existing file.
func WriteFile(path string, events []SaleEvent) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for i := range events {
		// Encode appends the trailing newline.
		if err := enc.Encode(&events[i]); err != nil {
			return fmt.Errorf("failed to write event %d to %s: %w", i, path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	logging.Info().
		Int("events", len(events)).
		Str("path", path).
		Msg("Wrote streaming events")
	return nil
}
