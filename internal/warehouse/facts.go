package warehouse

import (
	"errors"
	"fmt"
	"time"

	"github.com/pgEdge/pgedge-retailgen/internal/datagen"
)

// Fact measure ranges.
const (
	MinQuantity  = 1
	MaxQuantity  = 5
	MinUnitPrice = 500
	MaxUnitPrice = 90000
)

// Order date windows, in days after the start date.
const (
	HistoryWindowDays     = 30
	IncrementalWindowDays = 7
)

// ErrInvalidBounds is returned when a key bound cannot produce a valid key.
var ErrInvalidBounds = errors.New("invalid key bounds")

// KeyBounds holds the inclusive upper bound of each foreign key of a sale
// fact. Every key is drawn from [1, bound].
type KeyBounds struct {
	Customer int
	Product  int
	Store    int
	Payment  int
}

// Validate checks that every bound admits at least one key.
func (b KeyBounds) Validate() error {
	check := []struct {
		name  string
		value int
	}{
		{"customer", b.Customer},
		{"product", b.Product},
		{"store", b.Store},
		{"payment", b.Payment},
	}
	for _, c := range check {
		if c.value < 1 {
			return fmt.Errorf("%w: %s bound must be at least 1, got %d", ErrInvalidBounds, c.name, c.value)
		}
	}
	return nil
}

// BoundsFrom derives key bounds from the dimension tables of a run, using
// the highest surrogate key present in each. Empty tables yield a zero bound
// that Validate rejects.
func BoundsFrom(customers []Customer, products []Product, stores []Store, payments []PaymentMethod) KeyBounds {
	var b KeyBounds
	for _, c := range customers {
		b.Customer = max(b.Customer, c.Key)
	}
	for _, p := range products {
		b.Product = max(b.Product, p.Key)
	}
	for _, s := range stores {
		b.Store = max(b.Store, s.Key)
	}
	for _, p := range payments {
		b.Payment = max(b.Payment, p.Key)
	}
	return b
}

// FactParams controls sale fact generation.
type FactParams struct {
	// Table names the output for progress reporting.
	Table string

	// Count is the number of rows to generate.
	Count int

	// Start is the earliest order date.
	Start time.Time

	// WindowDays is the width of the order date window; order dates fall
	// in [Start, Start+WindowDays].
	WindowDays int

	// Bounds limits the foreign keys.
	Bounds KeyBounds
}

// GenerateSales generates sale facts.
func GenerateSales(f *datagen.Faker, p FactParams) ([]SaleFact, error) {
	if err := p.Bounds.Validate(); err != nil {
		return nil, err
	}
	if p.WindowDays < 0 {
		return nil, fmt.Errorf("order date window must be non-negative, got %d", p.WindowDays)
	}
	if p.Count < 0 {
		return nil, fmt.Errorf("fact count must be non-negative, got %d", p.Count)
	}

	table := p.Table
	if table == "" {
		table = "fact_sales"
	}
	progress := datagen.NewProgressReporter(table, int64(p.Count), datagen.DefaultProgressInterval)

	start := time.Date(p.Start.Year(), p.Start.Month(), p.Start.Day(), 0, 0, 0, 0, time.UTC)
	rows := make([]SaleFact, 0, p.Count)
	for i := 0; i < p.Count; i++ {
		orderDate := f.DaysAfter(start, p.WindowDays)
		qty := f.Int(MinQuantity, MaxQuantity)
		price := f.Int64(MinUnitPrice, MaxUnitPrice)

		rows = append(rows, SaleFact{
			OrderID:     orderPrefix + f.Hex(orderSuffixLen),
			OrderDate:   orderDate,
			CustomerKey: f.Int(1, p.Bounds.Customer),
			ProductKey:  f.Int(1, p.Bounds.Product),
			StoreKey:    f.Int(1, p.Bounds.Store),
			PaymentKey:  f.Int(1, p.Bounds.Payment),
			Quantity:    qty,
			UnitPrice:   price,
			SalesAmount: int64(qty) * price,
		})
		progress.Update(1)
	}
	progress.Done()

	return rows, nil
}
