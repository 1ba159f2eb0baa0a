package warehouse

import (
	"time"

	"github.com/pgEdge/pgedge-retailgen/internal/datagen"
)

// GenerateCustomers returns n customers keyed startKey..startKey+n-1.
func GenerateCustomers(f *datagen.Faker, startKey, n int) []Customer {
	rows := make([]Customer, 0, max(n, 0))
	for i := 0; i < n; i++ {
		key := startKey + i
		rows = append(rows, Customer{
			Key:      key,
			ID:       CustomerID(key),
			Gender:   datagen.Choose(f, Genders),
			AgeGroup: datagen.Choose(f, AgeGroups),
			Country:  datagen.Choose(f, CustomerHomes),
		})
	}
	return rows
}

// GenerateProducts returns n products keyed startKey..startKey+n-1.
func GenerateProducts(f *datagen.Faker, startKey, n int) []Product {
	rows := make([]Product, 0, max(n, 0))
	for i := 0; i < n; i++ {
		key := startKey + i
		rows = append(rows, Product{
			Key:      key,
			ID:       ProductID(key),
			Category: datagen.Choose(f, Categories),
			Brand:    datagen.Choose(f, Brands),
		})
	}
	return rows
}

// GenerateStores returns n stores keyed startKey..startKey+n-1.
func GenerateStores(f *datagen.Faker, startKey, n int) []Store {
	rows := make([]Store, 0, max(n, 0))
	for i := 0; i < n; i++ {
		key := startKey + i
		rows = append(rows, Store{
			Key:     key,
			ID:      StoreID(key),
			Type:    datagen.Choose(f, StoreTypes),
			Country: datagen.Choose(f, StoreCountries),
		})
	}
	return rows
}

// PaymentMethods returns the fixed payment enumeration.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		{Key: 1, Type: "CREDIT"},
		{Key: 2, Type: "DEBIT"},
		{Key: 3, Type: "UPI"},
		{Key: 4, Type: "CASH"},
		{Key: 5, Type: "WALLET"},
		{Key: 6, Type: "NETBANKING"},
	}
}

// GenerateDates returns one row per calendar day starting at start.
// The result depends only on its arguments.
func GenerateDates(start time.Time, days int) []Date {
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	rows := make([]Date, 0, max(days, 0))
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		rows = append(rows, Date{
			Key:     DateKey(d),
			Full:    d,
			Year:    d.Year(),
			Month:   int(d.Month()),
			Day:     d.Day(),
			Weekday: d.Weekday().String(),
		})
	}
	return rows
}
