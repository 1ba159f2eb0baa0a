//-------------------------------------------------------------------------
//
// pgEdge Retail Data Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package warehouse generates the dimension and fact records of the retail
// star schema.
package warehouse

import (
	"fmt"
	"time"
)

// Customer is a row of dim_customer.
type Customer struct {
	Key      int
	ID       string
	Gender   string
	AgeGroup string
	Country  string
}

// Product is a row of dim_product.
type Product struct {
	Key      int
	ID       string
	Category string
	Brand    string
}

// Store is a row of dim_store.
type Store struct {
	Key     int
	ID      string
	Type    string
	Country string
}

// PaymentMethod is a row of dim_payment.
type PaymentMethod struct {
	Key  int
	Type string
}

// Date is a row of dim_date. Every field is derived from Full.
type Date struct {
	Key     int
	Full    time.Time
	Year    int
	Month   int
	Day     int
	Weekday string
}

// SaleFact is a row of fact_sales.
type SaleFact struct {
	OrderID     string
	OrderDate   time.Time
	CustomerKey int
	ProductKey  int
	StoreKey    int
	PaymentKey  int
	Quantity    int
	UnitPrice   int64
	SalesAmount int64
}

// Attribute label sets.
var (
	Genders       = []string{"M", "F"}
	AgeGroups     = []string{"18-25", "26-35", "36-45", "46-60"}
	CustomerHomes = []string{"India", "USA", "UK"}

	Categories = []string{"Electronics", "Clothing", "Footwear"}
	Brands     = []string{"Apple", "Samsung", "Nike", "Adidas"}

	StoreTypes     = []string{"Online", "Physical"}
	StoreCountries = []string{"India", "USA"}
)

// Natural identifier prefixes and widths.
const (
	customerPrefix = "CUST"
	productPrefix  = "PRD"
	storePrefix    = "STR"
	orderPrefix    = "ORD"

	orderSuffixLen = 10
)

// CustomerID formats a customer surrogate key as its natural identifier.
func CustomerID(key int) string {
	return fmt.Sprintf("%s%06d", customerPrefix, key)
}

// ProductID formats a product surrogate key as its natural identifier.
func ProductID(key int) string {
	return fmt.Sprintf("%s%06d", productPrefix, key)
}

// StoreID formats a store surrogate key as its natural identifier.
func StoreID(key int) string {
	return fmt.Sprintf("%s%04d", storePrefix, key)
}

// DateKey encodes a calendar date as YYYYMMDD.
func DateKey(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}
