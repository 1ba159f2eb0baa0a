package warehouse

import (
	"github.com/pgEdge/pgedge-retailgen/internal/output"
)

// Warehouse table names.
const (
	TableCustomer = "dim_customer"
	TableProduct  = "dim_product"
	TableStore    = "dim_store"
	TablePayment  = "dim_payment"
	TableDate     = "dim_date"
	TableSales    = "fact_sales"
)

// Column headers, in the order values are emitted.
var (
	CustomerColumns = []string{"customer_key", "customer_id", "gender", "age_group", "country"}
	ProductColumns  = []string{"product_key", "product_id", "category", "brand"}
	StoreColumns    = []string{"store_key", "store_id", "store_type", "country"}
	PaymentColumns  = []string{"payment_key", "payment_type"}
	DateColumns     = []string{"date_key", "full_date", "year", "month", "day", "weekday"}
	SalesColumns    = []string{
		"order_id", "order_date", "customer_key", "product_key", "store_key",
		"payment_key", "quantity", "unit_price", "sales_amount",
	}
)

// CustomerTable builds the output table for customers.
func CustomerTable(name string, rows []Customer) output.Table {
	t := newTable(name, TableCustomer, CustomerColumns, len(rows))
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Key, r.ID, r.Gender, r.AgeGroup, r.Country})
	}
	return t
}

// ProductTable builds the output table for products.
func ProductTable(name string, rows []Product) output.Table {
	t := newTable(name, TableProduct, ProductColumns, len(rows))
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Key, r.ID, r.Category, r.Brand})
	}
	return t
}

// StoreTable builds the output table for stores.
func StoreTable(name string, rows []Store) output.Table {
	t := newTable(name, TableStore, StoreColumns, len(rows))
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Key, r.ID, r.Type, r.Country})
	}
	return t
}

// PaymentTable builds the output table for payment methods.
func PaymentTable(name string, rows []PaymentMethod) output.Table {
	t := newTable(name, TablePayment, PaymentColumns, len(rows))
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Key, r.Type})
	}
	return t
}

// DateTable builds the output table for the date dimension.
func DateTable(name string, rows []Date) output.Table {
	t := newTable(name, TableDate, DateColumns, len(rows))
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Key, r.Full, r.Year, r.Month, r.Day, r.Weekday})
	}
	return t
}

// SalesTable builds the output table for sale facts.
func SalesTable(name string, rows []SaleFact) output.Table {
	t := newTable(name, TableSales, SalesColumns, len(rows))
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			r.OrderID, r.OrderDate, r.CustomerKey, r.ProductKey, r.StoreKey,
			r.PaymentKey, r.Quantity, r.UnitPrice, r.SalesAmount,
		})
	}
	return t
}

func newTable(name, target string, columns []string, n int) output.Table {
	return output.Table{
		Name:    name,
		Target:  target,
		Columns: columns,
		Rows:    make([][]any, 0, n),
	}
}
