//-------------------------------------------------------------------------
//
// pgEdge Retail Data Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"testing"
	"time"
)

func TestNewFaker(t *testing.T) {
	f := NewFaker()
	if f == nil {
		t.Fatal("NewFaker returned nil")
	}
	if f.faker == nil {
		t.Fatal("faker field is nil")
	}
}

func TestNewFakerWithSeed(t *testing.T) {
	seed := uint64(42)
	f1 := NewFakerWithSeed(seed)
	f2 := NewFakerWithSeed(seed)

	// Same seed should produce same sequence
	for i := 0; i < 10; i++ {
		v1 := f1.Int(0, 1000)
		v2 := f2.Int(0, 1000)
		if v1 != v2 {
			t.Errorf("Same seed produced different values: %d != %d", v1, v2)
		}
	}
	if h1, h2 := f1.Hex(10), f2.Hex(10); h1 != h2 {
		t.Errorf("Same seed produced different hex: %s != %s", h1, h2)
	}
}

func TestFakerInt(t *testing.T) {
	f := NewFaker()
	for i := 0; i < 100; i++ {
		v := f.Int(1, 5)
		if v < 1 || v > 5 {
			t.Errorf("Int %d not in range [1, 5]", v)
		}
	}
}

func TestFakerInt64(t *testing.T) {
	f := NewFaker()
	for i := 0; i < 100; i++ {
		v := f.Int64(500, 90000)
		if v < 500 || v > 90000 {
			t.Errorf("Int64 %d not in range [500, 90000]", v)
		}
	}
}

func TestChoose(t *testing.T) {
	f := NewFaker()
	items := []string{"ONLINE", "STORE"}

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		chosen := Choose(f, items)
		if chosen != "ONLINE" && chosen != "STORE" {
			t.Fatalf("Choose returned item not in slice: %s", chosen)
		}
		seen[chosen] = true
	}
	if len(seen) != 2 {
		t.Errorf("Choose should reach every item, saw %v", seen)
	}
}

func TestChooseEmpty(t *testing.T) {
	f := NewFaker()
	var items []string

	chosen := Choose(f, items)
	if chosen != "" {
		t.Errorf("Choose on empty slice should return zero value, got: %s", chosen)
	}
}

func TestFakerRandomString(t *testing.T) {
	f := NewFaker()
	charset := "ABC123"
	s := f.RandomString(20, charset)
	if len(s) != 20 {
		t.Errorf("RandomString(20, ...) should return 20 chars, got %d", len(s))
	}
	for _, c := range s {
		if !containsRune(charset, c) {
			t.Errorf("RandomString should only use charset chars, got: %c", c)
		}
	}
	if f.RandomString(0, charset) != "" {
		t.Error("RandomString(0, ...) should be empty")
	}
	if f.RandomString(5, "") != "" {
		t.Error("RandomString with empty charset should be empty")
	}
}

func TestFakerHex(t *testing.T) {
	f := NewFaker()
	s := f.Hex(10)
	if len(s) != 10 {
		t.Fatalf("Hex(10) should return 10 chars, got %d", len(s))
	}
	for _, c := range s {
		if !containsRune(hexDigits, c) {
			t.Errorf("Hex should only contain lowercase hex digits, got: %c", c)
		}
	}
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}

func TestFakerDaysAfter(t *testing.T) {
	f := NewFaker()
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	for i := 0; i < 200; i++ {
		d := f.DaysAfter(start, 7)
		if d.Before(start) || d.After(end) {
			t.Fatalf("DaysAfter %v not in range [%v, %v]", d, start, end)
		}
		if d.Hour() != 0 || d.Minute() != 0 {
			t.Fatalf("DaysAfter should shift by whole days, got %v", d)
		}
	}

	if got := f.DaysAfter(start, 0); !got.Equal(start) {
		t.Errorf("DaysAfter with zero window should return start, got %v", got)
	}
}

func TestProgressReporter(t *testing.T) {
	p := NewProgressReporter("fact_sales", 100, 10)
	for i := 0; i < 10; i++ {
		p.Update(10)
	}
	p.Done()
	if p.Rows() != 100 {
		t.Errorf("Rows() expected 100, got %d", p.Rows())
	}

	// A non-positive interval must not cause a division by zero.
	p = NewProgressReporter("dim_date", 5, 0)
	p.Update(5)
	if p.Rows() != 5 {
		t.Errorf("Rows() expected 5, got %d", p.Rows())
	}
}

// Benchmarks
func BenchmarkFakerInt(b *testing.B) {
	f := NewFaker()
	for i := 0; i < b.N; i++ {
		f.Int(0, 1000)
	}
}

func BenchmarkFakerHex(b *testing.B) {
	f := NewFaker()
	for i := 0; i < b.N; i++ {
		f.Hex(10)
	}
}
