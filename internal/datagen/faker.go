//-------------------------------------------------------------------------
//
// pgEdge Retail Data Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package datagen provides data generation utilities.
package datagen

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

const hexDigits = "0123456789abcdef"

// Faker provides fake data generation using gofakeit.
//
// Every random draw in a generation run goes through one Faker so that a
// fixed seed and a fixed call order reproduce the same output.
type Faker struct {
	faker *gofakeit.Faker
}

// NewFaker creates a new Faker with a random seed.
func NewFaker() *Faker {
	return &Faker{
		faker: gofakeit.New(uint64(time.Now().UnixNano())),
	}
}

// NewFakerWithSeed creates a new Faker with a specific seed for reproducibility.
func NewFakerWithSeed(seed uint64) *Faker {
	return &Faker{
		faker: gofakeit.New(seed),
	}
}

// Int generates a random integer between min and max (inclusive).
func (f *Faker) Int(min, max int) int {
	return f.faker.IntRange(min, max)
}

// Int64 generates a random int64 between min and max (inclusive).
func (f *Faker) Int64(min, max int64) int64 {
	return int64(f.faker.IntRange(int(min), int(max)))
}

// Choose returns a random element from the given slice.
func Choose[T any](f *Faker, items []T) T {
	if len(items) == 0 {
		var zero T
		return zero
	}
	return items[f.Int(0, len(items)-1)]
}

// RandomString generates a string from the given character set.
func (f *Faker) RandomString(length int, charset string) string {
	if length <= 0 || charset == "" {
		return ""
	}
	result := make([]byte, length)
	for i := range result {
		result[i] = charset[f.Int(0, len(charset)-1)]
	}
	return string(result)
}

// Hex generates a lowercase hexadecimal string of length n.
func (f *Faker) Hex(n int) string {
	return f.RandomString(n, hexDigits)
}

// DaysAfter returns start shifted by a uniform random number of whole days
// in [0, window].
func (f *Faker) DaysAfter(start time.Time, window int) time.Time {
	if window <= 0 {
		return start
	}
	return start.AddDate(0, 0, f.Int(0, window))
}
