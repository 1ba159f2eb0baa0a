// Package main is the entry point for pgedge-retailgen.
package main

import (
	"fmt"
	"os"

	"github.com/pgEdge/pgedge-retailgen/internal/cli"

	// Register datasets
	_ "github.com/pgEdge/pgedge-retailgen/internal/datasets/history"
	_ "github.com/pgEdge/pgedge-retailgen/internal/datasets/incremental"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
