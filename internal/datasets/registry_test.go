package datasets_test

import (
	"testing"

	"github.com/pgEdge/pgedge-retailgen/internal/datasets"
	// Import dataset packages to trigger their init() functions which register the datasets
	_ "github.com/pgEdge/pgedge-retailgen/internal/datasets/history"
	_ "github.com/pgEdge/pgedge-retailgen/internal/datasets/incremental"
)

func TestGet(t *testing.T) {
	for _, name := range []string{"history", "incremental"} {
		t.Run(name, func(t *testing.T) {
			ds, err := datasets.Get(name)
			if err != nil {
				t.Fatalf("Failed to get dataset '%s': %v", name, err)
			}
			if ds.Name() != name {
				t.Errorf("Dataset name mismatch: expected '%s', got '%s'", name, ds.Name())
			}
			if ds.Description() == "" {
				t.Error("Dataset description should not be empty")
			}
			if len(ds.Files()) == 0 {
				t.Error("Dataset should declare its files")
			}
		})
	}
}

func TestGetUnknown(t *testing.T) {
	for _, name := range []string{"", "weekly"} {
		if _, err := datasets.Get(name); err == nil {
			t.Errorf("Expected error for dataset %q, got nil", name)
		}
	}
}

func TestListSorted(t *testing.T) {
	names := datasets.List()
	if len(names) != 2 || names[0] != "history" || names[1] != "incremental" {
		t.Errorf("List() = %v, want [history incremental]", names)
	}

	all := datasets.All()
	if len(all) != len(names) {
		t.Fatalf("All() returned %d datasets, want %d", len(all), len(names))
	}
	for i, ds := range all {
		if ds.Name() != names[i] {
			t.Errorf("All()[%d] = %s, want %s", i, ds.Name(), names[i])
		}
	}
}

func TestResultRows(t *testing.T) {
	r := datasets.Result{Tables: []datasets.TableResult{{Rows: 3}, {Rows: 4}}}
	if r.Rows() != 7 {
		t.Errorf("Rows() = %d, want 7", r.Rows())
	}
}
