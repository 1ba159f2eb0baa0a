package history

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgEdge/pgedge-retailgen/internal/config"
	"github.com/pgEdge/pgedge-retailgen/internal/datasets"
	"github.com/pgEdge/pgedge-retailgen/internal/output"
)

// smallConfig keeps the default shape with fewer rows.
func smallConfig(t *testing.T, root string) datasets.GeneratorConfig {
	t.Helper()
	h := config.DefaultConfig().History
	h.OutputDir = root
	h.Customers = 40
	h.Products = 30
	h.Stores = 8
	h.DateDays = 45
	h.Facts = 300
	h.TrailingFacts = 50

	seq := 0
	return datasets.GeneratorConfig{
		Seed:    42,
		Layout:  output.Layout{Root: root},
		Clock:   func() time.Time { return time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC) },
		NewID:   func() string { seq++; return fmt.Sprintf("evt-%06d", seq) },
		History: h,
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestGenerateWritesAllFiles(t *testing.T) {
	root := t.TempDir()
	res, err := New().Generate(context.Background(), smallConfig(t, root))
	require.NoError(t, err)

	assert.Equal(t, "history", res.Dataset)
	assert.Equal(t, New().Files(), res.Files)
	for _, name := range res.Files {
		assert.FileExists(t, filepath.Join(root, filepath.FromSlash(name)))
	}
	assert.Equal(t, 350, res.Events)
	assert.Equal(t, int64(40+30+8+6+45+300+50), res.Rows())

	targets := map[string]string{}
	for _, tbl := range res.Tables {
		targets[tbl.Name] = tbl.Target
	}
	assert.Equal(t, "fact_sales", targets[TrailingSalesTable])
}

func TestGenerateKeysWithinDimensions(t *testing.T) {
	root := t.TempDir()
	_, err := New().Generate(context.Background(), smallConfig(t, root))
	require.NoError(t, err)

	for _, file := range []string{"fact_sales.csv", TrailingSalesTable + ".csv"} {
		records := readCSV(t, filepath.Join(root, "batch", file))
		require.NotEmpty(t, records)
		assert.Equal(t, "order_id", records[0][0])

		for _, rec := range records[1:] {
			for col, bound := range map[int]int{2: 40, 3: 30, 4: 8, 5: 6} {
				key, err := strconv.Atoi(rec[col])
				require.NoError(t, err)
				assert.GreaterOrEqual(t, key, 1)
				assert.LessOrEqual(t, key, bound, "%s column %d", file, col)
			}
		}
	}

	trailing := readCSV(t, filepath.Join(root, "batch", TrailingSalesTable+".csv"))
	for _, rec := range trailing[1:] {
		d, err := time.Parse(output.DateFormat, rec[1])
		require.NoError(t, err)
		assert.False(t, d.Before(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
		assert.False(t, d.After(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)))
	}
}

func TestGenerateReproducible(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	_, err := New().Generate(context.Background(), smallConfig(t, a))
	require.NoError(t, err)
	_, err = New().Generate(context.Background(), smallConfig(t, b))
	require.NoError(t, err)

	for _, name := range New().Files() {
		first, err := os.ReadFile(filepath.Join(a, filepath.FromSlash(name)))
		require.NoError(t, err)
		second, err := os.ReadFile(filepath.Join(b, filepath.FromSlash(name)))
		require.NoError(t, err)
		assert.Equal(t, first, second, "file %s differs between equal-seed runs", name)
	}
}

func TestGenerateZeroSeed(t *testing.T) {
	cfg := smallConfig(t, t.TempDir())
	cfg.Seed = 0

	_, err := New().Generate(context.Background(), cfg)
	assert.ErrorIs(t, err, datasets.ErrZeroSeed)
}

func TestGenerateDifferentSeeds(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	cfgA := smallConfig(t, a)
	cfgB := smallConfig(t, b)
	cfgB.Seed = 7

	_, err := New().Generate(context.Background(), cfgA)
	require.NoError(t, err)
	_, err = New().Generate(context.Background(), cfgB)
	require.NoError(t, err)

	first, err := os.ReadFile(filepath.Join(a, "batch", "dim_customer.csv"))
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(b, "batch", "dim_customer.csv"))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	// The calendar does not depend on the seed.
	first, err = os.ReadFile(filepath.Join(a, "batch", "dim_date.csv"))
	require.NoError(t, err)
	second, err = os.ReadFile(filepath.Join(b, "batch", "dim_date.csv"))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateWithoutTrailingBatch(t *testing.T) {
	root := t.TempDir()
	cfg := smallConfig(t, root)
	cfg.History.TrailingFacts = 0

	res, err := New().Generate(context.Background(), cfg)
	require.NoError(t, err)
	assert.NotContains(t, res.Files, "batch/"+TrailingSalesTable+".csv")
	assert.Equal(t, 300, res.Events)
}

type recordingSink struct {
	names []string
}

func (r *recordingSink) WriteTable(_ context.Context, t output.Table) error {
	r.names = append(r.names, t.Name)
	return nil
}

func TestGenerateFeedsExtraSink(t *testing.T) {
	root := t.TempDir()
	cfg := smallConfig(t, root)
	sink := &recordingSink{}
	cfg.Sink = sink

	_, err := New().Generate(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"dim_customer", "dim_product", "dim_store", "dim_payment", "dim_date",
		"fact_sales", TrailingSalesTable,
	}, sink.names)
}

func TestGenerateInvalidConfig(t *testing.T) {
	cfg := smallConfig(t, t.TempDir())
	cfg.History.FactStart = "not-a-date"
	_, err := New().Generate(context.Background(), cfg)
	assert.Error(t, err)
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Generate(ctx, smallConfig(t, t.TempDir()))
	assert.ErrorIs(t, err, context.Canceled)
}
