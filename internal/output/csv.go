package output

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pgEdge/pgedge-retailgen/internal/logging"
)

// DateFormat is the textual form of calendar dates in CSV and JSON output.
const DateFormat = "2006-01-02"

// CSVSink writes each table to <dir>/<name>.csv with a header row,
// replacing any existing file.
type CSVSink struct {
	Dir string
}

// NewCSVSink creates a sink writing into the batch directory of layout.
func NewCSVSink(layout Layout) *CSVSink {
	return &CSVSink{Dir: layout.BatchDir()}
}

// Path returns the file a table with the given name is written to.
func (s *CSVSink) Path(name string) string {
	return filepath.Join(s.Dir, name+".csv")
}

// WriteTable implements Sink.
func (s *CSVSink) WriteTable(ctx context.Context, table Table) error {
	path := s.Path(table.Name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	w := csv.NewWriter(buf)

	if err := w.Write(table.Columns); err != nil {
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}

	record := make([]string, len(table.Columns))
	for i, row := range table.Rows {
		if len(row) != len(table.Columns) {
			return fmt.Errorf("%s row %d has %d values, expected %d",
				table.Name, i, len(row), len(table.Columns))
		}
		for j, v := range row {
			record[j] = FormatValue(v)
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		if i%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	logging.Info().
		Str("table", table.Name).
		Int("rows", len(table.Rows)).
		Str("path", path).
		Msg("Wrote CSV")
	return nil
}

// FormatValue renders a row value as CSV text.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case time.Time:
		return x.Format(DateFormat)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
