// Package parquet exports version counters to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/deviceinfo/schema"
	"github.com/parquet-go/parquet-go"
)

// CounterRow is one kind/version/count row of an export.
type CounterRow struct {
	// Kind is the counter kind, e.g. "launch"
	Kind string `parquet:"kind,snappy"`

	// Version is the app version the count belongs to
	Version string `parquet:"version,snappy"`

	// Count is the number of recorded events for Version
	Count int64 `parquet:"count,snappy"`

	// Current marks the version the app was running at export time
	Current bool `parquet:"current"`

	// Backend is the store backend the count was read from
	Backend string `parquet:"backend,snappy"`

	// Location is "local" or "synchronized"
	Location string `parquet:"location,snappy"`

	// ExportedAt is when the summary was taken (stored as TIMESTAMP with nanosecond precision)
	ExportedAt time.Time `parquet:"exported_at,snappy"`
}

// RowsFromSummaries flattens counter summaries into export rows, ordered by
// kind as given and by version within each kind.
func RowsFromSummaries(summaries []schema.CounterSummary) []CounterRow {
	var rows []CounterRow
	for _, s := range summaries {
		for _, r := range s.Records() {
			rows = append(rows, CounterRow{
				Kind:       string(r.Kind),
				Version:    r.Version,
				Count:      int64(r.Count),
				Current:    r.Version == s.CurrentVersion,
				Backend:    string(s.Backend),
				Location:   string(s.Location),
				ExportedAt: s.GeneratedAt,
			})
		}
	}
	return rows
}

// WriteCounterRowsParquet writes rows to a Parquet file at outputPath.
func WriteCounterRowsParquet(data []CounterRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if err := writeCounterRows(file, data); err != nil {
		return err
	}
	return file.Close()
}

func writeCounterRows(w io.Writer, data []CounterRow) error {
	// Schema is derived from the CounterRow struct tags
	writer := parquet.NewGenericWriter[CounterRow](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ReadCounterRowsParquet reads back every row of a counter export.
func ReadCounterRowsParquet(inputPath string) ([]CounterRow, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[CounterRow](file)
	defer func() { _ = reader.Close() }()

	rows := make([]CounterRow, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read parquet rows: %w", err)
	}
	return rows[:n], nil
}
