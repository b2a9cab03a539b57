package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsam/deviceinfo/internal/contract"
	"github.com/huangsam/deviceinfo/schema"
	"github.com/olekukonko/tablewriter"
)

// PrintDeviceInfo outputs a device info dictionary in the configured format.
// JSON and YAML keep the nested layout; text and CSV flatten it to dotted keys.
func PrintDeviceInfo(info map[string]any, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, info)
		}, "Wrote JSON")
	case schema.YAMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeYAML(w, info)
		}, "Wrote YAML")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDeviceCSV(w, info)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is only supported for counters")
	default:
		maxWidth := getMaxValueWidth(cfg)
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDeviceTable(w, info, maxWidth)
		}, "Wrote table")
	}
}

func writeDeviceCSV(w io.Writer, info map[string]any) error {
	flat := make(map[string]any)
	flattenInfo("", info, flat)
	return writeCSVWithHeader(w, []string{"key", "value"}, func(csvWriter *csv.Writer) error {
		for _, k := range sortedKeys(flat) {
			if err := csvWriter.Write([]string{k, formatValue(flat[k])}); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}

// writeDeviceTable writes one row per flattened key. A maxWidth of 0 disables truncation.
func writeDeviceTable(w io.Writer, info map[string]any, maxWidth int) error {
	flat := make(map[string]any)
	flattenInfo("", info, flat)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Key", "Value"})

	var data [][]string
	for _, k := range sortedKeys(flat) {
		data = append(data, []string{k, truncateValue(formatValue(flat[k]), maxWidth)})
	}
	if err := table.Bulk(data); err != nil {
		return fmt.Errorf("failed to build device table: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render device table: %w", err)
	}
	return nil
}
