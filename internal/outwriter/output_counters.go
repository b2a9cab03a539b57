package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/huangsam/deviceinfo/internal/contract"
	"github.com/huangsam/deviceinfo/internal/parquet"
	"github.com/huangsam/deviceinfo/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintCounterSummaries outputs counter summaries in the configured format.
func PrintCounterSummaries(summaries []schema.CounterSummary, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summaries)
		}, "Wrote JSON")
	case schema.YAMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeYAML(w, summaries)
		}, "Wrote YAML")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCounterCSV(w, summaries)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeCounterParquet(summaries, cfg.OutputFile)
	default:
		colorize := shouldColorize(cfg)
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCounterTables(w, summaries, colorize)
		}, "Wrote table")
	}
}

// writeCounterParquet writes every kind/version/count row to a Parquet file.
func writeCounterParquet(summaries []schema.CounterSummary, outputFile string) error {
	if outputFile == "" {
		return fmt.Errorf("parquet output requires an output file")
	}
	rows := parquet.RowsFromSummaries(summaries)
	if err := parquet.WriteCounterRowsParquet(rows, outputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote %d Parquet rows to %s\n", len(rows), outputFile)
	return nil
}

// writeCounterCSV writes one row per kind and version.
func writeCounterCSV(w io.Writer, summaries []schema.CounterSummary) error {
	header := []string{"kind", "version", "count", "current", "backend", "location"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, s := range summaries {
			for _, r := range s.Records() {
				row := []string{
					string(r.Kind),
					r.Version,
					strconv.Itoa(r.Count),
					strconv.FormatBool(r.Version == s.CurrentVersion),
					string(s.Backend),
					string(s.Location),
				}
				if err := csvWriter.Write(row); err != nil {
					return fmt.Errorf("failed to write CSV row: %w", err)
				}
			}
		}
		return nil
	})
}

// writeCounterTables renders one table per counter kind.
func writeCounterTables(w io.Writer, summaries []schema.CounterSummary, colorize bool) error {
	for i, s := range summaries {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := writeCounterTable(w, s, colorize); err != nil {
			return err
		}
	}
	return nil
}

// writeCounterTable generates and writes the human-readable table for one kind.
func writeCounterTable(w io.Writer, s schema.CounterSummary, colorize bool) error {
	fmt.Fprintf(w, "%s counts (%s, %s)\n", getDisplayNameForKind(s.Kind), s.Backend, s.Location)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Version", "Count", "Current"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range s.Records() {
		row := []string{r.Version, strconv.Itoa(r.Count), ""}
		if r.Version == s.CurrentVersion {
			row[2] = "*"
			if colorize {
				for j := range row {
					row[j] = currentHighlight.Sprint(row[j])
				}
			}
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return fmt.Errorf("failed to build counter table: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render counter table: %w", err)
	}

	fmt.Fprintf(w, "Current version %s: %d of %d total\n", s.CurrentVersion, s.CurrentCount, s.Total)
	return nil
}

// getDisplayNameForKind returns the display name with emoji for a counter kind.
func getDisplayNameForKind(kind schema.CounterKind) string {
	switch kind {
	case schema.LaunchCounter:
		return "🚀 LAUNCH"
	case schema.ReviewPromptCounter:
		return "⭐ REVIEW PROMPT"
	default:
		return strings.ToUpper(strings.ReplaceAll(string(kind), "_", " "))
	}
}
