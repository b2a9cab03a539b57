package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/huangsam/deviceinfo/internal/contract"
	"github.com/huangsam/deviceinfo/internal/parquet"
	"github.com/huangsam/deviceinfo/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleSummaries() []schema.CounterSummary {
	return []schema.CounterSummary{
		{
			Kind:           schema.LaunchCounter,
			Backend:        schema.SQLiteBackend,
			Location:       schema.LocalLocation,
			CurrentVersion: "1.1.0",
			CurrentCount:   1,
			Total:          4,
			Versions:       schema.VersionCounterMap{"1.0.1": 3, "1.1.0": 1},
			GeneratedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		},
		{
			Kind:           schema.ReviewPromptCounter,
			Backend:        schema.SQLiteBackend,
			Location:       schema.LocalLocation,
			CurrentVersion: "1.1.0",
			Versions:       schema.VersionCounterMap{},
			GeneratedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		},
	}
}

func sampleInfo() map[string]any {
	return map[string]any{
		"name": "Sam's iPhone",
		"location": map[string]any{
			"timezone": "Europe/Berlin",
			"lat":      nil,
		},
		"screen_metrics": map[string]any{
			"density": 3.0,
			"h":       844.0,
			"w":       390.0,
		},
	}
}

func fileConfig(t *testing.T, mode schema.OutputMode, name string) *contract.Config {
	t.Helper()
	cfg := contract.DefaultConfig()
	cfg.Output = mode
	cfg.OutputFile = filepath.Join(t.TempDir(), name)
	return cfg
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestPrintCounterSummaries(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		cfg := fileConfig(t, schema.JSONOut, "counts.json")
		require.NoError(t, NewOutWriter().WriteCounters(sampleSummaries(), cfg))

		var got []schema.CounterSummary
		require.NoError(t, json.Unmarshal([]byte(readFile(t, cfg.OutputFile)), &got))
		require.Len(t, got, 2)
		assert.Equal(t, schema.VersionCounterMap{"1.0.1": 3, "1.1.0": 1}, got[0].Versions)
		assert.Equal(t, 4, got[0].Total)
		assert.Equal(t, schema.ReviewPromptCounter, got[1].Kind)
	})

	t.Run("yaml", func(t *testing.T) {
		cfg := fileConfig(t, schema.YAMLOut, "counts.yaml")
		require.NoError(t, NewOutWriter().WriteCounters(sampleSummaries(), cfg))

		var got []map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(readFile(t, cfg.OutputFile)), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "launch", got[0]["kind"])
		assert.Equal(t, "1.1.0", got[0]["current_version"])
	})

	t.Run("csv", func(t *testing.T) {
		cfg := fileConfig(t, schema.CSVOut, "counts.csv")
		require.NoError(t, NewOutWriter().WriteCounters(sampleSummaries(), cfg))

		records, err := csv.NewReader(strings.NewReader(readFile(t, cfg.OutputFile))).ReadAll()
		require.NoError(t, err)
		assert.Equal(t, [][]string{
			{"kind", "version", "count", "current", "backend", "location"},
			{"launch", "1.0.1", "3", "false", "sqlite", "local"},
			{"launch", "1.1.0", "1", "true", "sqlite", "local"},
		}, records)
	})

	t.Run("parquet", func(t *testing.T) {
		cfg := fileConfig(t, schema.ParquetOut, "counts.parquet")
		require.NoError(t, NewOutWriter().WriteCounters(sampleSummaries(), cfg))

		rows, err := parquet.ReadCounterRowsParquet(cfg.OutputFile)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("parquet without file", func(t *testing.T) {
		cfg := contract.DefaultConfig()
		cfg.Output = schema.ParquetOut
		err := PrintCounterSummaries(sampleSummaries(), cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "requires an output file")
	})

	t.Run("text", func(t *testing.T) {
		cfg := fileConfig(t, schema.TextOut, "counts.txt")
		require.NoError(t, NewOutWriter().WriteCounters(sampleSummaries(), cfg))

		out := readFile(t, cfg.OutputFile)
		assert.Contains(t, out, "LAUNCH counts (sqlite, local)")
		assert.Contains(t, out, "REVIEW PROMPT counts (sqlite, local)")
		assert.Contains(t, out, "1.0.1")
		assert.Contains(t, out, "Current version 1.1.0: 1 of 4 total")
		assert.Contains(t, out, "Current version 1.1.0: 0 of 0 total")
		assert.NotContains(t, out, "\x1b[", "file output is never colored")
	})
}

func TestWriteCounterTable(t *testing.T) {
	s := sampleSummaries()[0]

	t.Run("plain", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeCounterTable(&buf, s, false))
		out := buf.String()
		assert.Contains(t, strings.ToUpper(out), "VERSION")
		assert.Contains(t, out, "*")
		assert.NotContains(t, out, "\x1b[")
	})

	t.Run("colored current row", func(t *testing.T) {
		prev := currentHighlight
		defer func() { currentHighlight = prev }()
		currentHighlight = color.New(color.FgGreen)
		currentHighlight.EnableColor()

		var buf bytes.Buffer
		require.NoError(t, writeCounterTable(&buf, s, true))
		assert.Contains(t, buf.String(), "\x1b[")
	})
}

func TestPrintDeviceInfo(t *testing.T) {
	t.Run("json keeps nesting", func(t *testing.T) {
		cfg := fileConfig(t, schema.JSONOut, "device.json")
		require.NoError(t, NewOutWriter().WriteDeviceInfo(sampleInfo(), cfg))

		var got map[string]any
		require.NoError(t, json.Unmarshal([]byte(readFile(t, cfg.OutputFile)), &got))
		location := got["location"].(map[string]any)
		assert.Equal(t, "Europe/Berlin", location["timezone"])
		assert.Contains(t, location, "lat")
		assert.Nil(t, location["lat"])
	})

	t.Run("yaml", func(t *testing.T) {
		cfg := fileConfig(t, schema.YAMLOut, "device.yaml")
		require.NoError(t, PrintDeviceInfo(sampleInfo(), cfg))

		var got map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(readFile(t, cfg.OutputFile)), &got))
		assert.Equal(t, "Sam's iPhone", got["name"])
	})

	t.Run("csv flattens", func(t *testing.T) {
		cfg := fileConfig(t, schema.CSVOut, "device.csv")
		require.NoError(t, PrintDeviceInfo(sampleInfo(), cfg))

		records, err := csv.NewReader(strings.NewReader(readFile(t, cfg.OutputFile))).ReadAll()
		require.NoError(t, err)
		assert.Equal(t, [][]string{
			{"key", "value"},
			{"location.lat", "null"},
			{"location.timezone", "Europe/Berlin"},
			{"name", "Sam's iPhone"},
			{"screen_metrics.density", "3"},
			{"screen_metrics.h", "844"},
			{"screen_metrics.w", "390"},
		}, records)
	})

	t.Run("text", func(t *testing.T) {
		cfg := fileConfig(t, schema.TextOut, "device.txt")
		require.NoError(t, PrintDeviceInfo(sampleInfo(), cfg))

		out := readFile(t, cfg.OutputFile)
		assert.Contains(t, out, "location.timezone")
		assert.Contains(t, out, "Europe/Berlin")
	})

	t.Run("parquet unsupported", func(t *testing.T) {
		cfg := fileConfig(t, schema.ParquetOut, "device.parquet")
		assert.Error(t, PrintDeviceInfo(sampleInfo(), cfg))
	})
}

func TestWriteWithFile_BadPath(t *testing.T) {
	cfg := fileConfig(t, schema.JSONOut, "x.json")
	cfg.OutputFile = filepath.Join(t.TempDir(), "missing", "x.json")
	err := PrintDeviceInfo(sampleInfo(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open output file")
}
