package parquet

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/deviceinfo/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSummaries(now time.Time) []schema.CounterSummary {
	return []schema.CounterSummary{
		{
			Kind:           schema.LaunchCounter,
			Backend:        schema.SQLiteBackend,
			Location:       schema.LocalLocation,
			CurrentVersion: "1.1.0",
			Versions:       schema.VersionCounterMap{"1.1.0": 1, "1.0.1": 3},
			GeneratedAt:    now,
		},
		{
			Kind:           schema.ReviewPromptCounter,
			Backend:        schema.SQLiteBackend,
			Location:       schema.LocalLocation,
			CurrentVersion: "1.1.0",
			Versions:       schema.VersionCounterMap{"1.0.1": 1},
			GeneratedAt:    now,
		},
	}
}

func TestCounterRowStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(CounterRow))
	require.NotNil(t, s)

	for _, colName := range []string{"kind", "version", "count", "current", "backend", "location", "exported_at"} {
		col, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col)
	}
}

func TestRowsFromSummaries(t *testing.T) {
	now := time.Now()
	rows := RowsFromSummaries(sampleSummaries(now))
	require.Len(t, rows, 3)

	assert.Equal(t, CounterRow{
		Kind: "launch", Version: "1.0.1", Count: 3, Current: false,
		Backend: "sqlite", Location: "local", ExportedAt: now,
	}, rows[0])
	assert.Equal(t, "1.1.0", rows[1].Version)
	assert.True(t, rows[1].Current)
	assert.Equal(t, "review_prompt", rows[2].Kind)
	assert.Equal(t, int64(1), rows[2].Count)

	assert.Empty(t, RowsFromSummaries(nil))
}

func TestWriteCounterRowsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "counters.parquet")
	now := time.Now().UTC()
	data := RowsFromSummaries(sampleSummaries(now))

	require.NoError(t, WriteCounterRowsParquet(data, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	readData, err := ReadCounterRowsParquet(outputPath)
	require.NoError(t, err)
	require.Len(t, readData, len(data))

	for i := range data {
		assert.Equal(t, data[i].Kind, readData[i].Kind)
		assert.Equal(t, data[i].Version, readData[i].Version)
		assert.Equal(t, data[i].Count, readData[i].Count)
		assert.Equal(t, data[i].Current, readData[i].Current)
		assert.Equal(t, data[i].Backend, readData[i].Backend)
		assert.Equal(t, data[i].Location, readData[i].Location)
		assert.WithinDuration(t, data[i].ExportedAt, readData[i].ExportedAt, time.Microsecond)
	}
}

func TestWriteCounterRowsParquet_EmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")

	require.NoError(t, WriteCounterRowsParquet([]CounterRow{}, outputPath))

	readData, err := ReadCounterRowsParquet(outputPath)
	require.NoError(t, err)
	assert.Empty(t, readData)
}

func TestWriteCounterRowsParquet_InvalidPath(t *testing.T) {
	err := WriteCounterRowsParquet(nil, filepath.Join(t.TempDir(), "missing", "dir", "out.parquet"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output file")
}

func TestReadCounterRowsParquet_Missing(t *testing.T) {
	_, err := ReadCounterRowsParquet(filepath.Join(t.TempDir(), "nope.parquet"))
	assert.Error(t, err)
}
