//go:build integration

package integration

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/huangsam/deviceinfo/internal/parquet"
	"github.com/huangsam/deviceinfo/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCounterLifecycle runs the documented launch scenario against a SQLite store.
func TestCounterLifecycle(t *testing.T) {
	env := []string{
		"DEVICEINFO_LOCAL_DB_DIR=" + t.TempDir(),
		"DEVICEINFO_LOCAL_BACKEND=sqlite",
	}

	for range 3 {
		_, err := runCommand(t, env, "launch", "increment", "--app-version", "1.0.1")
		require.NoError(t, err)
	}
	_, err := runCommand(t, env, "launch", "increment", "--app-version", "1.1.0")
	require.NoError(t, err)
	_, err = runCommand(t, env, "review", "increment", "--app-version", "1.1.0")
	require.NoError(t, err)

	out, err := runCommand(t, env, "status", "--app-version", "1.1.0", "--output", "json")
	require.NoError(t, err)

	var summaries []schema.CounterSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summaries))
	require.Len(t, summaries, 2)

	launch := summaries[0]
	assert.Equal(t, schema.LaunchCounter, launch.Kind)
	assert.Equal(t, 1, launch.CurrentCount)
	assert.Equal(t, 4, launch.Total)
	assert.Equal(t, schema.VersionCounterMap{"1.0.1": 3, "1.1.0": 1}, launch.Versions)

	review := summaries[1]
	assert.Equal(t, schema.VersionCounterMap{"1.1.0": 1}, review.Versions)

	t.Run("export", func(t *testing.T) {
		exportPath := filepath.Join(t.TempDir(), "counters.parquet")
		_, err := runCommand(t, env, "export", "--output-file", exportPath)
		require.NoError(t, err)

		rows, err := parquet.ReadCounterRowsParquet(exportPath)
		require.NoError(t, err)
		assert.Len(t, rows, 3)
	})

	t.Run("namespaces are separate", func(t *testing.T) {
		out, err := runCommand(t, env, "launch", "status", "--namespace", "group.com.example.lister", "--output", "json")
		require.NoError(t, err)

		var summaries []schema.CounterSummary
		require.NoError(t, json.Unmarshal([]byte(out), &summaries))
		require.Len(t, summaries, 1)
		assert.Equal(t, 0, summaries[0].Total)
	})

	t.Run("clear", func(t *testing.T) {
		_, err := runCommand(t, env, "store", "clear")
		require.NoError(t, err)

		out, err := runCommand(t, env, "launch", "status", "--output", "json")
		require.NoError(t, err)
		var summaries []schema.CounterSummary
		require.NoError(t, json.Unmarshal([]byte(out), &summaries))
		assert.Equal(t, 0, summaries[0].Total)
	})
}

// TestDeviceInfo checks the device dictionary layout end to end.
func TestDeviceInfo(t *testing.T) {
	plist, err := filepath.Abs(filepath.Join("..", "core", "device", "testdata", "Info.plist"))
	require.NoError(t, err)

	out, err := runCommand(t, []string{"DEVICEINFO_LOCAL_DB_DIR=" + t.TempDir()}, "device", "info",
		"--info-plist", plist,
		"--model-identifier", "iPhone13,2",
		"--null-missing",
		"--output", "json",
	)
	require.NoError(t, err)

	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	for _, key := range []string{"name", "location", "locale", "hardware", "OS", "app", "screen_metrics"} {
		assert.Contains(t, info, key)
	}
	hardware := info["hardware"].(map[string]any)
	assert.Equal(t, "iPhone 12", hardware["name"])
	assert.Equal(t, "iPhone", hardware["type"])
	app := info["app"].(map[string]any)
	assert.Equal(t, "1.0.1", app["version"])
	assert.Contains(t, app, "token")
	assert.Nil(t, app["token"])

	t.Run("identifier is stable across runs", func(t *testing.T) {
		env := []string{"DEVICEINFO_LOCAL_DB_DIR=" + t.TempDir()}
		identifier := func() any {
			out, err := runCommand(t, env, "device", "info", "--info-plist", plist, "--output", "json")
			require.NoError(t, err)
			var info map[string]any
			require.NoError(t, json.Unmarshal([]byte(out), &info))
			return info["hardware"].(map[string]any)["identifier"]
		}
		first := identifier()
		assert.NotEmpty(t, first)
		assert.Equal(t, first, identifier())
	})
}
