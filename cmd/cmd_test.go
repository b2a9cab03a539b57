package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/deviceinfo/schema"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationFlag(t *testing.T) {
	tests := []struct {
		value   string
		want    schema.StoreLocation
		wantErr bool
	}{
		{"local", schema.LocalLocation, false},
		{"synchronized", schema.SynchronizedLocation, false},
		{"cloud", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			c := &cobra.Command{}
			c.Flags().String("location", "local", "")
			require.NoError(t, c.Flags().Set("location", tt.value))

			got, err := locationFlag(c)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	defer rootCmd.SetOut(nil)
	rootCmd.SetArgs([]string{"version"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "deviceinfo CLI")
	assert.Contains(t, buf.String(), "Version: dev")
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	plist := filepath.Join("..", "core", "device", "testdata", "Info.plist")

	t.Run("device info", func(t *testing.T) {
		out := filepath.Join(dir, "device.json")
		rootCmd.SetArgs([]string{
			"device", "info",
			"--info-plist", plist,
			"--device-name", "Test Phone",
			"--local-db-dir", dir,
			"--lat", "52.52",
			"--output", "json",
			"--output-file", out,
		})
		require.NoError(t, rootCmd.Execute())

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		var info map[string]any
		require.NoError(t, json.Unmarshal(data, &info))
		assert.Equal(t, "Test Phone", info["name"])
		assert.Equal(t, "Lister", info["app"].(map[string]any)["name"])
		assert.InDelta(t, 52.52, info["location"].(map[string]any)["lat"], 1e-9)
	})

	t.Run("launch increment", func(t *testing.T) {
		out := filepath.Join(dir, "launch.json")
		rootCmd.SetArgs([]string{
			"launch", "increment",
			"--local-backend", "memory",
			"--info-plist", plist,
			"--app-version", "2.0.0",
			"--output", "json",
			"--output-file", out,
		})
		require.NoError(t, rootCmd.Execute())

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		var summaries []schema.CounterSummary
		require.NoError(t, json.Unmarshal(data, &summaries))
		require.Len(t, summaries, 1)
		assert.Equal(t, schema.LaunchCounter, summaries[0].Kind)
		assert.Equal(t, "2.0.0", summaries[0].CurrentVersion)
		assert.Equal(t, 1, summaries[0].CurrentCount)
	})

	t.Run("invalid output", func(t *testing.T) {
		rootCmd.SetArgs([]string{"device", "info", "--output", "xml"})
		err := rootCmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid output format")
	})
}
