package core

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/huangsam/deviceinfo/core/device"
	"github.com/huangsam/deviceinfo/internal/contract"
	"github.com/huangsam/deviceinfo/internal/parquet"
	"github.com/huangsam/deviceinfo/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testDevice(version string, opts ...device.Option) *device.Service {
	base := []device.Option{
		device.WithBundle(device.Bundle{ShortVersion: version, Version: "142", Identifier: "com.example.lister", Name: "Lister"}),
		device.WithDeviceIdentifier("DEVICE-1"),
		device.WithDeviceName("Test Phone"),
		device.WithModelIdentifier("iPhone14,5"),
	}
	return device.NewService(append(base, opts...)...)
}

func testExecutor(t *testing.T, version string, writer contract.OutputWriter) *Executor {
	t.Helper()
	cfg := contract.DefaultConfig()
	return NewExecutor(cfg, writer, testDevice(version), WithStoreFactory(memoryFactory()))
}

func TestExecutorSummaries(t *testing.T) {
	ctx := context.Background()
	cfg := contract.DefaultConfig()
	factory := memoryFactory()

	e := NewExecutor(cfg, &contract.MockOutputWriter{}, testDevice("1.0.1"), WithStoreFactory(factory))
	for range 3 {
		_, err := e.Increment(ctx, schema.LaunchCounter)
		require.NoError(t, err)
	}
	_, err := e.Increment(ctx, schema.ReviewPromptCounter)
	require.NoError(t, err)

	later := NewExecutor(cfg, &contract.MockOutputWriter{}, testDevice("1.1.0"), WithStoreFactory(factory))
	summary, err := later.Increment(ctx, schema.LaunchCounter)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.CurrentCount)
	assert.Equal(t, 4, summary.Total)

	t.Run("all kinds by default", func(t *testing.T) {
		summaries, err := later.Summaries(ctx)
		require.NoError(t, err)
		require.Len(t, summaries, 2)
		assert.Equal(t, schema.LaunchCounter, summaries[0].Kind)
		assert.Equal(t, schema.VersionCounterMap{"1.0.1": 3, "1.1.0": 1}, summaries[0].Versions)
		assert.Equal(t, schema.ReviewPromptCounter, summaries[1].Kind)
		assert.Equal(t, schema.VersionCounterMap{"1.0.1": 1}, summaries[1].Versions)
		assert.Equal(t, 0, summaries[1].CurrentCount)
	})

	t.Run("selected kind", func(t *testing.T) {
		summaries, err := later.Summaries(ctx, schema.ReviewPromptCounter)
		require.NoError(t, err)
		require.Len(t, summaries, 1)
		assert.Equal(t, schema.MemoryBackend, summaries[0].Backend)
		assert.Equal(t, schema.LocalLocation, summaries[0].Location)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := later.Summaries(ctx, schema.CounterKind("share"))
		assert.ErrorContains(t, err, "unknown counter kind")
	})

	t.Run("canceled context", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := later.Summaries(canceled)
		assert.ErrorIs(t, err, context.Canceled)
		_, err = later.Increment(canceled, schema.LaunchCounter)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestExecutorCounterStatus(t *testing.T) {
	writer := &contract.MockOutputWriter{}
	e := testExecutor(t, "2.0.0", writer)

	writer.On("WriteCounters", mock.MatchedBy(func(s []schema.CounterSummary) bool {
		return len(s) == 1 && s[0].Kind == schema.LaunchCounter && s[0].CurrentVersion == "2.0.0"
	}), e.cfg).Return(nil).Once()

	require.NoError(t, e.CounterStatus(context.Background(), schema.LaunchCounter))
	writer.AssertExpectations(t)
}

func TestExecutorCounterIncrement(t *testing.T) {
	writer := &contract.MockOutputWriter{}
	e := testExecutor(t, "2.0.0", writer)

	writer.On("WriteCounters", mock.MatchedBy(func(s []schema.CounterSummary) bool {
		return len(s) == 1 && s[0].CurrentCount == 1
	}), e.cfg).Return(nil).Once()
	writer.On("WriteCounters", mock.MatchedBy(func(s []schema.CounterSummary) bool {
		return len(s) == 1 && s[0].CurrentCount == 2
	}), e.cfg).Return(errors.New("disk full")).Once()

	require.NoError(t, e.CounterIncrement(context.Background(), schema.ReviewPromptCounter))
	assert.EqualError(t, e.CounterIncrement(context.Background(), schema.ReviewPromptCounter), "disk full")
	writer.AssertExpectations(t)
}

func TestExecutorDeviceInfo(t *testing.T) {
	ctx := context.Background()
	lat := 52.52

	t.Run("hex token is normalized", func(t *testing.T) {
		e := testExecutor(t, "1.0.1", &contract.MockOutputWriter{})
		info, err := e.DeviceInfo(ctx, DeviceInfoRequest{Token: "0aff10", Latitude: &lat})
		require.NoError(t, err)

		app := info["app"].(map[string]any)
		assert.Equal(t, "0AFF10", app["token"])
		assert.Equal(t, "1.0.1", app["version"])
		location := info["location"].(map[string]any)
		assert.Equal(t, 52.52, location["lat"])
		assert.NotContains(t, location, "lng")
	})

	t.Run("opaque token passes through", func(t *testing.T) {
		e := testExecutor(t, "1.0.1", &contract.MockOutputWriter{})
		info, err := e.DeviceInfo(ctx, DeviceInfoRequest{Token: "not-hex", NullForMissing: true})
		require.NoError(t, err)

		assert.Equal(t, "not-hex", info["app"].(map[string]any)["token"])
		location := info["location"].(map[string]any)
		assert.Contains(t, location, "lat")
		assert.Nil(t, location["lat"])
	})

	t.Run("notification settings", func(t *testing.T) {
		src := &contract.MockNotificationSettingsSource{}
		src.On("NotificationSettings", mock.Anything).Return(schema.NotificationSettings{Authorization: schema.AuthorizationAuthorized}, nil)
		dev := testDevice("1.0.1", device.WithNotificationSettings(src))

		writer := &contract.MockOutputWriter{}
		e := NewExecutor(contract.DefaultConfig(), writer, dev, WithStoreFactory(memoryFactory()))
		writer.On("WriteDeviceInfo", mock.MatchedBy(func(info map[string]any) bool {
			settings, ok := info["notification_settings"].(map[string]any)
			return ok && settings["authorization"] == "authorized"
		}), e.cfg).Return(nil).Once()

		require.NoError(t, e.PrintDeviceInfo(ctx, DeviceInfoRequest{}))
		writer.AssertExpectations(t)
	})

	t.Run("settings failure", func(t *testing.T) {
		src := &contract.MockNotificationSettingsSource{}
		src.On("NotificationSettings", mock.Anything).Return(schema.NotificationSettings{}, errors.New("denied"))
		dev := testDevice("1.0.1", device.WithNotificationSettings(src))

		writer := &contract.MockOutputWriter{}
		e := NewExecutor(contract.DefaultConfig(), writer, dev, WithStoreFactory(memoryFactory()))
		assert.ErrorContains(t, e.PrintDeviceInfo(ctx, DeviceInfoRequest{}), "notification settings")
		writer.AssertNotCalled(t, "WriteDeviceInfo", mock.Anything, mock.Anything)
	})
}

func TestExecutorExport(t *testing.T) {
	ctx := context.Background()

	t.Run("requires output file", func(t *testing.T) {
		e := testExecutor(t, "1.0.1", &contract.MockOutputWriter{})
		assert.ErrorContains(t, e.Export(ctx), "--output-file")
	})

	t.Run("forces parquet", func(t *testing.T) {
		writer := &contract.MockOutputWriter{}
		e := testExecutor(t, "1.0.1", writer)
		e.cfg.OutputFile = "counters.parquet"
		writer.On("WriteCounters", mock.MatchedBy(func(s []schema.CounterSummary) bool {
			return len(s) == len(schema.AllCounterKinds)
		}), mock.MatchedBy(func(cfg *contract.Config) bool {
			return cfg.Output == schema.ParquetOut && cfg.OutputFile == "counters.parquet"
		})).Return(nil).Once()

		require.NoError(t, e.Export(ctx))
		assert.Equal(t, schema.TextOut, e.cfg.Output, "caller config is untouched")
		writer.AssertExpectations(t)
	})

	t.Run("writes rows", func(t *testing.T) {
		cfg := contract.DefaultConfig()
		cfg.OutputFile = filepath.Join(t.TempDir(), "counters.parquet")
		e := NewExecutor(cfg, nil, testDevice("1.0.1"), WithStoreFactory(memoryFactory()))
		_, err := e.Increment(ctx, schema.LaunchCounter)
		require.NoError(t, err)
		_, err = e.Increment(ctx, schema.ReviewPromptCounter)
		require.NoError(t, err)

		require.NoError(t, e.Export(ctx))

		rows, err := parquet.ReadCounterRowsParquet(cfg.OutputFile)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "launch", rows[0].Kind)
		assert.Equal(t, "review_prompt", rows[1].Kind)
		assert.True(t, rows[0].Current)
	})
}
