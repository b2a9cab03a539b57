package core

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/huangsam/deviceinfo/core/device"
	"github.com/huangsam/deviceinfo/internal/contract"
	"github.com/huangsam/deviceinfo/internal/logging"
	"github.com/huangsam/deviceinfo/internal/outwriter"
	"github.com/huangsam/deviceinfo/schema"
	"go.uber.org/zap"
)

// ExecutorFunc defines the function signature for executing different command modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config) error

// DeviceInfoRequest holds the optional inputs of a device info dictionary.
type DeviceInfoRequest struct {
	Token          string // Push token; hex input is normalized to uppercase
	Latitude       *float64
	Longitude      *float64
	NullForMissing bool
}

// Executor runs counter and device commands against one configuration.
type Executor struct {
	cfg      *contract.Config
	writer   contract.OutputWriter
	device   *device.Service
	counters []CounterOption
}

// NewExecutor builds an Executor. Counter options are applied after the ones
// derived from cfg, so callers can swap the store factory in tests.
func NewExecutor(cfg *contract.Config, writer contract.OutputWriter, dev *device.Service, opts ...CounterOption) *Executor {
	if writer == nil {
		writer = outwriter.NewOutWriter()
	}
	if dev == nil {
		dev = device.NewServiceFromConfig(cfg)
	}
	counters := append(OptionsFromConfig(cfg), WithVersionProvider(dev))
	return &Executor{
		cfg:      cfg,
		writer:   writer,
		device:   dev,
		counters: append(counters, opts...),
	}
}

// Device returns the device info service used for app versions.
func (e *Executor) Device() *device.Service { return e.device }

// Counter opens the counter service of one kind.
func (e *Executor) Counter(kind schema.CounterKind) (*CounterService, error) {
	if _, ok := schema.ValidCounterKinds[kind]; !ok {
		return nil, fmt.Errorf("unknown counter kind: %s", kind)
	}
	return NewCounterService(kind, e.counters...), nil
}

// Summaries reads the counts of each kind. No kinds means all kinds.
func (e *Executor) Summaries(ctx context.Context, kinds ...schema.CounterKind) ([]schema.CounterSummary, error) {
	if len(kinds) == 0 {
		kinds = schema.AllCounterKinds
	}
	summaries := make([]schema.CounterSummary, 0, len(kinds))
	for _, kind := range kinds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		svc, err := e.Counter(kind)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, svc.Summary())
		e.closeCounter(svc)
	}
	return summaries, nil
}

// Increment records one event for the current app version and returns the
// updated summary.
func (e *Executor) Increment(ctx context.Context, kind schema.CounterKind) (schema.CounterSummary, error) {
	if err := ctx.Err(); err != nil {
		return schema.CounterSummary{}, err
	}
	svc, err := e.Counter(kind)
	if err != nil {
		return schema.CounterSummary{}, err
	}
	defer e.closeCounter(svc)

	svc.IncrementCountForCurrentVersion()
	return svc.Summary(), nil
}

// DeviceInfo builds the device dictionary, with notification settings when a
// source is configured.
func (e *Executor) DeviceInfo(ctx context.Context, req DeviceInfoRequest) (map[string]any, error) {
	var token *string
	if req.Token != "" {
		formatted := req.Token
		if raw, err := hex.DecodeString(req.Token); err == nil {
			formatted = e.device.FormattedToken(raw)
		}
		token = &formatted
	}
	return e.device.DeviceAndSettingsInfo(ctx, token, req.Latitude, req.Longitude, req.NullForMissing)
}

// CounterStatus prints the summaries of the given kinds.
func (e *Executor) CounterStatus(ctx context.Context, kinds ...schema.CounterKind) error {
	summaries, err := e.Summaries(ctx, kinds...)
	if err != nil {
		return err
	}
	return e.writer.WriteCounters(summaries, e.cfg)
}

// CounterIncrement increments one kind and prints its summary.
func (e *Executor) CounterIncrement(ctx context.Context, kind schema.CounterKind) error {
	summary, err := e.Increment(ctx, kind)
	if err != nil {
		return err
	}
	return e.writer.WriteCounters([]schema.CounterSummary{summary}, e.cfg)
}

// PrintDeviceInfo prints the device dictionary.
func (e *Executor) PrintDeviceInfo(ctx context.Context, req DeviceInfoRequest) error {
	info, err := e.DeviceInfo(ctx, req)
	if err != nil {
		return err
	}
	return e.writer.WriteDeviceInfo(info, e.cfg)
}

// Export writes every kind/version/count row to cfg.OutputFile as Parquet.
func (e *Executor) Export(ctx context.Context) error {
	if e.cfg.OutputFile == "" {
		return fmt.Errorf("export requires --output-file")
	}
	summaries, err := e.Summaries(ctx)
	if err != nil {
		return err
	}
	exportCfg := *e.cfg
	exportCfg.Output = schema.ParquetOut
	return e.writer.WriteCounters(summaries, &exportCfg)
}

func (e *Executor) closeCounter(svc *CounterService) {
	if err := svc.Close(); err != nil {
		logging.Debug("failed to close counter store", zap.String("counter", string(svc.Kind())), zap.Error(err))
	}
}

// ExecuteCounterStatus prints the summaries of the given kinds. No kinds means all kinds.
// It serves as the main entry point for the 'launch status', 'review status' and 'status' commands.
func ExecuteCounterStatus(ctx context.Context, cfg *contract.Config, kinds ...schema.CounterKind) error {
	return NewExecutor(cfg, nil, nil).CounterStatus(ctx, kinds...)
}

// ExecuteCounterIncrement increments one counter kind for the current app version.
func ExecuteCounterIncrement(ctx context.Context, cfg *contract.Config, kind schema.CounterKind) error {
	return NewExecutor(cfg, nil, nil).CounterIncrement(ctx, kind)
}

// ExecuteDeviceInfo prints the device info dictionary.
func ExecuteDeviceInfo(ctx context.Context, cfg *contract.Config, req DeviceInfoRequest) error {
	return NewExecutor(cfg, nil, nil).PrintDeviceInfo(ctx, req)
}

// ExecuteExport exports all counters to a Parquet file.
func ExecuteExport(ctx context.Context, cfg *contract.Config) error {
	return NewExecutor(cfg, nil, nil).Export(ctx)
}
