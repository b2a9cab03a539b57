// Package outwriter has output and writer logic.
package outwriter

import (
	"github.com/huangsam/deviceinfo/internal/contract"
	"github.com/huangsam/deviceinfo/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

var _ contract.OutputWriter = &OutWriter{} // Compile-time check

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteCounters prints counter summaries using the configured output format.
func (ow *OutWriter) WriteCounters(summaries []schema.CounterSummary, cfg *contract.Config) error {
	return PrintCounterSummaries(summaries, cfg)
}

// WriteDeviceInfo prints a device info dictionary using the configured output format.
func (ow *OutWriter) WriteDeviceInfo(info map[string]any, cfg *contract.Config) error {
	return PrintDeviceInfo(info, cfg)
}
