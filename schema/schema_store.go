// Package schema holds the data types shared across deviceinfo packages.
package schema

import (
	"maps"
	"slices"
	"time"
)

// VersionCounterMap maps an app version string (e.g. "1.0.1") to an event count.
// A missing version means a count of zero.
type VersionCounterMap map[string]int

// Count returns the count for a version, or 0 when absent.
func (m VersionCounterMap) Count(version string) int {
	return m[version]
}

// Total returns the sum of all counts.
func (m VersionCounterMap) Total() int {
	total := 0
	for _, c := range m {
		total += c
	}
	return total
}

// Clone returns a copy that can be mutated without touching the original.
func (m VersionCounterMap) Clone() VersionCounterMap {
	out := make(VersionCounterMap, len(m))
	maps.Copy(out, m)
	return out
}

// Versions returns the versions in lexical order.
func (m VersionCounterMap) Versions() []string {
	return slices.Sorted(maps.Keys(m))
}

// CounterRecord is a flattened row of one counter kind and version.
type CounterRecord struct {
	Kind    CounterKind `json:"kind" yaml:"kind"`
	Version string      `json:"version" yaml:"version"`
	Count   int         `json:"count" yaml:"count"`
}

// CounterSummary describes one counter kind as seen through its resolved store.
type CounterSummary struct {
	Kind           CounterKind       `json:"kind" yaml:"kind"`
	Backend        StoreBackend      `json:"backend" yaml:"backend"`
	Location       StoreLocation     `json:"location" yaml:"location"`
	CurrentVersion string            `json:"current_version" yaml:"current_version"`
	CurrentCount   int               `json:"current_count" yaml:"current_count"`
	Total          int               `json:"total" yaml:"total"`
	Versions       VersionCounterMap `json:"versions" yaml:"versions"`
	GeneratedAt    time.Time         `json:"generated_at" yaml:"generated_at"`
}

// Records flattens the summary into rows sorted by version.
func (s CounterSummary) Records() []CounterRecord {
	records := make([]CounterRecord, 0, len(s.Versions))
	for _, v := range s.Versions.Versions() {
		records = append(records, CounterRecord{Kind: s.Kind, Version: v, Count: s.Versions[v]})
	}
	return records
}
