package schema

import "time"

// StoreStatus represents the status of a key-value store.
type StoreStatus struct {
	Backend         string    `json:"backend"`
	Location        string    `json:"location"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}
