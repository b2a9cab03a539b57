package schema

// Custom string types for type safety.
type (
	// CounterKind represents a named category of tracked events.
	CounterKind string

	// StoreBackend represents the key-value backend used for counter storage.
	StoreBackend string

	// StoreLocation represents where counters live: local to the device or synchronized.
	StoreLocation string

	// OutputMode represents the format of the output.
	OutputMode string
)

// All counter kinds supported.
const (
	LaunchCounter       CounterKind = "launch"
	ReviewPromptCounter CounterKind = "review_prompt"
)

// Storage keys for each counter kind. Kinds never share a key.
const (
	LaunchVersionsKey       = "versions"
	ReviewPromptVersionsKey = "reviewPromptVersions"
)

// All store backends supported.
const (
	SQLiteBackend     StoreBackend = "sqlite" // default local
	BoltBackend       StoreBackend = "bolt"
	MemoryBackend     StoreBackend = "memory"
	MySQLBackend      StoreBackend = "mysql"
	PostgreSQLBackend StoreBackend = "postgresql"
	NoneBackend       StoreBackend = "none"
)

// All store locations.
const (
	LocalLocation        StoreLocation = "local"
	SynchronizedLocation StoreLocation = "synchronized"
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	CSVOut     OutputMode = "csv"
	YAMLOut    OutputMode = "yaml"
	ParquetOut OutputMode = "parquet"
)

// AllCounterKinds returns a list of all supported counter kinds.
var AllCounterKinds = []CounterKind{LaunchCounter, ReviewPromptCounter}

// ValidCounterKinds lists all valid counter kinds.
var ValidCounterKinds = map[CounterKind]struct{}{
	LaunchCounter:       {},
	ReviewPromptCounter: {},
}

// ValidLocalBackends lists the backends that can serve as the local store.
var ValidLocalBackends = map[StoreBackend]struct{}{
	SQLiteBackend: {},
	BoltBackend:   {},
	MemoryBackend: {},
	NoneBackend:   {},
}

// ValidSyncBackends lists the backends that can serve as the synchronized store.
var ValidSyncBackends = map[StoreBackend]struct{}{
	MySQLBackend:      {},
	PostgreSQLBackend: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	JSONOut:    {},
	CSVOut:     {},
	YAMLOut:    {},
	ParquetOut: {},
}

// StorageKey returns the well-known storage key for a counter kind.
// Unknown kinds get their own key derived from the kind name.
func (k CounterKind) StorageKey() string {
	switch k {
	case LaunchCounter:
		return LaunchVersionsKey
	case ReviewPromptCounter:
		return ReviewPromptVersionsKey
	default:
		return string(k) + "Versions"
	}
}

// IsSynchronized reports whether the backend is a server-backed synchronized store.
func (b StoreBackend) IsSynchronized() bool {
	_, ok := ValidSyncBackends[b]
	return ok
}
