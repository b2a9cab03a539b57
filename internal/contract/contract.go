// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"errors"

	"github.com/huangsam/deviceinfo/schema"
)

// ErrKeyNotFound is returned by KVStore.Get when the key has never been written.
var ErrKeyNotFound = errors.New("key not found")

// KVStore defines the interface for the persistent key-value backend behind counters.
// This allows mocking the store for testing.
type KVStore interface {
	// Get returns the serialized value for key, or an error wrapping ErrKeyNotFound.
	Get(key string) ([]byte, error)

	// Set inserts or replaces the value for key.
	Set(key string, value []byte) error

	// GetStatus returns status information about the store.
	GetStatus() (schema.StoreStatus, error)

	// Close releases the underlying connection.
	Close() error
}

// StoreFactory opens key-value stores for a counter service.
type StoreFactory interface {
	// OpenLocal opens the device-local store. An empty namespace selects the
	// default private partition.
	OpenLocal(namespace string) (KVStore, error)

	// OpenSynchronized opens the synchronized store scoped to an account identity.
	OpenSynchronized(identity string) (KVStore, error)
}

// IdentityChecker reports whether a synchronized-store identity is available
// in the current execution context.
type IdentityChecker interface {
	SyncIdentity() (string, bool)
}

// VersionProvider supplies the current application version string.
type VersionProvider interface {
	AppVersion() string
}

// NotificationSettingsSource reads the current notification settings.
type NotificationSettingsSource interface {
	NotificationSettings(ctx context.Context) (schema.NotificationSettings, error)
}

// DeviceInfoProvider is the full device, OS, app and locale metadata surface.
type DeviceInfoProvider interface {
	VersionProvider

	OSName() string
	OSVersion() string
	AppBuildNumber() string
	AppIdentifier() string
	AppName() string
	AppNameWithVersion() string
	DeviceDisplayName() string
	DeviceModelName() string
	DeviceType() string
	DeviceVersion() string
	DeviceIdentifier() string
	Language() string
	Locale() string
	Translation() string
	ScreenDensity() float64
	ScreenHeight() float64
	ScreenWidth() float64
	Timezone() string

	// FormattedToken renders a push notification device token as uppercase hex.
	FormattedToken(deviceToken []byte) string

	// DeviceInfoDictionary builds the device payload used when registering for
	// remote notifications.
	DeviceInfoDictionary(token *string, latitude, longitude *float64, nullForMissingValues bool) map[string]any

	// DeviceAndSettingsInfo is DeviceInfoDictionary plus the notification settings.
	DeviceAndSettingsInfo(ctx context.Context, token *string, latitude, longitude *float64, nullForMissingValues bool) (map[string]any, error)
}

// OutputWriter renders command results in the configured output format.
type OutputWriter interface {
	WriteCounters(summaries []schema.CounterSummary, cfg *Config) error
	WriteDeviceInfo(info map[string]any, cfg *Config) error
}
