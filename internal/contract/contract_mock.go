package contract

import (
	"context"

	"github.com/huangsam/deviceinfo/schema"
	"github.com/stretchr/testify/mock"
)

// MockVersionProvider is a mock implementation of VersionProvider for testing.
type MockVersionProvider struct {
	mock.Mock
}

var _ VersionProvider = &MockVersionProvider{} // Compile-time check

// AppVersion implements the VersionProvider interface.
func (m *MockVersionProvider) AppVersion() string {
	args := m.Called()
	return args.String(0)
}

// MockIdentityChecker is a mock implementation of IdentityChecker for testing.
type MockIdentityChecker struct {
	mock.Mock
}

var _ IdentityChecker = &MockIdentityChecker{} // Compile-time check

// SyncIdentity implements the IdentityChecker interface.
func (m *MockIdentityChecker) SyncIdentity() (string, bool) {
	args := m.Called()
	return args.String(0), args.Bool(1)
}

// MockNotificationSettingsSource is a mock implementation of NotificationSettingsSource for testing.
type MockNotificationSettingsSource struct {
	mock.Mock
}

var _ NotificationSettingsSource = &MockNotificationSettingsSource{} // Compile-time check

// NotificationSettings implements the NotificationSettingsSource interface.
func (m *MockNotificationSettingsSource) NotificationSettings(ctx context.Context) (schema.NotificationSettings, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.NotificationSettings), args.Error(1)
}

// MockOutputWriter is a mock implementation of OutputWriter for testing.
type MockOutputWriter struct {
	mock.Mock
}

var _ OutputWriter = &MockOutputWriter{} // Compile-time check

// WriteCounters implements the OutputWriter interface.
func (m *MockOutputWriter) WriteCounters(summaries []schema.CounterSummary, cfg *Config) error {
	args := m.Called(summaries, cfg)
	return args.Error(0)
}

// WriteDeviceInfo implements the OutputWriter interface.
func (m *MockOutputWriter) WriteDeviceInfo(info map[string]any, cfg *Config) error {
	args := m.Called(info, cfg)
	return args.Error(0)
}
