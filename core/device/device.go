// Package device reports device, operating-system, application and locale metadata.
package device

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/huangsam/deviceinfo/internal/contract"
	"github.com/huangsam/deviceinfo/internal/logging"
	"github.com/huangsam/deviceinfo/schema"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// Service is the default DeviceInfoProvider. Values are resolved once at construction.
type Service struct {
	bundle          Bundle
	appVersion      string
	osName          string
	osVersion       string
	modelIdentifier string
	deviceName      string
	deviceID        string
	screen          schema.ScreenMetrics
	preferred       language.Tag
	timezone        string
	notifications   contract.NotificationSettingsSource
}

var _ contract.DeviceInfoProvider = &Service{} // Compile-time check

// Option configures a Service.
type Option func(*options)

type options struct {
	infoPlist       string
	bundle          *Bundle
	appVersion      string
	modelIdentifier string
	deviceName      string
	deviceID        string
	deviceIDFile    string
	screen          schema.ScreenMetrics
	notifications   contract.NotificationSettingsSource
	getenv          func(string) string
	location        *time.Location
}

// WithInfoPlist reads bundle metadata from the given Info.plist path.
func WithInfoPlist(path string) Option { return func(o *options) { o.infoPlist = path } }

// WithBundle uses already-loaded bundle metadata instead of reading a file.
func WithBundle(b Bundle) Option { return func(o *options) { o.bundle = &b } }

// WithAppVersion overrides the bundle's short version string.
func WithAppVersion(v string) Option { return func(o *options) { o.appVersion = v } }

// WithModelIdentifier overrides the uname machine identifier, e.g. "iPhone8,2".
func WithModelIdentifier(id string) Option { return func(o *options) { o.modelIdentifier = id } }

// WithDeviceName sets the user-facing device name.
func WithDeviceName(name string) Option { return func(o *options) { o.deviceName = name } }

// WithDeviceIdentifier sets a stable device identifier instead of generating one.
func WithDeviceIdentifier(id string) Option { return func(o *options) { o.deviceID = id } }

// WithIdentifierFile keeps a generated device identifier in path so it stays
// the same across runs. An explicit WithDeviceIdentifier takes precedence.
func WithIdentifierFile(path string) Option { return func(o *options) { o.deviceIDFile = path } }

// WithScreen sets the screen metrics.
func WithScreen(s schema.ScreenMetrics) Option { return func(o *options) { o.screen = s } }

// WithNotificationSettings sets the source used by DeviceAndSettingsInfo.
func WithNotificationSettings(src contract.NotificationSettingsSource) Option {
	return func(o *options) { o.notifications = src }
}

// WithEnv replaces os.Getenv for locale and timezone lookup.
func WithEnv(getenv func(string) string) Option { return func(o *options) { o.getenv = getenv } }

// WithLocation sets the time zone reported by Timezone.
func WithLocation(loc *time.Location) Option { return func(o *options) { o.location = loc } }

// NewService builds a Service from the given options.
func NewService(opts ...Option) *Service {
	o := options{getenv: os.Getenv, location: time.Local}
	for _, opt := range opts {
		opt(&o)
	}

	var b Bundle
	switch {
	case o.bundle != nil:
		b = *o.bundle
	default:
		path := o.infoPlist
		if path == "" {
			path = DefaultInfoPlistPath()
		}
		loaded, err := LoadBundle(path)
		if err != nil {
			logging.Debug("bundle info unavailable", zap.String("path", path), zap.Error(err))
		}
		b = loaded
	}

	sysname, release, machine := systemInfo()
	modelIdentifier := orDefault(o.modelIdentifier, machine)

	deviceName := o.deviceName
	if deviceName == "" {
		if host, err := os.Hostname(); err == nil {
			deviceName = host
		}
	}

	deviceID := o.deviceID
	if deviceID == "" && o.deviceIDFile != "" {
		id, err := LoadOrCreateIdentifier(o.deviceIDFile)
		if err != nil {
			logging.Debug("device identifier not persisted", zap.String("path", o.deviceIDFile), zap.Error(err))
		}
		deviceID = id
	}
	if deviceID == "" {
		deviceID = newIdentifier()
	}

	return &Service{
		bundle:          b,
		appVersion:      orDefault(o.appVersion, b.ShortVersion),
		osName:          orDefault(sysname, UnknownValue),
		osVersion:       orDefault(release, UnknownValue),
		modelIdentifier: modelIdentifier,
		deviceName:      orDefault(deviceName, UnknownValue),
		deviceID:        deviceID,
		screen:          o.screen,
		preferred:       preferredLanguage(o.getenv),
		timezone:        timezoneName(o.location, o.getenv),
		notifications:   o.notifications,
	}
}

// NewServiceFromConfig builds a Service from the validated runtime configuration.
func NewServiceFromConfig(cfg *contract.Config, opts ...Option) *Service {
	base := []Option{
		WithInfoPlist(cfg.InfoPlist),
		WithAppVersion(cfg.AppVersion),
		WithModelIdentifier(cfg.ModelIdentifier),
		WithDeviceName(cfg.DeviceName),
		WithDeviceIdentifier(cfg.DeviceIdentifier),
		WithScreen(cfg.Screen),
	}
	if cfg.Store.LocalBackend == schema.SQLiteBackend || cfg.Store.LocalBackend == schema.BoltBackend {
		base = append(base, WithIdentifierFile(contract.GetDeviceIDFilePath(cfg.Store.LocalDBDir)))
	}
	return NewService(append(base, opts...)...)
}

// OSName returns the operating system name, e.g. "Darwin".
func (s *Service) OSName() string { return s.osName }

// OSVersion returns the operating system release, e.g. "23.1.0".
func (s *Service) OSVersion() string { return s.osVersion }

// AppBuildNumber returns the bundle build number, e.g. "142" or "1.0.1.142".
func (s *Service) AppBuildNumber() string { return orDefault(s.bundle.Version, UnknownValue) }

// AppIdentifier returns the bundle identifier, e.g. "com.example.app".
func (s *Service) AppIdentifier() string { return orDefault(s.bundle.Identifier, UnknownValue) }

// AppName returns the display name, falling back to the bundle name.
func (s *Service) AppName() string {
	return orDefault(orDefault(s.bundle.DisplayName, s.bundle.Name), UnnamedAppName)
}

// AppVersion returns the short version string, e.g. "1.0.1".
func (s *Service) AppVersion() string { return orDefault(s.appVersion, UnknownValue) }

// AppNameWithVersion returns e.g. "Lister 1.0.1.142".
func (s *Service) AppNameWithVersion() string {
	return fmt.Sprintf("%s %s", s.AppName(), s.AppBuildNumber())
}

// DeviceDisplayName returns the user-facing device name, e.g. "John's iPhone".
func (s *Service) DeviceDisplayName() string { return s.deviceName }

// DeviceModelName returns the user-facing model name, e.g. "iPhone 6S Plus".
func (s *Service) DeviceModelName() string { return ModelName(s.modelIdentifier) }

// DeviceType returns the device family, e.g. "iPhone".
func (s *Service) DeviceType() string { return TypeOf(s.modelIdentifier) }

// DeviceVersion returns the raw model identifier, e.g. "iPhone8,2".
func (s *Service) DeviceVersion() string { return s.modelIdentifier }

// DeviceIdentifier returns the device identifier.
func (s *Service) DeviceIdentifier() string { return s.deviceID }

// Language returns the first preferred language, e.g. "en-US".
func (s *Service) Language() string { return s.preferred.String() }

// Locale returns the current locale identifier, e.g. "en_US".
func (s *Service) Locale() string { return localeIdentifier(s.preferred) }

// Translation returns the localization in use, e.g. "en".
func (s *Service) Translation() string { return translationFor(s.preferred, s.bundle) }

// ScreenDensity returns the pixel density, e.g. 3.0.
func (s *Service) ScreenDensity() float64 { return s.screen.Density }

// ScreenHeight returns the screen height in points.
func (s *Service) ScreenHeight() float64 { return s.screen.Height }

// ScreenWidth returns the screen width in points.
func (s *Service) ScreenWidth() float64 { return s.screen.Width }

// Timezone returns the IANA time zone name, e.g. "America/Denver".
func (s *Service) Timezone() string { return s.timezone }

// FormattedToken renders a push notification device token as uppercase hex.
func (s *Service) FormattedToken(deviceToken []byte) string {
	return strings.ToUpper(hex.EncodeToString(deviceToken))
}

// DeviceInfoDictionary builds the device payload sent when registering for
// remote notifications. Missing token and coordinates are omitted, or set to
// nil when nullForMissingValues is true.
func (s *Service) DeviceInfoDictionary(token *string, latitude, longitude *float64, nullForMissingValues bool) map[string]any {
	location := map[string]any{
		"timezone": s.Timezone(),
	}
	putOptional(location, "lat", latitude, nullForMissingValues)
	putOptional(location, "lng", longitude, nullForMissingValues)

	app := map[string]any{
		"name":       s.AppName(),
		"version":    s.AppVersion(),
		"build":      s.AppBuildNumber(),
		"identifier": s.AppIdentifier(),
	}
	putOptional(app, "token", token, nullForMissingValues)

	return map[string]any{
		"name":     s.DeviceDisplayName(),
		"location": location,
		"locale": map[string]any{
			"translation": s.Translation(),
			"language":    s.Language(),
			"identifier":  s.Locale(),
		},
		"hardware": map[string]any{
			"name":       s.DeviceModelName(),
			"version":    s.DeviceVersion(),
			"type":       s.DeviceType(),
			"identifier": s.DeviceIdentifier(),
		},
		"OS": map[string]any{
			"name":    s.OSName(),
			"version": s.OSVersion(),
		},
		"app": app,
		"screen_metrics": map[string]any{
			"density": s.ScreenDensity(),
			"h":       s.ScreenHeight(),
			"w":       s.ScreenWidth(),
		},
	}
}

// DeviceAndSettingsInfo is DeviceInfoDictionary plus "notification_settings".
// Without a notification source the dictionary is returned unchanged.
func (s *Service) DeviceAndSettingsInfo(ctx context.Context, token *string, latitude, longitude *float64, nullForMissingValues bool) (map[string]any, error) {
	info := s.DeviceInfoDictionary(token, latitude, longitude, nullForMissingValues)
	if s.notifications == nil {
		return info, nil
	}
	settings, err := s.notifications.NotificationSettings(ctx)
	if err != nil {
		return info, fmt.Errorf("failed to read notification settings: %w", err)
	}
	info["notification_settings"] = settings.Dictionary()
	return info, nil
}

func putOptional[T any](m map[string]any, key string, value *T, nullForMissing bool) {
	switch {
	case value != nil:
		m[key] = *value
	case nullForMissing:
		m[key] = nil
	}
}
