package core

import (
	"github.com/huangsam/deviceinfo/internal/contract"
	"go.uber.org/zap"
)

// CounterOption configures a CounterService.
type CounterOption func(*counterOptions)

type counterOptions struct {
	namespace  string
	preferSync bool
	version    contract.VersionProvider
	factory    contract.StoreFactory
	identity   contract.IdentityChecker
	logger     *zap.Logger
}

// WithStorageNamespace selects a shared storage partition instead of the
// default private one. An unusable namespace falls back to the default.
func WithStorageNamespace(namespace string) CounterOption {
	return func(o *counterOptions) { o.namespace = namespace }
}

// WithPreferSynchronizedStore asks for the synchronized store when an account
// identity is available.
func WithPreferSynchronizedStore(prefer bool) CounterOption {
	return func(o *counterOptions) { o.preferSync = prefer }
}

// WithVersionProvider sets where the current app version comes from.
func WithVersionProvider(p contract.VersionProvider) CounterOption {
	return func(o *counterOptions) { o.version = p }
}

// WithStoreFactory sets how stores are opened.
func WithStoreFactory(f contract.StoreFactory) CounterOption {
	return func(o *counterOptions) { o.factory = f }
}

// WithIdentityChecker sets the synchronized-store identity check.
func WithIdentityChecker(c contract.IdentityChecker) CounterOption {
	return func(o *counterOptions) { o.identity = c }
}

// WithLogger sets the logger used for swallowed store failures.
func WithLogger(l *zap.Logger) CounterOption {
	return func(o *counterOptions) { o.logger = l }
}

// OptionsFromConfig maps the runtime configuration onto counter options.
func OptionsFromConfig(cfg *contract.Config) []CounterOption {
	return []CounterOption{
		WithStorageNamespace(cfg.Namespace),
		WithPreferSynchronizedStore(cfg.PreferSync),
	}
}
