// Package core has the versioned counter service and the command entry points.
package core

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/huangsam/deviceinfo/core/device"
	"github.com/huangsam/deviceinfo/internal/contract"
	"github.com/huangsam/deviceinfo/internal/iocache"
	"github.com/huangsam/deviceinfo/internal/logging"
	"github.com/huangsam/deviceinfo/schema"
	"go.uber.org/zap"
)

// CounterService tracks how many times an event happened per app version.
//
// The store is resolved once at construction and never re-evaluated. Store
// failures are logged and swallowed: reads fall back to an empty map and
// writes are best-effort. Increments are a plain read-modify-write, so
// concurrent increments of the same version can lose updates.
type CounterService struct {
	kind     schema.CounterKind
	key      string
	store    contract.KVStore
	location schema.StoreLocation
	version  contract.VersionProvider
	logger   *zap.Logger
}

// NewCounterService builds a counter for kind using the given options.
func NewCounterService(kind schema.CounterKind, opts ...CounterOption) *CounterService {
	var o counterOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.GetLogger()
	}
	if o.factory == nil {
		o.factory = iocache.Manager
	}
	if o.identity == nil {
		if checker, ok := o.factory.(contract.IdentityChecker); ok {
			o.identity = checker
		}
	}
	if o.version == nil {
		o.version = device.NewService()
	}

	s := &CounterService{
		kind:    kind,
		key:     kind.StorageKey(),
		version: o.version,
		logger:  o.logger.With(zap.String("counter", string(kind))),
	}

	var (
		identity  string
		available bool
	)
	if o.identity != nil {
		identity, available = o.identity.SyncIdentity()
	}
	s.store, s.location = s.openStore(o, ResolveBackend(o.preferSync, available), identity)
	return s
}

// NewLaunchCountService returns the app launch counter.
func NewLaunchCountService(opts ...CounterOption) *CounterService {
	return NewCounterService(schema.LaunchCounter, opts...)
}

// NewReviewPromptCountService returns the review prompt counter.
func NewReviewPromptCountService(opts ...CounterOption) *CounterService {
	return NewCounterService(schema.ReviewPromptCounter, opts...)
}

// openStore opens the store for the resolved location, degrading from the
// synchronized store to the namespaced local store, then the default local
// store, and finally a store that keeps nothing.
func (s *CounterService) openStore(o counterOptions, location schema.StoreLocation, identity string) (contract.KVStore, schema.StoreLocation) {
	if location == schema.SynchronizedLocation {
		store, err := o.factory.OpenSynchronized(identity)
		if err == nil {
			return store, schema.SynchronizedLocation
		}
		s.logger.Debug("synchronized store unavailable, using local store", zap.Error(err))
	}

	if o.namespace != "" {
		store, err := o.factory.OpenLocal(o.namespace)
		if err == nil {
			return store, schema.LocalLocation
		}
		s.logger.Debug("storage namespace unavailable, using default partition",
			zap.String("namespace", o.namespace), zap.Error(err))
	}

	store, err := o.factory.OpenLocal("")
	if err == nil {
		return store, schema.LocalLocation
	}
	s.logger.Debug("local store unavailable, counts will not persist", zap.Error(err))
	return iocache.NewNoneStore(), schema.LocalLocation
}

// Kind returns the counter kind.
func (s *CounterService) Kind() schema.CounterKind { return s.kind }

// UsesSynchronizedStore reports whether counts go to the synchronized store.
func (s *CounterService) UsesSynchronizedStore() bool {
	return s.location == schema.SynchronizedLocation
}

// Location returns where the counts are stored.
func (s *CounterService) Location() schema.StoreLocation { return s.location }

// Backend returns the backend of the resolved store.
func (s *CounterService) Backend() schema.StoreBackend {
	status, err := s.store.GetStatus()
	if err != nil {
		s.logger.Debug("store status unavailable", zap.Error(err))
	}
	return schema.StoreBackend(status.Backend)
}

// Status returns the status of the resolved store.
func (s *CounterService) Status() (schema.StoreStatus, error) {
	return s.store.GetStatus()
}

// CountForVersion returns the count stored for version, or 0.
func (s *CounterService) CountForVersion(version string) int {
	return s.load().Count(version)
}

// CountForCurrentVersion returns the count for the running app version.
func (s *CounterService) CountForCurrentVersion() int {
	return s.CountForVersion(s.version.AppVersion())
}

// TotalCountAllVersions returns the sum of the counts of every version.
func (s *CounterService) TotalCountAllVersions() int {
	return s.load().Total()
}

// CountsForAllVersions returns a copy of every stored count.
func (s *CounterService) CountsForAllVersions() schema.VersionCounterMap {
	return s.load()
}

// IncrementCountForCurrentVersion adds one to the count of the running app
// version. It always returns true; a failed write is only logged.
func (s *CounterService) IncrementCountForCurrentVersion() bool {
	counts := s.load()
	version := s.version.AppVersion()
	counts[version]++

	raw, err := json.Marshal(counts)
	if err != nil {
		s.logger.Debug("failed to encode counts", zap.Error(err))
		return true
	}
	if err := s.store.Set(s.key, raw); err != nil {
		s.logger.Debug("failed to write counts", zap.String("version", version), zap.Error(err))
	}
	return true
}

// Summary captures the counts and store details for reporting.
func (s *CounterService) Summary() schema.CounterSummary {
	counts := s.load()
	version := s.version.AppVersion()
	return schema.CounterSummary{
		Kind:           s.kind,
		Backend:        s.Backend(),
		Location:       s.location,
		CurrentVersion: version,
		CurrentCount:   counts.Count(version),
		Total:          counts.Total(),
		Versions:       counts,
		GeneratedAt:    time.Now(),
	}
}

// Close releases the store. Stores handed out by the shared manager stay open.
func (s *CounterService) Close() error {
	return s.store.Close()
}

// load reads the full map. Missing keys and undecodable values read as empty.
func (s *CounterService) load() schema.VersionCounterMap {
	raw, err := s.store.Get(s.key)
	if err != nil {
		if !errors.Is(err, contract.ErrKeyNotFound) {
			s.logger.Debug("failed to read counts", zap.Error(err))
		}
		return schema.VersionCounterMap{}
	}

	var counts schema.VersionCounterMap
	if err := json.Unmarshal(raw, &counts); err != nil {
		s.logger.Debug("stored counts are not decodable", zap.Error(err))
		return schema.VersionCounterMap{}
	}
	if counts == nil {
		counts = schema.VersionCounterMap{}
	}
	return counts
}
