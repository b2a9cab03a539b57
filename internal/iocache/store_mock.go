package iocache

import (
	"github.com/huangsam/deviceinfo/internal/contract"
	"github.com/huangsam/deviceinfo/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreFactory is a mock implementation of StoreFactory for testing.
type MockStoreFactory struct {
	mock.Mock
}

var _ contract.StoreFactory = &MockStoreFactory{} // Compile-time check

// OpenLocal implements the StoreFactory interface.
func (m *MockStoreFactory) OpenLocal(namespace string) (contract.KVStore, error) {
	ret := m.Called(namespace)
	store, _ := ret.Get(0).(contract.KVStore)
	return store, ret.Error(1)
}

// OpenSynchronized implements the StoreFactory interface.
func (m *MockStoreFactory) OpenSynchronized(identity string) (contract.KVStore, error) {
	ret := m.Called(identity)
	store, _ := ret.Get(0).(contract.KVStore)
	return store, ret.Error(1)
}

// MockKVStore is a mock implementation of KVStore for testing.
type MockKVStore struct {
	mock.Mock
}

var _ contract.KVStore = &MockKVStore{} // Compile-time check

// Get implements the KVStore interface.
func (m *MockKVStore) Get(key string) ([]byte, error) {
	args := m.Called(key)
	value, _ := args.Get(0).([]byte)
	return value, args.Error(1)
}

// Set implements the KVStore interface.
func (m *MockKVStore) Set(key string, value []byte) error {
	args := m.Called(key, value)
	return args.Error(0)
}

// GetStatus implements the KVStore interface.
func (m *MockKVStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the KVStore interface.
func (m *MockKVStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
