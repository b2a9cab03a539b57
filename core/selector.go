package core

import "github.com/huangsam/deviceinfo/schema"

// ResolveBackend picks where counters are stored. The synchronized store is
// used only when the caller prefers it and an account identity is available.
func ResolveBackend(preferSynchronized, synchronizedAvailable bool) schema.StoreLocation {
	if preferSynchronized && synchronizedAvailable {
		return schema.SynchronizedLocation
	}
	return schema.LocalLocation
}
