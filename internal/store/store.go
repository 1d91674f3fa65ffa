// Package store abstracts the key-value persistence boundary. Progress,
// profiles and favorites are all JSON values under namespaced string keys, so
// any backend that can get, set, remove and scan by prefix works: the
// in-memory store backs tests and single-process runs, redis and mongo back
// shared deployments.
package store

import "context"

type KV interface {
	// Get returns the stored value, or ok=false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	// Remove is a no-op for absent keys.
	Remove(ctx context.Context, key string) error
	// Keys lists every stored key with the given prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
