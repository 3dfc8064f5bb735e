// Package kv stores opaque values under string keys. Every Aura record
// (accounts directory, session, per-account profile and logs) is one row.
package kv

import (
	"context"
)

type Repository interface {
	// Get returns nil, nil when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete is idempotent.
	Delete(ctx context.Context, key string) error
	// List returns all rows whose key starts with prefix. Empty prefix lists everything.
	List(ctx context.Context, prefix string) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
